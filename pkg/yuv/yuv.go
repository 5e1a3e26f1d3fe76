// Package yuv provides host-memory picture allocation and pixel-layout
// conversion kernels for 4:2:0 video.
package yuv

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// NewPicture allocates a host-resident picture with tightly packed
// planes for the given layout.
func NewPicture(width, height int, layout ports.PixelLayout) (*ports.Picture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("yuv: invalid dimensions %dx%d", width, height)
	}
	cw, ch := chromaDims(width, height)
	pic := &ports.Picture{
		Width:  width,
		Height: height,
		Layout: layout,
	}
	switch layout {
	case ports.LayoutPlanar420:
		pic.Planes[0] = make([]byte, width*height)
		pic.Planes[1] = make([]byte, cw*ch)
		pic.Planes[2] = make([]byte, cw*ch)
		pic.Strides = [3]int{width, cw, cw}
	case ports.LayoutSemiPlanar420:
		pic.Planes[0] = make([]byte, width*height)
		pic.Planes[1] = make([]byte, 2*cw*ch)
		pic.Strides = [3]int{width, 2 * cw, 0}
	default:
		return nil, fmt.Errorf("yuv: cannot allocate host picture for layout %s", layout)
	}
	return pic, nil
}

// Convert fills dst from src. Supported source layouts are planar and
// semi-planar 4:2:0; dst must be a host picture allocated for its own
// dimensions and layout. When dimensions differ the planes are rescaled.
func Convert(src, dst *ports.Picture) error {
	if !src.HostResident() {
		return fmt.Errorf("yuv: source picture is not host resident")
	}
	if src.Width == dst.Width && src.Height == dst.Height {
		return convertSameSize(src, dst)
	}

	// Rescale path. Normalize the source to planar first so every
	// plane can be scaled independently.
	planar := src
	if src.Layout != ports.LayoutPlanar420 {
		tmp, err := NewPicture(src.Width, src.Height, ports.LayoutPlanar420)
		if err != nil {
			return err
		}
		if err := convertSameSize(src, tmp); err != nil {
			return err
		}
		planar = tmp
	}
	if dst.Layout != ports.LayoutPlanar420 {
		return fmt.Errorf("yuv: rescale target must be planar, got %s", dst.Layout)
	}
	scw, sch := chromaDims(planar.Width, planar.Height)
	dcw, dch := chromaDims(dst.Width, dst.Height)
	scalePlane(dst.Planes[0], dst.Strides[0], dst.Width, dst.Height,
		planar.Planes[0], planar.Strides[0], planar.Width, planar.Height)
	scalePlane(dst.Planes[1], dst.Strides[1], dcw, dch,
		planar.Planes[1], planar.Strides[1], scw, sch)
	scalePlane(dst.Planes[2], dst.Strides[2], dcw, dch,
		planar.Planes[2], planar.Strides[2], scw, sch)
	return nil
}

func convertSameSize(src, dst *ports.Picture) error {
	cw, ch := chromaDims(src.Width, src.Height)
	switch {
	case src.Layout == dst.Layout:
		copyPlane(dst.Planes[0], dst.Strides[0], src.Planes[0], src.Strides[0], src.Width, src.Height)
		if src.Layout == ports.LayoutPlanar420 {
			copyPlane(dst.Planes[1], dst.Strides[1], src.Planes[1], src.Strides[1], cw, ch)
			copyPlane(dst.Planes[2], dst.Strides[2], src.Planes[2], src.Strides[2], cw, ch)
		} else {
			copyPlane(dst.Planes[1], dst.Strides[1], src.Planes[1], src.Strides[1], 2*cw, ch)
		}
	case src.Layout == ports.LayoutSemiPlanar420 && dst.Layout == ports.LayoutPlanar420:
		copyPlane(dst.Planes[0], dst.Strides[0], src.Planes[0], src.Strides[0], src.Width, src.Height)
		deinterleaveChroma(dst, src, cw, ch)
	case src.Layout == ports.LayoutPlanar420 && dst.Layout == ports.LayoutSemiPlanar420:
		copyPlane(dst.Planes[0], dst.Strides[0], src.Planes[0], src.Strides[0], src.Width, src.Height)
		interleaveChroma(dst, src, cw, ch)
	default:
		return fmt.Errorf("yuv: unsupported conversion %s -> %s", src.Layout, dst.Layout)
	}
	return nil
}

func chromaDims(width, height int) (int, int) {
	return (width + 1) / 2, (height + 1) / 2
}

func copyPlane(dst []byte, dstStride int, src []byte, srcStride, width, height int) {
	for y := 0; y < height; y++ {
		copy(dst[y*dstStride:y*dstStride+width], src[y*srcStride:y*srcStride+width])
	}
}

// deinterleaveChroma splits an NV12 UV plane into separate U and V planes.
func deinterleaveChroma(dst, src *ports.Picture, cw, ch int) {
	for y := 0; y < ch; y++ {
		uv := src.Planes[1][y*src.Strides[1]:]
		u := dst.Planes[1][y*dst.Strides[1]:]
		v := dst.Planes[2][y*dst.Strides[2]:]
		for x := 0; x < cw; x++ {
			u[x] = uv[2*x]
			v[x] = uv[2*x+1]
		}
	}
}

// interleaveChroma packs separate U and V planes into an NV12 UV plane.
func interleaveChroma(dst, src *ports.Picture, cw, ch int) {
	for y := 0; y < ch; y++ {
		u := src.Planes[1][y*src.Strides[1]:]
		v := src.Planes[2][y*src.Strides[2]:]
		uv := dst.Planes[1][y*dst.Strides[1]:]
		for x := 0; x < cw; x++ {
			uv[2*x] = u[x]
			uv[2*x+1] = v[x]
		}
	}
}

// scalePlane rescales a single plane treated as an 8-bit grayscale image.
func scalePlane(dst []byte, dstStride, dw, dh int, src []byte, srcStride, sw, sh int) {
	dstImg := &image.Gray{Pix: dst, Stride: dstStride, Rect: image.Rect(0, 0, dw, dh)}
	srcImg := &image.Gray{Pix: src, Stride: srcStride, Rect: image.Rect(0, 0, sw, sh)}
	draw.ApproxBiLinear.Scale(dstImg, dstImg.Rect, srcImg, srcImg.Rect, draw.Src, nil)
}
