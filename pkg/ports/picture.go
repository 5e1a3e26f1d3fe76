package ports

// PixelLayout identifies how a decoded picture's samples are arranged.
type PixelLayout int

const (
	// LayoutUnknown is the zero value; no pipeline stage produces it.
	LayoutUnknown PixelLayout = iota
	// LayoutPlanar420 is I420: three separate planes (Y, U, V) with
	// chroma subsampled 2x2. The common software-decoder output and the
	// universal display fallback.
	LayoutPlanar420
	// LayoutSemiPlanar420 is NV12: a Y plane plus one interleaved UV
	// plane. The common accelerator transfer output.
	LayoutSemiPlanar420
	// LayoutAccelerator marks a picture whose data lives in
	// accelerator-local memory and must be transferred before any
	// host-side stage can touch it.
	LayoutAccelerator
)

// String returns the layout name used in logs and debug filenames.
func (l PixelLayout) String() string {
	switch l {
	case LayoutPlanar420:
		return "i420"
	case LayoutSemiPlanar420:
		return "nv12"
	case LayoutAccelerator:
		return "accel"
	default:
		return "unknown"
	}
}

// PlaneCount returns the number of host-addressable planes for the layout.
// Accelerator-resident pictures have none until realized.
func (l PixelLayout) PlaneCount() int {
	switch l {
	case LayoutPlanar420:
		return 3
	case LayoutSemiPlanar420:
		return 2
	default:
		return 0
	}
}

// AcceleratorFrame is an opaque handle to picture data resident on an
// accelerator device. The owning engine releases the device memory when
// Release is called; after that the handle must not be used.
type AcceleratorFrame interface {
	Release()
}

// Picture is one decoded video picture flowing through the pipeline.
//
// Ownership: the decode session owns a picture until it hands it to
// realization, which either forwards it unchanged (host-resident) or
// produces a new host-resident picture and releases the accelerator one.
type Picture struct {
	Width  int
	Height int
	Layout PixelLayout

	// Planes and Strides are populated for host-resident layouts only;
	// unused entries are nil/zero.
	Planes  [3][]byte
	Strides [3]int

	// Resident is non-nil exactly when Layout is LayoutAccelerator.
	Resident AcceleratorFrame
}

// HostResident reports whether the picture's planes are addressable by
// the host.
func (p *Picture) HostResident() bool {
	return p.Layout != LayoutAccelerator
}
