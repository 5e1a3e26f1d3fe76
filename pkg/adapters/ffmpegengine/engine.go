// Package ffmpegengine provides H.264 decode engines backed by libavcodec,
// with NVDEC hardware decoding and a software fallback.
package ffmpegengine

/*
#cgo pkg-config: libavcodec libavutil
#include <libavcodec/avcodec.h>
#include <libavutil/hwcontext.h>
#include <stdlib.h>
#include <string.h>

static int averror_eagain() { return AVERROR(EAGAIN); }
static int averror_eof() { return AVERROR_EOF; }
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
	"github.com/Fuxill/WinCamStreamIOS/pkg/yuv"
)

// Engine wraps one open libavcodec decoder context.
type Engine struct {
	name        string
	accelerated bool

	ctx      *C.AVCodecContext
	hwDevice *C.AVBufferRef
	pkt      *C.AVPacket
	frame    *C.AVFrame
	swFrame  *C.AVFrame // scratch frame for device-to-host transfers
	hwFormat C.int
}

func (e *Engine) Name() string { return e.name }

func (e *Engine) Accelerated() bool { return e.accelerated }

// Submit feeds one compressed access unit to the decoder.
func (e *Engine) Submit(unit ports.CompressedUnit) error {
	if len(unit.Data) == 0 {
		return nil
	}
	if ret := C.av_new_packet(e.pkt, C.int(len(unit.Data))); ret < 0 {
		return avError("allocate packet", ret)
	}
	C.memcpy(unsafe.Pointer(e.pkt.data), unsafe.Pointer(&unit.Data[0]), C.size_t(len(unit.Data)))

	ret := C.avcodec_send_packet(e.ctx, e.pkt)
	C.av_packet_unref(e.pkt)
	switch {
	case ret == 0:
		return nil
	case ret == C.averror_eagain():
		return ports.ErrEngineBusy
	case ret == C.averror_eof():
		return ports.ErrDecodeEnded
	default:
		return avError("send packet", ret)
	}
}

// ReceivePicture pulls the next decoded picture if one is ready.
// Hardware sessions hand back an accelerator-resident picture whose data
// stays on the device until Transfer is called.
func (e *Engine) ReceivePicture() (*ports.Picture, error) {
	ret := C.avcodec_receive_frame(e.ctx, e.frame)
	switch {
	case ret == C.averror_eagain():
		return nil, ports.ErrNoPictureReady
	case ret == C.averror_eof():
		return nil, ports.ErrDecodeEnded
	case ret < 0:
		return nil, avError("receive frame", ret)
	}

	if C.int(e.frame.format) == e.hwFormat && e.accelerated {
		return e.takeResident()
	}
	return e.copyToHost()
}

// takeResident moves the decoded frame reference into a standalone handle
// so the context's working frame stays reusable.
func (e *Engine) takeResident() (*ports.Picture, error) {
	held := C.av_frame_alloc()
	if held == nil {
		C.av_frame_unref(e.frame)
		return nil, errors.New("allocate frame handle")
	}
	C.av_frame_move_ref(held, e.frame)
	return &ports.Picture{
		Width:    int(held.width),
		Height:   int(held.height),
		Layout:   ports.LayoutAccelerator,
		Resident: &residentFrame{frame: held},
	}, nil
}

func (e *Engine) copyToHost() (*ports.Picture, error) {
	defer C.av_frame_unref(e.frame)

	var layout ports.PixelLayout
	switch e.frame.format {
	case C.AV_PIX_FMT_YUV420P, C.AV_PIX_FMT_YUVJ420P:
		layout = ports.LayoutPlanar420
	case C.AV_PIX_FMT_NV12:
		layout = ports.LayoutSemiPlanar420
	default:
		return nil, fmt.Errorf("unsupported decoder output format %d", int(e.frame.format))
	}

	pic, err := yuv.NewPicture(int(e.frame.width), int(e.frame.height), layout)
	if err != nil {
		return nil, err
	}
	for p := 0; p < layout.PlaneCount(); p++ {
		copyPlane(pic, p, e.frame.data[p], int(e.frame.linesize[p]))
	}
	return pic, nil
}

// Transfer copies an accelerator-resident picture into host memory. dst
// must be an allocated semi-planar host picture of matching size.
func (e *Engine) Transfer(src, dst *ports.Picture) error {
	resident, ok := src.Resident.(*residentFrame)
	if !ok || resident.frame == nil {
		return errors.New("source picture is not accelerator resident")
	}
	if dst.Layout != ports.LayoutSemiPlanar420 {
		return fmt.Errorf("transfer target must be semi-planar, got %s", dst.Layout)
	}

	if e.swFrame == nil {
		e.swFrame = C.av_frame_alloc()
		if e.swFrame == nil {
			return errors.New("allocate transfer frame")
		}
	}
	C.av_frame_unref(e.swFrame)
	e.swFrame.format = C.AV_PIX_FMT_NV12
	if ret := C.av_hwframe_transfer_data(e.swFrame, resident.frame, 0); ret < 0 {
		return avError("transfer frame to host", ret)
	}
	if e.swFrame.format != C.AV_PIX_FMT_NV12 {
		C.av_frame_unref(e.swFrame)
		return fmt.Errorf("device transfer produced format %d", int(e.swFrame.format))
	}

	for p := 0; p < 2; p++ {
		copyPlane(dst, p, e.swFrame.data[p], int(e.swFrame.linesize[p]))
	}
	C.av_frame_unref(e.swFrame)
	return nil
}

// Close releases the decoder context and everything it owns.
func (e *Engine) Close() error {
	if e.swFrame != nil {
		C.av_frame_free(&e.swFrame)
	}
	if e.frame != nil {
		C.av_frame_free(&e.frame)
	}
	if e.pkt != nil {
		C.av_packet_free(&e.pkt)
	}
	if e.ctx != nil {
		C.avcodec_free_context(&e.ctx)
	}
	if e.hwDevice != nil {
		C.av_buffer_unref(&e.hwDevice)
	}
	return nil
}

var _ ports.DecodeEngine = (*Engine)(nil)

// residentFrame keeps a decoded frame on the accelerator until released.
type residentFrame struct {
	frame *C.AVFrame
}

func (r *residentFrame) Release() {
	if r.frame != nil {
		C.av_frame_free(&r.frame)
	}
}

var _ ports.AcceleratorFrame = (*residentFrame)(nil)

// copyPlane copies one plane row by row, collapsing the source stride to
// the picture's own.
func copyPlane(pic *ports.Picture, plane int, src *C.uint8_t, srcStride int) {
	rows := pic.Height
	if plane > 0 {
		rows = (pic.Height + 1) / 2
	}
	width := pic.Strides[plane]
	data := unsafe.Slice((*byte)(unsafe.Pointer(src)), srcStride*rows)
	for y := 0; y < rows; y++ {
		copy(pic.Planes[plane][y*width:(y+1)*width], data[y*srcStride:y*srcStride+width])
	}
}

func avError(op string, code C.int) error {
	buf := make([]byte, C.AV_ERROR_MAX_STRING_SIZE)
	C.av_strerror(code, (*C.char)(unsafe.Pointer(&buf[0])), C.AV_ERROR_MAX_STRING_SIZE)
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return fmt.Errorf("%s: %s", op, string(buf[:n]))
}
