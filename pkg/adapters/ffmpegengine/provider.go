package ffmpegengine

/*
#cgo pkg-config: libavcodec libavutil
#include <libavcodec/avcodec.h>
#include <libavutil/hwcontext.h>
#include <stdlib.h>
#include "shim.h"
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// Provider opens libavcodec decode engines.
type Provider struct {
	logger ports.Logger
}

// NewProvider creates an engine provider.
func NewProvider(logger ports.Logger) *Provider {
	return &Provider{logger: logger}
}

// HardwareEngine opens the NVDEC decoder for the stream's codec. The
// decoder name follows FFmpeg's convention of suffixing the codec with
// "_cuvid" (h264_cuvid, hevc_cuvid).
func (p *Provider) HardwareEngine(desc ports.StreamDescriptor, opts ports.EngineOptions) (ports.DecodeEngine, error) {
	name := desc.Codec + "_cuvid"
	codec := findDecoder(name)
	if codec == nil {
		return nil, fmt.Errorf("decoder %s not available", name)
	}

	var device *C.AVBufferRef
	ret := C.av_hwdevice_ctx_create(&device, C.AV_HWDEVICE_TYPE_CUDA, nil, nil, 0)
	if ret < 0 {
		return nil, avError("create CUDA device context", ret)
	}

	ctx := C.avcodec_alloc_context3(codec)
	if ctx == nil {
		C.av_buffer_unref(&device)
		return nil, errors.New("allocate codec context")
	}
	ctx.hw_device_ctx = C.av_buffer_ref(device)
	// No decode-ahead surfaces: every queued surface is latency.
	ctx.extra_hw_frames = 0
	applyOptions(ctx, opts)
	C.install_pixel_format(ctx, C.AV_PIX_FMT_CUDA)

	if ret := C.avcodec_open2(ctx, codec, nil); ret < 0 {
		C.avcodec_free_context(&ctx)
		C.av_buffer_unref(&device)
		return nil, avError(fmt.Sprintf("open %s", name), ret)
	}

	return &Engine{
		name:        name,
		accelerated: true,
		ctx:         ctx,
		hwDevice:    device,
		pkt:         C.av_packet_alloc(),
		frame:       C.av_frame_alloc(),
		hwFormat:    C.AV_PIX_FMT_CUDA,
	}, nil
}

// SoftwareEngine opens the stock software decoder for the stream's codec.
func (p *Provider) SoftwareEngine(desc ports.StreamDescriptor, opts ports.EngineOptions) (ports.DecodeEngine, error) {
	codec := findDecoder(desc.Codec)
	if codec == nil {
		return nil, fmt.Errorf("decoder %s not available", desc.Codec)
	}

	ctx := C.avcodec_alloc_context3(codec)
	if ctx == nil {
		return nil, errors.New("allocate codec context")
	}
	applyOptions(ctx, opts)

	if ret := C.avcodec_open2(ctx, codec, nil); ret < 0 {
		C.avcodec_free_context(&ctx)
		return nil, avError(fmt.Sprintf("open %s", desc.Codec), ret)
	}

	return &Engine{
		name:     desc.Codec,
		ctx:      ctx,
		pkt:      C.av_packet_alloc(),
		frame:    C.av_frame_alloc(),
		hwFormat: C.AV_PIX_FMT_NONE,
	}, nil
}

var _ ports.EngineProvider = (*Provider)(nil)

func findDecoder(name string) *C.AVCodec {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return C.avcodec_find_decoder_by_name(cname)
}

func applyOptions(ctx *C.AVCodecContext, opts ports.EngineOptions) {
	if opts.LowDelay {
		ctx.flags |= C.AV_CODEC_FLAG_LOW_DELAY
		ctx.flags2 |= C.AV_CODEC_FLAG2_FAST
	}
	if opts.Threads > 0 {
		ctx.thread_count = C.int(opts.Threads)
	}
}
