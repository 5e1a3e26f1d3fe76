package ports

import "errors"

var (
	// ErrEngineBusy is a transient submit rejection: the engine is
	// saturated and the unit should be discarded, not queued.
	ErrEngineBusy = errors.New("ports: engine busy")

	// ErrNoPictureReady terminates a drain pass: the engine holds no
	// decoded picture right now. More input may produce more pictures.
	ErrNoPictureReady = errors.New("ports: no picture ready")

	// ErrDecodeEnded signals the engine flushed its last picture and
	// will decode no more.
	ErrDecodeEnded = errors.New("ports: decode ended")
)

// EngineOptions configures a decoding engine for minimum latency.
type EngineOptions struct {
	// LowDelay disables intra-engine frame reordering/buffering where
	// the engine exposes such a control.
	LowDelay bool
	// Threads bounds internal parallelism on the software path.
	// 1 is the minimum-latency setting; 0 lets the engine choose.
	Threads int
	// TransferLayout is the pixel layout the session prefers for
	// accelerator-to-host transfers. The engine may ignore it when the
	// hardware dictates the layout.
	TransferLayout PixelLayout
}

// DecodeEngine is one configured decoding engine instance, hardware or
// software, bound to a single stream.
type DecodeEngine interface {
	// Name identifies the engine for logs, e.g. "h264_cuvid" or "h264".
	Name() string

	// Accelerated reports whether pictures yielded by ReceivePicture
	// are accelerator-resident and need a Transfer before host use.
	Accelerated() bool

	// Submit feeds one compressed unit. ErrEngineBusy is a transient
	// rejection; any other error is an engine fault for this unit.
	Submit(unit CompressedUnit) error

	// ReceivePicture yields the next decoded picture the engine holds.
	// ErrNoPictureReady and ErrDecodeEnded terminate a drain pass;
	// other errors are recoverable per-unit faults.
	ReceivePicture() (*Picture, error)

	// Transfer copies an accelerator-resident picture into dst's host
	// planes, setting dst's dimensions, layout and strides. dst's
	// backing buffer is reused across calls by the caller.
	Transfer(src, dst *Picture) error

	// Close releases the engine and any accelerator device context.
	Close() error
}

// EngineProvider locates decoding engines for a negotiated stream. Both
// lookups are independently fallible; hardware failure is expected and
// handled by falling back to software.
type EngineProvider interface {
	// HardwareEngine locates a hardware-specific engine for the
	// stream's codec and acquires its accelerator device context.
	HardwareEngine(desc StreamDescriptor, opts EngineOptions) (DecodeEngine, error)

	// SoftwareEngine opens the generic software engine for the codec.
	SoftwareEngine(desc StreamDescriptor, opts EngineOptions) (DecodeEngine, error)
}
