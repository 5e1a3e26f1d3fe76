package ports

import (
	"context"
	"errors"
)

var (
	// ErrWouldBlock is returned by ReadNext when no complete compressed
	// unit is available yet. The caller should idle briefly and retry;
	// it is not an error condition.
	ErrWouldBlock = errors.New("ports: no data available")

	// ErrEndOfStream is returned by ReadNext when the source has
	// delivered its last unit and will produce no more.
	ErrEndOfStream = errors.New("ports: end of stream")
)

// StreamDescriptor describes the elementary stream negotiated when a
// source is opened. It stays immutable until a new stream is opened;
// mid-stream renegotiation is observed through picture dimensions, not
// through the descriptor.
type StreamDescriptor struct {
	// Codec is the bitstream codec name, e.g. "h264".
	Codec string
	// Width and Height are the natural dimensions discovered during the
	// open probe. Zero when the probe could not determine them.
	Width  int
	Height int
	// StreamIndex tags units belonging to the selected stream. Units
	// carrying a different index are discarded by the driver.
	StreamIndex int
}

// CompressedUnit is one opaque access unit of the compressed bitstream.
// It is produced by the ingest collaborator, consumed exactly once by the
// decode session, then released (the session must not retain Data).
type CompressedUnit struct {
	Data        []byte
	StreamIndex int
}

// StreamSource abstracts the ingest collaborator delivering the
// compressed elementary stream. Framing of the bitstream into access
// units is the source's concern.
type StreamSource interface {
	// Open connects to the source and negotiates the stream descriptor.
	// A failure here is fatal to the run.
	Open(ctx context.Context) (StreamDescriptor, error)

	// ReadNext returns the next compressed unit without blocking
	// indefinitely: ErrWouldBlock means "idle, retry shortly" and
	// ErrEndOfStream means the stream ended deliberately.
	ReadNext() (CompressedUnit, error)

	// Close releases the connection.
	Close() error
}
