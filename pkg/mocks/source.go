package mocks

import (
	"context"

	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// StreamSource is a mock implementation of ports.StreamSource.
// ReadNext pops from Units; when exhausted it returns EOFErr (defaulting
// to ports.ErrEndOfStream).
type StreamSource struct {
	OpenFunc     func(ctx context.Context) (ports.StreamDescriptor, error)
	ReadNextFunc func() (ports.CompressedUnit, error)

	Descriptor ports.StreamDescriptor
	Units      []ports.CompressedUnit
	EOFErr     error

	// Recorded calls for verification
	OpenCalled  bool
	ReadCount   int
	CloseCalled bool
}

func (m *StreamSource) Open(ctx context.Context) (ports.StreamDescriptor, error) {
	m.OpenCalled = true
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx)
	}
	return m.Descriptor, nil
}

func (m *StreamSource) ReadNext() (ports.CompressedUnit, error) {
	m.ReadCount++
	if m.ReadNextFunc != nil {
		return m.ReadNextFunc()
	}
	if len(m.Units) == 0 {
		if m.EOFErr != nil {
			return ports.CompressedUnit{}, m.EOFErr
		}
		return ports.CompressedUnit{}, ports.ErrEndOfStream
	}
	unit := m.Units[0]
	m.Units = m.Units[1:]
	return unit, nil
}

func (m *StreamSource) Close() error {
	m.CloseCalled = true
	return nil
}

var _ ports.StreamSource = (*StreamSource)(nil)
