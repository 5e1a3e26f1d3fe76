package mocks

import (
	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// DecodeEngine is a mock implementation of ports.DecodeEngine.
// Each Submit appends the pictures from the next entry of Yields to the
// internal ready queue; ReceivePicture pops from that queue and returns
// ports.ErrNoPictureReady when it is empty.
type DecodeEngine struct {
	EngineName  string
	IsHW        bool
	SubmitFunc  func(unit ports.CompressedUnit) error
	ReceiveFunc func() (*ports.Picture, error)
	TransferFunc func(src, dst *ports.Picture) error

	// Yields maps submit order to decoded pictures: Yields[i] are the
	// pictures made ready by the i-th successful Submit.
	Yields [][]*ports.Picture

	ready []*ports.Picture

	// Recorded calls for verification
	Submitted   []ports.CompressedUnit
	Received    int
	Transferred int
	CloseCalled bool
}

func (m *DecodeEngine) Name() string {
	if m.EngineName != "" {
		return m.EngineName
	}
	return "mock"
}

func (m *DecodeEngine) Accelerated() bool { return m.IsHW }

func (m *DecodeEngine) Submit(unit ports.CompressedUnit) error {
	if m.SubmitFunc != nil {
		if err := m.SubmitFunc(unit); err != nil {
			return err
		}
	}
	i := len(m.Submitted)
	m.Submitted = append(m.Submitted, unit)
	if i < len(m.Yields) {
		m.ready = append(m.ready, m.Yields[i]...)
	}
	return nil
}

func (m *DecodeEngine) ReceivePicture() (*ports.Picture, error) {
	m.Received++
	if m.ReceiveFunc != nil {
		return m.ReceiveFunc()
	}
	if len(m.ready) == 0 {
		return nil, ports.ErrNoPictureReady
	}
	pic := m.ready[0]
	m.ready = m.ready[1:]
	return pic, nil
}

func (m *DecodeEngine) Transfer(src, dst *ports.Picture) error {
	m.Transferred++
	if m.TransferFunc != nil {
		return m.TransferFunc(src, dst)
	}
	return nil
}

func (m *DecodeEngine) Close() error {
	m.CloseCalled = true
	return nil
}

var _ ports.DecodeEngine = (*DecodeEngine)(nil)

// EngineProvider is a mock implementation of ports.EngineProvider.
type EngineProvider struct {
	HW    *DecodeEngine
	HWErr error
	SW    *DecodeEngine
	SWErr error

	// Recorded calls for verification
	HardwareCalls []ports.EngineOptions
	SoftwareCalls []ports.EngineOptions
}

func (m *EngineProvider) HardwareEngine(desc ports.StreamDescriptor, opts ports.EngineOptions) (ports.DecodeEngine, error) {
	m.HardwareCalls = append(m.HardwareCalls, opts)
	if m.HWErr != nil {
		return nil, m.HWErr
	}
	return m.HW, nil
}

func (m *EngineProvider) SoftwareEngine(desc ports.StreamDescriptor, opts ports.EngineOptions) (ports.DecodeEngine, error) {
	m.SoftwareCalls = append(m.SoftwareCalls, opts)
	if m.SWErr != nil {
		return nil, m.SWErr
	}
	return m.SW, nil
}

var _ ports.EngineProvider = (*EngineProvider)(nil)

// AcceleratorFrame is a mock accelerator-resident frame handle.
type AcceleratorFrame struct {
	Released bool
}

func (m *AcceleratorFrame) Release() { m.Released = true }

var _ ports.AcceleratorFrame = (*AcceleratorFrame)(nil)
