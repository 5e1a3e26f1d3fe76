// Package accel implements decoding engine selection: hardware-first
// with graceful software fallback, configured for minimum latency.
package accel

import (
	"fmt"

	"github.com/ideamans/go-l10n"

	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// Preference selects the acceleration policy for a run.
type Preference int

const (
	// PreferHardware tries the hardware engine first and falls back to
	// software on any acquisition failure.
	PreferHardware Preference = iota
	// SoftwareOnly never touches the accelerator.
	SoftwareOnly
)

// Selection is a ready decoding engine plus whether its pictures will be
// accelerator-resident.
type Selection struct {
	Engine      ports.DecodeEngine
	Accelerated bool
}

// Manager owns engine selection for one stream.
type Manager struct {
	provider ports.EngineProvider
	logger   ports.Logger
}

// NewManager creates a selection manager over the given engine provider.
func NewManager(provider ports.EngineProvider, logger ports.Logger) *Manager {
	return &Manager{
		provider: provider,
		logger:   logger.WithComponent("accel"),
	}
}

// Select produces a ready engine for the negotiated stream.
//
// Hardware acquisition failure is a degradation, not an error: it is
// logged and the software engine is used instead. A software engine
// failure is fatal and returned to the caller.
func (m *Manager) Select(desc ports.StreamDescriptor, pref Preference) (Selection, error) {
	if pref == PreferHardware {
		opts := ports.EngineOptions{
			LowDelay:       true,
			TransferLayout: ports.LayoutSemiPlanar420,
		}
		engine, err := m.provider.HardwareEngine(desc, opts)
		if err == nil {
			m.logger.Info(l10n.F("Using hardware decoder %s", engine.Name()))
			return Selection{Engine: engine, Accelerated: engine.Accelerated()}, nil
		}
		m.logger.Warn(l10n.F("Hardware decoder unavailable, falling back to software: %s", err))
	}

	// Software path: a single decode thread keeps latency minimal and
	// predictable at the cost of throughput.
	opts := ports.EngineOptions{
		LowDelay: true,
		Threads:  1,
	}
	engine, err := m.provider.SoftwareEngine(desc, opts)
	if err != nil {
		return Selection{}, fmt.Errorf("open software decoder for %s: %w", desc.Codec, err)
	}
	m.logger.Info(l10n.F("Using software decoder %s", engine.Name()))
	return Selection{Engine: engine, Accelerated: engine.Accelerated()}, nil
}
