// Package present implements the presentation surface manager: lazy
// per-layout surfaces, a zero-conversion fast path for natively
// displayable layouts, a cached pixel-format converter for the rest,
// and the pacing decision in front of every upload.
package present

import (
	"context"

	"github.com/ideamans/go-l10n"

	"github.com/Fuxill/WinCamStreamIOS/pkg/pipeline"
	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
	"github.com/Fuxill/WinCamStreamIOS/pkg/stages/pacing"
)

// fallbackLayout is the universal conversion target: planar 4:2:0 is
// displayable nearly everywhere.
const fallbackLayout = ports.LayoutPlanar420

// Manager owns every renderable surface and the cached converter. All
// cached structures are keyed to the current picture dimensions and are
// rebuilt together when those change.
type Manager struct {
	display ports.Display
	gate    *pacing.Gate
	clock   ports.Clock
	logger  ports.Logger

	dims     pipeline.Dimension
	surfaces map[ports.PixelLayout]ports.Surface
	conv     *converter

	direct     strategy
	converting strategy
}

// NewManager creates a manager over the display collaborator.
func NewManager(display ports.Display, gate *pacing.Gate, clock ports.Clock, logger ports.Logger) *Manager {
	m := &Manager{
		display:  display,
		gate:     gate,
		clock:    clock,
		logger:   logger.WithComponent("present"),
		surfaces: map[ports.PixelLayout]ports.Surface{},
	}
	m.direct = directStrategy{}
	m.converting = &convertingStrategy{manager: m}
	return m
}

// Prime allocates the initial fallback surface at the negotiated stream
// dimensions. A failure here is fatal to the run.
func (m *Manager) Prime(width, height int) error {
	m.dims = pipeline.Dimension{Width: width, Height: height}
	_, err := m.surfaceFor(m.dims, fallbackLayout)
	return err
}

// Execute pushes one realized picture toward the display. Every failure
// past setup is per-picture: the outcome records what happened and the
// pipeline moves on.
func (m *Manager) Execute(ctx context.Context, pic *ports.Picture) (pipeline.PresentOutcome, error) {
	dims := pipeline.Of(pic)
	if !m.dims.Zero() && dims != m.dims {
		m.logger.Info(l10n.F("Stream renegotiated to %dx%d, rebuilding surfaces", dims.Width, dims.Height))
		m.rebuild()
	}
	m.dims = dims

	// Exactly one dispatch site for the two presentation paths.
	strat := m.direct
	if !m.display.SupportsLayout(pic.Layout) {
		strat = m.converting
	}
	out, err := strat.prepare(pic)
	if err != nil {
		m.logger.Debug(l10n.F("Conversion failed, picture dropped: %s", err))
		return pipeline.DroppedConversion, nil
	}

	switch d := m.gate.Decide(m.clock.Now()); d.Action {
	case pacing.Drop:
		return pipeline.DroppedByPacing, nil
	case pacing.Wait:
		m.clock.Sleep(d.Wait)
	}

	surface, err := m.surfaceFor(dims, out.Layout)
	if err != nil {
		m.logger.Warn(l10n.F("Surface allocation failed: %s", err))
		return pipeline.SkippedNoSurface, nil
	}
	if err := surface.Update(out); err != nil {
		m.logger.Warn(l10n.F("Surface update failed: %s", err))
		return pipeline.SkippedNoSurface, nil
	}
	if err := surface.Present(); err != nil {
		m.logger.Warn(l10n.F("Present failed: %s", err))
		return pipeline.SkippedNoSurface, nil
	}
	m.gate.MarkPresented(m.clock.Now())
	return pipeline.Presented, nil
}

// Close destroys every surface.
func (m *Manager) Close() {
	m.rebuild()
	m.dims = pipeline.Dimension{}
}

// rebuild destroys all surfaces and invalidates the converter. Blocking
// for one frame's worth of setup is fine: renegotiation is rare.
func (m *Manager) rebuild() {
	for layout, s := range m.surfaces {
		s.Destroy()
		delete(m.surfaces, layout)
	}
	m.conv = nil
}

// surfaceFor returns the surface bound to the layout at the current
// dimensions, creating it on first need. At most one surface exists per
// layout.
func (m *Manager) surfaceFor(dims pipeline.Dimension, layout ports.PixelLayout) (ports.Surface, error) {
	if s, ok := m.surfaces[layout]; ok {
		return s, nil
	}
	s, err := m.display.CreateSurface(dims.Width, dims.Height, layout)
	if err != nil {
		return nil, err
	}
	m.surfaces[layout] = s
	return s, nil
}

var _ pipeline.Stage[*ports.Picture, pipeline.PresentOutcome] = (*Manager)(nil)
