// Package decode implements the decode session: feeding compressed
// units to the chosen engine and draining whatever pictures it holds
// ready, without ever accumulating backlog.
package decode

import (
	"errors"

	"github.com/ideamans/go-l10n"

	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// Stats counts per-unit events. Transient rejections and engine faults
// are expected under load; they never abort the pipeline.
type Stats struct {
	Submitted int
	Rejected  int
	Faulted   int
}

// Session wraps one decoding engine for one stream. The engine may hold
// any number of pictures internally; Drain retrieves whatever is ready.
type Session struct {
	engine ports.DecodeEngine
	logger ports.Logger
	stats  Stats
}

// NewSession creates a session over a ready engine.
func NewSession(engine ports.DecodeEngine, logger ports.Logger) *Session {
	return &Session{
		engine: engine,
		logger: logger.WithComponent("decode"),
	}
}

// Submit feeds one compressed unit to the engine. A saturated engine
// rejects the unit and the unit is discarded, not queued: this pipeline
// trades completeness for latency. Returns true when the engine accepted
// the unit and Drain should run.
func (s *Session) Submit(unit ports.CompressedUnit) bool {
	err := s.engine.Submit(unit)
	if err == nil {
		s.stats.Submitted++
		return true
	}
	if errors.Is(err, ports.ErrEngineBusy) {
		s.stats.Rejected++
		s.logger.Debug(l10n.T("Engine saturated, unit discarded"))
		return false
	}
	s.stats.Faulted++
	s.logger.Debug(l10n.F("Engine rejected unit, skipping: %s", err))
	return false
}

// Drain calls fn for every picture the engine currently holds ready.
// One submitted unit may yield zero, one or several pictures, so the
// driver must call Drain after every accepted Submit.
//
// End-of-stream and engine faults terminate the pass quietly; only an
// error from fn propagates.
func (s *Session) Drain(fn func(*ports.Picture) error) error {
	for {
		pic, err := s.engine.ReceivePicture()
		if err != nil {
			if errors.Is(err, ports.ErrNoPictureReady) || errors.Is(err, ports.ErrDecodeEnded) {
				return nil
			}
			// Genuine engine fault: abandon this unit's output and let
			// the driver continue with the next unit.
			s.stats.Faulted++
			s.logger.Debug(l10n.F("Decoder fault, output abandoned: %s", err))
			return nil
		}
		if err := fn(pic); err != nil {
			return err
		}
	}
}

// Stats returns the per-unit event counters.
func (s *Session) Stats() Stats {
	return s.stats
}

// Close releases the engine.
func (s *Session) Close() error {
	return s.engine.Close()
}
