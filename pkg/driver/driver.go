// Package driver runs the top-level pipeline loop: pull compressed
// units, decode, realize, present; react to dimension changes and stop
// signals. One logical thread drives everything; every suspension point
// is a non-blocking poll with a bounded local wait.
package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/Fuxill/WinCamStreamIOS/pkg/pipeline"
	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
	"github.com/Fuxill/WinCamStreamIOS/pkg/stages/accel"
	"github.com/Fuxill/WinCamStreamIOS/pkg/stages/decode"
	"github.com/Fuxill/WinCamStreamIOS/pkg/stages/pacing"
	"github.com/Fuxill/WinCamStreamIOS/pkg/stages/present"
	"github.com/Fuxill/WinCamStreamIOS/pkg/stages/realize"
)

// State is the driver's lifecycle phase.
type State int

const (
	Opening State = iota
	Streaming
	Stopping
	Closed
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case Opening:
		return "opening"
	case Streaming:
		return "streaming"
	case Stopping:
		return "stopping"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Config holds the run-static pipeline settings.
type Config struct {
	// Preference selects hardware-first or software-only decoding.
	Preference accel.Preference
	// TargetFPS is the presentation cadence; 0 means free-run.
	TargetFPS float64
	// DropWhenAhead discards early pictures instead of waiting.
	DropWhenAhead bool
	// IdleBackoff is the sleep after an empty ingest read.
	IdleBackoff time.Duration
	// FallbackWidth/FallbackHeight size the initial surface when the
	// probe could not determine the stream's natural dimensions.
	FallbackWidth  int
	FallbackHeight int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Preference:     accel.PreferHardware,
		TargetFPS:      0,
		DropWhenAhead:  true,
		IdleBackoff:    time.Millisecond,
		FallbackWidth:  1920,
		FallbackHeight: 1080,
	}
}

// RunStats counts what happened to every decoded picture, and records
// which stream and engine the run used.
type RunStats struct {
	Decoded           int
	Presented         int
	DroppedRealize    int
	DroppedPacing     int
	DroppedConversion int
	SkippedSurface    int

	Codec       string
	Width       int
	Height      int
	Engine      string
	Accelerated bool
	Duration    time.Duration
}

// Driver wires the stages together and owns the state machine.
type Driver struct {
	source    ports.StreamSource
	selection *accel.Manager
	display   ports.Display
	clock     ports.Clock
	sink      ports.DebugSink
	logger    ports.Logger
	cfg       Config

	state State
}

// New creates a driver. The display stays owned by the caller; the
// driver owns everything it opens itself (source session, engine,
// surfaces) and releases it in reverse-acquisition order.
func New(
	source ports.StreamSource,
	selection *accel.Manager,
	display ports.Display,
	clock ports.Clock,
	sink ports.DebugSink,
	logger ports.Logger,
	cfg Config,
) *Driver {
	if cfg.IdleBackoff <= 0 {
		cfg.IdleBackoff = time.Millisecond
	}
	return &Driver{
		source:    source,
		selection: selection,
		display:   display,
		clock:     clock,
		sink:      sink,
		logger:    logger.WithComponent("driver"),
		cfg:       cfg,
	}
}

// State returns the current lifecycle phase.
func (d *Driver) State() State {
	return d.state
}

// Run executes the pipeline until the stream ends, a stop signal
// arrives, or a fatal error occurs. Any failure while opening is fatal;
// past that, only a broken display path aborts the run.
func (d *Driver) Run(ctx context.Context) (RunStats, error) {
	d.state = Opening
	stats := RunStats{}

	desc, err := d.source.Open(ctx)
	if err != nil {
		d.state = Closed
		return stats, fmt.Errorf("open stream: %w", err)
	}

	sel, err := d.selection.Select(desc, d.cfg.Preference)
	if err != nil {
		d.source.Close()
		d.state = Closed
		return stats, err
	}
	stats.Codec = desc.Codec
	stats.Width, stats.Height = desc.Width, desc.Height
	stats.Engine = sel.Engine.Name()
	stats.Accelerated = sel.Accelerated

	session := decode.NewSession(sel.Engine, d.logger)
	realizer := realize.NewRealizer(sel.Engine, d.logger)
	gate := pacing.NewGate(pacing.IntervalForFPS(d.cfg.TargetFPS), d.cfg.DropWhenAhead)
	presenter := present.NewManager(d.display, gate, d.clock, d.logger)

	width, height := desc.Width, desc.Height
	if width <= 0 || height <= 0 {
		width, height = d.cfg.FallbackWidth, d.cfg.FallbackHeight
	}
	if err := presenter.Prime(width, height); err != nil {
		session.Close()
		d.source.Close()
		d.state = Closed
		return stats, fmt.Errorf("create initial surface: %w", err)
	}

	if d.sink.Enabled() {
		if data, err := json.MarshalIndent(desc, "", "  "); err == nil {
			d.sink.SaveStreamInfoJSON(data)
		}
	}
	d.logger.Info(l10n.F("Streaming %s %dx%d with %s", desc.Codec, width, height, sel.Engine.Name()))

	d.state = Streaming
	started := d.clock.Now()
	runErr := d.stream(ctx, desc, session, realizer, presenter, &stats)
	stats.Duration = d.clock.Now().Sub(started)

	d.state = Stopping
	presenter.Close()
	if err := session.Close(); err != nil {
		d.logger.Warn(l10n.F("Engine close failed: %s", err))
	}
	if err := d.source.Close(); err != nil {
		d.logger.Warn(l10n.F("Source close failed: %s", err))
	}
	d.state = Closed

	d.logger.Info(l10n.F("Presented %d of %d decoded pictures", stats.Presented, stats.Decoded))
	return stats, runErr
}

// stream is the STREAMING loop body.
func (d *Driver) stream(
	ctx context.Context,
	desc ports.StreamDescriptor,
	session *decode.Session,
	realizer *realize.Realizer,
	presenter *present.Manager,
	stats *RunStats,
) error {
	for {
		// Stop signals are observed once per iteration; a picture in
		// flight always completes or is dropped by its own stage.
		if ctx.Err() != nil {
			d.logger.Info(l10n.T("Stop requested, shutting down"))
			return nil
		}
		if d.display.PollStop() {
			d.logger.Info(l10n.T("Display requested stop"))
			return nil
		}

		unit, err := d.source.ReadNext()
		if err != nil {
			if errors.Is(err, ports.ErrEndOfStream) {
				d.logger.Info(l10n.T("End of stream"))
				return nil
			}
			// ErrWouldBlock and transient read faults both mean
			// "idle, retry shortly".
			d.clock.Sleep(d.cfg.IdleBackoff)
			continue
		}
		if unit.StreamIndex != desc.StreamIndex {
			continue
		}

		if !session.Submit(unit) {
			continue
		}
		if err := session.Drain(func(pic *ports.Picture) error {
			return d.process(ctx, pic, realizer, presenter, stats)
		}); err != nil {
			return err
		}
	}
}

// process pushes one decoded picture through realization and
// presentation, updating the run counters.
func (d *Driver) process(
	ctx context.Context,
	pic *ports.Picture,
	realizer *realize.Realizer,
	presenter *present.Manager,
	stats *RunStats,
) error {
	stats.Decoded++

	realized, err := realizer.Execute(ctx, pic)
	if err != nil {
		if errors.Is(err, pipeline.ErrPictureDropped) {
			stats.DroppedRealize++
			return nil
		}
		return err
	}

	if d.sink.Enabled() {
		d.sink.SavePicture(stats.Decoded-1, realized)
	}

	outcome, err := presenter.Execute(ctx, realized)
	if err != nil {
		return err
	}
	switch outcome {
	case pipeline.Presented:
		stats.Presented++
	case pipeline.DroppedByPacing:
		stats.DroppedPacing++
	case pipeline.DroppedConversion:
		stats.DroppedConversion++
	case pipeline.SkippedNoSurface:
		stats.SkippedSurface++
	}
	return nil
}
