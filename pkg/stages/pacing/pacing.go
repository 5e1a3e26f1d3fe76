// Package pacing implements the presentation pacing gate: a local,
// per-picture present/drop/wait decision against a target cadence.
package pacing

import (
	"time"
)

// MaxWait caps the wait branch so the pipeline never sleeps longer than
// one short scheduling quantum, regardless of how far ahead it runs.
const MaxWait = 10 * time.Millisecond

// Action is the gate's verdict for one realized picture.
type Action int

const (
	// PresentNow presents the picture immediately.
	PresentNow Action = iota
	// Drop discards the picture to stay close to live.
	Drop
	// Wait sleeps the decision's Wait duration, then presents.
	Wait
)

// Decision carries the action and, for Wait, the sleep duration.
type Decision struct {
	Action Action
	Wait   time.Duration
}

// Gate holds the pacing state: the last presentation timestamp and the
// target inter-frame interval. Only the gate mutates this state.
//
// An interval of zero means free-run: every picture presents immediately.
type Gate struct {
	interval      time.Duration
	dropWhenAhead bool
	last          time.Time
}

// NewGate creates a gate for the given target interval. dropWhenAhead
// selects the drop branch over the wait branch when a picture arrives
// early.
func NewGate(interval time.Duration, dropWhenAhead bool) *Gate {
	return &Gate{interval: interval, dropWhenAhead: dropWhenAhead}
}

// IntervalForFPS converts a frames-per-second cadence to a gate interval.
// fps <= 0 yields zero, i.e. free-run.
func IntervalForFPS(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

// Decide returns the verdict for a picture realized at now. It never
// buffers the picture: Drop means gone, and Wait is bounded by MaxWait.
func (g *Gate) Decide(now time.Time) Decision {
	if g.interval <= 0 {
		return Decision{Action: PresentNow}
	}
	if g.last.IsZero() {
		return Decision{Action: PresentNow}
	}
	elapsed := now.Sub(g.last)
	if elapsed >= g.interval {
		return Decision{Action: PresentNow}
	}
	if g.dropWhenAhead {
		// The timestamp stays untouched so the next on-time picture
		// still measures against the last actual presentation.
		return Decision{Action: Drop}
	}
	wait := g.interval - elapsed
	if wait > MaxWait {
		wait = MaxWait
	}
	return Decision{Action: Wait, Wait: wait}
}

// MarkPresented records a presentation at now.
func (g *Gate) MarkPresented(now time.Time) {
	g.last = now
}
