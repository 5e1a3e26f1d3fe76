package mocks

import (
	"time"

	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// Clock is a manual clock for deterministic pacing tests. Sleep advances
// the clock instead of blocking.
type Clock struct {
	Current time.Time

	// Recorded calls for verification
	Sleeps []time.Duration
}

// NewClock returns a manual clock starting at a fixed instant.
func NewClock() *Clock {
	return &Clock{Current: time.Unix(1000, 0)}
}

func (m *Clock) Now() time.Time { return m.Current }

func (m *Clock) Sleep(d time.Duration) {
	m.Sleeps = append(m.Sleeps, d)
	m.Current = m.Current.Add(d)
}

// Advance moves the clock forward without recording a sleep.
func (m *Clock) Advance(d time.Duration) { m.Current = m.Current.Add(d) }

var _ ports.Clock = (*Clock)(nil)
