package ports

import "time"

// Clock abstracts wall-clock reads and bounded sleeps so the pacing gate
// and the driver's idle backoff stay deterministic under test.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the real clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
