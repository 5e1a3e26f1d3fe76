// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveStreamInfoJSON does nothing.
func (s *Sink) SaveStreamInfoJSON(data []byte) error {
	return nil
}

// SavePicture does nothing.
func (s *Sink) SavePicture(index int, pic *ports.Picture) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
