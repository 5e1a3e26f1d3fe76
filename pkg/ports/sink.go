package ports

// DebugSink abstracts debug output for intermediate pipeline results.
// It allows dumping realized pictures and stream metadata for inspection
// without touching the hot path when disabled.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveStreamInfoJSON saves the negotiated stream descriptor as JSON.
	SaveStreamInfoJSON(data []byte) error

	// SavePicture saves a realized picture's raw planes.
	SavePicture(index int, pic *Picture) error
}
