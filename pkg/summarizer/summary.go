// Package summarizer provides summary generation for playback sessions.
package summarizer

import "time"

// Summary contains all data collected during a playback session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Stream information
	Stream StreamInfo

	// Decode engine information
	Engine EngineInfo

	// Playback settings
	Settings Settings

	// Per-picture outcome counts
	Playback PlaybackInfo
}

// StreamInfo describes the received stream.
type StreamInfo struct {
	URL    string
	Codec  string
	Width  int
	Height int
}

// EngineInfo describes the decode engine the session ended up using.
type EngineInfo struct {
	Name        string
	Accelerated bool
}

// Settings contains the playback configuration.
type Settings struct {
	Acceleration  string
	TargetFPS     float64
	DropWhenAhead bool
}

// PlaybackInfo counts what happened to every decoded picture.
type PlaybackInfo struct {
	Decoded           int
	Presented         int
	DroppedRealize    int
	DroppedPacing     int
	DroppedConversion int
	SkippedSurface    int
	DurationMs        int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithStream sets stream information.
func (b *Builder) WithStream(url, codec string, width, height int) *Builder {
	b.summary.Stream = StreamInfo{
		URL:    url,
		Codec:  codec,
		Width:  width,
		Height: height,
	}
	return b
}

// WithEngine sets decode engine information.
func (b *Builder) WithEngine(name string, accelerated bool) *Builder {
	b.summary.Engine = EngineInfo{
		Name:        name,
		Accelerated: accelerated,
	}
	return b
}

// WithSettings sets playback settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithPlayback sets per-picture outcome counts.
func (b *Builder) WithPlayback(playback PlaybackInfo) *Builder {
	b.summary.Playback = playback
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
