// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"path/filepath"

	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveStreamInfoJSON saves the negotiated stream descriptor as JSON.
func (s *Sink) SaveStreamInfoJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "stream.json")
	return s.fs.WriteFile(path, data)
}

// SavePicture saves a realized picture's raw planes as one .yuv file.
// The layout and size go into the name so the dump plays back with
// standard raw video tools.
func (s *Sink) SavePicture(index int, pic *ports.Picture) error {
	dir := filepath.Join(s.baseDir, "pictures")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}

	var data []byte
	for p := 0; p < pic.Layout.PlaneCount(); p++ {
		rows := pic.Height
		if p > 0 {
			rows = (pic.Height + 1) / 2
		}
		data = append(data, pic.Planes[p][:rows*pic.Strides[p]]...)
	}

	name := fmt.Sprintf("picture-%05d-%dx%d.%s.yuv", index, pic.Width, pic.Height, pic.Layout)
	return s.fs.WriteFile(filepath.Join(dir, name), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
