package mocks

import (
	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	EnabledValue bool

	// Recorded calls for verification
	StreamInfoJSON []byte
	SavedPictures  []int
}

func (m *DebugSink) Enabled() bool { return m.EnabledValue }

func (m *DebugSink) SaveStreamInfoJSON(data []byte) error {
	m.StreamInfoJSON = append([]byte(nil), data...)
	return nil
}

func (m *DebugSink) SavePicture(index int, pic *ports.Picture) error {
	m.SavedPictures = append(m.SavedPictures, index)
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)

// FileSystem is a mock implementation of ports.FileSystem backed by a map.
type FileSystem struct {
	Files map[string][]byte
	Dirs  map[string]bool
}

// NewFileSystem returns an empty in-memory file system.
func NewFileSystem() *FileSystem {
	return &FileSystem{Files: map[string][]byte{}, Dirs: map[string]bool{}}
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	m.Files[path] = append([]byte(nil), data...)
	return nil
}

func (m *FileSystem) MkdirAll(path string) error {
	m.Dirs[path] = true
	return nil
}

// GetFile returns the stored content of a file and whether it exists.
func (m *FileSystem) GetFile(path string) ([]byte, bool) {
	data, ok := m.Files[path]
	return data, ok
}

func (m *FileSystem) Exists(path string) (bool, error) {
	if _, ok := m.Files[path]; ok {
		return true, nil
	}
	return m.Dirs[path], nil
}

var _ ports.FileSystem = (*FileSystem)(nil)
