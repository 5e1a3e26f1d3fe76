package filesink

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/Fuxill/WinCamStreamIOS/pkg/mocks"
	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
	"github.com/Fuxill/WinCamStreamIOS/pkg/yuv"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("debug")

func TestSink_Enabled(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveStreamInfoJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	data := []byte(`{"codec": "h264"}`)
	err := sink.SaveStreamInfoJSON(data)
	if err != nil {
		t.Fatalf("SaveStreamInfoJSON failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "stream.json")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_SavePicturePlanar(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	pic, err := yuv.NewPicture(4, 4, ports.LayoutPlanar420)
	if err != nil {
		t.Fatalf("NewPicture failed: %v", err)
	}
	for i := range pic.Planes[0] {
		pic.Planes[0][i] = 0x10
	}
	for i := range pic.Planes[1] {
		pic.Planes[1][i] = 0x20
	}
	for i := range pic.Planes[2] {
		pic.Planes[2][i] = 0x30
	}

	if err := sink.SavePicture(7, pic); err != nil {
		t.Fatalf("SavePicture failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "pictures", "picture-00007-4x4.i420.yuv")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}

	var want []byte
	want = append(want, bytes.Repeat([]byte{0x10}, 16)...)
	want = append(want, bytes.Repeat([]byte{0x20}, 4)...)
	want = append(want, bytes.Repeat([]byte{0x30}, 4)...)
	if !bytes.Equal(saved, want) {
		t.Errorf("unexpected dump content: %x", saved)
	}
}

func TestSink_SavePictureSemiPlanar(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	pic, err := yuv.NewPicture(4, 4, ports.LayoutSemiPlanar420)
	if err != nil {
		t.Fatalf("NewPicture failed: %v", err)
	}
	if err := sink.SavePicture(0, pic); err != nil {
		t.Fatalf("SavePicture failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "pictures", "picture-00000-4x4.nv12.yuv")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	// 16 luma bytes plus 8 interleaved chroma bytes.
	if len(saved) != 24 {
		t.Errorf("expected 24 bytes, got %d", len(saved))
	}
}
