package tcpingest

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/Fuxill/WinCamStreamIOS/pkg/adapters/logger"
	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// A 1280x720 high profile SPS, raw NAL data with header byte.
var sps720p = []byte{
	0x67, 0x64, 0x00, 0x1f, 0xac, 0xd9, 0x40, 0x50,
	0x05, 0xbb, 0xff, 0x00, 0x03, 0x00, 0x04, 0x6a,
	0x02, 0x02, 0x02, 0x80, 0x00, 0x01, 0xf4, 0x80,
	0x00, 0x5d, 0xc0, 0x07, 0x8c, 0x18, 0xcb,
}

var startCode = []byte{0, 0, 0, 1}

// nal prefixes raw NAL data with a 4-byte start code.
func nal(data ...byte) []byte {
	return append(append([]byte{}, startCode...), data...)
}

// idrSlice builds an IDR NAL whose first_mb_in_slice is zero, so it
// opens a new access unit.
func idrSlice(payload byte) []byte {
	return nal(0x65, 0x88, payload)
}

func nonIDRSlice(payload byte) []byte {
	return nal(0x41, 0x9a, payload)
}

func TestScanNALUnits(t *testing.T) {
	var buf []byte
	buf = append(buf, nal(0x67, 0xAA)...)
	buf = append(buf, 0, 0, 1, 0x68, 0xBB) // 3-byte start code
	buf = append(buf, idrSlice(1)...)

	units, tail := scanNALUnits(buf)
	if len(units) != 2 {
		t.Fatalf("expected 2 complete units, got %d", len(units))
	}
	if units[0].nalType != nalTypeSPS || units[1].nalType != nalTypePPS {
		t.Errorf("unexpected types %d, %d", units[0].nalType, units[1].nalType)
	}
	// The IDR at the end has no terminating start code yet.
	if tail >= len(buf) {
		t.Error("expected an open trailing unit")
	}
}

func TestAssemblerSplitsAtAccessUnitBoundary(t *testing.T) {
	var a auAssembler
	a.Push(nal(0x09, 0x10)) // AUD
	a.Push(idrSlice(1))
	a.Push(nal(0x09, 0x10)) // next AUD terminates the first unit
	a.Push(idrSlice(2))

	au, ok := a.Next()
	if !ok {
		t.Fatal("expected a complete access unit")
	}
	want := append(append([]byte{}, nal(0x09, 0x10)...), idrSlice(1)...)
	if !bytes.Equal(au, want) {
		t.Errorf("unexpected unit bytes: %x", au)
	}

	// The second unit still lacks a terminator.
	if _, ok := a.Next(); ok {
		t.Error("expected no further complete unit")
	}
}

func TestAssemblerSplitsOnFirstMacroblock(t *testing.T) {
	var a auAssembler
	// Two pictures with no AUD between them: the second slice's
	// first_mb_in_slice of zero is the boundary.
	a.Push(nonIDRSlice(1))
	a.Push(nonIDRSlice(2))
	a.Push(nonIDRSlice(3))

	au, ok := a.Next()
	if !ok {
		t.Fatal("expected a complete access unit")
	}
	if !bytes.Equal(au, nonIDRSlice(1)) {
		t.Errorf("unexpected unit bytes: %x", au)
	}
	au, ok = a.Next()
	if !ok {
		t.Fatal("expected a second complete access unit")
	}
	if !bytes.Equal(au, nonIDRSlice(2)) {
		t.Errorf("unexpected unit bytes: %x", au)
	}
}

func TestAssemblerKeepsParameterSetsWithPicture(t *testing.T) {
	var a auAssembler
	a.Push(nal(sps720p...))
	a.Push(nal(0x68, 0xBB)) // PPS
	a.Push(idrSlice(1))
	a.Push(nal(sps720p...)) // next IDR's parameter sets
	a.Push(nal(0x68, 0xBB))
	a.Push(idrSlice(2))

	au, ok := a.Next()
	if !ok {
		t.Fatal("expected a complete access unit")
	}
	var want []byte
	want = append(want, nal(sps720p...)...)
	want = append(want, nal(0x68, 0xBB)...)
	want = append(want, idrSlice(1)...)
	if !bytes.Equal(au, want) {
		t.Errorf("SPS and PPS must stay with their picture, got %x", au)
	}
}

func TestAssemblerIncompleteData(t *testing.T) {
	var a auAssembler
	a.Push(startCode)
	a.Push([]byte{0x65, 0x88})
	if _, ok := a.Next(); ok {
		t.Error("a single open NAL unit is not a complete access unit")
	}
}

func TestProbeDimensions(t *testing.T) {
	var buf []byte
	buf = append(buf, nal(sps720p...)...)
	buf = append(buf, nal(0x68, 0xBB)...)
	buf = append(buf, idrSlice(1)...)

	w, h, err := probeDimensions(buf)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if w != 1280 || h != 720 {
		t.Errorf("expected 1280x720, got %dx%d", w, h)
	}
}

func TestProbeDimensionsTrailingSPS(t *testing.T) {
	// An SPS that is the only NAL unit so far, with no terminator.
	w, h, err := probeDimensions(nal(sps720p...))
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if w != 1280 || h != 720 {
		t.Errorf("expected 1280x720, got %dx%d", w, h)
	}
}

func TestProbeDimensionsNoSPS(t *testing.T) {
	var buf []byte
	buf = append(buf, nal(0x68, 0xBB)...)
	buf = append(buf, idrSlice(1)...)
	if _, _, err := probeDimensions(buf); !errors.Is(err, errNoSPS) {
		t.Errorf("expected errNoSPS, got %v", err)
	}
}

// serve starts a loopback TCP sender that writes payload once a client
// connects, then optionally keeps the connection open.
func serve(t *testing.T, payload []byte, keepOpen bool) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Write(payload)
		if keepOpen {
			time.Sleep(2 * time.Second)
		}
		conn.Close()
	}()
	return ln.Addr().String()
}

func streamPayload() []byte {
	var buf []byte
	buf = append(buf, nal(sps720p...)...)
	buf = append(buf, nal(0x68, 0xBB)...)
	buf = append(buf, idrSlice(1)...)
	buf = append(buf, nonIDRSlice(2)...)
	buf = append(buf, nonIDRSlice(3)...)
	return buf
}

func TestSourceOpenProbesStream(t *testing.T) {
	addr := serve(t, streamPayload(), true)
	src := New("tcp://"+addr, 131072, logger.NewNoop())
	defer src.Close()

	desc, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if desc.Codec != "h264" {
		t.Errorf("expected codec h264, got %s", desc.Codec)
	}
	if desc.Width != 1280 || desc.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", desc.Width, desc.Height)
	}
}

func TestSourceDeliversProbedUnits(t *testing.T) {
	addr := serve(t, streamPayload(), true)
	src := New(addr, 131072, logger.NewNoop())
	defer src.Close()

	if _, err := src.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	// Two units are complete: the IDR group and the first non-IDR
	// picture. The last picture stays open until more data arrives.
	var units []ports.CompressedUnit
	deadline := time.Now().Add(2 * time.Second)
	for len(units) < 2 && time.Now().Before(deadline) {
		unit, err := src.ReadNext()
		if err != nil {
			if errors.Is(err, ports.ErrWouldBlock) {
				continue
			}
			t.Fatalf("read: %v", err)
		}
		units = append(units, unit)
	}
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if !bytes.Contains(units[0].Data, sps720p) {
		t.Error("first unit must carry the probed SPS")
	}

	if _, err := src.ReadNext(); !errors.Is(err, ports.ErrWouldBlock) {
		t.Errorf("expected ErrWouldBlock on a silent socket, got %v", err)
	}
}

func TestSourceEndOfStream(t *testing.T) {
	addr := serve(t, streamPayload(), false)
	src := New(addr, 131072, logger.NewNoop())
	defer src.Close()

	if _, err := src.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_, err := src.ReadNext()
		if err == nil || errors.Is(err, ports.ErrWouldBlock) {
			continue
		}
		if errors.Is(err, ports.ErrEndOfStream) {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	t.Fatal("never saw end of stream")
}

func TestSourceOpenFailsWithoutSPS(t *testing.T) {
	junk := bytes.Repeat([]byte{0xFF, 0xFE}, 300)
	addr := serve(t, junk, false)
	src := New(addr, 512, logger.NewNoop())
	defer src.Close()

	if _, err := src.Open(context.Background()); err == nil {
		t.Error("expected probe failure without an SPS")
	}
}

func TestSourceOpenConnectionRefused(t *testing.T) {
	src := New("tcp://127.0.0.1:1", 131072, logger.NewNoop())
	if _, err := src.Open(context.Background()); err == nil {
		t.Error("expected a connection error")
	}
}
