package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Fuxill/WinCamStreamIOS/pkg/adapters/logger"
	"github.com/Fuxill/WinCamStreamIOS/pkg/mocks"
	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
	"github.com/Fuxill/WinCamStreamIOS/pkg/stages/accel"
)

func planarPic(w, h int) *ports.Picture {
	pic := &ports.Picture{Width: w, Height: h, Layout: ports.LayoutPlanar420}
	cw, ch := (w+1)/2, (h+1)/2
	pic.Planes[0] = make([]byte, w*h)
	pic.Planes[1] = make([]byte, cw*ch)
	pic.Planes[2] = make([]byte, cw*ch)
	pic.Strides = [3]int{w, cw, cw}
	return pic
}

func unit(b byte) ports.CompressedUnit {
	return ports.CompressedUnit{Data: []byte{b}}
}

type fixture struct {
	source   *mocks.StreamSource
	provider *mocks.EngineProvider
	display  *mocks.Display
	clock    *mocks.Clock
	sink     *mocks.DebugSink
	driver   *Driver
}

func newFixture(cfg Config) *fixture {
	f := &fixture{
		source: &mocks.StreamSource{
			Descriptor: ports.StreamDescriptor{Codec: "h264", Width: 64, Height: 64},
		},
		provider: &mocks.EngineProvider{
			HW: &mocks.DecodeEngine{EngineName: "h264_cuvid", IsHW: true},
			SW: &mocks.DecodeEngine{EngineName: "h264"},
		},
		display: &mocks.Display{},
		clock:   mocks.NewClock(),
		sink:    &mocks.DebugSink{},
	}
	log := logger.NewNoop()
	f.driver = New(f.source, accel.NewManager(f.provider, log), f.display, f.clock, f.sink, log, cfg)
	return f
}

func TestRunPresentsEveryDecodedPicture(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.provider.HWErr = errors.New("no accelerator")
	f.provider.SW.Yields = [][]*ports.Picture{
		{planarPic(64, 64)},
		{planarPic(64, 64)},
		{planarPic(64, 64)},
	}
	f.source.Units = []ports.CompressedUnit{unit(1), unit(2), unit(3)}

	stats, err := f.driver.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Decoded != 3 {
		t.Errorf("expected 3 decoded pictures, got %d", stats.Decoded)
	}
	// Free-run: everything realized reaches present.
	if stats.Presented != 3 {
		t.Errorf("expected 3 presented pictures, got %d", stats.Presented)
	}
	if f.driver.State() != Closed {
		t.Errorf("expected Closed, got %s", f.driver.State())
	}
}

func TestRunFallsBackToSoftwareAndStreams(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.provider.HWErr = errors.New("hwdevice create failed")
	f.provider.SW.Yields = [][]*ports.Picture{{planarPic(64, 64)}}
	f.source.Units = []ports.CompressedUnit{unit(1)}

	stats, err := f.driver.Run(context.Background())
	if err != nil {
		t.Fatalf("hardware failure must not abort the run, got: %v", err)
	}
	if stats.Presented != 1 {
		t.Errorf("expected 1 presented picture, got %d", stats.Presented)
	}
	if len(f.provider.SoftwareCalls) != 1 {
		t.Error("expected the software engine to be opened")
	}
}

func TestRunFatalWhenOpenFails(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.source.OpenFunc = func(ctx context.Context) (ports.StreamDescriptor, error) {
		return ports.StreamDescriptor{}, errors.New("connection refused")
	}

	if _, err := f.driver.Run(context.Background()); err == nil {
		t.Error("expected a fatal error")
	}
	if f.driver.State() != Closed {
		t.Errorf("expected Closed, got %s", f.driver.State())
	}
}

func TestRunFatalWhenNoEngine(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.provider.HWErr = errors.New("no accelerator")
	f.provider.SWErr = errors.New("decoder not found")

	if _, err := f.driver.Run(context.Background()); err == nil {
		t.Error("expected a fatal error")
	}
	if !f.source.CloseCalled {
		t.Error("source must be closed on setup failure")
	}
}

func TestRunFatalWhenInitialSurfaceFails(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.display.CreateSurfaceFunc = func(w, h int, l ports.PixelLayout) (ports.Surface, error) {
		return nil, errors.New("out of video memory")
	}

	if _, err := f.driver.Run(context.Background()); err == nil {
		t.Error("expected a fatal error")
	}
	if !f.provider.HW.CloseCalled {
		t.Error("engine must be closed on setup failure")
	}
	if !f.source.CloseCalled {
		t.Error("source must be closed on setup failure")
	}
}

func TestRunDiscardsForeignStreamUnits(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.provider.HW.Yields = [][]*ports.Picture{{planarPic(64, 64)}}
	f.source.Units = []ports.CompressedUnit{
		{Data: []byte{9}, StreamIndex: 2},
		{Data: []byte{1}, StreamIndex: 0},
		{Data: []byte{9}, StreamIndex: 7},
	}

	_, err := f.driver.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(f.provider.HW.Submitted); got != 1 {
		t.Errorf("expected 1 submitted unit, got %d", got)
	}
}

func TestRunIdlesOnWouldBlock(t *testing.T) {
	f := newFixture(DefaultConfig())
	reads := 0
	f.source.ReadNextFunc = func() (ports.CompressedUnit, error) {
		reads++
		if reads <= 3 {
			return ports.CompressedUnit{}, ports.ErrWouldBlock
		}
		return ports.CompressedUnit{}, ports.ErrEndOfStream
	}

	if _, err := f.driver.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.clock.Sleeps) != 3 {
		t.Fatalf("expected 3 idle backoffs, got %d", len(f.clock.Sleeps))
	}
	for _, d := range f.clock.Sleeps {
		if d != time.Millisecond {
			t.Errorf("expected 1ms idle backoff, got %v", d)
		}
	}
}

func TestRunStopsOnDisplaySignal(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.display.StopAfterPolls = 2
	f.source.ReadNextFunc = func() (ports.CompressedUnit, error) {
		return ports.CompressedUnit{}, ports.ErrWouldBlock
	}

	if _, err := f.driver.Run(context.Background()); err != nil {
		t.Fatalf("stop signal is a clean shutdown, got: %v", err)
	}
	if f.driver.State() != Closed {
		t.Errorf("expected Closed, got %s", f.driver.State())
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	f := newFixture(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.source.ReadNextFunc = func() (ports.CompressedUnit, error) {
		return ports.CompressedUnit{}, ports.ErrWouldBlock
	}

	if _, err := f.driver.Run(ctx); err != nil {
		t.Fatalf("cancellation is a clean shutdown, got: %v", err)
	}
}

// A burst of units arriving faster than the engine decodes must not
// queue anywhere: saturated submits discard the unit and move on.
func TestRunNeverAccumulatesBacklog(t *testing.T) {
	f := newFixture(DefaultConfig())
	accepted := 0
	f.provider.HW.SubmitFunc = func(u ports.CompressedUnit) error {
		if accepted >= 2 {
			return ports.ErrEngineBusy
		}
		accepted++
		return nil
	}
	for i := 0; i < 50; i++ {
		f.source.Units = append(f.source.Units, unit(byte(i)))
	}

	_, err := f.driver.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(f.provider.HW.Submitted); got != 2 {
		t.Errorf("expected exactly 2 accepted units, got %d", got)
	}
}

func TestRunReleasesResourcesInReverseOrder(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.provider.HW.Yields = [][]*ports.Picture{{planarPic(64, 64)}}
	f.source.Units = []ports.CompressedUnit{unit(1)}

	if _, err := f.driver.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range f.display.Surfaces {
		if !s.Destroyed {
			t.Errorf("surface %d not destroyed", i)
		}
	}
	if !f.provider.HW.CloseCalled {
		t.Error("engine not closed")
	}
	if !f.source.CloseCalled {
		t.Error("source not closed")
	}
}

func TestRunSavesDebugArtifacts(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.sink.EnabledValue = true
	f.provider.HW.Yields = [][]*ports.Picture{{planarPic(64, 64)}}
	f.source.Units = []ports.CompressedUnit{unit(1)}

	if _, err := f.driver.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.sink.StreamInfoJSON == nil {
		t.Error("expected stream info to be saved")
	}
	if len(f.sink.SavedPictures) != 1 {
		t.Errorf("expected 1 saved picture, got %d", len(f.sink.SavedPictures))
	}
}
