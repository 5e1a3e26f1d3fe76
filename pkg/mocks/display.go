package mocks

import (
	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// Surface is a mock implementation of ports.Surface recording uploads
// and presents.
type Surface struct {
	Width  int
	Height int
	Layout ports.PixelLayout

	UpdateFunc func(pic *ports.Picture) error

	// Recorded calls for verification
	Updates   []*ports.Picture
	Presents  int
	Destroyed bool

	// LastPlanes holds deep copies of the plane data from the most
	// recent Update, for byte-identity assertions.
	LastPlanes [3][]byte
}

func (m *Surface) Update(pic *ports.Picture) error {
	if m.UpdateFunc != nil {
		if err := m.UpdateFunc(pic); err != nil {
			return err
		}
	}
	m.Updates = append(m.Updates, pic)
	for i, plane := range pic.Planes {
		if plane == nil {
			m.LastPlanes[i] = nil
			continue
		}
		m.LastPlanes[i] = append([]byte(nil), plane...)
	}
	return nil
}

func (m *Surface) Present() error {
	m.Presents++
	return nil
}

func (m *Surface) Destroy() { m.Destroyed = true }

var _ ports.Surface = (*Surface)(nil)

// Display is a mock implementation of ports.Display. By default it
// supports the planar and semi-planar 4:2:0 layouts.
type Display struct {
	SupportsFunc      func(layout ports.PixelLayout) bool
	CreateSurfaceFunc func(width, height int, layout ports.PixelLayout) (ports.Surface, error)

	StopAfterPolls int // PollStop returns true once this many polls have happened (0 = never)

	// Recorded calls for verification
	Surfaces    []*Surface
	Polls       int
	CloseCalled bool
}

func (m *Display) SupportsLayout(layout ports.PixelLayout) bool {
	if m.SupportsFunc != nil {
		return m.SupportsFunc(layout)
	}
	return layout == ports.LayoutPlanar420 || layout == ports.LayoutSemiPlanar420
}

func (m *Display) CreateSurface(width, height int, layout ports.PixelLayout) (ports.Surface, error) {
	if m.CreateSurfaceFunc != nil {
		return m.CreateSurfaceFunc(width, height, layout)
	}
	s := &Surface{Width: width, Height: height, Layout: layout}
	m.Surfaces = append(m.Surfaces, s)
	return s, nil
}

func (m *Display) PollStop() bool {
	m.Polls++
	return m.StopAfterPolls > 0 && m.Polls >= m.StopAfterPolls
}

func (m *Display) Close() { m.CloseCalled = true }

var _ ports.Display = (*Display)(nil)
