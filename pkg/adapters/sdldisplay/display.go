// Package sdldisplay presents decoded pictures in an SDL2 window using
// streaming YUV textures, so no RGB conversion happens on the CPU.
package sdldisplay

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// Display owns the SDL window and renderer. The window is created lazily
// on the first surface request, once the stream size is known. SDL wants
// all of this on one OS thread; the caller is responsible for locking it.
type Display struct {
	title    string
	window   *sdl.Window
	renderer *sdl.Renderer
}

// New initializes the SDL video subsystem.
func New(title string) (*Display, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("initialize SDL video: %w", err)
	}
	return &Display{title: title}, nil
}

// SupportsLayout reports which pixel layouts upload without conversion.
// SDL streams both I420 (IYUV) and NV12 textures directly.
func (d *Display) SupportsLayout(layout ports.PixelLayout) bool {
	return layout == ports.LayoutPlanar420 || layout == ports.LayoutSemiPlanar420
}

// CreateSurface returns a streaming texture surface of the given size and
// layout, creating the window and renderer on first use.
func (d *Display) CreateSurface(width, height int, layout ports.PixelLayout) (ports.Surface, error) {
	if err := d.ensureWindow(width, height); err != nil {
		return nil, err
	}

	var format uint32
	switch layout {
	case ports.LayoutPlanar420:
		format = sdl.PIXELFORMAT_IYUV
	case ports.LayoutSemiPlanar420:
		format = sdl.PIXELFORMAT_NV12
	default:
		return nil, fmt.Errorf("no texture format for layout %s", layout)
	}

	texture, err := d.renderer.CreateTexture(format, sdl.TEXTUREACCESS_STREAMING, int32(width), int32(height))
	if err != nil {
		return nil, fmt.Errorf("create %s texture: %w", layout, err)
	}
	return &surface{renderer: d.renderer, texture: texture, layout: layout}, nil
}

func (d *Display) ensureWindow(width, height int) error {
	if d.window != nil {
		return nil
	}
	window, err := sdl.CreateWindow(d.title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(width), int32(height), sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		return fmt.Errorf("create renderer: %w", err)
	}
	d.window = window
	d.renderer = renderer
	return nil
}

// PollStop drains pending window events and reports whether the user
// asked to quit, via the window close button, q, or Escape.
func (d *Display) PollStop() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN &&
				(e.Keysym.Sym == sdl.K_q || e.Keysym.Sym == sdl.K_ESCAPE) {
				return true
			}
		}
	}
	return false
}

// Close tears the window down and quits SDL.
func (d *Display) Close() {
	if d.renderer != nil {
		d.renderer.Destroy()
		d.renderer = nil
	}
	if d.window != nil {
		d.window.Destroy()
		d.window = nil
	}
	sdl.Quit()
}

var _ ports.Display = (*Display)(nil)

type surface struct {
	renderer *sdl.Renderer
	texture  *sdl.Texture
	layout   ports.PixelLayout
}

// Update uploads one picture into the streaming texture. The picture's
// layout must match the layout the surface was created with.
func (s *surface) Update(pic *ports.Picture) error {
	if pic.Layout != s.layout {
		return fmt.Errorf("picture layout %s does not match surface layout %s", pic.Layout, s.layout)
	}
	switch s.layout {
	case ports.LayoutPlanar420:
		return s.texture.UpdateYUV(nil,
			pic.Planes[0], pic.Strides[0],
			pic.Planes[1], pic.Strides[1],
			pic.Planes[2], pic.Strides[2])
	case ports.LayoutSemiPlanar420:
		return s.texture.UpdateNV(nil,
			pic.Planes[0], pic.Strides[0],
			pic.Planes[1], pic.Strides[1])
	}
	return fmt.Errorf("surface has no upload path for layout %s", s.layout)
}

// Present puts the texture on screen.
func (s *surface) Present() error {
	if err := s.renderer.Clear(); err != nil {
		return err
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return err
	}
	s.renderer.Present()
	return nil
}

// Destroy releases the texture. The renderer stays with the display.
func (s *surface) Destroy() {
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
}

var _ ports.Surface = (*surface)(nil)
