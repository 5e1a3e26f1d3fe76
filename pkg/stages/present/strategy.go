package present

import (
	"github.com/Fuxill/WinCamStreamIOS/pkg/pipeline"
	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
	"github.com/Fuxill/WinCamStreamIOS/pkg/yuv"
)

// strategy prepares a realized picture for upload. The manager selects
// one strategy per picture based on whether the picture's layout is
// natively displayable.
type strategy interface {
	prepare(pic *ports.Picture) (*ports.Picture, error)
}

// directStrategy is the zero-conversion fast path: the picture's planes
// go to the surface untouched.
type directStrategy struct{}

func (directStrategy) prepare(pic *ports.Picture) (*ports.Picture, error) {
	return pic, nil
}

// convertingStrategy is the slow path: the picture is converted into the
// fallback planar layout through the manager's cached converter.
type convertingStrategy struct {
	manager *Manager
}

func (s *convertingStrategy) prepare(pic *ports.Picture) (*ports.Picture, error) {
	conv, err := s.manager.converterFor(pic)
	if err != nil {
		return nil, err
	}
	if err := yuv.Convert(pic, conv.out); err != nil {
		return nil, err
	}
	return conv.out, nil
}

// converterKey identifies one conversion configuration. Any component
// changing invalidates the cached converter.
type converterKey struct {
	srcLayout ports.PixelLayout
	srcDims   pipeline.Dimension
	dstLayout ports.PixelLayout
	dstDims   pipeline.Dimension
}

// converter is the cached conversion context: the key it was built for
// and the reusable converted-output slot of the frame arena. At most one
// converter is live at a time.
type converter struct {
	key converterKey
	out *ports.Picture
}

// converterFor returns the cached converter for the picture, rebuilding
// it when the key no longer matches.
func (m *Manager) converterFor(pic *ports.Picture) (*converter, error) {
	key := converterKey{
		srcLayout: pic.Layout,
		srcDims:   pipeline.Of(pic),
		dstLayout: fallbackLayout,
		dstDims:   pipeline.Of(pic),
	}
	if m.conv != nil && m.conv.key == key {
		return m.conv, nil
	}
	out, err := yuv.NewPicture(key.dstDims.Width, key.dstDims.Height, key.dstLayout)
	if err != nil {
		return nil, err
	}
	m.conv = &converter{key: key, out: out}
	return m.conv, nil
}
