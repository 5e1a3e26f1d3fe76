// Package realize moves decoded pictures into host-addressable memory.
// Accelerator-resident pictures are transferred into a reusable host
// buffer; host-resident pictures pass through untouched.
package realize

import (
	"context"

	"github.com/ideamans/go-l10n"

	"github.com/Fuxill/WinCamStreamIOS/pkg/pipeline"
	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
	"github.com/Fuxill/WinCamStreamIOS/pkg/yuv"
)

// Realizer owns the host transfer slot of the frame arena. The slot is
// reallocated when picture dimensions change and reused otherwise.
type Realizer struct {
	engine ports.DecodeEngine
	logger ports.Logger

	host *ports.Picture
	dims pipeline.Dimension
}

// NewRealizer creates a realizer bound to the engine that owns the
// accelerator device (transfers go through it).
func NewRealizer(engine ports.DecodeEngine, logger ports.Logger) *Realizer {
	return &Realizer{
		engine: engine,
		logger: logger.WithComponent("realize"),
	}
}

// Execute realizes one picture. The fast case is a pure pass-through.
// A failed device-to-host transfer drops the picture (never retries) and
// returns pipeline.ErrPictureDropped; the caller moves on to the next
// decoded picture.
func (r *Realizer) Execute(ctx context.Context, pic *ports.Picture) (*ports.Picture, error) {
	if pic.HostResident() {
		return pic, nil
	}

	dims := pipeline.Of(pic)
	if r.host == nil || r.dims != dims {
		host, err := yuv.NewPicture(pic.Width, pic.Height, ports.LayoutSemiPlanar420)
		if err != nil {
			r.release(pic)
			return nil, pipeline.ErrPictureDropped
		}
		r.host = host
		r.dims = dims
	}

	if err := r.engine.Transfer(pic, r.host); err != nil {
		r.logger.Debug(l10n.F("Device transfer failed, picture dropped: %s", err))
		r.release(pic)
		return nil, pipeline.ErrPictureDropped
	}
	r.release(pic)
	return r.host, nil
}

// Invalidate discards the host transfer slot; the next accelerated
// picture allocates a fresh one.
func (r *Realizer) Invalidate() {
	r.host = nil
	r.dims = pipeline.Dimension{}
}

func (r *Realizer) release(pic *ports.Picture) {
	if pic.Resident != nil {
		pic.Resident.Release()
		pic.Resident = nil
	}
}

var _ pipeline.Stage[*ports.Picture, *ports.Picture] = (*Realizer)(nil)
