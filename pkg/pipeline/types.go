package pipeline

import (
	"errors"

	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// ErrPictureDropped is returned by per-picture stages when the current
// picture was intentionally abandoned (failed transfer, failed
// conversion). The caller proceeds to the next picture; at most a single
// frame is lost.
var ErrPictureDropped = errors.New("pipeline: picture dropped")

// Dimension represents picture width and height.
type Dimension struct {
	Width  int
	Height int
}

// Of returns the dimensions of a picture.
func Of(pic *ports.Picture) Dimension {
	return Dimension{Width: pic.Width, Height: pic.Height}
}

// Zero reports whether the dimension is unset.
func (d Dimension) Zero() bool {
	return d.Width == 0 && d.Height == 0
}

// PresentOutcome is the result of pushing one realized picture through
// the presentation stage.
type PresentOutcome int

const (
	// Presented means the picture reached the display.
	Presented PresentOutcome = iota
	// DroppedByPacing means the pacing gate discarded the picture to
	// hold the target cadence.
	DroppedByPacing
	// SkippedNoSurface means no surface could be allocated for the
	// picture's layout.
	SkippedNoSurface
	// DroppedConversion means the pixel-format conversion failed.
	DroppedConversion
)

// String returns the outcome name used in logs.
func (o PresentOutcome) String() string {
	switch o {
	case Presented:
		return "presented"
	case DroppedByPacing:
		return "dropped_by_pacing"
	case SkippedNoSurface:
		return "skipped_no_surface"
	case DroppedConversion:
		return "dropped_conversion"
	default:
		return "unknown"
	}
}
