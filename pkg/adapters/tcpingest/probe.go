package tcpingest

import (
	"errors"
	"fmt"

	"github.com/Eyevinn/mp4ff/avc"
)

var errNoSPS = errors.New("no sequence parameter set in probed data")

// probeDimensions scans buffered Annex B data for an SPS NAL unit and
// parses the coded picture size out of it. The scan also accepts the
// trailing, still unterminated NAL unit so a lone SPS at the head of the
// stream is enough.
func probeDimensions(data []byte) (width, height int, err error) {
	units, tail := scanNALUnits(data)
	if tail < len(data) {
		// Treat the trailing bytes as a NAL unit ending at the buffer
		// edge. SPS is tiny, so it is almost always already whole.
		rest := data[tail:]
		ds := 0
		if len(rest) >= 4 && rest[2] == 0 && rest[3] == 1 {
			ds = 4
		} else if len(rest) >= 3 {
			ds = 3
		}
		if ds > 0 && tail+ds < len(data) {
			units = append(units, nalUnit{tail, tail + ds, len(data), data[tail+ds] & 0x1F})
		}
	}

	for _, u := range units {
		if u.nalType != nalTypeSPS {
			continue
		}
		sps, err := avc.ParseSPSNALUnit(data[u.dataStart:u.end], true)
		if err != nil {
			return 0, 0, fmt.Errorf("parse SPS: %w", err)
		}
		return int(sps.Width), int(sps.Height), nil
	}
	return 0, 0, errNoSPS
}
