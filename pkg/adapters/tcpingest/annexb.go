package tcpingest

// H.264 NAL unit types as defined in ITU-T H.264 Table 7-1.
const (
	nalTypeSlice = 1
	nalTypeIDR   = 5
	nalTypeSEI   = 6
	nalTypeSPS   = 7
	nalTypePPS   = 8
	nalTypeAUD   = 9
)

// nalUnit is one NAL unit located inside the assembler buffer. scStart is
// the offset of its start code, dataStart the offset of the NAL header byte.
type nalUnit struct {
	scStart   int
	dataStart int
	end       int
	nalType   byte
}

// scanNALUnits locates complete NAL units in an Annex B buffer. Both 3-byte
// (0x000001) and 4-byte (0x00000001) start codes are recognized. The final
// NAL unit is excluded because its end is unknown until the next start code
// arrives; tail is the offset where that trailing data begins.
func scanNALUnits(data []byte) (units []nalUnit, tail int) {
	n := len(data)
	i := 0
	open := -1 // dataStart of the NAL unit currently being collected
	openSC := 0
	for i < n-2 {
		if data[i] == 0 && data[i+1] == 0 {
			if i < n-3 && data[i+2] == 0 && data[i+3] == 1 {
				if open >= 0 && i > open {
					units = append(units, nalUnit{openSC, open, i, data[open] & 0x1F})
				}
				openSC, open = i, i+4
				i += 4
				continue
			}
			if data[i+2] == 1 {
				if open >= 0 && i > open {
					units = append(units, nalUnit{openSC, open, i, data[open] & 0x1F})
				}
				openSC, open = i, i+3
				i += 3
				continue
			}
		}
		i++
	}
	if open >= 0 {
		return units, openSC
	}
	return units, n
}

// startsAccessUnit reports whether a NAL unit begins a new access unit.
// AUD, SPS and PPS always do. A slice begins one when first_mb_in_slice
// is zero, which in Exp-Golomb coding means the first payload bit is set.
func startsAccessUnit(nalType byte, data []byte) bool {
	switch nalType {
	case nalTypeAUD, nalTypeSPS, nalTypePPS:
		return true
	case nalTypeSlice, nalTypeIDR:
		return len(data) >= 2 && data[1]&0x80 != 0
	}
	return false
}

// auAssembler splits an Annex B byte stream into access units. Push feeds
// bytes as they arrive from the wire; Next pops the oldest complete unit.
type auAssembler struct {
	buf []byte
}

func (a *auAssembler) Push(data []byte) {
	a.buf = append(a.buf, data...)
}

// Next returns one complete access unit with its start codes intact, or
// false when the buffered data does not yet contain a full unit. A unit is
// complete once a NAL unit starting the next access unit has been seen;
// that boundary NAL may itself still be open, its header is enough.
func (a *auAssembler) Next() ([]byte, bool) {
	units, tail := scanNALUnits(a.buf)
	if len(units) == 0 {
		return nil, false
	}
	if trailing, ok := a.trailingUnit(tail); ok {
		units = append(units, trailing)
	}

	sawVCL := false
	for _, u := range units {
		if u.scStart > units[0].scStart && sawVCL && startsAccessUnit(u.nalType, a.buf[u.dataStart:u.end]) {
			au := make([]byte, u.scStart-units[0].scStart)
			copy(au, a.buf[units[0].scStart:u.scStart])
			a.buf = a.buf[u.scStart:]
			return au, true
		}
		if u.nalType == nalTypeSlice || u.nalType == nalTypeIDR {
			sawVCL = true
		}
	}
	return nil, false
}

// trailingUnit classifies the open NAL unit at the end of the buffer, if
// enough of it has arrived to read the header and the first payload byte.
func (a *auAssembler) trailingUnit(tail int) (nalUnit, bool) {
	rest := a.buf[tail:]
	ds := 0
	if len(rest) >= 4 && rest[0] == 0 && rest[1] == 0 && rest[2] == 0 && rest[3] == 1 {
		ds = 4
	} else if len(rest) >= 3 && rest[0] == 0 && rest[1] == 0 && rest[2] == 1 {
		ds = 3
	}
	if ds == 0 || len(rest) < ds+2 {
		return nalUnit{}, false
	}
	return nalUnit{tail, tail + ds, len(a.buf), rest[ds] & 0x1F}, true
}

// Buffered returns the number of bytes waiting for a complete unit.
func (a *auAssembler) Buffered() int {
	return len(a.buf)
}
