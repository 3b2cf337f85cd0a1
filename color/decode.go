package color

// Target byte layout for the compressed list:
//
//	0x00-0x3F  one button
//	0x40-0x5F  button and its point mirror (^x & 0x3F)
//	0x60-0x67  one row across both halves
//	0x68-0x6F  one column
//	0x70-0x7F  button mirrored into all four quadrants
const (
	targetMirror   = 0x40
	targetQuadrant = 0x20
	targetLineMask = 0x70
	targetLine     = 0x60
	targetColumn   = 0x08
	targetColHigh  = 0x04
)

// DecodeList applies a flat list of (target, r, g, b) groups.
// A trailing partial group is ignored.
func (g *Grid) DecodeList(data []byte) {
	for i := 0; i+3 < len(data); i += 4 {
		g.Set(data[i], data[i+1], data[i+2], data[i+3])
	}
}

// DecodeCompressed applies a compressed list. Each run is a header of
// three color bytes whose 0x40 bits form a count (zero means an explicit
// count byte follows), then that many target bytes. Decoding stops at
// the first truncated run.
func (g *Grid) DecodeCompressed(data []byte) {
	i := 0
	for i < len(data) {
		if len(data)-i < 3 {
			return
		}
		r, gr, b := data[i], data[i+1], data[i+2]
		i += 3

		n := int((r&0x40)>>4 | (gr&0x40)>>5 | (b&0x40)>>6)
		if n == 0 {
			if i >= len(data) {
				return
			}
			n = int(data[i])
			i++
		}

		r &= 0x3F
		gr &= 0x3F
		b &= 0x3F

		for j := 0; j < n; j++ {
			if i >= len(data) {
				return
			}
			g.applyTarget(data[i], r, gr, b)
			i++
		}
	}
}

func (g *Grid) applyTarget(x, r, gr, b uint8) {
	switch {
	case x&targetLineMask != targetLine:
		g.SetUnsafe(x&ButtonMask, r, gr, b)
		if x&targetMirror == 0 {
			return
		}
		m := ^x & ButtonMask
		g.SetUnsafe(m, r, gr, b)
		if x&targetQuadrant != 0 {
			g.SetUnsafe((x&0x1C)|(m&0x03), r, gr, b)
			g.SetUnsafe((x&0x23)|(m&0x1C), r, gr, b)
		}

	case x&targetColumn != 0:
		mask := uint8(0x03)
		if x&targetColHigh != 0 {
			mask = 0x23
		}
		col := x & mask
		for k := uint8(0); k < 8; k++ {
			g.SetUnsafe(col|k<<2, r, gr, b)
		}

	default:
		row := (x & 0x07) << 2
		for k := uint8(0); k < 4; k++ {
			g.SetUnsafe(row|k, r, gr, b)
			g.SetUnsafe(row|0x20|k, r, gr, b)
		}
	}
}
