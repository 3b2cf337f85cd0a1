package color

// Grid is the realtime color state written by MIDI input, one RGB per button
type Grid struct {
	cells [ButtonCount]RGB
	dirty bool
}

// floor lifts nonzero levels above the LED's visible threshold
func floor(v uint8) uint8 {
	if v == 0 {
		return 0
	}
	return v + 2
}

// Set clamps the target and channels to six bits before storing
func (g *Grid) Set(p, r, gr, b uint8) {
	g.SetUnsafe(p&ButtonMask, r&0x3F, gr&0x3F, b&0x3F)
}

// SetUnsafe stores a color without clamping; p must be below ButtonCount
func (g *Grid) SetUnsafe(p, r, gr, b uint8) {
	g.cells[p] = RGB{floor(r), floor(gr), floor(b)}
	g.dirty = true
}

// Get returns the stored color for button p
func (g *Grid) Get(p uint8) RGB {
	return g.cells[p&ButtonMask]
}

// Clear turns every button off
func (g *Grid) Clear() {
	g.cells = [ButtonCount]RGB{}
	g.dirty = true
}

// TakeDirty returns and resets the change flag
func (g *Grid) TakeDirty() bool {
	d := g.dirty
	g.dirty = false
	return d
}

// Cells returns a copy of the whole grid
func (g *Grid) Cells() [ButtonCount]RGB {
	return g.cells
}
