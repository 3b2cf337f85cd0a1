package color

// WireMax is the largest value a color byte may take on the wire
const WireMax = 127

// wireScale maps the brightest stored level onto WireMax
const wireScale = 48

// WireToInternal converts a received wire triple for the limiter
func WireToInternal(r, g, b uint8) RGB {
	return RGB{r << 1, g << 1, b << 1}
}

// InternalToWire converts a stored level to wire range, clamped to WireMax
func InternalToWire(v uint8) uint8 {
	w := uint16(v) * WireMax / wireScale
	if w > WireMax {
		return WireMax
	}
	return uint8(w)
}

// Wire returns the triple a stored color is reported as by a table pull
func (c RGB) Wire() (r, g, b uint8) {
	return InternalToWire(c.R), InternalToWire(c.G), InternalToWire(c.B)
}

// WireID maps a wire triple onto the palette entry a bulk push would store
func (l *PowerLimiter) WireID(r, g, b uint8) ID {
	id, _ := Lookup(l.Limit(WireToInternal(r, g, b)))
	return id
}
