// Package color holds the LED color model: the power-limited palette, the
// realtime grid state and the compressed and flat list decoders.
package color

// ButtonCount is the number of grid buttons; each button has one RGB state
const ButtonCount = 64

// ButtonMask reduces a target byte to a button index
const ButtonMask = 0x3F

// RGB is one color triple
type RGB struct {
	R, G, B uint8
}

// IsOff reports whether all channels are zero
func (c RGB) IsOff() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// ID indexes the canonical palette
type ID uint8

const (
	Off ID = iota
	Red
	RedDim
	Orange
	OrangeDim
	Yellow
	YellowDim
	Chartreuse
	ChartreuseDim
	Green
	GreenDim
	Cyan
	CyanDim
	Blue
	BlueDim
	Lavender
	LavenderDim
	Pink
	PinkDim
	White

	PaletteSize
)

// Palette is the set of colors the LEDs may show from stored tables.
// Every entry is within the per-button current budget.
var Palette = [PaletteSize]RGB{
	Off:           {0, 0, 0},
	Red:           {48, 0, 0},
	RedDim:        {24, 0, 0},
	Orange:        {40, 12, 0},
	OrangeDim:     {20, 6, 0},
	Yellow:        {32, 25, 0},
	YellowDim:     {16, 12, 0},
	Chartreuse:    {25, 32, 0},
	ChartreuseDim: {12, 16, 0},
	Green:         {0, 48, 0},
	GreenDim:      {0, 24, 0},
	Cyan:          {0, 30, 30},
	CyanDim:       {0, 15, 15},
	Blue:          {0, 0, 48},
	BlueDim:       {0, 0, 24},
	Lavender:      {25, 7, 32},
	LavenderDim:   {13, 3, 17},
	Pink:          {36, 0, 18},
	PinkDim:       {18, 0, 9},
	White:         {24, 24, 24},
}

// RGB returns the palette color for id
func (id ID) RGB() RGB {
	if id >= PaletteSize {
		return Palette[Off]
	}
	return Palette[id]
}

var idNames = [PaletteSize]string{
	"off", "red", "dim-red", "orange", "dim-orange", "yellow", "dim-yellow",
	"chartreuse", "dim-chartreuse", "green", "dim-green", "cyan", "dim-cyan",
	"blue", "dim-blue", "lavender", "dim-lavender", "pink", "dim-pink", "white",
}

func (id ID) String() string {
	if id >= PaletteSize {
		return "unknown"
	}
	return idNames[id]
}

// ParseID looks up a palette color by name
func ParseID(name string) (ID, bool) {
	for i, n := range idNames {
		if n == name {
			return ID(i), true
		}
	}
	return Off, false
}

// Lookup returns the palette id of an exactly canonical color
func Lookup(c RGB) (ID, bool) {
	for i := range Palette {
		if Palette[i] == c {
			return ID(i), true
		}
	}
	return Off, false
}

// IsCanonical reports whether c is one of the palette colors
func IsCanonical(c RGB) bool {
	_, ok := Lookup(c)
	return ok
}
