package color

// category is a hue family with a bright and a dim palette entry
type category struct {
	bright   ID
	dim      ID
	dominant func(c RGB) uint8 // channel compared against the brightness threshold
}

func red(c RGB) uint8   { return c.R }
func green(c RGB) uint8 { return c.G }
func blue(c RGB) uint8  { return c.B }

var (
	catOff        = category{bright: Off, dim: Off, dominant: red}
	catBlue       = category{bright: Blue, dim: BlueDim, dominant: blue}
	catGreen      = category{bright: Green, dim: GreenDim, dominant: green}
	catCyan       = category{bright: Cyan, dim: CyanDim, dominant: green}
	catRed        = category{bright: Red, dim: RedDim, dominant: red}
	catPink       = category{bright: Pink, dim: PinkDim, dominant: red}
	catChartreuse = category{bright: Chartreuse, dim: ChartreuseDim, dominant: green}
	catOrange     = category{bright: Orange, dim: OrangeDim, dominant: red}
	catYellow     = category{bright: Yellow, dim: YellowDim, dominant: red}
	catWhite      = category{bright: White, dim: White, dominant: red}
	catLavender   = category{bright: Lavender, dim: LavenderDim, dominant: red}
)

// Rule maps inputs matching Match to a hue category. Rules are evaluated
// in order and the first match wins.
type Rule struct {
	Name  string
	Match func(c RGB, l *PowerLimiter) bool
	cat   category
}

// Rules is the classification table shared by all limiters
var Rules = []Rule{
	{"off", func(c RGB, _ *PowerLimiter) bool { return c.IsOff() }, catOff},
	{"blue", func(c RGB, _ *PowerLimiter) bool { return c.R == 0 && c.G == 0 }, catBlue},
	{"green", func(c RGB, _ *PowerLimiter) bool { return c.R == 0 && c.B == 0 }, catGreen},
	{"cyan", func(c RGB, _ *PowerLimiter) bool { return c.R == 0 }, catCyan},
	{"red", func(c RGB, _ *PowerLimiter) bool { return c.G == 0 && c.B == 0 }, catRed},
	{"pink", func(c RGB, _ *PowerLimiter) bool { return c.G == 0 }, catPink},
	{"chartreuse", func(c RGB, _ *PowerLimiter) bool { return c.B == 0 && c.R < c.G }, catChartreuse},
	{"orange", func(c RGB, _ *PowerLimiter) bool { return c.B == 0 && c.R>>1 >= c.G }, catOrange},
	{"yellow", func(c RGB, _ *PowerLimiter) bool { return c.B == 0 }, catYellow},
	{"white", func(c RGB, l *PowerLimiter) bool { return c.G > l.WhiteGreenLimit }, catWhite},
	{"lavender", func(c RGB, _ *PowerLimiter) bool { return true }, catLavender},
}

// PowerLimiter requantizes arbitrary colors onto the palette so the total
// LED current stays within the USB budget
type PowerLimiter struct {
	BrightThreshold uint8 // dominant channel above this selects the bright variant
	WhiteGreenLimit uint8 // green above this with red and blue present is white, not lavender
}

// IdleLimiter applies to the idle color table
var IdleLimiter = PowerLimiter{BrightThreshold: 0x80, WhiteGreenLimit: 0x24}

// ActiveLimiter applies to the active color table
var ActiveLimiter = PowerLimiter{BrightThreshold: 0x80, WhiteGreenLimit: 0x24}

// Classify returns the palette id c maps to and the name of the rule that matched
func (l *PowerLimiter) Classify(c RGB) (ID, string) {
	for i := range Rules {
		r := &Rules[i]
		if !r.Match(c, l) {
			continue
		}
		if r.cat.dominant(c) > l.BrightThreshold {
			return r.cat.bright, r.Name
		}
		return r.cat.dim, r.Name
	}
	return Off, ""
}

// Limit returns c unchanged if it is already canonical, otherwise its
// palette replacement
func (l *PowerLimiter) Limit(c RGB) RGB {
	if IsCanonical(c) {
		return c
	}
	id, _ := l.Classify(c)
	return Palette[id]
}
