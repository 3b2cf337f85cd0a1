package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitKeepsCanonical(t *testing.T) {
	for id := Off; id < PaletteSize; id++ {
		c := id.RGB()
		assert.Equal(t, c, IdleLimiter.Limit(c), "idle %s", id)
		assert.Equal(t, c, ActiveLimiter.Limit(c), "active %s", id)
	}
}

func TestLimitClassification(t *testing.T) {
	tests := []struct {
		in   RGB
		want ID
		rule string
	}{
		{RGB{0, 0, 0}, Off, "off"},
		{RGB{0, 0, 200}, Blue, "blue"},
		{RGB{0, 0, 100}, BlueDim, "blue"},
		{RGB{0, 200, 0}, Green, "green"},
		{RGB{0, 100, 0}, GreenDim, "green"},
		{RGB{0, 200, 200}, Cyan, "cyan"},
		{RGB{0, 60, 60}, CyanDim, "cyan"},
		{RGB{254, 0, 0}, Red, "red"},
		{RGB{100, 0, 0}, RedDim, "red"},
		{RGB{200, 0, 100}, Pink, "pink"},
		{RGB{60, 0, 30}, PinkDim, "pink"},
		{RGB{100, 200, 0}, Chartreuse, "chartreuse"},
		{RGB{50, 100, 0}, ChartreuseDim, "chartreuse"},
		{RGB{200, 100, 0}, Orange, "orange"},
		{RGB{100, 20, 0}, OrangeDim, "orange"},
		{RGB{200, 150, 0}, Yellow, "yellow"},
		{RGB{100, 80, 0}, YellowDim, "yellow"},
		{RGB{20, 40, 60}, White, "white"},
		{RGB{254, 254, 254}, White, "white"},
		{RGB{200, 20, 200}, Lavender, "lavender"},
		{RGB{100, 20, 100}, LavenderDim, "lavender"},
	}

	for _, tt := range tests {
		id, rule := ActiveLimiter.Classify(tt.in)
		assert.Equal(t, tt.want, id, "classify %+v", tt.in)
		assert.Equal(t, tt.rule, rule, "rule for %+v", tt.in)
		assert.Equal(t, tt.want.RGB(), ActiveLimiter.Limit(tt.in), "limit %+v", tt.in)
	}
}

func TestLimitIdempotent(t *testing.T) {
	for r := 0; r < 128; r += 7 {
		for g := 0; g < 128; g += 7 {
			for b := 0; b < 128; b += 7 {
				in := WireToInternal(uint8(r), uint8(g), uint8(b))
				once := IdleLimiter.Limit(in)
				assert.True(t, IsCanonical(once), "limit %+v gave %+v", in, once)
				assert.Equal(t, once, IdleLimiter.Limit(once))
			}
		}
	}
}

func TestLimitBulkScenario(t *testing.T) {
	// Wire triple 10,20,30 doubles to 20,40,60: green above the lavender limit
	in := WireToInternal(10, 20, 30)
	assert.Equal(t, RGB{20, 40, 60}, in)
	assert.Equal(t, Palette[White], ActiveLimiter.Limit(in))
}

func TestParseID(t *testing.T) {
	for id := Off; id < PaletteSize; id++ {
		got, ok := ParseID(id.String())
		assert.True(t, ok)
		assert.Equal(t, id, got)
	}

	_, ok := ParseID("magenta")
	assert.False(t, ok)
}

func TestWireRoundTrip(t *testing.T) {
	// A pulled table pushed back unchanged stores the same palette
	for id := Off; id < PaletteSize; id++ {
		r, g, b := id.RGB().Wire()
		assert.Equal(t, id, IdleLimiter.WireID(r, g, b), "idle %s", id)
		assert.Equal(t, id, ActiveLimiter.WireID(r, g, b), "active %s", id)
	}
}
