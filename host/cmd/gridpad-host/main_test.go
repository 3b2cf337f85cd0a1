package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridpad/color"
	"gridpad/core"
)

func TestParseSettings(t *testing.T) {
	rec, err := parseSettings([]string{"velocity=100", "0=3", "tilt=0x4"})
	require.NoError(t, err)

	v, _ := rec.Get(core.TagVelocity)
	assert.Equal(t, uint8(100), v)
	ch, _ := rec.Get(core.TagChannel)
	assert.Equal(t, uint8(3), ch)
	tilt, _ := rec.Get(core.TagTilt)
	assert.Equal(t, uint8(4), tilt)

	for _, bad := range []string{"velocity", "brightness=3", "24=1", "velocity=128", "velocity=x"} {
		_, err := parseSettings([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestParseCells(t *testing.T) {
	cells, err := parseCells([]string{"0=red", "63=dim-blue"})
	require.NoError(t, err)
	require.Len(t, cells, 2)
	assert.Equal(t, color.Palette[color.Red], cells[0].Color)
	assert.Equal(t, uint8(63), cells[1].Button)

	for _, bad := range []string{"64=red", "1=magenta", "red"} {
		_, err := parseCells([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestParseTable(t *testing.T) {
	tag, err := parseTable("active")
	require.NoError(t, err)
	assert.Equal(t, uint8(core.TagActiveColors), tag)

	_, err = parseTable("hover")
	assert.ErrorIs(t, err, errUsage)
}
