package color

// FeedbackPalette maps a note velocity to a color for host-driven LED
// feedback. Levels are six bit.
var FeedbackPalette = [128]RGB{
	{0, 0, 0}, {16, 16, 16}, {32, 32, 32}, {63, 63, 63}, {63, 15, 15}, {63, 0, 0}, {32, 0, 0}, {16, 0, 0},
	{63, 46, 26}, {63, 15, 0}, {32, 8, 0}, {16, 4, 0}, {63, 43, 11}, {63, 63, 0}, {32, 32, 0}, {16, 16, 0},
	{33, 63, 12}, {20, 63, 0}, {10, 32, 0}, {5, 16, 0}, {18, 63, 18}, {0, 63, 0}, {0, 32, 0}, {0, 16, 0},
	{18, 63, 23}, {0, 63, 6}, {0, 32, 3}, {0, 16, 1}, {18, 63, 22}, {0, 63, 21}, {0, 32, 11}, {0, 16, 6},
	{18, 63, 45}, {0, 63, 37}, {0, 32, 18}, {0, 16, 9}, {18, 48, 63}, {0, 41, 63}, {0, 21, 32}, {0, 11, 16},
	{18, 33, 63}, {0, 21, 63}, {0, 11, 32}, {0, 6, 16}, {11, 9, 63}, {0, 0, 63}, {0, 0, 32}, {0, 0, 16},
	{26, 13, 62}, {11, 0, 63}, {6, 0, 32}, {3, 0, 16}, {63, 15, 63}, {63, 0, 63}, {32, 0, 32}, {16, 0, 16},
	{63, 16, 27}, {63, 0, 20}, {32, 0, 10}, {16, 0, 5}, {63, 3, 0}, {37, 13, 0}, {29, 20, 0}, {8, 13, 1},
	{0, 14, 0}, {0, 18, 6}, {0, 5, 27}, {0, 0, 63}, {0, 17, 19}, {4, 0, 50}, {31, 31, 31}, {7, 7, 7},
	{63, 0, 0}, {46, 63, 11}, {43, 58, 1}, {24, 63, 2}, {3, 34, 0}, {0, 63, 23}, {0, 41, 63}, {0, 10, 63},
	{6, 0, 63}, {22, 0, 63}, {43, 6, 30}, {10, 4, 0}, {63, 12, 0}, {33, 55, 1}, {28, 63, 5}, {0, 63, 0},
	{14, 63, 9}, {21, 63, 27}, {13, 63, 50}, {22, 34, 63}, {12, 20, 48}, {26, 20, 57}, {52, 7, 63}, {63, 0, 22},
	{63, 17, 0}, {45, 41, 0}, {35, 63, 0}, {32, 22, 1}, {14, 10, 0}, {0, 18, 3}, {3, 19, 8}, {5, 5, 10},
	{5, 7, 22}, {25, 14, 6}, {32, 0, 0}, {54, 16, 10}, {53, 18, 4}, {63, 47, 9}, {39, 55, 11}, {25, 44, 3},
	{5, 5, 11}, {54, 52, 26}, {31, 58, 34}, {38, 37, 63}, {35, 25, 63}, {15, 15, 15}, {28, 28, 28}, {55, 63, 63},
	{39, 0, 0}, {13, 0, 0}, {6, 51, 0}, {1, 16, 0}, {45, 43, 0}, {15, 12, 0}, {44, 20, 0}, {18, 5, 0},
}

// SetFromPalette sets button p to the feedback color for velocity v
func (g *Grid) SetFromPalette(p, v uint8) {
	c := FeedbackPalette[v&0x7F]
	g.SetUnsafe(p&ButtonMask, c.R, c.G, c.B)
}
