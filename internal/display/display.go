// Package display implements the render surface the state machine draws
// through. The real implementation drives an SSD1306 OLED over I2C; the fake
// records the call sequence for content assertions.
package display

// Panel dimensions of the 0.96" SSD1306 module the device ships with.
const (
	Width  = 128
	Height = 64
)

// Base glyph cell of the built-in font at text size 1.
const (
	glyphW      = 7
	glyphH      = 13
	glyphAscent = 11
)
