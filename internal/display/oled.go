package display

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// OLED renders into an off-screen 1-bit frame and ships it to an SSD1306 on
// Commit. Text is the 7x13 basic font, integer-scaled for larger sizes.
type OLED struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev
	img *image1bit.VerticalLSB

	x, y int
	size int
}

// NewOLED opens the named I2C bus and initializes the panel.
func NewOLED(busName string) (*OLED, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init ssd1306: %w", err)
	}

	return &OLED{
		bus:  bus,
		dev:  dev,
		img:  image1bit.NewVerticalLSB(dev.Bounds()),
		size: 1,
	}, nil
}

// Clear blanks the off-screen frame.
func (o *OLED) Clear() {
	draw.Draw(o.img, o.img.Bounds(), &image.Uniform{C: image1bit.Off}, image.Point{}, draw.Src)
}

// SetCursor positions the top-left corner of the next Print.
func (o *OLED) SetCursor(x, y int) {
	o.x, o.y = x, y
}

// SetTextSize sets the integer glyph scale for subsequent Print calls.
func (o *OLED) SetTextSize(n int) {
	if n < 1 {
		n = 1
	}
	o.size = n
}

// Print draws the string at the cursor and advances the cursor past it.
func (o *OLED) Print(s string) {
	if o.size == 1 {
		d := font.Drawer{
			Dst:  o.img,
			Src:  &image.Uniform{C: image1bit.On},
			Face: basicfont.Face7x13,
			Dot:  fixed.P(o.x, o.y+glyphAscent),
		}
		d.DrawString(s)
		o.x += glyphW * len(s)
		return
	}
	o.printScaled(s)
}

// printScaled renders the string at size 1 into a scratch frame, then block
// copies each lit pixel as a size x size square.
func (o *OLED) printScaled(s string) {
	w := glyphW * len(s)
	scratch := image1bit.NewVerticalLSB(image.Rect(0, 0, w, glyphH))
	d := font.Drawer{
		Dst:  scratch,
		Src:  &image.Uniform{C: image1bit.On},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(0, glyphAscent),
	}
	d.DrawString(s)

	for py := 0; py < glyphH; py++ {
		for px := 0; px < w; px++ {
			if !bool(scratch.BitAt(px, py)) {
				continue
			}
			for dy := 0; dy < o.size; dy++ {
				for dx := 0; dx < o.size; dx++ {
					o.img.SetBit(o.x+px*o.size+dx, o.y+py*o.size+dy, image1bit.On)
				}
			}
		}
	}
	o.x += w * o.size
}

// DrawHLine draws a horizontal line of the given width.
func (o *OLED) DrawHLine(x, y, w int) {
	for i := 0; i < w; i++ {
		o.img.SetBit(x+i, y, image1bit.On)
	}
}

// Commit ships the frame to the panel.
func (o *OLED) Commit() {
	// Draw never fails for a full-frame update; a dead bus surfaces on the
	// next I2C transaction anyway.
	_ = o.dev.Draw(o.dev.Bounds(), o.img, image.Point{})
}

// Close blanks the panel and releases the bus.
func (o *OLED) Close() error {
	if err := o.dev.Halt(); err != nil {
		o.bus.Close()
		return fmt.Errorf("halt ssd1306: %w", err)
	}
	return o.bus.Close()
}
