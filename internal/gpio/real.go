//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the encoder and button lines from actual hardware using
// the Linux GPIO character device.
type RealReader struct {
	chip *gpiocdev.Chip
	clk  *gpiocdev.Line
	dt   *gpiocdev.Line
	btn  *gpiocdev.Line
}

// NewRealReader creates a GPIO reader for actual Raspberry Pi hardware.
// All three lines are requested as inputs with pull-ups: the KY-040 module
// idles both encoder phases high, and the button shorts its line to ground.
func NewRealReader(pinClk, pinDt, pinBtn int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	clk, err := chip.RequestLine(pinClk, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request CLK pin %d: %w", pinClk, err)
	}

	dt, err := chip.RequestLine(pinDt, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		clk.Close()
		chip.Close()
		return nil, fmt.Errorf("request DT pin %d: %w", pinDt, err)
	}

	btn, err := chip.RequestLine(pinBtn, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		dt.Close()
		clk.Close()
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pinBtn, err)
	}

	return &RealReader{chip: chip, clk: clk, dt: dt, btn: btn}, nil
}

// Read returns the logical states of the three lines.
// The button is active-low: raw 0 = pressed.
func (r *RealReader) Read() (Sample, error) {
	clkRaw, err := r.clk.Value()
	if err != nil {
		return Sample{}, fmt.Errorf("read CLK pin: %w", err)
	}
	dtRaw, err := r.dt.Value()
	if err != nil {
		return Sample{}, fmt.Errorf("read DT pin: %w", err)
	}
	btnRaw, err := r.btn.Value()
	if err != nil {
		return Sample{}, fmt.Errorf("read button pin: %w", err)
	}

	return Sample{
		Clk:     clkRaw != 0,
		Dt:      dtRaw != 0,
		Pressed: btnRaw == 0,
	}, nil
}

// Close releases GPIO resources. Pins are reconfigured to input with
// pull-down (matching Pi boot defaults) before closing to ensure clean state
// for system shutdown/reboot.
func (r *RealReader) Close() error {
	var errs []error

	for _, line := range []*gpiocdev.Line{r.clk, r.dt, r.btn} {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin: %w", err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
