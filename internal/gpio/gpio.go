// Package gpio provides raw input line reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Sample is one raw reading of the three input lines, already in logical
// form: Pressed is true when the active-low button line reads low.
type Sample struct {
	Clk     bool
	Dt      bool
	Pressed bool
}

// Reader reads the encoder and button line states.
type Reader interface {
	Read() (Sample, error)

	// Close releases GPIO resources.
	Close() error
}

// Default pin assignments (BCM numbering) for a KY-040 encoder module.
const (
	DefaultPinClk = 17
	DefaultPinDt  = 27
	DefaultPinBtn = 22
)
