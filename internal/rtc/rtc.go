// Package rtc provides wall-clock access with hardware abstraction.
// The real implementation talks to a DS3231 over I2C.
// The fake implementation allows testing without hardware.
package rtc

import "github.com/sweeney/wake-clock/internal/logic"

// Clock is the clock peripheral capability the daemon consumes.
type Clock interface {
	// Now returns the current wall time at minute resolution.
	Now() (logic.DateTime, error)

	// SetTime writes the given wall time to the peripheral.
	SetTime(dt logic.DateTime) error

	// LostPower reports whether the peripheral lost power since the time
	// was last set. Checked once at startup to decide whether to seed the
	// clock.
	LostPower() (bool, error)

	// Close releases the bus.
	Close() error
}
