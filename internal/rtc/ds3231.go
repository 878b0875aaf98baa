package rtc

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"github.com/sweeney/wake-clock/internal/logic"
)

// DS3231 register map (the subset this daemon needs).
const (
	ds3231Addr = 0x68

	regSeconds = 0x00
	regStatus  = 0x0F

	// Oscillator Stop Flag: set while the oscillator was stopped, i.e. the
	// backup battery ran out and the time is not to be trusted.
	statusOSF = 0x80
)

// DS3231 is a battery-backed RTC on the I2C bus.
type DS3231 struct {
	bus i2c.BusCloser
	dev *i2c.Dev
}

// NewDS3231 opens the named I2C bus ("1" on a Raspberry Pi) and probes the
// clock with a status read so a missing chip fails at startup, not mid-loop.
func NewDS3231(busName string) (*DS3231, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	d := &DS3231{bus: bus, dev: &i2c.Dev{Bus: bus, Addr: ds3231Addr}}
	if _, err := d.readStatus(); err != nil {
		bus.Close()
		return nil, fmt.Errorf("probe ds3231: %w", err)
	}
	return d, nil
}

// Now reads the time registers and returns the wall time.
func (d *DS3231) Now() (logic.DateTime, error) {
	buf := make([]byte, 7)
	if err := d.dev.Tx([]byte{regSeconds}, buf); err != nil {
		return logic.DateTime{}, fmt.Errorf("read time registers: %w", err)
	}

	return logic.DateTime{
		Year:   2000 + bcdToInt(buf[6]),
		Month:  bcdToInt(buf[5] & 0x1F),
		Day:    bcdToInt(buf[4] & 0x3F),
		Hour:   bcdToInt(buf[2] & 0x3F),
		Minute: bcdToInt(buf[1] & 0x7F),
	}, nil
}

// SetTime writes the wall time and clears the oscillator-stop flag, so
// LostPower reads false until the next outage.
func (d *DS3231) SetTime(dt logic.DateTime) error {
	w := []byte{
		regSeconds,
		0, // seconds
		intToBCD(dt.Minute),
		intToBCD(dt.Hour), // 24h mode: bit 6 clear
		1,                 // weekday, unused by this device
		intToBCD(dt.Day),
		intToBCD(dt.Month),
		intToBCD(dt.Year - 2000),
	}
	if err := d.dev.Tx(w, nil); err != nil {
		return fmt.Errorf("write time registers: %w", err)
	}

	status, err := d.readStatus()
	if err != nil {
		return err
	}
	if err := d.dev.Tx([]byte{regStatus, status &^ statusOSF}, nil); err != nil {
		return fmt.Errorf("clear OSF: %w", err)
	}
	return nil
}

// LostPower reports whether the oscillator stopped since the last SetTime.
func (d *DS3231) LostPower() (bool, error) {
	status, err := d.readStatus()
	if err != nil {
		return false, err
	}
	return status&statusOSF != 0, nil
}

// Close releases the I2C bus.
func (d *DS3231) Close() error {
	return d.bus.Close()
}

func (d *DS3231) readStatus() (byte, error) {
	buf := make([]byte, 1)
	if err := d.dev.Tx([]byte{regStatus}, buf); err != nil {
		return 0, fmt.Errorf("read status register: %w", err)
	}
	return buf[0], nil
}

func bcdToInt(v byte) int {
	return int(v>>4)*10 + int(v&0x0F)
}

func intToBCD(v int) byte {
	return byte(v/10)<<4 | byte(v%10)
}
