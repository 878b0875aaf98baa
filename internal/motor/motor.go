// Package motor drives the vibration motor through a PWM-capable GPIO pin.
// The fake implementation allows testing without hardware.
package motor

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// pwmFreq is high enough that the motor hums instead of ticking.
const pwmFreq = 25 * physic.KiloHertz

// PWM drives the motor with a hardware PWM pin.
type PWM struct {
	pin gpio.PinIO
}

// NewPWM looks up the named pin ("GPIO18" on a Raspberry Pi) and parks it at
// zero duty.
func NewPWM(pinName string) (*PWM, error) {
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("no such pin %q", pinName)
	}
	if err := pin.PWM(0, pwmFreq); err != nil {
		return nil, fmt.Errorf("configure pwm on %s: %w", pinName, err)
	}
	return &PWM{pin: pin}, nil
}

// SetIntensity maps the 8-bit level onto the pin's duty cycle.
// A failed write is logged, not propagated: the loop must keep running and
// the next tick retries anyway.
func (p *PWM) SetIntensity(level uint8) {
	duty := gpio.Duty(uint64(level) * uint64(gpio.DutyMax) / 255)
	if err := p.pin.PWM(duty, pwmFreq); err != nil {
		log.Printf("motor: pwm write: %v", err)
	}
}

// Close stops the motor and releases the pin.
func (p *PWM) Close() error {
	return p.pin.Halt()
}
