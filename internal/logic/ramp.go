package logic

import "time"

// FullIntensity is the motor level at the top of the ramp.
const FullIntensity = 255

// Ramp drives motor intensity from 0 to FullIntensity over a configured number
// of one-second steps. It is a resumable progress record advanced once per
// scheduler tick, so a button press can cut it short at any step — unlike the
// blocking sleep loop it replaces.
type Ramp struct {
	active     bool
	step       int
	totalSteps int
	nextStepAt time.Time
}

// Start begins a ramp of the given duration. With zero seconds the motor jumps
// straight to full intensity.
func (r *Ramp) Start(now time.Time, seconds int, m Motor) {
	r.active = true
	r.step = 0
	r.totalSteps = seconds
	r.nextStepAt = now.Add(time.Second)
	m.SetIntensity(r.Intensity())
}

// Advance moves the ramp forward if a step boundary has passed. After the last
// step the motor holds at full intensity until Stop.
func (r *Ramp) Advance(now time.Time, m Motor) {
	if !r.active || r.step >= r.totalSteps {
		return
	}
	moved := false
	for !now.Before(r.nextStepAt) && r.step < r.totalSteps {
		r.step++
		r.nextStepAt = r.nextStepAt.Add(time.Second)
		moved = true
	}
	if moved {
		m.SetIntensity(r.Intensity())
	}
}

// Stop cuts the motor immediately and deactivates the ramp.
func (r *Ramp) Stop(m Motor) {
	r.active = false
	r.step = 0
	r.totalSteps = 0
	m.SetIntensity(0)
}

// Active reports whether the ramp has been started and not stopped.
func (r *Ramp) Active() bool {
	return r.active
}

// Intensity returns the current motor level: the linear interpolation of the
// current step onto [0, FullIntensity].
func (r *Ramp) Intensity() uint8 {
	if !r.active {
		return 0
	}
	if r.totalSteps == 0 || r.step >= r.totalSteps {
		return FullIntensity
	}
	return uint8(r.step * FullIntensity / r.totalSteps)
}
