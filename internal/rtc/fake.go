package rtc

import "github.com/sweeney/wake-clock/internal/logic"

// FakeClock is a test double with a settable wall time.
type FakeClock struct {
	// Current is the time returned by Now.
	Current logic.DateTime

	// SetCalls records every SetTime invocation.
	SetCalls []logic.DateTime

	// PowerLost controls LostPower; SetTime clears it like the real chip.
	PowerLost bool

	// NowError and SetError, if set, are returned by the matching methods.
	NowError error
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeClock creates a FakeClock reading the given time.
func NewFakeClock(current logic.DateTime) *FakeClock {
	return &FakeClock{Current: current}
}

// Now returns the configured current time.
func (f *FakeClock) Now() (logic.DateTime, error) {
	if f.NowError != nil {
		return logic.DateTime{}, f.NowError
	}
	return f.Current, nil
}

// SetTime records the call and adopts the new time.
func (f *FakeClock) SetTime(dt logic.DateTime) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.SetCalls = append(f.SetCalls, dt)
	f.Current = dt
	f.PowerLost = false
	return nil
}

// LostPower returns the configured flag.
func (f *FakeClock) LostPower() (bool, error) {
	return f.PowerLost, nil
}

// Close marks the clock as closed.
func (f *FakeClock) Close() error {
	f.Closed = true
	return nil
}

// AdvanceMinutes moves the fake wall time forward, rolling hours and days
// within the current month.
func (f *FakeClock) AdvanceMinutes(n int) {
	for i := 0; i < n; i++ {
		f.Current.Minute++
		if f.Current.Minute < 60 {
			continue
		}
		f.Current.Minute = 0
		f.Current.Hour++
		if f.Current.Hour < 24 {
			continue
		}
		f.Current.Hour = 0
		f.Current.Day++
		if f.Current.Day > logic.DaysIn(f.Current.Month, f.Current.Year) {
			f.Current.Day = 1
			f.Current.Month++
			if f.Current.Month > 12 {
				f.Current.Month = 1
				f.Current.Year++
			}
		}
	}
}
