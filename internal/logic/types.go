// Package logic contains the pure UI/alarm state machine of the wake clock.
// This package has NO external dependencies (no GPIO, I2C, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters; peripherals are reached only
// through the small capability interfaces defined here.
package logic

import "time"

// ScreenState identifies which screen owns the display. Exactly one is active.
type ScreenState string

const (
	ScreenClock        ScreenState = "CLOCK"
	ScreenMainMenu     ScreenState = "MENU"
	ScreenDateTimeEdit ScreenState = "DATETIME_EDIT"
	ScreenAlarmEdit    ScreenState = "ALARM_EDIT"
	ScreenWakeUpPopup  ScreenState = "WAKEUP"
)

// DateTime is a minute-resolution wall clock reading from the RTC.
type DateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// InputEventType distinguishes the two debounced input events.
type InputEventType int

const (
	EventRotate InputEventType = iota
	EventButtonPress
)

// InputEvent is one debounced input event. Dir is +1 (clockwise) or -1
// (counter-clockwise) for rotations, 0 for button presses.
type InputEvent struct {
	Type InputEventType
	Dir  int
}

// ArmedAlarm is the committed alarm. Armed means a time was saved; Confirmed
// means the edit flow ran to completion — a half-finished edit never fires.
type ArmedAlarm struct {
	Hour        int
	Minute      int
	RampSeconds int
	Armed       bool
	Confirmed   bool

	// lastFiredMinute guards against re-firing within the same matching
	// minute. -1 means "may fire". It resets whenever the current minute
	// moves off the alarm minute, so the alarm repeats daily.
	lastFiredMinute int
}

const noFiredMinute = -1

// EventType represents a state transition event published to MQTT.
type EventType string

const (
	EventAlarmArmed   EventType = "ALARM_ARMED"
	EventTimeSet      EventType = "TIME_SET"
	EventAlarmFired   EventType = "ALARM_FIRED"
	EventAlarmStopped EventType = "ALARM_STOPPED"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Alarm     ArmedAlarm
	Wall      DateTime
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	AlarmsArmed   int
	TimesSet      int
	AlarmsFired   int
	AlarmsStopped int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}

// Surface is the render capability the state machine draws through.
// Calls between Clear and Commit describe one frame; the exact pixel layout
// belongs to the implementation, only the content order is contractual.
type Surface interface {
	Clear()
	SetCursor(x, y int)
	SetTextSize(n int)
	Print(s string)
	DrawHLine(x, y, w int)
	Commit()
}

// Motor is the vibration actuator capability.
type Motor interface {
	SetIntensity(level uint8)
}

// TimeSetter commits an edited date/time to the clock peripheral.
type TimeSetter interface {
	SetTime(dt DateTime) error
}
