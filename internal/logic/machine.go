package logic

import "time"

// Menu items, in display order.
const (
	menuSetDateTime = iota
	menuSetAlarm
	menuBack
	menuItems
)

var menuLabels = [menuItems]string{"Set date/time", "Set alarm", "Back"}

// Controller owns the whole UI/alarm state: active screen, menu selection,
// edit drafts, armed alarm, trigger flag and ramp progress. It is driven from
// a single goroutine; no locking happens here.
type Controller struct {
	surface Surface
	motor   Motor
	clock   TimeSetter

	screen     ScreenState
	menuIndex  int
	dtDraft    draft
	alarmDraft draft
	alarm      ArmedAlarm
	triggered  bool
	ramp       Ramp

	counts        EventCounts
	startTime     time.Time
	lastHeartbeat time.Time
}

// NewController creates a Controller showing the clock screen, with no alarm
// armed. startTime is used for uptime in heartbeat events.
func NewController(surface Surface, motor Motor, clock TimeSetter, startTime time.Time) *Controller {
	return &Controller{
		surface:       surface,
		motor:         motor,
		clock:         clock,
		screen:        ScreenClock,
		alarm:         ArmedAlarm{lastFiredMinute: noFiredMinute},
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Tick runs one pass of the cooperative loop: alarm pre-emption first, then
// the trigger check, then event dispatch for the active screen, then a render.
// now is the RTC wall time, t the scheduler time used for ramp pacing.
// Returned events should be published; the error only reports a failed
// date/time commit to the clock peripheral and never aborts the tick.
func (c *Controller) Tick(now DateTime, t time.Time, ev InputEvent, hasEvent bool) ([]Event, error) {
	// An active alarm owns the tick: the ramp advances and the only input
	// honored is the acknowledging button press.
	if c.triggered {
		var events []Event
		c.ramp.Advance(t, c.motor)
		if hasEvent && ev.Type == EventButtonPress {
			c.triggered = false
			c.ramp.Stop(c.motor)
			c.screen = ScreenClock
			events = append(events, c.event(EventAlarmStopped, t, now))
		}
		c.render(now)
		return c.tally(events), nil
	}

	// Once the minute moves off the alarm minute the guard re-arms, making
	// the alarm effectively daily-repeating.
	if now.Minute != c.alarm.Minute {
		c.alarm.lastFiredMinute = noFiredMinute
	}
	if c.alarm.Armed && c.alarm.Confirmed &&
		now.Hour == c.alarm.Hour && now.Minute == c.alarm.Minute &&
		c.alarm.lastFiredMinute != now.Minute {
		c.triggered = true
		c.alarm.lastFiredMinute = now.Minute
		c.ramp.Start(t, c.alarm.RampSeconds, c.motor)
		c.screen = ScreenWakeUpPopup
		// Force-render the popup now; normal dispatch is skipped this tick.
		c.render(now)
		return c.tally([]Event{c.event(EventAlarmFired, t, now)}), nil
	}

	var events []Event
	var err error
	if hasEvent {
		events, err = c.dispatch(now, t, ev)
	}
	c.render(now)
	return c.tally(events), err
}

func (c *Controller) dispatch(now DateTime, t time.Time, ev InputEvent) ([]Event, error) {
	switch c.screen {
	case ScreenClock:
		// Any rotation opens the menu; direction is ignored here.
		if ev.Type == EventRotate {
			c.screen = ScreenMainMenu
			c.menuIndex = 0
		}

	case ScreenMainMenu:
		switch ev.Type {
		case EventRotate:
			c.menuIndex = (c.menuIndex + ev.Dir + menuItems) % menuItems
		case EventButtonPress:
			switch c.menuIndex {
			case menuSetDateTime:
				c.dtDraft = newDateTimeDraft(now)
				c.screen = ScreenDateTimeEdit
			case menuSetAlarm:
				c.alarmDraft = newAlarmDraft()
				c.alarm.Confirmed = false
				c.screen = ScreenAlarmEdit
			case menuBack:
				c.screen = ScreenClock
			}
		}

	case ScreenDateTimeEdit:
		switch ev.Type {
		case EventRotate:
			c.dtDraft.rotate(ev.Dir)
		case EventButtonPress:
			if c.dtDraft.advance() {
				dt := c.dtDraft.dateTime()
				c.screen = ScreenClock
				err := c.clock.SetTime(dt)
				return []Event{c.event(EventTimeSet, t, dt)}, err
			}
		}

	case ScreenAlarmEdit:
		switch ev.Type {
		case EventRotate:
			c.alarmDraft.rotate(ev.Dir)
		case EventButtonPress:
			if c.alarmDraft.advance() {
				c.alarm = ArmedAlarm{
					Hour:            c.alarmDraft.values[0],
					Minute:          c.alarmDraft.values[1],
					RampSeconds:     c.alarmDraft.values[2],
					Armed:           true,
					Confirmed:       true,
					lastFiredMinute: noFiredMinute,
				}
				c.screen = ScreenClock
				return []Event{c.event(EventAlarmArmed, t, now)}, nil
			}
		}

	case ScreenWakeUpPopup:
		// Only reachable while triggered; handled before dispatch.
	}
	return nil, nil
}

func (c *Controller) event(typ EventType, t time.Time, wall DateTime) Event {
	return Event{Timestamp: t, Type: typ, Alarm: c.alarm, Wall: wall}
}

func (c *Controller) tally(events []Event) []Event {
	for _, e := range events {
		switch e.Type {
		case EventAlarmArmed:
			c.counts.AlarmsArmed++
		case EventTimeSet:
			c.counts.TimesSet++
		case EventAlarmFired:
			c.counts.AlarmsFired++
		case EventAlarmStopped:
			c.counts.AlarmsStopped++
		}
	}
	return events
}

// Screen returns the active screen.
func (c *Controller) Screen() ScreenState {
	return c.screen
}

// MenuIndex returns the selected main menu entry.
func (c *Controller) MenuIndex() int {
	return c.menuIndex
}

// Alarm returns the committed alarm state.
func (c *Controller) Alarm() ArmedAlarm {
	return c.alarm
}

// Triggered reports whether the wake popup/ramp is active.
func (c *Controller) Triggered() bool {
	return c.triggered
}

// Counts returns the event counts since startup.
func (c *Controller) Counts() EventCounts {
	return c.counts
}

// RampIntensity returns the current motor level.
func (c *Controller) RampIntensity() uint8 {
	return c.ramp.Intensity()
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed or
// if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}
	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.counts,
	}
}
