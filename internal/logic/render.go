package logic

import "fmt"

// Display cell geometry used to lay screens out. The surface implementation
// owns actual pixels; these only have to produce a stable, readable layout on
// the 128x64 module the device ships with.
const (
	cellW      = 7
	lineH      = 14
	displayW   = 128
	titleLineY = 11
)

// render draws the active screen. It is idempotent: purely a function of the
// controller state and the wall time, with no state mutation.
func (c *Controller) render(now DateTime) {
	c.surface.Clear()
	switch c.screen {
	case ScreenClock:
		c.renderClock(now)
	case ScreenMainMenu:
		c.renderMenu()
	case ScreenDateTimeEdit:
		c.renderDateTimeEdit()
	case ScreenAlarmEdit:
		c.renderAlarmEdit()
	case ScreenWakeUpPopup:
		c.renderWakeUpPopup()
	}
	c.surface.Commit()
}

func (c *Controller) renderClock(now DateTime) {
	s := c.surface
	s.SetTextSize(2)
	s.SetCursor(29, 8)
	s.Print(fmt.Sprintf("%02d:%02d", now.Hour, now.Minute))

	s.SetTextSize(1)
	s.SetCursor(29, 34)
	s.Print(fmt.Sprintf("%04d-%02d-%02d", now.Year, now.Month, now.Day))

	s.SetCursor(29, 50)
	if c.alarm.Armed && c.alarm.Confirmed {
		s.Print(fmt.Sprintf("Alarm %02d:%02d", c.alarm.Hour, c.alarm.Minute))
	} else {
		s.Print("Alarm off")
	}
}

func (c *Controller) renderMenu() {
	s := c.surface
	s.SetTextSize(1)
	s.SetCursor(0, 0)
	s.Print("Menu")
	s.DrawHLine(0, titleLineY, displayW)

	for i, label := range menuLabels {
		s.SetCursor(0, 16+i*lineH)
		if i == c.menuIndex {
			s.Print("> " + label)
		} else {
			s.Print("  " + label)
		}
	}
}

func (c *Controller) renderDateTimeEdit() {
	s := c.surface
	s.SetTextSize(1)
	s.SetCursor(0, 0)
	s.Print("Set date/time")
	s.DrawHLine(0, titleLineY, displayW)

	v := c.dtDraft.values
	f := c.dtDraft.field
	s.SetCursor(0, 20)
	s.Print(fmt.Sprintf("%s-%s-%s",
		markField(fmt.Sprintf("%04d", v[fieldYear]), f == fieldYear),
		markField(fmt.Sprintf("%02d", v[fieldMonth]), f == fieldMonth),
		markField(fmt.Sprintf("%02d", v[fieldDay]), f == fieldDay)))
	s.SetCursor(0, 36)
	s.Print(fmt.Sprintf("%s:%s",
		markField(fmt.Sprintf("%02d", v[fieldHour]), f == fieldHour),
		markField(fmt.Sprintf("%02d", v[fieldMinute]), f == fieldMinute)))
	s.SetCursor(0, 52)
	s.Print("press: next field")
}

func (c *Controller) renderAlarmEdit() {
	s := c.surface
	s.SetTextSize(1)
	s.SetCursor(0, 0)
	s.Print("Set alarm")
	s.DrawHLine(0, titleLineY, displayW)

	v := c.alarmDraft.values
	f := c.alarmDraft.field
	s.SetCursor(0, 20)
	s.Print(fmt.Sprintf("%s:%s",
		markField(fmt.Sprintf("%02d", v[0]), f == 0),
		markField(fmt.Sprintf("%02d", v[1]), f == 1)))
	s.SetCursor(0, 36)
	s.Print(fmt.Sprintf("Ramp %s", markField(fmt.Sprintf("%ds", v[2]), f == 2)))
	s.SetCursor(0, 52)
	s.Print("press: next field")
}

func (c *Controller) renderWakeUpPopup() {
	s := c.surface
	s.SetTextSize(2)
	s.SetCursor(8, 16)
	s.Print("WAKE UP!")
	s.SetTextSize(1)
	s.SetCursor(15, 44)
	s.Print("press to stop")
}

// markField brackets the value under the field cursor.
func markField(v string, selected bool) string {
	if selected {
		return "[" + v + "]"
	}
	return v
}
