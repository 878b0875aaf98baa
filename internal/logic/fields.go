package logic

// Alarm draft defaults presented on entering the alarm editor.
const (
	DefaultAlarmHour   = 6
	DefaultAlarmMinute = 30
	DefaultRampSeconds = 10
)

// Editable year range. The DS3231 century covers 2000-2099.
const (
	minYear = 2000
	maxYear = 2099
)

// Positions within a date/time draft.
const (
	fieldYear = iota
	fieldMonth
	fieldDay
	fieldHour
	fieldMinute
)

// fieldSpec describes one editable bounded integer field. The upper bound is
// computed from the whole draft so the day can follow month and leap year.
type fieldSpec struct {
	min int
	max func(values []int) int
}

var dateTimeFields = []fieldSpec{
	{min: minYear, max: func([]int) int { return maxYear }},
	{min: 1, max: func([]int) int { return 12 }},
	{min: 1, max: func(v []int) int { return DaysIn(v[fieldMonth], v[fieldYear]) }},
	{min: 0, max: func([]int) int { return 23 }},
	{min: 0, max: func([]int) int { return 59 }},
}

var alarmFields = []fieldSpec{
	{min: 0, max: func([]int) int { return 23 }},
	{min: 0, max: func([]int) int { return 59 }},
	{min: 0, max: func([]int) int { return 60 }},
}

// IsLeapYear reports whether the year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in the given month of the given year.
func DaysIn(month, year int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// draft is an in-progress, uncommitted edit buffer with a field cursor.
type draft struct {
	values []int
	specs  []fieldSpec
	field  int
}

func newDateTimeDraft(now DateTime) draft {
	return draft{
		values: []int{now.Year, now.Month, now.Day, now.Hour, now.Minute},
		specs:  dateTimeFields,
	}
}

func newAlarmDraft() draft {
	return draft{
		values: []int{DefaultAlarmHour, DefaultAlarmMinute, DefaultRampSeconds},
		specs:  alarmFields,
	}
}

// rotate mutates the current field by dir with wraparound, then re-normalizes
// every field against its (possibly shrunk) bound: editing January into
// February must pull day 31 back to 28/29.
func (d *draft) rotate(dir int) {
	sp := d.specs[d.field]
	d.values[d.field] = wrap(d.values[d.field]+dir, sp.min, sp.max(d.values))

	for i, s := range d.specs {
		if hi := s.max(d.values); d.values[i] > hi {
			d.values[i] = hi
		}
	}
}

// advance moves the cursor to the next field and reports whether it ran past
// the last one, i.e. the draft is ready to commit.
func (d *draft) advance() bool {
	d.field++
	if d.field >= len(d.values) {
		d.field = 0
		return true
	}
	return false
}

func (d *draft) dateTime() DateTime {
	return DateTime{
		Year:   d.values[fieldYear],
		Month:  d.values[fieldMonth],
		Day:    d.values[fieldDay],
		Hour:   d.values[fieldHour],
		Minute: d.values[fieldMinute],
	}
}

// wrap folds v into [min, max] by modular arithmetic, never clamping.
func wrap(v, min, max int) int {
	span := max - min + 1
	return min + ((v-min)%span+span)%span
}
