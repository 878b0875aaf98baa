package rtc

import (
	"testing"

	"github.com/sweeney/wake-clock/internal/logic"
)

func TestBCDRoundTrip(t *testing.T) {
	for v := 0; v < 100; v++ {
		if got := bcdToInt(intToBCD(v)); got != v {
			t.Errorf("bcd round trip %d: got %d", v, got)
		}
	}
}

func TestBCDKnownValues(t *testing.T) {
	tests := []struct {
		raw  byte
		want int
	}{
		{0x00, 0},
		{0x09, 9},
		{0x10, 10},
		{0x59, 59},
		{0x31, 31},
	}
	for _, tt := range tests {
		if got := bcdToInt(tt.raw); got != tt.want {
			t.Errorf("bcdToInt(%#02x): got %d, want %d", tt.raw, got, tt.want)
		}
		if got := intToBCD(tt.want); got != tt.raw {
			t.Errorf("intToBCD(%d): got %#02x, want %#02x", tt.want, got, tt.raw)
		}
	}
}

func TestFakeClockSetTime(t *testing.T) {
	f := NewFakeClock(logic.DateTime{Year: 2026, Month: 1, Day: 1, Hour: 0, Minute: 0})
	f.PowerLost = true

	dt := logic.DateTime{Year: 2026, Month: 8, Day: 26, Hour: 7, Minute: 5}
	if err := f.SetTime(dt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now, _ := f.Now()
	if now != dt {
		t.Errorf("Now after SetTime: got %+v, want %+v", now, dt)
	}
	if len(f.SetCalls) != 1 || f.SetCalls[0] != dt {
		t.Errorf("SetCalls: got %+v", f.SetCalls)
	}
	if lost, _ := f.LostPower(); lost {
		t.Error("SetTime should clear the power-lost flag")
	}
}

func TestFakeClockAdvanceMinutes(t *testing.T) {
	f := NewFakeClock(logic.DateTime{Year: 2024, Month: 2, Day: 29, Hour: 23, Minute: 59})
	f.AdvanceMinutes(1)

	want := logic.DateTime{Year: 2024, Month: 3, Day: 1, Hour: 0, Minute: 0}
	if f.Current != want {
		t.Errorf("advance across leap-day midnight: got %+v, want %+v", f.Current, want)
	}
}
