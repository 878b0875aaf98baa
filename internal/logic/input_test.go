package logic

import (
	"testing"
	"time"
)

// encoder states as (clk, dt) pairs, indexed by the 2-bit value.
var encStates = [4][2]bool{
	{false, false}, // 00
	{false, true},  // 01
	{true, false},  // 10
	{true, true},   // 11
}

func pollState(t *testing.T, d *Debouncer, state uint8, now time.Time) (InputEvent, bool) {
	t.Helper()
	s := encStates[state]
	return d.Poll(s[0], s[1], false, now)
}

func TestQuadratureClockwise(t *testing.T) {
	d := NewDebouncer()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Latch baseline 00.
	if _, ok := pollState(t, d, 0b00, now); ok {
		t.Fatal("baseline poll should not produce an event")
	}

	// 00 -> 01 -> 11 -> 10 -> 00, each spaced beyond the debounce window.
	for i, state := range []uint8{0b01, 0b11, 0b10, 0b00} {
		now = now.Add(10 * time.Millisecond)
		ev, ok := pollState(t, d, state, now)
		if !ok {
			t.Fatalf("step %d: expected an event", i)
		}
		if ev.Type != EventRotate || ev.Dir != +1 {
			t.Errorf("step %d: got %+v, want Rotate(+1)", i, ev)
		}
	}
}

func TestQuadratureCounterClockwise(t *testing.T) {
	d := NewDebouncer()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	pollState(t, d, 0b00, now)

	for i, state := range []uint8{0b10, 0b11, 0b01, 0b00} {
		now = now.Add(10 * time.Millisecond)
		ev, ok := pollState(t, d, state, now)
		if !ok {
			t.Fatalf("step %d: expected an event", i)
		}
		if ev.Type != EventRotate || ev.Dir != -1 {
			t.Errorf("step %d: got %+v, want Rotate(-1)", i, ev)
		}
	}
}

func TestQuadratureSkippedStateIgnored(t *testing.T) {
	d := NewDebouncer()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	pollState(t, d, 0b00, now)

	// 00 -> 11 is not adjacent: no event, but the state is still accepted.
	now = now.Add(10 * time.Millisecond)
	if _, ok := pollState(t, d, 0b11, now); ok {
		t.Error("skipped-state transition should produce no event")
	}

	// The debouncer now tracks 11, so 11 -> 10 is a valid CW step.
	now = now.Add(10 * time.Millisecond)
	ev, ok := pollState(t, d, 0b10, now)
	if !ok || ev.Dir != +1 {
		t.Errorf("after skipped state: got (%+v, %v), want Rotate(+1)", ev, ok)
	}
}

func TestEncoderDebounceWindow(t *testing.T) {
	d := NewDebouncer()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	pollState(t, d, 0b00, now)

	// A change 2ms after baseline is bounce: not accepted, state unchanged.
	if _, ok := pollState(t, d, 0b01, now.Add(2*time.Millisecond)); ok {
		t.Error("change inside the 5ms window should not be accepted")
	}

	// The same change at 5ms is accepted and resolves CW.
	ev, ok := pollState(t, d, 0b01, now.Add(5*time.Millisecond))
	if !ok || ev.Dir != +1 {
		t.Errorf("change at window edge: got (%+v, %v), want Rotate(+1)", ev, ok)
	}
}

func TestButtonDebounce(t *testing.T) {
	d := NewDebouncer()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	ev, ok := d.Poll(false, false, true, now)
	if !ok || ev.Type != EventButtonPress {
		t.Fatalf("first press: got (%+v, %v), want ButtonPress", ev, ok)
	}

	// Still held 50ms later: inside the 200ms window, no repeat.
	if _, ok := d.Poll(false, false, true, now.Add(50*time.Millisecond)); ok {
		t.Error("held button inside window should not re-fire")
	}

	// Held past the window: fires again.
	ev, ok = d.Poll(false, false, true, now.Add(200*time.Millisecond))
	if !ok || ev.Type != EventButtonPress {
		t.Errorf("press after window: got (%+v, %v), want ButtonPress", ev, ok)
	}
}

func TestRotationWinsOverButton(t *testing.T) {
	d := NewDebouncer()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d.Poll(false, false, false, now)

	// Rotation and press in the same poll: at most one event, rotation first.
	now = now.Add(10 * time.Millisecond)
	ev, ok := d.Poll(false, true, true, now)
	if !ok || ev.Type != EventRotate {
		t.Fatalf("got (%+v, %v), want Rotate", ev, ok)
	}

	// The press is still pending and fires on the next poll.
	now = now.Add(10 * time.Millisecond)
	ev, ok = d.Poll(false, true, true, now)
	if !ok || ev.Type != EventButtonPress {
		t.Errorf("got (%+v, %v), want ButtonPress", ev, ok)
	}
}

func TestIdleProducesNothing(t *testing.T) {
	d := NewDebouncer()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		if _, ok := d.Poll(true, true, false, now.Add(time.Duration(i)*10*time.Millisecond)); ok {
			t.Fatalf("poll %d: idle lines produced an event", i)
		}
	}
}
