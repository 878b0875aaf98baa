package logic

import "time"

// Debounce windows. EncoderDebounce is the minimum spacing between accepted
// encoder state changes; ButtonDebounce between accepted button presses.
const (
	EncoderDebounce = 5 * time.Millisecond
	ButtonDebounce  = 200 * time.Millisecond
)

// quadTable resolves rotation direction from a pair of 2-bit encoder states
// (clk<<1 | dt), indexed old<<2|new. The four clockwise transitions
// 00→01→11→10→00 map to +1, their reversals to -1, and every non-adjacent
// transition (contact bounce, missed states) to 0: no event.
var quadTable = [16]int{
	0b0001: +1, // 00 -> 01
	0b0111: +1, // 01 -> 11
	0b1110: +1, // 11 -> 10
	0b1000: +1, // 10 -> 00
	0b0010: -1, // 00 -> 10
	0b1011: -1, // 10 -> 11
	0b1101: -1, // 11 -> 01
	0b0100: -1, // 01 -> 00
}

// Debouncer converts raw encoder/button line samples into at most one clean
// InputEvent per poll.
type Debouncer struct {
	encState      uint8
	encSeen       bool
	lastEncChange time.Time
	lastPress     time.Time
}

// NewDebouncer creates a Debouncer. The first poll only latches the encoder
// baseline state and can never produce a rotation.
func NewDebouncer() *Debouncer {
	return &Debouncer{}
}

// Poll processes one raw sample taken at the given time. pressed must already
// be in logical form (true = button down). Rotation wins over the button when
// both would fire in the same poll.
func (d *Debouncer) Poll(clk, dt, pressed bool, now time.Time) (InputEvent, bool) {
	state := encoderBits(clk, dt)

	if !d.encSeen {
		d.encSeen = true
		d.encState = state
		d.lastEncChange = now
	} else if state != d.encState && now.Sub(d.lastEncChange) >= EncoderDebounce {
		// An accepted change updates state and timer unconditionally,
		// even when the transition resolves to no direction.
		dir := quadTable[d.encState<<2|state]
		d.encState = state
		d.lastEncChange = now
		if dir != 0 {
			return InputEvent{Type: EventRotate, Dir: dir}, true
		}
	}

	if pressed && (d.lastPress.IsZero() || now.Sub(d.lastPress) >= ButtonDebounce) {
		d.lastPress = now
		return InputEvent{Type: EventButtonPress}, true
	}

	return InputEvent{}, false
}

func encoderBits(clk, dt bool) uint8 {
	var s uint8
	if clk {
		s |= 0b10
	}
	if dt {
		s |= 0b01
	}
	return s
}
