package motor

// FakeMotor records every intensity level applied.
type FakeMotor struct {
	Levels []uint8
}

// NewFakeMotor creates a FakeMotor.
func NewFakeMotor() *FakeMotor {
	return &FakeMotor{}
}

// SetIntensity records the level.
func (f *FakeMotor) SetIntensity(level uint8) {
	f.Levels = append(f.Levels, level)
}

// Level returns the most recently applied intensity, or 0 if none.
func (f *FakeMotor) Level() uint8 {
	if len(f.Levels) == 0 {
		return 0
	}
	return f.Levels[len(f.Levels)-1]
}

// Reset clears recorded levels.
func (f *FakeMotor) Reset() {
	f.Levels = nil
}
