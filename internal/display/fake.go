package display

import (
	"fmt"
	"strings"
)

// FakeSurface records render operations for test assertions.
type FakeSurface struct {
	// Ops is the full call sequence since construction or Reset.
	Ops []string

	// Frame holds the strings printed into the last committed frame.
	Frame []string

	// Commits counts committed frames.
	Commits int

	pending []string
}

// NewFakeSurface creates an empty FakeSurface.
func NewFakeSurface() *FakeSurface {
	return &FakeSurface{}
}

// Clear starts a new frame.
func (f *FakeSurface) Clear() {
	f.Ops = append(f.Ops, "clear")
	f.pending = nil
}

// SetCursor records the cursor move.
func (f *FakeSurface) SetCursor(x, y int) {
	f.Ops = append(f.Ops, fmt.Sprintf("cursor %d,%d", x, y))
}

// SetTextSize records the size change.
func (f *FakeSurface) SetTextSize(n int) {
	f.Ops = append(f.Ops, fmt.Sprintf("size %d", n))
}

// Print records the printed string.
func (f *FakeSurface) Print(s string) {
	f.Ops = append(f.Ops, "print "+s)
	f.pending = append(f.pending, s)
}

// DrawHLine records the line.
func (f *FakeSurface) DrawHLine(x, y, w int) {
	f.Ops = append(f.Ops, fmt.Sprintf("hline %d,%d w%d", x, y, w))
}

// Commit publishes the pending frame.
func (f *FakeSurface) Commit() {
	f.Ops = append(f.Ops, "commit")
	f.Frame = append([]string(nil), f.pending...)
	f.Commits++
}

// Contains reports whether any string printed into the last committed frame
// contains the substring.
func (f *FakeSurface) Contains(sub string) bool {
	for _, s := range f.Frame {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Reset clears all recorded state.
func (f *FakeSurface) Reset() {
	f.Ops = nil
	f.Frame = nil
	f.pending = nil
	f.Commits = 0
}
