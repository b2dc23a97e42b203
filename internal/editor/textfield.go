package editor

import (
	"strings"

	"github.com/zeusync/prefab/internal/core/input"
)

// TextField captures typed characters while armed.
type TextField struct {
	armed bool
	text  []byte
}

func (t *TextField) Armed() bool  { return t.armed }
func (t *TextField) Text() string { return string(t.text) }

// Arm clears the text and starts capturing.
func (t *TextField) Arm() {
	t.armed = true
	t.text = t.text[:0]
}

// Disarm stops capturing and returns the trimmed text.
func (t *TextField) Disarm() string {
	t.armed = false
	s := strings.TrimSpace(string(t.text))
	t.text = t.text[:0]
	return s
}

// Feed appends the frame's key presses in arrival order. Back deletes the last
// character and LShift held upper-cases letters. It reports whether Return
// was pressed; keys after Return are dropped.
func (t *TextField) Feed(f input.Frame) (submitted bool) {
	upper := f.IsHeld(input.KeyLShift)
	for _, k := range f.Pressed {
		switch k {
		case input.KeyReturn:
			return true
		case input.KeyBack:
			if n := len(t.text); n > 0 {
				t.text = t.text[:n-1]
			}
		default:
			if c, ok := k.Char(upper); ok {
				t.text = append(t.text, c...)
			}
		}
	}
	return false
}
