package input

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Key names a keyboard key. Letters and digits use their upper-case glyph.
type Key string

const (
	KeyA Key = "A"
	KeyB Key = "B"
	KeyC Key = "C"
	KeyD Key = "D"
	KeyE Key = "E"
	KeyF Key = "F"
	KeyG Key = "G"
	KeyH Key = "H"
	KeyI Key = "I"
	KeyJ Key = "J"
	KeyK Key = "K"
	KeyL Key = "L"
	KeyM Key = "M"
	KeyN Key = "N"
	KeyO Key = "O"
	KeyP Key = "P"
	KeyQ Key = "Q"
	KeyR Key = "R"
	KeyS Key = "S"
	KeyT Key = "T"
	KeyU Key = "U"
	KeyV Key = "V"
	KeyW Key = "W"
	KeyX Key = "X"
	KeyY Key = "Y"
	KeyZ Key = "Z"

	Key0 Key = "0"
	Key1 Key = "1"
	Key2 Key = "2"
	Key3 Key = "3"
	Key4 Key = "4"
	Key5 Key = "5"
	Key6 Key = "6"
	Key7 Key = "7"
	Key8 Key = "8"
	Key9 Key = "9"

	KeyPeriod   Key = "Period"
	KeyReturn   Key = "Return"
	KeyBack     Key = "Back"
	KeyLShift   Key = "LShift"
	KeyLControl Key = "LControl"
)

// Digit reports the numeric value of a digit key.
func (k Key) Digit() (int, bool) {
	if len(k) == 1 && k[0] >= '0' && k[0] <= '9' {
		return int(k[0] - '0'), true
	}
	return 0, false
}

// Char returns the text a key types into a text field, lower case unless
// upper is set. Keys without a glyph return false.
func (k Key) Char(upper bool) (string, bool) {
	switch {
	case len(k) == 1 && k[0] >= 'A' && k[0] <= 'Z':
		if upper {
			return string(k), true
		}
		return strings.ToLower(string(k)), true
	case len(k) == 1 && k[0] >= '0' && k[0] <= '9':
		return string(k), true
	case k == KeyPeriod:
		return ".", true
	}
	return "", false
}

// WheelUnit tells how a scroll delta is measured.
type WheelUnit uint8

const (
	WheelLine WheelUnit = iota
	WheelPixel
)

func (u WheelUnit) String() string {
	if u == WheelPixel {
		return "pixel"
	}
	return "line"
}

func (u WheelUnit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *WheelUnit) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "line", "":
		*u = WheelLine
	case "pixel":
		*u = WheelPixel
	default:
		return fmt.Errorf("input: unknown wheel unit %q", text)
	}
	return nil
}

// Wheel is one scroll sample.
type Wheel struct {
	Unit WheelUnit `yaml:"unit"`
	Y    float32   `yaml:"y"`
}

// Button names an editor UI button.
type Button string

const (
	ButtonSave Button = "save"
	// ButtonAddComponent arms the text field; a second click disarms it.
	ButtonAddComponent Button = "add_component"
)

// Frame is the input buffered during one editor cycle.
type Frame struct {
	// Pressed lists keys that went down this frame, in arrival order.
	Pressed []Key `yaml:"pressed"`
	// Held is the set of keys down at the end of the frame, including Pressed.
	Held   map[Key]bool `yaml:"held"`
	Motion []mgl32.Vec2 `yaml:"motion"`
	Wheel  []Wheel      `yaml:"wheel"`
	Clicks []Button     `yaml:"clicks"`
}

// JustPressed reports whether k went down this frame.
func (f Frame) JustPressed(k Key) bool {
	for _, p := range f.Pressed {
		if p == k {
			return true
		}
	}
	return false
}

// IsHeld reports whether k is down, either held from before or pressed this frame.
func (f Frame) IsHeld(k Key) bool {
	return f.Held[k] || f.JustPressed(k)
}

// Clicked reports whether b was clicked this frame.
func (f Frame) Clicked(b Button) bool {
	for _, c := range f.Clicks {
		if c == b {
			return true
		}
	}
	return false
}
