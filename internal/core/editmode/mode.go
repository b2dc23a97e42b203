package editmode

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind is the transform being edited.
type Kind uint8

const (
	KindNone Kind = iota
	KindTranslate
	KindRotate
	KindScale
)

func (k Kind) String() string {
	switch k {
	case KindTranslate:
		return "translate"
	case KindRotate:
		return "rotate"
	case KindScale:
		return "scale"
	default:
		return "none"
	}
}

// Axis is the latched axis lock.
type Axis uint8

const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "none"
	}
}

// unit returns the unit vector of a and false for AxisNone.
func (a Axis) unit() (mgl32.Vec3, bool) {
	switch a {
	case AxisX:
		return mgl32.Vec3{1, 0, 0}, true
	case AxisY:
		return mgl32.Vec3{0, 1, 0}, true
	case AxisZ:
		return mgl32.Vec3{0, 0, 1}, true
	}
	return mgl32.Vec3{}, false
}

// NoDecimal marks digit entry that has not reached the fractional part.
const NoDecimal = -1

// Mode is the edit state carried between frames.
type Mode struct {
	// Pointer selects pointer drag over digit entry.
	Pointer bool
	Kind    Kind
	Axis    Axis
	// Decimal counts fractional digits typed so far, NoDecimal before the
	// fraction key.
	Decimal int
	// Value is the scalar accumulated since the last reset.
	Value float32
}

// Idle returns the reset mode.
func Idle() Mode {
	return Mode{Decimal: NoDecimal}
}

// Reset returns m to idle.
func (m *Mode) Reset() {
	*m = Idle()
}

func (m Mode) String() string {
	input := "digits"
	if m.Pointer {
		input = "pointer"
	}
	return fmt.Sprintf("%s/%s/%s value=%g", m.Kind, m.Axis, input, m.Value)
}

// Event is one edit produced by the machine. Vector is set for translate and
// scale; Rotation for rotate.
type Event struct {
	Kind     Kind
	Vector   mgl32.Vec3
	Rotation mgl32.Quat
}

// newEvent shapes delta for kind along axis. With no axis the translation and
// scale vectors are zero and the rotation is the identity.
func newEvent(kind Kind, axis Axis, delta float32) Event {
	ev := Event{Kind: kind, Rotation: mgl32.QuatIdent()}
	dir, ok := axis.unit()
	if !ok {
		return ev
	}
	switch kind {
	case KindTranslate:
		ev.Vector = dir.Mul(delta)
	case KindScale:
		ev.Vector = mgl32.Vec3{1, 1, 1}
		ev.Vector[axis-AxisX] = delta
	case KindRotate:
		ev.Rotation = mgl32.QuatRotate(delta, dir)
	}
	return ev
}
