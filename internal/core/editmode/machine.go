package editmode

import (
	"math"

	"github.com/zeusync/prefab/internal/core/input"
)

// Bindings maps machine actions to keys.
type Bindings struct {
	Translate input.Key
	Rotate    input.Key
	Scale     input.Key
	AxisX     input.Key
	AxisY     input.Key
	AxisZ     input.Key
	Fraction  input.Key
	Commit    input.Key
}

func DefaultBindings() Bindings {
	return Bindings{
		Translate: input.KeyT,
		Rotate:    input.KeyR,
		Scale:     input.KeyS,
		AxisX:     input.KeyX,
		AxisY:     input.KeyY,
		AxisZ:     input.KeyZ,
		Fraction:  input.KeyPeriod,
		Commit:    input.KeyReturn,
	}
}

// Tuning holds the pointer drag sensitivity parameters.
type Tuning struct {
	// Multiplier is the starting drag sensitivity.
	Multiplier float32
	// Floor is the lowest sensitivity the wheel can reach.
	Floor     float32
	LineStep  float32
	PixelStep float32
}

func DefaultTuning() Tuning {
	return Tuning{
		Multiplier: 0.001,
		Floor:      0.001,
		LineStep:   0.003,
		PixelStep:  0.00025,
	}
}

// Machine turns buffered frame input into transform edit events. It keeps the
// mode between frames and is driven from a single goroutine.
type Machine struct {
	mode       Mode
	multiplier float32
	bindings   Bindings
	tuning     Tuning
}

func NewMachine(b Bindings, t Tuning) *Machine {
	return &Machine{
		mode:       Idle(),
		multiplier: max(t.Multiplier, t.Floor),
		bindings:   b,
		tuning:     t,
	}
}

// Mode returns a copy of the current mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Multiplier returns the current drag sensitivity.
func (m *Machine) Multiplier() float32 {
	return m.multiplier
}

// Reset commits the current edit. The drag sensitivity is kept.
func (m *Machine) Reset() {
	m.mode.Reset()
}

// Update advances the machine by one frame and returns the events it emitted,
// in order. Mode keys are handled first, then commit, then axis locks, then
// the fraction key; value input comes last and is read from the pointer or
// from digit keys depending on the mode reached.
func (m *Machine) Update(f input.Frame) []Event {
	for _, k := range f.Pressed {
		switch k {
		case m.bindings.Translate:
			m.selectKind(KindTranslate)
		case m.bindings.Rotate:
			m.selectKind(KindRotate)
		case m.bindings.Scale:
			m.selectKind(KindScale)
		}
	}
	if f.JustPressed(m.bindings.Commit) {
		m.mode.Reset()
	}
	for _, k := range f.Pressed {
		switch k {
		case m.bindings.AxisX:
			m.mode.Axis = AxisX
		case m.bindings.AxisY:
			m.mode.Axis = AxisY
		case m.bindings.AxisZ:
			m.mode.Axis = AxisZ
		}
	}
	if f.JustPressed(m.bindings.Fraction) {
		m.mode.Decimal = 0
	}

	var events []Event
	if m.mode.Pointer {
		for _, w := range f.Wheel {
			m.scroll(w)
		}
		for _, mv := range f.Motion {
			events = m.accumulate(events, mv.X()*m.multiplier)
		}
		return events
	}

	for _, k := range f.Pressed {
		d, ok := k.Digit()
		if !ok {
			continue
		}
		prev := m.mode.Value
		if m.mode.Decimal == NoDecimal {
			m.mode.Value = m.mode.Value*10 + float32(d)
		} else {
			m.mode.Decimal++
			m.mode.Value += float32(d) * float32(math.Pow(10, -float64(m.mode.Decimal)))
		}
		events = m.emit(events, m.mode.Value-prev)
	}
	return events
}

// selectKind switches to kind, or toggles pointer drag when kind is already active.
func (m *Machine) selectKind(kind Kind) {
	if m.mode.Kind == kind {
		m.mode.Pointer = !m.mode.Pointer
	}
	m.mode.Kind = kind
}

func (m *Machine) scroll(w input.Wheel) {
	step := m.tuning.LineStep
	if w.Unit == input.WheelPixel {
		step = m.tuning.PixelStep
	}
	m.multiplier = max(m.multiplier+w.Y*step, m.tuning.Floor)
}

func (m *Machine) accumulate(events []Event, delta float32) []Event {
	m.mode.Value += delta
	return m.emit(events, delta)
}

func (m *Machine) emit(events []Event, delta float32) []Event {
	if m.mode.Kind == KindNone {
		return events
	}
	return append(events, newEvent(m.mode.Kind, m.mode.Axis, delta))
}
