package models

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind enumerates the closed set of value kinds a Bag field can hold.
// Registry capabilities (clone, apply, encode) dispatch on it.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindVec2
	KindVec3
	KindVec4
	KindQuat
	KindBag
	KindList
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindString:  "string",
	KindVec2:    "vec2",
	KindVec3:    "vec3",
	KindVec4:    "vec4",
	KindQuat:    "quat",
	KindBag:     "bag",
	KindList:    "list",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a single field value. The implementations below are the only ones;
// the interface is sealed by the unexported method.
type Value interface {
	Kind() Kind
	value()
}

type (
	Bool   bool
	Int    int64
	Float  float64
	String string
	Vec2   mgl32.Vec2
	Vec3   mgl32.Vec3
	Vec4   mgl32.Vec4
	// Quat stores a rotation; W is the scalar part.
	Quat mgl32.Quat
	List []Value
)

func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }
func (Vec2) Kind() Kind   { return KindVec2 }
func (Vec3) Kind() Kind   { return KindVec3 }
func (Vec4) Kind() Kind   { return KindVec4 }
func (Quat) Kind() Kind   { return KindQuat }
func (List) Kind() Kind   { return KindList }
func (*Bag) Kind() Kind   { return KindBag }

func (Bool) value()   {}
func (Int) value()    {}
func (Float) value()  {}
func (String) value() {}
func (Vec2) value()   {}
func (Vec3) value()   {}
func (Vec4) value()   {}
func (Quat) value()   {}
func (List) value()   {}
func (*Bag) value()   {}

// CloneValue deep-copies v. Scalars and vectors are copied by value; nested
// bags and lists are copied recursively so the result never aliases v.
func CloneValue(v Value) Value {
	switch t := v.(type) {
	case *Bag:
		return t.Clone()
	case List:
		if t == nil {
			return List(nil)
		}
		out := make(List, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}

// EqualValues reports structural equality of two values.
func EqualValues(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Bag:
		return x.Equal(b.(*Bag))
	case List:
		y := b.(List)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !EqualValues(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// QuatIdent returns the identity rotation.
func QuatIdent() Quat {
	return Quat(mgl32.QuatIdent())
}
