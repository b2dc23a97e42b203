package models

import "fmt"

// FieldReader reads typed fields out of a bag, falling back to a default when a
// field is absent. The first kind mismatch is kept and reported by Err.
type FieldReader struct {
	bag *Bag
	err error
}

// Read starts reading fields of b.
func Read(b *Bag) *FieldReader {
	return &FieldReader{bag: b}
}

// Err returns the first kind mismatch encountered.
func (r *FieldReader) Err() error {
	return r.err
}

func (r *FieldReader) lookup(name string, want Kind) (Value, bool) {
	v, ok := r.bag.Get(name)
	if !ok || v == nil {
		return nil, false
	}
	if v.Kind() != want {
		// hand-edited files may write whole numbers for float fields
		if want == KindFloat && v.Kind() == KindInt {
			return Float(v.(Int)), true
		}
		if r.err == nil {
			r.err = fmt.Errorf("%w: %s.%s is %s, want %s", ErrFieldKind, r.bag.Type, name, v.Kind(), want)
		}
		return nil, false
	}
	return v, true
}

func (r *FieldReader) Bool(name string, def bool) bool {
	if v, ok := r.lookup(name, KindBool); ok {
		return bool(v.(Bool))
	}
	return def
}

func (r *FieldReader) Int(name string, def int64) int64 {
	if v, ok := r.lookup(name, KindInt); ok {
		return int64(v.(Int))
	}
	return def
}

func (r *FieldReader) Float(name string, def float64) float64 {
	if v, ok := r.lookup(name, KindFloat); ok {
		return float64(v.(Float))
	}
	return def
}

func (r *FieldReader) String(name string, def string) string {
	if v, ok := r.lookup(name, KindString); ok {
		return string(v.(String))
	}
	return def
}

func (r *FieldReader) Vec2(name string, def Vec2) Vec2 {
	if v, ok := r.lookup(name, KindVec2); ok {
		return v.(Vec2)
	}
	return def
}

func (r *FieldReader) Vec3(name string, def Vec3) Vec3 {
	if v, ok := r.lookup(name, KindVec3); ok {
		return v.(Vec3)
	}
	return def
}

func (r *FieldReader) Vec4(name string, def Vec4) Vec4 {
	if v, ok := r.lookup(name, KindVec4); ok {
		return v.(Vec4)
	}
	return def
}

func (r *FieldReader) Quat(name string, def Quat) Quat {
	if v, ok := r.lookup(name, KindQuat); ok {
		return v.(Quat)
	}
	return def
}

func (r *FieldReader) List(name string, def List) List {
	if v, ok := r.lookup(name, KindList); ok {
		return v.(List)
	}
	return def
}

func (r *FieldReader) Bag(name string, def *Bag) *Bag {
	if v, ok := r.lookup(name, KindBag); ok {
		return v.(*Bag)
	}
	return def
}
