package models

import (
	"fmt"
	"unicode/utf8"
)

// Field is one named value inside a Bag.
type Field struct {
	Name  string
	Value Value
}

// Bag is a type-tagged record of named fields, the persisted form of a component.
// Field order is insertion order and is preserved through encoding.
type Bag struct {
	Type   string
	Fields []Field
}

// NewBag returns an empty bag of the given type.
func NewBag(typeName string) *Bag {
	return &Bag{Type: typeName}
}

// With sets a field and returns the bag so literals can be chained.
func (b *Bag) With(name string, v Value) *Bag {
	b.Set(name, v)
	return b
}

// Get returns the value stored under name.
func (b *Bag) Get(name string) (Value, bool) {
	if i := b.index(name); i >= 0 {
		return b.Fields[i].Value, true
	}
	return nil, false
}

// Set overwrites the named field, or appends it when absent.
func (b *Bag) Set(name string, v Value) {
	if i := b.index(name); i >= 0 {
		b.Fields[i].Value = v
		return
	}
	b.Fields = append(b.Fields, Field{Name: name, Value: v})
}

// Len returns the number of fields.
func (b *Bag) Len() int {
	return len(b.Fields)
}

// Clone deep-copies the bag.
func (b *Bag) Clone() *Bag {
	if b == nil {
		return nil
	}
	out := &Bag{Type: b.Type}
	if b.Fields != nil {
		out.Fields = make([]Field, len(b.Fields))
		for i, f := range b.Fields {
			out.Fields[i] = Field{Name: f.Name, Value: CloneValue(f.Value)}
		}
	}
	return out
}

// Apply patches b with src: every field present in src overwrites (or is
// appended to) b, fields absent from src are left alone. Nested bag values are
// replaced whole, never merged field by field.
func (b *Bag) Apply(src *Bag) error {
	if b.Type != src.Type {
		return fmt.Errorf("%w: cannot apply %q onto %q", ErrTypeMismatch, src.Type, b.Type)
	}
	for _, f := range src.Fields {
		b.Set(f.Name, CloneValue(f.Value))
	}
	return nil
}

// Validate checks that the type name, every field name and every string
// value, nested ones included, are valid UTF-8.
func (b *Bag) Validate() error {
	if !utf8.ValidString(b.Type) {
		return fmt.Errorf("%w: bag type %q", ErrInvalidText, b.Type)
	}
	for _, f := range b.Fields {
		if !utf8.ValidString(f.Name) {
			return fmt.Errorf("%w: %s field name %q", ErrInvalidText, b.Type, f.Name)
		}
		if err := validateValue(f.Value); err != nil {
			return fmt.Errorf("%s.%s: %w", b.Type, f.Name, err)
		}
	}
	return nil
}

func validateValue(v Value) error {
	switch v := v.(type) {
	case String:
		if !utf8.ValidString(string(v)) {
			return fmt.Errorf("%w: %q", ErrInvalidText, string(v))
		}
	case List:
		for _, item := range v {
			if err := validateValue(item); err != nil {
				return err
			}
		}
	case *Bag:
		if v != nil {
			return v.Validate()
		}
	}
	return nil
}

// Equal reports structural equality including field order.
func (b *Bag) Equal(other *Bag) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.Type != other.Type || len(b.Fields) != len(other.Fields) {
		return false
	}
	for i := range b.Fields {
		if b.Fields[i].Name != other.Fields[i].Name {
			return false
		}
		if !EqualValues(b.Fields[i].Value, other.Fields[i].Value) {
			return false
		}
	}
	return true
}

func (b *Bag) index(name string) int {
	for i := range b.Fields {
		if b.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// CloneBags deep-copies a slice of bags.
func CloneBags(bags []*Bag) []*Bag {
	if bags == nil {
		return nil
	}
	out := make([]*Bag, len(bags))
	for i, b := range bags {
		out[i] = b.Clone()
	}
	return out
}
