package models

import "errors"

// EntityID identifies a persisted entity within a document.
type EntityID uint32

// Component is a concrete typed value installed on a runtime handle.
// It converts to and from the Bag persisted in the document.
type Component interface {
	TypeName() string
	// ToBag returns a fresh bag holding every field of the component.
	ToBag() *Bag
	// FromBag overlays the fields present in bag onto the component.
	// Fields absent from bag keep their current values.
	FromBag(bag *Bag) error
}

var (
	// ErrTypeMismatch signals a patch between bags of different type names.
	ErrTypeMismatch = errors.New("models: bag type mismatch")
	// ErrFieldKind is returned when a field holds a value of an unexpected kind.
	ErrFieldKind = errors.New("models: unexpected field kind")
	// ErrInvalidText is returned for strings that are not valid UTF-8 and so
	// cannot be persisted.
	ErrInvalidText = errors.New("models: invalid UTF-8 text")
)
