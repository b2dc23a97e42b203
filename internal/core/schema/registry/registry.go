package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/world"
)

// TypeID is a stable hash of a registered type name. Registered types are
// keyed by it.
type TypeID uint64

// ID returns the TypeID of name.
func ID(name string) TypeID {
	return TypeID(xxhash.Sum64String(name))
}

var (
	ErrNotRegistered       = errors.New("registry: type not registered")
	ErrAlreadyRegistered   = errors.New("registry: type already registered")
	ErrInvalidCapabilities = errors.New("registry: invalid capabilities")
	ErrFrozen              = errors.New("registry: registration after startup")
	// ErrIDCollision is returned when two distinct names hash to the same TypeID.
	ErrIDCollision = errors.New("registry: type id collision")
)

// Capabilities is what generic code can do with a registered type by name.
// Clone, apply and encode operate on the closed models.Value set and need no
// per-type hooks; only construction does.
type Capabilities struct {
	Name string
	ID   TypeID
	// New returns the component in its default state.
	New func() models.Component
}

// Registry maps type names to capabilities.
//
// Register is only legal during startup, before Freeze. After Freeze the
// registry never changes and may be shared across goroutines without locking.
type Registry struct {
	types  map[TypeID]Capabilities
	frozen bool
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{types: make(map[TypeID]Capabilities)}
}

// Register adds a type. The name must match what New().TypeName() reports.
func (r *Registry) Register(caps Capabilities) error {
	if r.frozen {
		return fmt.Errorf("%w: %s", ErrFrozen, caps.Name)
	}
	if caps.Name == "" || caps.New == nil {
		return fmt.Errorf("%w: %q", ErrInvalidCapabilities, caps.Name)
	}
	if got := caps.New().TypeName(); got != caps.Name {
		return fmt.Errorf("%w: %q constructs %q", ErrInvalidCapabilities, caps.Name, got)
	}
	caps.ID = ID(caps.Name)
	if prev, exists := r.types[caps.ID]; exists {
		if prev.Name != caps.Name {
			return fmt.Errorf("%w: %s and %s", ErrIDCollision, prev.Name, caps.Name)
		}
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, caps.Name)
	}
	r.types[caps.ID] = caps
	return nil
}

// Freeze ends the startup phase.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Lookup returns the capabilities registered under name.
func (r *Registry) Lookup(name string) (Capabilities, error) {
	caps, ok := r.types[ID(name)]
	if !ok || caps.Name != name {
		return Capabilities{}, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return caps, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for _, caps := range r.types {
		names = append(names, caps.Name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every bag names a registered type and holds only
// persistable text.
func (r *Registry) Validate(bags ...*models.Bag) error {
	for _, b := range bags {
		if _, err := r.Lookup(b.Type); err != nil {
			return err
		}
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Default constructs the default bag of a type.
func (r *Registry) Default(name string) (*models.Bag, error) {
	caps, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return caps.New().ToBag(), nil
}

// Apply patches target with source field by field.
func (r *Registry) Apply(target, source *models.Bag) error {
	if _, err := r.Lookup(target.Type); err != nil {
		return err
	}
	return target.Apply(source)
}

// Materialize builds the concrete component for bag: defaults first, then
// every field present in bag on top.
func (r *Registry) Materialize(bag *models.Bag) (models.Component, error) {
	caps, err := r.Lookup(bag.Type)
	if err != nil {
		return nil, err
	}
	c := caps.New()
	if err = c.FromBag(bag); err != nil {
		return nil, fmt.Errorf("registry: materialize %s: %w", bag.Type, err)
	}
	return c, nil
}

// Install materializes bag and inserts it on the runtime handle, replacing any
// component of the same type already there.
func (r *Registry) Install(rt world.Runtime, h world.Handle, bag *models.Bag) error {
	c, err := r.Materialize(bag)
	if err != nil {
		return err
	}
	return rt.Insert(h, c)
}
