package library

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zeusync/prefab/internal/core/components"
	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/schema/registry"
)

var ErrTemplateNotFound = errors.New("library: template not found")

// Library holds the named templates offered to the editor: bundles spawn new
// entities, properties add a single bag to existing ones. Templates are only
// changed through SetBundle and SetProperty, and every read returns a deep
// copy.
type Library struct {
	bundles    map[string][]*models.Bag
	properties map[string]*models.Bag
}

// New returns an empty library.
func New() *Library {
	return &Library{
		bundles:    make(map[string][]*models.Bag),
		properties: make(map[string]*models.Bag),
	}
}

// Default returns the built-in templates, checked against reg.
func Default(reg *registry.Registry) (*Library, error) {
	l := New()
	for name, bags := range components.Bundles() {
		if err := l.SetBundle(reg, name, bags); err != nil {
			return nil, err
		}
	}
	for name, bag := range components.Properties() {
		if err := l.SetProperty(reg, name, bag); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Bundle returns a copy of the named bundle.
func (l *Library) Bundle(name string) ([]*models.Bag, error) {
	bags, ok := l.bundles[name]
	if !ok {
		return nil, fmt.Errorf("%w: bundle %q", ErrTemplateNotFound, name)
	}
	return models.CloneBags(bags), nil
}

// Property returns a copy of the named property.
func (l *Library) Property(name string) (*models.Bag, error) {
	bag, ok := l.properties[name]
	if !ok {
		return nil, fmt.Errorf("%w: property %q", ErrTemplateNotFound, name)
	}
	return bag.Clone(), nil
}

// SetBundle stores a copy of bags under name. Every bag type must be registered.
func (l *Library) SetBundle(reg *registry.Registry, name string, bags []*models.Bag) error {
	if err := reg.Validate(bags...); err != nil {
		return fmt.Errorf("library: bundle %q: %w", name, err)
	}
	l.bundles[name] = models.CloneBags(bags)
	return nil
}

// SetProperty stores a copy of bag under name.
func (l *Library) SetProperty(reg *registry.Registry, name string, bag *models.Bag) error {
	if bag == nil {
		return fmt.Errorf("library: property %q: nil bag", name)
	}
	if err := reg.Validate(bag); err != nil {
		return fmt.Errorf("library: property %q: %w", name, err)
	}
	l.properties[name] = bag.Clone()
	return nil
}

// BundleNames returns the bundle names in sorted order.
func (l *Library) BundleNames() []string {
	return sortedKeys(l.bundles)
}

// PropertyNames returns the property names in sorted order.
func (l *Library) PropertyNames() []string {
	return sortedKeys(l.properties)
}

// Clone deep-copies the library.
func (l *Library) Clone() *Library {
	out := New()
	for name, bags := range l.bundles {
		out.bundles[name] = models.CloneBags(bags)
	}
	for name, bag := range l.properties {
		out.properties[name] = bag.Clone()
	}
	return out
}

// Equal compares names and bag contents.
func (l *Library) Equal(other *Library) bool {
	if len(l.bundles) != len(other.bundles) || len(l.properties) != len(other.properties) {
		return false
	}
	for name, bags := range l.bundles {
		o, ok := other.bundles[name]
		if !ok || len(o) != len(bags) {
			return false
		}
		for i := range bags {
			if !bags[i].Equal(o[i]) {
				return false
			}
		}
	}
	for name, bag := range l.properties {
		o, ok := other.properties[name]
		if !ok || !bag.Equal(o) {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
