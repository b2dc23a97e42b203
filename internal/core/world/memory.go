package world

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/zeusync/prefab/internal/core/models"
)

var _ Runtime = (*Memory)(nil)

// Memory is an in-process Runtime used by the headless editor and tests.
type Memory struct {
	entities map[Handle]map[string]models.Component
	order    []Handle
}

// NewMemory returns an empty runtime.
func NewMemory() *Memory {
	return &Memory{entities: make(map[Handle]map[string]models.Component)}
}

func (m *Memory) Spawn() Handle {
	h := uuid.New()
	m.entities[h] = make(map[string]models.Component)
	m.order = append(m.order, h)
	return h
}

func (m *Memory) Despawn(h Handle) error {
	if _, ok := m.entities[h]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	delete(m.entities, h)
	for i, o := range m.order {
		if o == h {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Insert(h Handle, c models.Component) error {
	if c == nil {
		return ErrNilComponent
	}
	comps, ok := m.entities[h]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	comps[c.TypeName()] = c
	return nil
}

func (m *Memory) Remove(h Handle, typeName string) error {
	comps, ok := m.entities[h]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	delete(comps, typeName)
	return nil
}

func (m *Memory) Get(h Handle, typeName string) (models.Component, bool) {
	c, ok := m.entities[h][typeName]
	return c, ok
}

// Each visits entities in spawn order so results are deterministic.
func (m *Memory) Each(typeName string, fn func(Handle, models.Component)) {
	for _, h := range append([]Handle(nil), m.order...) {
		if c, ok := m.entities[h][typeName]; ok {
			fn(h, c)
		}
	}
}

// Len returns the number of live entities.
func (m *Memory) Len() int {
	return len(m.entities)
}

// Components returns the sorted type names present on h.
func (m *Memory) Components(h Handle) []string {
	names := make([]string, 0, len(m.entities[h]))
	for name := range m.entities[h] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ MutableSelection = SelectionSet{}

// SelectionSet is a Selection backed by a set of handles.
type SelectionSet map[Handle]struct{}

func (s SelectionSet) IsSelected(h Handle) bool {
	_, ok := s[h]
	return ok
}

func (s SelectionSet) Select(h Handle)   { s[h] = struct{}{} }
func (s SelectionSet) Deselect(h Handle) { delete(s, h) }

// MemoryAssets is an AssetLoader that knows a fixed set of paths.
type MemoryAssets struct {
	known     map[string]AssetHandle
	Materials map[AssetHandle]models.Vec4
}

// NewMemoryAssets returns a loader that resolves the given paths.
func NewMemoryAssets(paths ...string) *MemoryAssets {
	a := &MemoryAssets{
		known:     make(map[string]AssetHandle, len(paths)),
		Materials: make(map[AssetHandle]models.Vec4),
	}
	for _, p := range paths {
		a.known[p] = uuid.New()
	}
	return a
}

func (a *MemoryAssets) Load(path string) (AssetHandle, error) {
	h, ok := a.known[path]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrAssetNotFound, path)
	}
	return h, nil
}

func (a *MemoryAssets) AddMaterial(color models.Vec4) (AssetHandle, error) {
	h := uuid.New()
	a.Materials[h] = color
	return h, nil
}

// FlyCamera is a Camera that only tracks its enabled flag.
type FlyCamera struct {
	enabled bool
}

func (c *FlyCamera) Enabled() bool     { return c.enabled }
func (c *FlyCamera) SetEnabled(v bool) { c.enabled = v }
