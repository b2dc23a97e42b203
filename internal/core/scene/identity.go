package scene

import (
	"fmt"
	"sync/atomic"

	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/world"
)

// Identity maps persisted entity ids to runtime handles and back.
// Both directions are always updated together.
type Identity struct {
	handles  map[models.EntityID]world.Handle
	entities map[world.Handle]models.EntityID
}

func NewIdentity() *Identity {
	return &Identity{
		handles:  make(map[models.EntityID]world.Handle),
		entities: make(map[world.Handle]models.EntityID),
	}
}

// Bind records id <-> h. Neither side may already be bound.
func (m *Identity) Bind(id models.EntityID, h world.Handle) error {
	if _, ok := m.handles[id]; ok {
		return fmt.Errorf("%w: entity %d", ErrAlreadyBound, id)
	}
	if _, ok := m.entities[h]; ok {
		return fmt.Errorf("%w: handle %s", ErrAlreadyBound, h)
	}
	m.handles[id] = h
	m.entities[h] = id
	return nil
}

// Handle returns the runtime handle bound to id.
func (m *Identity) Handle(id models.EntityID) (world.Handle, error) {
	h, ok := m.handles[id]
	if !ok {
		return world.Handle{}, fmt.Errorf("%w: no handle for %d", ErrEntityNotFound, id)
	}
	return h, nil
}

// Entity returns the id bound to h.
func (m *Identity) Entity(h world.Handle) (models.EntityID, bool) {
	id, ok := m.entities[h]
	return id, ok
}

// Unbind removes both directions of the mapping for id.
func (m *Identity) Unbind(id models.EntityID) (world.Handle, error) {
	h, ok := m.handles[id]
	if !ok {
		return world.Handle{}, fmt.Errorf("%w: no handle for %d", ErrEntityNotFound, id)
	}
	delete(m.handles, id)
	delete(m.entities, h)
	return h, nil
}

func (m *Identity) Len() int {
	return len(m.handles)
}

// Reset drops every binding.
func (m *Identity) Reset() {
	clear(m.handles)
	clear(m.entities)
}

// Allocator hands out entity ids. Ids are strictly increasing and never reused
// within a session, including ids of despawned entities.
type Allocator struct {
	next atomic.Uint32
}

// Next returns a fresh id.
func (a *Allocator) Next() models.EntityID {
	return models.EntityID(a.next.Add(1) - 1)
}

// Peek returns the id Next would hand out.
func (a *Allocator) Peek() models.EntityID {
	return models.EntityID(a.next.Load())
}

// Advance guarantees future ids are greater than id. The largest id has no
// successor and is rejected with ErrIDOutOfRange.
func (a *Allocator) Advance(id models.EntityID) error {
	if id == MaxEntityID {
		return fmt.Errorf("%w: %d", ErrIDOutOfRange, id)
	}
	for {
		cur := a.next.Load()
		if uint32(id) < cur {
			return nil
		}
		if a.next.CompareAndSwap(cur, uint32(id)+1) {
			return nil
		}
	}
}
