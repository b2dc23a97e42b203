package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeusync/prefab/internal/core/models"
)

var (
	// ErrEntityNotFound is returned when an id is absent from the document or identity map.
	ErrEntityNotFound = errors.New("scene: entity not found")
	ErrDuplicateID    = errors.New("scene: duplicate entity id")
	ErrAlreadyBound   = errors.New("scene: entity or handle already bound")
	ErrIDOutOfRange   = errors.New("scene: entity id out of range")
)

// MaxEntityID is reserved so the allocator can always hand out a successor.
const MaxEntityID = models.EntityID(math.MaxUint32)

// Entity is one persisted entity: its id and the bags it owns.
type Entity struct {
	ID    models.EntityID
	Store *models.Store
}

// Document is the ordered collection of persisted entities, the only persisted root.
// Outside of tests it is mutated by the Engine during the command apply stage only.
type Document struct {
	entities []*Entity
	index    map[models.EntityID]int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{index: make(map[models.EntityID]int)}
}

// Add appends an entity. Ids must be unique.
func (d *Document) Add(id models.EntityID, store *models.Store) (*Entity, error) {
	if _, ok := d.index[id]; ok {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	if store == nil {
		store = models.NewStore()
	}
	e := &Entity{ID: id, Store: store}
	d.index[id] = len(d.entities)
	d.entities = append(d.entities, e)
	return e, nil
}

// Entity returns the entity with the given id.
func (d *Document) Entity(id models.EntityID) (*Entity, error) {
	i, ok := d.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrEntityNotFound, id)
	}
	return d.entities[i], nil
}

// Remove deletes an entity, keeping the order of the rest.
func (d *Document) Remove(id models.EntityID) error {
	i, ok := d.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrEntityNotFound, id)
	}
	d.entities = append(d.entities[:i], d.entities[i+1:]...)
	delete(d.index, id)
	for j := i; j < len(d.entities); j++ {
		d.index[d.entities[j].ID] = j
	}
	return nil
}

// Entities returns the entities in document order. Do not modify the slice.
func (d *Document) Entities() []*Entity {
	return d.entities
}

func (d *Document) Len() int {
	return len(d.entities)
}

// MaxID returns the largest id present and false when the document is empty.
func (d *Document) MaxID() (models.EntityID, bool) {
	if len(d.entities) == 0 {
		return 0, false
	}
	var maxID models.EntityID
	for _, e := range d.entities {
		maxID = max(maxID, e.ID)
	}
	return maxID, true
}

// Clone deep-copies the document.
func (d *Document) Clone() *Document {
	out := NewDocument()
	for _, e := range d.entities {
		_, _ = out.Add(e.ID, e.Store.Clone())
	}
	return out
}

// Equal compares ids, bag type names and field values in order.
func (d *Document) Equal(other *Document) bool {
	if len(d.entities) != len(other.entities) {
		return false
	}
	for i, e := range d.entities {
		o := other.entities[i]
		if e.ID != o.ID || !e.Store.Equal(o.Store) {
			return false
		}
	}
	return true
}
