package scene

import (
	"fmt"

	"github.com/zeusync/prefab/internal/core/events/bus"
	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/observability/log"
	"github.com/zeusync/prefab/internal/core/schema/registry"
	"github.com/zeusync/prefab/internal/core/world"
)

// Event types published by the engine after each successful mutation.
const (
	EventSpawned   = "scene.entity.spawned"
	EventPatched   = "scene.entity.patched"
	EventSynced    = "scene.entity.synced"
	EventDespawned = "scene.entity.despawned"
	EventLoaded    = "scene.document.loaded"

	eventSource = "scene.engine"
)

// EntityEvent is the payload of every engine event. Types lists the bag type
// names involved; it is empty for despawn and load.
type EntityEvent struct {
	ID    models.EntityID
	Types []string
}

// Engine keeps the document and the live runtime consistent. It owns the
// document, the identity map and the id allocator; only the command apply
// stage calls its mutating methods.
//
// Every mutating method validates bag types before touching anything, so an
// unregistered type leaves document, runtime and identity map unchanged.
type Engine struct {
	registry *registry.Registry
	runtime  world.Runtime
	doc      *Document
	identity *Identity
	alloc    *Allocator
	bus      bus.EventBus
	logger   log.Log
}

// NewEngine wires an engine around an empty document. b may be nil.
func NewEngine(reg *registry.Registry, rt world.Runtime, b bus.EventBus, logger log.Log) *Engine {
	return &Engine{
		registry: reg,
		runtime:  rt,
		doc:      NewDocument(),
		identity: NewIdentity(),
		alloc:    &Allocator{},
		bus:      b,
		logger:   logger.With(log.String("component", "scene")),
	}
}

func (e *Engine) Document() *Document          { return e.doc }
func (e *Engine) Identity() *Identity          { return e.identity }
func (e *Engine) Allocator() *Allocator        { return e.alloc }
func (e *Engine) Registry() *registry.Registry { return e.registry }
func (e *Engine) Runtime() world.Runtime       { return e.runtime }

// SpawnEntity creates entity id from bags, mirrors it into the runtime and
// binds the two. Bags are cloned; the caller keeps ownership of its slice.
func (e *Engine) SpawnEntity(id models.EntityID, bags []*models.Bag) error {
	if _, err := e.doc.Entity(id); err == nil {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	if err := e.registry.Validate(bags...); err != nil {
		return err
	}
	if err := e.alloc.Advance(id); err != nil {
		return err
	}
	store := models.NewStore()
	if err := store.InsertMany(models.CloneBags(bags)); err != nil {
		return err
	}
	comps, err := e.materialize(store.Bags())
	if err != nil {
		return err
	}

	h := e.runtime.Spawn()
	for _, c := range comps {
		if err = e.runtime.Insert(h, c); err != nil {
			_ = e.runtime.Despawn(h)
			return fmt.Errorf("scene: install %s on %d: %w", c.TypeName(), id, err)
		}
	}
	if err = e.identity.Bind(id, h); err != nil {
		_ = e.runtime.Despawn(h)
		return err
	}
	if _, err = e.doc.Add(id, store); err != nil {
		_, _ = e.identity.Unbind(id)
		_ = e.runtime.Despawn(h)
		return err
	}

	e.logger.Debug("entity spawned", log.Uint32("entity", uint32(id)), log.Int("bags", store.Len()))
	return e.publish(EventSpawned, id, typeNames(store.Bags()))
}

// PatchEntity applies bags to the document store of id, in order. The runtime
// is not touched; queue a sync for that.
func (e *Engine) PatchEntity(id models.EntityID, bags ...*models.Bag) error {
	ent, err := e.doc.Entity(id)
	if err != nil {
		return err
	}
	if err = e.registry.Validate(bags...); err != nil {
		return err
	}
	if err = ent.Store.InsertMany(models.CloneBags(bags)); err != nil {
		return err
	}
	return e.publish(EventPatched, id, typeNames(bags))
}

// SyncEntity re-installs every bag of id onto its runtime handle.
func (e *Engine) SyncEntity(id models.EntityID) error {
	ent, err := e.doc.Entity(id)
	if err != nil {
		return err
	}
	return e.install(ent, ent.Store.Bags())
}

// SyncOne re-installs the bag of the given type. A type the entity does not
// carry is a no-op.
func (e *Engine) SyncOne(id models.EntityID, typeName string) error {
	ent, err := e.doc.Entity(id)
	if err != nil {
		return err
	}
	if _, err = e.registry.Lookup(typeName); err != nil {
		return err
	}
	bag := ent.Store.Get(typeName)
	if bag == nil {
		e.logger.Debug("sync skipped, bag absent", log.Uint32("entity", uint32(id)), log.String("type", typeName))
		return nil
	}
	if err = e.registry.Install(e.runtime, e.mustHandle(ent.ID), bag); err != nil {
		return fmt.Errorf("scene: install %s on %d: %w", typeName, id, err)
	}
	return e.publish(EventSynced, id, []string{typeName})
}

// DespawnEntity removes id from the document, the identity map and the runtime together.
func (e *Engine) DespawnEntity(id models.EntityID) error {
	if _, err := e.doc.Entity(id); err != nil {
		return err
	}
	h := e.mustHandle(id)
	if err := e.runtime.Despawn(h); err != nil {
		return fmt.Errorf("scene: despawn %d: %w", id, err)
	}
	_, _ = e.identity.Unbind(id)
	_ = e.doc.Remove(id)
	return e.publish(EventDespawned, id, nil)
}

// Load replaces the current document with doc and mirrors every entity into
// the runtime. Entities of the previous document are despawned. Nothing
// changes if any bag fails to materialize.
func (e *Engine) Load(doc *Document) error {
	if maxID, ok := doc.MaxID(); ok && maxID == MaxEntityID {
		return fmt.Errorf("scene: load: %w: %d", ErrIDOutOfRange, maxID)
	}
	staged := make([][]models.Component, doc.Len())
	for i, ent := range doc.Entities() {
		comps, err := e.materialize(ent.Store.Bags())
		if err != nil {
			return fmt.Errorf("scene: load entity %d: %w", ent.ID, err)
		}
		staged[i] = comps
	}

	for _, ent := range e.doc.Entities() {
		h := e.mustHandle(ent.ID)
		if err := e.runtime.Despawn(h); err != nil {
			e.logger.Warn("despawn during load failed", log.Uint32("entity", uint32(ent.ID)), log.Error(err))
		}
	}
	e.identity.Reset()

	for i, ent := range doc.Entities() {
		h := e.runtime.Spawn()
		for _, c := range staged[i] {
			if err := e.runtime.Insert(h, c); err != nil {
				return fmt.Errorf("scene: load entity %d: %w", ent.ID, err)
			}
		}
		if err := e.identity.Bind(ent.ID, h); err != nil {
			return err
		}
	}
	e.doc = doc
	if maxID, ok := doc.MaxID(); ok {
		_ = e.alloc.Advance(maxID) // range checked above
	}

	e.logger.Info("document loaded", log.Int("entities", doc.Len()))
	return e.publish(EventLoaded, 0, nil)
}

func (e *Engine) install(ent *Entity, bags []*models.Bag) error {
	comps, err := e.materialize(bags)
	if err != nil {
		return err
	}
	h := e.mustHandle(ent.ID)
	for _, c := range comps {
		if err = e.runtime.Insert(h, c); err != nil {
			return fmt.Errorf("scene: install %s on %d: %w", c.TypeName(), ent.ID, err)
		}
	}
	return e.publish(EventSynced, ent.ID, typeNames(bags))
}

func (e *Engine) materialize(bags []*models.Bag) ([]models.Component, error) {
	comps := make([]models.Component, 0, len(bags))
	for _, b := range bags {
		c, err := e.registry.Materialize(b)
		if err != nil {
			return nil, err
		}
		comps = append(comps, c)
	}
	return comps, nil
}

// mustHandle panics when a document entity has no runtime handle: the
// identity map and the document are out of step and nothing can be trusted.
func (e *Engine) mustHandle(id models.EntityID) world.Handle {
	h, err := e.identity.Handle(id)
	if err != nil {
		panic(fmt.Sprintf("scene: identity map out of sync with document: %v", err))
	}
	return h
}

func (e *Engine) publish(typ string, id models.EntityID, types []string) error {
	if e.bus == nil {
		return nil
	}
	return e.bus.Publish(bus.NewEvent(typ, eventSource, EntityEvent{ID: id, Types: types}))
}

func typeNames(bags []*models.Bag) []string {
	names := make([]string, len(bags))
	for i, b := range bags {
		names[i] = b.Type
	}
	return names
}
