package world

import (
	"errors"

	"github.com/google/uuid"

	"github.com/zeusync/prefab/internal/core/models"
)

// Handle is an opaque reference to a live runtime entity.
type Handle = uuid.UUID

// AssetHandle is an opaque reference to a loaded asset.
type AssetHandle = uuid.UUID

var (
	ErrUnknownHandle = errors.New("world: unknown handle")
	ErrNilComponent  = errors.New("world: nil component")
	ErrAssetNotFound = errors.New("world: asset not found")
)

// Runtime is the live, mutable object graph the document is mirrored into.
// It is driven from a single goroutine; implementations need no locking.
type Runtime interface {
	// Spawn creates an empty runtime entity.
	Spawn() Handle
	// Despawn removes the entity and all its components.
	Despawn(h Handle) error
	// Insert adds the component, replacing any component of the same type name.
	Insert(h Handle, c models.Component) error
	// Remove drops the component of the given type name. Missing components are ignored.
	Remove(h Handle, typeName string) error
	Get(h Handle, typeName string) (models.Component, bool)
	// Each visits every entity carrying a component of the given type name.
	Each(typeName string, fn func(Handle, models.Component))
}

// Selection answers whether a runtime entity is currently selected.
type Selection interface {
	IsSelected(h Handle) bool
}

// MutableSelection is a Selection the editor can change.
type MutableSelection interface {
	Selection
	Select(h Handle)
	Deselect(h Handle)
}

// AssetLoader resolves asset references into loaded handles.
type AssetLoader interface {
	Load(path string) (AssetHandle, error)
	// AddMaterial registers a material built from a color and returns its handle.
	AddMaterial(color models.Vec4) (AssetHandle, error)
}

// Camera is the free-roam camera control toggled by the editor.
type Camera interface {
	Enabled() bool
	SetEnabled(bool)
}
