package commands

import (
	"fmt"
	"strings"

	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/scene"
)

// Command is an inert description of one document mutation. Nothing happens
// until the apply stage calls Apply.
type Command interface {
	Apply(e *scene.Engine) error
	String() string
}

// SpawnEntity creates entity ID from Bags.
type SpawnEntity struct {
	ID   models.EntityID
	Bags []*models.Bag
}

// PatchEntity applies Bags to the store of ID, in order. The runtime is left alone.
type PatchEntity struct {
	ID   models.EntityID
	Bags []*models.Bag
}

// SyncEntity re-installs every bag of ID onto its runtime handle.
type SyncEntity struct {
	ID models.EntityID
}

// SyncOne re-installs the bag of type Type of ID.
type SyncOne struct {
	ID   models.EntityID
	Type string
}

// DespawnEntity removes ID from document, identity map and runtime.
type DespawnEntity struct {
	ID models.EntityID
}

var (
	_ Command = SpawnEntity{}
	_ Command = PatchEntity{}
	_ Command = SyncEntity{}
	_ Command = SyncOne{}
	_ Command = DespawnEntity{}
)

func (c SpawnEntity) Apply(e *scene.Engine) error {
	return e.SpawnEntity(c.ID, c.Bags)
}

func (c PatchEntity) Apply(e *scene.Engine) error {
	return e.PatchEntity(c.ID, c.Bags...)
}

func (c SyncEntity) Apply(e *scene.Engine) error {
	return e.SyncEntity(c.ID)
}

func (c SyncOne) Apply(e *scene.Engine) error {
	return e.SyncOne(c.ID, c.Type)
}

func (c DespawnEntity) Apply(e *scene.Engine) error {
	return e.DespawnEntity(c.ID)
}

func (c SpawnEntity) String() string {
	return fmt.Sprintf("spawn(%d, [%s])", c.ID, bagTypes(c.Bags))
}

func (c PatchEntity) String() string {
	return fmt.Sprintf("patch(%d, [%s])", c.ID, bagTypes(c.Bags))
}

func (c SyncEntity) String() string {
	return fmt.Sprintf("sync(%d)", c.ID)
}

func (c SyncOne) String() string {
	return fmt.Sprintf("sync(%d, %s)", c.ID, c.Type)
}

func (c DespawnEntity) String() string {
	return fmt.Sprintf("despawn(%d)", c.ID)
}

func bagTypes(bags []*models.Bag) string {
	names := make([]string, len(bags))
	for i, b := range bags {
		names[i] = b.Type
	}
	return strings.Join(names, " ")
}
