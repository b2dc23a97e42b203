package commands

import (
	"errors"
	"fmt"

	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/scene"
)

// Queue buffers commands produced during the logic stage until the apply stage
// drains them. It is owned by the editor cycle goroutine and is not locked.
//
// ApplyAll drains only the batch present when it starts. Commands enqueued
// while it runs, for example from a bus handler reacting to an engine event,
// stay queued for the next call.
type Queue struct {
	commands []Command
	alloc    *scene.Allocator
}

// NewQueue returns an empty queue that reserves spawn ids from alloc.
func NewQueue(alloc *scene.Allocator) *Queue {
	return &Queue{alloc: alloc}
}

// Enqueue appends cmd to the tail. Nil commands are ignored.
func (q *Queue) Enqueue(cmd Command) {
	if cmd == nil {
		return
	}
	q.commands = append(q.commands, cmd)
}

// Spawn reserves the next entity id and enqueues its creation. The id is
// final even if the spawn later fails to apply.
func (q *Queue) Spawn(bags ...*models.Bag) models.EntityID {
	id := q.alloc.Next()
	q.Enqueue(SpawnEntity{ID: id, Bags: models.CloneBags(bags)})
	return id
}

// Patch enqueues a single-bag patch of id.
func (q *Queue) Patch(id models.EntityID, bag *models.Bag) {
	q.Enqueue(PatchEntity{ID: id, Bags: []*models.Bag{bag.Clone()}})
}

// PatchMany enqueues one patch carrying every bag, applied in order.
func (q *Queue) PatchMany(id models.EntityID, bags []*models.Bag) {
	q.Enqueue(PatchEntity{ID: id, Bags: models.CloneBags(bags)})
}

func (q *Queue) Sync(id models.EntityID) {
	q.Enqueue(SyncEntity{ID: id})
}

func (q *Queue) SyncOne(id models.EntityID, typeName string) {
	q.Enqueue(SyncOne{ID: id, Type: typeName})
}

func (q *Queue) Despawn(id models.EntityID) {
	q.Enqueue(DespawnEntity{ID: id})
}

// Len reports how many commands are queued.
func (q *Queue) Len() int {
	return len(q.commands)
}

// Pending returns a copy of the queued commands in enqueue order.
func (q *Queue) Pending() []Command {
	return append([]Command(nil), q.commands...)
}

// ApplyAll applies the current batch front to back, each command exactly
// once. A failing command is skipped and the rest still apply; the failures
// are returned joined.
func (q *Queue) ApplyAll(e *scene.Engine) error {
	batch := q.commands
	q.commands = nil

	var errs []error
	for _, cmd := range batch {
		if err := cmd.Apply(e); err != nil {
			errs = append(errs, fmt.Errorf("commands: %s: %w", cmd, err))
		}
	}
	return errors.Join(errs...)
}
