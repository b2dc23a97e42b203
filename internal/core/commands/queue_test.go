package commands

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/prefab/internal/core/components"
	"github.com/zeusync/prefab/internal/core/events/bus"
	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/observability/log"
	"github.com/zeusync/prefab/internal/core/schema/registry"
	"github.com/zeusync/prefab/internal/core/scene"
	"github.com/zeusync/prefab/internal/core/world"
)

func newEngine(t *testing.T, b bus.EventBus) (*scene.Engine, *world.Memory) {
	t.Helper()
	reg, err := components.NewRegistry()
	require.NoError(t, err)
	rt := world.NewMemory()
	return scene.NewEngine(reg, rt, b, log.Nop()), rt
}

func translation(v models.Vec3) *models.Bag {
	return models.NewBag(components.TransformType).With("translation", v)
}

func TestQueue_EnqueueIsInert(t *testing.T) {
	e, rt := newEngine(t, nil)
	q := NewQueue(e.Allocator())

	id := q.Spawn(translation(models.Vec3{1, 2, 3}))
	q.Patch(id, translation(models.Vec3{4, 5, 6}))
	q.Sync(id)
	q.Enqueue(nil)

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 0, e.Document().Len())
	assert.Equal(t, 0, rt.Len())

	pending := q.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, SpawnEntity{ID: id, Bags: []*models.Bag{translation(models.Vec3{1, 2, 3})}}, pending[0])
	assert.Equal(t, "patch(0, [Transform])", pending[1].String())
	assert.Equal(t, "sync(0)", pending[2].String())
}

func TestQueue_ClonesBagsOnEnqueue(t *testing.T) {
	e, _ := newEngine(t, nil)
	q := NewQueue(e.Allocator())

	bag := translation(models.Vec3{1, 0, 0})
	id := q.Spawn(bag)
	bag.Set("translation", models.Vec3{9, 9, 9})

	require.NoError(t, q.ApplyAll(e))
	ent, err := e.Document().Entity(id)
	require.NoError(t, err)
	v, _ := ent.Store.Get(components.TransformType).Get("translation")
	assert.Equal(t, models.Vec3{1, 0, 0}, v)
}

func TestQueue_ApplyAllMatchesDirectApplication(t *testing.T) {
	cmds := []Command{
		SpawnEntity{ID: 0, Bags: components.Bundles()[components.LightBundle]},
		SpawnEntity{ID: 1, Bags: []*models.Bag{translation(models.Vec3{})}},
		PatchEntity{ID: 1, Bags: []*models.Bag{translation(models.Vec3{1, 0, 0})}},
		PatchEntity{ID: 0, Bags: []*models.Bag{
			models.NewBag(components.LightType).With("fov", models.Float(0.5)),
			models.NewBag(components.LightType).With("depth_far", models.Float(10)),
		}},
		SyncOne{ID: 0, Type: components.LightType},
		SyncEntity{ID: 1},
		DespawnEntity{ID: 0},
		SpawnEntity{ID: 2, Bags: nil},
	}

	queued, queuedRT := newEngine(t, nil)
	q := NewQueue(queued.Allocator())
	for _, c := range cmds {
		q.Enqueue(c)
	}
	require.NoError(t, q.ApplyAll(queued))
	assert.Equal(t, 0, q.Len())

	direct, directRT := newEngine(t, nil)
	for _, c := range cmds {
		require.NoError(t, c.Apply(direct))
	}

	assert.True(t, queued.Document().Equal(direct.Document()))
	assert.Equal(t, directRT.Len(), queuedRT.Len())

	h1, err := queued.Identity().Handle(1)
	require.NoError(t, err)
	h2, err := direct.Identity().Handle(1)
	require.NoError(t, err)
	c1, _ := queuedRT.Get(h1, components.TransformType)
	c2, _ := directRT.Get(h2, components.TransformType)
	assert.Equal(t, c2, c1)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, c1.(*components.Transform).Translation)
}

func TestQueue_SequentialPatchesOnOneEntity(t *testing.T) {
	bagX := models.NewBag(components.TransformType).
		With("translation", models.Vec3{1, 1, 1}).
		With("scale", models.Vec3{2, 2, 2})
	bagY := translation(models.Vec3{3, 3, 3})

	e, _ := newEngine(t, nil)
	require.NoError(t, e.SpawnEntity(3, nil))
	q := NewQueue(e.Allocator())
	q.Patch(3, bagX)
	q.Patch(3, bagY)
	require.NoError(t, q.ApplyAll(e))

	want := models.NewStore()
	require.NoError(t, want.Insert(bagX.Clone()))
	require.NoError(t, want.Insert(bagY.Clone()))

	ent, err := e.Document().Entity(3)
	require.NoError(t, err)
	assert.True(t, ent.Store.Equal(want))
	v, _ := ent.Store.Get(components.TransformType).Get("scale")
	assert.Equal(t, models.Vec3{2, 2, 2}, v)
}

func TestQueue_FailedCommandIsSkipped(t *testing.T) {
	e, _ := newEngine(t, nil)
	q := NewQueue(e.Allocator())

	id := q.Spawn(translation(models.Vec3{}))
	q.Patch(id, models.NewBag("Ghost"))
	q.Patch(99, translation(models.Vec3{}))
	q.Patch(id, translation(models.Vec3{7, 0, 0}))

	err := q.ApplyAll(e)
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrNotRegistered)
	assert.ErrorIs(t, err, scene.ErrEntityNotFound)
	assert.Contains(t, err.Error(), "patch(99, [Transform])")

	ent, err := e.Document().Entity(id)
	require.NoError(t, err)
	v, _ := ent.Store.Get(components.TransformType).Get("translation")
	assert.Equal(t, models.Vec3{7, 0, 0}, v)
}

func TestQueue_ReentrantEnqueueRunsNextCycle(t *testing.T) {
	b := bus.New()
	e, rt := newEngine(t, b)
	q := NewQueue(e.Allocator())

	_, err := b.Subscribe(scene.EventPatched, func(ev bus.Event) error {
		q.Sync(ev.Data().(scene.EntityEvent).ID)
		return nil
	})
	require.NoError(t, err)

	id := q.Spawn(translation(models.Vec3{}))
	q.Patch(id, translation(models.Vec3{0, 2, 0}))
	require.NoError(t, q.ApplyAll(e))

	require.Equal(t, 1, q.Len())
	assert.Equal(t, SyncEntity{ID: id}, q.Pending()[0])

	h, _ := e.Identity().Handle(id)
	c, _ := rt.Get(h, components.TransformType)
	assert.Equal(t, mgl32.Vec3{}, c.(*components.Transform).Translation)

	require.NoError(t, q.ApplyAll(e))
	c, _ = rt.Get(h, components.TransformType)
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, c.(*components.Transform).Translation)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_SpawnIDsIncreaseAcrossDespawn(t *testing.T) {
	e, _ := newEngine(t, nil)
	q := NewQueue(e.Allocator())

	a := q.Spawn()
	b := q.Spawn()
	q.Despawn(a)
	require.NoError(t, q.ApplyAll(e))

	c := q.Spawn()
	require.NoError(t, q.ApplyAll(e))
	assert.Less(t, a, b)
	assert.Less(t, b, c)
	assert.Equal(t, 2, e.Document().Len())
}
