package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/world"
)

type counter struct {
	Count int64
	Label string
}

func (c *counter) TypeName() string { return "Counter" }

func (c *counter) ToBag() *models.Bag {
	return models.NewBag("Counter").
		With("count", models.Int(c.Count)).
		With("label", models.String(c.Label))
}

func (c *counter) FromBag(b *models.Bag) error {
	r := models.Read(b)
	c.Count = r.Int("count", c.Count)
	c.Label = r.String("label", c.Label)
	return r.Err()
}

func newCounterRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New()
	require.NoError(t, r.Register(Capabilities{
		Name: "Counter",
		New:  func() models.Component { return &counter{Label: "default"} },
	}))
	return r
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := newCounterRegistry(t)

	caps, err := r.Lookup("Counter")
	require.NoError(t, err)
	assert.Equal(t, "Counter", caps.Name)
	assert.Equal(t, ID("Counter"), caps.ID)
	assert.NotEqual(t, ID("Counter"), ID("Other"))
	assert.True(t, r.Has("Counter"))
	assert.Equal(t, []string{"Counter"}, r.Names())

	_, err = r.Lookup("Missing")
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestRegistry_RegisterRejects(t *testing.T) {
	r := newCounterRegistry(t)

	err := r.Register(Capabilities{Name: "Counter", New: func() models.Component { return &counter{} }})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	err = r.Register(Capabilities{Name: "Other", New: func() models.Component { return &counter{} }})
	assert.ErrorIs(t, err, ErrInvalidCapabilities)

	err = r.Register(Capabilities{Name: "Nil"})
	assert.ErrorIs(t, err, ErrInvalidCapabilities)

	r.Freeze()
	assert.True(t, r.Frozen())
	err = r.Register(Capabilities{Name: "Late", New: func() models.Component { return &counter{} }})
	assert.ErrorIs(t, err, ErrFrozen)
}

func TestRegistry_DefaultAndMaterialize(t *testing.T) {
	r := newCounterRegistry(t)

	def, err := r.Default("Counter")
	require.NoError(t, err)
	assert.True(t, def.Equal(models.NewBag("Counter").With("count", models.Int(0)).With("label", models.String("default"))))

	c, err := r.Materialize(models.NewBag("Counter").With("count", models.Int(7)))
	require.NoError(t, err)
	assert.Equal(t, &counter{Count: 7, Label: "default"}, c)

	_, err = r.Materialize(models.NewBag("Counter").With("count", models.String("x")))
	assert.ErrorIs(t, err, models.ErrFieldKind)
}

func TestRegistry_Apply(t *testing.T) {
	r := newCounterRegistry(t)

	target := models.NewBag("Counter").With("count", models.Int(1)).With("label", models.String("a"))
	require.NoError(t, r.Apply(target, models.NewBag("Counter").With("count", models.Int(2))))
	assert.True(t, target.Equal(models.NewBag("Counter").With("count", models.Int(2)).With("label", models.String("a"))))

	assert.ErrorIs(t, r.Apply(target, models.NewBag("Other")), models.ErrTypeMismatch)
	assert.ErrorIs(t, r.Apply(models.NewBag("Other"), models.NewBag("Other")), ErrNotRegistered)
}

func TestRegistry_Install(t *testing.T) {
	r := newCounterRegistry(t)
	rt := world.NewMemory()
	h := rt.Spawn()

	require.NoError(t, r.Install(rt, h, models.NewBag("Counter").With("count", models.Int(3))))
	require.NoError(t, r.Install(rt, h, models.NewBag("Counter").With("label", models.String("b"))))

	got, ok := rt.Get(h, "Counter")
	require.True(t, ok)
	// each install starts from defaults, so the second one overwrites count
	assert.Equal(t, &counter{Count: 0, Label: "b"}, got)

	err := r.Install(rt, h, models.NewBag("Missing"))
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.Equal(t, []string{"Counter"}, rt.Components(h))
}

func TestRegistry_Validate(t *testing.T) {
	r := newCounterRegistry(t)
	assert.NoError(t, r.Validate(models.NewBag("Counter")))
	assert.ErrorIs(t, r.Validate(models.NewBag("Counter"), models.NewBag("Nope")), ErrNotRegistered)
}
