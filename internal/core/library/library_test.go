package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/prefab/internal/core/components"
	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/schema/registry"
)

func newDefault(t *testing.T) (*Library, *registry.Registry) {
	t.Helper()
	reg, err := components.NewRegistry()
	require.NoError(t, err)
	l, err := Default(reg)
	require.NoError(t, err)
	return l, reg
}

func TestDefault_BuiltIns(t *testing.T) {
	l, _ := newDefault(t)

	assert.Equal(t, []string{components.LightBundle, components.PbrBundle}, l.BundleNames())
	assert.Contains(t, l.PropertyNames(), components.TransformType)
	assert.Contains(t, l.PropertyNames(), components.LightType)
	assert.NotContains(t, l.PropertyNames(), components.MeshHandleType)

	pbr, err := l.Bundle(components.PbrBundle)
	require.NoError(t, err)
	types := make([]string, len(pbr))
	for i, b := range pbr {
		types[i] = b.Type
	}
	assert.Contains(t, types, components.MeshAssetType)
	assert.Contains(t, types, components.RenderPipelinesType)
}

func TestLibrary_ReadsAreCopies(t *testing.T) {
	l, _ := newDefault(t)

	bags, err := l.Bundle(components.LightBundle)
	require.NoError(t, err)
	bags[0].Set("fov", models.Float(9))

	again, err := l.Bundle(components.LightBundle)
	require.NoError(t, err)
	assert.Len(t, again, 3)
	v, _ := again[0].Get("fov")
	assert.NotEqual(t, models.Float(9), v)

	p, err := l.Property(components.TransformType)
	require.NoError(t, err)
	p.Set("translation", models.Vec3{1, 1, 1})
	p2, _ := l.Property(components.TransformType)
	v, _ = p2.Get("translation")
	assert.Equal(t, models.Vec3{}, v)
}

func TestLibrary_NotFound(t *testing.T) {
	l, _ := newDefault(t)
	_, err := l.Bundle("Nope")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	_, err = l.Property("Nope")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestLibrary_SetStoresCopies(t *testing.T) {
	l, reg := newDefault(t)

	bag := models.NewBag(components.LightType).With("fov", models.Float(0.3))
	require.NoError(t, l.SetProperty(reg, "NarrowLight", bag))
	bag.Set("fov", models.Float(2))

	got, err := l.Property("NarrowLight")
	require.NoError(t, err)
	v, _ := got.Get("fov")
	assert.Equal(t, models.Float(0.3), v)

	err = l.SetBundle(reg, "Broken", []*models.Bag{models.NewBag("Ghost")})
	assert.ErrorIs(t, err, registry.ErrNotRegistered)
	assert.NotContains(t, l.BundleNames(), "Broken")

	assert.Error(t, l.SetProperty(reg, "Nil", nil))
}

func TestLibrary_CloneAndEqual(t *testing.T) {
	l, reg := newDefault(t)
	c := l.Clone()
	assert.True(t, l.Equal(c))

	require.NoError(t, c.SetProperty(reg, components.DrawType,
		models.NewBag(components.DrawType).With("visible", models.Bool(false))))
	assert.False(t, l.Equal(c))
}
