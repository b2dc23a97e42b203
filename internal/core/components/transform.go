package components

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/zeusync/prefab/internal/core/models"
)

const (
	TransformType       = "Transform"
	GlobalTransformType = "GlobalTransform"
	// DefaultGlobalTransformType marks an entity that should receive a default
	// GlobalTransform once the finalize stage runs.
	DefaultGlobalTransformType = "DefaultGlobalTransform"
)

// Transform is the local placement of an entity.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// NewTransform returns the identity transform.
func NewTransform() *Transform {
	return &Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t *Transform) TypeName() string { return TransformType }

func (t *Transform) ToBag() *models.Bag {
	return transformBag(TransformType, t.Translation, t.Rotation, t.Scale)
}

func (t *Transform) FromBag(b *models.Bag) error {
	return readTransform(b, &t.Translation, &t.Rotation, &t.Scale)
}

// Translate moves the transform by v.
func (t *Transform) Translate(v mgl32.Vec3) {
	t.Translation = t.Translation.Add(v)
}

// Rotate applies q on top of the current rotation.
func (t *Transform) Rotate(q mgl32.Quat) {
	t.Rotation = q.Mul(t.Rotation).Normalize()
}

// ApplyNonUniformScale multiplies the scale component-wise by v.
func (t *Transform) ApplyNonUniformScale(v mgl32.Vec3) {
	t.Scale = mgl32.Vec3{t.Scale[0] * v[0], t.Scale[1] * v[1], t.Scale[2] * v[2]}
}

// GlobalTransform is the world-space placement computed by the runtime.
type GlobalTransform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

func NewGlobalTransform() *GlobalTransform {
	return &GlobalTransform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (g *GlobalTransform) TypeName() string { return GlobalTransformType }

func (g *GlobalTransform) ToBag() *models.Bag {
	return transformBag(GlobalTransformType, g.Translation, g.Rotation, g.Scale)
}

func (g *GlobalTransform) FromBag(b *models.Bag) error {
	return readTransform(b, &g.Translation, &g.Rotation, &g.Scale)
}

// DefaultGlobalTransform carries no data.
type DefaultGlobalTransform struct{}

func (DefaultGlobalTransform) TypeName() string { return DefaultGlobalTransformType }

func (DefaultGlobalTransform) ToBag() *models.Bag { return models.NewBag(DefaultGlobalTransformType) }

func (DefaultGlobalTransform) FromBag(*models.Bag) error { return nil }

func transformBag(typeName string, tr mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) *models.Bag {
	return models.NewBag(typeName).
		With("translation", models.Vec3(tr)).
		With("rotation", models.Quat(rot)).
		With("scale", models.Vec3(scale))
}

func readTransform(b *models.Bag, tr *mgl32.Vec3, rot *mgl32.Quat, scale *mgl32.Vec3) error {
	r := models.Read(b)
	*tr = mgl32.Vec3(r.Vec3("translation", models.Vec3(*tr)))
	*rot = mgl32.Quat(r.Quat("rotation", models.Quat(*rot)))
	*scale = mgl32.Vec3(r.Vec3("scale", models.Vec3(*scale)))
	return r.Err()
}
