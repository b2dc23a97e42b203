package components

import (
	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/schema/registry"
)

const (
	LightBundle = "LightComponents"
	PbrBundle   = "PbrComponents"
)

var constructors = []func() models.Component{
	func() models.Component { return NewTransform() },
	func() models.Component { return NewGlobalTransform() },
	func() models.Component { return DefaultGlobalTransform{} },
	func() models.Component { return NewLight() },
	func() models.Component { return &MeshAsset{} },
	func() models.Component { return &MeshHandle{} },
	func() models.Component { return NewColorMaterial() },
	func() models.Component { return &MaterialHandle{} },
	func() models.Component { return NewDraw() },
	func() models.Component { return &MainPass{} },
	func() models.Component { return &RenderPipelines{} },
}

// Register adds every built-in component type to r.
func Register(r *registry.Registry) error {
	for _, ctor := range constructors {
		if err := r.Register(registry.Capabilities{
			Name: ctor().TypeName(),
			New:  ctor,
		}); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a frozen registry holding the built-in components.
func NewRegistry() (*registry.Registry, error) {
	r := registry.New()
	if err := Register(r); err != nil {
		return nil, err
	}
	r.Freeze()
	return r, nil
}

// Bundles returns the built-in bundle templates.
func Bundles() map[string][]*models.Bag {
	return map[string][]*models.Bag{
		LightBundle: {
			NewLight().ToBag(),
			NewTransform().ToBag(),
			DefaultGlobalTransform{}.ToBag(),
		},
		PbrBundle: {
			(&MeshAsset{}).ToBag(),
			NewColorMaterial().ToBag(),
			NewDraw().ToBag(),
			(&MainPass{}).ToBag(),
			ForwardPipelines().ToBag(),
			NewTransform().ToBag(),
			DefaultGlobalTransform{}.ToBag(),
		},
	}
}

// Properties returns the built-in single-bag templates keyed by type name.
// Runtime-only handle types are left out.
func Properties() map[string]*models.Bag {
	out := make(map[string]*models.Bag)
	for _, ctor := range constructors {
		c := ctor()
		switch c.TypeName() {
		case MeshHandleType, MaterialHandleType:
			continue
		}
		out[c.TypeName()] = c.ToBag()
	}
	return out
}
