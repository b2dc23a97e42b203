package assets

import (
	"errors"
	"fmt"

	"github.com/zeusync/prefab/internal/core/components"
	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/observability/log"
	"github.com/zeusync/prefab/internal/core/world"
)

// ErrAssetResolution is returned when a referenced asset cannot be loaded.
var ErrAssetResolution = errors.New("assets: resolution failure")

// Resolver runs in the finalize stage. It replaces runtime-side asset
// references with loaded handles and expands default-component markers.
// Only runtime components change; the document keeps the references.
type Resolver struct {
	runtime world.Runtime
	loader  world.AssetLoader
	logger  log.Log
}

func NewResolver(rt world.Runtime, loader world.AssetLoader, logger log.Log) *Resolver {
	return &Resolver{
		runtime: rt,
		loader:  loader,
		logger:  logger.With(log.String("component", "assets")),
	}
}

// Resolve processes every pending reference. A failing reference is left in
// place and reported; the others are still resolved.
func (r *Resolver) Resolve() error {
	var errs []error
	errs = append(errs, r.each(components.MeshAssetType, r.mesh)...)
	errs = append(errs, r.each(components.ColorMaterialType, r.material)...)
	errs = append(errs, r.each(components.DefaultGlobalTransformType, r.globalTransform)...)
	return errors.Join(errs...)
}

func (r *Resolver) mesh(h world.Handle, c models.Component) error {
	path := c.(*components.MeshAsset).Path
	asset, err := r.loader.Load(path)
	if err != nil {
		return fmt.Errorf("%w: mesh %q: %w", ErrAssetResolution, path, err)
	}
	if err = r.runtime.Insert(h, &components.MeshHandle{Handle: asset}); err != nil {
		return err
	}
	r.logger.Debug("mesh resolved", log.String("path", path), log.Stringer("handle", asset))
	return r.runtime.Remove(h, components.MeshAssetType)
}

func (r *Resolver) material(h world.Handle, c models.Component) error {
	color := c.(*components.ColorMaterial).Color
	asset, err := r.loader.AddMaterial(models.Vec4(color))
	if err != nil {
		return fmt.Errorf("%w: material %v: %w", ErrAssetResolution, color, err)
	}
	if err = r.runtime.Insert(h, &components.MaterialHandle{Handle: asset}); err != nil {
		return err
	}
	return r.runtime.Remove(h, components.ColorMaterialType)
}

func (r *Resolver) globalTransform(h world.Handle, _ models.Component) error {
	if err := r.runtime.Insert(h, components.NewGlobalTransform()); err != nil {
		return err
	}
	return r.runtime.Remove(h, components.DefaultGlobalTransformType)
}

// each collects the matching handles first so fn may mutate the runtime.
func (r *Resolver) each(typeName string, fn func(world.Handle, models.Component) error) []error {
	type match struct {
		h world.Handle
		c models.Component
	}
	var matches []match
	r.runtime.Each(typeName, func(h world.Handle, c models.Component) {
		matches = append(matches, match{h, c})
	})

	var errs []error
	for _, m := range matches {
		if err := fn(m.h, m.c); err != nil {
			r.logger.Warn("asset not resolved", log.String("type", typeName), log.Error(err))
			errs = append(errs, err)
		}
	}
	return errs
}
