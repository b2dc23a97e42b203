package components

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/zeusync/prefab/internal/core/models"
)

const (
	LightType           = "Light"
	MeshAssetType       = "MeshAsset"
	MeshHandleType      = "MeshHandle"
	ColorMaterialType   = "ColorMaterial"
	MaterialHandleType  = "MaterialHandle"
	DrawType            = "Draw"
	MainPassType        = "MainPass"
	RenderPipelinesType = "RenderPipelines"

	pipelineType       = "RenderPipeline"
	dynamicBindingType = "DynamicBinding"

	// ForwardPipeline names the built-in forward PBR pipeline.
	ForwardPipeline = "forward"
)

type Light struct {
	Color     mgl32.Vec4
	FOV       float64
	DepthNear float64
	DepthFar  float64
}

func NewLight() *Light {
	return &Light{
		Color:     mgl32.Vec4{1, 1, 1, 1},
		FOV:       math.Pi / 3,
		DepthNear: 0.1,
		DepthFar:  50,
	}
}

func (l *Light) TypeName() string { return LightType }

func (l *Light) ToBag() *models.Bag {
	return models.NewBag(LightType).
		With("color", models.Vec4(l.Color)).
		With("fov", models.Float(l.FOV)).
		With("depth_near", models.Float(l.DepthNear)).
		With("depth_far", models.Float(l.DepthFar))
}

func (l *Light) FromBag(b *models.Bag) error {
	r := models.Read(b)
	l.Color = mgl32.Vec4(r.Vec4("color", models.Vec4(l.Color)))
	l.FOV = r.Float("fov", l.FOV)
	l.DepthNear = r.Float("depth_near", l.DepthNear)
	l.DepthFar = r.Float("depth_far", l.DepthFar)
	return r.Err()
}

// MeshAsset references a mesh file that the finalize stage loads.
type MeshAsset struct {
	Path string
}

func (m *MeshAsset) TypeName() string { return MeshAssetType }

func (m *MeshAsset) ToBag() *models.Bag {
	return models.NewBag(MeshAssetType).With("path", models.String(m.Path))
}

func (m *MeshAsset) FromBag(b *models.Bag) error {
	r := models.Read(b)
	m.Path = r.String("path", m.Path)
	return r.Err()
}

// MeshHandle is the runtime-only result of resolving a MeshAsset.
type MeshHandle struct {
	Handle uuid.UUID
}

func (m *MeshHandle) TypeName() string { return MeshHandleType }

func (m *MeshHandle) ToBag() *models.Bag {
	return models.NewBag(MeshHandleType).With("handle", models.String(m.Handle.String()))
}

func (m *MeshHandle) FromBag(b *models.Bag) error {
	return readHandle(b, &m.Handle)
}

// ColorMaterial is a color that the finalize stage turns into a material asset.
type ColorMaterial struct {
	Color mgl32.Vec4
}

func NewColorMaterial() *ColorMaterial {
	return &ColorMaterial{Color: mgl32.Vec4{1, 1, 1, 1}}
}

func (c *ColorMaterial) TypeName() string { return ColorMaterialType }

func (c *ColorMaterial) ToBag() *models.Bag {
	return models.NewBag(ColorMaterialType).With("color", models.Vec4(c.Color))
}

func (c *ColorMaterial) FromBag(b *models.Bag) error {
	r := models.Read(b)
	c.Color = mgl32.Vec4(r.Vec4("color", models.Vec4(c.Color)))
	return r.Err()
}

type MaterialHandle struct {
	Handle uuid.UUID
}

func (m *MaterialHandle) TypeName() string { return MaterialHandleType }

func (m *MaterialHandle) ToBag() *models.Bag {
	return models.NewBag(MaterialHandleType).With("handle", models.String(m.Handle.String()))
}

func (m *MaterialHandle) FromBag(b *models.Bag) error {
	return readHandle(b, &m.Handle)
}

type Draw struct {
	Visible     bool
	Transparent bool
}

func NewDraw() *Draw {
	return &Draw{Visible: true}
}

func (d *Draw) TypeName() string { return DrawType }

func (d *Draw) ToBag() *models.Bag {
	return models.NewBag(DrawType).
		With("visible", models.Bool(d.Visible)).
		With("transparent", models.Bool(d.Transparent))
}

func (d *Draw) FromBag(b *models.Bag) error {
	r := models.Read(b)
	d.Visible = r.Bool("visible", d.Visible)
	d.Transparent = r.Bool("transparent", d.Transparent)
	return r.Err()
}

// MainPass tags entities drawn in the main pass.
type MainPass struct{}

func (*MainPass) TypeName() string { return MainPassType }

func (*MainPass) ToBag() *models.Bag { return models.NewBag(MainPassType) }

func (*MainPass) FromBag(*models.Bag) error { return nil }

type DynamicBinding struct {
	BindGroup int64
	Binding   int64
}

type Pipeline struct {
	Name     string
	Bindings []DynamicBinding
}

type RenderPipelines struct {
	Pipelines []Pipeline
}

func (p *RenderPipelines) TypeName() string { return RenderPipelinesType }

func (p *RenderPipelines) ToBag() *models.Bag {
	list := make(models.List, 0, len(p.Pipelines))
	for _, pl := range p.Pipelines {
		bindings := make(models.List, 0, len(pl.Bindings))
		for _, db := range pl.Bindings {
			bindings = append(bindings, models.NewBag(dynamicBindingType).
				With("bind_group", models.Int(db.BindGroup)).
				With("binding", models.Int(db.Binding)))
		}
		list = append(list, models.NewBag(pipelineType).
			With("pipeline", models.String(pl.Name)).
			With("dynamic_bindings", bindings))
	}
	return models.NewBag(RenderPipelinesType).With("pipelines", list)
}

func (p *RenderPipelines) FromBag(b *models.Bag) error {
	r := models.Read(b)
	list := r.List("pipelines", nil)
	if err := r.Err(); err != nil {
		return err
	}
	if _, ok := b.Get("pipelines"); !ok {
		return nil
	}
	pipelines := make([]Pipeline, 0, len(list))
	for i, item := range list {
		pb, ok := item.(*models.Bag)
		if !ok {
			return fmt.Errorf("%w: pipelines[%d] is %s", models.ErrFieldKind, i, item.Kind())
		}
		pr := models.Read(pb)
		pl := Pipeline{Name: pr.String("pipeline", "")}
		for j, bi := range pr.List("dynamic_bindings", nil) {
			bb, ok := bi.(*models.Bag)
			if !ok {
				return fmt.Errorf("%w: pipelines[%d].dynamic_bindings[%d] is %s", models.ErrFieldKind, i, j, bi.Kind())
			}
			br := models.Read(bb)
			pl.Bindings = append(pl.Bindings, DynamicBinding{
				BindGroup: br.Int("bind_group", 0),
				Binding:   br.Int("binding", 0),
			})
			if err := br.Err(); err != nil {
				return err
			}
		}
		if err := pr.Err(); err != nil {
			return err
		}
		pipelines = append(pipelines, pl)
	}
	p.Pipelines = pipelines
	return nil
}

// ForwardPipelines is the pipeline set used by PBR entities: transform at
// bind group 2 and the material albedo at bind group 3.
func ForwardPipelines() *RenderPipelines {
	return &RenderPipelines{Pipelines: []Pipeline{{
		Name: ForwardPipeline,
		Bindings: []DynamicBinding{
			{BindGroup: 2, Binding: 0},
			{BindGroup: 3, Binding: 0},
		},
	}}}
}

func readHandle(b *models.Bag, dst *uuid.UUID) error {
	r := models.Read(b)
	s := r.String("handle", "")
	if err := r.Err(); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: handle %q: %v", models.ErrFieldKind, s, err)
	}
	*dst = id
	return nil
}
