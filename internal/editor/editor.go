package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeusync/prefab/internal/core/assets"
	"github.com/zeusync/prefab/internal/core/commands"
	"github.com/zeusync/prefab/internal/core/components"
	"github.com/zeusync/prefab/internal/core/editmode"
	"github.com/zeusync/prefab/internal/core/events/bus"
	"github.com/zeusync/prefab/internal/core/input"
	"github.com/zeusync/prefab/internal/core/library"
	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/observability/log"
	"github.com/zeusync/prefab/internal/core/scene"
	"github.com/zeusync/prefab/internal/core/storage"
	"github.com/zeusync/prefab/internal/core/world"
)

// Stage is one step of the editor cycle.
type Stage uint8

const (
	// StageInput turns raw input into intents.
	StageInput Stage = iota
	// StageLogic turns intents into queued commands.
	StageLogic
	// StageApply drains the command queue; the only stage that mutates the document.
	StageApply
	// StageFinalize resolves asset references on the runtime.
	StageFinalize
)

func (s Stage) String() string {
	switch s {
	case StageInput:
		return "input"
	case StageLogic:
		return "logic"
	case StageApply:
		return "apply"
	case StageFinalize:
		return "finalize"
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// Keys holds the editor-level bindings not owned by the edit machine.
type Keys struct {
	Camera   input.Key
	Save     input.Key
	Modifier input.Key
}

func DefaultKeys() Keys {
	return Keys{Camera: input.KeyQ, Save: input.KeyS, Modifier: input.KeyLControl}
}

// Deps are the collaborators of an Editor.
type Deps struct {
	Keys      Keys
	Machine   *editmode.Machine
	Queue     *commands.Queue
	Engine    *scene.Engine
	Library   *library.Library
	Storage   *storage.Storage
	Resolver  *assets.Resolver
	Selection world.MutableSelection
	Camera    world.Camera
	Bus       bus.EventBus
	Logger    log.Log
}

// Editor runs the staged cycle over buffered input. It is driven from a
// single goroutine; none of its state is locked.
type Editor struct {
	keys      Keys
	machine   *editmode.Machine
	queue     *commands.Queue
	engine    *scene.Engine
	library   *library.Library
	storage   *storage.Storage
	resolver  *assets.Resolver
	selection world.MutableSelection
	camera    world.Camera
	logger    log.Log

	text  TextField
	cycle uint64
}

func New(d Deps) *Editor {
	e := &Editor{
		keys:      d.Keys,
		machine:   d.Machine,
		queue:     d.Queue,
		engine:    d.Engine,
		library:   d.Library,
		storage:   d.Storage,
		resolver:  d.Resolver,
		selection: d.Selection,
		camera:    d.Camera,
		logger:    d.Logger.With(log.String("component", "editor")),
	}
	if d.Bus != nil {
		if _, err := d.Bus.Subscribe(bus.Wildcard, e.trace); err != nil {
			e.logger.Warn("event trace disabled", log.Error(err))
		}
	}
	return e
}

func (e *Editor) Engine() *scene.Engine      { return e.engine }
func (e *Editor) Queue() *commands.Queue     { return e.queue }
func (e *Editor) Library() *library.Library  { return e.library }
func (e *Editor) Machine() *editmode.Machine { return e.machine }
func (e *Editor) Camera() world.Camera       { return e.camera }
func (e *Editor) TextField() *TextField      { return &e.text }

// Load replaces the document and the library with the persisted files.
func (e *Editor) Load(ctx context.Context) error {
	doc, lib, err := e.storage.Load(ctx)
	if err != nil {
		return err
	}
	if err = e.engine.Load(doc); err != nil {
		return err
	}
	e.library = lib
	return e.resolve()
}

// Save writes the document and the library. Nothing is written when the
// files already hold the current state.
func (e *Editor) Save(ctx context.Context) error {
	dirty, err := e.Dirty()
	if err != nil {
		return err
	}
	if !dirty {
		e.logger.Debug("save skipped, files up to date")
		return nil
	}
	return e.storage.Save(ctx, e.engine.Document(), e.library)
}

// Dirty reports whether the document or the library differ from what was
// last loaded or saved.
func (e *Editor) Dirty() (bool, error) {
	return e.storage.Dirty(e.engine.Document(), e.library)
}

// Spawn queues a new entity built from a copy of the named bundle and returns
// its reserved id.
func (e *Editor) Spawn(bundle string) (models.EntityID, error) {
	bags, err := e.library.Bundle(bundle)
	if err != nil {
		return 0, err
	}
	return e.queue.Spawn(bags...), nil
}

// Select marks an entity as selected. The entity must be live.
func (e *Editor) Select(id models.EntityID) error {
	h, err := e.engine.Identity().Handle(id)
	if err != nil {
		return err
	}
	e.selection.Select(h)
	return nil
}

func (e *Editor) Deselect(id models.EntityID) error {
	h, err := e.engine.Identity().Handle(id)
	if err != nil {
		return err
	}
	e.selection.Deselect(h)
	return nil
}

// Selected returns the selected entity ids in document order.
func (e *Editor) Selected() []models.EntityID {
	var ids []models.EntityID
	for _, ent := range e.engine.Document().Entities() {
		h, err := e.engine.Identity().Handle(ent.ID)
		if err == nil && e.selection.IsSelected(h) {
			ids = append(ids, ent.ID)
		}
	}
	return ids
}

// intents is what the input stage hands to the logic stage.
type intents struct {
	edits []editmode.Event
	// template is the committed text field content, empty when nothing was committed.
	template string
	save     bool
}

// Update runs one cycle: input, logic, apply, then finalize. A save requested
// this cycle runs after apply. Recoverable failures are logged and returned
// joined; the cycle still completes.
func (e *Editor) Update(ctx context.Context, f input.Frame) error {
	e.cycle++
	var errs []error

	in := e.inputStage(f)
	e.stage(StageLogic)
	if err := e.logicStage(in); err != nil {
		errs = append(errs, err)
	}
	e.stage(StageApply)
	if err := e.queue.ApplyAll(e.engine); err != nil {
		e.logger.Error("commands failed", log.Error(err))
		errs = append(errs, err)
	}
	if in.save {
		if err := e.Save(ctx); err != nil {
			e.logger.Error("save failed", log.Error(err))
			errs = append(errs, err)
		}
	}
	e.stage(StageFinalize)
	if err := e.resolve(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (e *Editor) inputStage(f input.Frame) intents {
	e.stage(StageInput)
	var in intents

	in.save = f.Clicked(input.ButtonSave) || (f.IsHeld(e.keys.Modifier) && f.JustPressed(e.keys.Save))

	if f.Clicked(input.ButtonAddComponent) {
		if e.text.Armed() {
			in.template = e.text.Disarm()
			return in
		}
		e.text.Arm()
	}
	if e.text.Armed() {
		if e.text.Feed(f) {
			in.template = e.text.Disarm()
			e.machine.Reset()
		}
		return in
	}

	if f.JustPressed(e.keys.Camera) {
		e.camera.SetEnabled(!e.camera.Enabled())
		e.logger.Debug("camera toggled", log.Bool("enabled", e.camera.Enabled()))
	}
	in.edits = e.machine.Update(f)
	return in
}

func (e *Editor) logicStage(in intents) error {
	if len(in.edits) > 0 {
		e.applyEdits(in.edits)
	}
	if in.template == "" {
		return nil
	}
	if err := e.applyTemplate(in.template); err != nil {
		e.logger.Warn("template not applied", log.String("name", in.template), log.Error(err))
		return err
	}
	return nil
}

// applyEdits applies every edit to the runtime transform of the first selected
// entity that has one, queueing a patch after each so the document follows.
func (e *Editor) applyEdits(edits []editmode.Event) {
	for _, id := range e.Selected() {
		h, _ := e.engine.Identity().Handle(id)
		c, ok := e.engine.Runtime().Get(h, components.TransformType)
		if !ok {
			continue
		}
		tr := c.(*components.Transform)
		for _, ev := range edits {
			switch ev.Kind {
			case editmode.KindTranslate:
				tr.Translate(ev.Vector)
			case editmode.KindRotate:
				tr.Rotate(ev.Rotation)
			case editmode.KindScale:
				tr.ApplyNonUniformScale(ev.Vector)
			}
			e.queue.Patch(id, tr.ToBag())
		}
		return
	}
}

// applyTemplate adds the named property, or failing that the named bundle, to
// every selected entity.
func (e *Editor) applyTemplate(name string) error {
	selected := e.Selected()
	if bag, err := e.library.Property(name); err == nil {
		for _, id := range selected {
			e.queue.Patch(id, bag)
			e.queue.SyncOne(id, bag.Type)
		}
		return nil
	}
	bags, err := e.library.Bundle(name)
	if err != nil {
		return fmt.Errorf("%w: %q", library.ErrTemplateNotFound, name)
	}
	for _, id := range selected {
		e.queue.PatchMany(id, bags)
		e.queue.Sync(id)
	}
	return nil
}

func (e *Editor) resolve() error {
	if err := e.resolver.Resolve(); err != nil {
		e.logger.Error("asset resolution failed", log.Error(err))
		return err
	}
	return nil
}

func (e *Editor) stage(s Stage) {
	e.logger.Debug("stage", log.Any("cycle", e.cycle), log.Stringer("stage", s))
}

func (e *Editor) trace(ev bus.Event) error {
	e.logger.Debug("scene event", log.String("type", ev.Type()), log.Any("data", ev.Data()))
	return nil
}
