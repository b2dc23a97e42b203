package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/prefab/internal/config"
	"github.com/zeusync/prefab/internal/core/assets"
	"github.com/zeusync/prefab/internal/core/commands"
	"github.com/zeusync/prefab/internal/core/components"
	"github.com/zeusync/prefab/internal/core/editmode"
	"github.com/zeusync/prefab/internal/core/events/bus"
	"github.com/zeusync/prefab/internal/core/library"
	"github.com/zeusync/prefab/internal/core/observability/log"
	"github.com/zeusync/prefab/internal/core/scene"
	"github.com/zeusync/prefab/internal/core/schema/registry"
	"github.com/zeusync/prefab/internal/core/storage"
	"github.com/zeusync/prefab/internal/core/world"
	"github.com/zeusync/prefab/internal/editor"
)

// ProviderSet builds an editor over a headless runtime and a directory backend.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideRegistry,
	ProvideRuntime,
	wire.Bind(new(world.Runtime), new(*world.Memory)),
	ProvideAssets,
	wire.Bind(new(world.AssetLoader), new(*world.MemoryAssets)),
	ProvideBus,
	scene.NewEngine,
	ProvideQueue,
	ProvideMachine,
	ProvideKeys,
	library.Default,
	ProvideBackend,
	ProvideStorage,
	assets.NewResolver,
	ProvideSelection,
	ProvideCamera,
	wire.Struct(new(editor.Deps), "*"),
	editor.New,
)

func ProvideLogger(cfg *config.Config) (*log.Logger, func(), error) {
	opts, err := cfg.LogOptions()
	if err != nil {
		return nil, nil, err
	}
	logger, err := log.New(opts)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideRegistry() (*registry.Registry, error) {
	return components.NewRegistry()
}

func ProvideRuntime() *world.Memory {
	return world.NewMemory()
}

func ProvideAssets(cfg *config.Config) *world.MemoryAssets {
	return world.NewMemoryAssets(cfg.Assets...)
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideQueue(e *scene.Engine) *commands.Queue {
	return commands.NewQueue(e.Allocator())
}

func ProvideMachine(cfg *config.Config) *editmode.Machine {
	return editmode.NewMachine(cfg.EditBindings(), cfg.Tuning())
}

func ProvideKeys(cfg *config.Config) editor.Keys {
	return editor.Keys{
		Camera:   cfg.Bindings[config.ActionCamera],
		Save:     cfg.Bindings[config.ActionSave],
		Modifier: cfg.Bindings[config.ActionModifier],
	}
}

func ProvideBackend(cfg *config.Config) storage.Backend {
	return storage.Dir{Root: cfg.Root}
}

func ProvideStorage(backend storage.Backend, cfg *config.Config, reg *registry.Registry, logger log.Log) *storage.Storage {
	return storage.New(backend, cfg.Paths, reg, logger)
}

func ProvideSelection() world.MutableSelection {
	return world.SelectionSet{}
}

func ProvideCamera() world.Camera {
	return &world.FlyCamera{}
}
