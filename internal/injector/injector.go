//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/prefab/internal/config"
	"github.com/zeusync/prefab/internal/editor"
)

// Initialize builds an editor from cfg. The cleanup flushes the logger.
func Initialize(cfg *config.Config) (*editor.Editor, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
