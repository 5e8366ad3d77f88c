//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/srtransform/internal/core/scene"
)

func InitializeApp(sc *scene.Scene) (*App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
