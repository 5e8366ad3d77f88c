package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/srtransform/internal/core/observability/log"
	"github.com/zeusync/srtransform/internal/core/scene"
	"github.com/zeusync/srtransform/internal/server"
)

// App is everything the CLI needs for one loaded scene.
type App struct {
	Logger log.Log
	Runner *scene.Runner
	Server *server.Server
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideRunner,
	ProvideServerConfig,
	ProvideServer,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(sc *scene.Scene) (log.Log, error) {
	level, err := log.ParseLevel(sc.Log.Level)
	if err != nil {
		return nil, err
	}
	return log.New(level), nil
}

func ProvideRunner(sc *scene.Scene, logger log.Log) *scene.Runner {
	return scene.NewRunner(sc, logger)
}

func ProvideServerConfig(sc *scene.Scene) server.Config {
	return server.ConfigFromScene(sc.Server)
}

func ProvideServer(runner *scene.Runner, config server.Config, logger log.Log) *server.Server {
	return server.NewServer(runner, config, logger)
}
