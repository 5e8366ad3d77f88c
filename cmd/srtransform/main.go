package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/srtransform/internal/core/observability/log"
	"github.com/zeusync/srtransform/internal/core/scene"
	"github.com/zeusync/srtransform/internal/core/systems/physics"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/transform"
	"github.com/zeusync/srtransform/internal/injector"
	"github.com/zeusync/srtransform/internal/server"
)

type options struct {
	scenePath string
	tObs      *float64
	serve     bool
	bake      bool
	logLevel  string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err = run(opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "srtransform:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("srtransform", flag.ContinueOnError)
	fs.StringVar(&opts.scenePath, "scene", "", "path to the YAML scene file")
	fs.Func("tobs", "observation time, overrides the scene observer", func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		opts.tObs = &v
		return nil
	})
	fs.BoolVar(&opts.serve, "serve", false, "run the preview server instead of a single pass")
	fs.BoolVar(&opts.bake, "bake", false, "print only the baked apparent positions")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level, overrides the scene log section")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.scenePath == "" {
		return opts, fmt.Errorf("-scene is required")
	}
	return opts, nil
}

func run(opts options, out io.Writer) error {
	sc, err := scene.LoadFile(opts.scenePath)
	if err != nil {
		return err
	}
	applyOverrides(sc, opts)
	if err = sc.Validate(); err != nil {
		return err
	}
	app, err := injector.InitializeApp(sc)
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger.Sync() }()

	if opts.logLevel != "" {
		level, err := log.ParseLevel(opts.logLevel)
		if err != nil {
			return err
		}
		app.Logger.SetLevel(level)
	}

	state := sc.Observer.State()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.serve {
		return serve(ctx, app)
	}
	return once(ctx, app.Runner, state, opts.bake, out)
}

// applyOverrides writes command-line settings into the scene so that both a
// single pass and the preview server see them.
func applyOverrides(sc *scene.Scene, opts options) {
	if opts.tObs != nil {
		sc.Observer.TObs = *opts.tObs
	}
}

func once(ctx context.Context, runner *scene.Runner, state transform.ObservationState, bake bool, out io.Writer) error {
	res, err := runner.Run(ctx, state)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(out)
	defer enc.Close()
	if !bake {
		return enc.Encode(res)
	}

	baked := make(map[string][]physics.Vector3, len(res.Objects))
	for _, op := range res.Objects {
		obj, ok := runner.Scene().Find(op.Name)
		if !ok {
			return fmt.Errorf("object %q vanished from scene", op.Name)
		}
		positions, err := transform.Bake(obj.Rest(), op.Pass)
		if err != nil {
			return fmt.Errorf("object %q: %w", op.Name, err)
		}
		baked[op.Name] = positions
	}
	return enc.Encode(baked)
}

func serve(ctx context.Context, app *injector.App) error {
	if err := app.Server.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	app.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultServerConfig().ShutdownTimeout)
	defer cancel()
	return app.Server.Stop(shutdownCtx)
}
