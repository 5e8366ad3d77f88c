package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/srtransform/internal/core/scene"
	"github.com/zeusync/srtransform/internal/injector"
	"github.com/zeusync/srtransform/internal/core/systems/physics"
)

const cliScene = `
observer:
  tobs: 10
objects:
  - name: probe
    velocity: {x: 0.6, y: 0, z: 0}
    vertices:
      - [0, 0, 0]
log:
  level: error
`

func writeScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cliScene), 0o600))
	return path
}

func TestParseFlags(t *testing.T) {
	_, err := parseFlags(nil)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-scene", "a.yaml", "-tobs", "soon"})
	assert.Error(t, err)

	opts, err := parseFlags([]string{"-scene", "a.yaml", "-tobs", "2.5", "-bake"})
	require.NoError(t, err)
	assert.Equal(t, "a.yaml", opts.scenePath)
	require.NotNil(t, opts.tObs)
	assert.Equal(t, 2.5, *opts.tObs)
	assert.True(t, opts.bake)
	assert.False(t, opts.serve)
}

func TestRunPrintsPass(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(options{scenePath: writeScene(t)}, &out))

	var res scene.Result
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &res))
	require.Len(t, res.Objects, 1)
	assert.Equal(t, "probe", res.Objects[0].Name)
	assert.InDelta(t, 3.75, res.Objects[0].Pass.Vertices[0].Position.X, 1e-9)
}

func TestRunBake(t *testing.T) {
	tObs := 0.0
	var out bytes.Buffer
	require.NoError(t, run(options{scenePath: writeScene(t), tObs: &tObs, bake: true, logLevel: "debug"}, &out))

	var baked map[string][]physics.Vector3
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &baked))
	require.Len(t, baked["probe"], 1)
	assert.Equal(t, physics.Zero, baked["probe"][0])
}

func TestRunErrors(t *testing.T) {
	assert.Error(t, run(options{scenePath: filepath.Join(t.TempDir(), "missing.yaml")}, &bytes.Buffer{}))
	assert.Error(t, run(options{scenePath: writeScene(t), logLevel: "loud"}, &bytes.Buffer{}))

	nan, err := parseFlags([]string{"-scene", writeScene(t), "-tobs", "NaN"})
	require.NoError(t, err)
	assert.ErrorIs(t, run(nan, &bytes.Buffer{}), scene.ErrInvalidScene)
}

func TestObservationTimeOverrideReachesServer(t *testing.T) {
	sc, err := scene.LoadFile(writeScene(t))
	require.NoError(t, err)
	tObs := 42.0
	applyOverrides(sc, options{tObs: &tObs, serve: true})
	assert.Equal(t, 42.0, sc.Observer.State().ObservationTime)

	app, err := injector.InitializeApp(sc)
	require.NoError(t, err)
	assert.Equal(t, 42.0, app.Runner.Scene().Observer.TObs)

	applyOverrides(sc, options{})
	assert.Equal(t, 42.0, sc.Observer.TObs, "no flag leaves the scene alone")
}

func TestRunOverridesObservationTime(t *testing.T) {
	tObs := 0.0
	var out bytes.Buffer
	require.NoError(t, run(options{scenePath: writeScene(t), tObs: &tObs}, &out))

	var res scene.Result
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, 0.0, res.State.ObservationTime)
}
