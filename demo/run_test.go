package demo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gekko "github.com/gekko3d/firstshape"
)

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	r := &Runner{
		Stdout: &stdout,
		Stderr: &stderr,
		Logger: gekko.NewNopLogger(),
		CreateWindow: func(*gekko.WindowTraits) (*gekko.WindowState, error) {
			t.Fatal("window must not be created")
			return nil, nil
		},
		Rand: newRand(),
	}
	return r, &stdout, &stderr
}

func TestRun_ArgumentErrors(t *testing.T) {
	r, stdout, stderr := newTestRunner(t)

	code := r.Run(context.Background(), []string{"-n", "ten"})
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), `-n: invalid unsigned integer "ten"`)
	assert.Empty(t, stdout.String())
}

func TestRun_UnknownOption(t *testing.T) {
	r, _, stderr := newTestRunner(t)

	assert.Equal(t, 1, r.Run(context.Background(), []string{"--nope"}))
	assert.Contains(t, stderr.String(), "unknown option --nope")
}

func TestRun_WritesSceneWithoutWindow(t *testing.T) {
	r, stdout, _ := newTestRunner(t)
	out := filepath.Join(t.TempDir(), "scene.json")

	code := r.Run(context.Background(), []string{"-n", "10", "--billboard", "--cull", "-o", out})
	require.Equal(t, 0, code)
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "gekko-scene/1", doc["format"])
}

func TestRun_WritesYAMLAndTOML(t *testing.T) {
	for _, name := range []string{"scene.yaml", "scene.toml"} {
		r, _, _ := newTestRunner(t)
		out := filepath.Join(t.TempDir(), name)
		require.Equal(t, 0, r.Run(context.Background(), []string{"--ubvec4-colors", "-n", "3", "-o", out}), name)
		assert.FileExists(t, out)
	}
}

func TestRun_UnsupportedOutputFormat(t *testing.T) {
	r, _, _ := newTestRunner(t)
	out := filepath.Join(t.TempDir(), "scene.abc")

	assert.Equal(t, 1, r.Run(context.Background(), []string{"-o", out}))
	assert.NoFileExists(t, out)
}

func TestRun_MissingImageStillWrites(t *testing.T) {
	r, _, _ := newTestRunner(t)
	out := filepath.Join(t.TempDir(), "scene.json")

	code := r.Run(context.Background(), []string{"-i", "missing.png", "--dm", "missing.tga", "-o", out})
	assert.Equal(t, 0, code)
	assert.FileExists(t, out)
}

func TestRun_WindowFailure(t *testing.T) {
	r, stdout, _ := newTestRunner(t)
	var requested *gekko.WindowTraits
	r.CreateWindow = func(traits *gekko.WindowTraits) (*gekko.WindowState, error) {
		requested = traits
		return nil, errors.New("no display")
	}

	code := r.Run(context.Background(), []string{"-t"})
	assert.Equal(t, 1, code)
	assert.Equal(t, "Could not create window.\n", stdout.String())
	require.NotNil(t, requested)
	assert.Equal(t, 192, requested.Width)
	assert.Equal(t, WindowTitle, requested.Title)
}

func TestRun_CustomMaterialLogged(t *testing.T) {
	var logs bytes.Buffer
	r, _, _ := newTestRunner(t)
	r.Logger = gekko.NewDefaultLoggerTo(&logs, "", false)
	out := filepath.Join(t.TempDir(), "scene.json")

	code := r.Run(context.Background(), []string{"--specular", "1", "1", "1", "1", "--diffuse", "1", "0", "0", "1", "-o", out})
	require.Equal(t, 0, code)
	assert.Contains(t, logs.String(), "specular = [1 1 1 1]")
	assert.Contains(t, logs.String(), "diffuse = [1 0 0 1]")
	assert.Contains(t, logs.String(), "using custom material")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"diffuse": [`)
}
