package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/prefab/internal/core/editmode"
	"github.com/zeusync/prefab/internal/core/input"
	"github.com/zeusync/prefab/internal/core/observability/log"
)

func TestDefault_IsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, editmode.DefaultBindings(), c.EditBindings())
	assert.Equal(t, editmode.DefaultTuning(), c.Tuning())
	assert.Equal(t, "assets/prefab.scn.yaml", c.Paths.Scene)
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root: /tmp/project
log:
  level: debug
input:
  multiplier: 0.01
bindings:
  scale: G
assets: [models/cube.gltf]
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/project", c.Root)
	assert.Equal(t, "console", c.Log.Encoding)
	assert.Equal(t, float32(0.01), c.Tuning().Multiplier)
	assert.Equal(t, float32(0.001), c.Tuning().Floor)
	assert.Equal(t, input.KeyG, c.EditBindings().Scale)
	assert.Equal(t, input.KeyT, c.EditBindings().Translate)
	assert.Equal(t, []string{"models/cube.gltf"}, c.Assets)

	opts, err := c.LogOptions()
	require.NoError(t, err)
	assert.Equal(t, log.LevelDebug, opts.Level)
}

func TestLoadYAML_Empty(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadYAML_RejectsUnknownKeys(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("colour: red\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"level":      func(c *Config) { c.Log.Level = "chatty" },
		"encoding":   func(c *Config) { c.Log.Encoding = "xml" },
		"floor":      func(c *Config) { c.Input.Floor = 0 },
		"multiplier": func(c *Config) { c.Input.Multiplier = 0.0001 },
		"steps":      func(c *Config) { c.Input.PixelStep = -1 },
		"path":       func(c *Config) { c.Paths.Bundles = "" },
		"unbound":    func(c *Config) { delete(c.Bindings, ActionCommit) },
		"unknown":    func(c *Config) { c.Bindings["jump"] = input.KeyJ },
		"shared key": func(c *Config) { c.Bindings[ActionAxisX] = input.KeyT },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}
