package log

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": LevelDebug, "INFO": LevelInfo, "": LevelInfo, "warning": LevelWarn, "error": LevelError}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLogger_WritesStructuredFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.log")
	l, err := New(Options{Level: LevelInfo, Encoding: "json", Output: []string{path}})
	require.NoError(t, err)

	l.Debug("hidden")
	l.With(String("component", "scene")).Warn("patch failed",
		Uint32("entity", 3), Error(errors.New("boom")), Bool("fatal", false))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "patch failed", entry["msg"])
	assert.Equal(t, "scene", entry["component"])
	assert.Equal(t, float64(3), entry["entity"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, LevelInfo, l.Level())
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("ignored", Any("k", 1))
	assert.NotNil(t, l.With(Int("n", 1)))
}
