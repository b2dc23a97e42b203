package editor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/prefab/internal/core/components"
	"github.com/zeusync/prefab/internal/core/editmode"
	"github.com/zeusync/prefab/internal/core/library"
	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/scene"
)

const moveScript = `
- spawn: LightComponents
- select: [0]
  frame:
    pressed: [T, T]
- frame:
    pressed: [X]
    motion: [[250, 0]]
- frame:
    pressed: [Return]
`

func TestRun_Script(t *testing.T) {
	f := newFixture(t)
	steps, err := DecodeScript(strings.NewReader(moveScript))
	require.NoError(t, err)
	require.Len(t, steps, 4)

	require.NoError(t, f.editor.Run(context.Background(), steps))

	tr := f.runtimeTransform(t, 0)
	assert.InDelta(t, 0.25, tr.Translation.X(), 1e-5)
	assert.Equal(t, float32(0), tr.Translation.Y())
	assert.Equal(t, editmode.Idle(), f.editor.Machine().Mode())
}

func TestRun_ContinuesPastFailures(t *testing.T) {
	f := newFixture(t)
	steps := []Step{
		{Spawn: "Nope"},
		{Select: []models.EntityID{7}},
		{Spawn: components.LightBundle},
	}
	err := f.editor.Run(context.Background(), steps)
	assert.ErrorIs(t, err, library.ErrTemplateNotFound)
	assert.ErrorIs(t, err, scene.ErrEntityNotFound)
	assert.Equal(t, 1, f.editor.Engine().Document().Len())
}

func TestRun_StopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := f.editor.Run(ctx, []Step{{Spawn: components.LightBundle}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.editor.Engine().Document().Len())
}

func TestDecodeScript_RejectsUnknownFields(t *testing.T) {
	_, err := DecodeScript(strings.NewReader("- jump: true\n"))
	assert.Error(t, err)
}
