package testbed

import (
	"testing"

	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridLines(t *testing.T) {
	grid := gridLines(4, 0.5)
	position := grid.Geometry.Attribute(resources.AttributePosition)
	require.NotNil(t, position)
	// Two segments per step, two vertices per segment.
	assert.Equal(t, 5*4, position.Count())
	assert.Nil(t, grid.Geometry.Index())

	floats := position.Floats()
	assert.Equal(t, float32(-1), floats[0])
	assert.Equal(t, float32(1), floats[3])
}

func TestNewTestGameWiresCallbacks(t *testing.T) {
	g := NewTestGame(nil)
	require.NotNil(t, g.Config)
	assert.Equal(t, "Vista Testbed", g.Config.Application.Name)
	assert.NoError(t, g.Config.Validate())
	assert.NotNil(t, g.FnInitialize)
	assert.NotNil(t, g.FnUpdate)
	assert.NotNil(t, g.FnRender)
	assert.NotNil(t, g.FnOnResize)
	assert.NotNil(t, g.FnShutdown)

	state := g.State.(*gameState)
	state.WorldCamera = scene.NewPerspectiveCamera(60, 1, 0.1, 100)
	require.NoError(t, g.OnResize(1920, 1080))
	assert.Equal(t, int32(1920), state.width)
	assert.NoError(t, g.Shutdown())
}
