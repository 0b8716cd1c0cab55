package core

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierReuse(t *testing.T) {
	a := IdentifierAquireNewID("a")
	b := IdentifierAquireNewID("b")
	assert.NotEqual(t, a, b)

	require.NoError(t, IdentifierReleaseID(a))
	c := IdentifierAquireNewID("c")
	assert.Equal(t, a, c)

	assert.Error(t, IdentifierReleaseID(1<<30))
	require.NoError(t, IdentifierReleaseID(b))
	require.NoError(t, IdentifierReleaseID(c))
}

func TestAssertPanics(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	assert.NotPanics(t, func() { Assert(true, "fine") })
	assert.Panics(t, func() { Assert(false, "context %d", 3) })
	assert.Contains(t, buf.String(), "context 3")
}

func TestSetLogLevel(t *testing.T) {
	require.NoError(t, SetLogLevel("warn"))
	assert.Error(t, SetLogLevel("loud"))
	require.NoError(t, SetLogLevel("info"))
}

func TestRenderInfoReset(t *testing.T) {
	ri := RenderInfo{DrawCalls: 4, StateChanges: 2}
	ri.Reset()
	assert.Equal(t, uint64(1), ri.Frame)
	assert.Zero(t, ri.DrawCalls)
	assert.Zero(t, ri.StateChanges)
}

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	assert.Zero(t, c.Elapsed())

	c.Start()
	time.Sleep(5 * time.Millisecond)
	c.Update()
	elapsed := c.Elapsed()
	assert.Greater(t, elapsed, 0.004)
	assert.Less(t, elapsed, 5.0)

	c.Stop()
	time.Sleep(2 * time.Millisecond)
	c.Update()
	assert.Equal(t, elapsed, c.Elapsed())
}

func TestMetricsAverageAndFPS(t *testing.T) {
	require.NoError(t, MetricsInitialize())
	for i := 0; i < int(AVG_COUNT)*3; i++ {
		MetricsUpdate(1.0 / 60.0)
	}
	fps, ms := MetricsFrame()
	assert.InDelta(t, 16.67, ms, 0.01)
	assert.InDelta(t, 60, fps, 2)
}
