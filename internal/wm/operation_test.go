package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpox/river-pwm/internal/layout"
	"github.com/pinpox/river-pwm/internal/proto"
)

func opTestWindow() *Window {
	return newWindow(&proto.WindowProxy{})
}

func TestStartMoveRejectsSecondOperationOnSameSeat(t *testing.T) {
	om := newOperationManager()
	w1, w2 := opTestWindow(), opTestWindow()

	require.True(t, om.StartMove(1, w1))
	assert.False(t, om.StartMove(1, w2), "a seat may only drive one operation at a time")
	assert.True(t, om.Active(1))
}

func TestStartMoveAndResizeMarkWindowFloating(t *testing.T) {
	om := newOperationManager()
	w1, w2 := opTestWindow(), opTestWindow()

	require.False(t, w1.Floating)
	om.StartMove(1, w1)
	assert.True(t, w1.Floating, "a window under an interactive move must leave the tiling layout")

	require.False(t, w2.Floating)
	om.StartResize(2, w2, EdgeRight)
	assert.True(t, w2.Floating, "a window under an interactive resize must leave the tiling layout")
}

func TestHandleDeltaMove(t *testing.T) {
	om := newOperationManager()
	w := opTestWindow()
	w.FloatGeom = nil
	om.StartMove(1, w)

	om.HandleDelta(1, 10, -5)
	require.NotNil(t, w.FloatGeom)
	assert.Equal(t, 10, w.FloatGeom.X)
	assert.Equal(t, -5, w.FloatGeom.Y)
}

func TestHandleDeltaResizeClampsToFloor(t *testing.T) {
	om := newOperationManager()
	w := opTestWindow()
	om.StartResize(1, w, EdgeRight|EdgeBottom)

	// Shrinking far past the floor must clamp at minResizeDim rather than
	// go negative or below the floor.
	om.HandleDelta(1, -10000, -10000)
	require.NotNil(t, w.FloatGeom)
	assert.Equal(t, minResizeDim, w.FloatGeom.W)
	assert.Equal(t, minResizeDim, w.FloatGeom.H)
}

func TestHandleDeltaResizeLeftEdgeMovesOrigin(t *testing.T) {
	om := newOperationManager()
	w := opTestWindow()
	w.FloatGeom = &layout.Geometry{X: 100, Y: 100, W: 400, H: 300}
	om.StartResize(1, w, EdgeLeft)

	om.HandleDelta(1, -20, 0)
	require.NotNil(t, w.FloatGeom)
	assert.Equal(t, 420, w.FloatGeom.W)
	assert.Equal(t, 80, w.FloatGeom.X, "dragging the left edge outward must shift the origin left")
}

func TestEndForOnlyEndsMatchingWindow(t *testing.T) {
	om := newOperationManager()
	w1, w2 := opTestWindow(), opTestWindow()
	om.StartMove(1, w1)
	om.StartMove(2, w2)

	om.EndFor(w1)
	assert.False(t, om.Active(1))
	assert.True(t, om.Active(2))
}
