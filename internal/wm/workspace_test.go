package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpox/river-pwm/internal/layout"
	"github.com/pinpox/river-pwm/internal/proto"
)

// mappedWindow builds a Window backed by a zero-value WindowProxy: good
// enough for workspace bookkeeping tests, which never issue a request on
// the proxy, only inspect State.
func mappedWindow() *Window {
	w := newWindow(&proto.WindowProxy{})
	w.State = StateMapped
	return w
}

// TestFocusFixAfterClose reproduces the close-fix sequence: [A,B,C] focus=B,
// close B -> [A,C] focus=C, close C -> [A] focus=A, close A -> [] focus=None.
func TestFocusFixAfterClose(t *testing.T) {
	ws := newWorkspace(1, nil)
	a, b, c := mappedWindow(), mappedWindow(), mappedWindow()
	ws.Append(a)
	ws.Append(b)
	ws.Append(c)
	ws.FocusedIndex = 1 // B

	ws.Remove(b)
	require.Equal(t, []*Window{a, c}, ws.Windows)
	assert.Equal(t, c, ws.FocusedWindow())

	ws.Remove(c)
	require.Equal(t, []*Window{a}, ws.Windows)
	assert.Equal(t, a, ws.FocusedWindow())

	ws.Remove(a)
	require.Empty(t, ws.Windows)
	assert.Nil(t, ws.FocusedWindow())
	assert.Equal(t, -1, ws.FocusedIndex)
}

// TestRemoveNonFocusedShiftsIndex covers the branch where the removed
// window sits before the focused one in sequence order.
func TestRemoveNonFocusedShiftsIndex(t *testing.T) {
	ws := newWorkspace(1, nil)
	a, b, c := mappedWindow(), mappedWindow(), mappedWindow()
	ws.Append(a)
	ws.Append(b)
	ws.Append(c)
	ws.FocusedIndex = 2 // C

	ws.Remove(a)
	require.Equal(t, []*Window{b, c}, ws.Windows)
	assert.Equal(t, c, ws.FocusedWindow())
}

// TestLayoutCycleDeterminism reproduces cycling forward seven times from a
// six-layout set lands on index 1, and cycling backward once from index 0
// lands on index 5.
func TestLayoutCycleDeterminism(t *testing.T) {
	layouts := []layout.Kind{
		layout.TileRight, layout.TileBottom, layout.Monocle,
		layout.Grid, layout.CenteredMaster, layout.Floating,
	}
	ws := newWorkspace(1, layouts)
	for i := 0; i < 7; i++ {
		ws.CycleLayout(1)
	}
	assert.Equal(t, 1, ws.LayoutIndex)

	ws2 := newWorkspace(1, layouts)
	ws2.CycleLayout(-1)
	assert.Equal(t, 5, ws2.LayoutIndex)
}

func TestRotateFocusWraps(t *testing.T) {
	ws := newWorkspace(1, nil)
	a, b, c := mappedWindow(), mappedWindow(), mappedWindow()
	ws.Append(a)
	ws.Append(b)
	ws.Append(c)
	ws.FocusedIndex = 2

	ws.focusNext()
	assert.Equal(t, 0, ws.FocusedIndex)

	ws.focusPrev()
	assert.Equal(t, 2, ws.FocusedIndex)
}

// TestMappedForLayoutExcludesFloating reproduces a workspace holding one
// tiled and one floating window: the tiling input sequence must contain
// only the tiled one, and floatingForLayout only the floating one.
func TestMappedForLayoutExcludesFloating(t *testing.T) {
	ws := newWorkspace(1, nil)
	tiled, floater := mappedWindow(), mappedWindow()
	floater.Floating = true
	ws.Append(tiled)
	ws.Append(floater)

	assert.Equal(t, []*Window{tiled}, ws.mappedForLayout())
	assert.Equal(t, []*Window{floater}, ws.floatingForLayout())
}

func TestPromoteToMaster(t *testing.T) {
	ws := newWorkspace(1, nil)
	a, b, c := mappedWindow(), mappedWindow(), mappedWindow()
	ws.Append(a)
	ws.Append(b)
	ws.Append(c)
	ws.FocusedIndex = 2 // C

	ws.promoteToMaster()
	assert.Equal(t, []*Window{c, a, b}, ws.Windows)
	assert.Equal(t, 0, ws.FocusedIndex)
}
