package wm

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpox/river-pwm/internal/config"
	"github.com/pinpox/river-pwm/internal/proto"
)

func newTestManager() *Manager {
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := New(config.Default(), log)
	out := newOutput(&proto.Output{}, defaultLayouts)
	m.outputs = append(m.outputs, out)
	m.outputsByID[out.ID()] = out
	m.focusedOutput = out
	return m
}

func newTestWindow(m *Manager, out *Output, ws *Workspace) *Window {
	w := newWindow(&proto.WindowProxy{})
	w.State = StateMapped
	ws.Append(w)
	m.windows[w.ID()] = w
	m.windowWS[w] = ws
	m.windowOutput[w] = out
	return w
}

// TestMoveFocusedToWorkspace reproduces moving the focused window on
// workspace 1 to workspace 3: it leaves workspace 1, lands at the tail of
// workspace 3, stays mapped, the active workspace on the output is
// unaffected, and focus on workspace 1 moves to the departed window's
// former neighbor.
func TestMoveFocusedToWorkspace(t *testing.T) {
	m := newTestManager()
	out := m.outputs[0]
	ws1 := out.Workspaces[1]

	a := newTestWindow(m, out, ws1)
	w := newTestWindow(m, out, ws1)
	c := newTestWindow(m, out, ws1)
	ws1.FocusedIndex = 1 // w

	m.moveFocusedToWorkspace(out, ws1, 3)

	assert.Equal(t, []*Window{a, c}, ws1.Windows)
	assert.Equal(t, c, ws1.FocusedWindow(), "focus on ws1 should move to w's former neighbor")
	assert.True(t, w.Mapped())

	ws3 := out.Workspaces[3]
	require.Len(t, ws3.Windows, 1)
	assert.Equal(t, w, ws3.Windows[0])
	assert.Equal(t, ws3, m.windowWS[w])

	assert.Equal(t, 1, out.ActiveWorkspace, "moving a window must not change the active workspace")
}

func TestMoveFocusedToWorkspaceOutOfRangeIsNoop(t *testing.T) {
	m := newTestManager()
	out := m.outputs[0]
	ws1 := out.Workspaces[1]
	w := newTestWindow(m, out, ws1)
	ws1.FocusedIndex = 0

	m.moveFocusedToWorkspace(out, ws1, 0)
	m.moveFocusedToWorkspace(out, ws1, WorkspaceCount+1)

	assert.Equal(t, []*Window{w}, ws1.Windows)
}

// TestOnWindowClosedFixesFocus drives the close-fix rule through the
// manager's own event handler rather than Workspace.Remove directly.
func TestOnWindowClosedFixesFocus(t *testing.T) {
	m := newTestManager()
	out := m.outputs[0]
	ws := out.Workspaces[1]

	a := newTestWindow(m, out, ws)
	b := newTestWindow(m, out, ws)
	c := newTestWindow(m, out, ws)
	ws.FocusedIndex = 1 // b

	m.onWindowClosed(b)
	assert.Equal(t, []*Window{a, c}, ws.Windows)
	assert.Equal(t, c, ws.FocusedWindow())
	assert.Equal(t, StateClosed, b.State)
	_, stillTracked := m.windows[b.ID()]
	assert.False(t, stillTracked)
}

func TestDispatchQuitIgnoresMissingFocusedOutput(t *testing.T) {
	m := New(config.Default(), logrus.New())
	m.running = true
	m.dispatchAction(nil, ActionQuit, 0)
	assert.False(t, m.running)
}

func TestDispatchActionRequiresFocusedOutput(t *testing.T) {
	m := New(config.Default(), logrus.New())
	m.running = true
	// No focused output: anything other than quit must be a no-op, not a
	// panic on a nil out.Active() dereference.
	assert.NotPanics(t, func() {
		m.dispatchAction(nil, ActionFocusNext, 0)
	})
	assert.True(t, m.running)
}
