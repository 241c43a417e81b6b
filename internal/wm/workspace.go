package wm

import "github.com/pinpox/river-pwm/internal/layout"

// Workspace holds the ordered window list for one of an output's nine
// slots, its focus index, and the layout it is currently using.
type Workspace struct {
	Index int // 1..9

	Windows      []*Window
	FocusedIndex int // -1 when empty

	Layouts     []layout.Kind // the configured, cyclable subset
	LayoutIndex int

	dirty bool // set when the commit phase needs to recompute this workspace
}

func newWorkspace(index int, layouts []layout.Kind) *Workspace {
	return &Workspace{Index: index, Layouts: layouts, FocusedIndex: -1}
}

// CurrentLayout returns the layout kind this workspace is presently using.
func (ws *Workspace) CurrentLayout() layout.Kind {
	if len(ws.Layouts) == 0 {
		return layout.TileRight
	}
	return ws.Layouts[ws.LayoutIndex]
}

func (ws *Workspace) CycleLayout(delta int) {
	ws.LayoutIndex = layout.Cycle(ws.LayoutIndex, delta, len(ws.Layouts))
	ws.dirty = true
}

// FocusedWindow returns the workspace's focused window, or nil.
func (ws *Workspace) FocusedWindow() *Window {
	if ws.FocusedIndex < 0 || ws.FocusedIndex >= len(ws.Windows) {
		return nil
	}
	return ws.Windows[ws.FocusedIndex]
}

// indexOf returns the position of w in Windows, or -1.
func (ws *Workspace) indexOf(w *Window) int {
	for i, x := range ws.Windows {
		if x == w {
			return i
		}
	}
	return -1
}

// Append adds w to the end of the window list.
func (ws *Workspace) Append(w *Window) {
	ws.Windows = append(ws.Windows, w)
	ws.dirty = true
}

// Remove deletes w from the window list. The next sibling becomes focused;
// wrapping never occurs on removal (unlike focus_next/prev's rotation) —
// the sibling that was already "next" in sequence is chosen, or the new
// tail if w was last.
func (ws *Workspace) Remove(w *Window) {
	i := ws.indexOf(w)
	if i < 0 {
		return
	}
	wasFocused := ws.FocusedIndex == i
	ws.Windows = append(ws.Windows[:i], ws.Windows[i+1:]...)
	ws.dirty = true

	switch {
	case len(ws.Windows) == 0:
		ws.FocusedIndex = -1
	case !wasFocused:
		if ws.FocusedIndex > i {
			ws.FocusedIndex--
		}
	default:
		if i >= len(ws.Windows) {
			ws.FocusedIndex = len(ws.Windows) - 1
		} else {
			ws.FocusedIndex = i
		}
	}
}

// mappedForLayout returns the subset of Windows that are mapped, not
// fullscreen, and not floating — the tiling layout engine's input
// sequence. A floating window keeps whatever geometry its own FloatGeom
// carries instead of being placed by the workspace's tiling algorithm.
func (ws *Workspace) mappedForLayout() []*Window {
	out := make([]*Window, 0, len(ws.Windows))
	for _, w := range ws.Windows {
		if w.State == StateMapped && !w.Floating {
			out = append(out, w)
		}
	}
	return out
}

// floatingForLayout returns the subset of Windows that are mapped and
// floating, the windows commitWorkspace positions directly from FloatGeom
// instead of feeding into the tiling algorithm.
func (ws *Workspace) floatingForLayout() []*Window {
	out := make([]*Window, 0)
	for _, w := range ws.Windows {
		if w.State == StateMapped && w.Floating {
			out = append(out, w)
		}
	}
	return out
}

// focusNext/focusPrev rotate FocusedIndex within the mapped window list,
// wrapping around either end.
func (ws *Workspace) focusNext() { ws.rotateFocus(1) }
func (ws *Workspace) focusPrev() { ws.rotateFocus(-1) }

func (ws *Workspace) rotateFocus(delta int) {
	if len(ws.Windows) == 0 {
		ws.FocusedIndex = -1
		return
	}
	n := len(ws.Windows)
	if ws.FocusedIndex < 0 {
		for i, w := range ws.Windows {
			if w.Mapped() {
				ws.FocusedIndex = i
				return
			}
		}
		return
	}
	for step := 1; step <= n; step++ {
		idx := ((ws.FocusedIndex+delta*step)%n + n) % n
		if ws.Windows[idx].Mapped() {
			ws.FocusedIndex = idx
			return
		}
	}
}

// swapWithNeighbor exchanges the focused window with its sequence
// neighbor delta positions away, without wrapping past the ends.
func (ws *Workspace) swapWithNeighbor(delta int) {
	i := ws.FocusedIndex
	if i < 0 {
		return
	}
	j := i + delta
	if j < 0 || j >= len(ws.Windows) {
		return
	}
	ws.Windows[i], ws.Windows[j] = ws.Windows[j], ws.Windows[i]
	ws.FocusedIndex = j
	ws.dirty = true
}

// promoteToMaster moves the focused window to index 0.
func (ws *Workspace) promoteToMaster() {
	i := ws.FocusedIndex
	if i <= 0 || i >= len(ws.Windows) {
		return
	}
	w := ws.Windows[i]
	ws.Windows = append(ws.Windows[:i], ws.Windows[i+1:]...)
	ws.Windows = append([]*Window{w}, ws.Windows...)
	ws.FocusedIndex = 0
	ws.dirty = true
}
