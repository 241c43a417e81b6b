package proto

import (
	"github.com/pkg/errors"

	"github.com/pinpox/river-pwm/internal/wire"
)

// Window state bits carried by river_window_v1.state.
const (
	WindowStateMapped     uint32 = 1 << 0
	WindowStateFullscreen uint32 = 1 << 1
	WindowStateUrgent     uint32 = 1 << 2
)

// Border tags accepted by river_window_v1.set_geometry.
const (
	BorderNone uint32 = iota
	BorderNormal
	BorderFocused
	BorderUrgent
)

// WindowManager is the zriver_window_management_v1 global. It announces
// every window the compositor maps via OnWindow; the manager core wires
// each announced WindowProxy into its own wm.Window.
type WindowManager struct {
	ctx *Context
	id  uint32

	OnWindow func(w *WindowProxy)
}

func BindWindowManager(ctx *Context) (*WindowManager, error) {
	m := &WindowManager{ctx: ctx}
	id, err := ctx.Bind("zriver_window_management_v1", riverWindowManagerDesc, m.dispatch)
	if err != nil {
		return nil, err
	}
	m.id = id
	return m, nil
}

func (m *WindowManager) dispatch(opcode uint16, args []wire.Arg) {
	if opcode != 0 {
		return
	}
	id := args[0].Uint
	w := &WindowProxy{ctx: m.ctx, id: id}
	m.ctx.objects[id] = &entry{
		obj:      objectBase{id: id, iface: "river_window_v1"},
		desc:     riverWindowDesc,
		dispatch: w.dispatch,
	}
	if m.OnWindow != nil {
		m.OnWindow(w)
	}
}

// WindowProxy mirrors a single compositor-managed window: title/app_id
// updates and lifecycle arrive as events, geometry/fullscreen/close are
// the requests the commit phase and user actions issue.
type WindowProxy struct {
	ctx *Context
	id  uint32

	OnTitle      func(title string)
	OnAppID      func(appID string)
	OnState      func(state uint32)
	OnOutputEnter func(outputID uint32)
	OnClosed     func()
}

func (w *WindowProxy) ID() uint32        { return w.id }
func (w *WindowProxy) Interface() string { return "river_window_v1" }

func (w *WindowProxy) dispatch(opcode uint16, args []wire.Arg) {
	switch opcode {
	case 0:
		if w.OnTitle != nil {
			w.OnTitle(args[0].String)
		}
	case 1:
		if w.OnAppID != nil {
			w.OnAppID(args[0].String)
		}
	case 2:
		if w.OnState != nil {
			w.OnState(args[0].Uint)
		}
	case 3:
		if w.OnOutputEnter != nil {
			w.OnOutputEnter(args[0].Uint)
		}
	case 4:
		if w.OnClosed != nil {
			w.OnClosed()
		}
		w.ctx.Destroy(w.id)
	}
}

// SetGeometry is the commit-phase request: position, size, and a border
// tag/color the compositor paints around the window.
func (w *WindowProxy) SetGeometry(x, y, width, height int32, border uint32, color uint32) error {
	return w.ctx.send(w.id, 0, []wire.Arg{
		wire.Int(x), wire.Int(y), wire.Int(width), wire.Int(height), wire.Uint(border), wire.Uint(color),
	})
}

func (w *WindowProxy) SetFullscreen(enabled bool) error {
	var v uint32
	if enabled {
		v = 1
	}
	return w.ctx.send(w.id, 1, []wire.Arg{wire.Uint(v)})
}

func (w *WindowProxy) Close() error {
	return w.ctx.send(w.id, 2, nil)
}

func (w *WindowProxy) Destroy() error {
	w.ctx.Destroy(w.id)
	return w.ctx.send(w.id, 3, nil)
}

// XkbBindingManager is the river_xkb_bindings_v1 global: it mints one
// XkbBinding object per (seat, modifier mask, keysym) the caller asks for.
type XkbBindingManager struct {
	ctx *Context
	id  uint32
}

func BindXkbBindingManager(ctx *Context) (*XkbBindingManager, error) {
	id, err := ctx.Bind("river_xkb_bindings_v1", riverXkbBindingManagerDesc, nil)
	if err != nil {
		return nil, err
	}
	return &XkbBindingManager{ctx: ctx, id: id}, nil
}

// GetBinding registers a binding for (seatID, mods, keysym). At most one
// binding may exist for a given (mods, keysym) pair on a seat;
// re-registering replaces the previous binding at the compositor. Callers
// are responsible for destroying a stale binding before requesting its
// replacement.
func (m *XkbBindingManager) GetBinding(seatID uint32, mods uint32, keysym uint32, onPressed, onReleased func()) (*XkbBinding, error) {
	b := &XkbBinding{ctx: m.ctx, OnPressed: onPressed, OnReleased: onReleased}
	b.id = m.ctx.register("river_xkb_binding_v1", riverXkbBindingDesc, b.dispatch)
	err := m.ctx.send(m.id, 0, []wire.Arg{
		wire.NewID(b.id), wire.Object(seatID), wire.Uint(mods), wire.Uint(keysym),
	})
	if err != nil {
		return nil, errors.Wrap(err, "river_xkb_bindings_v1.get_binding")
	}
	return b, nil
}

func (m *XkbBindingManager) Destroy() error {
	m.ctx.Destroy(m.id)
	return m.ctx.send(m.id, 1, nil)
}

// XkbBinding fires OnPressed/OnReleased when the compositor observes the
// bound chord on its seat.
type XkbBinding struct {
	ctx *Context
	id  uint32

	OnPressed  func()
	OnReleased func()
}

func (b *XkbBinding) ID() uint32 { return b.id }

func (b *XkbBinding) dispatch(opcode uint16, _ []wire.Arg) {
	switch opcode {
	case 0:
		if b.OnPressed != nil {
			b.OnPressed()
		}
	case 1:
		if b.OnReleased != nil {
			b.OnReleased()
		}
	}
}

func (b *XkbBinding) Destroy() error {
	b.ctx.Destroy(b.id)
	return b.ctx.send(b.id, 0, nil)
}
