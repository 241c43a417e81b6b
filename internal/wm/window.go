package wm

import (
	"github.com/pinpox/river-pwm/internal/layout"
	"github.com/pinpox/river-pwm/internal/proto"
)

// State is a window's position in its lifecycle:
// Pending -> Mapped -> {Mapped | Fullscreen} -> Closed.
type State int

const (
	StatePending State = iota
	StateMapped
	StateFullscreen
	StateClosed
)

// Window is the manager's domain view of a compositor-managed window: the
// river_window_v1 proxy plus everything the state machine and layout
// engine need to know about it.
type Window struct {
	proxy *proto.WindowProxy
	id    uint32

	Title string
	AppID string

	State   State
	Urgent  bool
	Floating bool

	// FloatGeom is the geometry the last interactive move or resize left
	// this window at; nil until one has happened. The floating layout
	// reads it as the window's remembered geometry but never writes it.
	FloatGeom *layout.Geometry

	// outputID is the output named by the window's most recent
	// output_enter event. Placement on creation uses the manager's
	// focused output, not this field.
	outputID uint32
}

func newWindow(p *proto.WindowProxy) *Window {
	return &Window{proxy: p, id: p.ID(), State: StatePending}
}

func (w *Window) ID() uint32   { return w.id }
func (w *Window) Mapped() bool { return w.State == StateMapped || w.State == StateFullscreen }

// SetGeometry issues the commit-phase request: position, size, and the
// border tag/color the compositor paints.
func (w *Window) SetGeometry(x, y, width, height int32, border uint32, color uint32) error {
	return w.proxy.SetGeometry(x, y, width, height, border, color)
}

func (w *Window) SetFullscreen(enabled bool) error {
	if enabled {
		w.State = StateFullscreen
	} else if w.State == StateFullscreen {
		w.State = StateMapped
	}
	return w.proxy.SetFullscreen(enabled)
}

func (w *Window) Close() error {
	return w.proxy.Close()
}
