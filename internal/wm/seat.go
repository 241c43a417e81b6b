package wm

import (
	"github.com/pinpox/river-pwm/internal/proto"
	"github.com/pinpox/river-pwm/internal/wire"
)

// Seat pairs a bound wl_seat with the keyboard/pointer objects its
// capability event advertised, the xkb bindings registered on it, and the
// pointer-gesture state the interactive move/resize operations need.
type Seat struct {
	mgr   *Manager
	proxy *proto.Seat
	id    uint32

	keyboard *proto.Keyboard
	pointer  *proto.Pointer

	bindingObjs     []*proto.XkbBinding
	pointerBindings []PointerBinding

	pointerX, pointerY  int
	pointerFocusSurface uint32
}

func newSeat(mgr *Manager, p *proto.Seat) *Seat {
	s := &Seat{mgr: mgr, proxy: p, id: p.ID()}
	p.OnCapabilities = s.onCapabilities
	return s
}

func (s *Seat) ID() uint32 { return s.id }

// onCapabilities lazily acquires the keyboard/pointer objects the seat's
// capability bitmask advertises. The xkb-bindings extension, not
// wl_keyboard, is the channel key chords arrive on; the keyboard object
// here is kept only for completeness (focus tracking, diagnostics).
func (s *Seat) onCapabilities(caps uint32) {
	if caps&proto.SeatCapKeyboard != 0 && s.keyboard == nil {
		kb, err := s.proxy.GetKeyboard()
		if err == nil {
			s.keyboard = kb
		}
	}
	if caps&proto.SeatCapPointer != 0 && s.pointer == nil {
		p, err := s.proxy.GetPointer()
		if err == nil {
			s.pointer = p
			p.OnEnter = s.onPointerEnter
			p.OnMotion = s.onPointerMotion
			p.OnButton = s.onPointerButton
		}
	}
}

func (s *Seat) onPointerEnter(serial, surface uint32, x, y wire.Fixed) {
	s.pointerFocusSurface = surface
	s.pointerX = int(x.Float64())
	s.pointerY = int(y.Float64())
}

func (s *Seat) onPointerMotion(timeMS uint32, x, y wire.Fixed) {
	nx, ny := int(x.Float64()), int(y.Float64())
	if s.mgr != nil && s.mgr.operations.Active(s.id) {
		// pointerX/pointerY stay at the gesture's starting position while
		// an operation runs, so the delta is measured from that start.
		s.mgr.operations.HandleDelta(s.id, nx-s.pointerX, ny-s.pointerY)
		s.mgr.markFocusedWorkspaceDirty(s)
		return
	}
	s.pointerX, s.pointerY = nx, ny
}

// onPointerButton starts or ends the interactive move/resize gesture bound
// to the pressed button, per s.pointerBindings. Button state 1 is pressed,
// 0 is released (mirroring wl_pointer.button_state). The modifier mask on
// a PointerBinding is not checked here: unlike key chords, which the
// xkb-bindings extension matches against held modifiers server-side,
// gesture buttons reach the client raw, so every pointer binding on a seat
// is expected to use a distinct button rather than overlapping on modifier.
func (s *Seat) onPointerButton(serial, timeMS, button, state uint32) {
	if s.mgr == nil {
		return
	}
	if state == 0 {
		s.mgr.operations.End(s.id)
		return
	}
	w := s.mgr.focusedWindowForSeat(s)
	if w == nil {
		return
	}
	for _, pb := range s.pointerBindings {
		if pb.Button != button {
			continue
		}
		switch pb.Action {
		case ActionPointerMove:
			s.mgr.operations.StartMove(s.id, w)
		case ActionPointerResize:
			s.mgr.operations.StartResize(s.id, w, EdgeRight|EdgeBottom)
		}
		return
	}
}

// registerBindings installs the default key and pointer bindings on this
// seat, replacing any previously registered set.
func (s *Seat) registerBindings(xkbMgr *proto.XkbBindingManager, bindings *BindingManager, pointerBindings []PointerBinding) {
	for _, old := range s.bindingObjs {
		old.Destroy()
	}
	s.bindingObjs = nil
	bindings.Forget(s.id)
	s.pointerBindings = pointerBindings

	for _, b := range DefaultBindings(s.mgr.cfg.Modifier) {
		bindings.Register(s.id, b)
		action := b.Action
		wsIndex := b.WorkspaceIndex
		obj, err := xkbMgr.GetBinding(s.id, uint32(b.Mods), b.Keysym,
			func() { s.mgr.dispatchAction(s, action, wsIndex) },
			nil,
		)
		if err == nil {
			s.bindingObjs = append(s.bindingObjs, obj)
		}
	}
}
