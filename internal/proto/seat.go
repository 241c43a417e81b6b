package proto

import "github.com/pinpox/river-pwm/internal/wire"

// Seat capability bits carried by wl_seat.capabilities.
const (
	SeatCapPointer  uint32 = 1 << 0
	SeatCapKeyboard uint32 = 1 << 1
	SeatCapTouch    uint32 = 1 << 2
)

// Output is the wl_output wrapper: geometry and mode events arrive as a
// burst terminated by Done, per the interface's own convention.
type Output struct {
	ctx *Context
	id  uint32

	OnGeometry func(x, y, physW, physH, subpixel int32, make_, model string, transform int32)
	OnMode     func(flags uint32, width, height, refresh int32)
	OnDone     func()
	OnScale    func(factor int32)
	OnName     func(name string)
}

func (o *Output) ID() uint32        { return o.id }
func (o *Output) Interface() string { return "wl_output" }

func (o *Output) dispatch(opcode uint16, args []wire.Arg) {
	switch opcode {
	case 0:
		if o.OnGeometry != nil {
			o.OnGeometry(args[0].Int, args[1].Int, args[2].Int, args[3].Int, args[4].Int, args[5].String, args[6].String, args[7].Int)
		}
	case 1:
		if o.OnMode != nil {
			o.OnMode(args[0].Uint, args[1].Int, args[2].Int, args[3].Int)
		}
	case 2:
		if o.OnDone != nil {
			o.OnDone()
		}
	case 3:
		if o.OnScale != nil {
			o.OnScale(args[0].Int)
		}
	case 4:
		if o.OnName != nil {
			o.OnName(args[0].String)
		}
	}
}

// BindOutputIndex binds the i'th advertised wl_output.
func BindOutputIndex(ctx *Context, i int) (*Output, error) {
	o := &Output{ctx: ctx}
	id, err := ctx.BindIndex("wl_output", outputDesc, i, o.dispatch)
	if err != nil {
		return nil, err
	}
	o.id = id
	return o, nil
}

// Seat is the wl_seat wrapper: its capability event tells the caller which
// of GetPointer/GetKeyboard make sense to issue.
type Seat struct {
	ctx *Context
	id  uint32

	OnCapabilities func(caps uint32)
	OnName         func(name string)
}

func (s *Seat) ID() uint32        { return s.id }
func (s *Seat) Interface() string { return "wl_seat" }

func (s *Seat) dispatch(opcode uint16, args []wire.Arg) {
	switch opcode {
	case 0:
		if s.OnCapabilities != nil {
			s.OnCapabilities(args[0].Uint)
		}
	case 1:
		if s.OnName != nil {
			s.OnName(args[0].String)
		}
	}
}

func BindSeatIndex(ctx *Context, i int) (*Seat, error) {
	s := &Seat{ctx: ctx}
	id, err := ctx.BindIndex("wl_seat", seatDesc, i, s.dispatch)
	if err != nil {
		return nil, err
	}
	s.id = id
	return s, nil
}

func (s *Seat) GetKeyboard() (*Keyboard, error) {
	k := &Keyboard{ctx: s.ctx}
	k.id = s.ctx.register("wl_keyboard", keyboardDesc, k.dispatch)
	if err := s.ctx.send(s.id, 1, []wire.Arg{wire.NewID(k.id)}); err != nil {
		return nil, err
	}
	return k, nil
}

func (s *Seat) GetPointer() (*Pointer, error) {
	p := &Pointer{ctx: s.ctx}
	p.id = s.ctx.register("wl_pointer", pointerDesc, p.dispatch)
	if err := s.ctx.send(s.id, 0, []wire.Arg{wire.NewID(p.id)}); err != nil {
		return nil, err
	}
	return p, nil
}

// Keyboard surfaces raw key events; chord recognition against registered
// bindings happens above this layer since the xkb-bindings extension, not
// this interface, is the actual binding-registration channel — Key here
// exists for focus tracking and diagnostics.
type Keyboard struct {
	ctx *Context
	id  uint32

	OnKeymap    func(format uint32, fd uint32, size uint32)
	OnEnter     func(serial uint32, surface uint32, keys []byte)
	OnLeave     func(serial uint32, surface uint32)
	OnKey       func(serial, timeMS, key, state uint32)
	OnModifiers func(serial, modsDepressed, modsLatched, modsLocked, group uint32)
}

func (k *Keyboard) ID() uint32 { return k.id }

func (k *Keyboard) dispatch(opcode uint16, args []wire.Arg) {
	switch opcode {
	case 0:
		if k.OnKeymap != nil {
			k.OnKeymap(args[0].Uint, args[1].Uint, args[2].Uint)
		}
	case 1:
		if k.OnEnter != nil {
			k.OnEnter(args[0].Uint, args[1].Uint, args[2].Array)
		}
	case 2:
		if k.OnLeave != nil {
			k.OnLeave(args[0].Uint, args[1].Uint)
		}
	case 3:
		if k.OnKey != nil {
			k.OnKey(args[0].Uint, args[1].Uint, args[2].Uint, args[3].Uint)
		}
	case 4:
		if k.OnModifiers != nil {
			k.OnModifiers(args[0].Uint, args[1].Uint, args[2].Uint, args[3].Uint, args[4].Uint)
		}
	}
}

// Pointer drives the interactive move/resize gesture: Enter/Motion/Button
// feed the operation manager's start/delta/end state transitions.
type Pointer struct {
	ctx *Context
	id  uint32

	OnEnter  func(serial, surface uint32, x, y wire.Fixed)
	OnLeave  func(serial, surface uint32)
	OnMotion func(timeMS uint32, x, y wire.Fixed)
	OnButton func(serial, timeMS, button, state uint32)
	OnAxis   func(timeMS, axis uint32, value wire.Fixed)
}

func (p *Pointer) ID() uint32 { return p.id }

func (p *Pointer) dispatch(opcode uint16, args []wire.Arg) {
	switch opcode {
	case 0:
		if p.OnEnter != nil {
			p.OnEnter(args[0].Uint, args[1].Uint, args[2].Fixed, args[3].Fixed)
		}
	case 1:
		if p.OnLeave != nil {
			p.OnLeave(args[0].Uint, args[1].Uint)
		}
	case 2:
		if p.OnMotion != nil {
			p.OnMotion(args[0].Uint, args[1].Fixed, args[2].Fixed)
		}
	case 3:
		if p.OnButton != nil {
			p.OnButton(args[0].Uint, args[1].Uint, args[2].Uint, args[3].Uint)
		}
	case 4:
		if p.OnAxis != nil {
			p.OnAxis(args[0].Uint, args[1].Uint, args[2].Fixed)
		}
	}
}
