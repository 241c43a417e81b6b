package proto

import (
	"os"

	"github.com/pkg/errors"

	"github.com/pinpox/river-pwm/internal/wire"
)

// Compositor is the wl_compositor global: a factory for surfaces.
type Compositor struct {
	ctx *Context
	id  uint32
}

func BindCompositor(ctx *Context) (*Compositor, error) {
	id, err := ctx.Bind("wl_compositor", compositorDesc, nil)
	if err != nil {
		return nil, err
	}
	return &Compositor{ctx: ctx, id: id}, nil
}

// CreateSurface allocates a new wl_surface, used only for the window
// manager's own decoration buffers (tab bars, borders) and layer-shell
// surfaces — never for a client window, which the window-management
// extension mirrors without exposing its surface.
func (c *Compositor) CreateSurface() (*Surface, error) {
	s := &Surface{ctx: c.ctx}
	s.id = c.ctx.register("wl_surface", surfaceDesc, s.dispatch)
	if err := c.ctx.send(c.id, 0, []wire.Arg{wire.NewID(s.id)}); err != nil {
		return nil, errors.Wrap(err, "wl_compositor.create_surface")
	}
	return s, nil
}

// Surface is the wl_surface wrapper: attach a buffer, damage a region,
// request a frame callback, and commit the pending state.
type Surface struct {
	ctx *Context
	id  uint32

	OnEnter func(outputID uint32)
	OnLeave func(outputID uint32)
}

func (s *Surface) ID() uint32        { return s.id }
func (s *Surface) Interface() string { return "wl_surface" }

func (s *Surface) dispatch(opcode uint16, args []wire.Arg) {
	switch opcode {
	case 0:
		if s.OnEnter != nil {
			s.OnEnter(args[0].Uint)
		}
	case 1:
		if s.OnLeave != nil {
			s.OnLeave(args[0].Uint)
		}
	}
}

func (s *Surface) Attach(buffer *Buffer, x, y int32) error {
	var bufID uint32
	if buffer != nil {
		bufID = buffer.id
	}
	return s.ctx.send(s.id, 1, []wire.Arg{wire.Object(bufID), wire.Int(x), wire.Int(y)})
}

func (s *Surface) Damage(x, y, w, h int32) error {
	return s.ctx.send(s.id, 2, []wire.Arg{wire.Int(x), wire.Int(y), wire.Int(w), wire.Int(h)})
}

// Frame requests a one-shot callback fired at the next opportune repaint
// time; onDone receives the compositor's timestamp.
func (s *Surface) Frame(onDone func(msTimestamp uint32)) error {
	id := s.ctx.register("wl_callback", callbackDesc, nil)
	s.ctx.objects[id].dispatch = func(opcode uint16, args []wire.Arg) {
		if opcode == 0 && onDone != nil {
			onDone(args[0].Uint)
		}
	}
	return s.ctx.send(s.id, 3, []wire.Arg{wire.NewID(id)})
}

func (s *Surface) Commit() error {
	return s.ctx.send(s.id, 4, nil)
}

func (s *Surface) Destroy() error {
	s.ctx.Destroy(s.id)
	return s.ctx.send(s.id, 0, nil)
}

// Shm is the wl_shm global: a factory for shared-memory pools.
type Shm struct {
	ctx *Context
	id  uint32
}

func BindShm(ctx *Context) (*Shm, error) {
	id, err := ctx.Bind("wl_shm", shmDesc, nil)
	if err != nil {
		return nil, err
	}
	return &Shm{ctx: ctx, id: id}, nil
}

// CreatePool hands the compositor an open, already-sized file descriptor
// backing shared memory and returns the pool wrapper the caller uses to
// carve out buffers.
func (s *Shm) CreatePool(f *os.File, size int32) (*ShmPool, error) {
	pool := &ShmPool{ctx: s.ctx}
	pool.id = s.ctx.register("wl_shm_pool", shmPoolDesc, nil)
	err := s.ctx.send(s.id, 0, []wire.Arg{wire.NewID(pool.id), wire.FD(f), wire.Int(size)})
	if err != nil {
		return nil, errors.Wrap(err, "wl_shm.create_pool")
	}
	return pool, nil
}

const (
	ShmFormatARGB8888 uint32 = 0
	ShmFormatXRGB8888 uint32 = 1
)

// ShmPool is the wl_shm_pool wrapper: a window into the mmap'd backing
// file that wl_buffer objects are sliced out of.
type ShmPool struct {
	ctx *Context
	id  uint32
}

func (p *ShmPool) CreateBuffer(offset, width, height, stride int32, format uint32) (*Buffer, error) {
	b := &Buffer{ctx: p.ctx}
	b.id = p.ctx.register("wl_buffer", bufferDesc, b.dispatch)
	err := p.ctx.send(p.id, 0, []wire.Arg{
		wire.NewID(b.id), wire.Int(offset), wire.Int(width), wire.Int(height), wire.Int(stride), wire.Uint(format),
	})
	if err != nil {
		return nil, errors.Wrap(err, "wl_shm_pool.create_buffer")
	}
	return b, nil
}

func (p *ShmPool) Resize(size int32) error {
	return p.ctx.send(p.id, 2, []wire.Arg{wire.Int(size)})
}

func (p *ShmPool) Destroy() error {
	p.ctx.Destroy(p.id)
	return p.ctx.send(p.id, 1, nil)
}

// Buffer is the wl_buffer wrapper. Release fires once the compositor is
// done reading the pixels, signaling it is safe to reuse for the next
// frame (the double-buffering scheme in internal/decor).
type Buffer struct {
	ctx     *Context
	id      uint32
	Release func()
}

func (b *Buffer) ID() uint32 { return b.id }

func (b *Buffer) dispatch(opcode uint16, _ []wire.Arg) {
	if opcode == 0 && b.Release != nil {
		b.Release()
	}
}

func (b *Buffer) Destroy() error {
	b.ctx.Destroy(b.id)
	return b.ctx.send(b.id, 0, nil)
}
