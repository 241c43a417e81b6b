// Package decor renders the manager's own decorations — tab bars and,
// eventually, borders that need pixels rather than a compositor-painted
// tag — onto shared-memory buffers attached to river_layer_shell_v1
// surfaces. It owns the anonymous backing file, the mmap, and the
// double-buffering scheme; callers only fill pixels and swap.
package decor

import (
	"os"
	"syscall"

	"github.com/pkg/errors"

	"github.com/pinpox/river-pwm/internal/proto"
)

// Pool wraps one wl_shm_pool and its mmap'd backing file. A pool is sized
// for exactly one DoubleBuffer; the tab bar of each tabbed workspace that
// is actually on screen gets its own.
type Pool struct {
	shm  *proto.Shm
	file *os.File
	data []byte
	size int32
	pool *proto.ShmPool
}

// NewPool creates an anonymous, already-unlinked backing file under
// $XDG_RUNTIME_DIR sized for two buffers of bufSize bytes each, mmaps it,
// and hands the fd to the compositor via wl_shm.create_pool.
func NewPool(shm *proto.Shm, bufSize int32) (*Pool, error) {
	total := bufSize * 2
	f, err := os.CreateTemp(os.Getenv("XDG_RUNTIME_DIR"), "river-pwm-decor-")
	if err != nil {
		return nil, errors.Wrap(err, "decor: creating shm backing file")
	}
	if err := syscall.Unlink(f.Name()); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "decor: unlinking shm backing file")
	}
	if err := f.Truncate(int64(total)); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "decor: sizing shm backing file")
	}
	data, err := syscall.Mmap(int(f.Fd()), 0, int(total), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "decor: mmapping shm backing file")
	}
	pool, err := shm.CreatePool(f, total)
	if err != nil {
		syscall.Munmap(data)
		f.Close()
		return nil, errors.Wrap(err, "decor: wl_shm.create_pool")
	}
	return &Pool{shm: shm, file: f, data: data, size: total, pool: pool}, nil
}

func (p *Pool) Close() error {
	p.pool.Destroy()
	syscall.Munmap(p.data)
	return p.file.Close()
}

// DoubleBuffer is a pair of wl_buffer objects carved from a Pool, offset
// at 0 and half the pool's size, so the compositor can keep reading one
// while the manager paints the other, generalized to an arbitrary
// rectangle instead of a full toplevel surface.
type DoubleBuffer struct {
	pool    *Pool
	width   int32
	height  int32
	stride  int32
	bufs    [2]*proto.Buffer
	bound   [2]bool
	current int
}

// NewDoubleBuffer carves two width*height ARGB8888 buffers out of pool,
// one at offset 0 and one at offset width*height*4 (the half-pool mark).
func (p *Pool) NewDoubleBuffer(width, height int32) (*DoubleBuffer, error) {
	stride := width * 4
	half := stride * height
	if half*2 > p.size {
		return nil, errors.Errorf("decor: pool too small for a %dx%d double buffer", width, height)
	}
	db := &DoubleBuffer{pool: p, width: width, height: height, stride: stride}
	for i, offset := range [2]int32{0, half} {
		b, err := p.pool.CreateBuffer(offset, width, height, stride, proto.ShmFormatARGB8888)
		if err != nil {
			return nil, errors.Wrap(err, "decor: wl_shm_pool.create_buffer")
		}
		idx := i
		b.Release = func() { db.bound[idx] = false }
		db.bufs[i] = b
		db.bound[i] = false
	}
	return db, nil
}

// Acquire returns the buffer not currently owned by the compositor, along
// with the byte slice of the pool's mmap backing it, ready to paint. If the
// compositor holds both, the next buffer in alternation is returned.
func (db *DoubleBuffer) Acquire() (*proto.Buffer, []byte) {
	idx := db.current
	if db.bound[idx] && !db.bound[1-idx] {
		idx = 1 - idx
	}
	db.current = 1 - idx
	db.bound[idx] = true
	offset := int32(idx) * db.stride * db.height
	return db.bufs[idx], db.pool.data[offset : offset+db.stride*db.height]
}

func (db *DoubleBuffer) Width() int32  { return db.width }
func (db *DoubleBuffer) Height() int32 { return db.height }
func (db *DoubleBuffer) Stride() int32 { return db.stride }

// FillSolid paints every pixel of an ARGB8888 buffer the same color,
// packed 0xAARRGGBB, matching config.Color.
func FillSolid(data []byte, color uint32) {
	a := byte(color >> 24)
	r := byte(color >> 16)
	g := byte(color >> 8)
	b := byte(color)
	for i := 0; i+4 <= len(data); i += 4 {
		// wl_shm ARGB8888 is little-endian BGRA in memory.
		data[i+0] = b
		data[i+1] = g
		data[i+2] = r
		data[i+3] = a
	}
}

// FillRect paints a sub-rectangle of a buffer of the given stride/height a
// solid color, used to draw one tab's segment of the shared tab-bar strip.
func FillRect(data []byte, stride, height int32, x, y, w, h int32, color uint32) {
	a := byte(color >> 24)
	r := byte(color >> 16)
	g := byte(color >> 8)
	b := byte(color)
	for row := y; row < y+h && row < height; row++ {
		if row < 0 {
			continue
		}
		rowStart := row * stride
		for col := x; col < x+w && col*4 < stride; col++ {
			if col < 0 {
				continue
			}
			off := rowStart + col*4
			if int(off+4) > len(data) {
				break
			}
			data[off+0] = b
			data[off+1] = g
			data[off+2] = r
			data[off+3] = a
		}
	}
}
