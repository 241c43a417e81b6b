package proto

import (
	"github.com/pkg/errors"

	"github.com/pinpox/river-pwm/internal/wire"
)

// Anchor edges for river_layer_surface_v1.set_anchor, bitflags.
const (
	AnchorTop    uint32 = 1 << 0
	AnchorBottom uint32 = 1 << 1
	AnchorLeft   uint32 = 1 << 2
	AnchorRight  uint32 = 1 << 3
)

// LayerShell is the river_layer_shell_v1 global: a factory for reserved
// regions anchored to an output edge (status bars, tab decorations).
type LayerShell struct {
	ctx *Context
	id  uint32
}

func BindLayerShell(ctx *Context) (*LayerShell, error) {
	id, err := ctx.Bind("river_layer_shell_v1", riverLayerShellDesc, nil)
	if err != nil {
		return nil, err
	}
	return &LayerShell{ctx: ctx, id: id}, nil
}

// GetLayerSurface turns a plain wl_surface into a layer surface anchored
// to outputID; layer is an opaque compositor-defined stacking hint.
func (ls *LayerShell) GetLayerSurface(surface *Surface, outputID uint32, layer uint32) (*LayerSurface, error) {
	s := &LayerSurface{ctx: ls.ctx}
	s.id = ls.ctx.register("river_layer_surface_v1", riverLayerSurfaceDesc, s.dispatch)
	err := ls.ctx.send(ls.id, 0, []wire.Arg{
		wire.NewID(s.id), wire.Object(surface.id), wire.Object(outputID), wire.Uint(layer),
	})
	if err != nil {
		return nil, errors.Wrap(err, "river_layer_shell_v1.get_layer_surface")
	}
	return s, nil
}

func (ls *LayerShell) Destroy() error {
	ls.ctx.Destroy(ls.id)
	return ls.ctx.send(ls.id, 1, nil)
}

// LayerSurface reserves a strip of an output; SetExclusiveZone tells the
// compositor (and, mirrored locally, the layout engine) how much of the
// output's edge to withhold from tiled windows.
type LayerSurface struct {
	ctx *Context
	id  uint32

	OnConfigure func(serial uint32, width, height int32)
	OnClosed    func()
}

func (s *LayerSurface) ID() uint32 { return s.id }

func (s *LayerSurface) dispatch(opcode uint16, args []wire.Arg) {
	switch opcode {
	case 0:
		if s.OnConfigure != nil {
			s.OnConfigure(args[0].Uint, args[1].Int, args[2].Int)
		}
	case 1:
		if s.OnClosed != nil {
			s.OnClosed()
		}
		s.ctx.Destroy(s.id)
	}
}

func (s *LayerSurface) SetSize(width, height int32) error {
	return s.ctx.send(s.id, 0, []wire.Arg{wire.Int(width), wire.Int(height)})
}

func (s *LayerSurface) SetAnchor(edges uint32) error {
	return s.ctx.send(s.id, 1, []wire.Arg{wire.Uint(edges)})
}

func (s *LayerSurface) SetExclusiveZone(pixels int32) error {
	return s.ctx.send(s.id, 2, []wire.Arg{wire.Int(pixels)})
}

func (s *LayerSurface) AckConfigure(serial uint32) error {
	return s.ctx.send(s.id, 3, []wire.Arg{wire.Uint(serial)})
}

func (s *LayerSurface) Destroy() error {
	s.ctx.Destroy(s.id)
	return s.ctx.send(s.id, 4, nil)
}
