package wm

import (
	"github.com/pinpox/river-pwm/internal/config"
	"github.com/pinpox/river-pwm/internal/layout"
	"github.com/pinpox/river-pwm/internal/proto"
)

// WorkspaceCount mirrors config.WorkspaceCount: nine workspaces per output,
// fixed by the data model.
const WorkspaceCount = config.WorkspaceCount

// Output owns nine workspaces and tracks which one is active.
type Output struct {
	proxy *proto.Output
	id    uint32

	Name string
	X, Y int32
	W, H int32
	Scale int32

	ActiveWorkspace int // 1..9
	Workspaces      [WorkspaceCount + 1]*Workspace // 1-indexed, [0] unused
}

func newOutput(p *proto.Output, defaultLayouts []layout.Kind) *Output {
	o := &Output{proxy: p, id: p.ID(), ActiveWorkspace: 1, Scale: 1}
	for i := 1; i <= WorkspaceCount; i++ {
		o.Workspaces[i] = newWorkspace(i, defaultLayouts)
	}
	return o
}

func (o *Output) ID() uint32 { return o.id }

// Active returns the currently active workspace.
func (o *Output) Active() *Workspace {
	return o.Workspaces[o.ActiveWorkspace]
}

// Area returns the output's usable rectangle inset by the outer gap, as
// the layout engine's input area.
func (o *Output) Area(outerGap int) layout.Area {
	g := outerGap
	w := int(o.W) - 2*g
	h := int(o.H) - 2*g
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return layout.Area{X: int(o.X) + g, Y: int(o.Y) + g, W: w, H: h}
}
