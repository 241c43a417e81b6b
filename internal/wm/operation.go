package wm

import "github.com/pinpox/river-pwm/internal/layout"

// OpKind is the kind of interactive gesture in progress.
type OpKind int

const (
	OpNone OpKind = iota
	OpMove
	OpResize
)

// ResizeEdge is a bitmask of the edges an interactive resize drags.
type ResizeEdge uint8

const (
	EdgeLeft ResizeEdge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// minResizeDim is the floor an interactive resize will not shrink below,
// matching the original prototype's clamp.
const minResizeDim = 100

// Operation tracks one in-progress interactive move or resize.
type Operation struct {
	Kind   OpKind
	Window *Window
	SeatID uint32

	StartX, StartY          int
	StartWidth, StartHeight int
	Edges                   ResizeEdge
}

// OperationManager allows at most one live Operation per seat.
type OperationManager struct {
	bySeat map[uint32]*Operation
}

func newOperationManager() *OperationManager {
	return &OperationManager{bySeat: make(map[uint32]*Operation)}
}

// StartMove begins an interactive move for w on seatID, using its current
// floating geometry as the reference point, or (0,0) if it has none; the
// layout's last-computed geometry is not consulted. Returns false if that
// seat already has an operation running.
func (m *OperationManager) StartMove(seatID uint32, w *Window) bool {
	if _, active := m.bySeat[seatID]; active {
		return false
	}
	x, y := 0, 0
	if w.FloatGeom != nil {
		x, y = w.FloatGeom.X, w.FloatGeom.Y
	}
	w.Floating = true
	m.bySeat[seatID] = &Operation{Kind: OpMove, Window: w, SeatID: seatID, StartX: x, StartY: y}
	return true
}

// StartResize begins an interactive resize for w along edges.
func (m *OperationManager) StartResize(seatID uint32, w *Window, edges ResizeEdge) bool {
	if _, active := m.bySeat[seatID]; active {
		return false
	}
	x, y, width, height := 0, 0, 800, 600
	if w.FloatGeom != nil {
		x, y, width, height = w.FloatGeom.X, w.FloatGeom.Y, w.FloatGeom.W, w.FloatGeom.H
	}
	w.Floating = true
	m.bySeat[seatID] = &Operation{
		Kind: OpResize, Window: w, SeatID: seatID,
		StartX: x, StartY: y, StartWidth: width, StartHeight: height, Edges: edges,
	}
	return true
}

// HandleDelta applies a pointer motion delta (from the gesture's start) to
// the seat's active operation, if any, updating the window's floating
// geometry in place.
func (m *OperationManager) HandleDelta(seatID uint32, dx, dy int) {
	op, ok := m.bySeat[seatID]
	if !ok {
		return
	}
	switch op.Kind {
	case OpMove:
		op.Window.FloatGeom = &layout.Geometry{
			X: op.StartX + dx, Y: op.StartY + dy,
			W: geomW(op.Window), H: geomH(op.Window),
		}
	case OpResize:
		x, y, width, height := op.StartX, op.StartY, op.StartWidth, op.StartHeight
		if op.Edges&EdgeRight != 0 {
			width = max(minResizeDim, op.StartWidth+dx)
		} else if op.Edges&EdgeLeft != 0 {
			width = max(minResizeDim, op.StartWidth-dx)
			x = op.StartX + op.StartWidth - width
		}
		if op.Edges&EdgeBottom != 0 {
			height = max(minResizeDim, op.StartHeight+dy)
		} else if op.Edges&EdgeTop != 0 {
			height = max(minResizeDim, op.StartHeight-dy)
			y = op.StartY + op.StartHeight - height
		}
		op.Window.FloatGeom = &layout.Geometry{X: x, Y: y, W: width, H: height}
	}
}

// End terminates the seat's active operation, if any.
func (m *OperationManager) End(seatID uint32) {
	delete(m.bySeat, seatID)
}

// EndFor terminates whichever seat's operation (if any) targets w, used
// when w closes out from under an in-progress gesture.
func (m *OperationManager) EndFor(w *Window) {
	for seatID, op := range m.bySeat {
		if op.Window == w {
			delete(m.bySeat, seatID)
		}
	}
}

func (m *OperationManager) Active(seatID uint32) bool {
	_, ok := m.bySeat[seatID]
	return ok
}

func geomW(w *Window) int {
	if w.FloatGeom != nil {
		return w.FloatGeom.W
	}
	return 800
}

func geomH(w *Window) int {
	if w.FloatGeom != nil {
		return w.FloatGeom.H
	}
	return 600
}
