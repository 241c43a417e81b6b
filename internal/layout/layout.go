// Package layout computes per-window geometry for a workspace. Every
// function here is pure: no I/O, no knowledge of the wire protocol or the
// object table, just (windows, area, parameters) -> geometry.
package layout

import "math"

// Kind selects one of the seven layout algorithms.
type Kind int

const (
	TileRight Kind = iota
	TileBottom
	Monocle
	Grid
	CenteredMaster
	Floating
	Tabbed

	Count // number of Kind values, used for cycling
)

func (k Kind) String() string {
	switch k {
	case TileRight:
		return "tile-right"
	case TileBottom:
		return "tile-bottom"
	case Monocle:
		return "monocle"
	case Grid:
		return "grid"
	case CenteredMaster:
		return "centered-master"
	case Floating:
		return "floating"
	case Tabbed:
		return "tabbed"
	default:
		return "unknown"
	}
}

// Cycle advances idx by delta modulo count, wrapping in either direction.
// A count of zero or less returns 0.
func Cycle(idx, delta, count int) int {
	if count <= 0 {
		return 0
	}
	idx = (idx + delta) % count
	if idx < 0 {
		idx += count
	}
	return idx
}

// Border tags a window's rectangle with the border the commit phase should
// paint. The layout engine emits Normal, Focused or Urgent from each
// Window's Focused/Urgent flags and never emits None.
type Border int

const (
	BorderNone Border = iota
	BorderNormal
	BorderFocused
	BorderUrgent
)

// Area is a rectangle in output-local coordinates, already shrunk by the
// outer gap.
type Area struct {
	X, Y, W, H int
}

// Geometry is one window's computed placement.
type Geometry struct {
	X, Y, W, H int
	Visible    bool
	Border     Border
}

// Window is the layout engine's view of one workspace member: its object
// id (used as the map key in the result), whether it currently holds
// focus, and — for the floating layout only — its remembered geometry.
type Window struct {
	ID       uint32
	Focused  bool
	Urgent   bool
	Floating *Geometry
}

// Params carries every layout's tunable knobs. Not every field applies to
// every Kind; unused fields are ignored.
type Params struct {
	MasterCount int
	MasterRatio float64
	InnerGap    int
	TabHeight   int
}

func borderFor(w Window) Border {
	if w.Urgent {
		return BorderUrgent
	}
	if w.Focused {
		return BorderFocused
	}
	return BorderNormal
}

// Calculate dispatches to the algorithm named by kind. windows must already
// be the mapped, non-fullscreen sequence — fullscreen and unmapped windows
// are handled entirely outside the layout engine.
func Calculate(kind Kind, windows []Window, area Area, params Params) map[uint32]Geometry {
	switch kind {
	case TileRight:
		return tileRight(windows, area, params)
	case TileBottom:
		return tileBottom(windows, area, params)
	case Monocle:
		return monocle(windows, area)
	case Grid:
		return grid(windows, area, params)
	case CenteredMaster:
		return centeredMaster(windows, area, params)
	case Floating:
		return floating(windows, area)
	case Tabbed:
		return tabbed(windows, area, params)
	default:
		return map[uint32]Geometry{}
	}
}

// partition splits total into len(weights) segments separated by gap,
// proportioned by weights, rounding leftover pixels onto the earliest
// segments so the sum always comes out exact.
func partition(total, gap int, weights []float64) []int {
	n := len(weights)
	if n == 0 {
		return nil
	}
	usable := total - gap*(n-1)
	if usable < 0 {
		usable = 0
	}
	sumW := 0.0
	for _, w := range weights {
		sumW += w
	}
	if sumW == 0 {
		sumW = float64(n)
		for i := range weights {
			weights[i] = 1
		}
	}

	out := make([]int, n)
	assigned := 0
	for i, w := range weights {
		out[i] = int(float64(usable) * w / sumW)
		assigned += out[i]
	}
	leftover := usable - assigned
	for i := 0; i < leftover && i < n; i++ {
		out[i]++
	}
	return out
}

// positions returns the cumulative starting offset of each entry in sizes,
// given a gap between consecutive entries.
func positions(sizes []int, gap int) []int {
	out := make([]int, len(sizes))
	offset := 0
	for i, s := range sizes {
		out[i] = offset
		offset += s + gap
	}
	return out
}

func equalWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

func tileRight(windows []Window, area Area, params Params) map[uint32]Geometry {
	geoms := make(map[uint32]Geometry, len(windows))
	n := len(windows)
	if n == 0 {
		return geoms
	}

	masterCount := params.MasterCount
	if masterCount <= 0 {
		masterCount = 1
	}
	if masterCount > n {
		masterCount = n
	}
	stackCount := n - masterCount

	if stackCount == 0 {
		heights := partition(area.H, params.InnerGap, equalWeights(masterCount))
		offsets := positions(heights, params.InnerGap)
		for i, w := range windows[:masterCount] {
			geoms[w.ID] = Geometry{
				X: area.X, Y: area.Y + offsets[i], W: area.W, H: heights[i],
				Visible: true, Border: borderFor(w),
			}
		}
		return geoms
	}

	ratio := params.MasterRatio
	if ratio <= 0 {
		ratio = 0.5
	}
	colWidths := partition(area.W, params.InnerGap, []float64{ratio, 1 - ratio})
	colOffsets := positions(colWidths, params.InnerGap)
	masterWidth, stackWidth := colWidths[0], colWidths[1]
	stackX := colOffsets[1]

	masterHeights := partition(area.H, params.InnerGap, equalWeights(masterCount))
	masterOffsets := positions(masterHeights, params.InnerGap)
	for i, w := range windows[:masterCount] {
		geoms[w.ID] = Geometry{
			X: area.X, Y: area.Y + masterOffsets[i], W: masterWidth, H: masterHeights[i],
			Visible: true, Border: borderFor(w),
		}
	}

	stackHeights := partition(area.H, params.InnerGap, equalWeights(stackCount))
	stackOffsets := positions(stackHeights, params.InnerGap)
	for i, w := range windows[masterCount:] {
		geoms[w.ID] = Geometry{
			X: area.X + stackX, Y: area.Y + stackOffsets[i], W: stackWidth, H: stackHeights[i],
			Visible: true, Border: borderFor(w),
		}
	}
	return geoms
}

// tileBottom is tile-right transposed: the master row runs across the top,
// the stack splits into columns across the bottom.
func tileBottom(windows []Window, area Area, params Params) map[uint32]Geometry {
	transposed := tileRight(windows, Area{X: area.Y, Y: area.X, W: area.H, H: area.W}, params)
	out := make(map[uint32]Geometry, len(transposed))
	for id, g := range transposed {
		out[id] = Geometry{X: g.Y, Y: g.X, W: g.H, H: g.W, Visible: g.Visible, Border: g.Border}
	}
	return out
}

func monocle(windows []Window, area Area) map[uint32]Geometry {
	geoms := make(map[uint32]Geometry, len(windows))
	for _, w := range windows {
		geoms[w.ID] = Geometry{
			X: area.X, Y: area.Y, W: area.W, H: area.H,
			Visible: w.Focused, Border: borderFor(w),
		}
	}
	return geoms
}

func grid(windows []Window, area Area, params Params) map[uint32]Geometry {
	geoms := make(map[uint32]Geometry, len(windows))
	n := len(windows)
	if n == 0 {
		return geoms
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols < 1 {
		cols = 1
	}
	rows := (n + cols - 1) / cols

	rowHeights := partition(area.H, params.InnerGap, equalWeights(rows))
	rowOffsets := positions(rowHeights, params.InnerGap)

	idx := 0
	for r := 0; r < rows && idx < n; r++ {
		remaining := n - idx
		count := cols
		if remaining < count {
			count = remaining // last row's cells expand to fill the row
		}
		colWidths := partition(area.W, params.InnerGap, equalWeights(count))
		colOffsets := positions(colWidths, params.InnerGap)
		for c := 0; c < count; c++ {
			w := windows[idx]
			geoms[w.ID] = Geometry{
				X: area.X + colOffsets[c], Y: area.Y + rowOffsets[r],
				W: colWidths[c], H: rowHeights[r],
				Visible: true, Border: borderFor(w),
			}
			idx++
		}
	}
	return geoms
}

func centeredMaster(windows []Window, area Area, params Params) map[uint32]Geometry {
	n := len(windows)
	if n == 0 {
		return map[uint32]Geometry{}
	}
	if n <= 2 {
		return tileRight(windows, area, Params{MasterCount: 1, MasterRatio: params.MasterRatio, InnerGap: params.InnerGap})
	}

	master := windows[0]
	rest := windows[1:]
	var left, right []Window
	for i, w := range rest {
		if i%2 == 1 {
			right = append(right, w)
		} else {
			left = append(left, w)
		}
	}

	ratio := params.MasterRatio
	if ratio <= 0 {
		ratio = 0.5
	}
	side := (1 - ratio) / 2

	var weights []float64
	var cols [][]Window
	if len(left) > 0 {
		weights = append(weights, side)
		cols = append(cols, left)
	}
	weights = append(weights, ratio)
	cols = append(cols, []Window{master})
	if len(right) > 0 {
		weights = append(weights, side)
		cols = append(cols, right)
	}

	widths := partition(area.W, params.InnerGap, weights)
	offsets := positions(widths, params.InnerGap)

	geoms := make(map[uint32]Geometry, n)
	for i, col := range cols {
		colArea := Area{X: area.X + offsets[i], Y: area.Y, W: widths[i], H: area.H}
		heights := partition(colArea.H, params.InnerGap, equalWeights(len(col)))
		rowOffsets := positions(heights, params.InnerGap)
		for j, w := range col {
			geoms[w.ID] = Geometry{
				X: colArea.X, Y: colArea.Y + rowOffsets[j], W: colArea.W, H: heights[j],
				Visible: true, Border: borderFor(w),
			}
		}
	}
	return geoms
}

// floating preserves each window's remembered geometry; a window mapped
// for the first time (Floating == nil) is centered at 2/3 of the area.
func floating(windows []Window, area Area) map[uint32]Geometry {
	geoms := make(map[uint32]Geometry, len(windows))
	for _, w := range windows {
		if w.Floating != nil {
			g := *w.Floating
			g.Visible = true
			g.Border = borderFor(w)
			geoms[w.ID] = g
			continue
		}
		width := area.W * 2 / 3
		height := area.H * 2 / 3
		geoms[w.ID] = Geometry{
			X: area.X + (area.W-width)/2, Y: area.Y + (area.H-height)/2,
			W: width, H: height, Visible: true, Border: borderFor(w),
		}
	}
	return geoms
}

func tabbed(windows []Window, area Area, params Params) map[uint32]Geometry {
	geoms := make(map[uint32]Geometry, len(windows))
	body := Area{X: area.X, Y: area.Y + params.TabHeight, W: area.W, H: area.H - params.TabHeight}
	for _, w := range windows {
		geoms[w.ID] = Geometry{
			X: body.X, Y: body.Y, W: body.W, H: body.H,
			Visible: w.Focused, Border: borderFor(w),
		}
	}
	return geoms
}

// TabBarSize reports the dimensions of the shared decoration buffer a
// tabbed workspace requests: the full area width at the configured tab
// height.
func TabBarSize(area Area, params Params) (w, h int) {
	return area.W, params.TabHeight
}
