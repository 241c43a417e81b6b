package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func winList(ids ...uint32) []Window {
	out := make([]Window, len(ids))
	for i, id := range ids {
		out[i] = Window{ID: id}
	}
	return out
}

// TestScenarioC_TileRight is the literal example: three windows, area
// 1000x1000, inner gap 10, one master at ratio 0.5.
func TestScenarioC_TileRight(t *testing.T) {
	windows := winList(1, 2, 3)
	area := Area{X: 0, Y: 0, W: 1000, H: 1000}
	params := Params{MasterCount: 1, MasterRatio: 0.5, InnerGap: 10}

	got := Calculate(TileRight, windows, area, params)
	require.Len(t, got, 3)

	master := got[1]
	assert.Equal(t, Geometry{X: 0, Y: 0, W: 495, H: 1000, Visible: true, Border: BorderNormal}, master)

	stack1 := got[2]
	assert.Equal(t, 505, stack1.X)
	assert.Equal(t, 0, stack1.Y)
	assert.Equal(t, 495, stack1.W)
	assert.Equal(t, 495, stack1.H)

	stack2 := got[3]
	assert.Equal(t, 505, stack2.X)
	assert.Equal(t, 505, stack2.Y)
	assert.Equal(t, 495, stack2.W)
	assert.Equal(t, 495, stack2.H)

	assert.Equal(t, 1000, master.W+10+stack1.W)
	assert.Equal(t, 1000, stack1.H+10+stack2.H)
}

// TestLayoutSum_TileRight is property 7: sum of heights in each column plus
// gaps equals area.h; sum of widths across columns plus the gap equals
// area.w.
func TestLayoutSum_TileRight(t *testing.T) {
	area := Area{X: 0, Y: 0, W: 1200, H: 900}
	params := Params{MasterCount: 2, MasterRatio: 0.6, InnerGap: 6}
	windows := winList(1, 2, 3, 4, 5)

	got := Calculate(TileRight, windows, area, params)

	masterHeightSum := got[1].H + 6 + got[2].H
	assert.Equal(t, area.H, masterHeightSum)

	stackHeightSum := got[3].H + 6 + got[4].H + 6 + got[5].H
	assert.Equal(t, area.H, stackHeightSum)

	assert.Equal(t, area.W, got[1].W+6+got[3].W)
}

// TestLayoutPartition_NoOverlap is property 6 for tile-right and grid: the
// union of produced rectangles is a subset of the area and no two overlap.
func TestLayoutPartition_NoOverlap(t *testing.T) {
	area := Area{X: 0, Y: 0, W: 800, H: 600}
	params := Params{MasterCount: 1, MasterRatio: 0.5, InnerGap: 8}

	for _, kind := range []Kind{TileRight, TileBottom, Grid, CenteredMaster} {
		windows := winList(1, 2, 3, 4, 5)
		geoms := Calculate(kind, windows, area, params)
		require.Len(t, geoms, 5, kind.String())

		rects := make([]Geometry, 0, len(geoms))
		for _, g := range geoms {
			rects = append(rects, g)
			assert.GreaterOrEqual(t, g.X, area.X, kind.String())
			assert.GreaterOrEqual(t, g.Y, area.Y, kind.String())
			assert.LessOrEqual(t, g.X+g.W, area.X+area.W, kind.String())
			assert.LessOrEqual(t, g.Y+g.H, area.Y+area.H, kind.String())
		}
		for i := range rects {
			for j := range rects {
				if i == j {
					continue
				}
				assert.False(t, overlaps(rects[i], rects[j]), "%s: %v overlaps %v", kind, rects[i], rects[j])
			}
		}
	}
}

func overlaps(a, b Geometry) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

func TestTileRight_ZeroWindows(t *testing.T) {
	got := Calculate(TileRight, nil, Area{W: 100, H: 100}, Params{MasterCount: 1, MasterRatio: 0.5})
	assert.Empty(t, got)
}

func TestTileRight_MasterCountExceedsWindows(t *testing.T) {
	windows := winList(1, 2)
	got := Calculate(TileRight, windows, Area{W: 1000, H: 1000}, Params{MasterCount: 5, MasterRatio: 0.5, InnerGap: 10})
	require.Len(t, got, 2)
	assert.Equal(t, 1000, got[1].W)
	assert.Equal(t, 1000, got[2].W)
}

func TestMonocle_OnlyFocusedVisible(t *testing.T) {
	windows := []Window{{ID: 1}, {ID: 2, Focused: true}, {ID: 3}}
	area := Area{X: 0, Y: 0, W: 500, H: 500}
	got := Calculate(Monocle, windows, area, Params{})

	for id, g := range got {
		assert.Equal(t, area.W, g.W)
		assert.Equal(t, area.H, g.H)
		assert.Equal(t, id == 2, g.Visible)
	}
}

func TestGrid_LastRowExpands(t *testing.T) {
	// 5 windows -> ceil(sqrt(5))=3 cols, 2 rows; last row has 2 cells that
	// should be wider than the first row's 3 cells.
	windows := winList(1, 2, 3, 4, 5)
	area := Area{X: 0, Y: 0, W: 900, H: 400}
	got := Calculate(Grid, windows, area, Params{InnerGap: 0})

	assert.Equal(t, 300, got[1].W)
	assert.Equal(t, 450, got[4].W)
}

func TestTabbed_OnlyFocusedVisibleAndSharedGeometry(t *testing.T) {
	windows := []Window{{ID: 1}, {ID: 2, Focused: true}}
	area := Area{X: 0, Y: 0, W: 800, H: 600}
	params := Params{TabHeight: 24}

	got := Calculate(Tabbed, windows, area, params)
	assert.Equal(t, got[1].X, got[2].X)
	assert.Equal(t, got[1].Y, got[2].Y)
	assert.Equal(t, got[1].W, got[2].W)
	assert.Equal(t, got[1].H, got[2].H)
	assert.Equal(t, 24, got[1].Y)
	assert.Equal(t, 600-24, got[1].H)
	assert.False(t, got[1].Visible)
	assert.True(t, got[2].Visible)

	w, h := TabBarSize(area, params)
	assert.Equal(t, 800, w)
	assert.Equal(t, 24, h)
}

func TestFloating_NewWindowCentered(t *testing.T) {
	windows := []Window{{ID: 1}}
	area := Area{X: 0, Y: 0, W: 900, H: 600}
	got := Calculate(Floating, windows, area, Params{})

	g := got[1]
	assert.Equal(t, 600, g.W)
	assert.Equal(t, 400, g.H)
	assert.Equal(t, (900-600)/2, g.X)
	assert.Equal(t, (600-400)/2, g.Y)
}

func TestFloating_RemembersGeometry(t *testing.T) {
	remembered := Geometry{X: 50, Y: 60, W: 300, H: 200}
	windows := []Window{{ID: 1, Floating: &remembered}}
	got := Calculate(Floating, windows, Area{W: 900, H: 600}, Params{})

	g := got[1]
	assert.Equal(t, 50, g.X)
	assert.Equal(t, 60, g.Y)
	assert.Equal(t, 300, g.W)
	assert.Equal(t, 200, g.H)
}

func TestCenteredMaster_DegeneratesWithTwoWindows(t *testing.T) {
	windows := winList(1, 2)
	area := Area{X: 0, Y: 0, W: 1000, H: 1000}
	got := Calculate(CenteredMaster, windows, area, Params{MasterRatio: 0.5, InnerGap: 10})

	assert.Equal(t, 495, got[1].W)
	assert.Equal(t, 1000, got[1].H)
}

func TestCenteredMaster_AlternatesSides(t *testing.T) {
	windows := winList(1, 2, 3, 4, 5) // 1=master, 2=left(i=0), 3=right(i=1), 4=left(i=2), 5=right(i=3)
	area := Area{X: 0, Y: 0, W: 1000, H: 1000}
	got := Calculate(CenteredMaster, windows, area, Params{MasterRatio: 0.5, InnerGap: 10})

	assert.Less(t, got[2].X, got[1].X)
	assert.Greater(t, got[3].X, got[1].X)
	assert.Less(t, got[4].X, got[1].X)
	assert.Greater(t, got[5].X, got[1].X)
}

func TestCycle(t *testing.T) {
	assert.Equal(t, 1, Cycle(0, 1, 6))
	assert.Equal(t, 0, Cycle(5, 1, 6))
	assert.Equal(t, 5, Cycle(0, -1, 6))

	idx := 0
	for i := 0; i < 7; i++ {
		idx = Cycle(idx, 1, 6)
	}
	assert.Equal(t, 1, idx)
}
