package space

import (
	"testing"

	"github.com/matzehuels/fixturefit/pkg/catalog"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
)

func testLayout(t *testing.T) layout.Layout {
	t.Helper()
	cat := catalog.Default()
	sink, _ := cat.Lookup("sink")
	shower, _ := cat.Lookup("shower")
	room := geometry.Room{Width: 200, Depth: 160}
	door := geometry.Opening{ID: "door", Kind: geometry.KindDoor, Wall: geometry.WallBottom, Y: 60, Width: 80}
	return layout.New(room, []geometry.Opening{door}).
		With(layout.NewObject(shower, geometry.Rect{X: 0, Y: 0, Width: 90, Depth: 90}, 210)).
		With(layout.NewObject(sink, geometry.Rect{X: 0, Y: 110, Width: 50, Depth: 40}, 85))
}

func TestGridMark(t *testing.T) {
	g := NewGrid(geometry.Room{Width: 100, Depth: 50}, 10)
	if g.Cols != 10 || g.Rows != 5 {
		t.Fatalf("grid = %dx%d, want 10x5", g.Cols, g.Rows)
	}
	g.Mark(geometry.Rect{X: 5, Y: -20, Depth: 10, Width: 25})

	tests := []struct {
		i, j int
		want bool
	}{
		{0, 0, true},
		{1, 0, true},
		{2, 0, false},
		{0, 1, false},
		{-1, 0, true},
		{10, 0, true},
	}
	for _, tt := range tests {
		if got := g.Occupied(tt.i, tt.j); got != tt.want {
			t.Errorf("Occupied(%d, %d) = %v, want %v", tt.i, tt.j, got, tt.want)
		}
	}
	if g.FreeCells() != 48 {
		t.Errorf("FreeCells() = %d, want 48", g.FreeCells())
	}
}

func TestGridClear(t *testing.T) {
	g := NewGrid(geometry.Room{Width: 10, Depth: 10}, 1)
	if !g.Clear(0, 0, 10, 10) {
		t.Fatal("empty grid should be clear")
	}
	g.Mark(geometry.Rect{X: 4, Y: 4, Depth: 1, Width: 1})
	tests := []struct {
		i0, j0, i1, j1 int
		want           bool
	}{
		{0, 0, 4, 10, true},
		{0, 0, 5, 5, false},
		{4, 4, 5, 5, false},
		{5, 0, 10, 10, true},
		{-5, -5, 4, 4, true},
		{3, 3, 20, 20, false},
	}
	for _, tt := range tests {
		if got := g.Clear(tt.i0, tt.j0, tt.i1, tt.j1); got != tt.want {
			t.Errorf("Clear(%d,%d,%d,%d) = %v, want %v", tt.i0, tt.j0, tt.i1, tt.j1, got, tt.want)
		}
	}
	g.Mark(geometry.Rect{X: 0, Y: 0, Depth: 1, Width: 1})
	if g.Clear(0, 0, 1, 1) {
		t.Error("Clear() must see marks made after the first query")
	}
}

func TestCellRectClips(t *testing.T) {
	g := NewGrid(geometry.Room{Width: 95, Depth: 42}, 10)
	got := g.CellRect(8, 3, 10, 5)
	want := geometry.Rect{X: 80, Y: 30, Depth: 15, Width: 12}
	if got != want {
		t.Errorf("CellRect() = %v, want %v", got, want)
	}
}

func TestPartitionTiles(t *testing.T) {
	for _, cell := range []int{1, 10} {
		l := testLayout(t)
		rects := Partition(OccupancyGrid(l, cell, false))

		cover := make([][]int, l.Room.Width)
		for x := range cover {
			cover[x] = make([]int, l.Room.Depth)
		}
		paint := func(r geometry.Rect) {
			for x := r.X; x < r.XEnd(); x++ {
				for y := r.Y; y < r.YEnd(); y++ {
					cover[x][y]++
				}
			}
		}
		for _, o := range l.Objects {
			paint(o.Rect())
		}
		for _, r := range rects {
			paint(r)
		}
		for x := range cover {
			for y, n := range cover[x] {
				if n != 1 {
					t.Fatalf("cell %d: (%d,%d) covered %d times", cell, x, y, n)
				}
			}
		}
	}
}

func TestPartitionEmptyRoom(t *testing.T) {
	room := geometry.Room{Width: 120, Depth: 80}
	rects := Partition(NewGrid(room, 1))
	if len(rects) != 1 || rects[0] != room.Bounds() {
		t.Errorf("Partition() = %v, want [%v]", rects, room.Bounds())
	}
}

func TestIdentify(t *testing.T) {
	l := testLayout(t)
	a := Identify(l, 1)

	if len(a.WithoutShadow) == 0 {
		t.Fatal("WithoutShadow is empty")
	}
	if Area(a.WithShadow) >= Area(a.WithoutShadow) {
		t.Errorf("shadow area %d should be below footprint-only area %d", Area(a.WithShadow), Area(a.WithoutShadow))
	}
	for _, r := range append(a.WithShadow, a.WithoutShadow...) {
		if r.Width < MinSide || r.Depth < MinSide {
			t.Errorf("space %v below minimum side", r)
		}
		if !r.Inside(l.Room) {
			t.Errorf("space %v outside room", r)
		}
		for _, o := range l.Objects {
			if r.Overlaps(o.Rect()) {
				t.Errorf("space %v overlaps %s", r, o.Name)
			}
		}
	}
	door := l.Openings[0].Zone(l.Room)
	for _, r := range a.WithShadow {
		if r.Overlaps(door) {
			t.Errorf("shadow space %v overlaps the door zone", r)
		}
	}
}

func TestFilter(t *testing.T) {
	rects := []geometry.Rect{
		{Width: 30, Depth: 30},
		{Width: 29, Depth: 100},
		{Width: 100, Depth: 10},
	}
	if got := Filter(rects, MinSide); len(got) != 1 {
		t.Errorf("Filter() kept %d, want 1", len(got))
	}
}
