package access

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/fixturefit/pkg/catalog"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
	"github.com/matzehuels/fixturefit/pkg/placement"
	"github.com/matzehuels/fixturefit/pkg/space"
)

func fixture(t *testing.T, name string) catalog.ObjectType {
	t.Helper()
	ot, err := catalog.Default().Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return ot
}

func leftDoor(x int) []geometry.Opening {
	return []geometry.Opening{{ID: "door", Kind: geometry.KindDoor, Wall: geometry.WallLeft, X: x, Width: 80}}
}

// dividedRoom has a full-width barrier at y∈[100,120) with the door on the
// near side and a sink on the far side.
func dividedRoom(t *testing.T) layout.Layout {
	t.Helper()
	room := geometry.Room{Width: 200, Depth: 200}
	cab := fixture(t, "cabinet")
	sink := fixture(t, "sink")
	return layout.New(room, leftDoor(20)).
		With(layout.NewObject(cab, geometry.Rect{X: 0, Y: 100, Depth: 200, Width: 20}, 200)).
		With(layout.NewObject(sink, geometry.Rect{X: 80, Y: 160, Depth: 40, Width: 40}, 85))
}

func TestMarkInaccessibleBarrier(t *testing.T) {
	l := dividedRoom(t)
	spaces := space.Partition(space.OccupancyGrid(l, 1, false))

	got := MarkInaccessible(spaces, l, 1, 30)
	if len(got.Accessible) == 0 {
		t.Fatal("no accessible space on the door side")
	}
	if got.AllAccessible() {
		t.Fatal("spaces behind the barrier reported accessible")
	}
	for _, r := range got.Accessible {
		if r.Y >= 120 {
			t.Errorf("space %v behind the barrier marked accessible", r)
		}
	}
	for _, r := range got.Inaccessible {
		if r.YEnd() <= 100 {
			t.Errorf("space %v on the door side marked inaccessible", r)
		}
	}
}

func TestMarkInaccessibleNoDoors(t *testing.T) {
	room := geometry.Room{Width: 100, Depth: 100}
	l := layout.New(room, nil)
	got := MarkInaccessible([]geometry.Rect{room.Bounds()}, l, 1, 30)
	if !got.AllAccessible() {
		t.Errorf("empty room without doors: inaccessible = %v", got.Inaccessible)
	}
}

func TestMarkInaccessibleMonotone(t *testing.T) {
	room := geometry.Room{Width: 260, Depth: 220}
	types, err := catalog.Default().Resolve([]string{"bathtub", "toilet", "sink", "cabinet", "washing_machine"})
	if err != nil {
		t.Fatal(err)
	}
	e, err := placement.NewEngine(room, leftDoor(40), placement.Options{Attempts: 1000})
	if err != nil {
		t.Fatal(err)
	}

	for seed := uint64(0); seed < 10; seed++ {
		l := e.Run(types, placement.NewRand(seed)).Layout
		spaces := space.Identify(l, 5).WithoutShadow

		narrow := MarkInaccessible(spaces, l, 5, 30)
		wide := MarkInaccessible(spaces, l, 5, 60)
		ok := map[geometry.Rect]bool{}
		for _, r := range narrow.Accessible {
			ok[r] = true
		}
		for _, r := range wide.Accessible {
			if !ok[r] {
				t.Errorf("seed %d: %v reachable at 60 but not at 30", seed, r)
			}
		}

		pn := AnalyzePathways(l, 5, 30)
		pw := AnalyzePathways(l, 5, 60)
		if pw.Reached > pn.Reached {
			t.Errorf("seed %d: pathways reached %d at 60 > %d at 30", seed, pw.Reached, pn.Reached)
		}
	}
}

func TestAnalyzePathwaysMonotoneInWidth(t *testing.T) {
	room := geometry.Room{Width: 240, Depth: 260}
	types, err := catalog.Default().Resolve([]string{"shower", "toilet", "double_sink", "washing_machine"})
	if err != nil {
		t.Fatal(err)
	}
	e, err := placement.NewEngine(room, leftDoor(60), placement.Options{Attempts: 500})
	if err != nil {
		t.Fatal(err)
	}

	for seed := uint64(0); seed < 8; seed++ {
		l := e.Run(types, placement.NewRand(seed)).Layout
		prev := 2.0
		for width := 20; width <= 100; width += 10 {
			got := AnalyzePathways(l, 5, width).Fraction()
			if got > prev {
				t.Errorf("seed %d: reachable fraction rose to %v at width %d (was %v)", seed, got, width, prev)
			}
			prev = got
		}
	}
}

func TestAnalyzePathways(t *testing.T) {
	room := geometry.Room{Width: 200, Depth: 200}
	sink := fixture(t, "sink")
	l := layout.New(room, leftDoor(60)).
		With(layout.NewObject(sink, geometry.Rect{X: 0, Y: 120, Width: 50, Depth: 40}, 85))

	p := AnalyzePathways(l, 5, 60)
	if p.Total != 1 || p.Reached != 1 {
		t.Fatalf("reached %d of %d, want 1 of 1", p.Reached, p.Total)
	}
	if p.Fraction() != 1 {
		t.Errorf("Fraction() = %v, want 1", p.Fraction())
	}
	route := p.Routes[0]
	if route.Door != "door" || route.Name != "sink" {
		t.Errorf("route = %+v", route)
	}
	if len(route.Path) < 2 {
		t.Fatalf("path too short: %v", route.Path)
	}
	if want := (orb.Point{102.5, 2.5}); route.Path[0] != want {
		t.Errorf("path starts at %v, want %v", route.Path[0], want)
	}
}

func TestAnalyzePathwaysBlocked(t *testing.T) {
	p := AnalyzePathways(dividedRoom(t), 5, 60)
	if p.Total != 2 {
		t.Fatalf("Total = %d, want 2", p.Total)
	}
	for _, r := range p.Routes {
		if r.Name == "sink" && r.Reachable {
			t.Error("sink behind the barrier should be unreachable")
		}
		if !r.Reachable && len(r.Path) != 0 {
			t.Errorf("unreachable route has a path: %v", r.Path)
		}
	}
}

func TestPathwaysFraction(t *testing.T) {
	tests := []struct {
		name string
		p    Pathways
		want float64
	}{
		{"empty", Pathways{}, 1},
		{"half", Pathways{Reached: 1, Total: 2}, 0.5},
		{"none", Pathways{Reached: 0, Total: 3}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Fraction(); got != tt.want {
				t.Errorf("Fraction() = %v, want %v", got, tt.want)
			}
		})
	}

	room := geometry.Room{Width: 200, Depth: 200}
	if got := AnalyzePathways(layout.New(room, nil), 5, 60).Fraction(); got != 1 {
		t.Errorf("no doors: Fraction() = %v, want 1", got)
	}
}
