package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/fixturefit/pkg/catalog"
	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
	"github.com/matzehuels/fixturefit/pkg/placement"
	"github.com/matzehuels/fixturefit/pkg/scoring"
)

func smallBathroom() Request {
	return Request{
		Room:     geometry.Room{Width: 200, Depth: 200, Height: 250},
		Openings: []geometry.Opening{{ID: "door", Kind: geometry.KindDoor, Wall: geometry.WallLeft, X: 20, Width: 80}},
		Fixtures: []string{"toilet", "sink"},
	}
}

func strategies(opts Options) []Strategy {
	return []Strategy{NewResample(catalog.Default(), opts), NewBeam(catalog.Default(), opts)}
}

func assertValidLayout(t *testing.T, l layout.Layout) {
	t.Helper()
	var placed []geometry.Occupant
	for _, o := range l.Objects {
		occ := o.Occupant(l.Room)
		assert.True(t, geometry.IsValidPlacement(occ, placed, l.Room), "%s at %v", o.Name, o.Rect())
		assert.False(t, geometry.DoorWindowOverlap(occ.Footprint, occ.Shadow, o.Height, l.Openings, l.Room), "%s blocks an opening", o.Name)
		placed = append(placed, occ)
	}
}

func TestStrategiesSmallBathroom(t *testing.T) {
	for _, s := range strategies(Options{Seed: 42, Attempts: 2000}) {
		t.Run(s.Name(), func(t *testing.T) {
			res, err := s.Search(context.Background(), smallBathroom())
			require.NoError(t, err)

			assert.Equal(t, s.Name(), res.Strategy)
			assert.Equal(t, placement.StatusComplete, res.Status)
			require.Len(t, res.Best.Layout.Objects, 2)
			assert.Equal(t, 10.0, res.Best.Score.Breakdown[scoring.NoOverlap])
			assertValidLayout(t, res.Best.Layout)

			room := res.Best.Layout.Room
			for _, o := range res.Best.Layout.Objects {
				if o.Name == "toilet" {
					assert.False(t, o.Wall(room).Touches(geometry.WallLeft))
				}
			}
			for _, c := range res.Ranked {
				assert.LessOrEqual(t, c.Rank, res.Best.Rank)
				assertValidLayout(t, c.Layout)
			}
		})
	}
}

// The default catalog's bathtub and shower minimums exceed 60 cm and
// neither names a fallback, so nothing fits this room.
func TestStrategiesInfeasible(t *testing.T) {
	req := Request{Room: geometry.Room{Width: 60, Depth: 60}, Fixtures: []string{"bathtub", "shower"}}
	for _, s := range strategies(Options{Attempts: 200, Runs: 3}) {
		t.Run(s.Name(), func(t *testing.T) {
			res, err := s.Search(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, placement.StatusInfeasible, res.Status)
			assert.False(t, res.Feasible())
			assert.Empty(t, res.Best.Layout.Objects)
			assert.ElementsMatch(t, req.Fixtures, res.Best.Unplaced)
		})
	}
}

func TestStrategiesDeterministic(t *testing.T) {
	req := smallBathroom()
	req.Room = geometry.Room{Width: 260, Depth: 220}
	req.Fixtures = []string{"shower", "toilet", "sink", "cabinet"}

	for _, name := range Strategies {
		t.Run(name, func(t *testing.T) {
			serial, err := New(name, catalog.Default(), Options{Seed: 9, Attempts: 1000, Parallelism: 1})
			require.NoError(t, err)
			parallel, err := New(name, catalog.Default(), Options{Seed: 9, Attempts: 1000, Parallelism: 4})
			require.NoError(t, err)

			a, err := serial.Search(context.Background(), req)
			require.NoError(t, err)
			b, err := parallel.Search(context.Background(), req)
			require.NoError(t, err)

			assert.Equal(t, a.Best.ID, b.Best.ID)
			assert.Equal(t, a.Best.Layout, b.Best.Layout)
			require.Len(t, b.Ranked, len(a.Ranked))
			for i := range a.Ranked {
				assert.Equal(t, a.Ranked[i].ID, b.Ranked[i].ID)
			}
		})
	}
}

func TestBeamDropsUnplaceableType(t *testing.T) {
	req := Request{Room: geometry.Room{Width: 120, Depth: 120}, Fixtures: []string{"bathtub", "sink"}}
	res, err := NewBeam(catalog.Default(), Options{}).Search(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, placement.StatusPartial, res.Status)
	assert.Equal(t, []string{"bathtub"}, res.Best.Unplaced)
	assert.Equal(t, []string{"sink"}, res.Best.Layout.Names())
	assert.LessOrEqual(t, len(res.Ranked), DefaultBeamWidth)
}

func TestSearchRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		code ferrors.Code
	}{
		{"unknown fixture", Request{Room: geometry.Room{Width: 200, Depth: 200}, Fixtures: []string{"jacuzzi"}}, ferrors.ErrCodeUnknownFixture},
		{"empty room", Request{Room: geometry.Room{Width: 0, Depth: 200}, Fixtures: []string{"sink"}}, ferrors.ErrCodeInvalidRoom},
		{"door off wall", Request{
			Room:     geometry.Room{Width: 200, Depth: 200},
			Openings: []geometry.Opening{{ID: "door", Wall: geometry.WallTop, Y: 150, Width: 80}},
			Fixtures: []string{"sink"},
		}, ferrors.ErrCodeInvalidOpening},
	}
	for _, s := range strategies(Options{}) {
		for _, tt := range tests {
			t.Run(s.Name()+"/"+tt.name, func(t *testing.T) {
				_, err := s.Search(context.Background(), tt.req)
				assert.Equal(t, tt.code, ferrors.GetCode(err))
			})
		}
	}
}

func TestSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, s := range strategies(Options{Attempts: 100}) {
		t.Run(s.Name(), func(t *testing.T) {
			_, err := s.Search(ctx, smallBathroom())
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestCompare(t *testing.T) {
	room := geometry.Room{Width: 200, Depth: 200}
	sink, err := catalog.Default().Lookup("sink")
	require.NoError(t, err)

	good := layout.New(room, nil).With(layout.NewObject(sink, geometry.Rect{X: 0, Y: 70, Width: 50, Depth: 40}, 85))
	middle := layout.New(room, nil).With(layout.NewObject(sink, geometry.Rect{X: 80, Y: 70, Width: 50, Depth: 40}, 85))
	other := layout.New(room, nil).With(layout.NewObject(sink, geometry.Rect{X: 160, Y: 70, Width: 50, Depth: 40}, 85))

	res := Compare([]layout.Layout{middle, good}, []string{"sink"}, scoring.Options{}, nil)
	require.Len(t, res.Ranked, 2)
	assert.Equal(t, good, res.Best.Layout)
	assert.Equal(t, 0.0, res.Ranked[1].Score.Total)
	assert.Equal(t, placement.StatusComplete, res.Status)

	tied := Compare([]layout.Layout{other, good}, []string{"sink"}, scoring.Options{}, map[string]float64{scoring.NoOverlap: 1})
	assert.Equal(t, other, tied.Best.Layout, "ties go to the first layout")
	assert.Equal(t, 100.0, tied.Best.Rank)
}

func TestCompareEmpty(t *testing.T) {
	res := Compare(nil, []string{"sink"}, scoring.Options{}, nil)
	assert.Equal(t, placement.StatusInfeasible, res.Status)
	assert.Empty(t, res.Ranked)

	res = Compare(nil, nil, scoring.Options{}, nil)
	assert.Equal(t, placement.StatusComplete, res.Status)
}

func TestLayoutID(t *testing.T) {
	room := geometry.Room{Width: 200, Depth: 200}
	sink, _ := catalog.Default().Lookup("sink")
	a := layout.New(room, nil).With(layout.NewObject(sink, geometry.Rect{X: 0, Y: 70, Width: 50, Depth: 40}, 85))
	b := layout.New(room, nil).With(layout.NewObject(sink, geometry.Rect{X: 0, Y: 70, Width: 50, Depth: 40}, 85))
	c := layout.New(room, nil).With(layout.NewObject(sink, geometry.Rect{X: 0, Y: 90, Width: 50, Depth: 40}, 85))

	assert.Equal(t, LayoutID(a), LayoutID(b))
	assert.NotEqual(t, LayoutID(a), LayoutID(c))
	assert.Equal(t, uint8(5), uint8(LayoutID(a).Version()))
}

func TestMissing(t *testing.T) {
	tests := []struct {
		requested, placed, want []string
	}{
		{nil, nil, nil},
		{[]string{"sink", "toilet"}, []string{"toilet", "sink"}, nil},
		{[]string{"sink", "sink"}, []string{"sink"}, []string{"sink"}},
		{[]string{"bathtub", "sink"}, []string{"sink"}, []string{"bathtub"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, missing(tt.requested, tt.placed), "missing(%v, %v)", tt.requested, tt.placed)
	}
}

func TestNew(t *testing.T) {
	s, err := New("", catalog.Default(), Options{})
	require.NoError(t, err)
	assert.Equal(t, StrategyBeam, s.Name())

	s, err = New(" Resample ", catalog.Default(), Options{})
	require.NoError(t, err)
	assert.Equal(t, StrategyResample, s.Name())

	_, err = New("annealing", catalog.Default(), Options{})
	assert.Equal(t, ferrors.ErrCodeInvalidOptions, ferrors.GetCode(err))
}

func TestStrategiesFallBackToSink(t *testing.T) {
	req := Request{Room: geometry.Room{Width: 60, Depth: 60}, Fixtures: []string{"double_sink"}}
	for _, s := range strategies(Options{Attempts: 200, Runs: 3}) {
		t.Run(s.Name(), func(t *testing.T) {
			res, err := s.Search(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, placement.StatusComplete, res.Status)
			assert.Empty(t, res.Best.Unplaced)
			assert.Equal(t, []string{"sink"}, res.Best.Layout.Names())
			assert.Equal(t, []string{"double_sink"}, res.Best.Layout.Fulfilled())
			assertValidLayout(t, res.Best.Layout)
		})
	}
}

func TestDiversify(t *testing.T) {
	in := []entry{{rank: 9}, {rank: 9.000001}, {rank: 9}, {rank: 8.5}, {rank: 8}, {rank: 8}, {rank: 8}}
	got := diversify(in, 2)

	ranks := make([]float64, len(got))
	for i, en := range got {
		ranks[i] = en.rank
	}
	assert.Equal(t, []float64{9, 9.000001, 8.5, 8, 8}, ranks)
	assert.Len(t, in, 7)
}
