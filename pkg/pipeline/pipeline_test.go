package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fixturefit/pkg/cache"
	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/placement"
	"github.com/matzehuels/fixturefit/pkg/scoring"
	"github.com/matzehuels/fixturefit/pkg/search"
)

func quiet() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func smallBathroom() Options {
	return Options{
		Room: geometry.Room{Width: 200, Depth: 200, Height: 250},
		Openings: []geometry.Opening{
			{ID: "door1", Kind: geometry.KindDoor, Wall: geometry.WallLeft, X: 20, Width: 80},
		},
		Fixtures:   []string{"toilet", "sink"},
		Strategy:   search.StrategyResample,
		Runs:       3,
		Attempts:   2000,
		GridSize:   5,
		BeamWidth:  2,
		Expansions: 4,
	}
}

func TestValidateStrategy(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"beam", false},
		{"resample", false},
		{"genetic", true},
		{"BEAM", true}, // normalized by SetDefaults, not here
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStrategy(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStrategy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidateWeights(t *testing.T) {
	if err := ValidateWeights(map[string]float64{scoring.Spacing: 2, scoring.DoorSink: 0.5}); err != nil {
		t.Errorf("Valid weights should pass: %v", err)
	}
	if err := ValidateWeights(map[string]float64{"beauty": 1}); err == nil {
		t.Error("Unknown criterion should fail")
	}
	if err := ValidateWeights(map[string]float64{scoring.Spacing: -1}); err == nil {
		t.Error("Negative weight should fail")
	}

	// Empty map is valid
	if err := ValidateWeights(nil); err != nil {
		t.Errorf("Empty weights should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{
		Room:     geometry.Room{Width: 200, Depth: 200},
		Fixtures: []string{"Double Sink"},
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	// Check defaults were set
	if opts.Strategy != DefaultStrategy {
		t.Errorf("Strategy should be %q, got %q", DefaultStrategy, opts.Strategy)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed should be %d, got %d", DefaultSeed, opts.Seed)
	}
	if opts.Attempts != DefaultAttempts {
		t.Errorf("Attempts should be %d, got %d", DefaultAttempts, opts.Attempts)
	}
	if opts.GridSize != DefaultGridSize || opts.PathGrid != DefaultPathGrid {
		t.Errorf("Grid sizes should be %d/%d, got %d/%d", DefaultGridSize, DefaultPathGrid, opts.GridSize, opts.PathGrid)
	}
	if opts.Catalog == nil || opts.Logger == nil {
		t.Error("Catalog and Logger should be defaulted")
	}
	if opts.Fixtures[0] != "double_sink" {
		t.Errorf("Fixture names should be normalized, got %q", opts.Fixtures[0])
	}
}

func TestOptionsDefaultsDoNotAliasFixtures(t *testing.T) {
	fixtures := []string{"Toilet"}
	opts := Options{Room: geometry.Room{Width: 200, Depth: 200}, Fixtures: fixtures}
	opts.SetDefaults()
	if fixtures[0] != "Toilet" {
		t.Errorf("SetDefaults modified the caller's slice: %q", fixtures[0])
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		code   ferrors.Code
	}{
		{"zero room", func(o *Options) { o.Room.Width = 0 }, ferrors.ErrCodeInvalidRoom},
		{"opening off wall", func(o *Options) { o.Openings[0].X = 190 }, ferrors.ErrCodeInvalidOpening},
		{"empty fixture", func(o *Options) { o.Fixtures = []string{""} }, ferrors.ErrCodeInvalidInput},
		{"bad strategy", func(o *Options) { o.Strategy = "annealing" }, ferrors.ErrCodeInvalidOptions},
		{"negative runs", func(o *Options) { o.Runs = -1 }, ferrors.ErrCodeInvalidOptions},
		{"unknown weight", func(o *Options) { o.Weights = map[string]float64{"x": 1} }, ferrors.ErrCodeInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := smallBathroom()
			tt.modify(&opts)
			err := opts.ValidateAndSetDefaults()
			if !ferrors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRunnerExecute(t *testing.T) {
	runner := NewRunner(nil, nil, quiet())
	defer runner.Close()

	result, err := runner.Execute(context.Background(), smallBathroom())
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if !result.Search.Feasible() {
		t.Fatalf("Search status = %s, want a feasible layout", result.Search.Status)
	}
	if result.Stats.Requested != 2 {
		t.Errorf("Stats.Requested = %d, want 2", result.Stats.Requested)
	}
	if result.Stats.Placed == 0 || result.Stats.Placed != len(result.Search.Best.Layout.Objects) {
		t.Errorf("Stats.Placed = %d, best layout has %d objects", result.Stats.Placed, len(result.Search.Best.Layout.Objects))
	}
	if result.Stats.Candidates != 3 {
		t.Errorf("Stats.Candidates = %d, want one per run (3)", result.Stats.Candidates)
	}
	if result.CacheInfo.SearchHit {
		t.Error("NullCache should never hit")
	}
	if len(result.Analysis.Spaces.WithoutShadow) == 0 {
		t.Error("Analysis should report free floor")
	}
	if got := len(result.Analysis.Access.Accessible) + len(result.Analysis.Access.Inaccessible); got != len(result.Analysis.Spaces.WithoutShadow) {
		t.Errorf("Access split covers %d spaces, want %d", got, len(result.Analysis.Spaces.WithoutShadow))
	}
}

func TestRunnerSearchCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, quiet())
	ctx := context.Background()

	first, hit, err := runner.SearchWithCacheInfo(ctx, smallBathroom())
	if err != nil {
		t.Fatalf("first search: %v", err)
	}
	if hit {
		t.Error("First search should miss")
	}

	second, hit, err := runner.SearchWithCacheInfo(ctx, smallBathroom())
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if !hit {
		t.Error("Second search should hit")
	}
	if first.Best.ID != second.Best.ID || first.Best.Score.Total != second.Best.Score.Total {
		t.Errorf("Cached best = %s (%.2f), want %s (%.2f)", second.Best.ID, second.Best.Score.Total, first.Best.ID, first.Best.Score.Total)
	}

	// A different seed is a different key
	opts := smallBathroom()
	opts.Seed = 7
	if _, hit, _ := runner.SearchWithCacheInfo(ctx, opts); hit {
		t.Error("Different seed should miss")
	}

	// Refresh bypasses the cache
	opts = smallBathroom()
	opts.Refresh = true
	if _, hit, _ := runner.SearchWithCacheInfo(ctx, opts); hit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestRunnerStrict(t *testing.T) {
	runner := NewRunner(nil, nil, quiet())
	opts := smallBathroom()
	opts.Room = geometry.Room{Width: 60, Depth: 60}
	opts.Openings = nil
	opts.Fixtures = []string{"bathtub", "shower"}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Non-strict run should not fail: %v", err)
	}
	if result.Search.Status != placement.StatusInfeasible {
		t.Errorf("Status = %s, want %s", result.Search.Status, placement.StatusInfeasible)
	}

	opts.Strict = true
	_, err = runner.Execute(context.Background(), opts)
	if !ferrors.Is(err, ferrors.ErrCodeInfeasible) {
		t.Errorf("Strict run error = %v, want %s", err, ferrors.ErrCodeInfeasible)
	}
}

func TestRunnerUnknownFixture(t *testing.T) {
	runner := NewRunner(nil, nil, quiet())
	opts := smallBathroom()
	opts.Fixtures = []string{"jacuzzi"}

	_, err := runner.Execute(context.Background(), opts)
	if !ferrors.Is(err, ferrors.ErrCodeUnknownFixture) {
		t.Errorf("Execute error = %v, want %s", err, ferrors.ErrCodeUnknownFixture)
	}
}

func TestRunnerScore(t *testing.T) {
	runner := NewRunner(nil, nil, quiet())
	res, err := runner.Search(context.Background(), smallBathroom())
	if err != nil {
		t.Fatal(err)
	}

	score, err := runner.Score(res.Best.Layout, nil, Options{PathGrid: DefaultPathGrid})
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	if score.Breakdown[scoring.RequestedObjects] != 10 {
		t.Errorf("Scoring a layout against its own objects should fully satisfy requested_objects, got %v", score.Breakdown[scoring.RequestedObjects])
	}

	if _, err := runner.Score(res.Best.Layout, nil, Options{Weights: map[string]float64{"x": 1}}); err == nil {
		t.Error("Unknown weight should fail")
	}
}

func TestCatalogHash(t *testing.T) {
	h := CatalogHash(nil)
	if len(h) != 64 {
		t.Errorf("CatalogHash length = %d, want 64", len(h))
	}
	if h != CatalogHash(nil) {
		t.Error("CatalogHash should be deterministic")
	}
}

func TestParseRequestTOML(t *testing.T) {
	input := `
fixtures = ["toilet", "sink"]
strategy = "resample"
seed = 9

[room]
width = 220
depth = 180
height = 250

[[opening]]
id = "door1"
kind = "door"
wall = "left"
x = 20
width = 80

[weights]
spacing = 2.0
`
	opts, err := ParseRequest(strings.NewReader(input), false)
	if err != nil {
		t.Fatalf("ParseRequest error: %v", err)
	}
	if opts.Room.Width != 220 || opts.Room.Depth != 180 {
		t.Errorf("Room = %+v", opts.Room)
	}
	if len(opts.Openings) != 1 || opts.Openings[0].Wall != geometry.WallLeft || opts.Openings[0].Width != 80 {
		t.Errorf("Openings = %+v", opts.Openings)
	}
	if len(opts.Fixtures) != 2 || opts.Strategy != "resample" || opts.Seed != 9 {
		t.Errorf("Options = %+v", opts)
	}
	if opts.Weights[scoring.Spacing] != 2 {
		t.Errorf("Weights = %v", opts.Weights)
	}
}

func TestParseRequestJSON(t *testing.T) {
	input := `{"room": {"width": 200, "depth": 200}, "fixtures": ["sink"], "openings": [{"id": "door1", "wall": "top", "y": 10, "width": 70}]}`
	opts, err := ParseRequest(strings.NewReader(input), true)
	if err != nil {
		t.Fatalf("ParseRequest error: %v", err)
	}
	if opts.Openings[0].Wall != geometry.WallTop || !opts.Openings[0].IsDoor() {
		t.Errorf("Opening = %+v", opts.Openings[0])
	}
}

func TestParseRequestRejectsUnknownKeys(t *testing.T) {
	if _, err := ParseRequest(strings.NewReader("colour = \"blue\"\n"), false); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
		t.Errorf("TOML unknown key error = %v", err)
	}
	if _, err := ParseRequest(strings.NewReader(`{"colour": "blue"}`), true); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
		t.Errorf("JSON unknown key error = %v", err)
	}
}

func TestLoadRequestMissingFile(t *testing.T) {
	_, err := LoadRequest(t.TempDir() + "/missing.toml")
	if !ferrors.Is(err, ferrors.ErrCodeFileNotFound) {
		t.Errorf("LoadRequest error = %v, want %s", err, ferrors.ErrCodeFileNotFound)
	}
}

func TestParseLayout(t *testing.T) {
	bare := `{"room": {"width": 200, "depth": 200}, "objects": [{"name": "sink", "x": 0, "y": 50, "width": 60, "depth": 50, "height": 85}]}`
	l, err := ParseLayout(strings.NewReader(bare))
	if err != nil {
		t.Fatalf("ParseLayout(bare) error: %v", err)
	}
	if len(l.Objects) != 1 || l.Objects[0].Name != "sink" {
		t.Errorf("Objects = %+v", l.Objects)
	}

	wrapped := `{"strategy": "beam", "best": {"layout": ` + bare + `}}`
	l, err = ParseLayout(strings.NewReader(wrapped))
	if err != nil {
		t.Fatalf("ParseLayout(result) error: %v", err)
	}
	if l.Room.Width != 200 || len(l.Objects) != 1 {
		t.Errorf("Layout from result = %+v", l)
	}

	if _, err := ParseLayout(strings.NewReader(`{"room": {"width": -1, "depth": 10}}`)); !ferrors.Is(err, ferrors.ErrCodeInvalidRoom) {
		t.Errorf("Invalid room error = %v", err)
	}
}
