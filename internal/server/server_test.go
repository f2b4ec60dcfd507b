package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/fixturefit/pkg/cache"
	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(fc, nil, nil)
	ts := httptest.NewServer(New(runner, Options{Attempts: 500}).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func smallBathroomRequest(id string) GenerateRequest {
	return GenerateRequest{
		ID:             id,
		RoomWidth:      200,
		RoomDepth:      200,
		RoomHeight:     250,
		ObjectsToPlace: []string{"Toilet", "Sink"},
		WindowsDoors: []WindowDoor{
			{Name: "door1", Wall: "left", Position: [2]float64{20, 0}, Width: 80, Height: 210, Way: "Inward"},
		},
		BeamWidth: 2,
	}
}

func postGenerate(t *testing.T, ts *httptest.Server, req any) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(ts.URL+"/api/generate", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["status"] != "ok" {
		t.Errorf("Expected status 'ok', got %q", body["status"])
	}
}

func TestGenerateAndFetch(t *testing.T) {
	ts := newTestServer(t)

	resp := postGenerate(t, ts, smallBathroomRequest("bath-1"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	gen := decode[GenerateResponse](t, resp)

	if gen.LayoutID != "bath-1" {
		t.Errorf("Expected layout_id 'bath-1', got %q", gen.LayoutID)
	}
	if len(gen.Objects) == 0 {
		t.Fatal("Expected at least one placed object")
	}
	for _, o := range gen.Objects {
		if o.ObjectType != "toilet" && o.ObjectType != "sink" {
			t.Errorf("Unexpected object type %q", o.ObjectType)
		}
		if o.Wall == "" {
			t.Errorf("Object %s has no wall class", o.ObjectType)
		}
	}
	if len(gen.ScoreBreakdown) == 0 {
		t.Error("Expected a score breakdown")
	}
	if gen.Score < 0 || gen.Score > 100 {
		t.Errorf("Score %v out of range", gen.Score)
	}
	if len(gen.WindowsDoors) != 1 {
		t.Errorf("Expected windows_doors to be echoed, got %d", len(gen.WindowsDoors))
	}

	// GET /api/layout/{id} returns the stored response
	resp2, err := http.Get(ts.URL + "/api/layout/bath-1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp2.StatusCode)
	}
	fetched := decode[GenerateResponse](t, resp2)
	if fetched.Score != gen.Score || len(fetched.Objects) != len(gen.Objects) {
		t.Errorf("Fetched layout differs: score %v vs %v, %d vs %d objects", fetched.Score, gen.Score, len(fetched.Objects), len(gen.Objects))
	}

	// GET /layouts/{id} adds the layout and timestamp
	resp3, err := http.Get(ts.URL + "/layouts/bath-1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp3.Body.Close()
	stored := decode[StoredLayout](t, resp3)
	if stored.Timestamp.IsZero() {
		t.Error("Expected a timestamp")
	}
	if len(stored.Layout.Objects) != len(gen.Objects) {
		t.Errorf("Stored layout has %d objects, want %d", len(stored.Layout.Objects), len(gen.Objects))
	}
	if stored.Layout.Room.Width != 200 {
		t.Errorf("Stored room width = %d, want 200", stored.Layout.Room.Width)
	}
}

func TestGenerateAssignsID(t *testing.T) {
	ts := newTestServer(t)
	resp := postGenerate(t, ts, smallBathroomRequest(""))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	gen := decode[GenerateResponse](t, resp)
	if len(gen.LayoutID) != 36 {
		t.Errorf("Expected a UUID layout_id, got %q", gen.LayoutID)
	}
}

func TestGenerateErrors(t *testing.T) {
	ts := newTestServer(t)

	unknown := smallBathroomRequest("x")
	unknown.ObjectsToPlace = []string{"jacuzzi"}

	tiny := smallBathroomRequest("y")
	tiny.RoomWidth, tiny.RoomDepth = 60, 60
	tiny.ObjectsToPlace = []string{"Bathtub", "Shower"}
	tiny.WindowsDoors = nil

	badRoom := smallBathroomRequest("z")
	badRoom.RoomWidth = -10

	badDoor := smallBathroomRequest("w")
	badDoor.WindowsDoors[0].Wall = "ceiling"

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   ferrors.Code
	}{
		{"unknown fixture", unknown, http.StatusBadRequest, ferrors.ErrCodeUnknownFixture},
		{"infeasible room", tiny, http.StatusUnprocessableEntity, ferrors.ErrCodeInfeasible},
		{"invalid room", badRoom, http.StatusBadRequest, ferrors.ErrCodeInvalidRoom},
		{"invalid opening", badDoor, http.StatusBadRequest, ferrors.ErrCodeInvalidOpening},
		{"malformed body", json.RawMessage(`{"room_width": "wide"}`), http.StatusBadRequest, ferrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postGenerate(t, ts, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			body := decode[ErrorResponse](t, resp)
			if body.Code != string(tt.wantCode) {
				t.Errorf("Expected code %s, got %s (%s)", tt.wantCode, body.Code, body.Message)
			}
		})
	}
}

func TestGetLayoutNotFound(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/api/layout/missing", "/layouts/missing"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		body := decode[ErrorResponse](t, resp)
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: expected status 404, got %d", path, resp.StatusCode)
		}
		if body.Code != string(ferrors.ErrCodeNotFound) {
			t.Errorf("%s: expected code NOT_FOUND, got %q", path, body.Code)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/nothing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/generate", nil)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", resp2.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ferrors.New(ferrors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{ferrors.New(ferrors.ErrCodeUnknownFixture, "x"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", ferrors.New(ferrors.ErrCodeInvalidRoom, "x")), http.StatusBadRequest},
		{ferrors.New(ferrors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{ferrors.New(ferrors.ErrCodeInfeasible, "x"), http.StatusUnprocessableEntity},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{ferrors.Wrap(ferrors.ErrCodeInvalidInput, &http.MaxBytesError{Limit: 1}, "x"), http.StatusRequestEntityTooLarge},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWindowDoorOpening(t *testing.T) {
	door := WindowDoor{Name: "Door_main", Wall: " Left ", Position: [2]float64{19.6, 0}, Width: 80.2, Way: "Outwards", Hinge: "Right"}
	o := door.opening()
	if o.Kind != geometry.KindDoor || o.Wall != geometry.WallLeft {
		t.Errorf("door converted to %+v", o)
	}
	if o.X != 20 || o.Width != 80 {
		t.Errorf("Expected rounded X=20 Width=80, got X=%d Width=%d", o.X, o.Width)
	}
	if o.Swing != geometry.SwingOutward || o.Hinge != geometry.WallRight {
		t.Errorf("Expected outward swing hinged right, got %s/%s", o.Swing, o.Hinge)
	}

	window := WindowDoor{Name: "window1", Wall: "top", Position: [2]float64{0, 50}, Width: 60, Sill: 90}
	o = window.opening()
	if o.Kind != geometry.KindWindow || o.Sill != 90 || o.Y != 50 {
		t.Errorf("window converted to %+v", o)
	}
}

func TestGenerateRejectsBadID(t *testing.T) {
	ts := newTestServer(t)
	resp := postGenerate(t, ts, smallBathroomRequest(strings.Repeat("a", maxIDLength+1)))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}
