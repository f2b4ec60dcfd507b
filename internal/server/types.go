package server

import (
	"math"
	"strings"
	"time"

	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
)

// WindowDoor is an opening as sent by API clients. Position is the start
// point on the wall floor; only the coordinate along the wall is used.
type WindowDoor struct {
	Name     string     `json:"name"`
	Wall     string     `json:"wall"`
	Position [2]float64 `json:"position"`
	Width    float64    `json:"width"`
	Depth    float64    `json:"depth"`
	Height   float64    `json:"height"`
	Sill     float64    `json:"sill,omitempty"`
	Hinge    string     `json:"hinge,omitempty"`
	Way      string     `json:"way,omitempty"`
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	ID             string       `json:"id"`
	RoomWidth      float64      `json:"room_width"`
	RoomDepth      float64      `json:"room_depth"`
	RoomHeight     float64      `json:"room_height"`
	ObjectsToPlace []string     `json:"objects_to_place"`
	WindowsDoors   []WindowDoor `json:"windows_doors"`
	BeamWidth      int          `json:"beam_width"`
}

// ObjectPosition is a placed fixture in a response. Shadow lists the
// clearance margins as top, left, bottom, right.
type ObjectPosition struct {
	ObjectType string     `json:"object_type"`
	Position   [2]float64 `json:"position"`
	Width      float64    `json:"width"`
	Depth      float64    `json:"depth"`
	Height     float64    `json:"height"`
	Wall       string     `json:"wall"`
	Shadow     [4]float64 `json:"shadow"`
}

// GenerateResponse is returned by POST /api/generate and GET /api/layout/{id}.
type GenerateResponse struct {
	LayoutID       string             `json:"layout_id"`
	Score          float64            `json:"score"`
	RoomWidth      float64            `json:"room_width"`
	RoomDepth      float64            `json:"room_depth"`
	RoomHeight     float64            `json:"room_height"`
	Objects        []ObjectPosition   `json:"objects"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown"`
	ProcessingTime float64            `json:"processing_time"`
	WindowsDoors   []WindowDoor       `json:"windows_doors"`
}

// StoredLayout is the cache entry behind a layout id. GET /layouts/{id}
// returns it as is.
type StoredLayout struct {
	Layout    layout.Layout    `json:"layout"`
	Response  GenerateResponse `json:"response"`
	Timestamp time.Time        `json:"timestamp"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func cm(v float64) int { return int(math.Round(v)) }

// opening converts a client opening to the domain type. Names starting with
// "door" are doors, everything else is a window.
func (wd WindowDoor) opening() geometry.Opening {
	kind := geometry.KindWindow
	if strings.HasPrefix(strings.ToLower(wd.Name), "door") {
		kind = geometry.KindDoor
	}
	o := geometry.Opening{
		ID:     wd.Name,
		Kind:   kind,
		Wall:   geometry.Wall(strings.ToLower(strings.TrimSpace(wd.Wall))),
		X:      cm(wd.Position[0]),
		Y:      cm(wd.Position[1]),
		Width:  cm(wd.Width),
		Depth:  cm(wd.Depth),
		Height: cm(wd.Height),
		Sill:   cm(wd.Sill),
		Hinge:  geometry.Wall(strings.ToLower(wd.Hinge)),
	}
	switch strings.ToLower(wd.Way) {
	case "outward", "outwards":
		o.Swing = geometry.SwingOutward
	case "", "inward", "inwards":
		o.Swing = geometry.SwingInward
	}
	return o
}

func objectPosition(o layout.Object, room geometry.Room) ObjectPosition {
	m := o.Margins(room)
	return ObjectPosition{
		ObjectType: o.Name,
		Position:   [2]float64{float64(o.X), float64(o.Y)},
		Width:      float64(o.Width),
		Depth:      float64(o.Depth),
		Height:     float64(o.Height),
		Wall:       string(o.Wall(room)),
		Shadow:     [4]float64{float64(m.Top), float64(m.Left), float64(m.Bottom), float64(m.Right)},
	}
}
