package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/fixturefit/pkg/buildinfo"
	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/pipeline"
	"github.com/matzehuels/fixturefit/pkg/search"
)

// maxIDLength bounds client-chosen layout ids.
const maxIDLength = 128

// health handles GET /.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "fixturefit layout API is running",
		"version": buildinfo.Version,
	})
}

// generate handles POST /api/generate.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req GenerateRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}
	if len(id) > maxIDLength || strings.ContainsAny(id, "/ ") {
		s.fail(w, r, ferrors.New(ferrors.ErrCodeInvalidInput, "invalid layout id %q", id))
		return
	}

	opts := s.options(req)
	res, err := s.runner.Search(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !res.Feasible() {
		s.fail(w, r, ferrors.New(ferrors.ErrCodeInfeasible, "could not generate any valid layout with the given constraints"))
		return
	}

	resp := s.response(id, req, res)
	resp.ProcessingTime = time.Since(start).Seconds()

	data, err := json.Marshal(StoredLayout{
		Layout:    res.Best.Layout,
		Response:  resp,
		Timestamp: time.Now().UTC(),
	})
	if err == nil {
		err = s.store(r.Context(), id, data)
	}
	if err != nil {
		s.logger.Warn("could not store layout", "id", id, "error", err)
	}

	s.logger.Info("generated layout",
		"id", id,
		"fixtures", len(req.ObjectsToPlace),
		"placed", len(res.Best.Layout.Objects),
		"score", resp.Score,
		"duration", time.Since(start).Round(time.Millisecond))
	writeJSON(w, http.StatusOK, resp)
}

// getLayout handles GET /api/layout/{id}.
func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	stored, err := s.load(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored.Response)
}

// getStoredLayout handles GET /layouts/{id}.
func (s *Server) getStoredLayout(w http.ResponseWriter, r *http.Request) {
	stored, err := s.load(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) load(r *http.Request) (StoredLayout, error) {
	id := chi.URLParam(r, "id")
	data, hit, err := s.runner.Cache.Get(r.Context(), s.layoutKey(id))
	if err != nil {
		return StoredLayout{}, ferrors.Wrap(ferrors.ErrCodeInternal, err, "read layout %s", id)
	}
	if !hit {
		return StoredLayout{}, ferrors.New(ferrors.ErrCodeNotFound, "layout with id %s not found", id)
	}
	var stored StoredLayout
	if err := json.Unmarshal(data, &stored); err != nil {
		return StoredLayout{}, ferrors.Wrap(ferrors.ErrCodeInternal, err, "decode layout %s", id)
	}
	return stored, nil
}

// options maps an API request onto pipeline options. The API always runs
// the beam strategy.
func (s *Server) options(req GenerateRequest) pipeline.Options {
	openings := make([]geometry.Opening, len(req.WindowsDoors))
	for i, wd := range req.WindowsDoors {
		openings[i] = wd.opening()
	}
	return pipeline.Options{
		Room: geometry.Room{
			Width:  cm(req.RoomWidth),
			Depth:  cm(req.RoomDepth),
			Height: cm(req.RoomHeight),
		},
		Openings:    openings,
		Fixtures:    req.ObjectsToPlace,
		Strategy:    search.StrategyBeam,
		BeamWidth:   req.BeamWidth,
		Attempts:    s.opts.Attempts,
		Catalog:     s.opts.Catalog,
		Parallelism: s.opts.Parallelism,
		Logger:      s.logger,
	}
}

func (s *Server) response(id string, req GenerateRequest, res search.Result) GenerateResponse {
	best := res.Best
	room := best.Layout.Room
	objects := make([]ObjectPosition, len(best.Layout.Objects))
	for i, o := range best.Layout.Objects {
		objects[i] = objectPosition(o, room)
	}
	windowsDoors := req.WindowsDoors
	if windowsDoors == nil {
		windowsDoors = []WindowDoor{}
	}
	return GenerateResponse{
		LayoutID:       id,
		Score:          best.Score.Total,
		RoomWidth:      req.RoomWidth,
		RoomDepth:      req.RoomDepth,
		RoomHeight:     req.RoomHeight,
		Objects:        objects,
		ScoreBreakdown: best.Score.Breakdown,
		WindowsDoors:   windowsDoors,
	}
}

// fail logs err, emits the error hook and writes the mapped status.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	httpHooks().OnError(r.Context(), r.Method, routePattern(r), err)
	writeError(w, status, string(ferrors.GetCode(err)), ferrors.UserMessage(err))
}

// statusFor maps error codes onto HTTP status codes.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	switch ferrors.ClassOf(err) {
	case ferrors.ClassInput:
		return http.StatusBadRequest
	case ferrors.ClassMissing:
		return http.StatusNotFound
	case ferrors.ClassOutcome:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
