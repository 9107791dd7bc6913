// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/strideworks/ghostrun/internal/app"
	"github.com/strideworks/ghostrun/internal/domain/ghost"
	"github.com/strideworks/ghostrun/internal/domain/motion"
	"github.com/strideworks/ghostrun/internal/domain/score"
)

// Service identity reported on the root descriptor and profile responses.
const (
	ServiceName    = "ghostrun"
	ServiceVersion = "1.0.0"
	profileSource  = "engine"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// LandmarkCount reports the number of points expected per snapshot.
	LandmarkCount() int

	// RecordingsPerProfile reports the exact number of recordings a
	// profile build consumes.
	RecordingsPerProfile() int

	// BuildProfile builds a ghost profile from recordings.
	BuildProfile(ctx context.Context, recordings []motion.Recording, targetFrames int) (ghost.Profile, error)

	// ScoreRun evaluates a recording against a profile.
	ScoreRun(ctx context.Context, rec motion.Recording, profile ghost.Profile) (score.Result, error)

	// Resample resamples a recording to an exact target length.
	Resample(ctx context.Context, rec motion.Recording, targetLength int) (motion.Recording, error)

	// ExtractRecording produces a recording from an uploaded video.
	ExtractRecording(ctx context.Context, path, view string) (motion.Recording, error)
}

// Server wires HTTP routes for the engine API.
type Server struct {
	profileHandler   *ProfileHandler
	scoreHandler     *ScoreHandler
	resampleHandler  *ResampleHandler
	extractHandler   *ExtractHandler
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	rootHandler      *RootHandler
	dashboardHandler *dashboardHandler

	maxBodyBytes int64
}

// NewServer creates a new API server with all handlers. maxBodyBytes bounds
// every request body; zero disables the limit.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBodyBytes int64) *Server {
	return &Server{
		profileHandler:   NewProfileHandler(deps),
		scoreHandler:     NewScoreHandler(deps),
		resampleHandler:  NewResampleHandler(deps),
		extractHandler:   NewExtractHandler(deps),
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		rootHandler:      NewRootHandler(deps),
		dashboardHandler: newDashboardHandler(),
		maxBodyBytes:     maxBodyBytes,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	wrap := func(next http.HandlerFunc, endpoint string) http.HandlerFunc {
		return MetricsMiddleware(RequestIDMiddleware(CORSMiddleware(BodyLimitMiddleware(next, s.maxBodyBytes))), endpoint)
	}

	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/v1/profile", wrap(s.profileHandler.HandleBuildProfile, "profile"))
	mux.HandleFunc("/v1/score", wrap(s.scoreHandler.HandleScoreRun, "score"))
	mux.HandleFunc("/v1/resample", wrap(s.resampleHandler.HandleResample, "resample"))
	mux.HandleFunc("/v1/extract", wrap(s.extractHandler.HandleExtract, "extract"))
	mux.HandleFunc("/healthz", wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", wrap(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/", wrap(s.rootHandler.HandleRoot, "root"))
}

// errorResponse mirrors the wire error envelope: the HTTP status code plus a
// kind-prefixed message.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}

// writeEngineError translates engine sentinels into their HTTP statuses:
// invalid input 400, unavailable extraction 503, computation failures and
// everything unrecognized 500.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, motion.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrExtractionUnavailable):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

// writeRequestError maps body decode failures: an exceeded body limit is
// 413, everything else 400.
func writeRequestError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	writeError(w, http.StatusBadRequest, err)
}
