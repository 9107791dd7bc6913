// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/strideworks/ghostrun/internal/domain/ghost"
	"github.com/strideworks/ghostrun/internal/domain/motion"
	"github.com/strideworks/ghostrun/internal/domain/score"
)

// ScoreDependencies defines the interface for run scoring dependencies.
type ScoreDependencies interface {
	LandmarkCount() int
	ScoreRun(ctx context.Context, rec motion.Recording, profile ghost.Profile) (score.Result, error)
}

// ScoreHandler handles run scoring requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// scoreRunRequest mirrors the OpenAPI schema for POST /v1/score.
type scoreRunRequest struct {
	Recording wireRecording `json:"recording" validate:"required"`
	Profile   wireProfile   `json:"profile" validate:"required"`
}

type scoreRunResponse struct {
	TotalError           float64   `json:"total_error"`
	MeanError            float64   `json:"mean_error"`
	MaxError             float64   `json:"max_error"`
	FrameErrors          []float64 `json:"frame_errors"`
	NormalizedFrameCount int       `json:"normalized_frame_count"`
}

// HandleScoreRun handles POST /v1/score requests.
func (h *ScoreHandler) HandleScoreRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
		return
	}

	var req scoreRunRequest
	if err := decodeJSON(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	landmarks := h.deps.LandmarkCount()
	rec, err := req.Recording.toDomain(landmarks)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("recording: %w", err))
		return
	}
	profile, err := req.Profile.toDomain(landmarks)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("profile: %w", err))
		return
	}

	result, err := h.deps.ScoreRun(r.Context(), rec, profile)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scoreRunResponse{
		TotalError:           result.TotalError,
		MeanError:            result.MeanError,
		MaxError:             result.MaxError,
		FrameErrors:          result.FrameErrors,
		NormalizedFrameCount: result.FrameCount,
	})
}
