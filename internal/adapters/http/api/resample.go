// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/strideworks/ghostrun/internal/domain/motion"
)

// ResampleDependencies defines the interface for resample dependencies.
type ResampleDependencies interface {
	LandmarkCount() int
	Resample(ctx context.Context, rec motion.Recording, targetLength int) (motion.Recording, error)
}

// ResampleHandler handles resample requests.
type ResampleHandler struct {
	deps ResampleDependencies
}

// NewResampleHandler creates a new resample handler.
func NewResampleHandler(deps ResampleDependencies) *ResampleHandler {
	return &ResampleHandler{deps: deps}
}

// resampleRequest mirrors the OpenAPI schema for POST /v1/resample.
type resampleRequest struct {
	Recording    wireRecording `json:"recording" validate:"required"`
	TargetLength int           `json:"target_length" validate:"required,gte=1"`
}

type resampleResponse struct {
	Recording wireRecording `json:"recording"`
}

// HandleResample handles POST /v1/resample requests.
func (h *ResampleHandler) HandleResample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
		return
	}

	var req resampleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	rec, err := req.Recording.toDomain(h.deps.LandmarkCount())
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("recording: %w", err))
		return
	}

	out, err := h.deps.Resample(r.Context(), rec, req.TargetLength)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resampleResponse{Recording: recordingToWire(out)})
}
