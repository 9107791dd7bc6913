// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/strideworks/ghostrun/internal/domain/motion"
)

// ExtractDependencies defines the interface for recording extraction.
type ExtractDependencies interface {
	ExtractRecording(ctx context.Context, path, view string) (motion.Recording, error)
}

// ExtractHandler handles recording extraction requests.
type ExtractHandler struct {
	deps ExtractDependencies
}

// NewExtractHandler creates a new extract handler.
func NewExtractHandler(deps ExtractDependencies) *ExtractHandler {
	return &ExtractHandler{deps: deps}
}

// extractRequest mirrors the OpenAPI schema for POST /v1/extract.
type extractRequest struct {
	VideoPath string `json:"video_path" validate:"required"`
	View      string `json:"view" validate:"required,oneof=posterior lateral"`
}

type extractResponse struct {
	Recording wireRecording `json:"recording"`
	View      string        `json:"view"`
}

// HandleExtract handles POST /v1/extract requests.
func (h *ExtractHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
		return
	}

	var req extractRequest
	if err := decodeJSON(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	rec, err := h.deps.ExtractRecording(r.Context(), req.VideoPath, req.View)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{Recording: recordingToWire(rec), View: req.View})
}
