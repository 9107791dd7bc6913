// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/strideworks/ghostrun/internal/domain/ghost"
	"github.com/strideworks/ghostrun/internal/domain/motion"
)

// ProfileDependencies defines the interface for profile build dependencies.
type ProfileDependencies interface {
	LandmarkCount() int
	RecordingsPerProfile() int
	BuildProfile(ctx context.Context, recordings []motion.Recording, targetFrames int) (ghost.Profile, error)
}

// ProfileHandler handles profile build requests.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

// buildProfileRequest mirrors the OpenAPI schema for POST /v1/profile. A nil
// TargetFrameCount selects the mean length of the recordings.
type buildProfileRequest struct {
	Recordings       []wireRecording `json:"recordings" validate:"required,dive"`
	TargetFrameCount *int            `json:"target_frame_count" validate:"omitempty,gte=1"`
}

// HandleBuildProfile handles POST /v1/profile requests.
func (h *ProfileHandler) HandleBuildProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
		return
	}

	var req buildProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	if want := h.deps.RecordingsPerProfile(); len(req.Recordings) != want {
		writeError(w, http.StatusBadRequest,
			fmt.Errorf("%w: a profile build needs exactly %d recordings, got %d", ErrBadRequest, want, len(req.Recordings)))
		return
	}

	recordings := make([]motion.Recording, len(req.Recordings))
	for i, wr := range req.Recordings {
		rec, err := wr.toDomain(h.deps.LandmarkCount())
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("recording %d: %w", i, err))
			return
		}
		recordings[i] = rec
	}

	target := 0
	if req.TargetFrameCount != nil {
		target = *req.TargetFrameCount
	}

	profile, err := h.deps.BuildProfile(r.Context(), recordings, target)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileToWire(profile))
}
