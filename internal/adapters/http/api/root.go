// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
)

// RootDependencies defines the interface for the service descriptor.
type RootDependencies interface {
	LandmarkCount() int
	RecordingsPerProfile() int
}

// RootHandler handles root path requests.
type RootHandler struct {
	deps RootDependencies
}

// NewRootHandler creates a new root handler.
func NewRootHandler(deps RootDependencies) *RootHandler {
	return &RootHandler{deps: deps}
}

type serviceDescriptor struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
	Engine    engineDescriptor  `json:"engine"`
}

type engineDescriptor struct {
	LandmarkCount        int `json:"landmark_count"`
	RecordingsPerProfile int `json:"recordings_per_profile"`
}

// HandleRoot handles GET / requests with the service descriptor. Every
// unknown path falls through the mux to here and is answered with the JSON
// 404 envelope.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, fmt.Errorf("no route for %s", r.URL.Path))
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, serviceDescriptor{
		Name:    ServiceName,
		Version: ServiceVersion,
		Status:  "ok",
		Endpoints: map[string]string{
			"/v1/profile":  "POST: build a ghost profile from recordings",
			"/v1/score":    "POST: score a recording against a profile",
			"/v1/resample": "POST: resample a recording to a target length",
			"/v1/extract":  "POST: extract a recording from a video",
			"/healthz":     "GET: liveness and Prometheus metrics",
			"/stats":       "GET: operational counters",
			"/dashboard":   "GET: operations dashboard",
			"/api-docs":    "GET: API documentation",
		},
		Engine: engineDescriptor{
			LandmarkCount:        h.deps.LandmarkCount(),
			RecordingsPerProfile: h.deps.RecordingsPerProfile(),
		},
	})
}
