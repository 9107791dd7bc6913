// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"embed"
	"io/fs"
	"net/http"
)

// The dashboard ships inside the binary so the service stays a single
// artifact. The page polls /stats and /healthz and renders the engine gauges.
//
//go:embed static/* static/**
var staticAssets embed.FS

// dashboardFS exposes a sub-filesystem rooted at static/.
var dashboardFS fs.FS = func() fs.FS {
	sub, err := fs.Sub(staticAssets, "static")
	if err != nil {
		return staticAssets
	}
	return sub
}()

// dashboardHandler serves the embedded metrics dashboard.
type dashboardHandler struct{}

func newDashboardHandler() *dashboardHandler {
	return &dashboardHandler{}
}

// HandleDashboard handles GET /dashboard requests with a self-contained HTML
// page that visualizes profile builds, scoring latency, and error rates.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, dashboardFS, "dashboard.html")
}
