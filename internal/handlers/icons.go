package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cfbdemic/allies/internal/icons"
)

// IconsHandler serves the icon catalog built at startup
type IconsHandler struct {
	registry *icons.Registry
}

// NewIconsHandler creates a new icons handler
func NewIconsHandler(registry *icons.Registry) *IconsHandler {
	return &IconsHandler{registry: registry}
}

// RegisterRoutes registers icon routes on the given router.
// The router should already have the /api prefix.
func (h *IconsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/icons", h.GetManifest).Methods("GET")
}

// GetManifest returns the icon manifest consumed by the frontend
func (h *IconsHandler) GetManifest(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.registry.Manifest())
}
