package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cfbdemic/allies/internal/request"
)

// UserHandler handles user-facing identity requests
type UserHandler struct{}

// NewUserHandler creates a new user handler
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// RegisterRoutes registers user routes on the given router.
// The router should already have the /api prefix.
func (h *UserHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.Me).Methods("GET")
}

// Me returns the identity attached by the session gate. Unauthenticated
// requests get a 404, not a 401: the endpoint deliberately does not reveal
// whether it exists to anonymous callers.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := request.SessionFromContext(r)
	if session == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, session.Player())
}
