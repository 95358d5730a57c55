package handlers

import (
	"net/http"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/amaumene/moviemate/internal/navigation"
	"github.com/amaumene/moviemate/internal/store"
	"github.com/sirupsen/logrus"
)

// StatusHandler handles status requests
type StatusHandler struct {
	store  *store.Store
	nav    *navigation.Controller
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(st *store.Store, nav *navigation.Controller, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		store:  st,
		nav:    nav,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	Want           int              `json:"want"`
	Watched        int              `json:"watched"`
	CurrentTab     string           `json:"current_tab"`
	Current        navigation.State `json:"current"`
	OpenModals     int              `json:"open_modals"`
	NavSubscribers int              `json:"nav_subscribers"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	counts := h.store.Counts()
	snap := h.nav.Snapshot()

	writeJSON(w, http.StatusOK, StatusResponse{
		Want:           counts[models.MembershipWant],
		Watched:        counts[models.MembershipWatched],
		CurrentTab:     snap.CurrentTab,
		Current:        snap.Current,
		OpenModals:     len(snap.Modals),
		NavSubscribers: h.nav.Subscribers(),
	})
}
