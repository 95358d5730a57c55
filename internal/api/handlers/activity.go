package handlers

import (
	"net/http"

	"github.com/amaumene/moviemate/internal/controllers"
	"github.com/sirupsen/logrus"
)

const defaultActivityLimit = 50

// ActivityHandler serves the activity feed
type ActivityHandler struct {
	library *controllers.LibraryController
	logger  *logrus.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(library *controllers.LibraryController, logger *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{library: library, logger: logger}
}

// ServeHTTP handles GET /api/activity?limit=N
func (h *ActivityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultActivityLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	activities, err := h.library.Activities(limit)
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to get activities")
		return
	}
	writeJSON(w, http.StatusOK, activities)
}
