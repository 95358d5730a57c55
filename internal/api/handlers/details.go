package handlers

import (
	"net/http"

	"github.com/amaumene/moviemate/internal/controllers"
	"github.com/sirupsen/logrus"
)

// DetailsHandler serves the content of the active screen
type DetailsHandler struct {
	details *controllers.DetailsController
	logger  *logrus.Logger
}

// NewDetailsHandler creates a new details handler
func NewDetailsHandler(details *controllers.DetailsController, logger *logrus.Logger) *DetailsHandler {
	return &DetailsHandler{details: details, logger: logger}
}

// ServeHTTP handles GET /api/details?page=N
func (h *DetailsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.details.Load(r.Context(), page)
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to load screen")
		return
	}
	writeJSON(w, http.StatusOK, view)
}
