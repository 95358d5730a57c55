package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/amaumene/moviemate/internal/progress"
	"github.com/sirupsen/logrus"
)

// maxBatchShows caps the ids accepted by one batch request
const maxBatchShows = 100

// ProgressHandler serves show watch progress
type ProgressHandler struct {
	progress *progress.Service
	logger   *logrus.Logger
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(svc *progress.Service, logger *logrus.Logger) *ProgressHandler {
	return &ProgressHandler{progress: svc, logger: logger}
}

// Show handles GET /api/progress/{showID}
func (h *ProgressHandler) Show(w http.ResponseWriter, r *http.Request) {
	showID, err := pathInt(r, "showID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.progress.ShowProgress(r.Context(), showID))
}

// Batch handles GET /api/progress?ids=1399,1396
func (h *ProgressHandler) Batch(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "ids is required")
		return
	}

	parts := strings.Split(raw, ",")
	if len(parts) > maxBatchShows {
		writeError(w, http.StatusBadRequest, "too many ids")
		return
	}

	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid show id "+part)
			return
		}
		ids = append(ids, id)
	}

	writeJSON(w, http.StatusOK, h.progress.BatchShowProgress(r.Context(), ids))
}

// Refresh handles POST /api/progress/{showID}/refresh, dropping the cached
// episode list before recomputing
func (h *ProgressHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	showID, err := pathInt(r, "showID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.progress.Invalidate(showID)
	writeJSON(w, http.StatusOK, h.progress.ShowProgress(r.Context(), showID))
}
