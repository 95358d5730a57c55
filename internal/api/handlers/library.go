package handlers

import (
	"net/http"

	"github.com/amaumene/moviemate/internal/controllers"
	"github.com/amaumene/moviemate/internal/models"
	"github.com/amaumene/moviemate/internal/store"
	"github.com/sirupsen/logrus"
)

// LibraryHandler serves the want and watched lists
type LibraryHandler struct {
	store   *store.Store
	library *controllers.LibraryController
	logger  *logrus.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(st *store.Store, library *controllers.LibraryController, logger *logrus.Logger) *LibraryHandler {
	return &LibraryHandler{
		store:   st,
		library: library,
		logger:  logger,
	}
}

// ListResponse is one user list
type ListResponse struct {
	List    models.Membership `json:"list"`
	Count   int               `json:"count"`
	Entries []models.Entry    `json:"entries"`
}

// TitleResponse is the user state of one title
type TitleResponse struct {
	Ref        models.MediaRef   `json:"ref"`
	Membership models.Membership `json:"membership"`
	Entry      *models.Entry     `json:"entry,omitempty"`
	Review     *models.Review    `json:"review,omitempty"`
}

// List handles GET /api/library/{list}
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	list := models.Membership(r.PathValue("list"))
	if list != models.MembershipWant && list != models.MembershipWatched {
		writeError(w, http.StatusBadRequest, "list must be want or watched")
		return
	}

	entries := h.store.Entries(list)
	if entries == nil {
		entries = []models.Entry{}
	}
	writeJSON(w, http.StatusOK, ListResponse{List: list, Count: len(entries), Entries: entries})
}

// Get handles GET /api/library/{mediaType}/{id}
func (h *LibraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref, err := mediaRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.title(ref))
}

func (h *LibraryHandler) title(ref models.MediaRef) TitleResponse {
	response := TitleResponse{Ref: ref, Membership: h.store.State(ref)}
	if entry, ok := h.store.Entry(ref); ok {
		response.Entry = &entry
	}
	if review, ok := h.store.Review(models.TitleReviewKey(ref)); ok {
		response.Review = &review
	}
	return response
}

// Action handles POST /api/library/{mediaType}/{id}/{action}
func (h *LibraryHandler) Action(w http.ResponseWriter, r *http.Request) {
	ref, err := mediaRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	action := r.PathValue("action")
	switch action {
	case "want":
		_, err = h.library.Want(ref)
	case "watched":
		_, err = h.library.MarkWatched(ref)
	case "move-to-watched":
		_, err = h.library.MoveToWatched(ref)
	case "move-to-want":
		_, err = h.library.MoveToWant(ref)
	case "remove-from-want":
		_, err = h.library.RemoveFromWant(ref)
	case "remove-from-watched":
		_, err = h.library.RemoveFromWatched(ref)
	default:
		writeError(w, http.StatusNotFound, "unknown action "+action)
		return
	}
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to update library")
		return
	}

	writeJSON(w, http.StatusOK, h.title(ref))
}
