package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/moviemate/internal/controllers"
	"github.com/amaumene/moviemate/internal/models"
	"github.com/amaumene/moviemate/internal/store"
	"github.com/sirupsen/logrus"
)

// ReviewsHandler serves title and season reviews
type ReviewsHandler struct {
	store   *store.Store
	library *controllers.LibraryController
	logger  *logrus.Logger
}

// NewReviewsHandler creates a new reviews handler
func NewReviewsHandler(st *store.Store, library *controllers.LibraryController, logger *logrus.Logger) *ReviewsHandler {
	return &ReviewsHandler{
		store:   st,
		library: library,
		logger:  logger,
	}
}

// ReviewRequest is the review dialog submission
type ReviewRequest struct {
	Rating    models.Rating `json:"rating"`
	Text      string        `json:"text"`
	Shared    bool          `json:"shared"`
	CreatedAt time.Time     `json:"created_at,omitempty"`
}

// ReviewResponse reports the review stored under a key, if any
type ReviewResponse struct {
	Key    string         `json:"key"`
	Review *models.Review `json:"review,omitempty"`
}

// reviewKey reads {mediaType}/{id} and the optional season query parameter
func reviewKey(r *http.Request) (models.ReviewKey, error) {
	ref, err := mediaRef(r)
	if err != nil {
		return models.ReviewKey{}, err
	}
	season, err := queryInt(r, "season", 0)
	if err != nil {
		return models.ReviewKey{}, err
	}

	key := models.ReviewKey{Ref: ref, Season: season}
	if !key.Valid() {
		return models.ReviewKey{}, fmt.Errorf("seasons can only be reviewed on tv shows")
	}
	return key, nil
}

func (h *ReviewsHandler) respond(w http.ResponseWriter, key models.ReviewKey) {
	response := ReviewResponse{Key: key.String()}
	if review, ok := h.store.Review(key); ok {
		response.Review = &review
	}
	writeJSON(w, http.StatusOK, response)
}

// Get handles GET /api/reviews/{mediaType}/{id}
func (h *ReviewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := reviewKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := h.store.Review(key); !ok {
		writeError(w, http.StatusNotFound, "no review for "+key.String())
		return
	}
	h.respond(w, key)
}

// Put handles PUT /api/reviews/{mediaType}/{id}. Rating "X" deletes.
func (h *ReviewsHandler) Put(w http.ResponseWriter, r *http.Request) {
	key, err := reviewKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	review := models.Review{Rating: req.Rating, Text: req.Text, Shared: req.Shared, CreatedAt: req.CreatedAt}
	if _, err := h.library.SubmitReview(key, review); err != nil {
		writeFailure(w, h.logger, err, "Failed to save review")
		return
	}
	h.respond(w, key)
}

// Patch handles PATCH /api/reviews/{mediaType}/{id}
func (h *ReviewsHandler) Patch(w http.ResponseWriter, r *http.Request) {
	key, err := reviewKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.library.EditReview(key, req.Rating, req.Text, req.Shared); err != nil {
		writeFailure(w, h.logger, err, "Failed to edit review")
		return
	}
	h.respond(w, key)
}

// Delete handles DELETE /api/reviews/{mediaType}/{id}
func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, err := reviewKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.library.SubmitReview(key, models.Review{Rating: models.RatingDelete}); err != nil {
		writeFailure(w, h.logger, err, "Failed to remove review")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
