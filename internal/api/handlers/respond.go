package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/amaumene/moviemate/internal/controllers"
	"github.com/amaumene/moviemate/internal/models"
	"github.com/amaumene/moviemate/internal/navigation"
	"github.com/amaumene/moviemate/internal/services/tmdb"
	"github.com/amaumene/moviemate/internal/store"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// statusForError maps domain errors onto HTTP status codes
func statusForError(err error) int {
	var apiErr *tmdb.APIError
	switch {
	case errors.Is(err, navigation.ErrInvalidState),
		errors.Is(err, store.ErrInvalidRef),
		errors.Is(err, store.ErrInvalidReview),
		errors.Is(err, controllers.ErrNothingToLoad),
		errors.Is(err, tmdb.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, controllers.ErrNoReview),
		errors.Is(err, tmdb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, controllers.ErrStale):
		return http.StatusConflict
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeFailure logs server-side failures and answers with the mapped status
func writeFailure(w http.ResponseWriter, logger *logrus.Logger, err error, message string) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).Error(message)
		writeError(w, status, message)
		return
	}
	writeError(w, status, err.Error())
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func pathInt(r *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(r.PathValue(name))
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, r.PathValue(name))
	}
	return value, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return value, nil
}

// mediaRef reads {mediaType}/{id} path values
func mediaRef(r *http.Request) (models.MediaRef, error) {
	mediaType, err := models.ParseMediaType(r.PathValue("mediaType"))
	if err != nil {
		return models.MediaRef{}, err
	}
	id, err := pathInt(r, "id")
	if err != nil {
		return models.MediaRef{}, err
	}
	return models.MediaRef{ID: id, MediaType: mediaType}, nil
}
