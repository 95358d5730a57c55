package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/amaumene/moviemate/internal/store"
	"github.com/sirupsen/logrus"
)

// EpisodesHandler serves per-episode watched marks
type EpisodesHandler struct {
	store  *store.Store
	logger *logrus.Logger
}

// NewEpisodesHandler creates a new episodes handler
func NewEpisodesHandler(st *store.Store, logger *logrus.Logger) *EpisodesHandler {
	return &EpisodesHandler{store: st, logger: logger}
}

// EpisodeMark is one watched episode
type EpisodeMark struct {
	Season    int       `json:"season"`
	Episode   int       `json:"episode"`
	WatchedAt time.Time `json:"watched_at"`
}

// List handles GET /api/episodes/{showID}
func (h *EpisodesHandler) List(w http.ResponseWriter, r *http.Request) {
	showID, err := pathInt(r, "showID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	marks := []EpisodeMark{}
	for ep, at := range h.store.WatchedEpisodes(showID) {
		marks = append(marks, EpisodeMark{Season: ep.Season, Episode: ep.Episode, WatchedAt: at})
	}
	sort.Slice(marks, func(i, j int) bool {
		if marks[i].Season != marks[j].Season {
			return marks[i].Season < marks[j].Season
		}
		return marks[i].Episode < marks[j].Episode
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"show_id":  showID,
		"episodes": marks,
	})
}

func episodeFromPath(r *http.Request) (int, models.EpisodeRef, error) {
	showID, err := pathInt(r, "showID")
	if err != nil {
		return 0, models.EpisodeRef{}, err
	}
	season, err := pathInt(r, "season")
	if err != nil {
		return 0, models.EpisodeRef{}, err
	}
	episode, err := pathInt(r, "episode")
	if err != nil {
		return 0, models.EpisodeRef{}, err
	}
	return showID, models.EpisodeRef{Season: season, Episode: episode}, nil
}

// Mark handles PUT /api/episodes/{showID}/{season}/{episode}
func (h *EpisodesHandler) Mark(w http.ResponseWriter, r *http.Request) {
	showID, ep, err := episodeFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.MarkEpisodeWatched(showID, ep); err != nil {
		writeFailure(w, h.logger, err, "Failed to mark episode")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unmark handles DELETE /api/episodes/{showID}/{season}/{episode}
func (h *EpisodesHandler) Unmark(w http.ResponseWriter, r *http.Request) {
	showID, ep, err := episodeFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.UnmarkEpisode(showID, ep); err != nil {
		writeFailure(w, h.logger, err, "Failed to unmark episode")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
