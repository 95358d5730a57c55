package handlers

import (
	"context"
	"net/http"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/amaumene/moviemate/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// Catalog serves the browse and search screens
type Catalog interface {
	GetList(ctx context.Context, kind tmdb.ListKind, mediaType models.MediaType, page int) (*tmdb.Page, error)
	SearchMulti(ctx context.Context, query string, page int) (*tmdb.Page, error)
	Search(ctx context.Context, mediaType models.MediaType, query string, page int) (*tmdb.Page, error)
	DiscoverByGenre(ctx context.Context, mediaType models.MediaType, genreID, page int) (*tmdb.Page, error)
}

// CatalogHandler proxies catalog lists from the metadata API
type CatalogHandler struct {
	catalog Catalog
	logger  *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog Catalog, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// List handles GET /api/catalog/{mediaType}/{list}
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	mediaType, err := models.ParseMediaType(r.PathValue("mediaType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.catalog.GetList(r.Context(), tmdb.ListKind(r.PathValue("list")), mediaType, page)
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to get catalog list")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Search handles GET /api/search?q=...&type=movie. Without a type both
// movies and shows are searched.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query().Get("q")
	var result *tmdb.Page
	if raw := r.URL.Query().Get("type"); raw != "" {
		mediaType, parseErr := models.ParseMediaType(raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		result, err = h.catalog.Search(r.Context(), mediaType, query, page)
	} else {
		result, err = h.catalog.SearchMulti(r.Context(), query, page)
	}
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to search")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Genre handles GET /api/genres/{mediaType}/{name}. Names are matched
// loosely so typos like "thriler" still resolve.
func (h *CatalogHandler) Genre(w http.ResponseWriter, r *http.Request) {
	mediaType, err := models.ParseMediaType(r.PathValue("mediaType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	genreID, ok := tmdb.GenreID(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown genre "+r.PathValue("name"))
		return
	}
	name, _ := tmdb.GenreName(genreID)

	result, err := h.catalog.DiscoverByGenre(r.Context(), mediaType, genreID, page)
	if err != nil {
		writeFailure(w, h.logger, err, "Failed to get genre listing")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"genre_id":   genreID,
		"genre_name": name,
		"page":       result,
	})
}
