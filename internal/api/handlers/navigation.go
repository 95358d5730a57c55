package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/amaumene/moviemate/internal/navigation"
	"github.com/sirupsen/logrus"
)

// maxNavEvents is the number of navigation events kept for polling clients
const maxNavEvents = 100

// NavEvent is one active-state change. State is nil when the history was
// popped; Active is the state shown afterwards.
type NavEvent struct {
	Seq    uint64            `json:"seq"`
	State  *navigation.State `json:"state"`
	Active navigation.State  `json:"active"`
	At     time.Time         `json:"at"`
}

// NavigationHandler exposes the navigation controller and an event log of
// its changes
type NavigationHandler struct {
	nav         *navigation.Controller
	logger      *logrus.Logger
	unsubscribe func()

	mu     sync.Mutex
	seq    uint64
	events []NavEvent
}

// NewNavigationHandler creates a new navigation handler subscribed to nav.
// Close detaches it.
func NewNavigationHandler(nav *navigation.Controller, logger *logrus.Logger) *NavigationHandler {
	h := &NavigationHandler{nav: nav, logger: logger}
	h.unsubscribe = nav.Subscribe(h.record)
	return h
}

// Close stops recording navigation events
func (h *NavigationHandler) Close() {
	h.unsubscribe()
}

func (h *NavigationHandler) record(event navigation.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq = event.Seq
	h.events = append(h.events, NavEvent{Seq: event.Seq, State: event.State, Active: event.Active, At: time.Now()})
	if len(h.events) > maxNavEvents {
		h.events = h.events[len(h.events)-maxNavEvents:]
	}
}

// Snapshot handles GET /api/nav
func (h *NavigationHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.nav.Snapshot())
}

// Events handles GET /api/nav/events?after=N
func (h *NavigationHandler) Events(w http.ResponseWriter, r *http.Request) {
	after, err := queryInt(r, "after", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	events := []NavEvent{}
	for _, event := range h.events {
		if event.Seq > uint64(after) {
			events = append(events, event)
		}
	}
	latest := h.seq
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"latest": latest,
		"events": events,
	})
}

// NavigateRequest carries the fields of every navigation target
type NavigateRequest struct {
	Name      string           `json:"name"`
	MediaID   int              `json:"media_id"`
	MediaType models.MediaType `json:"media_type"`
	SourceTab string           `json:"source_tab"`
	PersonID  int              `json:"person_id"`
	GenreID   int              `json:"genre_id"`
	GenreName string           `json:"genre_name"`
	From      string           `json:"from"`
	Element   string           `json:"element"`
}

// Navigate handles POST /api/nav/{kind}
func (h *NavigationHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var err error
	switch navigation.Kind(r.PathValue("kind")) {
	case navigation.KindTab:
		err = h.nav.NavigateToTab(req.Name)
	case navigation.KindDetails:
		err = h.nav.NavigateToDetails(req.MediaID, req.MediaType, req.SourceTab)
	case navigation.KindPerson:
		err = h.nav.NavigateToPerson(req.PersonID)
	case navigation.KindGenre:
		err = h.nav.NavigateToGenre(req.GenreID, req.GenreName, req.From, req.MediaType)
	case navigation.KindModal:
		err = h.nav.PushModal(req.Element)
	default:
		writeError(w, http.StatusNotFound, "unknown navigation target "+r.PathValue("kind"))
		return
	}
	if err != nil {
		h.logger.WithError(err).Debug("Navigation rejected")
		writeFailure(w, h.logger, err, "Failed to navigate")
		return
	}

	writeJSON(w, http.StatusOK, h.nav.Snapshot())
}

// CloseModal handles DELETE /api/nav/modal/{element}
func (h *NavigationHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	if !h.nav.RemoveModal(r.PathValue("element")) {
		writeError(w, http.StatusNotFound, "modal is not open")
		return
	}
	writeJSON(w, http.StatusOK, h.nav.Snapshot())
}

// TransitionResponse reports the outcome of a back or forward signal
type TransitionResponse struct {
	Moved      bool                  `json:"moved"`
	Transition navigation.Transition `json:"transition"`
	Snapshot   navigation.Snapshot   `json:"snapshot"`
}

// Back handles POST /api/nav/back
func (h *NavigationHandler) Back(w http.ResponseWriter, r *http.Request) {
	transition, moved := h.nav.Back()
	writeJSON(w, http.StatusOK, TransitionResponse{Moved: moved, Transition: transition, Snapshot: h.nav.Snapshot()})
}

// Forward handles POST /api/nav/forward
func (h *NavigationHandler) Forward(w http.ResponseWriter, r *http.Request) {
	transition, moved := h.nav.Forward()
	writeJSON(w, http.StatusOK, TransitionResponse{Moved: moved, Transition: transition, Snapshot: h.nav.Snapshot()})
}
