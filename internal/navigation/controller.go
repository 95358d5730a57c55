// Package navigation keeps the screen history of the client and reports which
// state is active after each user action or external back/forward signal.
package navigation

import (
	"fmt"
	"sync"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/sirupsen/logrus"
)

// Event describes one active-state change. Seq is the navigation generation
// the change produced. State is the state pushed, or nil when the history was
// popped; Active is the state shown right after the change.
type Event struct {
	Seq    uint64 `json:"seq"`
	State  *State `json:"state"`
	Active State  `json:"active"`
}

// Subscriber is notified whenever the active state changes. Events arrive in
// Seq order.
type Subscriber func(event Event)

// Transition reports the outcome of a back or forward signal
type Transition struct {
	Active         State  `json:"active"`
	Popped         *State `json:"popped,omitempty"`
	DismissedModal string `json:"dismissed_modal,omitempty"`
}

// Ticket tags work started for one navigation generation
type Ticket struct {
	Generation uint64
	State      State
}

// Snapshot is a read-only view of the controller
type Snapshot struct {
	Current      State    `json:"current"`
	Previous     *State   `json:"previous,omitempty"`
	CurrentTab   string   `json:"current_tab"`
	History      []State  `json:"history"`
	Modals       []string `json:"modals"`
	CanGoBack    bool     `json:"can_go_back"`
	CanGoForward bool     `json:"can_go_forward"`
}

// Controller owns the navigation history stack. It is safe for concurrent use.
type Controller struct {
	mu         sync.Mutex
	history    []State
	forward    []State
	currentTab string
	modals     []string
	generation uint64

	subscribers map[int]Subscriber
	nextSubID   int
	pending     []Event
	delivering  bool
	logger      *logrus.Logger
}

// NewController creates a controller showing initialTab
func NewController(initialTab string, logger *logrus.Logger) (*Controller, error) {
	root := TabState(initialTab)
	if err := root.Validate(); err != nil {
		return nil, err
	}

	return &Controller{
		history:     []State{root},
		currentTab:  initialTab,
		subscribers: make(map[int]Subscriber),
		logger:      logger,
	}, nil
}

// Subscribe registers fn for active-state changes and returns a cancel func
func (c *Controller) Subscribe(fn Subscriber) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Subscribers returns the number of registered subscribers
func (c *Controller) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subscribers)
}

// enqueue records the change just made; the caller must hold the lock
func (c *Controller) enqueue(state *State) {
	event := Event{Seq: c.generation, Active: c.history[len(c.history)-1]}
	if state != nil {
		copied := *state
		event.State = &copied
	}
	c.pending = append(c.pending, event)
}

// publish delivers queued events without holding the lock. A single goroutine
// drains the queue at a time, so concurrent navigations reach subscribers in
// the order they were applied.
func (c *Controller) publish() {
	c.mu.Lock()
	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true

	for len(c.pending) > 0 {
		event := c.pending[0]
		c.pending = c.pending[1:]
		subs := make([]Subscriber, 0, len(c.subscribers))
		for _, fn := range c.subscribers {
			subs = append(subs, fn)
		}
		c.mu.Unlock()

		for _, fn := range subs {
			delivered := event
			if event.State != nil {
				copied := *event.State
				delivered.State = &copied
			}
			fn(delivered)
		}
		c.mu.Lock()
	}
	c.delivering = false
	c.mu.Unlock()
}

// NavigateToTab shows a root tab. The history is reset to that single tab so
// back never bounces through previously visited tabs.
func (c *Controller) NavigateToTab(name string) error {
	state := TabState(name)
	if err := state.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if len(c.history) == 1 && c.history[0] == state {
		c.currentTab = name
		c.mu.Unlock()
		return nil
	}
	c.history = []State{state}
	c.forward = nil
	c.currentTab = name
	c.generation++
	c.enqueue(&state)
	c.mu.Unlock()

	c.logger.WithField("tab", name).Debug("Navigated to tab")
	c.publish()
	return nil
}

// NavigateToDetails shows a title. An empty sourceTab means the current tab.
func (c *Controller) NavigateToDetails(mediaID int, mediaType models.MediaType, sourceTab string) error {
	if sourceTab == "" {
		sourceTab = c.CurrentTab()
	}
	return c.push(DetailsState(mediaID, mediaType, sourceTab))
}

// NavigateToPerson shows a cast or crew member
func (c *Controller) NavigateToPerson(personID int) error {
	return c.push(PersonState(personID))
}

// NavigateToGenre shows a genre listing. An empty from means the current tab.
func (c *Controller) NavigateToGenre(genreID int, genreName, from string, mediaType models.MediaType) error {
	if from == "" {
		from = c.CurrentTab()
	}
	return c.push(GenreState(genreID, genreName, from, mediaType))
}

func (c *Controller) push(state State) error {
	if err := state.Validate(); err != nil {
		c.logger.WithError(err).Warn("Rejected navigation")
		return err
	}

	c.mu.Lock()
	if c.history[len(c.history)-1] == state {
		c.mu.Unlock()
		return nil
	}
	c.history = append(c.history, state)
	c.forward = nil
	c.generation++
	c.enqueue(&state)
	depth := len(c.history)
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"state": state.Describe(),
		"depth": depth,
	}).Debug("Navigated")
	c.publish()
	return nil
}

// PushModal records an open overlay. Modals live outside the history stack.
func (c *Controller) PushModal(element string) error {
	if err := (State{Type: KindModal, Element: element}).Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, open := range c.modals {
		if open == element {
			return nil
		}
	}
	c.modals = append(c.modals, element)
	return nil
}

// RemoveModal forgets an overlay and reports whether it was open
func (c *Controller) RemoveModal(element string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, open := range c.modals {
		if open == element {
			c.modals = append(c.modals[:i], c.modals[i+1:]...)
			return true
		}
	}
	return false
}

// Modals lists open overlays, oldest first
func (c *Controller) Modals() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.modals...)
}

// Back interprets an external back signal. An open modal is dismissed first;
// otherwise the top of the history is popped. It returns false at the root.
func (c *Controller) Back() (Transition, bool) {
	c.mu.Lock()
	if n := len(c.modals); n > 0 {
		dismissed := c.modals[n-1]
		c.modals = c.modals[:n-1]
		active := c.history[len(c.history)-1]
		c.mu.Unlock()

		c.logger.WithField("modal", dismissed).Debug("Back dismissed modal")
		return Transition{Active: active, DismissedModal: dismissed}, true
	}

	if len(c.history) < 2 {
		c.mu.Unlock()
		return Transition{Active: c.history[0]}, false
	}

	popped := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	c.forward = append(c.forward, popped)
	c.generation++
	c.enqueue(nil)
	active := c.history[len(c.history)-1]
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"popped": popped.Describe(),
		"active": active.Describe(),
	}).Debug("Navigated back")
	c.publish()
	return Transition{Active: active, Popped: &popped}, true
}

// Forward interprets an external forward signal, re-applying the last state
// undone by Back. It returns false when there is nothing to redo.
func (c *Controller) Forward() (Transition, bool) {
	c.mu.Lock()
	n := len(c.forward)
	if n == 0 {
		active := c.history[len(c.history)-1]
		c.mu.Unlock()
		return Transition{Active: active}, false
	}

	state := c.forward[n-1]
	c.forward = c.forward[:n-1]
	c.history = append(c.history, state)
	c.generation++
	c.enqueue(&state)
	c.mu.Unlock()

	c.logger.WithField("state", state.Describe()).Debug("Navigated forward")
	c.publish()
	return Transition{Active: state}, true
}

// Current returns the active state
func (c *Controller) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history[len(c.history)-1]
}

// CurrentTab returns the tab last shown, which details and genre screens
// fall back to
func (c *Controller) CurrentTab() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentTab
}

// PreviousState returns the entry beneath the top without popping it
func (c *Controller) PreviousState() (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) < 2 {
		return State{}, false
	}
	return c.history[len(c.history)-2], true
}

// Ticket captures the active state and its generation
func (c *Controller) Ticket() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Ticket{Generation: c.generation, State: c.history[len(c.history)-1]}
}

// IsCurrent reports whether no navigation happened since the ticket was taken
func (c *Controller) IsCurrent(t Ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return t.Generation == c.generation
}

// Snapshot returns a copy of the controller state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Current:      c.history[len(c.history)-1],
		CurrentTab:   c.currentTab,
		History:      append([]State(nil), c.history...),
		Modals:       append([]string{}, c.modals...),
		CanGoBack:    len(c.history) > 1 || len(c.modals) > 0,
		CanGoForward: len(c.forward) > 0,
	}
	if len(c.history) > 1 {
		prev := c.history[len(c.history)-2]
		snap.Previous = &prev
	}
	return snap
}

func (t Ticket) String() string {
	return fmt.Sprintf("%s@%d", t.State.Describe(), t.Generation)
}
