package navigation

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/sirupsen/logrus"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c, err := NewController("movies", logger)
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return c
}

func TestDetailsThenBack(t *testing.T) {
	c := newTestController(t)

	if err := c.NavigateToDetails(42, models.MediaTypeMovie, "movies"); err != nil {
		t.Fatalf("NavigateToDetails failed: %v", err)
	}

	prev, ok := c.PreviousState()
	if !ok {
		t.Fatal("Expected a previous state")
	}
	if prev != TabState("movies") {
		t.Errorf("Expected tab:movies, got %s", prev.Describe())
	}
	// PreviousState must not pop
	if cur := c.Current(); cur.Type != KindDetails || cur.MediaID != 42 {
		t.Errorf("Expected details:42 still on top, got %s", cur.Describe())
	}

	tr, ok := c.Back()
	if !ok {
		t.Fatal("Expected back to succeed")
	}
	if tr.Active != TabState("movies") {
		t.Errorf("Expected tab:movies active, got %s", tr.Active.Describe())
	}
	if tr.Popped == nil || tr.Popped.MediaID != 42 {
		t.Errorf("Expected details:42 popped, got %+v", tr.Popped)
	}
	if _, ok := c.PreviousState(); ok {
		t.Error("Expected no previous state at the root")
	}
}

func TestTabSwitchResetsHistory(t *testing.T) {
	c := newTestController(t)

	if err := c.NavigateToDetails(42, models.MediaTypeMovie, ""); err != nil {
		t.Fatalf("NavigateToDetails failed: %v", err)
	}
	if err := c.NavigateToTab("tv"); err != nil {
		t.Fatalf("NavigateToTab failed: %v", err)
	}
	if err := c.NavigateToTab("search"); err != nil {
		t.Fatalf("NavigateToTab failed: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.History) != 1 || snap.History[0] != TabState("search") {
		t.Fatalf("Expected history [tab:search], got %+v", snap.History)
	}
	if _, ok := c.Back(); ok {
		t.Error("Back at a root tab must not bounce to a previous tab")
	}
	if c.CurrentTab() != "search" {
		t.Errorf("Expected current tab search, got %s", c.CurrentTab())
	}
}

func TestSourceTabDefaultsToCurrentTab(t *testing.T) {
	c := newTestController(t)

	if err := c.NavigateToTab("tv"); err != nil {
		t.Fatalf("NavigateToTab failed: %v", err)
	}
	if err := c.NavigateToDetails(1399, models.MediaTypeTV, ""); err != nil {
		t.Fatalf("NavigateToDetails failed: %v", err)
	}
	if got := c.Current().SourceTab; got != "tv" {
		t.Errorf("Expected source tab tv, got %q", got)
	}

	if err := c.NavigateToGenre(18, "Drama", "", models.MediaTypeTV); err != nil {
		t.Fatalf("NavigateToGenre failed: %v", err)
	}
	if got := c.Current().From; got != "tv" {
		t.Errorf("Expected genre from tv, got %q", got)
	}
}

func TestInvalidNavigationFailsFast(t *testing.T) {
	c := newTestController(t)
	before := c.Snapshot()

	cases := []error{
		c.NavigateToDetails(0, models.MediaTypeMovie, "movies"),
		c.NavigateToDetails(42, "anime", "movies"),
		c.NavigateToDetails(42, models.MediaTypeMovie, "nowhere"),
		c.NavigateToPerson(0),
		c.NavigateToGenre(0, "Drama", "movies", models.MediaTypeMovie),
		c.NavigateToGenre(18, "", "movies", models.MediaTypeMovie),
		c.NavigateToTab(""),
		c.PushModal(""),
	}
	for i, err := range cases {
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("case %d: expected ErrInvalidState, got %v", i, err)
		}
	}

	after := c.Snapshot()
	if len(after.History) != len(before.History) || after.Current != before.Current {
		t.Error("Rejected navigation must leave the history untouched")
	}
}

func TestModalsAreIndependentOfHistory(t *testing.T) {
	c := newTestController(t)

	if err := c.NavigateToDetails(550, models.MediaTypeMovie, "movies"); err != nil {
		t.Fatalf("NavigateToDetails failed: %v", err)
	}
	if err := c.PushModal("review-dialog"); err != nil {
		t.Fatalf("PushModal failed: %v", err)
	}
	if err := c.PushModal("context-menu"); err != nil {
		t.Fatalf("PushModal failed: %v", err)
	}

	if !c.RemoveModal("review-dialog") {
		t.Error("Expected review-dialog to be open")
	}
	if c.RemoveModal("review-dialog") {
		t.Error("Expected second removal to report false")
	}
	if cur := c.Current(); cur.MediaID != 550 {
		t.Errorf("Closing a modal must not navigate, got %s", cur.Describe())
	}

	// Back dismisses the remaining modal before touching history
	tr, ok := c.Back()
	if !ok || tr.DismissedModal != "context-menu" {
		t.Fatalf("Expected back to dismiss context-menu, got %+v", tr)
	}
	if cur := c.Current(); cur.MediaID != 550 {
		t.Errorf("Expected details still active, got %s", cur.Describe())
	}
	if len(c.Modals()) != 0 {
		t.Error("Expected no open modals")
	}
}

func TestForwardReappliesPoppedState(t *testing.T) {
	c := newTestController(t)

	if err := c.NavigateToDetails(42, models.MediaTypeMovie, "movies"); err != nil {
		t.Fatalf("NavigateToDetails failed: %v", err)
	}
	if err := c.NavigateToPerson(287); err != nil {
		t.Fatalf("NavigateToPerson failed: %v", err)
	}
	c.Back()
	c.Back()

	tr, ok := c.Forward()
	if !ok || tr.Active.MediaID != 42 {
		t.Fatalf("Expected forward to details:42, got %+v", tr)
	}
	tr, ok = c.Forward()
	if !ok || tr.Active.PersonID != 287 {
		t.Fatalf("Expected forward to person:287, got %+v", tr)
	}
	if _, ok := c.Forward(); ok {
		t.Error("Expected nothing left to redo")
	}

	// A fresh navigation clears the forward stack
	c.Back()
	if err := c.NavigateToPerson(819); err != nil {
		t.Fatalf("NavigateToPerson failed: %v", err)
	}
	if c.Snapshot().CanGoForward {
		t.Error("Expected forward stack cleared by new navigation")
	}
}

func TestSubscribersSeeChanges(t *testing.T) {
	c := newTestController(t)

	var seen []*State
	var events []Event
	cancel := c.Subscribe(func(e Event) {
		seen = append(seen, e.State)
		events = append(events, e)
	})

	if err := c.NavigateToDetails(42, models.MediaTypeMovie, "movies"); err != nil {
		t.Fatalf("NavigateToDetails failed: %v", err)
	}
	c.Back()
	cancel()
	if n := c.Subscribers(); n != 0 {
		t.Errorf("Expected no subscribers after cancel, got %d", n)
	}
	if err := c.NavigateToPerson(1); err != nil {
		t.Fatalf("NavigateToPerson failed: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(seen))
	}
	if seen[0] == nil || seen[0].MediaID != 42 {
		t.Errorf("Expected details notification, got %+v", seen[0])
	}
	if seen[1] != nil {
		t.Errorf("Expected nil notification for back, got %+v", seen[1])
	}
	if events[0].Seq != 1 || events[1].Seq != 2 {
		t.Errorf("Expected seqs 1 and 2, got %d and %d", events[0].Seq, events[1].Seq)
	}
	if events[0].Active.MediaID != 42 || events[1].Active != TabState("movies") {
		t.Errorf("Unexpected active states %+v and %+v", events[0].Active, events[1].Active)
	}
}

func TestConcurrentNavigationsArriveInOrder(t *testing.T) {
	c := newTestController(t)

	var mu sync.Mutex
	var events []Event
	c.Subscribe(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	const workers = 8
	const perWorker = 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if err := c.NavigateToPerson(w*perWorker + i + 1); err != nil {
					t.Errorf("NavigateToPerson failed: %v", err)
				}
				if i%3 == 0 {
					c.Back()
				}
			}
		}(w)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(events) == 0 {
		t.Fatal("Expected events")
	}
	for i, e := range events {
		if e.Seq != uint64(i+1) {
			t.Fatalf("Event %d has seq %d, expected %d", i, e.Seq, i+1)
		}
		if e.State != nil && *e.State != e.Active {
			t.Errorf("Event %d pushed %+v but reports active %+v", i, *e.State, e.Active)
		}
	}
	if last := events[len(events)-1]; last.Active != c.Current() {
		t.Errorf("Last event active %+v does not match current %+v", last.Active, c.Current())
	}
}

func TestTicketsGoStaleAfterNavigation(t *testing.T) {
	c := newTestController(t)

	if err := c.NavigateToDetails(42, models.MediaTypeMovie, "movies"); err != nil {
		t.Fatalf("NavigateToDetails failed: %v", err)
	}
	ticket := c.Ticket()
	if !c.IsCurrent(ticket) {
		t.Fatal("Fresh ticket must be current")
	}

	// Modals do not invalidate in-flight work
	if err := c.PushModal("review-dialog"); err != nil {
		t.Fatalf("PushModal failed: %v", err)
	}
	if !c.IsCurrent(ticket) {
		t.Error("Opening a modal must not invalidate the ticket")
	}

	c.Back()
	c.Back()
	if c.IsCurrent(ticket) {
		t.Error("Ticket must be stale after navigating back")
	}
}

func TestDuplicatePushIsIgnored(t *testing.T) {
	c := newTestController(t)

	for i := 0; i < 3; i++ {
		if err := c.NavigateToDetails(42, models.MediaTypeMovie, "movies"); err != nil {
			t.Fatalf("NavigateToDetails failed: %v", err)
		}
	}
	if n := len(c.Snapshot().History); n != 2 {
		t.Errorf("Expected history depth 2, got %d", n)
	}
}
