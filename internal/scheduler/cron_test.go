package scheduler

import (
	"context"
	"io"
	"reflect"
	"sync"
	"testing"

	"github.com/amaumene/moviemate/internal/models"
	"github.com/sirupsen/logrus"
)

type fakeLibrary map[models.Membership][]models.Entry

func (f fakeLibrary) Entries(membership models.Membership) []models.Entry {
	return f[membership]
}

type fakeWarmer struct {
	mu    sync.Mutex
	calls [][]int
}

func (f *fakeWarmer) Warm(ctx context.Context, showIDs []int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, showIDs)
	return 0
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func entry(id int, mediaType models.MediaType) models.Entry {
	return models.Entry{Ref: models.MediaRef{ID: id, MediaType: mediaType}}
}

func TestTrackedShowsOnlyIncludesTV(t *testing.T) {
	library := fakeLibrary{
		models.MembershipWant:    {entry(1399, models.MediaTypeTV), entry(550, models.MediaTypeMovie)},
		models.MembershipWatched: {entry(1396, models.MediaTypeTV), entry(1399, models.MediaTypeTV)},
	}
	s := NewScheduler("@every 1h", library, &fakeWarmer{}, testLogger())

	got := s.trackedShows()
	want := []int{1399, 1396}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestProgressWarmSkipsEmptyLibrary(t *testing.T) {
	warmer := &fakeWarmer{}
	s := NewScheduler("@every 1h", fakeLibrary{}, warmer, testLogger())

	s.runProgressWarm()
	if len(warmer.calls) != 0 {
		t.Errorf("Expected no warm-up calls, got %d", len(warmer.calls))
	}
}

func TestProgressWarmPassesTrackedShows(t *testing.T) {
	warmer := &fakeWarmer{}
	library := fakeLibrary{models.MembershipWant: {entry(1399, models.MediaTypeTV)}}
	s := NewScheduler("@every 1h", library, warmer, testLogger())

	s.runProgressWarm()
	if len(warmer.calls) != 1 || !reflect.DeepEqual(warmer.calls[0], []int{1399}) {
		t.Errorf("Unexpected warm-up calls: %v", warmer.calls)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler("not a schedule", fakeLibrary{}, &fakeWarmer{}, testLogger())
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("Expected error for an invalid cron spec")
	}
}
