package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/amaumene/moviemate/internal/models"
)

func TestWriteEntriesTable(t *testing.T) {
	var buf bytes.Buffer
	entries := []models.Entry{{
		Ref:        models.MediaRef{ID: 1399, MediaType: models.MediaTypeTV},
		Membership: models.MembershipWatched,
		WatchedAt:  time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC),
	}}

	if err := writeEntriesTable(&buf, entries); err != nil {
		t.Fatalf("writeEntriesTable failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header and one row, got %q", buf.String())
	}
	if fields := strings.Fields(lines[1]); len(fields) != 3 || fields[0] != "tv" || fields[1] != "1399" || fields[2] != "2024-03-09" {
		t.Errorf("Unexpected row: %q", lines[1])
	}
}

func TestWriteEntriesJSONEmptyList(t *testing.T) {
	var buf bytes.Buffer
	if err := writeEntriesJSON(&buf, nil); err != nil {
		t.Fatalf("writeEntriesJSON failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Expected an empty array, got %q", buf.String())
	}
}

func TestLibraryCommandRejectsUnknownList(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"library", "favorites"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if err := root.Execute(); err == nil {
		t.Fatal("Expected an error for an unknown list")
	}
}
