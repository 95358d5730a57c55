package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "json")

	logger.WithField("show_id", 1399).Debug("Fetched seasons")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "Fetched seasons" {
		t.Errorf("Unexpected message: %v", line["msg"])
	}
	if line["show_id"] != float64(1399) {
		t.Errorf("Expected show_id field, got %v", line["show_id"])
	}
}

func TestNewLoggerUnknownLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "loud", "text")

	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected info level, got %s", logger.GetLevel())
	}
	if !strings.Contains(buf.String(), "Unknown log level") {
		t.Errorf("Expected a warning about the level, got %q", buf.String())
	}
}
