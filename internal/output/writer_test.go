package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/August26/nullvadcheck-go/internal/model"
)

func newTestSink(t *testing.T) (*Sink, string, string) {
	t.Helper()
	dir := t.TempDir()
	validPath := filepath.Join(dir, "working.txt")
	devicePath := filepath.Join(dir, "max_devices.txt")

	s, err := NewSink(validPath, devicePath)
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, validPath, devicePath
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	trimmed := strings.TrimSuffix(string(data), "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func TestSink_RecordValid(t *testing.T) {
	s, validPath, devicePath := newTestSink(t)

	if err := s.RecordValid("1111222233334444", "2026-12-31"); err != nil {
		t.Fatalf("RecordValid: %v", err)
	}

	lines := readLines(t, validPath)
	if len(lines) != 1 || lines[0] != "1111222233334444 (Expires at: 2026-12-31)" {
		t.Fatalf("valid file lines = %v", lines)
	}
	if got := readLines(t, devicePath); len(got) != 0 {
		t.Fatalf("device-limit file should be empty, got %v", got)
	}
}

func TestSink_RecordDeviceLimit(t *testing.T) {
	s, validPath, devicePath := newTestSink(t)

	if err := s.RecordDeviceLimit("5555666677778888"); err != nil {
		t.Fatalf("RecordDeviceLimit: %v", err)
	}

	lines := readLines(t, devicePath)
	if len(lines) != 1 || lines[0] != "5555666677778888" {
		t.Fatalf("device-limit file lines = %v", lines)
	}
	if got := readLines(t, validPath); len(got) != 0 {
		t.Fatalf("valid file should be empty, got %v", got)
	}
}

// A new sink over existing files must append, never truncate.
func TestSink_AppendsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	validPath := filepath.Join(dir, "working.txt")
	devicePath := filepath.Join(dir, "max_devices.txt")

	first, err := NewSink(validPath, devicePath)
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}
	if err := first.RecordValid("1111", "2026-01-01"); err != nil {
		t.Fatalf("RecordValid: %v", err)
	}
	first.Close()

	second, err := NewSink(validPath, devicePath)
	if err != nil {
		t.Fatalf("NewSink (reopen): %v", err)
	}
	if err := second.RecordValid("1111", "2026-01-01"); err != nil {
		t.Fatalf("RecordValid: %v", err)
	}
	second.Close()

	lines := readLines(t, validPath)
	if len(lines) != 2 {
		t.Fatalf("expected duplicate lines to accumulate, got %v", lines)
	}
}

func TestPrintResultsTable(t *testing.T) {
	var buf bytes.Buffer
	PrintResultsTable(&buf, []model.Outcome{
		{Account: "1111", Category: model.CategoryValid, Message: "Valid until 2026-12-31"},
		{Account: "2222", Category: model.CategoryError},
	})

	out := buf.String()
	if !strings.Contains(out, "ACCOUNT") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.Contains(out, "Valid until 2026-12-31") {
		t.Fatalf("missing message: %q", out)
	}
	if !strings.Contains(out, "Error") {
		t.Fatalf("missing error row: %q", out)
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf,
		model.BatchStats{TotalAccounts: 4, ValidAccounts: 1, ValidRatePct: 25.0},
		model.RunSummary{RunID: "run-1", State: model.RunCompleted},
	)

	out := buf.String()
	if !strings.Contains(out, "run-1 (Completed)") {
		t.Fatalf("missing run header: %q", out)
	}
	if !strings.Contains(out, "25.0%") {
		t.Fatalf("missing valid rate: %q", out)
	}
}
