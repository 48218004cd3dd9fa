package shared

import (
	"path/filepath"
	"testing"
)

func TestGenerateID(t *testing.T) {
	first := GenerateID()
	second := GenerateID()

	if first == "" {
		t.Fatal("expected non-empty id")
	}

	if first == second {
		t.Errorf("expected unique ids, got %s twice", first)
	}

	if len(first) != 36 {
		t.Errorf("expected uuid format (36 chars), got %d chars", len(first))
	}
}

func TestNewFileLogger(t *testing.T) {
	t.Run("creates log file and parent directories", func(t *testing.T) {
		tmpDir := t.TempDir()
		logPath := filepath.Join(tmpDir, "logs", "app.log")

		logger, err := NewFileLogger(logPath)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		if logger == nil {
			t.Fatal("expected logger to be created")
		}

		logger.Info("test entry")
	})

	t.Run("fails for unwritable path", func(t *testing.T) {
		if _, err := NewFileLogger("/proc/denied/app.log"); err == nil {
			t.Error("expected error for unwritable path")
		}
	})
}
