package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_EmptyPathIsNop(t *testing.T) {
	log, err := New("", "debug")
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(-1) {
		t.Error("no-op logger should not enable any level")
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")
	log, err := New(path, "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug("hidden")
	log.Info("turn applied")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "turn applied") {
		t.Errorf("log file missing info line: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug line written at info level")
	}
}

func TestNew_BadLevelDefaultsToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")
	log, err := New(path, "loud")
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(-1) {
		t.Error("debug should be disabled when the level is unparseable")
	}
}
