package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Session.Topic == "" {
		t.Fatal("default topic must be set")
	}
	if cfg.Conductor.MinWorkTurns != 2 {
		t.Fatalf("min work turns = %d, want 2", cfg.Conductor.MinWorkTurns)
	}
	if cfg.Expert.SlowSec != 45 || cfg.Expert.FastSec != 12 {
		t.Fatalf("latency thresholds = %v/%v", cfg.Expert.FastSec, cfg.Expert.SlowSec)
	}
	if cfg.Motivator.Hysteresis != 0.06 {
		t.Fatalf("hysteresis = %v", cfg.Motivator.Hysteresis)
	}
	if cfg.TTS.Engine != "piper" {
		t.Fatalf("tts engine = %q", cfg.TTS.Engine)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Session.Topic != DefaultConfig().Session.Topic {
		t.Fatal("missing file must yield defaults")
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
session:
  topic: "Дроби"
  student_level: 3
conductor:
  min_work_turns: 4
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Session.Topic != "Дроби" || cfg.Session.StudentLevel != 3 {
		t.Fatalf("session = %+v", cfg.Session)
	}
	if cfg.Conductor.MinWorkTurns != 4 {
		t.Fatalf("min work turns = %d", cfg.Conductor.MinWorkTurns)
	}
	// Untouched sections keep their defaults.
	if cfg.TTS.Engine != "piper" {
		t.Fatalf("tts engine = %q", cfg.TTS.Engine)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("session: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Session.Topic = "Проценты"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Session.Topic != "Проценты" {
		t.Fatalf("topic = %q", loaded.Session.Topic)
	}
}
