// Package config holds the runtime configuration: session defaults,
// knowledge folder, pipeline thresholds, TTS engine and export paths.
// Values come from an optional YAML file layered over defaults; CLI flags
// override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tutorcore/internal/expert"
	"tutorcore/internal/motivator"
)

// Config is the full runtime configuration.
type Config struct {
	Session   SessionConfig        `yaml:"session"`
	Knowledge KnowledgeConfig      `yaml:"knowledge"`
	Expert    expert.Params        `yaml:"expert"`
	Motivator motivator.Thresholds `yaml:"motivator"`
	Conductor ConductorConfig      `yaml:"conductor"`
	TTS       TTSConfig            `yaml:"tts"`
	Export    ExportConfig         `yaml:"export"`
}

// SessionConfig describes the lesson being run.
type SessionConfig struct {
	Discipline   string `yaml:"discipline"`
	LessonNumber int    `yaml:"lesson_number"`
	Topic        string `yaml:"topic"`
	StudentLevel int    `yaml:"student_level"`
}

// KnowledgeConfig configures the document index.
type KnowledgeConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// ConductorConfig configures the lesson lifecycle.
type ConductorConfig struct {
	MinWorkTurns int `yaml:"min_work_turns"`
}

// TTSConfig configures speech synthesis.
type TTSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Engine   string `yaml:"engine"` // piper or rhvoice
	Voice    string `yaml:"voice"`
	CacheDir string `yaml:"cache_dir"`
}

// ExportConfig configures session log export.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			Discipline:   "Цифровая культура",
			LessonNumber: 1,
			Topic:        "Генерация инфографики",
			StudentLevel: 1,
		},
		Knowledge: KnowledgeConfig{
			Dir:   "knowledge_base",
			Watch: true,
		},
		Expert:    expert.DefaultParams(),
		Motivator: motivator.DefaultThresholds(),
		Conductor: ConductorConfig{
			MinWorkTurns: 2,
		},
		TTS: TTSConfig{
			Enabled:  true,
			Engine:   "piper",
			CacheDir: "tts_cache",
		},
		Export: ExportConfig{
			Dir: "exports",
		},
	}
}

// Load reads configuration from path, layering it over the defaults. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
