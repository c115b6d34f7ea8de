// Package config provides configuration loading for assessd.
package config

import (
	"fmt"
	"time"
)

// Config is the full assessd configuration.
type Config struct {
	Logging     LoggingConfig     `koanf:"logging"`
	Embeddings  EmbeddingsConfig  `koanf:"embeddings"`
	Corpus      CorpusConfig      `koanf:"corpus"`
	Dedup       DedupConfig       `koanf:"dedup"`
	Pacing      PacingConfig      `koanf:"pacing"`
	Definitions DefinitionsConfig `koanf:"definitions"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// EmbeddingsConfig points at the text-embeddings-inference endpoint used
// for recommendation deduplication. The endpoint is optional; without one
// deduplication falls back to bag-of-words vectors.
type EmbeddingsConfig struct {
	Enabled        bool   `koanf:"enabled"`
	BaseURL        string `koanf:"base_url"`
	Model          string `koanf:"model"`
	APIKey         string `koanf:"api_key"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
	CacheSize      int    `koanf:"cache_size"`
}

// CorpusConfig sets the per-section token budgets for corpus assembly.
type CorpusConfig struct {
	NarrativeTokens int `koanf:"narrative_tokens"`
	VisualTokens    int `koanf:"visual_tokens"`
	IncidentTokens  int `koanf:"incident_tokens"`
}

// DedupConfig controls recommendation deduplication.
type DedupConfig struct {
	Threshold float64 `koanf:"threshold"`
}

// PacingConfig sets the minimum wall-clock duration of the alignment and
// synthesis phases. Zero disables pacing, which is the right setting for
// headless runs.
type PacingConfig struct {
	MinPhaseDuration time.Duration `koanf:"min_phase_duration"`
}

// DefinitionsConfig selects where category definitions come from. An empty
// Dir uses the definitions compiled into the binary. Categories limits the
// run to a subset; empty means every available category.
type DefinitionsConfig struct {
	Dir        string   `koanf:"dir"`
	Categories []string `koanf:"categories"`
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging.format %q", c.Logging.Format)
	}
	if c.Embeddings.Enabled && c.Embeddings.BaseURL == "" {
		return fmt.Errorf("embeddings.base_url is required when embeddings are enabled")
	}
	if c.Dedup.Threshold <= 0 || c.Dedup.Threshold > 1 {
		return fmt.Errorf("dedup.threshold must be in (0, 1], got %v", c.Dedup.Threshold)
	}
	if c.Pacing.MinPhaseDuration < 0 {
		return fmt.Errorf("pacing.min_phase_duration must not be negative")
	}
	for _, field := range []struct {
		name  string
		value int
	}{
		{"corpus.narrative_tokens", c.Corpus.NarrativeTokens},
		{"corpus.visual_tokens", c.Corpus.VisualTokens},
		{"corpus.incident_tokens", c.Corpus.IncidentTokens},
	} {
		if field.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", field.name, field.value)
		}
	}
	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Embeddings.BaseURL == "" {
		cfg.Embeddings.BaseURL = "http://localhost:8080"
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = "BAAI/bge-small-en-v1.5"
	}
	if cfg.Embeddings.TimeoutSeconds == 0 {
		cfg.Embeddings.TimeoutSeconds = 30
	}
	if cfg.Embeddings.CacheSize == 0 {
		cfg.Embeddings.CacheSize = 1024
	}

	if cfg.Corpus.NarrativeTokens == 0 {
		cfg.Corpus.NarrativeTokens = 5000
	}
	if cfg.Corpus.VisualTokens == 0 {
		cfg.Corpus.VisualTokens = 3000
	}
	if cfg.Corpus.IncidentTokens == 0 {
		cfg.Corpus.IncidentTokens = 4000
	}

	if cfg.Dedup.Threshold == 0 {
		cfg.Dedup.Threshold = 0.90
	}
}
