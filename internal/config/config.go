// Package config loads and saves the clipcore configuration value.
// Configuration is assembled once at process start into an immutable
// Config and passed explicitly to every component — there is no global
// mutable configuration singleton.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/nathfavour/clipcore/internal/clipboard"
)

// Config holds every tunable of the clipboard indexing core.
type Config struct {
	// FilesRoot is where image side-car blobs are written, laid out as
	// {FilesRoot}/{YYYYMMDD}/{unix_timestamp}.{ext}.
	FilesRoot string `json:"files_root"`
	// DBPath is the SQLite database file backing the HistoryStore.
	DBPath string `json:"db_path"`

	// PollInterval is how often CaptureLoop samples the ClipboardSource.
	PollInterval time.Duration `json:"poll_interval"`
	// IngestQueueCapacity bounds the channel between CaptureLoop and
	// IngestPipeline.
	IngestQueueCapacity int `json:"ingest_queue_capacity"`
	// EvictionPeriod is how often IndexerSupervisor sweeps for expired
	// entries.
	EvictionPeriod time.Duration `json:"eviction_period"`
	// RetentionWindow is the per-kind span for which records remain
	// indexed in SubstringIndex; records outside it stay in HistoryStore.
	RetentionWindow map[clipboard.Kind]time.Duration `json:"retention_window"`
	// IndexCap is the length (bytes) to which a text capture's display
	// text is truncated for indexing. Text over the classifier's fixed
	// 250 000-byte limit is rejected regardless of this value.
	IndexCap int `json:"index_cap"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"log_level"`
}

// DefaultRetentionWindow is the 72h-per-kind default spec.md settles on
// for its per-kind retention Open Question.
const DefaultRetentionWindow = 72 * time.Hour

// Default returns the out-of-the-box configuration, rooted under the
// user's home directory per spec.md §6.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return &Config{
		FilesRoot:           filepath.Join(home, ".clipcore", "files"),
		DBPath:              filepath.Join(home, ".clipcore", "clipcore.db"),
		PollInterval:        500 * time.Millisecond,
		IngestQueueCapacity: 100,
		EvictionPeriod:      time.Second,
		RetentionWindow: map[clipboard.Kind]time.Duration{
			clipboard.KindText:  DefaultRetentionWindow,
			clipboard.KindImage: DefaultRetentionWindow,
			clipboard.KindFile:  DefaultRetentionWindow,
		},
		IndexCap: 250_000,
		LogLevel: "info",
	}
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".clipcore.json"), nil
}

// Load reads the config file at ~/.clipcore.json, creating it with
// defaults if it doesn't yet exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return Default(), err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := Save(cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Save writes cfg to ~/.clipcore.json, creating parent directories as
// needed.
func Save(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
