// Package updater manages self-updates for the hfdetect binary: channel
// preferences, release manifests, and verified in-place binary swaps.
package updater

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	// ChannelStable is the default release channel.
	ChannelStable = "stable"
	// ChannelBeta exposes prerelease builds.
	ChannelBeta = "beta"
)

var validChannels = map[string]struct{}{
	ChannelStable: {},
	ChannelBeta:   {},
}

// NormalizeChannel maps user input onto a supported channel name. Empty
// input selects the stable channel.
func NormalizeChannel(channel string) (string, error) {
	cleaned := strings.ToLower(strings.TrimSpace(channel))
	if cleaned == "" {
		return ChannelStable, nil
	}
	if _, ok := validChannels[cleaned]; !ok {
		return "", fmt.Errorf("unsupported channel %q (expected %s or %s)", channel, ChannelStable, ChannelBeta)
	}
	return cleaned, nil
}

// Config captures persisted updater preferences and bookkeeping data used
// for rollback.
type Config struct {
	Channel            string    `json:"channel"`
	LastAppliedVersion string    `json:"last_applied_version,omitempty"`
	PreviousVersion    string    `json:"previous_version,omitempty"`
	BackupPath         string    `json:"backup_path,omitempty"`
	LastAppliedAt      time.Time `json:"last_applied_at,omitempty"`
}

// Store manages reading and writing the updater configuration.
type Store struct {
	dir  string
	path string
	mu   sync.Mutex
}

// DefaultConfigDir returns the platform specific configuration directory for
// hfdetect's updater metadata. HFDETECT_UPDATER_CONFIG_DIR overrides the
// location so tests do not pollute the real user config.
func DefaultConfigDir() (string, error) {
	if override := strings.TrimSpace(os.Getenv("HFDETECT_UPDATER_CONFIG_DIR")); override != "" {
		return override, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "hfdetect"), nil
}

// NewStore builds a store rooted at dir, falling back to the default config
// directory when dir is empty.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		resolved, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		dir = resolved
	}
	return &Store{dir: dir, path: filepath.Join(dir, "updater.json")}, nil
}

// Dir exposes the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads the persisted config, returning defaults when none exists yet.
func (s *Store) Load() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{Channel: ChannelStable}, nil
		}
		return Config{}, fmt.Errorf("read updater config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse updater config: %w", err)
	}
	if cfg.Channel == "" {
		cfg.Channel = ChannelStable
	}
	if _, ok := validChannels[cfg.Channel]; !ok {
		return Config{}, fmt.Errorf("persisted channel %q is not valid", cfg.Channel)
	}
	return cfg, nil
}

// Save persists the config atomically.
func (s *Store) Save(cfg Config) error {
	if _, ok := validChannels[cfg.Channel]; !ok && cfg.Channel != "" {
		return fmt.Errorf("refusing to persist invalid channel %q", cfg.Channel)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode updater config: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write updater config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("persist updater config: %w", err)
	}
	return nil
}
