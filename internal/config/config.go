// Package config merges scan profile settings from a YAML file, environment
// variables, and CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "hfdetect.yml"

	envRoots       = "HFDETECT_ROOTS"
	envWorkers     = "HFDETECT_WORKERS"
	envMaxFileSize = "HFDETECT_MAX_FILE_SIZE"
	envFormats     = "HFDETECT_FORMATS"
	envOutputDir   = "HFDETECT_OUTPUT_DIR"
)

// Loader merges configuration coming from files, environment variables, and
// CLI flags.
type Loader struct {
	ConfigPath string
}

// RuntimeConfig contains the fully merged settings for a scan run.
type RuntimeConfig struct {
	Roots       []string
	Auto        bool
	Workers     int
	MaxFileSize int64
	Formats     []string
	OutputDir   string
	Keywords    []string
	Extensions  []string
}

// Overrides captures values coming from env vars or CLI flags.
type Overrides struct {
	Roots          []string
	Auto           *bool
	Workers        int
	WorkersSet     bool
	MaxFileSize    int64
	MaxFileSizeSet bool
	Formats        []string
	OutputDir      string
	Keywords       []string
	Extensions     []string
}

// fileConfig mirrors the YAML profile on disk.
type fileConfig struct {
	Roots       []string `yaml:"roots"`
	Auto        *bool    `yaml:"auto"`
	Workers     int      `yaml:"workers"`
	MaxFileSize int64    `yaml:"max_file_size"`
	Formats     []string `yaml:"formats"`
	OutputDir   string   `yaml:"output_dir"`
	Keywords    []string `yaml:"keywords"`
	Extensions  []string `yaml:"extensions"`
}

// DefaultRuntimeConfig returns the baseline configuration when no overrides
// are provided.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Workers:     0, // scanner picks NumCPU
		MaxFileSize: 1 << 20,
		Formats:     []string{"console"},
		OutputDir:   "out",
	}
}

// Load resolves the final runtime configuration: defaults, then the profile
// file, then environment, then explicit overrides.
func (l Loader) Load(override Overrides) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	path := l.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	if fileExists(path) {
		fileOv, err := loadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg.apply(fileOv)
	} else if l.ConfigPath != "" && l.ConfigPath != DefaultConfigPath {
		return cfg, fmt.Errorf("config file %s not found", l.ConfigPath)
	}

	env, err := overridesFromEnv()
	if err != nil {
		return cfg, err
	}
	cfg.apply(env)
	cfg.apply(override)

	return cfg, nil
}

// Validate ensures the merged configuration can drive a scan.
func (c RuntimeConfig) Validate() error {
	if len(c.Roots) == 0 && !c.Auto {
		return errors.New("no scan roots configured; pass a directory or use --auto")
	}
	if c.Workers < 0 || c.Workers > 64 {
		return fmt.Errorf("workers must be between 0 and 64 (got %d)", c.Workers)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive (got %d)", c.MaxFileSize)
	}
	if len(c.Formats) == 0 {
		return errors.New("at least one output format must be specified")
	}
	for _, format := range c.Formats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "console", "json", "jsonl", "md":
		default:
			return fmt.Errorf("unsupported output format %q", format)
		}
	}
	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	return nil
}

func (c *RuntimeConfig) apply(ov Overrides) {
	if len(ov.Roots) > 0 {
		c.Roots = append([]string(nil), ov.Roots...)
	}
	if ov.Auto != nil {
		c.Auto = *ov.Auto
	}
	if ov.WorkersSet {
		c.Workers = ov.Workers
	}
	if ov.MaxFileSizeSet {
		c.MaxFileSize = ov.MaxFileSize
	}
	if len(ov.Formats) > 0 {
		c.Formats = append([]string(nil), ov.Formats...)
	}
	if ov.OutputDir != "" {
		c.OutputDir = ov.OutputDir
	}
	if len(ov.Keywords) > 0 {
		c.Keywords = append([]string(nil), ov.Keywords...)
	}
	if len(ov.Extensions) > 0 {
		c.Extensions = append([]string(nil), ov.Extensions...)
	}
}

func loadFromFile(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Overrides{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	ov := Overrides{
		Roots:      fc.Roots,
		Auto:       fc.Auto,
		Formats:    fc.Formats,
		OutputDir:  fc.OutputDir,
		Keywords:   fc.Keywords,
		Extensions: fc.Extensions,
	}
	if fc.Workers != 0 {
		ov.Workers = fc.Workers
		ov.WorkersSet = true
	}
	if fc.MaxFileSize != 0 {
		ov.MaxFileSize = fc.MaxFileSize
		ov.MaxFileSizeSet = true
	}
	return ov, nil
}

func overridesFromEnv() (Overrides, error) {
	var ov Overrides
	if raw := strings.TrimSpace(os.Getenv(envRoots)); raw != "" {
		ov.Roots = splitList(raw)
	}
	if raw := strings.TrimSpace(os.Getenv(envWorkers)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return ov, fmt.Errorf("parse %s: %w", envWorkers, err)
		}
		ov.Workers = n
		ov.WorkersSet = true
	}
	if raw := strings.TrimSpace(os.Getenv(envMaxFileSize)); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return ov, fmt.Errorf("parse %s: %w", envMaxFileSize, err)
		}
		ov.MaxFileSize = n
		ov.MaxFileSizeSet = true
	}
	if raw := strings.TrimSpace(os.Getenv(envFormats)); raw != "" {
		ov.Formats = splitList(raw)
	}
	if raw := strings.TrimSpace(os.Getenv(envOutputDir)); raw != "" {
		ov.OutputDir = raw
	}
	return ov, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
