// Package config loads scanner configuration from .uimap.kdl with sane
// defaults for React/Next.js/Vite trees. Missing config is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Project identifies the tree being scanned.
type Project struct {
	Root string
	Name string
}

// Scan holds file-walking limits.
type Scan struct {
	MaxFileSize    int64
	FollowSymlinks bool
}

// Performance bounds pipeline concurrency.
type Performance struct {
	MaxWorkers      int
	WatchDebounceMs int
}

// Cache controls snapshot persistence.
type Cache struct {
	Enabled bool
	// Dir is relative to the project root unless absolute.
	Dir string
}

// Config is the merged scanner configuration.
type Config struct {
	Project     Project
	Scan        Scan
	Performance Performance
	Cache       Cache

	// Include/Exclude are doublestar globs evaluated against paths relative to
	// the project root. Excludes win.
	Include []string
	Exclude []string
}

// Default returns the default configuration for a project root.
// Exclusions cover dependency, build-output, VCS and test/story trees.
func Default(root string) *Config {
	return &Config{
		Project: Project{Root: root},
		Scan: Scan{
			MaxFileSize: 2 * 1024 * 1024,
		},
		Performance: Performance{
			MaxWorkers:      runtime.NumCPU(),
			WatchDebounceMs: 500,
		},
		Cache: Cache{
			Enabled: true,
			Dir:     ".uimap",
		},
		Include: []string{
			"**/*.js",
			"**/*.jsx",
			"**/*.ts",
			"**/*.tsx",
		},
		Exclude: []string{
			"node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			"out/**",
			".next/**",
			"coverage/**",
			".uimap/**",
			"**/*.test.*",
			"**/*.spec.*",
			"**/*.stories.*",
			"**/__tests__/**",
			"**/__mocks__/**",
			"**/__snapshots__/**",
			"**/*.d.ts",
		},
	}
}

// Load reads configuration for projectRoot, layering .uimap.kdl (if present)
// over the defaults. The returned root is always absolute and cleaned.
func Load(projectRoot string) (*Config, error) {
	return LoadFile(projectRoot, "")
}

// LoadFile is Load with an explicit config file path. An empty configPath
// means the default .uimap.kdl under the project root; a missing default is
// fine, a missing explicit file is an error.
func LoadFile(projectRoot, configPath string) (*Config, error) {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		absRoot = filepath.Clean(projectRoot)
	}

	cfg := Default(absRoot)

	kdlPath := configPath
	explicit := kdlPath != ""
	if !explicit {
		kdlPath = filepath.Join(absRoot, ".uimap.kdl")
	}
	if _, err := os.Stat(kdlPath); os.IsNotExist(err) && !explicit {
		cfg.Validate()
		return cfg, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .uimap.kdl: %w", err)
	}

	if err := parseKDL(string(content), cfg); err != nil {
		return nil, err
	}

	// Re-anchor a relative root declared in the config file.
	if !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(absRoot, cfg.Project.Root))
	}

	cfg.Validate()
	return cfg, nil
}

// Validate clamps out-of-range values instead of failing; configuration
// problems should never prevent a scan.
func (c *Config) Validate() {
	if c.Scan.MaxFileSize <= 0 {
		c.Scan.MaxFileSize = 2 * 1024 * 1024
	}
	if c.Performance.MaxWorkers <= 0 {
		c.Performance.MaxWorkers = runtime.NumCPU()
	}
	if c.Performance.MaxWorkers > 64 {
		c.Performance.MaxWorkers = 64
	}
	if c.Performance.WatchDebounceMs <= 0 {
		c.Performance.WatchDebounceMs = 500
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = ".uimap"
	}
}

// CacheDir returns the absolute cache directory for this project.
func (c *Config) CacheDir() string {
	if filepath.IsAbs(c.Cache.Dir) {
		return c.Cache.Dir
	}
	return filepath.Join(c.Project.Root, c.Cache.Dir)
}
