// Package config provides configuration for the clog binary.
// Sources merge as: built-in defaults < clog.toml < CLOG_* env vars.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all clog configuration, loaded from TOML + env.
type Config struct {
	Site    SiteConfig    `toml:"site"`
	Content ContentConfig `toml:"content"`
	Math    MathConfig    `toml:"math"`
}

// SiteConfig holds site-wide presentation settings.
type SiteConfig struct {
	Title string `toml:"title"`
}

// ContentConfig controls which parts of the content tree are processed.
type ContentConfig struct {
	// IgnoredFolders lists folders, relative to the content root, that are
	// pruned from the scan along with all their descendants.
	IgnoredFolders []string `toml:"ignored_folders"`
	// ListFolders lists folders, relative to the content root, that get a
	// generated listing page.
	ListFolders []string `toml:"list_folders"`
}

// MathConfig holds math-rendering service settings.
type MathConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
}

// Default returns a Config with all built-in defaults.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Title: "clog",
		},
		Math: MathConfig{
			Enabled: false,
			URL:     "http://localhost:7681",
		},
	}
}

// Load loads configuration from clog.toml in the current directory.
func Load() (*Config, error) {
	return LoadFrom("clog.toml")
}

// LoadFrom loads configuration from a specific TOML file, merging with
// defaults and env vars. A missing file is not an error: defaults apply.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			meta, err := toml.DecodeFile(path, cfg)
			if err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
			warnUnknownKeys(meta, path)
		}
	}

	// Environment variables override TOML values
	if v := os.Getenv("CLOG_SITE_TITLE"); v != "" {
		cfg.Site.Title = v
	}
	if v := os.Getenv("CLOG_MATH_URL"); v != "" {
		cfg.Math.URL = v
		cfg.Math.Enabled = true
	}
	if v := os.Getenv("CLOG_IGNORED_FOLDERS"); v != "" {
		cfg.Content.IgnoredFolders = append(cfg.Content.IgnoredFolders, splitFolders(v)...)
	}
	if v := os.Getenv("CLOG_LIST_FOLDERS"); v != "" {
		cfg.Content.ListFolders = append(cfg.Content.ListFolders, splitFolders(v)...)
	}

	return cfg, nil
}

// splitFolders parses a comma-separated folder list from an env var.
func splitFolders(v string) []string {
	var out []string
	for _, f := range strings.Split(v, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// warnUnknownKeys prints a warning for config keys that clog doesn't know.
func warnUnknownKeys(meta toml.MetaData, path string) {
	for _, key := range meta.Undecoded() {
		fmt.Fprintf(os.Stderr, "clog: warning: unknown config key %q in %s\n", key, path)
	}
}

// IgnoredSet returns the ignored folders as a set of slash-separated paths
// relative to the content root.
func (c *Config) IgnoredSet() map[string]bool {
	set := make(map[string]bool, len(c.Content.IgnoredFolders))
	for _, f := range c.Content.IgnoredFolders {
		set[normalizeFolder(f)] = true
	}
	return set
}

// ListSet returns the listing folders as a set of slash-separated paths
// relative to the content root.
func (c *Config) ListSet() map[string]bool {
	set := make(map[string]bool, len(c.Content.ListFolders))
	for _, f := range c.Content.ListFolders {
		set[normalizeFolder(f)] = true
	}
	return set
}

func normalizeFolder(f string) string {
	return strings.Trim(filepath.ToSlash(filepath.Clean(f)), "/")
}
