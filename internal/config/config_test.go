package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Site.Title != "clog" {
		t.Errorf("default title = %q, want %q", cfg.Site.Title, "clog")
	}
	if cfg.Math.Enabled {
		t.Error("math should be disabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clog.toml")
	data := `
[site]
title = "My Blog"

[content]
ignored_folders = ["Ignored/A", "Drafts"]
list_folders = ["Posts"]

[math]
enabled = true
url = "http://localhost:9000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Site.Title != "My Blog" {
		t.Errorf("title = %q", cfg.Site.Title)
	}
	if !cfg.Math.Enabled || cfg.Math.URL != "http://localhost:9000" {
		t.Errorf("math = %+v", cfg.Math)
	}

	ignored := cfg.IgnoredSet()
	if !ignored["Ignored/A"] || !ignored["Drafts"] {
		t.Errorf("ignored set = %v", ignored)
	}
	if !cfg.ListSet()["Posts"] {
		t.Errorf("list set = %v", cfg.ListSet())
	}
}

func TestLoadUsesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "clog.toml"), []byte("[site]\ntitle = \"Here\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Title != "Here" {
		t.Errorf("title = %q", cfg.Site.Title)
	}
}

func TestLoadFromMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clog.toml")
	if err := os.WriteFile(path, []byte("[site\ntitle ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CLOG_SITE_TITLE", "Env Title")
	t.Setenv("CLOG_MATH_URL", "http://localhost:1234")
	t.Setenv("CLOG_IGNORED_FOLDERS", "A, B/C")
	t.Setenv("CLOG_LIST_FOLDERS", "Posts, Notes/Published")

	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Site.Title != "Env Title" {
		t.Errorf("title = %q", cfg.Site.Title)
	}
	if !cfg.Math.Enabled || cfg.Math.URL != "http://localhost:1234" {
		t.Errorf("math = %+v", cfg.Math)
	}
	ignored := cfg.IgnoredSet()
	if !ignored["A"] || !ignored["B/C"] {
		t.Errorf("ignored = %v", ignored)
	}
	listed := cfg.ListSet()
	if !listed["Posts"] || !listed["Notes/Published"] {
		t.Errorf("listed = %v", listed)
	}
}

func TestNormalizeFolder(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Posts", "Posts"},
		{"Posts/", "Posts"},
		{"./Posts", "Posts"},
		{"A/B", "A/B"},
	}
	for _, c := range cases {
		if got := normalizeFolder(c.in); got != c.want {
			t.Errorf("normalizeFolder(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
