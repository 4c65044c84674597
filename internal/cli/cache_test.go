package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCountEntries(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"ab/cdef.json", "ab/0123.json", "ff/9999.json"} {
		path := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := countEntries(dir)
	if err != nil || n != 3 {
		t.Errorf("countEntries() = %d, %v; want 3", n, err)
	}
	if _, err := countEntries(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing dir")
	}
}

func TestCachePathFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cacheDir := filepath.Join(dir, "cache")
	if err := os.WriteFile(cfgPath, []byte("[cache]\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != filepath.ToSlash(cacheDir) {
		t.Errorf("cache path = %q, want %q", got, cacheDir)
	}
}
