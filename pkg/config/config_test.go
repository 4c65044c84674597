package config

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	errs "github.com/matzehuels/glycodraw/pkg/errors"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Canvas.Width != 800 || c.Canvas.Height != 600 || c.Canvas.SymbolSize != 28 {
		t.Errorf("canvas = %+v", c.Canvas)
	}
	if !slices.Equal(c.Render.Formats, []string{"svg"}) {
		t.Errorf("formats = %v", c.Render.Formats)
	}
	if !c.Cache.Enabled || c.Cache.TTL.Duration != DefaultCacheTTL {
		t.Errorf("cache = %+v", c.Cache)
	}
	if c.Storage.Backend != BackendFile || c.Server.SessionTTL.Duration != DefaultSessionTTL {
		t.Errorf("config = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	c, err := Parse(`
[canvas]
width = 1024
symbol_size = 20

[render]
formats = ["svg", "pdf"]

[server]
session_ttl = "90m"

[storage]
backend = "redis"
redis_db = 2

[cache]
enabled = false
`)
	if err != nil {
		t.Fatal(err)
	}
	if c.Canvas.Width != 1024 || c.Canvas.Height != 600 || c.Canvas.SymbolSize != 20 {
		t.Errorf("canvas = %+v", c.Canvas)
	}
	if c.Server.SessionTTL.Duration != 90*time.Minute {
		t.Errorf("session_ttl = %v", c.Server.SessionTTL)
	}
	if c.Storage.RedisAddr != DefaultRedisAddr || c.Storage.RedisDB != 2 {
		t.Errorf("storage = %+v", c.Storage)
	}
	if c.Cache.Enabled {
		t.Error("explicit enabled = false ignored")
	}
	if l := c.Layout(); l.Width != 1024 || l.SymbolSize != 20 {
		t.Errorf("Layout() = %+v", l)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errs.Code
	}{
		{"syntax", `[canvas`, errs.ErrCodeInvalidFormat},
		{"unknown key", "[canvas]\ncolour = \"red\"", errs.ErrCodeInvalidFormat},
		{"bad duration", "[server]\nsession_ttl = \"soon\"", errs.ErrCodeInvalidFormat},
		{"bad format", "[render]\nformats = [\"gif\"]", errs.ErrCodeUnsupported},
		{"bad backend", "[storage]\nbackend = \"sqlite\"", errs.ErrCodeInvalidInput},
		{"negative canvas", "[canvas]\nwidth = -1\nheight = -1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if tt.code == "" {
				if err != nil {
					t.Errorf("Parse() = %v; non-positive sizes fall back to defaults", err)
				}
				return
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("Parse() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	if c.Canvas.Width != 800 {
		t.Errorf("defaults not applied: %+v", c.Canvas)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("explicit missing file should fail")
	}

	path := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.Addr != ":9000" {
		t.Errorf("addr = %q", c.Server.Addr)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	c := Default()
	c.Render.Formats = []string{"png", "dot"}
	c.Server.SessionTTL.Duration = 2 * time.Hour

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		t.Fatal(err)
	}
	back, err := Parse(buf.String())
	if err != nil {
		t.Fatalf("Parse(Write()) = %v\n%s", err, buf.String())
	}
	if !slices.Equal(back.Render.Formats, c.Render.Formats) || back.Server.SessionTTL != c.Server.SessionTTL {
		t.Errorf("round trip = %+v", back)
	}
}
