// Package config loads GLYCOdraw settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/glycodraw/config.toml
// (~/.config/glycodraw/config.toml) unless a path is given explicitly.
// Every key is optional; [Config.SetDefaults] fills the gaps and
// [Config.Validate] rejects values no component can honour.
//
//	[canvas]
//	width = 1024
//	height = 768
//	symbol_size = 28
//
//	[render]
//	formats = ["svg", "png"]
//	png_scale = 2
//
//	[server]
//	addr = ":8080"
//	session_ttl = "12h"
//
//	[storage]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[cache]
//	enabled = true
//	ttl = "168h"
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/glycodraw/pkg/core/layout"
	errs "github.com/matzehuels/glycodraw/pkg/errors"
)

// Storage backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Formats lists the export formats the renderer understands.
var Formats = []string{"svg", "png", "pdf", "json", "dot"}

// Defaults for values that have no zero-value meaning.
const (
	DefaultAddr          = ":8080"
	DefaultSessionTTL    = 24 * time.Hour
	DefaultCacheTTL      = 7 * 24 * time.Hour
	DefaultPNGScale      = 2.0
	DefaultRedisAddr     = "localhost:6379"
	DefaultMongoURI      = "mongodb://localhost:27017"
	DefaultMongoDatabase = "glycodraw"
)

// Duration is a time.Duration written as a Go duration string ("90m").
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full settings tree.
type Config struct {
	Canvas  Canvas  `toml:"canvas"`
	Render  Render  `toml:"render"`
	Server  Server  `toml:"server"`
	Storage Storage `toml:"storage"`
	Cache   Cache   `toml:"cache"`
}

type Canvas struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	SymbolSize float64 `toml:"symbol_size"`
}

type Render struct {
	Formats    []string `toml:"formats"`
	PNGScale   float64  `toml:"png_scale"`
	Background string   `toml:"background,omitempty"`
	Detailed   bool     `toml:"detailed"`
}

type Server struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
}

type Storage struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir,omitempty"`
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri,omitempty"`
	MongoDatabase string `toml:"mongo_database,omitempty"`
}

type Cache struct {
	Enabled bool     `toml:"enabled"`
	Dir     string   `toml:"dir,omitempty"`
	TTL     Duration `toml:"ttl"`
}

// Default returns a Config with every default applied.
func Default() Config {
	c := Config{Cache: Cache{Enabled: true}}
	c.SetDefaults()
	return c
}

// SetDefaults fills unset values. It never overrides a value that was set.
func (c *Config) SetDefaults() {
	lc := layout.Config{Width: c.Canvas.Width, Height: c.Canvas.Height, SymbolSize: c.Canvas.SymbolSize}.WithDefaults()
	c.Canvas = Canvas{Width: lc.Width, Height: lc.Height, SymbolSize: lc.SymbolSize}

	if len(c.Render.Formats) == 0 {
		c.Render.Formats = []string{"svg"}
	}
	if c.Render.PNGScale == 0 {
		c.Render.PNGScale = DefaultPNGScale
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.SessionTTL.Duration == 0 {
		c.Server.SessionTTL.Duration = DefaultSessionTTL
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = filepath.Join(dataHome(), "glycodraw")
	}
	switch c.Storage.Backend {
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			c.Storage.RedisAddr = DefaultRedisAddr
		}
	case BackendMongo:
		if c.Storage.MongoURI == "" {
			c.Storage.MongoURI = DefaultMongoURI
		}
		if c.Storage.MongoDatabase == "" {
			c.Storage.MongoDatabase = DefaultMongoDatabase
		}
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = filepath.Join(cacheHome(), "glycodraw")
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = DefaultCacheTTL
	}
}

// Validate reports the first invalid value.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 || c.Canvas.SymbolSize <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "canvas dimensions must be positive")
	}
	for _, f := range c.Render.Formats {
		if err := errs.ValidateFormat(f, Formats...); err != nil {
			return fmt.Errorf("render.formats: %w", err)
		}
	}
	if c.Render.PNGScale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "render.png_scale must not be negative")
	}
	if c.Server.SessionTTL.Duration < 0 || c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "durations must not be negative")
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendMongo}, c.Storage.Backend) {
		return errs.New(errs.ErrCodeInvalidInput, "storage.backend %q (must be one of: file, redis, mongo)", c.Storage.Backend)
	}
	if c.Storage.RedisDB < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "storage.redis_db must not be negative")
	}
	return nil
}

// Layout returns the layout engine configuration for the canvas section.
func (c *Config) Layout() layout.Config {
	return layout.Config{Width: c.Canvas.Width, Height: c.Canvas.Height, SymbolSize: c.Canvas.SymbolSize}
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "glycodraw", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".glycodraw", "config.toml")
	}
	return filepath.Join(home, ".config", "glycodraw", "config.toml")
}

// Load reads the config at path, or at DefaultPath when path is empty. A
// missing default file yields the defaults; a missing explicit file is an
// error. Unknown keys are rejected.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes TOML text, applies defaults and validates the result.
func Parse(text string) (Config, error) {
	var c Config
	md, err := toml.Decode(text, &c)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidFormat, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if !md.IsDefined("cache", "enabled") {
		c.Cache.Enabled = true
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share")
	}
	return os.TempDir()
}

func cacheHome() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return os.TempDir()
}
