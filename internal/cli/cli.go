package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glycodraw/pkg/buildinfo"
	"github.com/matzehuels/glycodraw/pkg/cache"
	"github.com/matzehuels/glycodraw/pkg/config"
	"github.com/matzehuels/glycodraw/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "glycodraw"

	// defaultDocument is the file edited when no path is given.
	defaultDocument = "glycan.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and default settings.
// The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "glycodraw draws glycan structures with SNFG symbols",
		Long: `glycodraw is an editor for glycan structures drawn in the Symbol Nomenclature
for Glycans. Structures are edited interactively in the terminal or over HTTP
and exported as SVG, PNG, PDF, DOT or layout JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.libraryCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configFile(), "backend", cfg.Storage.Backend)
	return nil
}

// configFile returns the config path in effect.
func (c *CLI) configFile() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || !c.Config.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(c.Config.Cache.Dir)
}

// dialCache connects to the shared cache the server uses with the redis
// backend and falls back to the local file cache.
func (c *CLI) dialCache(ctx context.Context) (cache.Cache, error) {
	if !c.Config.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	if c.Config.Storage.Backend == config.BackendRedis {
		rc, err := cache.DialRedis(ctx, c.Config.Storage.RedisAddr, c.Config.Storage.RedisDB)
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "error", err)
	}
	return cache.NewFileCache(c.Config.Cache.Dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderDefaults returns pipeline options seeded from the config.
func (c *CLI) renderDefaults() pipeline.Options {
	cfg := c.Config
	return pipeline.Options{
		Width:      cfg.Canvas.Width,
		Height:     cfg.Canvas.Height,
		SymbolSize: cfg.Canvas.SymbolSize,
		Formats:    cfg.Render.Formats,
		Scale:      cfg.Render.PNGScale,
		Background: cfg.Render.Background,
		Detailed:   cfg.Render.Detailed,
		Logger:     c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields nil so that the configured formats apply.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".glycan")
		return strings.TrimSuffix(base, ".layout")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names the file for one format. A single format written to an
// explicit output path keeps that path verbatim.
func outputPath(output, input, format string, formats int) string {
	if output != "" && formats == 1 && filepath.Ext(output) != "" {
		return output
	}
	ext := format
	if format == pipeline.FormatJSON {
		ext = "layout.json"
	}
	return basePath(output, input) + "." + ext
}
