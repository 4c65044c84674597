// Package pipeline provides the render pipeline for GLYCOdraw documents.
//
// This package implements the decode → layout → render sequence shared by
// the CLI and the HTTP host, so that both produce byte-identical artifacts
// for the same document and options.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: Rebuild a [glycan.Tree] from its [graph.Glycan] wire form
//  2. Layout: Position every symbol (SNFG) or emit Graphviz DOT (nodelink)
//  3. Render: Produce artifacts (SVG, PNG, PDF, JSON, DOT)
//
// Layouts and artifacts are cached under content-addressed keys derived from
// the document hash and the options that influence each stage.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glycodraw/pkg/cache"
	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/core/layout"
	errs "github.com/matzehuels/glycodraw/pkg/errors"
	"github.com/matzehuels/glycodraw/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultPNGScale is the raster scale factor for PNG output.
	DefaultPNGScale = 2.0

	// DefaultBackground is the SVG background fill.
	DefaultBackground = "white"

	// Transparent disables the background rectangle.
	Transparent = "transparent"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = graph.VizTypeSNFG

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	VizType    string  `json:"viz_type,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	SymbolSize float64 `json:"symbol_size,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`      // PNG only
	Background string   `json:"background,omitempty"` // "transparent" for none
	Detailed   bool     `json:"detailed,omitempty"`   // nodelink labels carry ids and sides

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the decoded document, laid out.
	Tree *glycan.Tree

	// DocHash is the content hash of the normalized document.
	DocHash string

	Layout    graph.Layout
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all requested artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errs.ValidateFormat(format, Formats...)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if vizType != graph.VizTypeSNFG && vizType != graph.VizTypeNodelink {
		return errs.New(errs.ErrCodeUnsupported, "invalid viz_type: %q (must be one of: snfg, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	cfg := o.LayoutConfig()
	o.Width, o.Height, o.SymbolSize = cfg.Width, cfg.Height, cfg.SymbolSize
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultPNGScale
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks the result.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// LayoutConfig returns the layout engine configuration.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{Width: o.Width, Height: o.Height, SymbolSize: o.SymbolSize}.WithDefaults()
}

// surfaceBackground maps the background option to the SVG fill.
func (o *Options) surfaceBackground() string {
	if o.Background == Transparent {
		return ""
	}
	return o.Background
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		VizType:    o.VizType,
		Width:      o.Width,
		Height:     o.Height,
		SymbolSize: o.SymbolSize,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Background: o.Background}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	if format == FormatDOT || o.IsNodelink() {
		k.Detailed = o.Detailed
	}
	return k
}
