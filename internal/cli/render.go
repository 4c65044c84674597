package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glycodraw/pkg/graph"
	"github.com/matzehuels/glycodraw/pkg/pipeline"
)

// renderFlags are the flags shared by render and visualize.
type renderFlags struct {
	formats string
	output  string
	noCache bool
	refresh bool
}

func (f *renderFlags) register(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg, png, pdf, json, dot (comma-separated; default from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute cached results")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG scale factor (default from config)")
	cmd.Flags().StringVar(&opts.Background, "background", "", `background colour, or "transparent"`)
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label nodelink diagrams with ids and sides")
}

// apply merges flags over the config defaults in base.
func (f *renderFlags) apply(cmd *cobra.Command, base pipeline.Options, opts pipeline.Options) pipeline.Options {
	if formats := parseFormats(f.formats); formats != nil {
		base.Formats = formats
	}
	if cmd.Flags().Changed("scale") {
		base.Scale = opts.Scale
	}
	if cmd.Flags().Changed("background") {
		base.Background = opts.Background
	}
	if cmd.Flags().Changed("detailed") {
		base.Detailed = opts.Detailed
	}
	base.Refresh = f.refresh
	return base
}

// renderCommand creates the render command: document in, artifacts out.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags renderFlags
		opts  pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [glycan.json]",
		Short: "Export a glycan document",
		Long: `Export a glycan document.

The document is laid out and written in every requested format. SNFG
drawings (-t snfg, the default) place symbols on the canvas; nodelink
diagrams (-t nodelink) are drawn by Graphviz. PNG and PDF output of SNFG
drawings needs rsvg-convert on the PATH.

Layouts and artifacts are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := c.canvasFlags(cmd, flags.apply(cmd, c.renderDefaults(), opts), opts)
			o.VizType = opts.VizType
			if err := o.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], o, flags)
		},
	}

	flags.register(cmd, &opts)
	registerCanvasFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", "", "visualization type: snfg (default), nodelink")
	return cmd
}

func registerCanvasFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "canvas height (default from config)")
	cmd.Flags().Float64Var(&opts.SymbolSize, "symbol-size", 0, "symbol edge length (default from config)")
}

func (c *CLI) canvasFlags(cmd *cobra.Command, base, opts pipeline.Options) pipeline.Options {
	if cmd.Flags().Changed("width") {
		base.Width = opts.Width
	}
	if cmd.Flags().Changed("height") {
		base.Height = opts.Height
	}
	if cmd.Flags().Changed("symbol-size") {
		base.SymbolSize = opts.SymbolSize
	}
	return base
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	doc, err := graph.UnmarshalGlycan(data)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	spinner.Start()
	res, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(opts.Formats)))

	paths, err := writeArtifacts(res.Artifacts, opts.Formats, input, flags.output)
	if err != nil {
		return err
	}
	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.NodeCount, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes each format in order and returns the written paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return paths, fmt.Errorf("no %s output produced", format)
		}
		path := outputPath(output, input, format, len(formats))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// layoutCommand creates the layout command, the first pipeline stage.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [glycan.json]",
		Short: "Compute the layout of a glycan document",
		Long: `Compute the layout of a glycan document.

The output is a layout.json file (the same format as 'render -f json') that
'visualize' turns into SVG, PNG or PDF without laying the document out again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := c.canvasFlags(cmd, c.renderDefaults(), opts)
			o.VizType = opts.VizType
			if err := o.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], o, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", "", "visualization type: snfg (default), nodelink")
	registerCanvasFlags(cmd, &opts)
	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	tree, err := graph.ReadGlycanFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	docHash, err := pipeline.DocumentHash(tree)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.VizType))
	spinner.Start()
	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, tree, docHash, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	path := output
	if path == "" {
		path = basePath("", input) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, path); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(tree.Len(), cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+path)
	return nil
}

// visualizeCommand creates the visualize command, the second pipeline stage.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		flags renderFlags
		opts  pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a computed layout",
		Long: `Render a computed layout.

The layout carries every position, so this step only draws. The DOT format
needs the document and is not available here; use 'render -f dot'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := flags.apply(cmd, c.renderDefaults(), opts)
			o.Formats = slices.DeleteFunc(slices.Clone(o.Formats), func(f string) bool {
				return f == pipeline.FormatDOT && flags.formats == ""
			})
			return c.runVisualize(cmd.Context(), args[0], o, flags)
		},
	}

	flags.register(cmd, &opts)
	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	if slices.Contains(opts.Formats, pipeline.FormatDOT) {
		return fmt.Errorf("format dot needs the document: use '%s render -f dot'", appName)
	}
	opts.VizType = l.VizType
	opts.Width, opts.Height, opts.SymbolSize = l.Width, l.Height, l.SymbolSize
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", l.VizType))
	spinner.Start()
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, nil, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, opts.Formats, input, flags.output)
	if err != nil {
		return err
	}
	printSuccess("Visualization complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(l.Nodes), cacheHit)
	return nil
}
