package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/graph"
	"github.com/matzehuels/glycodraw/pkg/render"
	"github.com/matzehuels/glycodraw/pkg/render/nodelink"
	"github.com/matzehuels/glycodraw/pkg/render/sink"
)

// RenderFromLayout renders every requested format from a layout.
//
// t is only consulted for the "dot" format of SNFG layouts and may be nil
// otherwise.
func RenderFromLayout(ctx context.Context, l graph.Layout, t *glycan.Tree, opts Options) (map[string][]byte, error) {
	if l.IsNodelink() {
		return renderNodelink(ctx, l, opts)
	}
	return renderSNFG(ctx, l, t, opts)
}

func renderSNFG(ctx context.Context, l graph.Layout, t *glycan.Tree, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	svgBytes := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = sink.RenderLayout(l, sink.WithBackground(opts.surfaceBackground()), sink.WithXMLDeclaration())
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = svgBytes()
		case FormatPNG:
			if data, err = svgBytes(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.Scale)
			}
		case FormatPDF:
			if data, err = svgBytes(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT:
			if t == nil {
				return nil, fmt.Errorf("render dot: no document")
			}
			data = []byte(nodelink.ToDOT(t, nodelink.Options{Detailed: opts.Detailed}))
		default:
			return nil, fmt.Errorf("unsupported snfg format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderNodelink(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	dot, err := nodelink.Parse(l)
	if err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT:
			data = []byte(dot)
		default:
			return nil, fmt.Errorf("unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
