package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes node IDs and decoration sides in node labels.
	// When false, only the symbol name is shown.
	Detailed bool
}

// Graphviz shape per monosaccharide family, closest to the SNFG symbol.
var shapes = [glycan.FamilyCount]string{
	"circle",   // reducing end
	"circle",   // Hex
	"square",   // HexNAc
	"square",   // HexN
	"diamond",  // HexA
	"triangle", // dHex
	"triangle", // dHexNAc
	"box",      // ddHex
	"star",     // Pent
	"diamond",  // Sia
}

// ToDOT converts a glycan to Graphviz DOT format for node-link visualization.
// The reducing end is ranked rightmost; every other node is joined to its
// link target, with decoration bonds dashed. The resulting DOT string can be
// rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(t *glycan.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=RL;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, color=\"#888888\", fontsize=12, fixedsize=false];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	nodes := t.Nodes()
	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeName(n.ID), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		if n.Parent == glycan.NoNode {
			continue
		}
		target := t.LinkTarget(n.ID)
		if n.Anchor != glycan.NoNode {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, constraint=false];\n", nodeName(target), nodeName(n.ID))
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeName(target), nodeName(n.ID))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id glycan.NodeID) string { return "n" + strconv.FormatInt(int64(id), 10) }

func fmtLabel(n *glycan.Node, detailed bool) string {
	if !detailed {
		return n.Kind.Symbol()
	}
	parts := []string{n.Kind.Symbol(), fmt.Sprintf("id: %d", n.ID)}
	if n.Side != glycan.None {
		parts = append(parts, "side: "+n.Side.String())
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *glycan.Node, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("shape=%s", shapes[n.Kind.Family()]),
		fmt.Sprintf("fillcolor=%q", n.Kind.Color()),
	}
	if n.Kind == glycan.ReducingEnd {
		attrs = append(attrs, "width=0.2", "fontsize=8")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel viewBox so that the diagram scales like the SNFG drawings.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
