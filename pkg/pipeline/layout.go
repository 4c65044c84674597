package pipeline

import (
	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/core/layout"
	"github.com/matzehuels/glycodraw/pkg/graph"
	"github.com/matzehuels/glycodraw/pkg/render/nodelink"
)

// GenerateLayout lays out t for the configured visualization type.
//
// SNFG layouts run the tidy-tree engine on t, so node positions on t are
// updated. Nodelink layouts record the DOT source; Graphviz positions the
// nodes at render time.
func GenerateLayout(t *glycan.Tree, opts Options) graph.Layout {
	if opts.IsNodelink() {
		dot := nodelink.ToDOT(t, nodelink.Options{Detailed: opts.Detailed})
		l := nodelink.Export(dot, t)
		cfg := opts.LayoutConfig()
		l.Width, l.Height = cfg.Width, cfg.Height
		return l
	}
	cfg := opts.LayoutConfig()
	layout.New(cfg).Apply(t)
	return graph.FromResult(t, cfg)
}
