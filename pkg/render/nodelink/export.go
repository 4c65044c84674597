package nodelink

import (
	"fmt"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/graph"
)

// Export packages a DOT string into the unified layout format. Graphviz
// computes positions at render time, so only the linkages are recorded.
func Export(dot string, t *glycan.Tree) graph.Layout {
	out := graph.Layout{
		VizType: graph.VizTypeNodelink,
		DOT:     dot,
		Engine:  "dot",
	}
	if t != nil {
		for _, n := range t.Nodes() {
			if n.Parent == glycan.NoNode {
				continue
			}
			out.Linkages = append(out.Linkages, graph.Linkage{From: int64(n.ID), To: int64(t.LinkTarget(n.ID))})
		}
	}
	return out
}

// Parse extracts the DOT string from a serialized nodelink layout.
//
// Returns an error if the layout is not a nodelink type or is missing the DOT string.
func Parse(layout graph.Layout) (string, error) {
	if layout.VizType != "" && layout.VizType != graph.VizTypeNodelink {
		return "", fmt.Errorf("invalid viz_type for nodelink layout: %q", layout.VizType)
	}
	if layout.DOT == "" {
		return "", fmt.Errorf("nodelink layout must contain DOT string")
	}
	return layout.DOT, nil
}
