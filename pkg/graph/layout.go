package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/core/layout"
)

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the serialization format for a laid-out glycan.
//
// This is a discriminated union type - check VizType to determine which
// fields are populated:
//
//	SNFG ("snfg"):
//	  - Nodes: positioned symbols with colours and edge-run flags
//	  - Linkages: one per non-root node, child to link target
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string for rendering
//	  - Engine: Graphviz layout engine (e.g., "dot")
//
// Shared fields: Width, Height and SymbolSize describe the canvas.
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type" bson:"viz_type"`

	// Canvas
	Width      float64 `json:"width" bson:"width"`
	Height     float64 `json:"height" bson:"height"`
	SymbolSize float64 `json:"symbol_size,omitempty" bson:"symbol_size,omitempty"`

	// SNFG-specific
	Nodes    []PositionedNode `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Linkages []Linkage        `json:"linkages,omitempty" bson:"linkages,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

// IsSNFG returns true if this is a symbol layout.
func (l *Layout) IsSNFG() bool { return l.VizType == VizTypeSNFG }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// PositionedNode is a node with its resolved canvas position.
type PositionedNode struct {
	ID      int64   `json:"id" bson:"id"`
	Kind    string  `json:"kind" bson:"kind"`
	Side    string  `json:"side,omitempty" bson:"side,omitempty"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
	Depth   int     `json:"depth" bson:"depth"`
	Color   string  `json:"color" bson:"color"`
	EdgeRun bool    `json:"edge_run,omitempty" bson:"edge_run,omitempty"`
}

// Linkage is a drawn bond from a node to its link target.
type Linkage struct {
	From int64 `json:"from" bson:"from"`
	To   int64 `json:"to" bson:"to"`
}

// FromResult builds an SNFG layout from a tree the engine has just laid out.
// Nodes are listed in pre-order.
func FromResult(t *glycan.Tree, cfg layout.Config) Layout {
	cfg = cfg.WithDefaults()
	out := Layout{
		VizType:    VizTypeSNFG,
		Width:      cfg.Width,
		Height:     cfg.Height,
		SymbolSize: cfg.SymbolSize,
	}
	t.Walk(func(n *glycan.Node, depth int) bool {
		out.Nodes = append(out.Nodes, PositionedNode{
			ID:      int64(n.ID),
			Kind:    KindName(n.Kind),
			Side:    n.Side.String(),
			X:       n.X,
			Y:       n.Y,
			Depth:   depth,
			Color:   n.Kind.Color(),
			EdgeRun: n.EdgeRun,
		})
		if n.Parent != glycan.NoNode {
			out.Linkages = append(out.Linkages, Linkage{From: int64(n.ID), To: int64(t.LinkTarget(n.ID))})
		}
		return true
	})
	return out
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.VizType == "" {
		l.VizType = VizTypeSNFG
	}

	if l.IsSNFG() && len(l.Nodes) == 0 {
		return Layout{}, fmt.Errorf("snfg layout must contain nodes")
	}
	if l.IsNodelink() && l.DOT == "" {
		return Layout{}, fmt.Errorf("nodelink layout must contain DOT string")
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
