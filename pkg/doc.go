// Package pkg provides the core libraries for GLYCOdraw, an editor for
// drawing glycan structures with SNFG symbols.
//
// # Overview
//
// A glycan is drawn as a tree rooted at a reducing end. Users pick
// monosaccharides from a palette and drop them onto existing residues; the
// editor decides where the new residue attaches, re-runs the layout and
// redraws the scene. The pkg directory is organized into four areas:
//
//  1. [core] - Domain logic (glycan tree, layout, placement, scene, editor)
//  2. [graph] - JSON documents for glycans and positioned layouts
//  3. [pipeline] - Orchestration (document → layout → render)
//  4. Infrastructure - [cache], [session], [library], [config] and [observability]
//
// # Architecture
//
// The data flow of one editing gesture:
//
//	pointer events
//	     ↓
//	[core/editor] (drag state machine, palette, undo)
//	     ↓
//	[core/planner] (drop point → parent, index, side)
//	     ↓
//	[core/glycan] (tree mutation)
//	     ↓
//	[core/layout] (tidy tree positions)
//	     ↓
//	[core/scene] (diff against the drawing surface)
//
// Offline rendering skips the gesture half:
//
//	glycan.json → [pipeline] → [render/sink] (SVG) → [render] (PNG/PDF)
//	                         → [render/nodelink] (DOT via Graphviz)
//
// # Quick Start
//
// Build a tree, lay it out and write an SVG:
//
//	import (
//	    "github.com/matzehuels/glycodraw/pkg/core/glycan"
//	    "github.com/matzehuels/glycodraw/pkg/core/layout"
//	    "github.com/matzehuels/glycodraw/pkg/render/sink"
//	)
//
//	t := glycan.NewTree(glycan.NewRegistry())
//	svg := sink.Render(t, layout.DefaultConfig())
//
// Drive the editor the way a pointer would:
//
//	ctrl := editor.New(t, surface, editor.WithLayout(layout.DefaultConfig()))
//	ctrl.Palette().Select(glycan.Gal)
//	out := ctrl.Click(target)
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/core/...     # Domain logic only
//	go test -run Example ./... # Examples only
//
// [core]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/core
// [core/editor]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/core/editor
// [core/planner]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/core/planner
// [core/glycan]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/core/glycan
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/core/layout
// [core/scene]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/core/scene
// [graph]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/session
// [library]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/library
// [config]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/glycodraw/pkg/observability
package pkg
