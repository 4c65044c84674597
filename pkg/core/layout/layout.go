package layout

import (
	"math"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
)

// Default canvas geometry.
const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultSymbolSize = 28

	tickCount = 10
)

// Config describes the canvas the tree is laid out on.
type Config struct {
	Width      float64 // canvas width in pixels
	Height     float64 // canvas height in pixels
	SymbolSize float64 // edge length of one symbol in pixels
}

// DefaultConfig returns the 800x600 canvas with 28px symbols.
func DefaultConfig() Config {
	return Config{Width: DefaultWidth, Height: DefaultHeight, SymbolSize: DefaultSymbolSize}
}

// WithDefaults fills zero or negative fields from [DefaultConfig].
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.SymbolSize <= 0 {
		c.SymbolSize = d.SymbolSize
	}
	return c
}

// Bounds is the bounding box of all node positions.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Result reports what a layout pass computed. Node positions and edge-run
// flags are also written into the tree.
type Result struct {
	Columns [][]glycan.NodeID         // nodes per depth, breadth-first order
	Order   map[glycan.NodeID]float64 // tidy-tree order value per node
	Bounds  Bounds                    // extent of all node positions
	ScaleX  Scale                     // depth axis
	ScaleY  Scale                     // order axis
}

// Engine turns a tree into pixel coordinates. It holds only configuration;
// every call to Apply recomputes everything from the tree.
type Engine struct {
	cfg    Config
	domX   [2]float64
	domY   [2]float64
	scaleX Scale
	scaleY Scale
	sep    SeparationFunc
}

// New returns an engine for the given canvas.
func New(cfg Config) *Engine {
	cfg = cfg.WithDefaults()
	e := &Engine{cfg: cfg, sep: Separation}
	e.domX = [2]float64{0, cfg.Width / cfg.SymbolSize / 2}
	e.domY = [2]float64{0, cfg.Height / cfg.SymbolSize / 2}
	e.scaleX = NewLinear(e.domX[0], e.domX[1], 0, cfg.Width).Nice(tickCount)
	e.scaleY = NewLinear(e.domY[0], e.domY[1], 0, cfg.Height).Nice(tickCount)
	return e
}

// Config returns the engine's canvas configuration.
func (e *Engine) Config() Config { return e.cfg }

// Scales returns the depth and order scales.
func (e *Engine) Scales() (x, y Scale) { return e.scaleX, e.scaleY }

// Origin returns the pixel position of the root.
func (e *Engine) Origin() (x, y float64) {
	return e.scaleX.Map(e.domX[1]), e.scaleY.Map(e.domY[1] / 2)
}

// Apply lays out t in place. It panics if t violates the tree invariants.
func (e *Engine) Apply(t *glycan.Tree) Result {
	t.MustValidate()

	cols := Columns(t)
	MarkEdgeRuns(t, cols)
	order := tidy(t, e.sep)

	b := Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for depth, col := range cols {
		x := e.scaleX.Map(e.domX[1] - float64(depth))
		for _, id := range col {
			n, _ := t.Node(id)
			n.X = x
			n.Y = e.scaleY.Map(order[id] + offset(n) + e.domY[1]/2)
			b.MinX, b.MaxX = math.Min(b.MinX, n.X), math.Max(b.MaxX, n.X)
			b.MinY, b.MaxY = math.Min(b.MinY, n.Y), math.Max(b.MaxY, n.Y)
		}
	}

	return Result{Columns: cols, Order: order, Bounds: b, ScaleX: e.scaleX, ScaleY: e.scaleY}
}

// offset moves edge-run decorations one row away from the node they hug.
func offset(n *glycan.Node) float64 {
	if !n.EdgeRun {
		return 0
	}
	switch n.Side {
	case glycan.Above:
		return -1
	case glycan.Below:
		return 1
	}
	return 0
}

// Columns groups node IDs by depth in breadth-first order.
func Columns(t *glycan.Tree) [][]glycan.NodeID {
	var cols [][]glycan.NodeID
	level := []glycan.NodeID{t.Root().ID}
	for len(level) > 0 {
		cols = append(cols, level)
		var next []glycan.NodeID
		for _, id := range level {
			n, _ := t.Node(id)
			next = append(next, n.Children...)
		}
		level = next
	}
	return cols
}

// MarkEdgeRuns recomputes every node's EdgeRun flag. An Above decoration is
// an edge run when every node before it in its column is an Above
// decoration; a Below decoration when every node after it is a Below
// decoration.
func MarkEdgeRuns(t *glycan.Tree, cols [][]glycan.NodeID) {
	for _, col := range cols {
		nodes := make([]*glycan.Node, len(col))
		for i, id := range col {
			nodes[i], _ = t.Node(id)
			nodes[i].EdgeRun = false
		}
		for _, n := range nodes {
			if n.Side != glycan.Above {
				break
			}
			n.EdgeRun = true
		}
		for i := len(nodes) - 1; i >= 0; i-- {
			if nodes[i].Side != glycan.Below {
				break
			}
			nodes[i].EdgeRun = true
		}
	}
}
