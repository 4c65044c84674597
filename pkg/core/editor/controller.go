package editor

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/core/layout"
	"github.com/matzehuels/glycodraw/pkg/core/planner"
	"github.com/matzehuels/glycodraw/pkg/core/scene"
	errs "github.com/matzehuels/glycodraw/pkg/errors"
	"github.com/matzehuels/glycodraw/pkg/observability"
)

var (
	// ErrGestureActive is returned by [Controller.DragStart] and
	// [Controller.Click] while a drag gesture is in progress.
	ErrGestureActive = errs.New(errs.ErrCodeGestureActive, "a drag gesture is already active")

	// ErrNoGesture is reported when a drag event arrives while idle.
	ErrNoGesture = errors.New("no drag gesture in progress")

	// ErrCancelled is the discard reason of a gesture ended by Cancel.
	ErrCancelled = errors.New("gesture cancelled")
)

// State is the gesture state of a controller.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Source is where a drag starts: an existing node (Anchor set) or a palette
// button (Kind at X, Y).
type Source struct {
	Anchor glycan.NodeID
	Kind   glycan.Kind
	X, Y   float64
}

func (s Source) name() string {
	if s.Anchor != glycan.NoNode {
		return "node"
	}
	return "palette"
}

// Outcome reports how a gesture ended.
type Outcome struct {
	Committed bool
	Node      glycan.NodeID     // the committed node
	Placement planner.Placement // where it landed
	Reason    error             // why the gesture was discarded
}

// Controller turns drag and click events into tree edits. It owns the
// gesture state machine (Idle, Dragging) and drives the planner, the tree,
// the layout engine and the scene in that order.
//
// Controller is not safe for concurrent use; hosts deliver events from a
// single goroutine.
type Controller struct {
	tree    *glycan.Tree
	scene   *scene.Scene
	engine  *layout.Engine
	palette *Palette
	history *History
	logger  *log.Logger

	state    State
	ctx      context.Context
	ghost    *glycan.Node
	ghostH   scene.Handle
	started  time.Time
	onCancel func()
	stop     func() bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLayout sets the canvas geometry.
func WithLayout(cfg layout.Config) Option {
	return func(c *Controller) { c.engine = layout.New(cfg) }
}

// WithPalette shares a palette with the host's toolbar.
func WithPalette(p *Palette) Option {
	return func(c *Controller) {
		if p != nil {
			c.palette = p
		}
	}
}

// WithCancelHook registers fn to run once when the context of an active
// gesture is cancelled. fn runs on its own goroutine and must not touch the
// controller; hosts use it to schedule Cancel on their event loop.
func WithCancelHook(fn func()) Option {
	return func(c *Controller) { c.onCancel = fn }
}

// WithHistory bounds the undo history to n edits.
func WithHistory(n int) Option {
	return func(c *Controller) { c.history = NewHistory(n) }
}

// New returns a controller editing tree and drawing on surface. The tree is
// laid out and drawn once before New returns.
func New(tree *glycan.Tree, surface scene.Surface, opts ...Option) *Controller {
	c := &Controller{
		tree:    tree,
		scene:   scene.New(surface),
		engine:  layout.New(layout.DefaultConfig()),
		palette: NewPalette(),
		history: NewHistory(0),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Relayout()
	return c
}

// Tree returns the edited tree.
func (c *Controller) Tree() *glycan.Tree { return c.tree }

// Scene returns the scene bookkeeping for the surface.
func (c *Controller) Scene() *scene.Scene { return c.scene }

// Engine returns the layout engine.
func (c *Controller) Engine() *layout.Engine { return c.engine }

// Palette returns the palette consulted for new nodes.
func (c *Controller) Palette() *Palette { return c.palette }

// History returns the undo history.
func (c *Controller) History() *History { return c.history }

// State returns the gesture state.
func (c *Controller) State() State { return c.state }

// Ghost returns the node being dragged.
func (c *Controller) Ghost() (*glycan.Node, bool) { return c.ghost, c.ghost != nil }

// RootHandle returns the surface handle of the root for exporters.
func (c *Controller) RootHandle() scene.Handle { return c.scene.RootHandle() }

// Relayout runs a full layout pass and syncs the surface.
func (c *Controller) Relayout() layout.Result {
	start := time.Now()
	res := c.engine.Apply(c.tree)
	c.scene.Sync(c.tree)
	observability.Editor().OnLayout(c.context(), c.tree.Len(), time.Since(start))
	return res
}

// DragStart begins a gesture. The ghost takes the palette selection if one
// is active, otherwise the kind of the source. It starts at the source
// position and is drawn immediately.
func (c *Controller) DragStart(ctx context.Context, src Source) error {
	if c.state == Dragging {
		return ErrGestureActive
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	kind, x, y := src.Kind, src.X, src.Y
	if src.Anchor != glycan.NoNode {
		a, ok := c.tree.Node(src.Anchor)
		if !ok {
			return errs.New(errs.ErrCodeInvalidTarget, "node %d is not in the tree", src.Anchor)
		}
		kind, x, y = a.Kind, a.X, a.Y
	}
	if sel, ok := c.palette.Selected(); ok {
		kind = sel
	}
	if kind == glycan.ReducingEnd {
		kind = glycan.GlcNAc
	}
	if !kind.Valid() {
		return errs.New(errs.ErrCodeInvalidKind, "unknown kind %d", int(kind))
	}

	ghost := c.tree.Registry().NewNode(kind)
	ghost.X, ghost.Y = x, y
	c.ghost = ghost
	c.ghostH = c.scene.Surface().RenderNode(ghost)
	c.state = Dragging
	c.ctx = ctx
	c.started = time.Now()
	if c.onCancel != nil {
		c.stop = context.AfterFunc(ctx, c.onCancel)
	}

	c.logger.Debug("drag start", "source", src.name(), "kind", kind, "id", ghost.ID)
	observability.Editor().OnGestureStart(ctx, src.name(), kind.Symbol())
	return nil
}

// DragMove moves the ghost by a pointer delta. A cancelled gesture context
// discards the ghost and returns the context error.
func (c *Controller) DragMove(dx, dy float64) error {
	if c.state != Dragging {
		return ErrNoGesture
	}
	if err := c.ctx.Err(); err != nil {
		c.discard(err)
		return err
	}
	c.ghost.X += dx
	c.ghost.Y += dy
	c.scene.Surface().UpdateNodePosition(c.ghostH, c.ghost.X, c.ghost.Y)
	return nil
}

// DragEnd finishes the gesture over target (NoNode when released over
// nothing). The ghost is planned and inserted; any rejection discards it and
// leaves the tree untouched.
func (c *Controller) DragEnd(target glycan.NodeID) Outcome {
	if c.state != Dragging {
		return Outcome{Reason: ErrNoGesture}
	}
	if err := c.ctx.Err(); err != nil {
		return c.discard(err)
	}
	if target == glycan.NoNode {
		return c.discard(errs.New(errs.ErrCodeInvalidTarget, "released outside any node"))
	}

	drop := planner.Drop{Kind: c.ghost.Kind, Side: c.ghost.Side, Y: c.ghost.Y}
	p, err := planner.Plan(c.tree, target, drop)
	if err != nil {
		return c.discard(err)
	}
	if err := planner.Apply(c.tree, c.ghost, p); err != nil {
		return c.discard(err)
	}

	node, ctx := c.ghost, c.ctx
	c.scene.Adopt(node.ID, c.ghostH)
	c.history.Push(Edit{Parent: p.Parent, Node: node.ID})
	c.reset()
	c.Relayout()

	c.logger.Debug("drag commit", "kind", node.Kind, "parent", p.Parent, "index", p.Index, "side", p.Side)
	observability.Editor().OnGestureCommit(ctx, node.Kind.Symbol(), p.Side.String(), time.Since(c.started))
	return Outcome{Committed: true, Node: node.ID, Placement: p}
}

// Cancel abandons the active gesture. The reason is the context error when
// the gesture context is already done, ErrCancelled otherwise.
//
// The gesture context is checked lazily: after it is cancelled, State still
// reports Dragging and the ghost stays drawn until the next DragMove,
// DragEnd or Cancel. Hosts that need the discard right away register
// WithCancelHook and call Cancel from it.
func (c *Controller) Cancel() Outcome {
	if c.state != Dragging {
		return Outcome{Reason: ErrNoGesture}
	}
	if err := c.ctx.Err(); err != nil {
		return c.discard(err)
	}
	return c.discard(ErrCancelled)
}

// Click appends a plain child to target: of the palette kind if one is
// selected, else of the target's kind. A reducing end is never copied; a
// click on the root without a selection appends GlcNAc.
func (c *Controller) Click(target glycan.NodeID) Outcome {
	if c.state == Dragging {
		return Outcome{Reason: ErrGestureActive}
	}
	t, ok := c.tree.Node(target)
	if !ok {
		return Outcome{Reason: errs.New(errs.ErrCodeInvalidTarget, "node %d is not in the tree", target)}
	}
	kind := t.Kind
	if sel, ok := c.palette.Selected(); ok {
		kind = sel
	}
	if kind == glycan.ReducingEnd {
		kind = glycan.GlcNAc
	}

	n := c.tree.Registry().NewNode(kind)
	n.Side = glycan.None
	if err := c.tree.AppendChild(target, n); err != nil {
		return Outcome{Reason: err}
	}
	c.history.Push(Edit{Parent: target, Node: n.ID})
	c.Relayout()

	c.logger.Debug("click append", "kind", kind, "parent", target)
	return Outcome{
		Committed: true,
		Node:      n.ID,
		Placement: planner.Placement{Parent: target, Index: len(t.Children) - 1},
	}
}

// Remove deletes id with its subtree and anchored decorations. It reports
// false for the root and unknown nodes.
func (c *Controller) Remove(id glycan.NodeID) bool {
	if c.state == Dragging {
		return false
	}
	n, ok := c.tree.Node(id)
	if !ok || n.Parent == glycan.NoNode {
		return false
	}
	if !c.tree.RemoveChild(n.Parent, id) {
		return false
	}
	c.Relayout()
	c.logger.Debug("remove", "id", id)
	return true
}

// Undo removes the most recently committed node still in the tree.
func (c *Controller) Undo() bool {
	if c.state == Dragging {
		return false
	}
	for {
		e, ok := c.history.Pop()
		if !ok {
			return false
		}
		if c.tree.RemoveChild(e.Parent, e.Node) {
			c.Relayout()
			c.logger.Debug("undo", "id", e.Node)
			return true
		}
	}
}

func (c *Controller) discard(reason error) Outcome {
	kind, ctx := c.ghost.Kind, c.context()
	c.scene.Surface().RemoveNode(c.ghostH)
	c.reset()

	c.logger.Debug("drag discard", "kind", kind, "reason", reason)
	observability.Editor().OnGestureDiscard(ctx, kind.Symbol(), reasonCode(reason))
	return Outcome{Reason: reason}
}

func (c *Controller) reset() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	c.ghost = nil
	c.ghostH = scene.NoHandle
	c.state = Idle
	c.ctx = nil
}

func (c *Controller) context() context.Context {
	if c.ctx != nil {
		return c.ctx
	}
	return context.Background()
}

func reasonCode(err error) string {
	if code := errs.GetCode(err); code != "" {
		return string(code)
	}
	return err.Error()
}
