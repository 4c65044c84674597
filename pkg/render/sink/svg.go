package sink

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"io"
	"maps"
	"slices"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/core/layout"
	"github.com/matzehuels/glycodraw/pkg/core/scene"
	"github.com/matzehuels/glycodraw/pkg/graph"
)

const (
	DefaultTitle       = "GLYCOdraw"
	DefaultDescription = "Glycan structure drawn with GLYCOdraw."
	DefaultBackground  = "white"
)

const symbolCSS = `
    .sac { cursor: pointer; }
    .sac:hover { stroke-width: 2; overflow: visible; }
    .linkage { stroke: #000; stroke-width: 1; }`

// Option configures a Surface.
type Option func(*Surface)

// WithCanvas sets the document size in pixels.
func WithCanvas(width, height float64) Option {
	return func(s *Surface) { s.width, s.height = width, height }
}

// WithSymbolSize sets the edge length of one symbol.
func WithSymbolSize(size float64) Option {
	return func(s *Surface) { s.size = size }
}

// WithBackground sets the background fill. An empty colour leaves the
// background transparent.
func WithBackground(color string) Option {
	return func(s *Surface) { s.background = color }
}

// WithTitle sets the document title and description.
func WithTitle(title, desc string) Option {
	return func(s *Surface) { s.title, s.desc = title, desc }
}

// WithXMLDeclaration prefixes the document with an XML declaration, as
// standalone .svg files expect.
func WithXMLDeclaration() Option {
	return func(s *Surface) { s.xmlDecl = true }
}

type symbol struct {
	id   glycan.NodeID
	kind glycan.Kind
	x, y float64
}

// Surface is a [scene.Surface] that keeps the drawing in memory and writes
// it as an SVG document. Node positions are the top-left corners of their
// symbols; linkages join symbol centres.
type Surface struct {
	width, height float64
	size          float64
	background    string
	title, desc   string
	xmlDecl       bool

	next    scene.Handle
	symbols map[scene.Handle]*symbol
	links   map[scene.Handle]scene.Handle
}

var _ scene.Surface = (*Surface)(nil)

// NewSurface returns an empty surface with the default canvas.
func NewSurface(opts ...Option) *Surface {
	s := &Surface{
		width:      layout.DefaultWidth,
		height:     layout.DefaultHeight,
		size:       layout.DefaultSymbolSize,
		background: DefaultBackground,
		title:      DefaultTitle,
		desc:       DefaultDescription,
		symbols:    make(map[scene.Handle]*symbol),
		links:      make(map[scene.Handle]scene.Handle),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RenderNode draws n at its current position.
func (s *Surface) RenderNode(n *glycan.Node) scene.Handle {
	s.next++
	s.symbols[s.next] = &symbol{id: n.ID, kind: n.Kind, x: n.X, y: n.Y}
	return s.next
}

// UpdateNodePosition moves a drawn symbol. Unknown handles are ignored.
func (s *Surface) UpdateNodePosition(h scene.Handle, x, y float64) {
	if sym, ok := s.symbols[h]; ok {
		sym.x, sym.y = x, y
	}
}

// RemoveNode erases a symbol and every linkage touching it.
func (s *Surface) RemoveNode(h scene.Handle) {
	delete(s.symbols, h)
	delete(s.links, h)
	for child, parent := range s.links {
		if parent == h {
			delete(s.links, child)
		}
	}
}

// RenderLinkage draws the bond from child to parent, replacing any bond
// previously drawn from child.
func (s *Surface) RenderLinkage(child, parent scene.Handle) {
	s.links[child] = parent
}

// Len returns the number of drawn symbols.
func (s *Surface) Len() int { return len(s.symbols) }

// Bytes returns the SVG document.
func (s *Surface) Bytes() []byte {
	var buf bytes.Buffer
	s.write(&buf)
	return buf.Bytes()
}

// WriteSVG writes the SVG document to w.
func (s *Surface) WriteSVG(w io.Writer) error {
	var buf bytes.Buffer
	s.write(&buf)
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func (s *Surface) write(buf *bytes.Buffer) {
	if s.xmlDecl {
		buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>` + "\n")
	}
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(s.width), num(s.height), num(s.width), num(s.height))
	fmt.Fprintf(buf, "  <title>%s</title>\n", html.EscapeString(s.title))
	if s.desc != "" {
		fmt.Fprintf(buf, "  <desc>%s</desc>\n", html.EscapeString(s.desc))
	}
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", symbolCSS)
	if s.background != "" {
		fmt.Fprintf(buf, `  <rect class="background" width="%s" height="%s" fill="%s"/>`+"\n",
			num(s.width), num(s.height), html.EscapeString(s.background))
	}

	half := s.size / 2
	buf.WriteString(`  <g class="linkages">` + "\n")
	for _, child := range slices.Sorted(maps.Keys(s.links)) {
		from, ok1 := s.symbols[child]
		to, ok2 := s.symbols[s.links[child]]
		if !ok1 || !ok2 {
			continue
		}
		fmt.Fprintf(buf, `    <line class="linkage" x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n",
			num(from.x+half), num(from.y+half), num(to.x+half), num(to.y+half))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="symbols">` + "\n")
	for _, h := range s.sortedHandles() {
		sym := s.symbols[h]
		fmt.Fprintf(buf, `  <g id="%s_%d" class="sac %s" transform="translate(%s %s)">`+"\n",
			sym.kind.Symbol(), sym.id, sym.kind.Symbol(), num(sym.x), num(sym.y))
		writeSymbol(buf, sym.kind, s.size)
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
}

// sortedHandles orders symbols by node ID so that documents do not depend on
// drawing history.
func (s *Surface) sortedHandles() []scene.Handle {
	hs := slices.Collect(maps.Keys(s.symbols))
	slices.SortFunc(hs, func(a, b scene.Handle) int {
		return cmp.Or(cmp.Compare(s.symbols[a].id, s.symbols[b].id), cmp.Compare(a, b))
	})
	return hs
}

// Render lays out t, draws it on a fresh surface and returns the SVG bytes.
// The surface takes its canvas from cfg unless opts override it.
func Render(t *glycan.Tree, cfg layout.Config, opts ...Option) []byte {
	cfg = cfg.WithDefaults()
	layout.New(cfg).Apply(t)
	base := []Option{WithCanvas(cfg.Width, cfg.Height), WithSymbolSize(cfg.SymbolSize)}
	surf := NewSurface(append(base, opts...)...)
	scene.New(surf).Sync(t)
	return surf.Bytes()
}

// RenderLayout draws a serialized SNFG layout without re-running the layout
// engine. Linkages naming unknown nodes are skipped.
func RenderLayout(l graph.Layout, opts ...Option) ([]byte, error) {
	if !l.IsSNFG() {
		return nil, fmt.Errorf("render layout: viz_type %q is not %q", l.VizType, graph.VizTypeSNFG)
	}
	base := []Option{WithCanvas(l.Width, l.Height)}
	if l.SymbolSize > 0 {
		base = append(base, WithSymbolSize(l.SymbolSize))
	}
	surf := NewSurface(append(base, opts...)...)

	handles := make(map[int64]scene.Handle, len(l.Nodes))
	for _, pn := range l.Nodes {
		k, err := glycan.ParseKind(pn.Kind)
		if err != nil {
			return nil, fmt.Errorf("render layout: node %d: %w", pn.ID, err)
		}
		handles[pn.ID] = surf.RenderNode(&glycan.Node{ID: glycan.NodeID(pn.ID), Kind: k, X: pn.X, Y: pn.Y})
	}
	for _, lk := range l.Linkages {
		from, ok1 := handles[lk.From]
		to, ok2 := handles[lk.To]
		if ok1 && ok2 {
			surf.RenderLinkage(from, to)
		}
	}
	return surf.Bytes(), nil
}
