package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	errs "github.com/matzehuels/glycodraw/pkg/errors"
	"github.com/matzehuels/glycodraw/pkg/graph"
	"github.com/matzehuels/glycodraw/pkg/render"
)

// memCache is a map-backed cache.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	m.sets++
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

func sampleDoc(t *testing.T) graph.Glycan {
	t.Helper()
	reg := glycan.NewRegistry()
	tr := glycan.NewTree(reg)
	first := tr.Root().Children[0]
	for _, k := range []glycan.Kind{glycan.Gal, glycan.Man, glycan.Neu5Ac} {
		if err := tr.AppendChild(first, reg.NewNode(k)); err != nil {
			t.Fatal(err)
		}
	}
	return graph.FromTree(tr)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
	if err := ValidateFormats([]string{"svg", "gif"}); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("ValidateFormats() = %v", err)
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestValidateVizType(t *testing.T) {
	for _, v := range []string{"snfg", "nodelink"} {
		if err := ValidateVizType(v); err != nil {
			t.Errorf("ValidateVizType(%q) = %v", v, err)
		}
	}
	if err := ValidateVizType("sankey"); err == nil {
		t.Error("sankey accepted")
	}
}

func TestSetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	if o.VizType != DefaultVizType || o.Width != 800 || o.Height != 600 || o.SymbolSize != 28 {
		t.Errorf("layout defaults = %+v", o)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG || o.Scale != DefaultPNGScale || o.Background != DefaultBackground {
		t.Errorf("render defaults = %+v", o)
	}
	if o.Logger == nil {
		t.Error("logger not defaulted")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{Scale: 3, Detailed: true}
	o.SetDefaults()
	if k := o.ArtifactKeyOpts(FormatSVG); k.Scale != 0 || k.Detailed {
		t.Errorf("svg key = %+v", k)
	}
	if k := o.ArtifactKeyOpts(FormatPNG); k.Scale != 3 {
		t.Errorf("png key = %+v", k)
	}
	if k := o.ArtifactKeyOpts(FormatDOT); !k.Detailed {
		t.Errorf("dot key = %+v", k)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	doc := sampleDoc(t)

	res, err := r.Execute(ctx, doc, Options{Formats: []string{FormatSVG, FormatJSON, FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Error("first run hit the cache")
	}
	if res.Stats.NodeCount != 5 || len(res.Layout.Nodes) != 5 {
		t.Errorf("nodes = %d / %d", res.Stats.NodeCount, len(res.Layout.Nodes))
	}
	svg := string(res.Artifacts[FormatSVG])
	if !strings.HasPrefix(svg, "<?xml") || !strings.Contains(svg, `id="Neu5Ac_5"`) {
		t.Errorf("svg = %s", svg)
	}
	if _, err := graph.UnmarshalLayout(res.Artifacts[FormatJSON]); err != nil {
		t.Errorf("json artifact: %v", err)
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), `"n2" -> "n3"`) {
		t.Errorf("dot = %s", res.Artifacts[FormatDOT])
	}

	again, err := r.Execute(ctx, doc, Options{Formats: []string{FormatSVG, FormatJSON, FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run cache = %+v", again.CacheInfo)
	}
	if !bytes.Equal(again.Artifacts[FormatSVG], res.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	renamed := doc
	renamed.Name = "other"
	third, err := r.Execute(ctx, renamed, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if third.DocHash != res.DocHash || !third.CacheInfo.LayoutHit {
		t.Error("name changed the document hash")
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	doc := sampleDoc(t)

	if _, err := r.Execute(ctx, doc, Options{}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, doc, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("refresh hit cache: %+v", res.CacheInfo)
	}
}

func TestExecuteTreeLeavesCallerTree(t *testing.T) {
	tr, err := graph.ToTree(sampleDoc(t), glycan.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, nil)
	res, err := r.ExecuteTree(context.Background(), tr, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range tr.Nodes() {
		if n.X != 0 || n.Y != 0 {
			t.Fatalf("caller tree node %d moved to (%v, %v)", n.ID, n.X, n.Y)
		}
	}
	if res.Tree == tr {
		t.Error("result shares the caller's tree")
	}
}

func TestExecuteNodelink(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), sampleDoc(t), Options{
		VizType: "nodelink",
		Formats: []string{FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Layout.IsNodelink() || res.Layout.DOT == "" {
		t.Errorf("layout = %+v", res.Layout)
	}
	if string(res.Artifacts[FormatDOT]) != res.Layout.DOT {
		t.Error("dot artifact differs from layout")
	}
}

func TestExecuteRejects(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, graph.Glycan{}, Options{}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("empty document: %v", err)
	}
	if _, err := r.Execute(ctx, sampleDoc(t), Options{Formats: []string{"gif"}}); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("bad format: %v", err)
	}
}

func TestExecutePNG(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), sampleDoc(t), Options{Formats: []string{FormatPNG}})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("not a PNG")
	}
}

func TestContentType(t *testing.T) {
	if ContentType(FormatSVG) != "image/svg+xml" || ContentType("x") != "application/octet-stream" {
		t.Error("unexpected content types")
	}
}
