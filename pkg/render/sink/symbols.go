package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
)

const (
	strokeColor = "#888"
	splitFill   = "#FFFFFF"
)

// family index of each symbol shape.
const (
	famRedEnd glycan.Family = iota
	famHex
	famHexNAc
	famHexN
	famHexA
	famDHex
	famDHexNAc
	famDDHex
	famPent
	famSia
)

// writeSymbol writes the SNFG shape of k into a box of edge s whose top-left
// corner is the local origin.
func writeSymbol(buf *bytes.Buffer, k glycan.Kind, s float64) {
	fmt.Fprintf(buf, `    <g fill="%s"`, k.Color())
	switch k.Family() {
	case famHexA, famSia:
		fmt.Fprintf(buf, ` transform="translate(0 %s) rotate(-45) scale(%s)"`, num(s/2), num(1/math.Sqrt2))
	case famDDHex:
		fmt.Fprintf(buf, ` transform="translate(0 %s)"`, num(s/4))
	case famPent:
		fmt.Fprintf(buf, ` transform="translate(%s %s)"`, num(s/2), num(s/2))
	}
	buf.WriteString(">\n")

	defer buf.WriteString("    </g>\n")
	if k.Mirrored() {
		fmt.Fprintf(buf, `      <g transform="translate(0 %s) scale(1 -1)">`+"\n", num(s))
		defer buf.WriteString("      </g>\n")
	}

	switch k.Family() {
	case famRedEnd:
		circle(buf, s/2, s/2, s/4)
	case famHex:
		circle(buf, s/2, s/2, s/2)
	case famHexNAc:
		rect(buf, 0, s, s)
	case famHexN, famHexA:
		rect(buf, 0, s, s)
		polygon(buf, splitFill, [][2]float64{{0, 0}, {0, s}, {s, s}})
	case famDHex, famDHexNAc:
		h := math.Sqrt(3) * s / 2
		polygon(buf, "", [][2]float64{{s / 2, 0}, {0, h}, {s, h}})
		if k.Family() == famDHexNAc {
			polygon(buf, splitFill, [][2]float64{{s / 2, 0}, {0, h}, {s / 2, h}})
		}
	case famDDHex:
		rect(buf, 0, s, s/2)
	case famPent:
		fmt.Fprintf(buf, `      <path d="%s" stroke="%s"/>`+"\n", starPath(s/2, s/4), strokeColor)
	case famSia:
		rect(buf, 0, s, s)
	}
}

func circle(buf *bytes.Buffer, cx, cy, r float64) {
	fmt.Fprintf(buf, `      <circle cx="%s" cy="%s" r="%s" stroke="%s"/>`+"\n", num(cx), num(cy), num(r), strokeColor)
}

func rect(buf *bytes.Buffer, y, w, h float64) {
	fmt.Fprintf(buf, `      <rect y="%s" width="%s" height="%s" stroke="%s"/>`+"\n", num(y), num(w), num(h), strokeColor)
}

func polygon(buf *bytes.Buffer, fill string, pts [][2]float64) {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p[0]) + " " + num(p[1])
	}
	buf.WriteString(`      <polygon points="` + strings.Join(parts, ", ") + `"`)
	if fill != "" {
		fmt.Fprintf(buf, ` fill="%s"`, fill)
	}
	fmt.Fprintf(buf, ` stroke="%s"/>`+"\n", strokeColor)
}

// starPath returns a closed five-pointed star centred on the origin with the
// first point straight up.
func starPath(outer, inner float64) string {
	var b strings.Builder
	for i := range 11 {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := math.Pi * 0.2 * float64(i)
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s%s,%s", cmd, num(r*math.Sin(a)), num(-r*math.Cos(a)))
	}
	b.WriteString("Z")
	return b.String()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
