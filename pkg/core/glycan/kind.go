package glycan

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a monosaccharide. The code is family*10 + member, where
// member 0 is the generic family symbol (Hex, HexNAc, ...). The reducing end
// is the single kind of family 0.
type Kind int

// Family groups kinds that share an SNFG shape.
type Family int

// Monosaccharide families in palette row order.
const (
	FamilyReducingEnd Family = iota
	FamilyHex
	FamilyHexNAc
	FamilyHexN
	FamilyHexA
	FamilyDHex
	FamilyDHexNAc
	FamilyDDHex
	FamilyPent
	FamilySia
)

// FamilyCount is the number of families (and palette rows).
const FamilyCount = 10

// Commonly used kinds. Every other code is reachable through ParseKind.
const (
	ReducingEnd Kind = 0

	Hex Kind = 10
	Glc Kind = 11
	Man Kind = 12
	Gal Kind = 13

	HexNAc Kind = 20
	GlcNAc Kind = 21
	ManNAc Kind = 22
	GalNAc Kind = 23

	GlcN Kind = 31
	GlcA Kind = 41
	AllA Kind = 46
	IdoA Kind = 48

	Fuc    Kind = 59
	FucNAc Kind = 69
	Xyl    Kind = 84
	Ara    Kind = 82
	Kdn    Kind = 92
	Neu5Ac Kind = 96
	Neu5Gc Kind = 97
)

var symbols = [FamilyCount][10]string{
	{"redEnd"},
	{"Hex", "Glc", "Man", "Gal", "Gul", "Alt", "All", "Tal", "Ido", ""},
	{"HexNAc", "GlcNAc", "ManNAc", "GalNAc", "GulNAc", "AltNAc", "AllNAc", "TalNAc", "IdoNAc", ""},
	{"HexN", "GlcN", "ManN", "GalN", "GulN", "AltN", "AllN", "TalN", "IdoN", ""},
	{"HexA", "GlcA", "ManA", "GalA", "GulA", "AltA", "AllA", "TalA", "IdoA", ""},
	{"dHex", "Qui", "Rha", "", "dGul", "dAlt", "", "dTal", "", "Fuc"},
	{"dHexNAc", "QuiNAc", "RhaNAc", "", "", "dAltNAc", "", "dTalNAc", "", "FucNAc"},
	{"ddHex", "Oli", "Tyv", "", "Abe", "Par", "Dig", "Col", "", ""},
	{"Pent", "", "Ara", "Lyx", "Xyl", "Rib", "", "", "", ""},
	{"Sia", "", "Kdn", "", "", "", "Neu5Ac", "Neu5Gc", "Neu", "Sia"},
}

// SNFG fill colours keyed by member index.
var colors = [10]string{
	"#FFFFFF", // white
	"#0072BC", // blue
	"#00A651", // green
	"#FFD400", // yellow
	"#F47920", // orange
	"#F69EA1", // pink
	"#A54399", // purple
	"#8FCCE9", // light blue
	"#A17A4D", // brown
	"#ED1C24", // red
}

var bySymbol = func() map[string]Kind {
	m := make(map[string]Kind)
	for f := range FamilyCount {
		for mem, s := range symbols[f] {
			if s == "" {
				continue
			}
			if _, ok := m[s]; !ok {
				m[s] = Kind(f*10 + mem)
			}
		}
	}
	return m
}()

// Family returns the kind's family.
func (k Kind) Family() Family { return Family(int(k) / 10) }

// Member returns the member index within the family (0 is the generic symbol).
func (k Kind) Member() int { return int(k) % 10 }

// Valid reports whether k names a catalogued monosaccharide.
func (k Kind) Valid() bool {
	if k < 0 || int(k) >= FamilyCount*10 {
		return false
	}
	return symbols[k.Family()][k.Member()] != ""
}

// Symbol returns the short SNFG name, e.g. "GlcNAc". Unknown kinds render as
// "Kind(n)".
func (k Kind) Symbol() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return symbols[k.Family()][k.Member()]
}

func (k Kind) String() string { return k.Symbol() }

// Color returns the SNFG fill colour for the kind.
func (k Kind) Color() string {
	if k < 0 {
		return colors[0]
	}
	return colors[k.Member()]
}

// DefaultSide is the decoration side a freshly created node of this kind
// carries. Fucose and xylose hug their neighbour from above.
func (k Kind) DefaultSide() Side {
	switch k {
	case Fuc, Xyl:
		return Above
	}
	return None
}

// Mirrored reports whether the symbol is drawn flipped vertically (L-sugars
// in the uronic acid family).
func (k Kind) Mirrored() bool { return k == AllA || k == IdoA }

// ParseKind resolves a symbol (case-insensitive) or a numeric code.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if k, ok := bySymbol[s]; ok {
		return k, nil
	}
	for sym, k := range bySymbol {
		if strings.EqualFold(sym, s) {
			return k, nil
		}
	}
	if code, err := strconv.Atoi(s); err == nil {
		if k := Kind(code); k.Valid() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds returns every valid kind in code order.
func Kinds() []Kind {
	var out []Kind
	for code := range FamilyCount * 10 {
		if k := Kind(code); k.Valid() {
			out = append(out, k)
		}
	}
	return out
}

func (f Family) String() string {
	if f < 0 || f >= FamilyCount {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return symbols[f][0]
}

// Side is the decoration side of a node relative to the sibling it decorates.
type Side int

const (
	None Side = iota
	Above
	Below
)

func (s Side) String() string {
	switch s {
	case Above:
		return "above"
	case Below:
		return "below"
	}
	return ""
}

// Opposite returns the other decoration side; None maps to None.
func (s Side) Opposite() Side {
	switch s {
	case Above:
		return Below
	case Below:
		return Above
	}
	return None
}

// ParseSide accepts "", "none", "above" and "below".
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "above":
		return Above, nil
	case "below":
		return Below, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownSide, s)
}
