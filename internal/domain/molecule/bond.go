package molecule

import "fmt"

// BondID is the stable handle of a bond inside its Molecule.
type BondID int

// BondOrder is the multiplicity of a bond.
type BondOrder uint8

const (
	BondSingle BondOrder = iota + 1
	BondDouble
	BondTriple
	BondQuadruple
	BondAromatic
)

var bondSymbols = map[BondOrder]string{
	BondSingle:    "-",
	BondDouble:    "=",
	BondTriple:    "#",
	BondQuadruple: "$",
	BondAromatic:  ":",
}

// Symbol returns the SMILES bond character.
func (o BondOrder) Symbol() string {
	return bondSymbols[o]
}

func (o BondOrder) String() string {
	switch o {
	case BondSingle:
		return "single"
	case BondDouble:
		return "double"
	case BondTriple:
		return "triple"
	case BondQuadruple:
		return "quadruple"
	case BondAromatic:
		return "aromatic"
	default:
		return fmt.Sprintf("BondOrder(%d)", uint8(o))
	}
}

// Electrons returns the number of electrons the bond contributes to each
// endpoint's valence sum.  aromatic is the configured contribution of an
// aromatic bond.
func (o BondOrder) Electrons(aromatic float64) float64 {
	switch o {
	case BondDouble:
		return 2
	case BondTriple:
		return 3
	case BondQuadruple:
		return 4
	case BondAromatic:
		return aromatic
	default:
		return 1
	}
}

// Direction is the cis/trans marker of a directional single bond.  It is
// carried through unchanged and has no effect on valence.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp             // '/'
	DirDown           // '\'
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "/"
	case DirDown:
		return `\`
	default:
		return ""
	}
}

// ParseBondSymbol maps a SMILES bond character to its order and direction.
func ParseBondSymbol(c byte) (BondOrder, Direction, bool) {
	switch c {
	case '-':
		return BondSingle, DirNone, true
	case '=':
		return BondDouble, DirNone, true
	case '#':
		return BondTriple, DirNone, true
	case '$':
		return BondQuadruple, DirNone, true
	case ':':
		return BondAromatic, DirNone, true
	case '/':
		return BondSingle, DirUp, true
	case '\\':
		return BondSingle, DirDown, true
	default:
		return 0, DirNone, false
	}
}

// Bond is an undirected edge between two distinct atoms.
type Bond struct {
	ID        BondID
	A, B      AtomID
	Order     BondOrder
	Direction Direction
}

// Other returns the endpoint opposite to id.
func (b Bond) Other(id AtomID) AtomID {
	if b.A == id {
		return b.B
	}
	return b.A
}

// Has reports whether id is one of the bond's endpoints.
func (b Bond) Has(id AtomID) bool {
	return b.A == id || b.B == id
}

// pairKey is the unordered atom pair of a bond, smaller handle first.
type pairKey struct{ lo, hi AtomID }

func keyOf(a, b AtomID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}
