// Package molecule is the arena-backed molecular graph produced by the SMILES
// parser, together with the analyses that run over a finished graph: implicit
// hydrogen completion, longest-chain extraction and ring enumeration.
//
// Atoms and bonds are addressed by dense integer handles (AtomID, BondID) into
// slices owned by the Molecule.  Adjacency is kept as index lists, so every
// traversal works on integers and a Molecule can be copied with Clone.
package molecule

import "fmt"

// AtomID is the stable handle of an atom inside its Molecule.
type AtomID int

// NoAtom is the zero value for "no atom", used for an empty active-atom slot.
const NoAtom AtomID = -1

// ─────────────────────────────────────────────────────────────────────────────
// Hydrogen requests
// ─────────────────────────────────────────────────────────────────────────────

// HydrogenKind tags how an atom's hydrogen count is determined.
type HydrogenKind uint8

const (
	// HydrogenInferred means the count is computed from valence during completion.
	HydrogenInferred HydrogenKind = iota
	// HydrogenExplicit means the count was written in the input, e.g. [NH2].
	HydrogenExplicit
	// HydrogenNotApplicable means no hydrogens are added, e.g. a bracket metal
	// without an H field or a hydrogen atom itself.
	HydrogenNotApplicable
)

func (k HydrogenKind) String() string {
	switch k {
	case HydrogenInferred:
		return "inferred"
	case HydrogenExplicit:
		return "explicit"
	case HydrogenNotApplicable:
		return "not_applicable"
	default:
		return fmt.Sprintf("HydrogenKind(%d)", uint8(k))
	}
}

// HydrogenSpec is the tagged hydrogen request carried by an atom until
// hydrogen completion consumes it.
type HydrogenSpec struct {
	Kind  HydrogenKind
	Count int // meaningful only for HydrogenExplicit
}

// InferHydrogens requests valence-based inference.
func InferHydrogens() HydrogenSpec { return HydrogenSpec{Kind: HydrogenInferred} }

// ExplicitHydrogens requests exactly n hydrogens.
func ExplicitHydrogens(n int) HydrogenSpec { return HydrogenSpec{Kind: HydrogenExplicit, Count: n} }

// NoHydrogens marks an atom that never receives hydrogens.
func NoHydrogens() HydrogenSpec { return HydrogenSpec{Kind: HydrogenNotApplicable} }

// ─────────────────────────────────────────────────────────────────────────────
// Atom
// ─────────────────────────────────────────────────────────────────────────────

// Atom is one vertex of the molecular graph.
type Atom struct {
	ID AtomID

	// Symbol is the canonical element symbol ("C", "Cl"); aromatic atoms keep
	// the canonical uppercase form and set Aromatic.
	Symbol string

	// Isotope is the mass number, or 0 when unspecified.
	Isotope int

	Charge    int
	Aromatic  bool
	Chirality string

	// Hydrogens is the request; completion replaces an inferred request with
	// the explicit count it resolved.  HydrogenCount is the number of
	// hydrogen atoms attached by completion.
	Hydrogens     HydrogenSpec
	HydrogenCount int

	// Offset is the byte offset of the atom in the source string, or -1 for
	// atoms synthesized by hydrogen completion.
	Offset int
}

// IsHydrogen reports whether the atom is a hydrogen (any isotope).
func (a Atom) IsHydrogen() bool {
	return a.Symbol == "H"
}

// String renders the atom as symbol plus handle, e.g. "C3".
func (a Atom) String() string {
	return fmt.Sprintf("%s%d", a.Symbol, a.ID)
}
