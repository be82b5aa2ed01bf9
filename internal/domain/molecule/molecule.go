package molecule

import (
	"fmt"

	"github.com/turtacn/molgraph/pkg/errors"
)

// Molecule is a simple undirected graph of atoms and bonds.  Every
// bond references two atoms of the same Molecule and no unordered atom pair
// carries more than one bond.
//
// A Molecule is built by the parser and read by everything else.  Accessors
// return copies, so callers cannot break the invariants.
type Molecule struct {
	atoms    []Atom
	bonds    []Bond
	incident [][]BondID
	pairs    map[pairKey]BondID

	hydrogensCompleted bool
}

// New returns an empty Molecule.
func New() *Molecule {
	return &Molecule{pairs: make(map[pairKey]BondID)}
}

// ─────────────────────────────────────────────────────────────────────────────
// Construction
// ─────────────────────────────────────────────────────────────────────────────

// AddAtom appends a to the arena and returns its handle.  a.ID is overwritten.
func (m *Molecule) AddAtom(a Atom) AtomID {
	id := AtomID(len(m.atoms))
	a.ID = id
	m.atoms = append(m.atoms, a)
	m.incident = append(m.incident, nil)
	return id
}

// AddBond connects a and b.  It fails when either handle is unknown, when
// a == b, or when the pair is already bonded (ErrCodeDuplicateBond).
func (m *Molecule) AddBond(a, b AtomID, order BondOrder, dir Direction) (BondID, error) {
	if !m.valid(a) || !m.valid(b) {
		return -1, errors.New(errors.ErrCodeValidation,
			fmt.Sprintf("bond references unknown atom (%d, %d)", a, b))
	}
	if a == b {
		return -1, errors.New(errors.ErrCodeValidation,
			fmt.Sprintf("atom %d cannot bond to itself", a))
	}
	key := keyOf(a, b)
	if existing, ok := m.pairs[key]; ok {
		return existing, errors.New(errors.ErrCodeDuplicateBond,
			fmt.Sprintf("atoms %d and %d are already bonded", key.lo, key.hi))
	}
	id := BondID(len(m.bonds))
	m.bonds = append(m.bonds, Bond{ID: id, A: a, B: b, Order: order, Direction: dir})
	m.incident[a] = append(m.incident[a], id)
	m.incident[b] = append(m.incident[b], id)
	m.pairs[key] = id
	return id, nil
}

func (m *Molecule) valid(id AtomID) bool {
	return id >= 0 && int(id) < len(m.atoms)
}

// ─────────────────────────────────────────────────────────────────────────────
// Read accessors
// ─────────────────────────────────────────────────────────────────────────────

// AtomCount returns the number of atoms, hydrogens included.
func (m *Molecule) AtomCount() int { return len(m.atoms) }

// BondCount returns the number of bonds.
func (m *Molecule) BondCount() int { return len(m.bonds) }

// Atom returns the atom with the given handle.  It panics on an unknown
// handle, like a slice index would.
func (m *Molecule) Atom(id AtomID) Atom { return m.atoms[id] }

// Bond returns the bond with the given handle.
func (m *Molecule) Bond(id BondID) Bond { return m.bonds[id] }

// Atoms returns a copy of all atoms in handle order.
func (m *Molecule) Atoms() []Atom {
	out := make([]Atom, len(m.atoms))
	copy(out, m.atoms)
	return out
}

// Bonds returns a copy of all bonds in handle order.
func (m *Molecule) Bonds() []Bond {
	out := make([]Bond, len(m.bonds))
	copy(out, m.bonds)
	return out
}

// IncidentBonds returns the handles of the bonds touching id.
func (m *Molecule) IncidentBonds(id AtomID) []BondID {
	out := make([]BondID, len(m.incident[id]))
	copy(out, m.incident[id])
	return out
}

// Neighbors returns the atoms bonded to id, in bond creation order.
func (m *Molecule) Neighbors(id AtomID) []AtomID {
	out := make([]AtomID, 0, len(m.incident[id]))
	for _, bid := range m.incident[id] {
		out = append(out, m.bonds[bid].Other(id))
	}
	return out
}

// Degree returns the number of bonds touching id.
func (m *Molecule) Degree(id AtomID) int { return len(m.incident[id]) }

// BondBetween returns the bond joining a and b, if any.
func (m *Molecule) BondBetween(a, b AtomID) (Bond, bool) {
	id, ok := m.pairs[keyOf(a, b)]
	if !ok {
		return Bond{}, false
	}
	return m.bonds[id], true
}

// HeavyAtomCount returns the number of non-hydrogen atoms.
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for _, a := range m.atoms {
		if !a.IsHydrogen() {
			n++
		}
	}
	return n
}

// HydrogensCompleted reports whether CompleteHydrogens has run.
func (m *Molecule) HydrogensCompleted() bool { return m.hydrogensCompleted }

// Clone returns a deep copy.  Handles remain valid in the copy.
func (m *Molecule) Clone() *Molecule {
	c := &Molecule{
		atoms:              make([]Atom, len(m.atoms)),
		bonds:              make([]Bond, len(m.bonds)),
		incident:           make([][]BondID, len(m.incident)),
		pairs:              make(map[pairKey]BondID, len(m.pairs)),
		hydrogensCompleted: m.hydrogensCompleted,
	}
	copy(c.atoms, m.atoms)
	copy(c.bonds, m.bonds)
	for i, list := range m.incident {
		c.incident[i] = append([]BondID(nil), list...)
	}
	for k, v := range m.pairs {
		c.pairs[k] = v
	}
	return c
}

// Fragments returns the connected components as sorted atom handle lists,
// ordered by their smallest handle.
func (m *Molecule) Fragments() [][]AtomID {
	seen := make([]bool, len(m.atoms))
	var out [][]AtomID
	for start := range m.atoms {
		if seen[start] {
			continue
		}
		var comp []AtomID
		queue := []AtomID{AtomID(start)}
		seen[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			comp = append(comp, cur)
			for _, bid := range m.incident[cur] {
				n := m.bonds[bid].Other(cur)
				if !seen[n] {
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
		sortAtomIDs(comp)
		out = append(out, comp)
	}
	return out
}
