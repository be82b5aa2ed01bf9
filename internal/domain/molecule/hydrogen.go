package molecule

import (
	"fmt"
	"math"

	"github.com/turtacn/molgraph/internal/domain/element"
	"github.com/turtacn/molgraph/pkg/errors"
)

// ValenceModel parameterizes implicit hydrogen inference.
//
// For an inferred organic-subset atom with v valence electrons the target is
// 8 - v + charge.  Every incident bond subtracts its electron contribution and
// an aromatic atom additionally subtracts AromaticAtomPenalty.  The floored
// remainder r becomes 4 - |4 - r| hydrogens, clamped at zero, so no atom
// receives more than MaxInferredHydrogens.  The fold maps boron's 5 to 3 and
// a carbocation's 5 to 3.
type ValenceModel struct {
	// AromaticBondElectrons is the contribution of one aromatic bond.  1 pairs
	// with AromaticAtomPenalty 1; 1.5 pairs with AromaticAtomPenalty 0.
	AromaticBondElectrons float64
	// AromaticAtomPenalty is subtracted once per aromatic atom.
	AromaticAtomPenalty int
	// Elements resolves valence electrons; element.Default when nil.
	Elements element.Provider
}

// MaxInferredHydrogens bounds the hydrogens inferred for a single atom.
const MaxInferredHydrogens = 4

// DefaultValenceModel counts aromatic bonds as one electron and removes one
// hydrogen per aromatic atom, so "c1ccccc1" and "C1=CC=CC=C1" both give C6H6.
func DefaultValenceModel() ValenceModel {
	return ValenceModel{
		AromaticBondElectrons: 1,
		AromaticAtomPenalty:   1,
		Elements:              element.Default,
	}
}

// ImplicitHydrogens computes the number of hydrogens to attach to atom id
// under the model, without mutating the molecule.  Atoms whose request is
// not HydrogenInferred, or whose element is outside the organic subset,
// return their explicit count or zero.
func (vm ValenceModel) ImplicitHydrogens(m *Molecule, id AtomID) (int, error) {
	a := m.atoms[id]
	switch a.Hydrogens.Kind {
	case HydrogenExplicit:
		return a.Hydrogens.Count, nil
	case HydrogenNotApplicable:
		return 0, nil
	}
	if !element.IsOrganicSubset(a.Symbol) {
		return 0, nil
	}
	provider := vm.Elements
	if provider == nil {
		provider = element.Default
	}
	info, ok := provider.Lookup(a.Symbol)
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownElement, fmt.Sprintf("unknown element %q", a.Symbol))
	}

	target := float64(8 - info.ValenceElectrons() + a.Charge)
	for _, bid := range m.incident[id] {
		target -= m.bonds[bid].Order.Electrons(vm.AromaticBondElectrons)
	}
	if a.Aromatic {
		target -= float64(vm.AromaticAtomPenalty)
	}
	return foldHydrogens(target), nil
}

// foldHydrogens turns a remaining bond-electron target into a hydrogen count
// in [0, MaxInferredHydrogens].
func foldHydrogens(target float64) int {
	if math.IsNaN(target) || target <= 0 || target >= 2*MaxInferredHydrogens {
		return 0
	}
	r := int(math.Floor(target + 1e-9))
	d := MaxInferredHydrogens - r
	if d < 0 {
		d = -d
	}
	if n := MaxInferredHydrogens - d; n > 0 {
		return n
	}
	return 0
}

// CompleteHydrogens attaches hydrogen atoms to every atom with an inferred or
// explicit request and records the resolved count in HydrogenCount.  Counts
// are computed for all atoms before any hydrogen is added, so the result
// does not depend on atom order.  Afterwards no atom carries an inferred
// request: resolved atoms hold an explicit count and atoms outside the
// organic subset hold NotApplicable.  A second call is a no-op.
func (m *Molecule) CompleteHydrogens(vm ValenceModel) error {
	if m.hydrogensCompleted {
		return nil
	}
	n := len(m.atoms)
	counts := make([]int, n)
	for i := 0; i < n; i++ {
		c, err := vm.ImplicitHydrogens(m, AtomID(i))
		if err != nil {
			return err
		}
		counts[i] = c
	}
	for i := 0; i < n; i++ {
		parent := AtomID(i)
		for k := 0; k < counts[i]; k++ {
			h := m.AddAtom(Atom{Symbol: "H", Hydrogens: NoHydrogens(), Offset: -1})
			if _, err := m.AddBond(parent, h, BondSingle, DirNone); err != nil {
				return err
			}
		}
		m.atoms[i].HydrogenCount = counts[i]
		if m.atoms[i].Hydrogens.Kind == HydrogenInferred {
			if element.IsOrganicSubset(m.atoms[i].Symbol) {
				m.atoms[i].Hydrogens = ExplicitHydrogens(counts[i])
			} else {
				m.atoms[i].Hydrogens = NoHydrogens()
			}
		}
	}
	m.hydrogensCompleted = true
	return nil
}
