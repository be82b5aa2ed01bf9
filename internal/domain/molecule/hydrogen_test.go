package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/molgraph/internal/domain/element"
	"github.com/turtacn/molgraph/pkg/errors"
)

func TestCompleteHydrogens_Ethane(t *testing.T) {
	m := build(t, []string{"C", "C"}, []bondSpec{{a: 0, b: 1}})
	require.NoError(t, m.CompleteHydrogens(DefaultValenceModel()))

	assert.Equal(t, 8, m.AtomCount())
	assert.Equal(t, 7, m.BondCount())
	assert.Equal(t, 3, m.Atom(0).HydrogenCount)
	assert.Equal(t, 3, m.Atom(1).HydrogenCount)
	assert.Equal(t, "C2H6", m.Formula())
	assertIntegrity(t, m)
}

func TestCompleteHydrogens_KekuleBenzene(t *testing.T) {
	bonds := ring(6, func(i int) BondOrder {
		if i%2 == 0 {
			return BondDouble
		}
		return BondSingle
	})
	m := build(t, []string{"C", "C", "C", "C", "C", "C"}, bonds)
	require.NoError(t, m.CompleteHydrogens(DefaultValenceModel()))

	assert.Equal(t, 12, m.AtomCount())
	assert.Equal(t, "C6H6", m.Formula())
}

func TestCompleteHydrogens_AromaticModels(t *testing.T) {
	aromatic := func(int) BondOrder { return BondAromatic }
	symbols := []string{"c", "c", "c", "c", "c", "c"}

	models := map[string]ValenceModel{
		"one electron with atom penalty": DefaultValenceModel(),
		"one and a half electrons":       {AromaticBondElectrons: 1.5, AromaticAtomPenalty: 0},
	}
	for name, vm := range models {
		t.Run(name, func(t *testing.T) {
			m := build(t, symbols, ring(6, aromatic))
			require.NoError(t, m.CompleteHydrogens(vm))
			assert.Equal(t, "C6H6", m.Formula())
		})
	}
}

func TestCompleteHydrogens_Pyrrole(t *testing.T) {
	// c1cc[nH]c1 with explicit NH.
	m := build(t, []string{"c", "c", "c", "n", "c"}, ring(5, func(int) BondOrder { return BondAromatic }))
	m.atoms[3].Hydrogens = ExplicitHydrogens(1)
	require.NoError(t, m.CompleteHydrogens(DefaultValenceModel()))

	assert.Equal(t, "C4H5N", m.Formula())
}

func TestCompleteHydrogens_ChargesAndBoron(t *testing.T) {
	ammonium := build(t, []string{"N"}, nil)
	ammonium.atoms[0].Charge = 1
	require.NoError(t, ammonium.CompleteHydrogens(DefaultValenceModel()))
	assert.Equal(t, "H4N+", ammonium.Formula())

	hydroxide := build(t, []string{"O"}, nil)
	hydroxide.atoms[0].Charge = -1
	require.NoError(t, hydroxide.CompleteHydrogens(DefaultValenceModel()))
	assert.Equal(t, "HO-", hydroxide.Formula())

	borane := build(t, []string{"B"}, nil)
	require.NoError(t, borane.CompleteHydrogens(DefaultValenceModel()))
	assert.Equal(t, "BH3", borane.Formula())
}

func TestCompleteHydrogens_InferredCountIsBounded(t *testing.T) {
	cases := []struct {
		name   string
		symbol string
		charge int
		want   int
	}{
		{"methane", "C", 0, 4},
		{"carbocation", "C", 1, 3},
		{"carbanion", "C", -1, 3},
		{"hydronium", "O", 1, 3},
		{"large positive charge", "C", 2000000, 0},
		{"large negative charge", "N", -2000000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := build(t, []string{tc.symbol}, nil)
			m.atoms[0].Charge = tc.charge
			require.NoError(t, m.CompleteHydrogens(DefaultValenceModel()))

			assert.Equal(t, tc.want, m.Atom(0).HydrogenCount)
			assert.Equal(t, 1+tc.want, m.AtomCount())
		})
	}
}

func TestFoldHydrogens(t *testing.T) {
	for target, want := range map[float64]int{
		-3: 0, 0: 0, 0.5: 0, 1: 1, 2.5: 2, 4: 4, 5: 3, 7: 1, 8: 0, 1e12: 0,
	} {
		assert.Equal(t, want, foldHydrogens(target), "target %v", target)
	}
}

func TestCompleteHydrogens_ResolvesEveryRequest(t *testing.T) {
	m := build(t, []string{"C", "Na", "O"}, []bondSpec{{a: 0, b: 2}})
	m.atoms[2].Hydrogens = ExplicitHydrogens(1)
	require.NoError(t, m.CompleteHydrogens(DefaultValenceModel()))

	assert.Equal(t, ExplicitHydrogens(3), m.Atom(0).Hydrogens)
	assert.Equal(t, NoHydrogens(), m.Atom(1).Hydrogens)
	assert.Equal(t, ExplicitHydrogens(1), m.Atom(2).Hydrogens)
	for _, a := range m.Atoms() {
		assert.NotEqual(t, HydrogenInferred, a.Hydrogens.Kind, "atom %d", a.ID)
	}
}

func TestCompleteHydrogens_ExplicitAndNotApplicable(t *testing.T) {
	m := build(t, []string{"C", "Na", "C"}, []bondSpec{{a: 0, b: 2}})
	m.atoms[0].Hydrogens = ExplicitHydrogens(0)
	require.NoError(t, m.CompleteHydrogens(DefaultValenceModel()))

	assert.Equal(t, 0, m.Atom(0).HydrogenCount, "explicit zero is kept verbatim")
	assert.Equal(t, 0, m.Atom(1).HydrogenCount)
	assert.Equal(t, HydrogenNotApplicable, m.Atom(1).Hydrogens.Kind)
	assert.Equal(t, 3, m.Atom(2).HydrogenCount)
	assert.Equal(t, 6, m.AtomCount())
}

func TestCompleteHydrogens_OverValentClampsToZero(t *testing.T) {
	// Carbon with five single bonds.
	m := build(t, []string{"C", "F", "F", "F", "F", "F"},
		[]bondSpec{{a: 0, b: 1}, {a: 0, b: 2}, {a: 0, b: 3}, {a: 0, b: 4}, {a: 0, b: 5}})
	require.NoError(t, m.CompleteHydrogens(DefaultValenceModel()))

	assert.Equal(t, 0, m.Atom(0).HydrogenCount)
	assert.Equal(t, 6, m.AtomCount())
}

func TestCompleteHydrogens_RunsOnce(t *testing.T) {
	m := build(t, []string{"C"}, nil)
	require.NoError(t, m.CompleteHydrogens(DefaultValenceModel()))
	require.NoError(t, m.CompleteHydrogens(DefaultValenceModel()))

	assert.True(t, m.HydrogensCompleted())
	assert.Equal(t, 5, m.AtomCount())
}

func TestCompleteHydrogens_UnknownFromProvider(t *testing.T) {
	empty := element.ProviderFunc(func(string) (element.Info, bool) { return element.Info{}, false })
	m := build(t, []string{"C"}, nil)

	err := m.CompleteHydrogens(ValenceModel{AromaticBondElectrons: 1, Elements: empty})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownElement))
	assert.False(t, m.HydrogensCompleted())
}

func TestWeight(t *testing.T) {
	m := build(t, []string{"C", "C"}, []bondSpec{{a: 0, b: 1}})
	require.NoError(t, m.CompleteHydrogens(DefaultValenceModel()))
	assert.InDelta(t, 30.07, m.Weight(nil), 0.01)

	heavy := build(t, []string{"C"}, nil)
	heavy.atoms[0].Isotope = 13
	heavy.atoms[0].Hydrogens = ExplicitHydrogens(0)
	require.NoError(t, heavy.CompleteHydrogens(DefaultValenceModel()))
	assert.InDelta(t, 13.0, heavy.Weight(element.Default), 1e-9)
}
