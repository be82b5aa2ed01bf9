package smiles

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/molgraph/internal/domain/element"
	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

const cephalostatin = "C[C@@](C)(O1)C[C@@H](O)[C@@]1(O2)[C@@H](C)[C@@H]3CC=C4[C@]3(C2)C(=O)C" +
	"[C@H]5[C@H]4CC[C@@H](C6)[C@]5(C)Cc(n7)c6nc(C[C@@]89(C))c7C[C@@H]8CC[C" +
	"@@H]%10[C@@H]9C[C@@H](O)[C@@]%11(C)C%10=C[C@H](O%12)[C@]%11(O)[C@H](C" +
	")[C@]%12(O%13)[C@H](O)C[C@@]%13(C)CO"

func mustParse(t *testing.T, input string) *molecule.Molecule {
	t.Helper()
	m, err := Parse(input)
	require.NoError(t, err, input)
	require.NotNil(t, m)
	return m
}

func assertReferentialIntegrity(t *testing.T, m *molecule.Molecule) {
	t.Helper()
	seen := make(map[[2]molecule.AtomID]bool)
	for _, b := range m.Bonds() {
		require.GreaterOrEqual(t, int(b.A), 0)
		require.Less(t, int(b.A), m.AtomCount())
		require.GreaterOrEqual(t, int(b.B), 0)
		require.Less(t, int(b.B), m.AtomCount())
		lo, hi := b.A, b.B
		if lo > hi {
			lo, hi = hi, lo
		}
		key := [2]molecule.AtomID{lo, hi}
		require.False(t, seen[key], "pair %v bonded twice", key)
		seen[key] = true
	}
}

func TestParse_AtomCounts(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		atoms   int
		formula string
	}{
		{"ethane", "CC", 8, "C2H6"},
		{"kekule benzene", "C1=CC=CC=C1", 12, "C6H6"},
		{"aromatic benzene", "c1ccccc1", 12, "C6H6"},
		{"alanine skeleton", "O=C(O)C(N)C", 13, "C3H7NO2"},
		{"asparagine", "O=C(N)C[C@H](N)C(=O)O", 17, "C4H8N2O3"},
		{"naphthalene", "c1ccc2ccccc2c1", 18, "C10H8"},
		{"glucose", "OC[C@@H](O1)[C@@H](O)[C@H](O)[C@@H](O)[C@@H](O)1", 24, "C6H12O6"},
		{"vanillin", "O=Cc1ccc(O)c(OC)c1", 19, "C8H8O3"},
		{"pyrrole", "c1cc[nH]c1", 10, "C4H5N"},
		{"copper sulfate", "[Cu+2].[O-]S(=O)(=O)[O-]", 6, "CuO4S"},
		{"ammonium", "[NH4+]", 5, "H4N+"},
		{"deuterium", "[2H]C([2H])([2H])[2H]", 5, "CH4"},
		{"chloroform", "ClC(Cl)Cl", 5, "CHCl3"},
		{"hydrogen cyanide", "C#N", 3, "CHN"},
		{"quadruple bond", "[Re]$[Re]", 2, "Re2"},
		{"directional bonds", `F/C=C/F`, 6, "C2H2F2"},
		{"cephalostatin", cephalostatin, 140, "C54H74N2O10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := mustParse(t, tc.input)
			assert.Equal(t, tc.atoms, m.AtomCount())
			assert.Equal(t, tc.formula, m.Formula())
			assertReferentialIntegrity(t, m)
			assert.True(t, m.HydrogensCompleted())
		})
	}
}

func TestParse_EthaneBonds(t *testing.T) {
	m := mustParse(t, "CC")
	assert.Equal(t, 7, m.BondCount())
}

func TestParse_BenzeneRings(t *testing.T) {
	for _, input := range []string{"C1=CC=CC=C1", "c1ccccc1"} {
		m := mustParse(t, input)
		rings := molecule.Rings(m, 0)
		require.Len(t, rings, 1, input)
		assert.Equal(t, 6, rings[0].Len())
	}
}

func TestParse_AlanineAnalyses(t *testing.T) {
	m := mustParse(t, "O=C(O)C(N)C")

	assert.Empty(t, molecule.Rings(m, 0))

	chains := molecule.LongestChains(m, nil)
	require.NotEmpty(t, chains)
	heavy := m.HeavyAtomCount()
	for _, c := range chains {
		assert.Equal(t, 4, c.Len())
		// Every chain runs through both backbone carbons.
		assert.Contains(t, c, molecule.AtomID(1))
		assert.Contains(t, c, molecule.AtomID(3))
	}
	assert.Equal(t, 6, heavy)
}

func TestParse_RingClosureBondOrders(t *testing.T) {
	// Order captured at the opening occurrence.
	m := mustParse(t, "C=1CCCCC1")
	b, ok := m.BondBetween(0, 5)
	require.True(t, ok)
	assert.Equal(t, molecule.BondDouble, b.Order)

	// Order given at the closing occurrence.
	m = mustParse(t, "C1CCCCC=1")
	b, ok = m.BondBetween(0, 5)
	require.True(t, ok)
	assert.Equal(t, molecule.BondDouble, b.Order)

	// Both given: the closing symbol wins.
	m = mustParse(t, "C#1CCCCC=1")
	b, ok = m.BondBetween(0, 5)
	require.True(t, ok)
	assert.Equal(t, molecule.BondDouble, b.Order)

	// Aromatic atoms close with an aromatic bond by default.
	m = mustParse(t, "c1ccccc1")
	b, ok = m.BondBetween(0, 5)
	require.True(t, ok)
	assert.Equal(t, molecule.BondAromatic, b.Order)
}

func TestParse_LabelReuseAndExtendedLabels(t *testing.T) {
	// Label 1 is reused after closing.
	m := mustParse(t, "C1CC1C1CC1")
	assert.Len(t, molecule.Rings(m, 0), 2)

	m = mustParse(t, "C%10CCCC%10")
	assert.Len(t, molecule.Rings(m, 0), 1)

	// A bare digit and its %-form name the same label.
	m = mustParse(t, "C1CCC%01")
	assert.Len(t, molecule.Rings(m, 0), 1)
}

func TestParse_LabelAcrossBranches(t *testing.T) {
	// Opened inside a branch, closed in the parent scope.
	m := mustParse(t, "C(C1)CCC1")
	rings := molecule.Rings(m, 0)
	require.Len(t, rings, 1)
	assert.Equal(t, 5, rings[0].Len())

	// Opened in one branch, closed in a sibling.
	m = mustParse(t, "C(CC1)(CC1)")
	require.Len(t, molecule.Rings(m, 0), 1)
}

func TestParse_BranchRestoresActiveAtom(t *testing.T) {
	m := mustParse(t, "C(O)(N)C")
	assert.ElementsMatch(t, []molecule.AtomID{1, 2, 3}, heavyNeighbors(m, 0))
}

func TestParse_DeepNestingUsesNoRecursion(t *testing.T) {
	depth := 5000
	input := "C" + strings.Repeat("(C", depth) + strings.Repeat(")", depth)
	m := mustParse(t, input)
	assert.Equal(t, depth+1, m.HeavyAtomCount())
}

func TestParse_Fragments(t *testing.T) {
	m := mustParse(t, "CC.O")
	assert.Len(t, m.Fragments(), 2)
	_, bonded := m.BondBetween(1, 2)
	assert.False(t, bonded)
}

func TestParse_EmptyInput(t *testing.T) {
	m := mustParse(t, "")
	assert.Equal(t, 0, m.AtomCount())
}

func TestParse_BracketFieldLimits(t *testing.T) {
	for _, input := range []string{"[CH2000000]", "[C+2000000]", "C[N-16]C"} {
		t.Run(input, func(t *testing.T) {
			m, err := Parse(input)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, errors.IsCode(err, errors.ErrCodeSMILESSyntax))
		})
	}

	var pe *ParseError
	_, err := Parse("CC[CH2000000]")
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 4, pe.Offset)
}

func TestParse_UnlimitedChargeAddsNoHydrogens(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxCharge = 0
	m, err := NewParser(opts).Parse("[C+2000000]")
	require.NoError(t, err)

	assert.Equal(t, 1, m.AtomCount())
	assert.Equal(t, 0, m.BondCount())
	assert.Equal(t, 2000000, m.Atom(0).Charge)
}

func TestParse_CompletedAtomsCarryNoInferredRequest(t *testing.T) {
	m := mustParse(t, "CC(=O)[O-].[Na+]")
	for _, a := range m.Atoms() {
		assert.NotEqual(t, molecule.HydrogenInferred, a.Hydrogens.Kind, "atom %s", a)
	}
	assert.Equal(t, molecule.ExplicitHydrogens(3), m.Atom(0).Hydrogens)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		input  string
		code   errors.ErrorCode
		offset int
	}{
		{"C1CC", errors.ErrCodeUnclosedRingLabel, 1},
		{"C1CC2CC", errors.ErrCodeUnclosedRingLabel, 1},
		{"[Xx]", errors.ErrCodeUnknownElement, 1},
		{"C[xx]", errors.ErrCodeUnknownElement, 2},
		{"C11", errors.ErrCodeSMILESSyntax, 2},
		{"C1C1", errors.ErrCodeDuplicateBond, 3},
		{"C12CC12", errors.ErrCodeDuplicateBond, 6},
		{"C=", errors.ErrCodeSMILESSyntax, 1},
		{"=C", errors.ErrCodeSMILESSyntax, 0},
		{"C==C", errors.ErrCodeSMILESSyntax, 2},
		{"C=.C", errors.ErrCodeSMILESSyntax, 1},
		{"C=(O)C", errors.ErrCodeSMILESSyntax, 1},
		{"C(=)C", errors.ErrCodeSMILESSyntax, 2},
		{"(C)C", errors.ErrCodeSMILESSyntax, 0},
		{"1CC1", errors.ErrCodeSMILESSyntax, 0},
		{"C(C", errors.ErrCodeSMILESSyntax, 1},
		{"[C++-]", errors.ErrCodeSMILESSyntax, 4},
		{"C>>C", errors.ErrCodeSMILESSyntax, 1},
		{"C((C))C", errors.ErrCodeSMILESSyntax, 2},
		{"C(C)((C))C", errors.ErrCodeSMILESSyntax, 5},
		{"C()C", errors.ErrCodeSMILESSyntax, 1},
		{"C..C", errors.ErrCodeSMILESSyntax, 2},
		{"C.", errors.ErrCodeSMILESSyntax, 1},
		{".C", errors.ErrCodeSMILESSyntax, 0},
		{".", errors.ErrCodeSMILESSyntax, 0},
		{"C(.C)C", errors.ErrCodeSMILESSyntax, 2},
		{"C(C.)C", errors.ErrCodeSMILESSyntax, 3},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			m, err := Parse(tc.input)
			require.Error(t, err)
			assert.Nil(t, m, "no partial molecule on failure")
			assert.True(t, errors.IsCode(err, tc.code), "got %v", err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.offset, pe.Offset)
			assert.Equal(t, tc.code, pe.Code())
		})
	}
}

func TestParse_InputTooLong(t *testing.T) {
	p := NewParser(Options{MaxInputLength: 4})
	_, err := p.Parse("CCCCC")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInputTooLong))

	m, err := p.Parse("CCCC")
	require.NoError(t, err)
	assert.Equal(t, 14, m.AtomCount())
}

func TestParse_CustomProvider(t *testing.T) {
	noSulfur := element.ProviderFunc(func(symbol string) (element.Info, bool) {
		if symbol == "S" {
			return element.Info{}, false
		}
		return element.Lookup(symbol)
	})
	p := NewParser(Options{Elements: noSulfur, Valence: molecule.DefaultValenceModel()})

	_, err := p.Parse("CS")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownElement))
}

func TestParse_AromaticHalfElectronModel(t *testing.T) {
	p := NewParser(Options{Valence: molecule.ValenceModel{AromaticBondElectrons: 1.5}})
	m, err := p.Parse("c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, "C6H6", m.Formula())
}

func TestParse_Deterministic(t *testing.T) {
	inputs := []string{"CC", "C1=CC=CC=C1", "O=C(O)C(N)C", cephalostatin}
	for _, input := range inputs {
		a := mustParse(t, input)
		b := mustParse(t, input)
		assert.Equal(t, a.Atoms(), b.Atoms())
		assert.Equal(t, a.Bonds(), b.Bonds())

		ra, err := molecule.RingsContext(context.Background(), a, molecule.RingOptions{MaxLength: 6, Workers: 1})
		require.NoError(t, err)
		rb, err := molecule.RingsContext(context.Background(), b, molecule.RingOptions{MaxLength: 6, Workers: 8})
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	}
}

func TestParse_CephalostatinRings(t *testing.T) {
	m := mustParse(t, cephalostatin)
	rings := molecule.Rings(m, 6)
	assert.NotEmpty(t, rings)
	for _, r := range rings {
		assert.LessOrEqual(t, r.Len(), 6)
		assert.GreaterOrEqual(t, r.Len(), 3)
	}
}

func TestParse_AtomFields(t *testing.T) {
	m := mustParse(t, "[13C@@H](F)([O-])Cl")
	a := m.Atom(0)
	assert.Equal(t, "C", a.Symbol)
	assert.Equal(t, 13, a.Isotope)
	assert.Equal(t, "@@", a.Chirality)
	assert.Equal(t, molecule.HydrogenExplicit, a.Hydrogens.Kind)
	assert.Equal(t, 1, a.HydrogenCount)
	assert.Equal(t, 0, a.Offset)

	o := m.Atom(2)
	assert.Equal(t, -1, o.Charge)
	assert.Equal(t, 0, o.HydrogenCount)
}

func heavyNeighbors(m *molecule.Molecule, id molecule.AtomID) []molecule.AtomID {
	var out []molecule.AtomID
	for _, n := range m.Neighbors(id) {
		if !m.Atom(n).IsHydrogen() {
			out = append(out, n)
		}
	}
	return out
}
