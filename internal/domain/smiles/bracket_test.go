package smiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/molgraph/internal/domain/element"
	"github.com/turtacn/molgraph/pkg/errors"
)

func intPtr(n int) *int { return &n }

func TestDecodeBracket(t *testing.T) {
	cases := []struct {
		content string
		want    BracketAtom
	}{
		{"C", BracketAtom{Symbol: "C"}},
		{"13CH4", BracketAtom{Isotope: 13, Symbol: "C", Hydrogens: intPtr(4)}},
		{"NH4+", BracketAtom{Symbol: "N", Hydrogens: intPtr(4), Charge: 1}},
		{"OH-", BracketAtom{Symbol: "O", Hydrogens: intPtr(1), Charge: -1}},
		{"Fe+2", BracketAtom{Symbol: "Fe", Charge: 2}},
		{"Fe++", BracketAtom{Symbol: "Fe", Charge: 2}},
		{"O--", BracketAtom{Symbol: "O", Charge: -2}},
		{"Cu-3", BracketAtom{Symbol: "Cu", Charge: -3}},
		{"nH", BracketAtom{Symbol: "n", Aromatic: true, Hydrogens: intPtr(1)}},
		{"se", BracketAtom{Symbol: "se", Aromatic: true}},
		{"Hg", BracketAtom{Symbol: "Hg"}},
		{"2H", BracketAtom{Isotope: 2, Symbol: "H"}},
		{"H+", BracketAtom{Symbol: "H", Charge: 1}},
		{"C@@H", BracketAtom{Symbol: "C", Chirality: "@@", Hydrogens: intPtr(1)}},
		{"C@H", BracketAtom{Symbol: "C", Chirality: "@", Hydrogens: intPtr(1)}},
		{"CH@", BracketAtom{Symbol: "C", Hydrogens: intPtr(1), Chirality: "@"}},
		{"C@TH2", BracketAtom{Symbol: "C", Chirality: "@TH2"}},
		{"Co@OH12", BracketAtom{Symbol: "Co", Chirality: "@OH12"}},
		{"NH+@", BracketAtom{Symbol: "N", Hydrogens: intPtr(1), Charge: 1, Chirality: "@"}},
		{"CH3:7", BracketAtom{Symbol: "C", Hydrogens: intPtr(3), Class: 7}},
		{"NH0", BracketAtom{Symbol: "N", Hydrogens: intPtr(0)}},
	}
	for _, tc := range cases {
		t.Run(tc.content, func(t *testing.T) {
			got, err := DecodeBracket(tc.content, 1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeBracket_AbsentHydrogenIsNotZero(t *testing.T) {
	got, err := DecodeBracket("Na+", 0)
	require.NoError(t, err)
	assert.Nil(t, got.Hydrogens)
}

func TestDecodeBracket_Errors(t *testing.T) {
	cases := []struct {
		content string
		offset  int
	}{
		{"", 1},
		{"13", 3},
		{"+", 1},
		{"CH4x", 4},
		{"C+-", 3},
		{"C:", 3},
		{"99999999999999999999C", 1},
		{"CH99999999999999999999", 3},
	}
	for _, tc := range cases {
		t.Run(tc.content, func(t *testing.T) {
			_, err := DecodeBracket(tc.content, 1)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeSMILESSyntax))
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.offset, pe.Offset)
		})
	}
}

func TestDecodeBracket_FieldLimits(t *testing.T) {
	cases := []struct {
		content string
		offset  int
	}{
		{"CH10", 2},
		{"CH2000000", 2},
		{"13CH12", 4},
		{"C+16", 2},
		{"C-2000000", 2},
		{"C++++++++++++++++", 2},
		{"NH4+20", 4},
	}
	for _, tc := range cases {
		t.Run(tc.content, func(t *testing.T) {
			_, err := DecodeBracket(tc.content, 1)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeSMILESSyntax))
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.offset, pe.Offset)
		})
	}

	for _, ok := range []string{"CH9", "C+15", "C-15", "NH4+"} {
		_, err := DecodeBracket(ok, 1)
		assert.NoError(t, err, ok)
	}
}

func TestDecodeBracketLimited(t *testing.T) {
	got, err := DecodeBracketLimited("CH12-20", 0, BracketLimits{})
	require.NoError(t, err)
	assert.Equal(t, BracketAtom{Symbol: "C", Hydrogens: intPtr(12), Charge: -20}, got)

	_, err = DecodeBracketLimited("CH3", 0, BracketLimits{MaxHydrogens: 2})
	assert.True(t, errors.IsCode(err, errors.ErrCodeSMILESSyntax))

	_, err = DecodeBracketLimited("C+2", 0, BracketLimits{MaxCharge: 1})
	assert.True(t, errors.IsCode(err, errors.ErrCodeSMILESSyntax))
}

func TestResolveElement(t *testing.T) {
	sym, err := resolveElement("c", true, element.Default, 0)
	require.NoError(t, err)
	assert.Equal(t, "C", sym)

	_, err = resolveElement("Xx", false, element.Default, 1)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownElement))

	_, err = resolveElement("xx", true, element.Default, 1)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownElement))
}
