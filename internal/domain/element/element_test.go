package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_IsDenseAndOrdered(t *testing.T) {
	require.Equal(t, 118, Count())
	for i, info := range periodicTable {
		assert.Equal(t, i+1, info.AtomicNumber, "entry %s out of order", info.Symbol)
		assert.Greater(t, info.Weight, 0.0, info.Symbol)
	}
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("C")
	require.True(t, ok)
	assert.Equal(t, 6, c.AtomicNumber)
	assert.InDelta(t, 12.011, c.Weight, 1e-9)

	cl, ok := Lookup("Cl")
	require.True(t, ok)
	assert.Equal(t, 17, cl.AtomicNumber)

	_, ok = Lookup("Xx")
	assert.False(t, ok)
	_, ok = Lookup("cl")
	assert.False(t, ok, "lookup is case-sensitive")
}

func TestByNumber(t *testing.T) {
	n, ok := ByNumber(7)
	require.True(t, ok)
	assert.Equal(t, "N", n.Symbol)

	_, ok = ByNumber(0)
	assert.False(t, ok)
	_, ok = ByNumber(119)
	assert.False(t, ok)
}

func TestValenceElectrons(t *testing.T) {
	cases := map[string]int{
		"H": 1, "He": 2, "B": 3, "C": 4, "N": 5, "O": 6, "P": 5, "S": 6,
		"F": 7, "Cl": 7, "Br": 7, "I": 7, "Na": 1, "Fe": 8, "U": 3,
	}
	for symbol, want := range cases {
		info, ok := Lookup(symbol)
		require.True(t, ok, symbol)
		assert.Equal(t, want, info.ValenceElectrons(), symbol)
	}
}

func TestOrganicSubset(t *testing.T) {
	for _, s := range []string{"B", "C", "N", "O", "P", "S", "F", "Cl", "Br", "I"} {
		assert.True(t, IsOrganicSubset(s), s)
	}
	assert.False(t, IsOrganicSubset("Na"))
	assert.False(t, IsOrganicSubset("c"))
}

func TestCanonical(t *testing.T) {
	sym, aromatic := Canonical("c")
	assert.Equal(t, "C", sym)
	assert.True(t, aromatic)

	sym, aromatic = Canonical("se")
	assert.Equal(t, "Se", sym)
	assert.True(t, aromatic)

	sym, aromatic = Canonical("Cl")
	assert.Equal(t, "Cl", sym)
	assert.False(t, aromatic)
}

func TestProviderFunc(t *testing.T) {
	p := ProviderFunc(func(symbol string) (Info, bool) {
		if symbol == "Zz" {
			return Info{Symbol: "Zz", AtomicNumber: 999}, true
		}
		return Default.Lookup(symbol)
	})
	info, ok := p.Lookup("Zz")
	require.True(t, ok)
	assert.Equal(t, 999, info.AtomicNumber)

	_, ok = p.Lookup("C")
	assert.True(t, ok)
}
