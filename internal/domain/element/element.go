// Package element is the element data provider consumed by the SMILES parser
// and the molecule model: a static periodic table keyed by symbol and atomic
// number.
package element

import "sync"

// Info holds the static properties of one chemical element.
type Info struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	AtomicNumber int     `json:"atomic_number"`
	Weight       float64 `json:"weight"`
	Group        int     `json:"group"`
	Period       int     `json:"period"`
}

// ValenceElectrons returns the number of outer-shell electrons.  Main-group
// elements use the group number (minus ten for groups 13-18), helium has two,
// transition metals report their group and f-block elements report three.
func (i Info) ValenceElectrons() int {
	switch {
	case i.AtomicNumber == 2:
		return 2
	case i.Group == 0:
		return 3
	case i.Group >= 13:
		return i.Group - 10
	default:
		return i.Group
	}
}

// Provider resolves element symbols.  Symbols are case-sensitive in their
// canonical form ("Cl", not "cl").
type Provider interface {
	Lookup(symbol string) (Info, bool)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(symbol string) (Info, bool)

// Lookup implements Provider.
func (f ProviderFunc) Lookup(symbol string) (Info, bool) { return f(symbol) }

// ─────────────────────────────────────────────────────────────────────────────
// Periodic table provider
// ─────────────────────────────────────────────────────────────────────────────

var (
	indexOnce sync.Once
	bySymbol  map[string]Info
)

func buildIndex() {
	bySymbol = make(map[string]Info, len(periodicTable))
	for _, info := range periodicTable {
		bySymbol[info.Symbol] = info
	}
}

type tableProvider struct{}

func (tableProvider) Lookup(symbol string) (Info, bool) {
	return Lookup(symbol)
}

// Default is the Provider backed by the built-in periodic table.
var Default Provider = tableProvider{}

// Lookup returns the element with the given canonical symbol.
func Lookup(symbol string) (Info, bool) {
	indexOnce.Do(buildIndex)
	info, ok := bySymbol[symbol]
	return info, ok
}

// ByNumber returns the element with the given atomic number.
func ByNumber(z int) (Info, bool) {
	if z < 1 || z > len(periodicTable) {
		return Info{}, false
	}
	return periodicTable[z-1], true
}

// Count returns the number of elements known to the table.
func Count() int { return len(periodicTable) }

// ─────────────────────────────────────────────────────────────────────────────
// Organic subset
// ─────────────────────────────────────────────────────────────────────────────

// organicSubset lists the elements that may be written without brackets and
// whose implicit hydrogens are inferred from valence.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

// aromaticForms lists the lowercase symbols accepted for aromatic atoms.
var aromaticForms = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
	"se": "Se", "as": "As",
}

// IsOrganicSubset reports whether symbol (canonical case) belongs to the
// organic subset.
func IsOrganicSubset(symbol string) bool {
	return organicSubset[symbol]
}

// Canonical returns the canonical symbol for an aromatic lowercase symbol and
// reports whether the input was aromatic.  Non-aromatic input is returned unchanged.
func Canonical(symbol string) (string, bool) {
	if canon, ok := aromaticForms[symbol]; ok {
		return canon, true
	}
	return symbol, false
}
