package molecule

import (
	"sort"
	"strconv"
	"strings"

	"github.com/turtacn/molgraph/internal/domain/element"
)

// Formula returns the molecular formula in Hill order: carbon first, then
// hydrogen, then the remaining symbols alphabetically.  Without carbon every
// symbol is alphabetical.  Net charge is appended as "+", "2-", etc.
func (m *Molecule) Formula() string {
	counts := make(map[string]int)
	charge := 0
	for _, a := range m.atoms {
		counts[a.Symbol]++
		charge += a.Charge
	}
	symbols := make([]string, 0, len(counts))
	for s := range counts {
		symbols = append(symbols, s)
	}
	_, hasCarbon := counts["C"]
	sort.Slice(symbols, func(i, j int) bool {
		if hasCarbon {
			ri, rj := hillRank(symbols[i]), hillRank(symbols[j])
			if ri != rj {
				return ri < rj
			}
		}
		return symbols[i] < symbols[j]
	})

	var sb strings.Builder
	for _, s := range symbols {
		sb.WriteString(s)
		if counts[s] > 1 {
			sb.WriteString(strconv.Itoa(counts[s]))
		}
	}
	switch {
	case charge == 1:
		sb.WriteString("+")
	case charge == -1:
		sb.WriteString("-")
	case charge > 1:
		sb.WriteString(strconv.Itoa(charge) + "+")
	case charge < -1:
		sb.WriteString(strconv.Itoa(-charge) + "-")
	}
	return sb.String()
}

func hillRank(symbol string) int {
	switch symbol {
	case "C":
		return 0
	case "H":
		return 1
	default:
		return 2
	}
}

// Weight returns the molecular weight.  Atoms with an isotope use its mass
// number; unknown symbols contribute nothing.
func (m *Molecule) Weight(provider element.Provider) float64 {
	if provider == nil {
		provider = element.Default
	}
	total := 0.0
	for _, a := range m.atoms {
		if a.Isotope > 0 {
			total += float64(a.Isotope)
			continue
		}
		if info, ok := provider.Lookup(a.Symbol); ok {
			total += info.Weight
		}
	}
	return total
}

func sortAtomIDs(ids []AtomID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
