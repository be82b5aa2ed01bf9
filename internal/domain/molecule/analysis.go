package molecule

import (
	"context"
	"time"

	"github.com/turtacn/molgraph/internal/domain/element"
)

// Analysis is the structural summary of one parsed molecule.  It is the unit
// that is cached, persisted and returned by the analysis service.
type Analysis struct {
	ID     string `json:"id"`
	SMILES string `json:"smiles"`

	Formula        string  `json:"formula"`
	Weight         float64 `json:"weight"`
	AtomCount      int     `json:"atom_count"`
	HeavyAtomCount int     `json:"heavy_atom_count"`
	BondCount      int     `json:"bond_count"`
	FragmentCount  int     `json:"fragment_count"`

	LongestChainLength int    `json:"longest_chain_length"`
	LongestChains      []Path `json:"longest_chains"`
	Rings              []Path `json:"rings"`

	RingMaxLength int       `json:"ring_max_length"`
	TieBreak      string    `json:"tie_break"`
	CreatedAt     time.Time `json:"created_at"`
}

// RingCount returns the number of rings found.
func (a *Analysis) RingCount() int { return len(a.Rings) }

// AnalysisOptions selects the structural queries run by Analyze.
type AnalysisOptions struct {
	RingMaxLength int
	TieBreak      string
	Workers       int
	Elements      element.Provider
}

// Analyze computes chains, rings, formula and weight of m.  It fails only on
// an unknown tie-break name or a cancelled context.
func Analyze(ctx context.Context, m *Molecule, opts AnalysisOptions) (*Analysis, error) {
	tb, err := TieBreakByName(opts.TieBreak)
	if err != nil {
		return nil, err
	}
	if opts.Elements == nil {
		opts.Elements = element.Default
	}
	if opts.TieBreak == "" {
		opts.TieBreak = TieBreakNameAll
	}

	rings, err := RingsContext(ctx, m, RingOptions{MaxLength: opts.RingMaxLength, Workers: opts.Workers})
	if err != nil {
		return nil, err
	}
	chains := LongestChains(m, tb)

	a := &Analysis{
		Formula:        m.Formula(),
		Weight:         m.Weight(opts.Elements),
		AtomCount:      m.AtomCount(),
		HeavyAtomCount: m.HeavyAtomCount(),
		BondCount:      m.BondCount(),
		FragmentCount:  len(m.Fragments()),
		LongestChains:  chains,
		Rings:          rings,
		RingMaxLength:  opts.RingMaxLength,
		TieBreak:       opts.TieBreak,
	}
	if len(chains) > 0 {
		a.LongestChainLength = chains[0].Len()
	}
	return a, nil
}
