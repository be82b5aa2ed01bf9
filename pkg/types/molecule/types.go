// Package molecule defines the wire types of the molgraph HTTP API.  They
// mirror the JSON produced by the server and are safe to import from client
// code without pulling in the parser or any infrastructure.
package molecule

import (
	"fmt"
	"strings"
	"time"
)

// Chain tie-break policy names.
const (
	TieBreakAll             = "all"
	TieBreakCarbonEndpoints = "carbon-endpoints"
)

// ─────────────────────────────────────────────────────────────────────────────
// Requests
// ─────────────────────────────────────────────────────────────────────────────

// ParseRequest is the body of POST /api/v1/molecules/parse.
type ParseRequest struct {
	SMILES string `json:"smiles"`
}

// AnalyzeRequest is the body of POST /api/v1/molecules/analyze and one item
// of a batch.
type AnalyzeRequest struct {
	SMILES string `json:"smiles"`
	// RingMaxLength bounds ring size.  Zero uses the server default.
	RingMaxLength int `json:"ring_max_length,omitempty"`
	// TieBreak names the longest-chain policy.  Empty uses the server default.
	TieBreak string `json:"tie_break,omitempty"`
}

// Validate rejects options the server would refuse.  The SMILES text itself
// is only checked by the server.
func (r AnalyzeRequest) Validate() error {
	if r.RingMaxLength < 0 {
		return fmt.Errorf("ring_max_length must be >= 0, got %d", r.RingMaxLength)
	}
	switch r.TieBreak {
	case "", TieBreakAll, TieBreakCarbonEndpoints:
		return nil
	default:
		return fmt.Errorf("unsupported tie_break %q", r.TieBreak)
	}
}

// BatchRequest is the body of POST /api/v1/molecules/batch.
type BatchRequest struct {
	Items []AnalyzeRequest `json:"items"`
}

// Validate checks every item and reports the first failure by index.
func (r BatchRequest) Validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("items must not be empty")
	}
	for i, it := range r.Items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Parsed molecule
// ─────────────────────────────────────────────────────────────────────────────

// Atom is one node of a parsed molecule.  Offset is the position of the atom
// in the input, or -1 for implicit hydrogens.
type Atom struct {
	ID        int    `json:"id"`
	Symbol    string `json:"symbol"`
	Isotope   int    `json:"isotope,omitempty"`
	Charge    int    `json:"charge,omitempty"`
	Aromatic  bool   `json:"aromatic,omitempty"`
	Chirality string `json:"chirality,omitempty"`
	Hydrogens int    `json:"hydrogens"`
	Offset    int    `json:"offset"`
}

// Bond joins atoms A and B.
type Bond struct {
	ID        int    `json:"id"`
	A         int    `json:"a"`
	B         int    `json:"b"`
	Order     string `json:"order"`
	Direction string `json:"direction,omitempty"`
}

// Molecule is the parse response.
type Molecule struct {
	SMILES         string  `json:"smiles"`
	Formula        string  `json:"formula"`
	Weight         float64 `json:"weight"`
	AtomCount      int     `json:"atom_count"`
	HeavyAtomCount int     `json:"heavy_atom_count"`
	BondCount      int     `json:"bond_count"`
	FragmentCount  int     `json:"fragment_count"`
	Atoms          []Atom  `json:"atoms"`
	Bonds          []Bond  `json:"bonds"`
}

// HeavyAtoms returns the non-hydrogen atoms.
func (m *Molecule) HeavyAtoms() []Atom {
	out := make([]Atom, 0, m.HeavyAtomCount)
	for _, a := range m.Atoms {
		if a.Symbol != "H" {
			out = append(out, a)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Analysis
// ─────────────────────────────────────────────────────────────────────────────

// Path is an ordered list of atom IDs.
type Path []int

// String renders p as "0-1-2".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, "-")
}

// Analysis is the structural summary returned by analyze and GetAnalysis.
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
	Cached        bool      `json:"cached"`
}

// RingCount returns the number of rings found.
func (a *Analysis) RingCount() int { return len(a.Rings) }

// AnalysisList is the stored history of one input, newest first.
type AnalysisList struct {
	Items []Analysis `json:"items"`
	Count int        `json:"count"`
}

// ItemError describes a failed batch item or job.  Offset points into the
// input for parse errors.
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Offset  *int   `json:"offset,omitempty"`
}

func (e *ItemError) Error() string {
	if e.Offset != nil {
		return fmt.Sprintf("%s: %s (offset %d)", e.Code, e.Message, *e.Offset)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// BatchItem is the outcome of one batch input.  Exactly one of Result and
// Error is set.
type BatchItem struct {
	Index  int        `json:"index"`
	SMILES string     `json:"smiles"`
	Result *Analysis  `json:"result,omitempty"`
	Error  *ItemError `json:"error,omitempty"`
}

// BatchReport is the batch response, items in input order.
type BatchReport struct {
	ID              string      `json:"id"`
	Items           []BatchItem `json:"items"`
	Succeeded       int         `json:"succeeded"`
	Failed          int         `json:"failed"`
	ArchiveLocation string      `json:"archive_location,omitempty"`
	DownloadURL     string      `json:"download_url,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	Duration        string      `json:"duration"`
}

// Failures returns the failed items.
func (r *BatchReport) Failures() []BatchItem {
	var out []BatchItem
	for _, it := range r.Items {
		if it.Error != nil {
			out = append(out, it)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Health
// ─────────────────────────────────────────────────────────────────────────────

// ComponentHealth is one dependency's readiness.
type ComponentHealth struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Readiness is the /readyz response.
type Readiness struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Ready reports whether every dependency passed.
func (r *Readiness) Ready() bool { return r.Status == "ready" }
