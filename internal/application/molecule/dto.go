package molecule

import (
	"time"

	domainMol "github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/domain/smiles"
	"github.com/turtacn/molgraph/pkg/errors"
)

// AnalyzeRequest selects the input and the structural queries to run.
type AnalyzeRequest struct {
	SMILES string `json:"smiles"`
	// RingMaxLength bounds ring size.  Zero uses the service default.
	RingMaxLength int `json:"ring_max_length,omitempty"`
	// TieBreak names the longest-chain policy.  Empty uses the service default.
	TieBreak string `json:"tie_break,omitempty"`
}

// AnalysisResult is an Analysis plus how it was obtained.
type AnalysisResult struct {
	domainMol.Analysis
	Cached bool `json:"cached"`
}

// AtomView is the wire form of one atom.
type AtomView struct {
	ID        int    `json:"id"`
	Symbol    string `json:"symbol"`
	Isotope   int    `json:"isotope,omitempty"`
	Charge    int    `json:"charge,omitempty"`
	Aromatic  bool   `json:"aromatic,omitempty"`
	Chirality string `json:"chirality,omitempty"`
	Hydrogens int    `json:"hydrogens"`
	Offset    int    `json:"offset"`
}

// BondView is the wire form of one bond.
type BondView struct {
	ID        int    `json:"id"`
	A         int    `json:"a"`
	B         int    `json:"b"`
	Order     string `json:"order"`
	Direction string `json:"direction,omitempty"`
}

// MoleculeView is the wire form of a parsed molecule.
type MoleculeView struct {
	SMILES         string     `json:"smiles"`
	Formula        string     `json:"formula"`
	Weight         float64    `json:"weight"`
	AtomCount      int        `json:"atom_count"`
	HeavyAtomCount int        `json:"heavy_atom_count"`
	BondCount      int        `json:"bond_count"`
	FragmentCount  int        `json:"fragment_count"`
	Atoms          []AtomView `json:"atoms"`
	Bonds          []BondView `json:"bonds"`
}

// Describe renders m for transport.
func Describe(input string, m *domainMol.Molecule) *MoleculeView {
	v := &MoleculeView{
		SMILES:         input,
		Formula:        m.Formula(),
		Weight:         m.Weight(nil),
		AtomCount:      m.AtomCount(),
		HeavyAtomCount: m.HeavyAtomCount(),
		BondCount:      m.BondCount(),
		FragmentCount:  len(m.Fragments()),
		Atoms:          make([]AtomView, 0, m.AtomCount()),
		Bonds:          make([]BondView, 0, m.BondCount()),
	}
	for _, a := range m.Atoms() {
		v.Atoms = append(v.Atoms, AtomView{
			ID:        int(a.ID),
			Symbol:    a.Symbol,
			Isotope:   a.Isotope,
			Charge:    a.Charge,
			Aromatic:  a.Aromatic,
			Chirality: a.Chirality,
			Hydrogens: a.HydrogenCount,
			Offset:    a.Offset,
		})
	}
	for _, b := range m.Bonds() {
		bv := BondView{ID: int(b.ID), A: int(b.A), B: int(b.B), Order: b.Order.String()}
		if b.Direction != domainMol.DirNone {
			bv.Direction = b.Direction.String()
		}
		v.Bonds = append(v.Bonds, bv)
	}
	return v
}

// ItemError describes why one batch item failed.  Offset is set for parse
// errors that point into the input.
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Offset  *int   `json:"offset,omitempty"`
}

// NewItemError classifies err.
func NewItemError(err error) *ItemError {
	ie := &ItemError{Code: errors.GetCode(err).String(), Message: err.Error()}
	var pe *smiles.ParseError
	if errors.As(err, &pe) {
		ie.Message = pe.Err.Message
		if pe.Err.Detail != "" {
			ie.Message += ": " + pe.Err.Detail
		}
		if pe.Offset >= 0 {
			off := pe.Offset
			ie.Offset = &off
		}
	}
	return ie
}

// BatchItem is the outcome for one input of a batch.
type BatchItem struct {
	Index  int             `json:"index"`
	SMILES string          `json:"smiles"`
	Result *AnalysisResult `json:"result,omitempty"`
	Error  *ItemError      `json:"error,omitempty"`
}

// BatchReport collects the outcome of AnalyzeBatch, in input order.
type BatchReport struct {
	ID              string      `json:"id"`
	Items           []BatchItem `json:"items"`
	Succeeded       int         `json:"succeeded"`
	Failed          int         `json:"failed"`
	ArchiveLocation string      `json:"archive_location,omitempty"`
	// DownloadURL is a time-limited link to the archived report.
	DownloadURL string    `json:"download_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Duration    string    `json:"duration"`
}
