// Package smiles parses SMILES line notation into a hydrogen-completed
// molecule.Molecule.
//
// The grammar is handled in three layers: a lazy Tokenizer, a bracket-atom
// decoder and a graph builder.  Branches are processed with an explicit
// stack of frames rather than recursion, so nesting depth is bounded only by
// the input length.  Ring-closure labels live in a registry scoped to one
// Parse call and shared by every branch of that call.
package smiles

import (
	"sort"

	"github.com/turtacn/molgraph/internal/domain/element"
	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// Defaults used by DefaultOptions.
const (
	DefaultMaxInputLength       = 100_000
	DefaultMaxExplicitHydrogens = 9
	DefaultMaxCharge            = 15
)

// Options configures a Parser.
type Options struct {
	// MaxInputLength rejects longer inputs before tokenizing.  Zero means
	// unlimited.
	MaxInputLength int
	// MaxExplicitHydrogens bounds the H count of a bracket atom.  Zero means
	// unlimited.
	MaxExplicitHydrogens int
	// MaxCharge bounds the charge magnitude of a bracket atom.  Zero means
	// unlimited.
	MaxCharge int
	// Elements validates element symbols.
	Elements element.Provider
	// Valence drives implicit hydrogen completion.
	Valence molecule.ValenceModel
}

// DefaultOptions returns the options used by Parse.
func DefaultOptions() Options {
	return Options{
		MaxInputLength:       DefaultMaxInputLength,
		MaxExplicitHydrogens: DefaultMaxExplicitHydrogens,
		MaxCharge:            DefaultMaxCharge,
		Elements:             element.Default,
		Valence:              molecule.DefaultValenceModel(),
	}
}

// Parser turns SMILES strings into molecules.  A Parser holds no per-call
// state and is safe for concurrent use.
type Parser struct {
	opts Options
}

// NewParser returns a Parser with the given options.  A nil Elements
// provider falls back to element.Default.
func NewParser(opts Options) *Parser {
	if opts.Elements == nil {
		opts.Elements = element.Default
	}
	if opts.Valence.Elements == nil {
		opts.Valence.Elements = opts.Elements
	}
	return &Parser{opts: opts}
}

var defaultParser = NewParser(DefaultOptions())

// Parse parses input with DefaultOptions.
func Parse(input string) (*molecule.Molecule, error) {
	return defaultParser.Parse(input)
}

// ─────────────────────────────────────────────────────────────────────────────
// Graph builder
// ─────────────────────────────────────────────────────────────────────────────

// pendingBond is the bond symbol waiting for its second endpoint.
type pendingBond struct {
	order    molecule.BondOrder
	dir      molecule.Direction
	explicit bool
	offset   int
}

// openLabel is a ring-closure label waiting for its closing occurrence.
type openLabel struct {
	label  int
	atom   molecule.AtomID
	bond   pendingBond
	offset int
}

// frame is one level of branch nesting.  The parent's active atom is not
// touched by the branch, so popping a frame restores it implicitly.  placed
// is set once the frame itself has placed an atom since its start or its
// last '.', whose offset is kept in dot until the next atom.
type frame struct {
	tok    *Tokenizer
	active molecule.AtomID
	bond   pendingBond
	placed bool
	dot    int
	start  int
}

type build struct {
	p      *Parser
	mol    *molecule.Molecule
	labels map[int]openLabel
}

// Parse builds the molecule for input and completes its hydrogens.  On any
// error no molecule is returned; the error is a *ParseError.
func (p *Parser) Parse(input string) (*molecule.Molecule, error) {
	if p.opts.MaxInputLength > 0 && len(input) > p.opts.MaxInputLength {
		return nil, newParseError(errors.ErrCodeInputTooLong, p.opts.MaxInputLength,
			"input length %d exceeds limit %d", len(input), p.opts.MaxInputLength)
	}
	b := &build{
		p:      p,
		mol:    molecule.New(),
		labels: make(map[int]openLabel),
	}
	if err := b.run(input); err != nil {
		return nil, err
	}
	if err := b.mol.CompleteHydrogens(p.opts.Valence); err != nil {
		return nil, &ParseError{Offset: -1, Err: errors.Wrap(err, errors.CodeUnknown, "hydrogen completion failed")}
	}
	return b.mol, nil
}

func (b *build) run(input string) error {
	stack := []*frame{{tok: NewTokenizer(input), active: molecule.NoAtom, dot: -1}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		tok, err := f.tok.Next()
		if err != nil {
			return err
		}

		switch tok.Kind {
		case TokenEOF:
			if f.bond.explicit {
				return syntaxError(f.bond.offset, "bond symbol is not followed by an atom")
			}
			if f.dot >= 0 {
				return syntaxError(f.dot, "'.' is not followed by an atom")
			}
			if len(stack) > 1 && !f.placed {
				return syntaxError(f.start, "empty branch")
			}
			stack = stack[:len(stack)-1]

		case TokenAtom, TokenBracketAtom:
			atom, err := b.atomFromToken(tok)
			if err != nil {
				return err
			}
			id := b.mol.AddAtom(atom)
			if f.active != molecule.NoAtom {
				if err := b.connect(f.active, id, f.bond, tok.Offset); err != nil {
					return err
				}
			} else if f.bond.explicit {
				return syntaxError(f.bond.offset, "bond symbol has no preceding atom")
			}
			f.active = id
			f.bond = pendingBond{}
			f.placed = true
			f.dot = -1

		case TokenBond:
			if f.bond.explicit {
				return syntaxError(tok.Offset, "consecutive bond symbols")
			}
			order, dir, _ := molecule.ParseBondSymbol(tok.Text[0])
			f.bond = pendingBond{order: order, dir: dir, explicit: true, offset: tok.Offset}

		case TokenRingLabel:
			if f.active == molecule.NoAtom {
				return syntaxError(tok.Offset, "ring-closure label has no preceding atom")
			}
			if err := b.ringLabel(f, tok); err != nil {
				return err
			}
			f.bond = pendingBond{}

		case TokenBranch:
			if f.active == molecule.NoAtom || !f.placed {
				return syntaxError(tok.Offset, "branch has no preceding atom")
			}
			if f.bond.explicit {
				return syntaxError(f.bond.offset, "bond symbol is followed by a branch")
			}
			inner := tok.Text[1 : len(tok.Text)-1]
			stack = append(stack, &frame{
				tok:    newTokenizerAt(inner, tok.Offset+1),
				active: f.active,
				dot:    -1,
				start:  tok.Offset,
			})

		case TokenDot:
			if f.bond.explicit {
				return syntaxError(f.bond.offset, "bond symbol is followed by '.'")
			}
			if !f.placed {
				return syntaxError(tok.Offset, "'.' has no preceding atom")
			}
			f.active = molecule.NoAtom
			f.placed = false
			f.dot = tok.Offset
		}
	}

	if len(b.labels) > 0 {
		open := make([]openLabel, 0, len(b.labels))
		for _, ol := range b.labels {
			open = append(open, ol)
		}
		sort.Slice(open, func(i, j int) bool { return open[i].offset < open[j].offset })
		first := open[0]
		return newParseError(errors.ErrCodeUnclosedRingLabel, first.offset,
			"ring-closure label %d is never closed (%d open)", first.label, len(open))
	}
	return nil
}

func (b *build) atomFromToken(tok Token) (molecule.Atom, error) {
	if tok.Kind == TokenAtom {
		symbol, aromatic := element.Canonical(tok.Text)
		if _, err := resolveElement(symbol, false, b.p.opts.Elements, tok.Offset); err != nil {
			return molecule.Atom{}, err
		}
		return molecule.Atom{
			Symbol:    symbol,
			Aromatic:  aromatic,
			Hydrogens: molecule.InferHydrogens(),
			Offset:    tok.Offset,
		}, nil
	}

	content := tok.Text[1 : len(tok.Text)-1]
	ba, err := DecodeBracketLimited(content, tok.Offset+1, BracketLimits{
		MaxHydrogens: b.p.opts.MaxExplicitHydrogens,
		MaxCharge:    b.p.opts.MaxCharge,
	})
	if err != nil {
		return molecule.Atom{}, err
	}
	symbol, err := resolveElement(ba.Symbol, ba.Aromatic, b.p.opts.Elements, tok.Offset+1)
	if err != nil {
		return molecule.Atom{}, err
	}
	hs := molecule.InferHydrogens()
	if ba.Hydrogens != nil {
		hs = molecule.ExplicitHydrogens(*ba.Hydrogens)
	}
	return molecule.Atom{
		Symbol:    symbol,
		Isotope:   ba.Isotope,
		Charge:    ba.Charge,
		Aromatic:  ba.Aromatic,
		Chirality: ba.Chirality,
		Hydrogens: hs,
		Offset:    tok.Offset,
	}, nil
}

// connect bonds a and c.  Without an explicit symbol the bond is aromatic
// between two aromatic atoms and single otherwise.
func (b *build) connect(a, c molecule.AtomID, pb pendingBond, offset int) error {
	order, dir := pb.order, pb.dir
	if !pb.explicit {
		order, dir = molecule.BondSingle, molecule.DirNone
		if b.mol.Atom(a).Aromatic && b.mol.Atom(c).Aromatic {
			order = molecule.BondAromatic
		}
	}
	if _, err := b.mol.AddBond(a, c, order, dir); err != nil {
		if errors.IsCode(err, errors.ErrCodeDuplicateBond) {
			return &ParseError{Offset: offset, Err: errors.Wrap(err, errors.ErrCodeDuplicateBond, "duplicate bond")}
		}
		return syntaxError(offset, "invalid bond: %v", err)
	}
	return nil
}

// ringLabel opens or closes a ring-closure label.  On closing, an explicit
// bond symbol at the closing occurrence wins over the one captured when the
// label was opened.
func (b *build) ringLabel(f *frame, tok Token) error {
	ol, open := b.labels[tok.Label]
	if !open {
		b.labels[tok.Label] = openLabel{label: tok.Label, atom: f.active, bond: f.bond, offset: tok.Offset}
		return nil
	}
	delete(b.labels, tok.Label)
	bond := ol.bond
	if f.bond.explicit {
		bond = f.bond
	}
	if ol.atom == f.active {
		return syntaxError(tok.Offset, "ring-closure label %d closes on its own atom", tok.Label)
	}
	return b.connect(f.active, ol.atom, bond, tok.Offset)
}
