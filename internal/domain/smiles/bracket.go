package smiles

import (
	"strconv"

	"github.com/turtacn/molgraph/internal/domain/element"
	"github.com/turtacn/molgraph/pkg/errors"
)

// BracketAtom holds the decoded fields of a bracket atom.
type BracketAtom struct {
	// Isotope is the mass number, 0 when absent.
	Isotope int
	// Symbol is the element symbol as written ("c", "Se", "Cl").
	Symbol    string
	Aromatic  bool
	Charge    int
	Chirality string
	// Hydrogens is nil when the H field is absent.
	Hydrogens *int
	// Class is the atom class after ':', 0 when absent.
	Class int
}

var chiralityClasses = map[string]bool{
	"TH": true, "AL": true, "SP": true, "TB": true, "OH": true,
}

// BracketLimits bounds the numeric fields of a bracket atom.  Zero disables
// a limit.
type BracketLimits struct {
	MaxHydrogens int
	MaxCharge    int
}

// DefaultBracketLimits allows a single-digit hydrogen count and charges in
// [-15, +15].
func DefaultBracketLimits() BracketLimits {
	return BracketLimits{MaxHydrogens: DefaultMaxExplicitHydrogens, MaxCharge: DefaultMaxCharge}
}

type bracketDecoder struct {
	s      string
	i      int
	offset int // offset of s[0] in the top-level input
	limits BracketLimits
}

func (d *bracketDecoder) peek() byte {
	if d.i < len(d.s) {
		return d.s[d.i]
	}
	return 0
}

func (d *bracketDecoder) digits() string {
	start := d.i
	for d.i < len(d.s) && isDigit(d.s[d.i]) {
		d.i++
	}
	return d.s[start:d.i]
}

func (d *bracketDecoder) number(field string) (int, error) {
	start := d.i
	text := d.digits()
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, syntaxError(d.offset+start, "malformed %s %q", field, text)
	}
	return n, nil
}

// DecodeBracket parses the content of a bracket atom, without the brackets,
// under DefaultBracketLimits.  Fields are read in order: isotope, element,
// chirality, hydrogen count, charge, atom class.  Chirality is also accepted
// after the charge.  offset is the position of the content in the top-level
// input and is used only for error reporting.
func DecodeBracket(content string, offset int) (BracketAtom, error) {
	return DecodeBracketLimited(content, offset, DefaultBracketLimits())
}

// DecodeBracketLimited is DecodeBracket with explicit field limits.  A
// hydrogen count or charge magnitude above its limit is a syntax error at
// the start of the field.
func DecodeBracketLimited(content string, offset int, limits BracketLimits) (BracketAtom, error) {
	var out BracketAtom
	d := &bracketDecoder{s: content, offset: offset, limits: limits}

	if isDigit(d.peek()) {
		n, err := d.number("isotope")
		if err != nil {
			return out, err
		}
		out.Isotope = n
	}

	if err := d.element(&out); err != nil {
		return out, err
	}

	d.chirality(&out)

	if d.peek() == 'H' {
		start := d.i
		d.i++
		count := 1
		if isDigit(d.peek()) {
			n, err := d.number("hydrogen count")
			if err != nil {
				return out, err
			}
			count = n
		}
		if limit := d.limits.MaxHydrogens; limit > 0 && count > limit {
			return out, syntaxError(d.offset+start, "hydrogen count %d exceeds limit %d", count, limit)
		}
		out.Hydrogens = &count
	}

	if c := d.peek(); c == '+' || c == '-' {
		start := d.i
		charge, err := d.charge()
		if err != nil {
			return out, err
		}
		if limit := d.limits.MaxCharge; limit > 0 && (charge > limit || charge < -limit) {
			return out, syntaxError(d.offset+start, "charge %d exceeds limit ±%d", charge, limit)
		}
		out.Charge = charge
	}

	if out.Chirality == "" {
		d.chirality(&out)
	}

	if d.peek() == ':' {
		d.i++
		if !isDigit(d.peek()) {
			return out, syntaxError(d.offset+d.i, "atom class requires digits")
		}
		n, err := d.number("atom class")
		if err != nil {
			return out, err
		}
		out.Class = n
	}

	if d.i != len(d.s) {
		return out, syntaxError(d.offset+d.i, "unexpected %q in bracket atom", d.s[d.i:])
	}
	return out, nil
}

// element reads the element symbol.  An uppercase letter may be followed by
// one lowercase letter; an 'H' after a captured symbol always starts the
// hydrogen field.  Lowercase symbols are aromatic.
func (d *bracketDecoder) element(out *BracketAtom) error {
	start := d.i
	c := d.peek()
	switch {
	case c >= 'A' && c <= 'Z':
		d.i++
		if n := d.peek(); n >= 'a' && n <= 'z' {
			d.i++
		}
	case c >= 'a' && c <= 'z':
		d.i++
		if n := d.peek(); n >= 'a' && n <= 'z' {
			d.i++
		}
		out.Aromatic = true
	default:
		return syntaxError(d.offset+start, "bracket atom has no element symbol")
	}
	out.Symbol = d.s[start:d.i]
	return nil
}

func (d *bracketDecoder) chirality(out *BracketAtom) {
	if d.peek() != '@' {
		return
	}
	start := d.i
	d.i++
	if d.peek() == '@' {
		d.i++
	} else if d.i+1 < len(d.s) && chiralityClasses[d.s[d.i:d.i+2]] {
		d.i += 2
		d.digits()
	}
	out.Chirality = d.s[start:d.i]
}

// charge reads "+", "++", "-3", "+2" and similar.  A sign followed by digits
// gives the signed number; a run of one sign gives its length.
func (d *bracketDecoder) charge() (int, error) {
	sign := d.s[d.i]
	d.i++
	mult := 1
	if sign == '-' {
		mult = -1
	}
	if isDigit(d.peek()) {
		n, err := d.number("charge")
		if err != nil {
			return 0, err
		}
		return mult * n, nil
	}
	n := 1
	for d.peek() == sign {
		d.i++
		n++
	}
	return mult * n, nil
}

// resolveElement checks a decoded symbol against the provider and returns
// its canonical form.
func resolveElement(symbol string, aromatic bool, provider element.Provider, offset int) (string, error) {
	canonical := symbol
	if aromatic {
		c, ok := element.Canonical(symbol)
		if !ok {
			return "", newParseError(errors.ErrCodeUnknownElement, offset, "unknown aromatic element %q", symbol)
		}
		canonical = c
	}
	if _, ok := provider.Lookup(canonical); !ok {
		return "", newParseError(errors.ErrCodeUnknownElement, offset, "unknown element %q", symbol)
	}
	return canonical, nil
}
