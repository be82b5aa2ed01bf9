package smiles

// TokenKind identifies the type of a lexical token.
type TokenKind int

const (
	TokenEOF         TokenKind = iota
	TokenAtom                  // organic-subset atom: C, Cl, c, ...
	TokenBracketAtom           // [13CH3+]
	TokenBranch                // (...) including the outer parentheses
	TokenRingLabel             // 1, %12
	TokenBond                  // - = # $ : / \
	TokenDot                   // .
)

var tokenNames = map[TokenKind]string{
	TokenEOF:         "EOF",
	TokenAtom:        "atom",
	TokenBracketAtom: "bracket atom",
	TokenBranch:      "branch",
	TokenRingLabel:   "ring label",
	TokenBond:        "bond",
	TokenDot:         "'.'",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is a single lexical unit.
type Token struct {
	Kind TokenKind
	// Text is the raw source text of the token.
	Text string
	// Offset is the byte offset of the token in the top-level input.
	Offset int
	// Label is the ring-closure number for TokenRingLabel.  "1" and "%01"
	// both yield 1.
	Label int
}
