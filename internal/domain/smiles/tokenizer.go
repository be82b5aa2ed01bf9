package smiles

// Tokenizer lexes a SMILES string into tokens on demand.  It is finite and
// not restartable: once it returns TokenEOF or an error it keeps returning
// the same result.
type Tokenizer struct {
	src  string
	pos  int
	base int // offset of src inside the top-level input
	err  error
	done bool
}

// NewTokenizer creates a Tokenizer over src.
func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{src: src}
}

// newTokenizerAt creates a Tokenizer over a substring that starts at byte
// offset base of the top-level input, so reported offsets stay absolute.
func newTokenizerAt(src string, base int) *Tokenizer {
	return &Tokenizer{src: src, base: base}
}

// Tokenize drains a Tokenizer over src, for callers that want the whole
// sequence.  The trailing TokenEOF is not included.
func Tokenize(src string) ([]Token, error) {
	t := NewTokenizer(src)
	var out []Token
	for {
		tok, err := t.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenEOF {
			return out, nil
		}
		out = append(out, tok)
	}
}

// Next returns the next token.
func (t *Tokenizer) Next() (Token, error) {
	if t.err != nil {
		return Token{}, t.err
	}
	if t.done || t.pos >= len(t.src) {
		t.done = true
		return Token{Kind: TokenEOF, Offset: t.base + len(t.src)}, nil
	}
	tok, err := t.scan()
	if err != nil {
		t.err = err
		return Token{}, err
	}
	return tok, nil
}

func (t *Tokenizer) offset(pos int) int { return t.base + pos }

func (t *Tokenizer) emit(kind TokenKind, start, end int) Token {
	t.pos = end
	return Token{Kind: kind, Text: t.src[start:end], Offset: t.offset(start)}
}

func (t *Tokenizer) scan() (Token, error) {
	start := t.pos
	ch := t.src[start]

	switch {
	case ch == '(':
		end, err := t.matchBranch(start)
		if err != nil {
			return Token{}, err
		}
		return t.emit(TokenBranch, start, end), nil

	case ch == ')':
		return Token{}, syntaxError(t.offset(start), "unbalanced ')'")

	case ch == '[':
		for i := start + 1; i < len(t.src); i++ {
			switch t.src[i] {
			case ']':
				return t.emit(TokenBracketAtom, start, i+1), nil
			case '[':
				return Token{}, syntaxError(t.offset(i), "nested '[' inside bracket atom")
			}
		}
		return Token{}, syntaxError(t.offset(start), "unmatched '['")

	case ch == ']':
		return Token{}, syntaxError(t.offset(start), "unbalanced ']'")

	case isDigit(ch):
		tok := t.emit(TokenRingLabel, start, start+1)
		tok.Label = int(ch - '0')
		return tok, nil

	case ch == '%':
		if start+2 >= len(t.src) || !isDigit(t.src[start+1]) || !isDigit(t.src[start+2]) {
			return Token{}, syntaxError(t.offset(start), "'%%' must be followed by exactly two digits")
		}
		tok := t.emit(TokenRingLabel, start, start+3)
		tok.Label = int(t.src[start+1]-'0')*10 + int(t.src[start+2]-'0')
		return tok, nil

	case isBondSymbol(ch):
		return t.emit(TokenBond, start, start+1), nil

	case ch == '.':
		return t.emit(TokenDot, start, start+1), nil
	}

	if end, ok := t.matchOrganic(start); ok {
		return t.emit(TokenAtom, start, end), nil
	}
	return Token{}, syntaxError(t.offset(start), "unexpected character %q", ch)
}

// matchBranch returns the end of the balanced parenthesized group opened at
// start.  Balance is tracked by counting, so nested groups are included.
func (t *Tokenizer) matchBranch(start int) (int, error) {
	depth := 0
	for i := start; i < len(t.src); i++ {
		switch t.src[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				if i == start+1 {
					return 0, syntaxError(t.offset(start), "empty branch")
				}
				return i + 1, nil
			}
		}
	}
	return 0, syntaxError(t.offset(start), "unmatched '('")
}

// matchOrganic matches the longest organic-subset symbol at start.
func (t *Tokenizer) matchOrganic(start int) (int, bool) {
	ch := t.src[start]
	if start+1 < len(t.src) {
		next := t.src[start+1]
		if (ch == 'C' && next == 'l') || (ch == 'B' && next == 'r') {
			return start + 2, true
		}
	}
	switch ch {
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I',
		'b', 'c', 'n', 'o', 'p', 's':
		return start + 1, true
	}
	return 0, false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isBondSymbol(c byte) bool {
	switch c {
	case '-', '=', '#', '$', ':', '/', '\\':
		return true
	}
	return false
}
