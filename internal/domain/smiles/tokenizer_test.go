package smiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/molgraph/pkg/errors"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenize_Kinds(t *testing.T) {
	tokens, err := Tokenize("CC(=O)[O-].Cl%12")
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "C", "(=O)", "[O-]", ".", "Cl", "%12"}, texts(tokens))
	assert.Equal(t, []TokenKind{
		TokenAtom, TokenAtom, TokenBranch, TokenBracketAtom, TokenDot, TokenAtom, TokenRingLabel,
	}, kinds(tokens))
	assert.Equal(t, 12, tokens[6].Label)
	assert.Equal(t, 14, tokens[6].Offset)
}

func TestTokenize_TwoLetterGreedy(t *testing.T) {
	tokens, err := Tokenize("ClCBrBc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cl", "C", "Br", "B", "c"}, texts(tokens))
}

func TestTokenize_NestedBranchIsOneToken(t *testing.T) {
	tokens, err := Tokenize("C(C(C)C)C")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, "(C(C)C)", tokens[1].Text)
	assert.Equal(t, TokenBranch, tokens[1].Kind)
}

func TestTokenize_LabelNormalization(t *testing.T) {
	tokens, err := Tokenize("C1%01")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, tokens[1].Label, tokens[2].Label)
	assert.Equal(t, 1, tokens[1].Label)
}

func TestTokenize_BondSymbols(t *testing.T) {
	tokens, err := Tokenize(`C-C=C#C$C:C/C\C`)
	require.NoError(t, err)
	var bonds []string
	for _, tok := range tokens {
		if tok.Kind == TokenBond {
			bonds = append(bonds, tok.Text)
		}
	}
	assert.Equal(t, []string{"-", "=", "#", "$", ":", "/", `\`}, bonds)
}

func TestTokenize_Errors(t *testing.T) {
	cases := []struct {
		input  string
		offset int
	}{
		{"C(C", 1},
		{"CC)", 2},
		{"[CH4", 0},
		{"C]", 1},
		{"C%1", 1},
		{"C%", 1},
		{"CX", 1},
		{"C()", 1},
		{"C C", 1},
		{"CC>CC", 2},
		{"H", 0},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			_, err := Tokenize(tc.input)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeSMILESSyntax))

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.offset, pe.Offset)
		})
	}
}

func TestTokenizer_IsNotRestartable(t *testing.T) {
	tk := NewTokenizer("CX")
	tok, err := tk.Next()
	require.NoError(t, err)
	assert.Equal(t, "C", tok.Text)

	_, err1 := tk.Next()
	_, err2 := tk.Next()
	require.Error(t, err1)
	assert.Same(t, err1, err2)

	done := NewTokenizer("C")
	_, _ = done.Next()
	for i := 0; i < 3; i++ {
		tok, err := done.Next()
		require.NoError(t, err)
		assert.Equal(t, TokenEOF, tok.Kind)
	}
}

func TestTokenizer_OffsetsInsideBranch(t *testing.T) {
	tk := newTokenizerAt("=O", 3)
	tok, err := tk.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, tok.Offset)
	tok, err = tk.Next()
	require.NoError(t, err)
	assert.Equal(t, 4, tok.Offset)
}

func TestTokenKind_String(t *testing.T) {
	assert.Equal(t, "ring label", TokenRingLabel.String())
	assert.Equal(t, "unknown", TokenKind(99).String())
}
