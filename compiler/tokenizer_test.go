package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustTokenize(t *testing.T, src string) []*Token {
	tokens, err := NewTokenizer().RetainNewlines(false).Tokenize(src)
	assert.Nil(t, err)
	return tokens
}

func tokenTypes(tokens []*Token) []TokenType {
	types := make([]TokenType, 0, len(tokens))
	for _, token := range tokens {
		types = append(types, token.Type)
	}
	return types
}

func TestTokenizer_ClassifyWords(t *testing.T) {
	testData := []struct {
		word       string
		expectedTP TokenType
	}{
		{word: "ejercito", expectedTP: EjercitoTP},
		{word: "mision", expectedTP: MisionTP},
		{word: "severidad", expectedTP: SeveridadTP},
		{word: "atacar", expectedTP: AtacarTP},
		{word: "retirada", expectedTP: RetiradaTP},
		{word: "afirmativo", expectedTP: BooleanTP},
		{word: "negativo", expectedTP: BooleanTP},
		{word: "nulo", expectedTP: NullTP},
		{word: "soldado", expectedTP: IdentifierTP},
		{word: "misionx", expectedTP: IdentifierTP},
		{word: "_reserva1", expectedTP: IdentifierTP},
	}
	for _, data := range testData {
		tokens := mustTokenize(t, data.word)
		assert.Equal(t, 1, len(tokens))
		assert.Equal(t, data.expectedTP, tokens[0].Type)
		assert.Equal(t, data.word, tokens[0].Lexeme)
	}
}

func TestTokenizer_LongestMatchOperators(t *testing.T) {
	testData := []struct {
		op         string
		expectedTP TokenType
	}{
		{op: "||", expectedTP: OrTP},
		{op: "&&", expectedTP: AndTP},
		{op: "==", expectedTP: EqualTP},
		{op: "!=", expectedTP: NotEqualTP},
		{op: "<=", expectedTP: LessEqualTP},
		{op: ">=", expectedTP: GreaterEqualTP},
		{op: "+=", expectedTP: AddAssignTP},
		{op: "-=", expectedTP: SubAssignTP},
		{op: "*=", expectedTP: MulAssignTP},
		{op: "/=", expectedTP: DivAssignTP},
		{op: "%=", expectedTP: ModAssignTP},
		{op: "=", expectedTP: AssignTP},
		{op: "<", expectedTP: LessTP},
		{op: "!", expectedTP: NotTP},
	}
	for _, data := range testData {
		tokens := mustTokenize(t, data.op)
		assert.Equal(t, 1, len(tokens))
		assert.Equal(t, data.expectedTP, tokens[0].Type)
	}

	// The two-character form wins even with no spaces around it.
	tokens := mustTokenize(t, "a<=b")
	assert.Equal(t, []TokenType{IdentifierTP, LessEqualTP, IdentifierTP}, tokenTypes(tokens))
}

func TestTokenizer_Numbers(t *testing.T) {
	testData := []struct {
		src           string
		expectedTypes []TokenType
	}{
		{src: "42", expectedTypes: []TokenType{IntegerTP}},
		{src: "3.14", expectedTypes: []TokenType{FloatTP}},
		// A dot with no digit behind it is not part of the number.
		{src: "3.", expectedTypes: []TokenType{IntegerTP, DotTP}},
		{src: "2.5.6", expectedTypes: []TokenType{FloatTP, DotTP, IntegerTP}},
	}
	for _, data := range testData {
		tokens := mustTokenize(t, data.src)
		assert.Equal(t, data.expectedTypes, tokenTypes(tokens))
	}
}

func TestTokenizer_Strings(t *testing.T) {
	tokens := mustTokenize(t, `reportar("hola mundo")`)
	assert.Equal(t, []TokenType{IdentifierTP, LeftParenTP, StringTP, RightParenTP}, tokenTypes(tokens))
	assert.Equal(t, `"hola mundo"`, tokens[2].Lexeme)
	assert.Equal(t, "hola mundo", tokens[2].Value)

	tokens = mustTokenize(t, `""`)
	assert.Equal(t, StringTP, tokens[0].Type)
	assert.Equal(t, "", tokens[0].Value)
}

func TestTokenizer_StringsDoNotSpanLines(t *testing.T) {
	_, err := NewTokenizer().Tokenize("\"abc\ndef\"")
	lexical, ok := err.(*LexicalError)
	assert.True(t, ok)
	assert.Equal(t, 1, lexical.Line)
	assert.Equal(t, 1, lexical.Column)
}

func TestTokenizer_Comments(t *testing.T) {
	// A line comment eats its line break, so no NEWLINE token survives it.
	tokens, err := NewTokenizer().Tokenize("var x = 1 // nota\nvar y")
	assert.Nil(t, err)
	assert.Equal(t, []TokenType{VarTP, IdentifierTP, AssignTP, IntegerTP, VarTP, IdentifierTP}, tokenTypes(tokens))

	// Block comments may span lines and contain stars.
	tokens = mustTokenize(t, "1 /* ** nota\n mas */ 2")
	assert.Equal(t, []TokenType{IntegerTP, IntegerTP}, tokenTypes(tokens))
	assert.Equal(t, 2, tokens[1].Line)

	// An opener with no close is not a comment; the characters fall back to
	// the operator vocabulary.
	tokens = mustTokenize(t, "a /* b")
	assert.Equal(t, []TokenType{IdentifierTP, DivideTP, MultiplyTP, IdentifierTP}, tokenTypes(tokens))
}

func TestTokenizer_Positions(t *testing.T) {
	src := "global var total = 0\nmision suma(a, b) {\n}"
	tokens := mustTokenize(t, src)
	testData := []struct {
		lexeme string
		line   int
		column int
	}{
		{lexeme: "global", line: 1, column: 1},
		{lexeme: "var", line: 1, column: 8},
		{lexeme: "total", line: 1, column: 12},
		{lexeme: "=", line: 1, column: 18},
		{lexeme: "0", line: 1, column: 20},
		{lexeme: "mision", line: 2, column: 1},
		{lexeme: "suma", line: 2, column: 8},
		{lexeme: "(", line: 2, column: 12},
		{lexeme: "a", line: 2, column: 13},
		{lexeme: ",", line: 2, column: 14},
		{lexeme: "b", line: 2, column: 16},
		{lexeme: ")", line: 2, column: 17},
		{lexeme: "{", line: 2, column: 19},
		{lexeme: "}", line: 3, column: 1},
	}
	assert.Equal(t, len(testData), len(tokens))
	for i, data := range testData {
		assert.Equal(t, data.lexeme, tokens[i].Lexeme)
		assert.Equal(t, data.line, tokens[i].Line, "lexeme %q", data.lexeme)
		assert.Equal(t, data.column, tokens[i].Column, "lexeme %q", data.lexeme)
	}
}

func TestTokenizer_ColumnsCountRunes(t *testing.T) {
	tokens := mustTokenize(t, `reportar("señal")`)
	closing := tokens[len(tokens)-1]
	assert.Equal(t, ")", closing.Lexeme)
	assert.Equal(t, 17, closing.Column)
}

func TestTokenizer_NewlineRuns(t *testing.T) {
	tokens, err := NewTokenizer().Tokenize("a\n\n\nb")
	assert.Nil(t, err)
	assert.Equal(t, []TokenType{IdentifierTP, NewlineTP, IdentifierTP}, tokenTypes(tokens))
	assert.Equal(t, 4, tokens[2].Line)
	assert.Equal(t, 1, tokens[2].Column)

	tokens, err = NewTokenizer().Tokenize("a\r\nb")
	assert.Nil(t, err)
	assert.Equal(t, []TokenType{IdentifierTP, NewlineTP, IdentifierTP}, tokenTypes(tokens))
	assert.Equal(t, 2, tokens[2].Line)

	tokens = mustTokenize(t, "a\n\nb")
	assert.Equal(t, []TokenType{IdentifierTP, IdentifierTP}, tokenTypes(tokens))
}

func TestTokenizer_Tolerant(t *testing.T) {
	tokens, err := NewTokenizer().RetainNewlines(false).Tolerant(true).Tokenize("var x = @ 5")
	assert.Nil(t, err)
	assert.Equal(t, []TokenType{VarTP, IdentifierTP, AssignTP, ErrorTP, IntegerTP}, tokenTypes(tokens))
	assert.Equal(t, "@", tokens[3].Lexeme)
	assert.Equal(t, 9, tokens[3].Column)

	_, err = NewTokenizer().Tokenize("var x = @ 5")
	lexical, ok := err.(*LexicalError)
	assert.True(t, ok)
	assert.Equal(t, 1, lexical.Line)
	assert.Equal(t, 9, lexical.Column)
}
