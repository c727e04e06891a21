package compiler

import (
	"strings"

	"crvicio/util"
)

// Tokenizer turns C-rvicio Militar source text into a token stream. It scans
// the whole text as runes so multi-line comments and column positions behave
// the same for ASCII and non-ASCII input.
//
// Two switches change the output shape. retainNewlines keeps one NewlineTP
// token per run of line breaks, which the parser uses as optional statement
// separators. tolerant turns unrecognized text into ErrorTP tokens instead of
// stopping at the first LexicalError.
type Tokenizer struct {
	src            []rune
	currentPos     int
	currentLine    int
	lineStart      int
	retainNewlines bool
	tolerant       bool
	tokens         []*Token
}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{retainNewlines: true}
}

func (tokenizer *Tokenizer) RetainNewlines(retain bool) *Tokenizer {
	tokenizer.retainNewlines = retain
	return tokenizer
}

func (tokenizer *Tokenizer) Tolerant(tolerant bool) *Tokenizer {
	tokenizer.tolerant = tolerant
	return tokenizer
}

// Tokenize scans src from the beginning. The returned slice aliases nothing
// in src; calling Tokenize again resets the scanner.
func (tokenizer *Tokenizer) Tokenize(src string) ([]*Token, error) {
	tokenizer.src = []rune(src)
	tokenizer.currentPos = 0
	tokenizer.currentLine = 1
	tokenizer.lineStart = 0
	tokenizer.tokens = nil
	for tokenizer.hasRemainCharacters() {
		if err := tokenizer.scanNext(); err != nil {
			return nil, err
		}
	}
	return tokenizer.tokens, nil
}

func (tokenizer *Tokenizer) hasRemainCharacters() bool {
	return tokenizer.currentPos < len(tokenizer.src)
}

func (tokenizer *Tokenizer) peek() rune {
	if !tokenizer.hasRemainCharacters() {
		return 0
	}
	return tokenizer.src[tokenizer.currentPos]
}

func (tokenizer *Tokenizer) peekAt(offset int) rune {
	pos := tokenizer.currentPos + offset
	if pos >= len(tokenizer.src) {
		return 0
	}
	return tokenizer.src[pos]
}

// column is 1-based and counts runes from the start of the current line.
func (tokenizer *Tokenizer) column() int {
	return tokenizer.currentPos - tokenizer.lineStart + 1
}

func (tokenizer *Tokenizer) emit(tp TokenType, lexeme, value string, line, column int) {
	tokenizer.tokens = append(tokenizer.tokens, &Token{
		Type:   tp,
		Lexeme: lexeme,
		Value:  value,
		Line:   line,
		Column: column,
	})
}

func (tokenizer *Tokenizer) scanNext() error {
	r := tokenizer.peek()
	switch {
	case r == '/' && tokenizer.peekAt(1) == '*' && tokenizer.hasBlockCommentClose():
		tokenizer.scanBlockComment()
		return nil
	case r == '/' && tokenizer.peekAt(1) == '/':
		tokenizer.scanLineComment()
		return nil
	case r == '\n' || (r == '\r' && tokenizer.peekAt(1) == '\n'):
		tokenizer.scanNewlines()
		return nil
	case util.IsInlineSpace(r):
		tokenizer.scanInlineSpace()
		return nil
	case r == '"' && tokenizer.hasStringClose():
		tokenizer.scanString()
		return nil
	case util.IsDigit(r):
		tokenizer.scanNumber()
		return nil
	case util.IsIdentStart(r):
		tokenizer.scanKeywordOrIdentifier()
		return nil
	}
	if tp, width, ok := tokenizer.matchOperatorOrSymbol(); ok {
		line, column := tokenizer.currentLine, tokenizer.column()
		lexeme := string(tokenizer.src[tokenizer.currentPos : tokenizer.currentPos+width])
		tokenizer.currentPos += width
		tokenizer.emit(tp, lexeme, "", line, column)
		return nil
	}
	return tokenizer.scanUnrecognized()
}

// hasBlockCommentClose looks ahead for the closing */ of a block comment that
// opens at the current position. An unterminated opener is not a comment at
// all; the slash falls through to the operator vocabulary.
func (tokenizer *Tokenizer) hasBlockCommentClose() bool {
	for pos := tokenizer.currentPos + 2; pos+1 < len(tokenizer.src); pos++ {
		if tokenizer.src[pos] == '*' && tokenizer.src[pos+1] == '/' {
			return true
		}
	}
	return false
}

func (tokenizer *Tokenizer) scanBlockComment() {
	tokenizer.currentPos += 2
	for {
		if tokenizer.peek() == '*' && tokenizer.peekAt(1) == '/' {
			tokenizer.currentPos += 2
			return
		}
		if tokenizer.peek() == '\n' {
			tokenizer.currentLine++
			tokenizer.lineStart = tokenizer.currentPos + 1
		}
		tokenizer.currentPos++
	}
}

// scanLineComment consumes through the end of the line including the line
// break itself, so a comment at the end of a statement does not leave a
// NewlineTP behind.
func (tokenizer *Tokenizer) scanLineComment() {
	for tokenizer.hasRemainCharacters() && tokenizer.peek() != '\n' {
		tokenizer.currentPos++
	}
	if tokenizer.peek() == '\n' {
		tokenizer.currentPos++
		tokenizer.currentLine++
		tokenizer.lineStart = tokenizer.currentPos
	}
}

// scanNewlines collapses a run of line breaks into at most one NewlineTP,
// positioned at the first break of the run.
func (tokenizer *Tokenizer) scanNewlines() {
	line, column := tokenizer.currentLine, tokenizer.column()
	for {
		if tokenizer.peek() == '\r' && tokenizer.peekAt(1) == '\n' {
			tokenizer.currentPos++
		}
		if tokenizer.peek() != '\n' {
			break
		}
		tokenizer.currentPos++
		tokenizer.currentLine++
		tokenizer.lineStart = tokenizer.currentPos
	}
	if tokenizer.retainNewlines {
		tokenizer.emit(NewlineTP, "\n", "", line, column)
	}
}

func (tokenizer *Tokenizer) scanInlineSpace() {
	for tokenizer.hasRemainCharacters() {
		r := tokenizer.peek()
		if !util.IsInlineSpace(r) || (r == '\r' && tokenizer.peekAt(1) == '\n') {
			break
		}
		tokenizer.currentPos++
	}
}

// hasStringClose reports whether the quote at the current position is closed
// before the end of the line. Strings cannot span lines and have no escapes.
func (tokenizer *Tokenizer) hasStringClose() bool {
	for pos := tokenizer.currentPos + 1; pos < len(tokenizer.src); pos++ {
		switch tokenizer.src[pos] {
		case '"':
			return true
		case '\n':
			return false
		}
	}
	return false
}

func (tokenizer *Tokenizer) scanString() {
	line, column := tokenizer.currentLine, tokenizer.column()
	startPos := tokenizer.currentPos
	tokenizer.currentPos++
	for tokenizer.peek() != '"' {
		tokenizer.currentPos++
	}
	tokenizer.currentPos++
	lexeme := string(tokenizer.src[startPos:tokenizer.currentPos])
	tokenizer.emit(StringTP, lexeme, lexeme[1:len(lexeme)-1], line, column)
}

func (tokenizer *Tokenizer) scanNumber() {
	line, column := tokenizer.currentLine, tokenizer.column()
	startPos := tokenizer.currentPos
	for util.IsDigit(tokenizer.peek()) {
		tokenizer.currentPos++
	}
	tp := IntegerTP
	if tokenizer.peek() == '.' && util.IsDigit(tokenizer.peekAt(1)) {
		tokenizer.currentPos++
		for util.IsDigit(tokenizer.peek()) {
			tokenizer.currentPos++
		}
		tp = FloatTP
	}
	tokenizer.emit(tp, string(tokenizer.src[startPos:tokenizer.currentPos]), "", line, column)
}

func (tokenizer *Tokenizer) scanKeywordOrIdentifier() {
	line, column := tokenizer.currentLine, tokenizer.column()
	startPos := tokenizer.currentPos
	for util.IsIdentPart(tokenizer.peek()) {
		tokenizer.currentPos++
	}
	word := string(tokenizer.src[startPos:tokenizer.currentPos])
	tokenizer.emit(classifyWord(word), word, "", line, column)
}

// classifyWord decides what an identifier-shaped word is. The boolean and
// null words are checked before the keyword table so they come out as
// literals.
func classifyWord(word string) TokenType {
	switch word {
	case "afirmativo", "negativo":
		return BooleanTP
	case "nulo":
		return NullTP
	}
	if tp, isKeyWord := keyWordTokenTPMap[word]; isKeyWord {
		return tp
	}
	return IdentifierTP
}

// matchOperatorOrSymbol tries the two-character operators before the
// single-character ones. A lone | or & matches nothing.
func (tokenizer *Tokenizer) matchOperatorOrSymbol() (TokenType, int, bool) {
	r, next := tokenizer.peek(), tokenizer.peekAt(1)
	switch r {
	case '|':
		if next == '|' {
			return OrTP, 2, true
		}
		return 0, 0, false
	case '&':
		if next == '&' {
			return AndTP, 2, true
		}
		return 0, 0, false
	case '=':
		if next == '=' {
			return EqualTP, 2, true
		}
		return AssignTP, 1, true
	case '!':
		if next == '=' {
			return NotEqualTP, 2, true
		}
		return NotTP, 1, true
	case '<':
		if next == '=' {
			return LessEqualTP, 2, true
		}
		return LessTP, 1, true
	case '>':
		if next == '=' {
			return GreaterEqualTP, 2, true
		}
		return GreaterTP, 1, true
	case '+':
		if next == '=' {
			return AddAssignTP, 2, true
		}
		return AddTP, 1, true
	case '-':
		if next == '=' {
			return SubAssignTP, 2, true
		}
		return MinusTP, 1, true
	case '*':
		if next == '=' {
			return MulAssignTP, 2, true
		}
		return MultiplyTP, 1, true
	case '/':
		if next == '=' {
			return DivAssignTP, 2, true
		}
		return DivideTP, 1, true
	case '%':
		if next == '=' {
			return ModAssignTP, 2, true
		}
		return ModTP, 1, true
	}
	if tp, isSymbol := simpleSymbolTokenTPMap[r]; isSymbol {
		return tp, 1, true
	}
	return 0, 0, false
}

// scanUnrecognized handles text where no vocabulary entry matches. The run
// extends to the next position where scanning could resume; it can never
// contain whitespace, because whitespace always matches. Tolerant mode emits
// one ErrorTP token for the whole run and keeps going.
func (tokenizer *Tokenizer) scanUnrecognized() error {
	line, column := tokenizer.currentLine, tokenizer.column()
	startPos := tokenizer.currentPos
	for tokenizer.hasRemainCharacters() && !tokenizer.matchableHere() {
		tokenizer.currentPos++
	}
	if !tokenizer.tolerant {
		return &LexicalError{Line: line, Column: column, Excerpt: tokenizer.excerptFrom(startPos)}
	}
	tokenizer.emit(ErrorTP, string(tokenizer.src[startPos:tokenizer.currentPos]), "", line, column)
	return nil
}

// matchableHere reports whether some token, comment or whitespace can start
// at the current position. Mirrors the dispatch in scanNext.
func (tokenizer *Tokenizer) matchableHere() bool {
	r := tokenizer.peek()
	switch {
	case r == '\n' || util.IsInlineSpace(r):
		return true
	case util.IsDigit(r) || util.IsIdentStart(r):
		return true
	case r == '"':
		return tokenizer.hasStringClose()
	}
	_, _, ok := tokenizer.matchOperatorOrSymbol()
	return ok
}

// excerptFrom takes up to 20 runes of source starting at pos, escaping line
// breaks, for error reporting.
func (tokenizer *Tokenizer) excerptFrom(pos int) string {
	end := pos + 20
	if end > len(tokenizer.src) {
		end = len(tokenizer.src)
	}
	return strings.ReplaceAll(string(tokenizer.src[pos:end]), "\n", `\n`)
}
