package compiler

import "fmt"

// LexicalError reports text the tokenizer could not match against the token
// vocabulary. Excerpt holds up to 20 runes of source starting at the bad
// position, with newlines escaped, so callers can show it inline.
type LexicalError struct {
	Line    int
	Column  int
	Excerpt string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at line %d, column %d: unrecognized text %q", e.Line, e.Column, e.Excerpt)
}

// SyntaxError is the first grammar violation found by the parser. Parsing
// stops at the first one; there is no recovery.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("syntax error: %s", e.Message)
	}
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}
