package compiler

import "fmt"

// Compiler drives the full pipeline: tokenize, parse, verify, generate.
// Phases run in order and stop at the first lexical or syntax error.
// Semantic diagnostics never stop the pipeline; callers decide whether a
// non-empty Diagnostics slice fails the run.
type Compiler struct {
	// Tolerant makes the tokenizer produce ERROR tokens instead of
	// failing on the first invalid character.
	Tolerant bool
	// RetainNewlines keeps NEWLINE tokens in Result.Tokens. The parser
	// always receives newlines regardless.
	RetainNewlines bool
	// SkipVerify leaves Result.Diagnostics empty and generates code
	// straight from the parse tree.
	SkipVerify bool
}

// Result carries the artifacts of one CompileSource run. Later fields are
// zero when an earlier phase failed.
type Result struct {
	Tokens      []*Token
	Program     *Program
	Diagnostics []string
	Python      string
}

// CompileSource runs the whole pipeline over src and returns every
// artifact. The returned error is a tokenize or parse failure wrapped with
// its phase name; semantic diagnostics are reported through the Result.
func (compiler *Compiler) CompileSource(src string) (*Result, error) {
	result := &Result{}
	tokens, err := NewTokenizer().Tolerant(compiler.Tolerant).Tokenize(src)
	if err != nil {
		return result, fmt.Errorf("tokenize: %w", err)
	}
	if compiler.RetainNewlines {
		result.Tokens = tokens
	} else {
		result.Tokens = dropNewlines(tokens)
	}
	program, err := new(Parser).Parse(tokens)
	if err != nil {
		return result, fmt.Errorf("parse: %w", err)
	}
	result.Program = program
	if !compiler.SkipVerify {
		result.Diagnostics = Verify(program)
	}
	python, err := NewCodeGenerator().Generate(program)
	if err != nil {
		return result, fmt.Errorf("generate: %w", err)
	}
	result.Python = python
	return result, nil
}

func dropNewlines(tokens []*Token) []*Token {
	kept := make([]*Token, 0, len(tokens))
	for _, token := range tokens {
		if token.Type == NewlineTP {
			continue
		}
		kept = append(kept, token)
	}
	return kept
}
