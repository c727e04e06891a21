package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"crvicio/compiler"
)

const (
	promptMain = "==> "
	promptCont = "... "
)

// replMode selects what the loop prints for each submitted snippet.
type replMode string

const (
	modeCheck  replMode = "check"
	modeTokens replMode = "tokens"
	modeAst    replMode = "ast"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive token, tree and diagnostic explorer",
	Long: `repl reads snippets interactively and shows what the front end makes
of them. Nothing is executed; the active mode decides whether tokens, the
syntax tree or the verifier diagnostics are printed.

REPL commands:
  :check, :tokens, :ast   switch mode
  :mode                   show the active mode
  :quit                   exit`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	fmt.Printf("crvicio %s repl. Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, cfg.HistoryFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	mode := modeCheck
	for {
		code, ok := readSnippet(ln)
		if !ok {
			fmt.Println()
			return nil
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return nil
			case ":check":
				mode = modeCheck
			case ":tokens":
				mode = modeTokens
			case ":ast":
				mode = modeAst
			case ":mode":
				fmt.Println(renderMuted("mode: " + string(mode)))
			default:
				fmt.Println("unknown command. Commands: :check :tokens :ast :mode :quit")
			}
			continue
		}
		evalSnippet(code, mode)
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readSnippet accumulates lines until the snippet parses, or fails with an
// error that is not an unexpected end of input. Braces opened on one line
// keep the continuation prompt going.
func readSnippet(ln *liner.State) (string, bool) {
	var builder strings.Builder
	for {
		prompt := promptMain
		if builder.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", true
		}
		if builder.Len() > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(line)

		src := builder.String()
		if !snippetIncomplete(src) {
			return src, true
		}
	}
}

// snippetIncomplete probes the parser: a syntax error at the end of input
// means the snippet can still be completed on the next line.
func snippetIncomplete(src string) bool {
	tokens, err := compiler.NewTokenizer().Tolerant(true).Tokenize(src)
	if err != nil {
		return false
	}
	_, err = new(compiler.Parser).Parse(tokens)
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "end of input")
}

func evalSnippet(code string, mode replMode) {
	tokens, err := compiler.NewTokenizer().Tolerant(true).Tokenize(code)
	if err != nil {
		fmt.Println(renderError(err.Error()))
		return
	}
	if mode == modeTokens {
		fmt.Println(compiler.TokenTable(dropSnippetNewlines(tokens)))
		return
	}
	program, err := new(compiler.Parser).Parse(tokens)
	if err != nil {
		fmt.Println(renderError(err.Error()))
		return
	}
	if mode == modeAst {
		fmt.Println(compiler.DumpTree(program))
		return
	}
	diagnostics := compiler.Verify(program)
	if len(diagnostics) == 0 {
		fmt.Println(renderOK("ok"))
		return
	}
	for _, diagnostic := range diagnostics {
		fmt.Printf("  - %s\n", renderError(diagnostic))
	}
}

func dropSnippetNewlines(tokens []*compiler.Token) []*compiler.Token {
	kept := make([]*compiler.Token, 0, len(tokens))
	for _, token := range tokens {
		if token.Type == compiler.NewlineTP {
			continue
		}
		kept = append(kept, token)
	}
	return kept
}
