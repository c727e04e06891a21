package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"crvicio/compiler"
)

// colorEnabled is resolved once per run from the config, the --no-color flag
// and whether stdout is a terminal.
var colorEnabled = true

var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleHeading = lipgloss.NewStyle().Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func renderError(s string) string   { return render(styleError, s) }
func renderWarning(s string) string { return render(styleWarning, s) }
func renderHeading(s string) string { return render(styleHeading, s) }
func renderMuted(s string) string   { return render(styleMuted, s) }
func renderOK(s string) string      { return render(styleOK, s) }

func render(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}

// failurePosition pulls the 1-based source position out of a tokenize or
// parse failure, unwrapping the phase prefix the pipeline adds.
func failurePosition(err error) (line, column int, ok bool) {
	var lexical *compiler.LexicalError
	if errors.As(err, &lexical) {
		return lexical.Line, lexical.Column, true
	}
	var syntax *compiler.SyntaxError
	if errors.As(err, &syntax) {
		return syntax.Line, syntax.Column, syntax.Line > 0
	}
	return 0, 0, false
}

// sourceSnippet renders the offending line with up to two predecessors,
// numbered, and a caret under the 1-based column. Out-of-range positions
// are clamped so a stale error cannot crash rendering.
func sourceSnippet(src string, line, column int) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if column < 1 {
		column = 1
	}

	var builder strings.Builder
	for n := line - 2; n < line; n++ {
		if n < 1 {
			continue
		}
		fmt.Fprintf(&builder, "%4d | %s\n", n, lines[n-1])
	}
	fmt.Fprintf(&builder, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&builder, "     | %s%s", strings.Repeat(" ", column-1), renderError("^"))
	return builder.String()
}

// renderFailure is the context block printed before cobra reports the error
// itself. It is empty when the error carries no position.
func renderFailure(err error, src string) string {
	line, column, ok := failurePosition(err)
	if !ok {
		return ""
	}
	return sourceSnippet(src, line, column)
}
