package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"crvicio/compiler"
)

var (
	astPreorder bool
	astJSON     bool
	astTolerant bool
)

var astCmd = &cobra.Command{
	Use:   "ast [file]",
	Short: "Show the syntax tree of a source file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAst,
}

func init() {
	rootCmd.AddCommand(astCmd)
	astCmd.Flags().BoolVar(&astPreorder, "preorder", false, "one line per node: <Type, content, attrs>")
	astCmd.Flags().BoolVar(&astJSON, "json", false, "print the tree as JSON")
	astCmd.Flags().BoolVar(&astTolerant, "tolerant", false, "emit ERROR tokens instead of stopping at the first bad character")
}

func runAst(cmd *cobra.Command, args []string) error {
	name, src, err := readSource(sourceArg(args))
	if err != nil {
		return err
	}
	start := time.Now()
	tokens, err := compiler.NewTokenizer().
		Tolerant(astTolerant || cfg.Tolerant).
		Tokenize(src)
	if err != nil {
		reportFailure(err, src)
		return err
	}
	program, err := new(compiler.Parser).Parse(tokens)
	if err != nil {
		reportFailure(err, src)
		return err
	}
	logger.Debugf("run %s: %s parsed in %s", runID, name, time.Since(start).Round(time.Microsecond))

	switch {
	case astJSON:
		encoded, err := compiler.DumpJSON(program)
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
	case astPreorder:
		fmt.Println(compiler.DumpPreorder(program))
	default:
		fmt.Println(compiler.DumpTree(program))
	}
	return nil
}
