package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"crvicio/compiler"
)

var (
	tokensJSON     bool
	tokensNewlines bool
	tokensTolerant bool
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Show the token stream of a source file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().BoolVar(&tokensJSON, "json", false, "print tokens as a JSON array")
	tokensCmd.Flags().BoolVar(&tokensNewlines, "newlines", false, "keep NEWLINE tokens in the output")
	tokensCmd.Flags().BoolVar(&tokensTolerant, "tolerant", false, "emit ERROR tokens instead of stopping at the first bad character")
}

func runTokens(cmd *cobra.Command, args []string) error {
	name, src, err := readSource(sourceArg(args))
	if err != nil {
		return err
	}
	start := time.Now()
	tokens, err := compiler.NewTokenizer().
		RetainNewlines(tokensNewlines).
		Tolerant(tokensTolerant || cfg.Tolerant).
		Tokenize(src)
	if err != nil {
		reportFailure(err, src)
		return err
	}
	logger.Debugf("run %s: %s produced %d tokens in %s", runID, name, len(tokens), time.Since(start).Round(time.Microsecond))

	if tokensJSON {
		encoded, err := compiler.TokensJSON(tokens)
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	}
	fmt.Println(compiler.TokenTable(tokens))
	return nil
}
