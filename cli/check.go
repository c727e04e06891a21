package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"crvicio/compiler"
)

var (
	checkTolerant bool
	checkNoVerify bool
	checkJSON     bool
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Tokenize, parse and verify a source file",
	Long: `check runs the front end over a source file (or stdin for "-") and
reports every semantic problem found. The exit code is 1 when the source
does not tokenize or parse, or when any diagnostic is reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkTolerant, "tolerant", false, "emit ERROR tokens instead of stopping at the first bad character")
	checkCmd.Flags().BoolVar(&checkNoVerify, "no-verify", false, "skip semantic verification")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "machine-readable report")
}

type checkReport struct {
	Source      string   `json:"source"`
	Tokens      int      `json:"tokens"`
	Diagnostics []string `json:"diagnostics"`
	Error       string   `json:"error,omitempty"`
	OK          bool     `json:"ok"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	name, src, err := readSource(sourceArg(args))
	if err != nil {
		return err
	}
	comp := &compiler.Compiler{
		Tolerant:   checkTolerant || cfg.Tolerant,
		SkipVerify: checkNoVerify,
	}
	start := time.Now()
	result, err := comp.CompileSource(src)
	logger.Debugf("run %s: check %s finished in %s", runID, name, time.Since(start).Round(time.Microsecond))

	if checkJSON {
		report := checkReport{
			Source:      name,
			Tokens:      len(result.Tokens),
			Diagnostics: result.Diagnostics,
			OK:          err == nil && len(result.Diagnostics) == 0,
		}
		if report.Diagnostics == nil {
			report.Diagnostics = []string{}
		}
		if err != nil {
			report.Error = err.Error()
		}
		encoded, encodeErr := json.MarshalIndent(report, "", "  ")
		if encodeErr != nil {
			return encodeErr
		}
		fmt.Println(string(encoded))
		if !report.OK {
			return fmt.Errorf("%s does not check", name)
		}
		return nil
	}

	if err != nil {
		reportFailure(err, src)
		return err
	}
	if len(result.Diagnostics) == 0 {
		fmt.Printf("%s %s has no problems (%d tokens)\n", renderOK("ok:"), name, len(result.Tokens))
		return nil
	}
	fmt.Println(renderHeading(name))
	for _, diagnostic := range result.Diagnostics {
		fmt.Printf("  - %s\n", renderError(diagnostic))
	}
	return fmt.Errorf("%d problem(s) found in %s", len(result.Diagnostics), name)
}
