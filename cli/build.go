package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"crvicio/compiler"
)

var (
	buildOutput   string
	buildNoVerify bool
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Generate Python from a source file",
	Long: `build compiles a source file to Python 3. Generation is refused when
the verifier reports problems, unless --no-verify is given. Source read
from stdin writes the Python to stdout unless -o names a file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output path (default: source name with .py)")
	buildCmd.Flags().BoolVar(&buildNoVerify, "no-verify", false, "generate even when verification fails")
}

func runBuild(cmd *cobra.Command, args []string) error {
	arg := sourceArg(args)
	name, src, err := readSource(arg)
	if err != nil {
		return err
	}
	comp := &compiler.Compiler{
		Tolerant:   cfg.Tolerant,
		SkipVerify: buildNoVerify,
	}
	start := time.Now()
	result, err := comp.CompileSource(src)
	if err != nil {
		reportFailure(err, src)
		return err
	}
	logger.Debugf("run %s: built %s in %s", runID, name, time.Since(start).Round(time.Microsecond))

	if buildNoVerify {
		fmt.Fprintln(os.Stderr, renderWarning("warning: verification skipped"))
	}
	if !buildNoVerify && len(result.Diagnostics) > 0 {
		fmt.Fprintln(os.Stderr, renderHeading(name))
		for _, diagnostic := range result.Diagnostics {
			fmt.Fprintf(os.Stderr, "  - %s\n", renderError(diagnostic))
		}
		return fmt.Errorf("refusing to generate: %d problem(s) in %s", len(result.Diagnostics), name)
	}

	target := buildOutput
	outputDir := ""
	if target == "" {
		if arg == "-" {
			fmt.Print(result.Python)
			return nil
		}
		target = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)) + ".py"
		outputDir = cfg.OutputDir
	}
	out, err := writeOutput(outputDir, target, result.Python)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", renderOK(out))
	return nil
}

// writeOutput writes the generated Python to target inside dir, creating
// dir on demand. An empty dir leaves target untouched as the full path.
func writeOutput(dir, target, python string) (string, error) {
	out := target
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("output dir %s: %w", dir, err)
		}
		out = filepath.Join(dir, target)
	}
	if err := os.WriteFile(out, []byte(python), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, nil
}
