package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	cfg    Config
	logger *Logger
	runID  string
)

var rootCmd = &cobra.Command{
	Use:   "crvicio",
	Short: "Compiler for the C-rvicio Militar language",
	Long: `crvicio compiles C-rvicio Militar source: it tokenizes, parses and
verifies programs, and generates runnable Python from them.

Commands:
  check    tokenize, parse and verify a source file
  tokens   show the token stream
  ast      show the syntax tree
  build    generate Python
  repl     interactive explorer`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cfgFile)
		if err != nil {
			return err
		}
		level := LevelWarn
		if verbose {
			level = LevelDebug
		}
		logger = NewLogger(level, os.Stderr)
		runID = uuid.New().String()
		colorEnabled = cfg.Color && !noColor && stdoutIsTTY()
		logger.Debugf("run %s started (tolerant=%v, color=%v)", runID, cfg.Tolerant, colorEnabled)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./crvicio.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log phase details to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable styled output")
}

func stdoutIsTTY() bool {
	stat, err := os.Stdout.Stat()
	return err == nil && (stat.Mode()&os.ModeCharDevice) != 0
}

// sourceArg returns the positional source argument, defaulting to stdin.
func sourceArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

// readSource loads the source text from a path, or from stdin for "-".
func readSource(arg string) (name, src string, err error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "<stdin>", "", fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return arg, "", err
	}
	return arg, string(data), nil
}

// reportFailure prints the caret snippet for a positioned tokenize or parse
// error. The error itself is printed by cobra after RunE returns it.
func reportFailure(err error, src string) {
	if block := renderFailure(err, src); block != "" {
		fmt.Fprintln(os.Stderr, block)
	}
}
