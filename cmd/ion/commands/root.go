package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/panyam/ion/config"
	"github.com/panyam/ion/loader"
	"github.com/spf13/cobra"
)

var (
	configFile string
	envFile    string
	noColor    bool

	// cfg is loaded before any subcommand runs.
	cfg = config.Defaults()
)

// errReported marks a failure whose diagnostics were already printed.
var errReported = errors.New("failed")

var rootCmd = &cobra.Command{
	Use:   "ion",
	Short: "ion is an interpreter for a small structurally typed scripting language",
	Long: `ion evaluates .io scripts: variables declared with structural type flags,
named object/array schemas checked on every declaration and assignment,
reference (alias) semantics for bare names, and a handful of native functions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		loaded, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: envFile})
		if err != nil {
			return err
		}
		if err := loaded.ApplyFlags(cmd.Flags()); err != nil {
			return err
		}
		if err := loaded.ApplyLogLevel(); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			printError(rootCmd.ErrOrStderr(), err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to the config file (default ./"+config.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a dotenv file (default ./"+config.DefaultEnvFile+" if present)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	config.RegisterFlags(rootCmd.PersistentFlags())
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

var (
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	okLabel    = color.New(color.FgGreen).SprintFunc()
	pathLabel  = color.New(color.Bold).SprintFunc()
	dimLabel   = color.New(color.Faint).SprintFunc()
)

// printError writes err as a diagnostic. Errors with a position also get
// the offending source line and a caret when source is given.
func printError(w io.Writer, err error, source ...string) {
	var d *loader.Diagnostic
	if !errors.As(err, &d) {
		fmt.Fprintf(w, "%s %v\n", errorLabel("error:"), err)
		return
	}
	if !d.HasPos {
		fmt.Fprintf(w, "%s %s: %v\n", errorLabel("error:"), pathLabel(d.Path), d.Err)
		return
	}
	fmt.Fprintf(w, "%s %s:%s: %v\n", errorLabel("error:"), pathLabel(d.Path), d.Pos.LineColStr(), d.Err)
	if len(source) > 0 {
		if line, ok := sourceLine(source[0], d.Pos.Line); ok {
			fmt.Fprintf(w, "  %s\n  %*s%s\n", line, max(d.Pos.Col-1, 0), "", errorLabel("^"))
		}
	}
}

func sourceLine(text string, n int) (string, bool) {
	line := 1
	start := 0
	for i, r := range text {
		if r != '\n' {
			continue
		}
		if line == n {
			return text[start:i], true
		}
		line++
		start = i + 1
	}
	if line == n && start <= len(text) {
		return text[start:], true
	}
	return "", false
}
