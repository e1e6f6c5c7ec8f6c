package commands

import (
	"bufio"
	"fmt"

	"github.com/panyam/ion/decl"
	"github.com/panyam/ion/loader"
	"github.com/panyam/ion/runtime"
	"github.com/spf13/cobra"
)

var (
	evalSource  string
	printResult bool
)

var runCmd = &cobra.Command{
	Use:   "run [file.io...]",
	Short: "Evaluate one or more scripts",
	Long: `Evaluates each file in order against one shared global scope, so later
files see the bindings of earlier ones. Source can also be passed inline
with -e. Evaluation stops at the first error.`,
	Example: `  ion run examples/points.io
  ion run -e '$x <numeric> <asg> 6 * 7; log(x);'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && evalSource == "" {
			return fmt.Errorf("nothing to run: pass a file or -e <source>")
		}
		host := &runtime.Host{Stdout: cmd.OutOrStdout(), Stdin: bufio.NewReader(cmd.InOrStdin())}
		scope := cfg.NewRootScope(host)
		eval := cfg.NewEvaluator()
		l := loader.NewLoader(loader.NewLocalFS(""))

		var sources []*loader.Source
		for _, path := range args {
			src, err := l.Load(path)
			if err != nil {
				printLoadError(cmd, l, path, err)
				return errReported
			}
			sources = append(sources, src)
		}
		if evalSource != "" {
			src, err := loader.ParseSource("<eval>", evalSource)
			if err != nil {
				printError(cmd.ErrOrStderr(), err, evalSource)
				return errReported
			}
			sources = append(sources, src)
		}

		var last decl.EvalResult
		for _, src := range sources {
			if cfg.ShowTree {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", dimLabel("// "+src.Path))
				decl.PPrint(cmd.ErrOrStderr(), src.Program)
			}
			result, err := loader.Exec(src, scope, eval)
			if err != nil {
				printError(cmd.ErrOrStderr(), err, src.Text)
				return errReported
			}
			last = result
		}
		if printResult && last != nil && !decl.IsStatement(last) {
			shown, err := runtime.Display(last, scope)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), shown)
		}
		return nil
	},
}

// printLoadError prints a load failure with the source line when the file was readable.
func printLoadError(cmd *cobra.Command, l *loader.Loader, path string, err error) {
	data, readErr := l.FS().ReadFile(path)
	if readErr != nil {
		printError(cmd.ErrOrStderr(), err)
		return
	}
	printError(cmd.ErrOrStderr(), err, string(data))
}

func init() {
	runCmd.Flags().StringVarP(&evalSource, "eval", "e", "", "Evaluate the given source after any files")
	runCmd.Flags().BoolVarP(&printResult, "print", "p", false, "Print the value of the last statement")
	AddCommand(runCmd)
}
