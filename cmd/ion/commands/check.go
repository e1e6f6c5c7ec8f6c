package commands

import (
	"fmt"

	"github.com/panyam/ion/loader"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.io|dir>...",
	Short: "Parse scripts without evaluating them",
	Long: `Parses every given file, and every .io file directly inside each given
directory, reporting syntax errors. Nothing is evaluated. At most
--max-errors diagnostics are printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l := loader.NewLoader(loader.NewLocalFS(""))
		l.MaxErrors = cfg.MaxErrors
		sources, errs := l.Check(args...)
		for _, src := range sources {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d statements)\n", okLabel("ok"), src.Path, len(src.Program.Body))
		}
		if !errs.HasErrors() {
			return nil
		}
		for _, err := range errs.Errors {
			if d, ok := err.(*loader.Diagnostic); ok && d.HasPos {
				printLoadError(cmd, l, d.Path, err)
			} else {
				printError(cmd.ErrOrStderr(), err)
			}
		}
		if n := errs.Dropped(); n > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", dimLabel(fmt.Sprintf("... and %d more errors", n)))
		}
		return errReported
	},
}

func init() {
	AddCommand(checkCmd)
}
