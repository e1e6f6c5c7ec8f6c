package commands

import (
	"github.com/panyam/ion/decl"
	"github.com/panyam/ion/loader"
	"github.com/spf13/cobra"
)

var astCmd = &cobra.Command{
	Use:   "ast <file.io>",
	Short: "Parse a script and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l := loader.NewLoader(loader.NewLocalFS(""))
		src, err := l.Load(args[0])
		if err != nil {
			printLoadError(cmd, l, args[0], err)
			return errReported
		}
		decl.PPrint(cmd.OutOrStdout(), src.Program)
		return nil
	},
}

func init() {
	AddCommand(astCmd)
}
