package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/panyam/ion/loader"
	"github.com/panyam/ion/parser"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file.io>",
	Short: "Print the token stream of a script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := loader.NewLocalFS("").ReadFile(path)
		if err != nil {
			return err
		}
		tokens, err := parser.Tokenize(string(data))
		if err != nil {
			printError(cmd.ErrOrStderr(), loader.NewDiagnostic(path, err), string(data))
			return errReported
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, tok := range tokens {
			fmt.Fprintf(tw, "%s\t%s\t%q\n", tok.Start.LineColStr(), tok.Type, tok.Text)
		}
		return tw.Flush()
	},
}

func init() {
	AddCommand(tokensCmd)
}
