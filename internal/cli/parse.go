package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taurusgroup/sigmaproofs/pkg/sigma"
)

var parseCmd = &cobra.Command{
	Use:   "parse EXPRESSION",
	Short: "Print the normalized form of a protocol expression",
	Long: `Parse builds the protocol tree of an expression and prints it back.
THRESHOLD nodes with k = 1 or k = n are printed as OR or AND.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := sigma.Parse(args[0], nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.String())
		return nil
	},
}
