package cmd

import (
	"github.com/spf13/cobra"

	"github.com/elarca/resetweb/internal/flow"
)

func RequestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "request <email>",
		Short: "Ask the backend to email a reset link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c := setup()

			state, err := flow.NewRequestResetFlow(c).Submit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), state)
		},
	}
}
