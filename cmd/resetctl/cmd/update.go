package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elarca/resetweb/internal/flow"
)

func UpdateCmd() *cobra.Command {
	var token, password string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Verify a token and set a new password",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, c := setup()

			f := flow.NewResetPasswordFlow(c, cfg.PasswordMinLength, cfg.AppScheme)
			state, err := f.SetToken(cmd.Context(), token)
			if err != nil {
				return err
			}
			if !f.CanSubmit() {
				return printState(cmd.OutOrStdout(), state)
			}

			state, err = f.Submit(cmd.Context(), password, password)
			if err != nil {
				return err
			}
			if link := f.DeepLink(); link != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "open the app:", link)
			}
			return printState(cmd.OutOrStdout(), state)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "reset token from the email link")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
