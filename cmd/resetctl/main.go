package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/elarca/resetweb/cmd/resetctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "resetctl",
		Short:        "Drive the password reset API from the terminal",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.RequestCmd())
	rootCmd.AddCommand(cmd.VerifyCmd())
	rootCmd.AddCommand(cmd.UpdateCmd())
	rootCmd.AddCommand(cmd.ProxyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
