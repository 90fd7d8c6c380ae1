package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "familysafe",
		Short: "A shared family safe with member-gated withdrawals.",
		Long: `familysafe runs a custodial safe shared by a family.

Anyone may deposit. Only registered family members may withdraw or add
new members. Configuration is read from FAMILYSAFE_* environment variables.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCmd(), newTokenCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
