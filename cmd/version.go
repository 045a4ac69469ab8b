package cmd

import (
	"fmt"

	"github.com/Layr-Labs/stake-vault/internal/version"
	"github.com/spf13/cobra"
)

var runVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version of stake-vault",
	Run: func(cmd *cobra.Command, args []string) {
		bindCommandFlags(cmd)

		fmt.Fprintf(cmd.OutOrStdout(), "StakeVaultVersion: %s\nCommit: %s\n", version.GetVersion(), version.GetCommit())
	},
}
