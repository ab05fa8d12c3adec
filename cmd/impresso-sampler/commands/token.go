package commands

import (
	"fmt"
	"log/slog"

	"impresso-sampler/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tokenCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Acquires a token through the configured provider and prints it.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		provider, cleanup, err := providerFromConfig(cfg)
		if err != nil {
			serviceutil.Fatal("failed to configure session provider", err)
		}
		defer cleanup()

		token, err := provider.Acquire(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to acquire token", err)
		}

		slog.Info("token acquired", "chars", len(token))
		fmt.Println(token)
	},
}
