package cmds

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	username  string
	password  string
)

var rootCmd = &cobra.Command{
	Use:           "adctl",
	Short:         "Operator control for the adCTF game server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&serverURL, "url", envOr("ADCTF_URL", "http://localhost:1323"), "Base URL of the game server")
	rootCmd.PersistentFlags().
		StringVar(&username, "username", os.Getenv("ADCTF_OPERATOR_USERNAME"), "Operator username")
	rootCmd.PersistentFlags().
		StringVar(&password, "password", os.Getenv("ADCTF_OPERATOR_PASSWORD"), "Operator password")

	rootCmd.AddCommand(startCmd, stopCmd, scoreboardCmd, refreshCmd, statusCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
