package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	sessionID string
	username  string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lobbyctl",
		Short: "CLI client for the lobby server",
		Long: `lobbyctl speaks the lobby server's websocket protocol: it can
create and join rooms, start games, and watch room events live.

Pass --session to resume a previous identity; the session id is
printed on every connect.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("LOBBYCTL_SERVER", "ws://localhost:3000"), "Server URL (env: LOBBYCTL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", os.Getenv("LOBBYCTL_SESSION"), "Session id to resume (env: LOBBYCTL_SESSION)")
	rootCmd.PersistentFlags().StringVarP(&username, "name", "n", "", "Display name for a fresh identity")

	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newJoinCmd())
	rootCmd.AddCommand(newLeaveCmd())
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func connect() (*Conn, error) {
	return NewClient(serverURL, sessionID, username).Connect()
}
