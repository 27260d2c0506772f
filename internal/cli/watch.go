package cli

import (
	"errors"
	"fmt"
	"net"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream room events until interrupted",
		Long: `watch connects (resuming with --session if given, so the server
replays you back into your room) and prints every event the server
sends as a JSON line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := connect()
			if err != nil {
				return err
			}
			defer conn.Close()
			fmt.Printf("session: %s\n", conn.SessionID)

			for {
				env, err := conn.Next(0)
				if err != nil {
					var netErr net.Error
					if errors.As(err, &netErr) {
						return nil
					}
					return err
				}
				printEnvelope(env)
			}
		},
	}
}
