package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imposteur-game/lobby-server/internal/model"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a room and print its code",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := connect()
			if err != nil {
				return err
			}
			defer conn.Close()
			fmt.Printf("session: %s\n", conn.SessionID)

			if err := conn.Send(model.EventCreateRoom, map[string]string{"displayName": username}); err != nil {
				return err
			}

			env, err := conn.WaitFor(defaultWait, model.EventCreateRoomSuccess, model.EventJoinRoomFailed)
			if err != nil {
				return err
			}
			printEnvelope(env)
			return nil
		},
	}
}

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join CODE",
		Short: "Join a room by code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := connect()
			if err != nil {
				return err
			}
			defer conn.Close()
			fmt.Printf("session: %s\n", conn.SessionID)

			payload := map[string]string{"displayName": username, "roomCode": args[0]}
			if err := conn.Send(model.EventJoinRoom, payload); err != nil {
				return err
			}

			env, err := conn.WaitFor(defaultWait, model.EventUpdateRoom, model.EventJoinRoomFailed)
			if err != nil {
				return err
			}
			printEnvelope(env)
			return nil
		},
	}
}

func newLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the current room (requires --session)",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := connect()
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.Send(model.EventLeaveRoom, nil); err != nil {
				return err
			}

			env, err := conn.WaitFor(defaultWait, model.EventLeaveRoom)
			if err != nil {
				return err
			}
			printEnvelope(env)
			return nil
		},
	}
}

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game in the current room (owner only, requires --session)",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := connect()
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.Send(model.EventStartGame, nil); err != nil {
				return err
			}

			env, err := conn.WaitFor(defaultWait, model.EventStartGame, model.EventStartGameFailed)
			if err != nil {
				return err
			}
			printEnvelope(env)
			return nil
		},
	}
}
