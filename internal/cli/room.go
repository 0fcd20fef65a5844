package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomListCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomConfigCmd())
	cmd.AddCommand(newRoomTransferHostCmd())

	return cmd
}

// configFlags holds the optional room config flags shared by create and config.
// Pointers distinguish "flag not given" from a zero value.
type configFlags struct {
	maxPlayers   int
	public       bool
	flipTimer    bool
	flipSeconds  int
	claimSeconds int
	preSteals    bool
}

func addConfigFlags(cmd *cobra.Command, f *configFlags) {
	cmd.Flags().IntVar(&f.maxPlayers, "max-players", 0, "Maximum players (2-8)")
	cmd.Flags().BoolVar(&f.public, "public", false, "List the room publicly")
	cmd.Flags().BoolVar(&f.flipTimer, "flip-timer", false, "Enable the automatic flip timer")
	cmd.Flags().IntVar(&f.flipSeconds, "flip-seconds", 0, "Flip timer duration in seconds")
	cmd.Flags().IntVar(&f.claimSeconds, "claim-seconds", 0, "Claim window duration in seconds")
	cmd.Flags().BoolVar(&f.preSteals, "pre-steals", false, "Enable pre-steal registration")
}

// configRequest builds a request body containing only the flags the user set
func configRequest(cmd *cobra.Command, f *configFlags) map[string]any {
	req := map[string]any{}
	if cmd.Flags().Changed("max-players") {
		req["max_players"] = f.maxPlayers
	}
	if cmd.Flags().Changed("public") {
		req["is_public"] = f.public
	}
	if cmd.Flags().Changed("flip-timer") {
		req["flip_timer_enabled"] = f.flipTimer
	}
	if cmd.Flags().Changed("flip-seconds") {
		req["flip_timer_seconds"] = f.flipSeconds
	}
	if cmd.Flags().Changed("claim-seconds") {
		req["claim_timer_seconds"] = f.claimSeconds
	}
	if cmd.Flags().Changed("pre-steals") {
		req["pre_steal_enabled"] = f.preSteals
	}
	return req
}

func newRoomCreateCmd() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req map[string]any
			if cfgReq := configRequest(cmd, &flags); len(cfgReq) > 0 {
				req = map[string]any{"config": cfgReq}
			}

			var result Room

			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	addConfigFlags(cmd, &flags)

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List public rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []RoomSummary

			if err := client.Get("/api/v1/rooms", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/join", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/leave", code), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left room %s", code))
			return nil
		},
	}
}

func newRoomConfigCmd() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "config <code>",
		Short: "Update room configuration (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgReq := configRequest(cmd, &flags)
			if len(cfgReq) == 0 {
				return fmt.Errorf("at least one config flag is required")
			}

			req := map[string]any{"config": cfgReq}
			var result RoomConfig

			if err := client.Patch(fmt.Sprintf("/api/v1/rooms/%s/config", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	addConfigFlags(cmd, &flags)

	return cmd
}

func newRoomTransferHostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer-host <code> <player-id>",
		Short: "Transfer room host to another member (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"new_host_id": args[1]}

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/transfer-host", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Host transferred to %s", args[1]))
			return nil
		},
	}
}
