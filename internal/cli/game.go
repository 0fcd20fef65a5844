package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameFlipCmd())
	cmd.AddCommand(newGameClaimCmd())
	cmd.AddCommand(newGameSubmitCmd())
	cmd.AddCommand(newGameEndCmd())
	cmd.AddCommand(newGameReplayCmd())
	cmd.AddCommand(newPreStealCmd())

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <room-code>",
		Short: "Start a new game in the room (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/start", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameFlipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flip <game-id>",
		Short: "Flip the next tile (your turn only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/flip", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <game-id>",
		Short: "Request an exclusive claim window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ClaimWindow

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/claim", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <game-id> <word>",
		Short: "Submit a word inside your claim window",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			word := strings.ToLower(args[1])

			req := map[string]string{"word": word}
			var result ClaimEvent

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/claim/submit", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <room-code>",
		Short: "End the current game (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/end", args[0]), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game ended")
			return nil
		},
	}
}

func newGameReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <game-id>",
		Short: "Fetch the replay of a finished game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Replay

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/replay", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPreStealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presteal",
		Short: "Pre-steal management commands",
	}

	cmd.AddCommand(newPreStealAddCmd())
	cmd.AddCommand(newPreStealRemoveCmd())
	cmd.AddCommand(newPreStealReorderCmd())

	return cmd
}

func newPreStealAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <game-id> <trigger-letters> <word>",
		Short: "Register a pre-steal entry",
		Long: `Register a pre-steal: when tiles matching the trigger letters are
revealed, the word is claimed automatically on your behalf before any
manual claim window can open.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"trigger_letters": strings.ToUpper(args[1]),
				"claim_word":      strings.ToLower(args[2]),
			}
			var result PreStealEntry

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/presteals", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPreStealRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <game-id> <entry-id>",
		Short: "Remove a pre-steal entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/games/%s/presteals/%s", args[0], args[1])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Pre-steal removed")
			return nil
		},
	}
}

func newPreStealReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <game-id> <entry-id> <index>",
		Short: "Move a pre-steal entry to a new position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid index: %w", err)
			}

			req := map[string]int{"to_index": index}

			if err := client.Patch(fmt.Sprintf("/api/v1/games/%s/presteals/%s", args[0], args[1]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Pre-steal moved to position %d", index))
			return nil
		},
	}
}
