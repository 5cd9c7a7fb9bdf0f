package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

var commandNames = []string{
	"move-left", "move-right", "soft-drop", "hard-drop", "rotate",
	"tick", "pause", "resume", "clear-done",
}

// Short aliases for interactive use
var commandAliases = map[string]string{
	"l":     "move-left",
	"left":  "move-left",
	"r":     "move-right",
	"right": "move-right",
	"d":     "soft-drop",
	"down":  "soft-drop",
	"drop":  "hard-drop",
	"u":     "rotate",
	"up":    "rotate",
	"p":     "pause",
}

func resolveCommand(name string) (string, error) {
	if alias, ok := commandAliases[name]; ok {
		return alias, nil
	}
	if slices.Contains(commandNames, name) {
		return name, nil
	}
	return "", fmt.Errorf("unknown command %q", name)
}

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <id> <command>...",
		Short: "Send one or more commands to a session",
		Long: `Send player commands to a session in order, printing the board after the last.

Commands: move-left, move-right, soft-drop, hard-drop, rotate, tick, pause,
resume, clear-done. Aliases: l/left, r/right, d/down, drop, u/up, p.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			commands := make([]string, 0, len(args)-1)
			for _, name := range args[1:] {
				c, err := resolveCommand(name)
				if err != nil {
					return err
				}
				commands = append(commands, c)
			}

			var result CommandResult
			for _, c := range commands {
				if err := client.Post(sessionPath(id, "commands", c), nil, &result); err != nil {
					return fmt.Errorf("%s: %w", c, err)
				}
				if cfg.Verbose && !result.Applied {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s had no effect\n", c)
				}
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
