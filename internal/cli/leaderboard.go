package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newHighScoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "highscores [mode]",
		Short:     "Show a mode's leaderboard",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"classic", "invisible", "challenge"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := "classic"
			if len(args) == 1 {
				mode = args[0]
			}

			var result HighScores

			if err := client.Get("/api/v1/highscores/"+url.PathEscape(mode), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newChallengesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenges",
		Short: "List challenge levels and which are unlocked",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ChallengeList

			if err := client.Get("/api/v1/challenges", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
