package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPostCmd(flags *rootFlags) *cobra.Command {
	var (
		summarize bool
		prompt    string
	)

	cmd := &cobra.Command{
		Use:   "post <id>",
		Short: "Show a single post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			p, err := a.client.GetPost(ctx, args[0])
			if err != nil {
				return fmt.Errorf("fetching post %s: %w", args[0], err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n", p.Title)
			fmt.Fprintf(w, "by %s in %s, %d likes\n\n", p.Author.Username, p.Category, p.LikeCount())
			fmt.Fprintln(w, p.Content)

			if !summarize {
				return nil
			}
			summary, err := a.client.Summarize(ctx, prompt, p.Content)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "\nSummary:\n%s\n", summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&summarize, "summarize", false, "ask the AI helper for a summary (requires a session)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "instruction for --summarize")
	return cmd
}
