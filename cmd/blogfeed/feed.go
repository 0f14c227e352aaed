package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/blogfeed/pkg/feed"
)

func newFeedCmd(flags *rootFlags) *cobra.Command {
	var more int

	cmd := &cobra.Command{
		Use:   "feed [token]",
		Short: "Print a feed",
		Long: `Print the feed for a category or search token; without a token the home feed.

--more loads that many further pages after the first one, stopping early once
the feed has no more posts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if more < 0 {
				return fmt.Errorf("--more must be >= 0 (got %d)", more)
			}
			token := ""
			if len(args) == 1 {
				token = args[0]
			}

			a, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireViewer(); err != nil {
				return err
			}

			loadFeed(a.feed, token, more)
			renderView(cmd.OutOrStdout(), a.feed.View(token))
			return nil
		},
	}

	cmd.Flags().IntVar(&more, "more", 0, "number of additional pages to load")
	return cmd
}

// loadFeed refreshes token and then pages forward up to more times.
func loadFeed(ctrl *feed.Controller, token string, more int) {
	ctrl.EnsureFresh(token)
	ctrl.Wait()
	for i := 0; i < more && ctrl.LoadMore(token); i++ {
		ctrl.Wait()
	}
}

func renderView(w io.Writer, v feed.View) {
	fmt.Fprintf(w, "Feed: %s\n\n", v.Key)

	if v.ShowEmpty() {
		fmt.Fprintln(w, "No posts found. Try a different search or category.")
	}
	for i, p := range v.Posts {
		fmt.Fprintf(w, "%3d. %s\n", i+1, p.Title)
		meta := []string{}
		if p.Author.Username != "" {
			meta = append(meta, "by "+p.Author.Username)
		}
		if p.Category != "" {
			meta = append(meta, "in "+p.Category)
		}
		meta = append(meta, fmt.Sprintf("%d likes", p.LikeCount()))
		fmt.Fprintf(w, "     %s [%s]\n", strings.Join(meta, ", "), p.ID)
	}

	switch v.Footer() {
	case feed.FooterSkeleton:
		fmt.Fprintln(w, "\nLoading...")
	case feed.FooterLoadMore:
		fmt.Fprintln(w, "\nMore posts available (use --more).")
	case feed.FooterEnd:
		fmt.Fprintln(w, "\nYou've reached the end of our current posts.")
	}
}
