package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdholdren/postboard/internal/feed"
	"github.com/jdholdren/postboard/internal/postboard"
)

// NewFeedCommand creates the feed command, which scrolls the feed the way the
// app does and prints what it sees.
func NewFeedCommand(rootOpts *RootOptions) *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print the newest posts, page by page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := setup(cmd, rootOpts)
			if err != nil {
				return err
			}

			dbx, repo, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer dbx.Close()

			reader := feed.NewReader(feed.NewPager(repo), repo, nil)
			if !reader.LoadFirst(ctx) {
				return fmt.Errorf("could not load the feed")
			}
			for i := 1; i < pages; i++ {
				if !reader.LoadMore(ctx) {
					break
				}
			}

			st := reader.State()
			printPosts(cmd.OutOrStdout(), st.Posts)
			if st.HasMore {
				fmt.Fprintln(cmd.OutOrStdout(), "... more available")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")

	return cmd
}

func printPosts(w io.Writer, posts []postboard.FeedPost) {
	for _, p := range posts {
		author := "unknown"
		if p.AuthorUsername != nil {
			author = *p.AuthorUsername
		}
		fmt.Fprintf(w, "%s  %-25s  @%s\n", p.CreatedAt.Format(time.RFC3339), p.Title, author)
	}
}
