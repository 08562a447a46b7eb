// Package feed pages through posts newest first using keyset cursors, and
// holds the client side state of an infinitely scrolling feed.
package feed

import (
	"context"
	"fmt"

	"github.com/jdholdren/postboard/internal/metrics"
	"github.com/jdholdren/postboard/internal/postboard"
)

// PageSize is the number of posts per feed page.
const PageSize = 15

// Source returns posts after an optional cursor in (created_at DESC, id DESC)
// order.
type Source interface {
	FeedPage(ctx context.Context, cursor *postboard.FeedCursor, limit uint64) ([]postboard.FeedPost, error)
}

// Page is one slice of the feed.
type Page struct {
	Posts []postboard.FeedPost `json:"items"`
	// Cursor is the position of the last post, nil when the page is empty.
	Cursor *postboard.FeedCursor `json:"-"`
	// HasMore is a guess: a full page says there may be more. When the last
	// page is exactly full, one extra empty fetch is needed to find the end.
	HasMore bool `json:"has_more"`
}

type Pager struct {
	src Source
}

func NewPager(src Source) Pager {
	return Pager{src: src}
}

// FirstPage returns the newest posts.
func (p Pager) FirstPage(ctx context.Context) (Page, error) {
	page, err := p.fetch(ctx, nil)
	if err != nil {
		return Page{}, fmt.Errorf("error fetching first page: %w", err)
	}
	metrics.FeedPagesServed.WithLabelValues("first").Inc()

	return page, nil
}

// NextPage returns the posts strictly after cursor.
func (p Pager) NextPage(ctx context.Context, cursor postboard.FeedCursor) (Page, error) {
	page, err := p.fetch(ctx, &cursor)
	if err != nil {
		return Page{}, fmt.Errorf("error fetching next page: %w", err)
	}
	metrics.FeedPagesServed.WithLabelValues("next").Inc()

	return page, nil
}

func (p Pager) fetch(ctx context.Context, cursor *postboard.FeedCursor) (Page, error) {
	posts, err := p.src.FeedPage(ctx, cursor, PageSize)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		Posts:   posts,
		HasMore: len(posts) >= PageSize,
	}
	if len(posts) > 0 {
		c := posts[len(posts)-1].Cursor()
		page.Cursor = &c
	}

	return page, nil
}
