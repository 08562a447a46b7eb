package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jdholdren/postboard/internal/objstore"
	"github.com/jdholdren/postboard/internal/postboard"
)

var errRefreshFailed = errors.New("feed refresh failed")

// SideEffect is the outcome of follow-up work attached to a primary action.
// Its failure is logged and otherwise ignored; the primary action stands.
type SideEffect struct {
	Name string
	Err  error
}

func (s SideEffect) OK() bool {
	return s.Err == nil
}

// State is a snapshot of what the feed currently shows.
type State struct {
	Posts       []postboard.FeedPost
	Cursor      *postboard.FeedCursor
	HasMore     bool
	Loading     bool
	LoadingMore bool
}

// Reader holds the posts of one feed as the user scrolls it. Fetch failures
// keep the last good state: nothing is cleared or partially replaced.
type Reader struct {
	pager   Pager
	creator PostCreator
	images  objstore.Storage

	loading     atomic.Bool
	loadingMore atomic.Bool

	mu      sync.Mutex
	posts   []postboard.FeedPost
	cursor  *postboard.FeedCursor
	hasMore bool
	// gen changes whenever the feed is replaced. A page fetched for an older
	// generation no longer continues the posts shown and is dropped.
	gen uint64
}

func NewReader(pager Pager, creator PostCreator, images objstore.Storage) *Reader {
	return &Reader{
		pager:   pager,
		creator: creator,
		images:  images,
		hasMore: true,
	}
}

// State returns a copy of the current feed.
func (r *Reader) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts := make([]postboard.FeedPost, len(r.posts))
	copy(posts, r.posts)
	return State{
		Posts:       posts,
		Cursor:      r.cursor,
		HasMore:     r.hasMore,
		Loading:     r.loading.Load(),
		LoadingMore: r.loadingMore.Load(),
	}
}

// LoadFirst replaces the feed with its newest page. It reports whether the
// state changed.
func (r *Reader) LoadFirst(ctx context.Context) bool {
	r.loading.Store(true)
	defer r.loading.Store(false)

	page, err := r.pager.FirstPage(ctx)
	if err != nil {
		slog.WarnContext(ctx, "feed refresh failed, keeping current posts", "err", err)
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = page.Posts
	r.cursor = page.Cursor
	r.hasMore = page.HasMore
	r.gen++
	return true
}

// LoadMore appends the next page. The call is dropped, reporting false, when
// another LoadMore is in flight, no page has been loaded yet, or the last page
// came back short. A page that arrives after LoadFirst replaced the feed is
// discarded.
func (r *Reader) LoadMore(ctx context.Context) bool {
	if !r.loadingMore.CompareAndSwap(false, true) {
		return false
	}
	defer r.loadingMore.Store(false)

	r.mu.Lock()
	cursor, hasMore, gen := r.cursor, r.hasMore, r.gen
	r.mu.Unlock()
	if cursor == nil || !hasMore {
		return false
	}

	page, err := r.pager.NextPage(ctx, *cursor)
	if err != nil {
		slog.WarnContext(ctx, "loading more posts failed", "err", err)
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		slog.DebugContext(ctx, "feed refreshed while loading more, dropping page")
		return false
	}
	r.posts = append(r.posts, page.Posts...)
	r.cursor = page.Cursor
	r.hasMore = page.HasMore
	return true
}

// Submit publishes a post and then refreshes the feed so it shows up. The
// refresh is a side effect: its failure is reported but never fails Submit.
func (r *Reader) Submit(ctx context.Context, userID string, sub Submission) (postboard.Post, SideEffect, error) {
	post, err := Publish(ctx, r.creator, r.images, userID, sub)
	if err != nil {
		return postboard.Post{}, SideEffect{}, err
	}

	effect := SideEffect{Name: "refresh feed"}
	if !r.LoadFirst(ctx) {
		effect.Err = errRefreshFailed
		slog.WarnContext(ctx, "post created but feed refresh failed", "post_id", post.ID)
	}

	return post, effect, nil
}
