// Package postboard holds the core types shared by the import tooling and the
// feed server: posts, users, and the cursor used to page through the feed.
package postboard

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrConflict = errors.New("resource already exists")
	ErrNotFound = errors.New("resource not found")

	// ErrUsernameTaken is returned when a profile is created with a username
	// that's already in use. It's a conflict, so errors.Is(err, ErrConflict) holds.
	ErrUsernameTaken = fmt.Errorf("username is already taken: %w", ErrConflict)
)

// Repository is everything the backend store provides.
type Repository interface {
	PostRepo
	UserRepo
}

type (
	PostRepo interface {
		// InsertPosts bulk inserts the batch in a single statement.
		InsertPosts(ctx context.Context, posts []ValidatedPost) error
		CreatePost(ctx context.Context, userID string, args CreatePostArgs) (Post, error)
		// FeedPage returns up to limit posts strictly after the cursor in
		// (created_at DESC, id DESC) order. A nil cursor starts at the newest post.
		FeedPage(ctx context.Context, cursor *FeedCursor, limit uint64) ([]FeedPost, error)
		UserPosts(ctx context.Context, userID string, limit uint64) ([]FeedPost, error)
	}

	UserRepo interface {
		// UsersByUsernames looks up every username in one round trip.
		UsersByUsernames(ctx context.Context, usernames []string) ([]User, error)
		UserByUsername(ctx context.Context, username string) (User, error)
		User(ctx context.Context, id string) (User, error)
		CreateUser(ctx context.Context, id, username string) (User, error)
	}
)
