package postboard

import (
	"strings"
	"time"
)

// MaxTitleLength is the number of characters a post title is cut down to.
const MaxTitleLength = 25

type (
	// Post is a persisted post.
	Post struct {
		ID          string    `db:"id" json:"id"`
		Title       string    `db:"title" json:"title"`
		AuthorID    string    `db:"author_id" json:"author_id"`
		Description *string   `db:"description" json:"description"`
		ImageURL    *string   `db:"image_url" json:"image_url"`
		CreatedAt   time.Time `db:"created_at" json:"created_at"`
	}

	// FeedPost is a post joined with its author's username for display.
	FeedPost struct {
		Post

		AuthorUsername *string `db:"author_username" json:"author_username"`
	}

	// RawPost is an untrusted record read from an import file.
	RawPost struct {
		Title       string  `json:"title"`
		Author      string  `json:"author"`
		Description *string `json:"description,omitempty"`
		Image       *string `json:"image,omitempty"`
	}

	// ValidatedPost is a normalized record that's ready to be inserted.
	//
	// The JSON form is also the dead-letter format, so the field names match the
	// post table's columns.
	ValidatedPost struct {
		Title       string  `db:"title" json:"title"`
		AuthorID    string  `db:"author_id" json:"author_id"`
		Description *string `db:"description" json:"description"`
		ImageURL    *string `db:"image_url" json:"image_url"`
	}

	// CreatePostArgs are the fields a signed in user supplies for a new post.
	CreatePostArgs struct {
		Title       string
		Description string
		ImageURL    string
	}
)

// Cursor returns the position of this post in the feed ordering.
func (p Post) Cursor() FeedCursor {
	return FeedCursor{CreatedAt: p.CreatedAt, ID: p.ID}
}

// Normalize trims the args, turning empty optional fields into absences.
func (a CreatePostArgs) Normalize() (title string, description, imageURL *string) {
	title = strings.TrimSpace(a.Title)
	if d := strings.TrimSpace(a.Description); d != "" {
		description = &d
	}
	if a.ImageURL != "" {
		u := a.ImageURL
		imageURL = &u
	}

	return title, description, imageURL
}
