package database

import (
	"context"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jdholdren/postboard/internal/postboard"
)

var feedColumns = []string{
	"p.id",
	"p.title",
	"p.author_id",
	"p.description",
	"p.image_url",
	"p.created_at",
	"u.username AS author_username",
}

// Rows per INSERT statement. Each row binds 6 parameters, which keeps a
// statement well under sqlite's 32766 and postgres's 65535 variable limits.
const insertChunkRows = 1000

type postRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	AuthorID    string    `db:"author_id"`
	Description *string   `db:"description"`
	ImageURL    *string   `db:"image_url"`
	CreatedAt   time.Time `db:"created_at"`
}

func newPostID() string {
	// v7 ids grow with time, which keeps ties on created_at in insertion order.
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString() + postNamespace
	}
	return id.String() + postNamespace
}

// InsertPosts writes the batch in one transaction so that it lands entirely
// or not at all. Large batches are split across several statements.
func (r Repo) InsertPosts(ctx context.Context, posts []postboard.ValidatedPost) error {
	const q = `INSERT INTO post (id, title, author_id, description, image_url, created_at)
	VALUES (:id, :title, :author_id, :description, :image_url, :created_at);`

	if len(posts) == 0 {
		return nil
	}

	now := r.timestamp()
	rows := make([]postRow, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, postRow{
			ID:          newPostID(),
			Title:       p.Title,
			AuthorID:    p.AuthorID,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			CreatedAt:   now,
		})
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting insert of %d posts: %w", len(rows), err)
	}
	defer tx.Rollback()

	for chunk := range slices.Chunk(rows, insertChunkRows) {
		if _, err := tx.NamedExecContext(ctx, q, chunk); err != nil {
			return fmt.Errorf("error inserting %d posts: %w", len(rows), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing %d posts: %w", len(rows), err)
	}

	return nil
}

func (r Repo) CreatePost(ctx context.Context, userID string, args postboard.CreatePostArgs) (postboard.Post, error) {
	const q = `INSERT INTO post (id, title, author_id, description, image_url, created_at)
	VALUES (:id, :title, :author_id, :description, :image_url, :created_at);`

	title, desc, image := args.Normalize()
	row := postRow{
		ID:          newPostID(),
		Title:       title,
		AuthorID:    userID,
		Description: desc,
		ImageURL:    image,
		CreatedAt:   r.timestamp(),
	}
	if _, err := r.db.NamedExecContext(ctx, q, row); err != nil {
		return postboard.Post{}, fmt.Errorf("error creating post: %w", err)
	}

	return postboard.Post(row), nil
}

// FeedPage returns up to limit posts newest first. With a cursor, only posts
// strictly older than it by (created_at, id) are returned.
func (r Repo) FeedPage(ctx context.Context, cursor *postboard.FeedCursor, limit uint64) ([]postboard.FeedPost, error) {
	query := r.sb.Select(feedColumns...).
		From("post p").
		LeftJoin(`"user" u ON u.id = p.author_id`).
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(limit)
	if cursor != nil {
		createdAt := cursor.CreatedAt.UTC()
		query = query.Where(sq.Or{
			sq.Lt{"p.created_at": createdAt},
			sq.And{
				sq.Eq{"p.created_at": createdAt},
				sq.Lt{"p.id": cursor.ID},
			},
		})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building feed query: %s", err)
	}

	var posts []postboard.FeedPost
	if err := r.db.SelectContext(ctx, &posts, q, args...); err != nil {
		return nil, fmt.Errorf("error selecting feed page: %w", err)
	}

	return normalizeTimes(posts), nil
}

func (r Repo) UserPosts(ctx context.Context, userID string, limit uint64) ([]postboard.FeedPost, error) {
	q, args, err := r.sb.Select(feedColumns...).
		From("post p").
		LeftJoin(`"user" u ON u.id = p.author_id`).
		Where(sq.Eq{"p.author_id": userID}).
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building user posts query: %s", err)
	}

	var posts []postboard.FeedPost
	if err := r.db.SelectContext(ctx, &posts, q, args...); err != nil {
		return nil, fmt.Errorf("error selecting user posts: %w", err)
	}

	return normalizeTimes(posts), nil
}

func normalizeTimes(posts []postboard.FeedPost) []postboard.FeedPost {
	for i := range posts {
		posts[i].CreatedAt = posts[i].CreatedAt.UTC()
	}
	return posts
}
