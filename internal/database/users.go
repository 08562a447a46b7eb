package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jdholdren/postboard/internal/postboard"
)

// UsersByUsernames looks up every given username in one query. Usernames with
// no matching user are simply missing from the result.
func (r Repo) UsersByUsernames(ctx context.Context, usernames []string) ([]postboard.User, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	q, args, err := r.sb.Select("id", "username", "created_at").
		From(`"user"`).
		Where(sq.Eq{"username": usernames}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building users query: %s", err)
	}

	var usrs []postboard.User
	if err := r.db.SelectContext(ctx, &usrs, q, args...); err != nil {
		return nil, fmt.Errorf("error selecting users: %w", err)
	}

	return usrs, nil
}

func (r Repo) UserByUsername(ctx context.Context, username string) (postboard.User, error) {
	return r.userWhere(ctx, sq.Eq{"username": username})
}

func (r Repo) User(ctx context.Context, id string) (postboard.User, error) {
	return r.userWhere(ctx, sq.Eq{"id": id})
}

func (r Repo) userWhere(ctx context.Context, pred sq.Eq) (postboard.User, error) {
	q, args, err := r.sb.Select("id", "username", "created_at").
		From(`"user"`).
		Where(pred).
		ToSql()
	if err != nil {
		return postboard.User{}, fmt.Errorf("error building user query: %s", err)
	}

	var usr postboard.User
	err = r.db.GetContext(ctx, &usr, q, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return postboard.User{}, postboard.ErrNotFound
	}
	if err != nil {
		return postboard.User{}, fmt.Errorf("error selecting user: %w", err)
	}
	usr.CreatedAt = usr.CreatedAt.UTC()

	return usr, nil
}

// CreateUser inserts a user. An empty id gets a fresh one. A taken username
// comes back as [postboard.ErrUsernameTaken].
func (r Repo) CreateUser(ctx context.Context, id, username string) (postboard.User, error) {
	const q = `INSERT INTO "user" (id, username, created_at) VALUES (:id, :username, :created_at);`

	if id == "" {
		id = uuid.NewString() + userNamespace
	}
	usr := postboard.User{
		ID:        id,
		Username:  username,
		CreatedAt: r.timestamp(),
	}

	if _, err := r.db.NamedExecContext(ctx, q, usr); err != nil {
		violated, onUsername := uniqueViolation(err)
		switch {
		case violated && onUsername:
			return postboard.User{}, postboard.ErrUsernameTaken
		case violated:
			return postboard.User{}, fmt.Errorf("user %s already exists: %w", id, postboard.ErrConflict)
		}
		return postboard.User{}, fmt.Errorf("error creating user: %w", err)
	}

	return usr, nil
}
