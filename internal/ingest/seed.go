package ingest

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jdholdren/postboard/internal/postboard"
)

// UserStore gets and creates users by username.
type UserStore interface {
	UserByUsername(ctx context.Context, username string) (postboard.User, error)
	CreateUser(ctx context.Context, id, username string) (postboard.User, error)
}

type SeedReport struct {
	Authors  int
	Created  int
	Existing int
	Failed   int
}

// SeedUsers makes sure every distinct author in records exists as a user so
// that a following import can resolve them. A failure for one author is logged
// and counted, never fatal.
func SeedUsers(ctx context.Context, store UserStore, records []postboard.RawPost) SeedReport {
	authors := make([]string, 0, len(records))
	for _, r := range records {
		authors = append(authors, r.Author)
	}
	unique := distinct(authors)

	report := SeedReport{Authors: len(unique)}
	for _, username := range unique {
		_, err := store.UserByUsername(ctx, username)
		if err == nil {
			report.Existing++
			continue
		}
		if !errors.Is(err, postboard.ErrNotFound) {
			slog.ErrorContext(ctx, "error looking up author", "username", username, "err", err)
			report.Failed++
			continue
		}

		_, err = store.CreateUser(ctx, "", username)
		switch {
		case err == nil:
			report.Created++
		case errors.Is(err, postboard.ErrUsernameTaken):
			// Someone else created it between the lookup and the insert.
			report.Existing++
		default:
			slog.ErrorContext(ctx, "error creating author", "username", username, "err", err)
			report.Failed++
		}
	}

	slog.InfoContext(ctx, "seeded users",
		"authors", report.Authors,
		"created", report.Created,
		"existing", report.Existing,
		"failed", report.Failed,
	)

	return report
}
