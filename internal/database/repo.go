package database

import (
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	moderncsqlite "modernc.org/sqlite"

	"github.com/jdholdren/postboard/internal/postboard"
)

// Ensure Repo implements the Repository interface
var _ postboard.Repository = Repo{}

const (
	postNamespace = "-pst"
	userNamespace = "-usr"
)

type Repo struct {
	db      *sqlx.DB
	dialect Dialect
	sb      sq.StatementBuilderType
	now     func() time.Time
}

func New(db *sqlx.DB, dialect Dialect) Repo {
	sb := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if dialect == DialectPostgres {
		sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}

	return Repo{
		db:      db,
		dialect: dialect,
		sb:      sb,
		now:     time.Now,
	}
}

// WithClock returns a copy of the repo that stamps rows using now.
func (r Repo) WithClock(now func() time.Time) Repo {
	r.now = now
	return r
}

// Timestamps are kept at microsecond precision in UTC so that values survive
// a round trip through either backend and compare equal afterwards.
func (r Repo) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// uniqueViolation reports whether err is a unique constraint failure and
// whether the offending column was the username.
func uniqueViolation(err error) (violated bool, onUsername bool) {
	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case 2067: // SQLITE_CONSTRAINT_UNIQUE
			return true, strings.Contains(sqliteErr.Error(), "username")
		case 1555: // SQLITE_CONSTRAINT_PRIMARYKEY
			return true, false
		}
		return false, false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true, pgErr.ConstraintName == "user_username_key"
	}

	return false, false
}
