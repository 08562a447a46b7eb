package ingest

import (
	"context"
	"fmt"

	"github.com/jdholdren/postboard/internal/postboard"
)

// UserLookup resolves many usernames in a single round trip.
type UserLookup interface {
	UsersByUsernames(ctx context.Context, usernames []string) ([]postboard.User, error)
}

// BuildUserMap maps each known username to its user id. Unknown usernames are
// absent from the result. Duplicates and empty names are dropped before the
// lookup, and no lookup happens at all when nothing is left.
func BuildUserMap(ctx context.Context, lookup UserLookup, usernames []string) (map[string]string, error) {
	unique := distinct(usernames)
	if len(unique) == 0 {
		return map[string]string{}, nil
	}

	usrs, err := lookup.UsersByUsernames(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("error fetching users: %w", err)
	}

	m := make(map[string]string, len(usrs))
	for _, u := range usrs {
		if u.Username == "" || u.ID == "" {
			continue
		}
		m[u.Username] = u.ID
	}

	return m, nil
}

// distinct keeps the first occurrence of every non-empty string, in order.
func distinct(ss []string) []string {
	seen := make(map[string]struct{}, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
