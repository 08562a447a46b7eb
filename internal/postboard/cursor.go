package postboard

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// FeedCursor marks the last row of a feed page. The next page holds rows that
// sort strictly after it by (created_at DESC, id DESC).
type FeedCursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

var errMalformedCursor = errors.New("malformed cursor")

// Encode produces the opaque token handed to clients.
func (c FeedCursor) Encode() string {
	byts, _ := json.Marshal(struct {
		CreatedAt string `json:"created_at"`
		ID        string `json:"id"`
	}{
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339Nano),
		ID:        c.ID,
	})

	return base64.RawURLEncoding.EncodeToString(byts)
}

// DecodeCursor parses a token produced by [FeedCursor.Encode].
func DecodeCursor(token string) (FeedCursor, error) {
	byts, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return FeedCursor{}, fmt.Errorf("%w: %s", errMalformedCursor, err)
	}

	var raw struct {
		CreatedAt string `json:"created_at"`
		ID        string `json:"id"`
	}
	if err := json.Unmarshal(byts, &raw); err != nil {
		return FeedCursor{}, fmt.Errorf("%w: %s", errMalformedCursor, err)
	}
	if raw.ID == "" {
		return FeedCursor{}, fmt.Errorf("%w: missing id", errMalformedCursor)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	if err != nil {
		return FeedCursor{}, fmt.Errorf("%w: %s", errMalformedCursor, err)
	}

	return FeedCursor{CreatedAt: createdAt.UTC(), ID: raw.ID}, nil
}

// IsMalformedCursor reports if the error came from decoding a bad token.
func IsMalformedCursor(err error) bool {
	return errors.Is(err, errMalformedCursor)
}
