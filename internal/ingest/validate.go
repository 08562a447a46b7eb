package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/jdholdren/postboard/internal/postboard"
)

// Validate normalizes an untrusted record. It reports false, with no error,
// when the author was not resolved or the title is blank.
//
// Titles are trimmed and cut to [postboard.MaxTitleLength] characters.
// Descriptions are trimmed and dropped when empty. Images are kept only when
// they start with http:// or https://.
func Validate(raw postboard.RawPost, authorID string) (postboard.ValidatedPost, bool) {
	if authorID == "" {
		return postboard.ValidatedPost{}, false
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return postboard.ValidatedPost{}, false
	}
	if utf8.RuneCountInString(title) > postboard.MaxTitleLength {
		title = string([]rune(title)[:postboard.MaxTitleLength])
	}

	var desc *string
	if raw.Description != nil {
		if d := strings.TrimSpace(*raw.Description); d != "" {
			desc = &d
		}
	}

	var image *string
	if raw.Image != nil {
		u := strings.TrimSpace(*raw.Image)
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			image = &u
		}
	}

	return postboard.ValidatedPost{
		Title:       title,
		AuthorID:    authorID,
		Description: desc,
		ImageURL:    image,
	}, true
}
