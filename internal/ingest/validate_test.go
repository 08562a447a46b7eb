package ingest_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/postboard/internal/ingest"
	"github.com/jdholdren/postboard/internal/postboard"
)

func ptr[T any](v T) *T { return &v }

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name     string
		raw      postboard.RawPost
		authorID string
		want     postboard.ValidatedPost
		wantOK   bool
	}{
		{
			name:     "no author",
			raw:      postboard.RawPost{Title: "hello"},
			authorID: "",
		},
		{
			name:     "blank title",
			raw:      postboard.RawPost{Title: "   "},
			authorID: "u1",
		},
		{
			name:     "trims and keeps optional fields",
			raw:      postboard.RawPost{Title: "  hi  ", Description: ptr(" about "), Image: ptr(" https://x.png ")},
			authorID: "u1",
			want:     postboard.ValidatedPost{Title: "hi", AuthorID: "u1", Description: ptr("about"), ImageURL: ptr("https://x.png")},
			wantOK:   true,
		},
		{
			name:     "blank description becomes absent",
			raw:      postboard.RawPost{Title: "hi", Description: ptr("\t ")},
			authorID: "u1",
			want:     postboard.ValidatedPost{Title: "hi", AuthorID: "u1"},
			wantOK:   true,
		},
		{
			name:     "non http image dropped",
			raw:      postboard.RawPost{Title: "hi", Image: ptr("ftp://x")},
			authorID: "u1",
			want:     postboard.ValidatedPost{Title: "hi", AuthorID: "u1"},
			wantOK:   true,
		},
		{
			name:     "scheme check is case sensitive",
			raw:      postboard.RawPost{Title: "hi", Image: ptr("HTTPS://x")},
			authorID: "u1",
			want:     postboard.ValidatedPost{Title: "hi", AuthorID: "u1"},
			wantOK:   true,
		},
		{
			name:     "relative image dropped",
			raw:      postboard.RawPost{Title: "hi", Image: ptr("/img/a.png")},
			authorID: "u1",
			want:     postboard.ValidatedPost{Title: "hi", AuthorID: "u1"},
			wantOK:   true,
		},
		{
			name:     "long title truncated",
			raw:      postboard.RawPost{Title: " abcdefghijklmnopqrstuvwxyz0123 "},
			authorID: "u1",
			want:     postboard.ValidatedPost{Title: "abcdefghijklmnopqrstuvwxy", AuthorID: "u1"},
			wantOK:   true,
		},
		{
			name:     "truncation counts characters not bytes",
			raw:      postboard.RawPost{Title: strings.Repeat("é", 30)},
			authorID: "u1",
			want:     postboard.ValidatedPost{Title: strings.Repeat("é", 25), AuthorID: "u1"},
			wantOK:   true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ingest.Validate(tc.raw, tc.authorID)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidateProperties(t *testing.T) {
	faker := gofakeit.New(7)

	for range 500 {
		title := faker.LetterN(uint(faker.IntRange(1, 60)))
		padded := strings.Repeat(" ", faker.IntRange(0, 3)) + title + strings.Repeat(" ", faker.IntRange(0, 3))

		raw := postboard.RawPost{
			Title:       padded,
			Author:      faker.Username(),
			Description: ptr(" " + faker.Sentence(4) + " "),
			Image:       ptr(faker.URL()),
		}
		got, ok := ingest.Validate(raw, "u1")
		require.True(t, ok)

		// Truncation keeps a prefix of the trimmed title.
		if len(title) > postboard.MaxTitleLength {
			assert.Equal(t, title[:postboard.MaxTitleLength], got.Title)
		} else {
			assert.Equal(t, title, got.Title)
		}
		assert.LessOrEqual(t, utf8.RuneCountInString(got.Title), postboard.MaxTitleLength)

		// Validating the output again changes nothing.
		again, ok := ingest.Validate(postboard.RawPost{
			Title:       got.Title,
			Description: got.Description,
			Image:       got.ImageURL,
		}, "u1")
		require.True(t, ok)
		assert.Equal(t, got, again)

		_, ok = ingest.Validate(raw, "")
		assert.False(t, ok)
	}
}
