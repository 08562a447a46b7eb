package postboard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/postboard/internal/postboard"
)

func TestCursorRoundTrip(t *testing.T) {
	c := postboard.FeedCursor{
		// Sub-second precision has to survive the trip
		CreatedAt: time.Date(2025, 3, 4, 5, 6, 7, 123456000, time.UTC),
		ID:        "0195-abc-pst",
	}

	got, err := postboard.DecodeCursor(c.Encode())
	require.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, c.ID, got.ID)
}

func TestDecodeCursor_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "%%%"},
		{name: "not json", token: "bm9wZQ"},
		{name: "missing id", token: postboard.FeedCursor{CreatedAt: time.Now()}.Encode()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := postboard.DecodeCursor(tt.token)
			require.Error(t, err)
			assert.True(t, postboard.IsMalformedCursor(err))
		})
	}
}

func TestCreatePostArgsNormalize(t *testing.T) {
	title, desc, img := postboard.CreatePostArgs{
		Title:       "  hello ",
		Description: "   ",
	}.Normalize()

	assert.Equal(t, "hello", title)
	assert.Nil(t, desc)
	assert.Nil(t, img)
}
