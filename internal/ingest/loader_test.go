package ingest_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/postboard/internal/ingest"
	"github.com/jdholdren/postboard/internal/postboard"
)

func TestParseRecords(t *testing.T) {
	alice := postboard.RawPost{Title: "one", Author: "alice"}
	bob := postboard.RawPost{Title: "two", Author: "bob", Description: ptr("d"), Image: ptr("https://x")}

	for _, tc := range []struct {
		name    string
		content string
		want    []postboard.RawPost
	}{
		{
			name:    "empty",
			content: "  \n ",
		},
		{
			name:    "array",
			content: `[{"title":"one","author":"alice"},{"title":"two","author":"bob","description":"d","image":"https://x"}]`,
			want:    []postboard.RawPost{alice, bob},
		},
		{
			name:    "array drops malformed records",
			content: `[{"title":"one","author":"alice"},{"title":1,"author":"x"},{"title":"t"},null,"str"]`,
			want:    []postboard.RawPost{alice},
		},
		{
			name:    "posts property",
			content: `{"posts":[{"title":"one","author":"alice"}]}`,
			want:    []postboard.RawPost{alice},
		},
		{
			name:    "data property",
			content: `{"data":[{"title":"one","author":"alice"}]}`,
			want:    []postboard.RawPost{alice},
		},
		{
			name:    "items property",
			content: `{"items":[{"title":"one","author":"alice"}]}`,
			want:    []postboard.RawPost{alice},
		},
		{
			name:    "null posts falls through",
			content: `{"posts":null,"items":[{"title":"one","author":"alice"}]}`,
			want:    []postboard.RawPost{alice},
		},
		{
			name:    "non array property",
			content: `{"posts":{"title":"one","author":"alice"}}`,
		},
		{
			name:    "scalar document",
			content: `42`,
		},
		{
			name: "ndjson",
			content: `{"title":"one","author":"alice"}
not json at all

{"title":"two","author":"bob","description":"d","image":"https://x"}
{"title":"three"}
`,
			want: []postboard.RawPost{alice, bob},
		},
		{
			// A lone line is a valid JSON document, so it's read as an object
			// with no posts array.
			name:    "single line ndjson",
			content: `{"title":"one","author":"alice"}`,
		},
		{
			name:    "non string optional fields are dropped",
			content: `[{"title":"one","author":"alice","description":5,"image":false}]`,
			want:    []postboard.RawPost{alice},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ingest.ParseRecords([]byte(tc.content)))
		})
	}
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "seed.json", []byte(`[{"title":"one","author":"alice"}]`), 0o644))

	got, err := ingest.LoadFile(fs, "seed.json")
	require.NoError(t, err)
	assert.Equal(t, []postboard.RawPost{{Title: "one", Author: "alice"}}, got)

	_, err = ingest.LoadFile(fs, "missing.json")
	assert.Error(t, err)
}
