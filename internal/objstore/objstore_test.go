package objstore_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/postboard/internal/objstore"
)

func TestImageKey(t *testing.T) {
	for _, tc := range []struct {
		filename        string
		wantExt         string
		wantContentType string
	}{
		{filename: "cat.PNG", wantExt: "png", wantContentType: "image/png"},
		{filename: "cat.jpg", wantExt: "jpg", wantContentType: "image/jpeg"},
		{filename: "cat.jpeg", wantExt: "jpeg", wantContentType: "image/jpeg"},
		{filename: "anim.gif", wantExt: "gif", wantContentType: "image/gif"},
		{filename: "pic.webp", wantExt: "webp", wantContentType: "image/webp"},
		{filename: "doc.pdf", wantExt: "jpg", wantContentType: "image/jpeg"},
		{filename: "noext", wantExt: "jpg", wantContentType: "image/jpeg"},
	} {
		t.Run(tc.filename, func(t *testing.T) {
			key, ct := objstore.ImageKey("u1-usr", tc.filename)
			assert.True(t, strings.HasPrefix(key, "u1-usr/"), key)
			assert.True(t, strings.HasSuffix(key, "."+tc.wantExt), key)
			assert.Equal(t, tc.wantContentType, ct)
		})
	}

	a, _ := objstore.ImageKey("u1-usr", "a.png")
	b, _ := objstore.ImageKey("u1-usr", "a.png")
	assert.NotEqual(t, a, b)
}

func TestLocalPut(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := objstore.NewLocal(fs, "http://localhost:4444/uploads/")

	url, err := store.Put(context.Background(), "u1-usr/abc.png", strings.NewReader("pngbytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4444/uploads/u1-usr/abc.png", url)

	byts, err := afero.ReadFile(fs, "u1-usr/abc.png")
	require.NoError(t, err)
	assert.Equal(t, "pngbytes", string(byts))

	_, err = store.Put(context.Background(), "u1-usr/empty.png", strings.NewReader(""), "image/png")
	assert.Error(t, err)
}

func TestS3Put(t *testing.T) {
	var (
		mu             sync.Mutex
		gotPath        string
		gotContentType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	store, err := objstore.NewS3(objstore.S3Config{
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		PublicURL: "https://cdn.example.com",
	})
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "u1-usr/abc.jpg", strings.NewReader("jpgbytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/u1-usr/abc.jpg", url)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/post-photos/u1-usr/abc.jpg", gotPath)
	assert.Equal(t, "image/jpeg", gotContentType)
}
