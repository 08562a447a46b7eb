// Package objstore stores uploaded images and hands back the URL they can be
// fetched from.
package objstore

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Bucket is the bucket post images are kept in.
const Bucket = "post-photos"

// Storage writes an object under key and returns its public URL.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

var imageExts = []string{"jpg", "jpeg", "png", "webp", "gif"}

// ImageKey places an upload at {userID}/{random}.{ext}. The extension is taken
// from filename when it is a known image type and is jpg otherwise.
func ImageKey(userID, filename string) (key, contentType string) {
	ext := strings.ToLower(filename)
	if i := strings.LastIndex(ext, "."); i >= 0 {
		ext = ext[i+1:]
	}
	if !slices.Contains(imageExts, ext) {
		ext = "jpg"
	}

	contentType = "image/" + ext
	if ext == "jpg" {
		contentType = "image/jpeg"
	}

	return userID + "/" + uuid.NewString() + "." + ext, contentType
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
