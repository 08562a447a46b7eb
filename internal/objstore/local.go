package objstore

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/spf13/afero"
)

// Local keeps objects on a filesystem, usually a directory that a static file
// server exposes at publicURL.
type Local struct {
	fs        afero.Fs
	publicURL string
}

func NewLocal(fs afero.Fs, publicURL string) Local {
	return Local{fs: fs, publicURL: publicURL}
}

func (l Local) Put(ctx context.Context, key string, body io.Reader, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := l.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return "", fmt.Errorf("error creating object directory: %w", err)
	}

	f, err := l.fs.Create(key)
	if err != nil {
		return "", fmt.Errorf("error creating object: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, body)
	if err != nil {
		return "", fmt.Errorf("error writing object: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("could not read image file: empty body")
	}

	return joinURL(l.publicURL, key), nil
}
