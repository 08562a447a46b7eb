package ingest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/jdholdren/postboard/internal/postboard"
)

// DeadLetterDir is where batches that could not be inserted are written.
const DeadLetterDir = "failed_batches"

// DeadLetterWriter persists failed batches as JSON files named after the time
// they failed, so that a directory listing sorts oldest first.
type DeadLetterWriter struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

func NewDeadLetterWriter(fs afero.Fs, dir string) *DeadLetterWriter {
	return &DeadLetterWriter{fs: fs, dir: dir, now: time.Now}
}

// WithClock swaps the time source used to name files.
func (w *DeadLetterWriter) WithClock(now func() time.Time) *DeadLetterWriter {
	w.now = now
	return w
}

// Write stores rows verbatim and returns the path it wrote to.
func (w *DeadLetterWriter) Write(rows []postboard.ValidatedPost) (string, error) {
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating dead-letter directory: %w", err)
	}

	byts, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding failed batch: %w", err)
	}

	path, err := w.freePath(deadLetterStamp(w.now()))
	if err != nil {
		return "", err
	}
	if err := afero.WriteFile(w.fs, path, byts, 0o644); err != nil {
		return "", fmt.Errorf("error writing failed batch: %w", err)
	}

	return path, nil
}

// freePath picks stamp.json, or stamp-N.json when that second is taken.
func (w *DeadLetterWriter) freePath(stamp string) (string, error) {
	for n := 0; ; n++ {
		name := stamp + ".json"
		if n > 0 {
			name = fmt.Sprintf("%s-%d.json", stamp, n)
		}

		path := filepath.Join(w.dir, name)
		exists, err := afero.Exists(w.fs, path)
		if err != nil {
			return "", fmt.Errorf("error checking dead-letter path: %w", err)
		}
		if !exists {
			return path, nil
		}
	}
}

// deadLetterStamp renders t like 2025-01-02T03-04-05: ISO-8601 in UTC with the
// colons and fraction separator turned into dashes, cut to the second.
func deadLetterStamp(t time.Time) string {
	iso := t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	iso = strings.NewReplacer(":", "-", ".", "-").Replace(iso)
	return iso[:19]
}
