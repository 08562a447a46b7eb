// Package ingest imports posts from an external file into the backend. Records
// are validated, their authors resolved in one lookup, and the survivors
// inserted in fixed size batches. A batch that still fails after retrying is
// written to a dead-letter file and the import moves on.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jdholdren/postboard/internal/logger"
	"github.com/jdholdren/postboard/internal/metrics"
	"github.com/jdholdren/postboard/internal/postboard"
)

const (
	DefaultBatchSize = 1000

	// Unknown authors listed in the skip report before it's cut short.
	skippedPreviewLen = 10
	progressEvery     = 1000
)

// Store is the part of the backend the pipeline writes through.
type Store interface {
	UserLookup
	InsertPosts(ctx context.Context, posts []postboard.ValidatedPost) error
}

// DeadLetters persists a batch that could not be inserted.
type DeadLetters interface {
	Write(rows []postboard.ValidatedPost) (string, error)
}

type Config struct {
	BatchSize int
	Retry     RetryPolicy
}

// Report summarizes a run.
type Report struct {
	Loaded int
	// Inserted counts rows the backend accepted.
	Inserted int
	// Skipped counts records whose author is not a known user.
	Skipped int
	// Invalid counts records with a known author that failed validation.
	Invalid        int
	UnknownAuthors []string
	// DeadLetters lists the files written for batches that gave up.
	DeadLetters []string
}

// SkippedPreview lists the first few unknown authors, with a trailing "..."
// when there are more.
func (r Report) SkippedPreview() string {
	if len(r.UnknownAuthors) <= skippedPreviewLen {
		return strings.Join(r.UnknownAuthors, ", ")
	}
	return strings.Join(r.UnknownAuthors[:skippedPreviewLen], ", ") + "..."
}

type Pipeline struct {
	store       Store
	deadLetters DeadLetters
	cfg         Config
}

func New(store Store, deadLetters DeadLetters, cfg Config) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryPolicy
	}

	return &Pipeline{store: store, deadLetters: deadLetters, cfg: cfg}
}

// Run imports records. It only returns an error when the author lookup fails,
// a dead-letter file cannot be written, or ctx is cancelled. Batches that fail
// to insert are reported through [Report.DeadLetters] instead.
func (p *Pipeline) Run(ctx context.Context, records []postboard.RawPost) (Report, error) {
	report := Report{Loaded: len(records)}
	if len(records) == 0 {
		slog.InfoContext(ctx, "no posts to import")
		return report, nil
	}

	authors := make([]string, 0, len(records))
	for _, r := range records {
		authors = append(authors, r.Author)
	}
	slog.InfoContext(ctx, "resolving authors", "unique_authors", len(distinct(authors)))

	userIDs, err := BuildUserMap(ctx, p.store, authors)
	if err != nil {
		return report, err
	}
	slog.InfoContext(ctx, "resolved authors", "users_found", len(userIDs))

	var (
		validated = make([]postboard.ValidatedPost, 0, len(records))
		unknown   []string
	)
	for _, raw := range records {
		authorID, ok := userIDs[raw.Author]
		if !ok {
			report.Skipped++
			unknown = append(unknown, raw.Author)
			continue
		}

		v, ok := Validate(raw, authorID)
		if !ok {
			report.Invalid++
			continue
		}
		validated = append(validated, v)
	}
	report.UnknownAuthors = distinct(unknown)
	metrics.IngestRecords.WithLabelValues("skipped").Add(float64(report.Skipped))
	metrics.IngestRecords.WithLabelValues("invalid").Add(float64(report.Invalid))

	if report.Skipped > 0 {
		slog.WarnContext(ctx, "skipped posts with unknown authors",
			"skipped", report.Skipped,
			"unknown_authors", len(report.UnknownAuthors),
			"preview", report.SkippedPreview(),
		)
	}

	slog.InfoContext(ctx, "inserting posts", "count", len(validated), "batch_size", p.cfg.BatchSize)

	batchIndex := 0
	for batch := range Chunk(validated, p.cfg.BatchSize) {
		batchIndex++
		bctx := logger.Ctx(ctx, slog.Int("batch", batchIndex), slog.Int("batch_len", len(batch)))

		_, err := WithRetry(bctx, p.cfg.Retry, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, p.store.InsertPosts(ctx, batch)
		})
		if err == nil {
			report.Inserted += len(batch)
			metrics.IngestRecords.WithLabelValues("inserted").Add(float64(len(batch)))
			if report.Inserted%progressEvery == 0 || len(batch) < p.cfg.BatchSize {
				slog.InfoContext(bctx, "import progress", "inserted", report.Inserted, "total", len(validated))
			}
			continue
		}

		slog.ErrorContext(bctx, "batch failed after retries", "err", err)
		path, dlErr := p.deadLetters.Write(batch)
		if dlErr != nil {
			return report, fmt.Errorf("error dead-lettering batch %d: %w", batchIndex, dlErr)
		}
		report.DeadLetters = append(report.DeadLetters, path)
		metrics.IngestRecords.WithLabelValues("dead_lettered").Add(float64(len(batch)))
		slog.WarnContext(bctx, "wrote failed batch", "path", path)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, fmt.Errorf("import interrupted after batch %d: %w", batchIndex, ctxErr)
		}
	}

	slog.InfoContext(ctx, "import complete",
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"invalid", report.Invalid,
		"dead_letters", len(report.DeadLetters),
	)

	return report, nil
}
