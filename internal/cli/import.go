package cli

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jdholdren/postboard/internal/ingest"
	"github.com/jdholdren/postboard/internal/postboard"
)

const defaultImportFile = "./seed.json"

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	File string
	// BatchSize is kept as text so that junk falls back to the default
	// instead of failing flag parsing.
	BatchSize string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import posts from a file",
		Long: `Import posts from a JSON array, an object with a posts/data/items
array, or newline delimited JSON.

Authors are matched to existing users by username; posts by unknown
authors are skipped. Batches that still fail after retrying are written
to failed_batches/ and the import carries on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", defaultImportFile, "file to import")
	cmd.Flags().StringVar(&opts.BatchSize, "batchSize", strconv.Itoa(ingest.DefaultBatchSize), "posts per insert")

	return cmd
}

// parseBatchSize reads a positive batch size, or returns the default.
func parseBatchSize(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return ingest.DefaultBatchSize
	}
	return n
}

// loadRecords checks the input file exists and reads it.
func loadRecords(fs afero.Fs, path string) ([]postboard.RawPost, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error checking %s: %w", path, err)
	}
	if !exists {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	return ingest.LoadFile(fs, path)
}

func runImport(cmd *cobra.Command, rootOpts *RootOptions, opts *ImportOptions) error {
	ctx := cmd.Context()
	cfg, err := setup(cmd, rootOpts)
	if err != nil {
		return err
	}
	batchSize := parseBatchSize(opts.BatchSize)

	records, err := loadRecords(rootOpts.Fs, opts.File)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "loaded posts", "file", opts.File, "count", len(records))

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No posts to import.")
		return nil
	}

	dbx, repo, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbx.Close()

	p := ingest.New(repo, ingest.NewDeadLetterWriter(rootOpts.Fs, ingest.DeadLetterDir), ingest.Config{
		BatchSize: batchSize,
		Retry:     rootOpts.Retry,
	})
	report, err := p.Run(ctx, records)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if report.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %d posts (%d unknown authors): %s\n",
			report.Skipped, len(report.UnknownAuthors), report.SkippedPreview())
	}
	for _, path := range report.DeadLetters {
		fmt.Fprintf(out, "Wrote failed batch to %s\n", path)
	}
	fmt.Fprintf(out, "Import complete. Inserted: %d, Skipped: %d, Invalid: %d\n",
		report.Inserted, report.Skipped, report.Invalid)

	return nil
}
