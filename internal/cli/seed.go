package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jdholdren/postboard/internal/ingest"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a user for every author in an import file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := setup(cmd, rootOpts)
			if err != nil {
				return err
			}

			records, err := loadRecords(rootOpts.Fs, file)
			if err != nil {
				return err
			}

			dbx, repo, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer dbx.Close()

			report := ingest.SeedUsers(ctx, repo, records)
			fmt.Fprintf(cmd.OutOrStdout(), "Users ensured: %d (created %d, existing %d, failed %d)\n",
				report.Created+report.Existing, report.Created, report.Existing, report.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", defaultImportFile, "file whose authors to create")

	return cmd
}
