package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boutique-crm/clientele-cli/internal/ingest"
	"github.com/boutique-crm/clientele-cli/internal/resolve"
)

var (
	importFilePath string
	importSource   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import clients from an Excel workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate")
		}

		source := importSource
		if source == "" {
			source = ingest.SourceTag(importFilePath)
		}

		tables, err := ingest.ReadWorkbook(importFilePath, source)
		if err != nil {
			return eris.Wrap(err, "read workbook")
		}

		resolver := resolve.NewResolver(st)

		var total resolve.Summary
		for _, t := range tables {
			summary := resolver.ResolveTable(ctx, t)
			zap.L().Info("sheet imported",
				zap.String("sheet", summary.Sheet),
				zap.Int("created", summary.Created),
				zap.Int("updated", summary.Updated),
				zap.Int("skipped", summary.Skipped),
				zap.Int("failed", summary.Failed),
			)
			total.Add(summary)
		}

		zap.L().Info("import complete",
			zap.String("file", importFilePath),
			zap.String("source", source),
			zap.Int("sheets", len(tables)),
			zap.Int("created", total.Created),
			zap.Int("updated", total.Updated),
			zap.Int("skipped", total.Skipped),
			zap.Int("failed", total.Failed),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFilePath, "file", "", "path to .xlsx workbook (required)")
	importCmd.Flags().StringVar(&importSource, "source", "", "source tag (defaults to file name)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
