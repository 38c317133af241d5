package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/userTI10/Dashboard-admissao/internal/dashboard"
	"github.com/userTI10/Dashboard-admissao/internal/holmes"
	"github.com/userTI10/Dashboard-admissao/internal/logger"
)

const exportFileMode = 0o644

func newExportCommand() *cobra.Command {
	var (
		status string
		page   int
		query  string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one category as an .xlsx file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := holmes.ParseStatus(status)
			if err != nil {
				return err
			}

			deps, err := newCommandDeps("stderr")
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			artifact, err := deps.newDashboardService(nil).Export(cmd.Context(), st, page, query)
			if errors.Is(err, dashboard.ErrNoRecords) {
				fmt.Fprintf(cmd.OutOrStdout(), "Nenhum processo %s encontrado; nada exportado.\n", st)
				return nil
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", st, err)
			}

			path := filepath.Join(outDir, artifact.FileName)
			if err = os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if err = os.WriteFile(path, artifact.Data, exportFileMode); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			deps.Logger.Info("Export written",
				logger.String("path", path),
				logger.Int("records", artifact.Records),
				logger.Int64("bytes", int64(len(artifact.Data))),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d registros)\n", path, artifact.Records)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "process status to export (opened or canceled)")
	cmd.Flags().IntVar(&page, "page", 1, "page number (1-based)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter term for filterable categories")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}
