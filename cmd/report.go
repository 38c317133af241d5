package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/userTI10/Dashboard-admissao/internal/dashboard"
	"github.com/userTI10/Dashboard-admissao/internal/process"
)

func newReportCommand() *cobra.Command {
	var (
		page  int
		query string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print every category as tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := newCommandDeps("stderr")
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			report := deps.newDashboardService(nil).Report(cmd.Context(), page, query)
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number (1-based)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter term for filterable categories")
	return cmd
}

// renderReport writes one block per section: records, total and ranking, or
// the error line of a failed category.
func renderReport(w io.Writer, report *dashboard.Report) {
	for i, s := range report.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s (página %d) ==\n", s.Category.Title, s.Page)

		if s.Failed() {
			fmt.Fprintf(w, "Erro ao buscar %s: %s\n", s.Category.Title, s.Error)
			continue
		}
		if s.Term != "" {
			fmt.Fprintf(w, "Filtro: %q\n", s.Term)
		}

		renderRecords(w, s)
		if len(s.Ranking) > 0 {
			renderRanking(w, s.Ranking)
		}
	}
}

func renderRecords(w io.Writer, s dashboard.Section) {
	t := newTable(w)

	header := table.Row{}
	for _, label := range process.Labels() {
		header = append(header, label)
	}
	t.AppendHeader(header)

	for _, r := range s.Records {
		t.AppendRow(table.Row(r.Cells()))
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total de Vagas", dashboard.FormatCount(s.Total)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: len(process.Columns), Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

func renderRanking(w io.Writer, ranking []process.RankingEntry) {
	t := newTable(w)
	t.SetTitle("Ranking de Solicitantes")
	t.AppendHeader(table.Row{"#", "Solicitante", "Vagas"})
	for i, e := range ranking {
		t.AppendRow(table.Row{i + 1, e.Requester, dashboard.FormatCount(e.Total)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

// tableStyle is StyleLight with labels printed as written.
var tableStyle = func() table.Style {
	s := table.StyleLight
	s.Format.Header = text.FormatDefault
	s.Format.Footer = text.FormatDefault
	s.Title.Format = text.FormatDefault
	return s
}()

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(tableStyle)
	return t
}
