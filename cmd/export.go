package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindcheck/mindcheck/internal/export"
	"github.com/mindcheck/mindcheck/internal/store"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		format       string
		out          string
		assessmentID string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored results as CSV, XLSX or JSON",
		Long: `Export stored results. The format comes from --format, or from the
extension of --out, and defaults to CSV. Without --out the export is written
to standard output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exportFormat(format, out)
			if err != nil {
				return err
			}
			toStdout := out == "" || out == "-"
			if toStdout && f == export.FormatXLSX && isTerminal(os.Stdout) {
				return fmt.Errorf("refusing to write XLSX to a terminal; use --out")
			}

			st, _, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			results, err := st.ResultRepo().List(cmd.Context(), store.QueryOpts{AssessmentID: assessmentID})
			if err != nil {
				return fmt.Errorf("list results: %w", err)
			}
			recs := export.Records(results, c.catalog)

			if toStdout {
				return export.Write(cmd.OutOrStdout(), f, recs)
			}
			if err := export.WriteFile(out, f, recs); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d result(s) to %s\n", len(recs), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "csv, xlsx or json")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default standard output)")
	cmd.Flags().StringVar(&assessmentID, "assessment", "", "Only export this assessment")
	return cmd
}

func exportFormat(flag, out string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if f, ok := export.FormatFromPath(out); ok {
		return f, nil
	}
	return export.FormatCSV, nil
}
