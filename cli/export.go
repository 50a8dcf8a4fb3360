package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/paperwork/report"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
	Filter report.Filter
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export data as CSV",
	}

	invoices := &cobra.Command{
		Use:   "invoices",
		Short: "Export filtered invoices as CSV",
		Long: `Write the invoices matching the filters as CSV. Listing applies the overdue
transition first, so the exported statuses are current.

Example:
  paperwork export invoices --month 2024-03 -o march.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportInvoices(cmd, opts)
		},
	}
	invoices.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")
	addFilterFlags(invoices, &opts.Filter)

	cmd.AddCommand(invoices)
	return cmd
}

func runExportInvoices(cmd *cobra.Command, opts *ExportOptions) error {
	svc, st, err := openBooks(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	invoices, err := svc.ListInvoices(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list invoices", err)
	}
	invoices = opts.Filter.Invoices(invoices)

	var w io.Writer = cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create output file", err)
		}
		defer f.Close()
		w = f
	}

	if err := report.WriteInvoicesCSV(w, invoices); err != nil {
		return WrapExitError(ExitFailure, "failed to write CSV", err)
	}
	slog.Debug("invoices exported", "count", len(invoices), "output", opts.Output)
	return nil
}
