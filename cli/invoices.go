package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/paperwork/books"
	"github.com/warp/paperwork/report"
)

// InvoicesOptions holds flags for the invoices subcommands.
type InvoicesOptions struct {
	*RootOptions
	Filter report.Filter
}

// NewInvoicesCommand creates the invoices command group.
func NewInvoicesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvoicesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "List and pay invoices",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List invoices, marking past-due open ones Overdue",
		Long: `List every invoice. Open invoices whose due date is before today are moved
to Overdue and saved, exactly as when the desktop UI lists them.

Example:
  paperwork invoices list --status Overdue
  paperwork invoices list --month 2024-03 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoicesList(cmd, opts)
		},
	}
	addFilterFlags(list, &opts.Filter)

	pay := &cobra.Command{
		Use:   "pay <id>",
		Short: "Mark an invoice paid today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoicesPay(cmd, opts, args[0])
		},
	}

	cmd.AddCommand(list, pay)
	return cmd
}

func addFilterFlags(cmd *cobra.Command, f *report.Filter) {
	cmd.Flags().StringVar(&f.Creditor, "creditor", "", "creditor contains")
	cmd.Flags().StringVar(&f.Concern, "concern", "", "concern contains")
	cmd.Flags().StringVar(&f.Category, "category", "", "category contains")
	cmd.Flags().StringVar(&f.Status, "status", "", "status contains")
	cmd.Flags().StringVar(&f.Month, "month", "", "due month (YYYY-MM)")
}

func runInvoicesList(cmd *cobra.Command, opts *InvoicesOptions) error {
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

	return opts.formatter(cmd).Success(invoices, invoiceTable(invoices))
}

func runInvoicesPay(cmd *cobra.Command, opts *InvoicesOptions, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	svc, st, err := openBooks(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := svc.PayInvoice(cmd.Context(), id); err != nil {
		return WrapExitError(ExitFailure, "failed to pay invoice", err)
	}
	return opts.formatter(cmd).Success(map[string]any{"id": id}, fmt.Sprintf("invoice %d paid\n", id))
}

func invoiceTable(invoices []books.Invoice) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREDITOR\tCATEGORY\tAMOUNT\tDUE\tSTATUS\tPAID")
	for _, inv := range invoices {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.ID, inv.Creditor, inv.Category, inv.Amount.StringFixed(2),
			inv.DueDate, inv.Status, inv.PaymentDate)
	}
	tw.Flush()
	return b.String()
}

func parseID(s string) (books.ID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, fmt.Sprintf("invalid id %q", s), err)
	}
	return id, nil
}
