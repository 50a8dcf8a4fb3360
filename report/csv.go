package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/warp/paperwork/books"
)

var invoiceColumns = []string{
	"id", "creditor", "concern", "category", "amount",
	"due_date", "path", "description", "status", "payment_date",
}

// WriteInvoicesCSV writes invoices as CSV with a header row. Amounts are
// written exactly as stored.
func WriteInvoicesCSV(w io.Writer, invoices []books.Invoice) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(invoiceColumns); err != nil {
		return err
	}
	for _, inv := range invoices {
		record := []string{
			strconv.FormatInt(inv.ID, 10),
			inv.Creditor,
			inv.Concern,
			inv.Category,
			inv.Amount.String(),
			inv.DueDate,
			inv.Path,
			inv.Description,
			string(inv.Status),
			inv.PaymentDate,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
