package sqlite

import (
	"context"
	"database/sql"

	"github.com/warp/paperwork/books"
)

// =============================================================================
// INVOICE STORE (books.InvoiceStore interface)
// =============================================================================

// AddInvoice inserts an invoice and returns its id.
func (s *Store) AddInvoice(ctx context.Context, inv books.Invoice) (books.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id books.ID
	err := s.withConn(ctx, "add invoice", func(q querier) (err error) {
		id, err = insertInvoice(ctx, q, inv)
		return err
	})
	return id, err
}

// ListInvoices returns every invoice in id order, as stored. It does not
// apply the overdue transition; books.Service.ListInvoices does.
func (s *Store) ListInvoices(ctx context.Context) ([]books.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var invoices []books.Invoice
	err := s.withConn(ctx, "list invoices", func(q querier) (err error) {
		invoices, err = selectInvoices(ctx, q)
		return err
	})
	return invoices, err
}

// DeleteInvoice removes an invoice. Unknown ids are ignored.
func (s *Store) DeleteInvoice(ctx context.Context, id books.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withConn(ctx, "delete invoice", func(q querier) error {
		return deleteRow(ctx, q, "invoices", id)
	})
}

// SetInvoiceStatus overwrites the status of one invoice.
func (s *Store) SetInvoiceStatus(ctx context.Context, id books.ID, status books.InvoiceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withConn(ctx, "set invoice status", func(q querier) error {
		return updateInvoiceStatus(ctx, q, id, status)
	})
}

// MarkInvoicePaid sets status Paid and the payment date.
func (s *Store) MarkInvoicePaid(ctx context.Context, id books.ID, paidOn books.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withConn(ctx, "pay invoice", func(q querier) error {
		return markInvoicePaid(ctx, q, id, paidOn)
	})
}

func insertInvoice(ctx context.Context, q querier, inv books.Invoice) (books.ID, error) {
	query := `
		INSERT INTO invoices
		(creditor, concern, category, amount, due_date, path, description, status, payment_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return insertRow(ctx, q, query,
		inv.Creditor,
		inv.Concern,
		inv.Category,
		inv.Amount,
		inv.DueDate,
		nullString(inv.Path),
		nullString(inv.Description),
		nullString(string(inv.Status)),
		nullString(inv.PaymentDate),
	)
}

func selectInvoices(ctx context.Context, q querier) ([]books.Invoice, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, creditor, concern, category, amount, due_date, path, description, status, payment_date
		FROM invoices
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []books.Invoice
	for rows.Next() {
		var inv books.Invoice
		var path, description, status, paymentDate sql.NullString
		if err := rows.Scan(
			&inv.ID, &inv.Creditor, &inv.Concern, &inv.Category, &inv.Amount, &inv.DueDate,
			&path, &description, &status, &paymentDate,
		); err != nil {
			return nil, err
		}
		inv.Path = path.String
		inv.Description = description.String
		inv.Status = books.InvoiceStatus(status.String)
		inv.PaymentDate = paymentDate.String
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func updateInvoiceStatus(ctx context.Context, q querier, id books.ID, status books.InvoiceStatus) error {
	_, err := q.ExecContext(ctx, "UPDATE invoices SET status = ? WHERE id = ?", string(status), id)
	return err
}

func markInvoicePaid(ctx context.Context, q querier, id books.ID, paidOn books.Date) error {
	_, err := q.ExecContext(ctx,
		"UPDATE invoices SET payment_date = ?, status = ? WHERE id = ?",
		paidOn.String(), string(books.StatusPaid), id,
	)
	return err
}
