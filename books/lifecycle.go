/*
lifecycle.go - Invoice status lifecycle

STATES:
  Open ──(due date passed, observed on list)──> Overdue
  Open | Overdue ──(pay)──> Paid
  Paid is terminal for the lifecycle. Any other status string is left alone.

EVALUATION:
  Overdue detection is lazy. Nothing runs in the background: the transition
  happens while listing invoices, and the new status is written back before
  the list is returned. An invoice that is never listed never turns Overdue.

FAIL-FAST:
  An Open invoice whose due date cannot be parsed aborts the whole listing
  with a ValidationError. Every row is evaluated before anything is written,
  and the whole pass runs inside one store transaction, so a bad row leaves
  the store untouched and a concurrent pay cannot land mid-pass.
*/
package books

import (
	"context"
	"fmt"
)

// EvaluateOverdue moves every Open invoice due strictly before today to
// Overdue, in place. It returns the indexes of the invoices it changed.
// Only Open invoices have their due date parsed.
func EvaluateOverdue(invoices []Invoice, today Date) ([]int, error) {
	var changed []int
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status != StatusOpen {
			continue
		}
		due, err := ParseDate(inv.DueDate)
		if err != nil {
			return nil, &ValidationError{
				Field:  "due_date",
				Value:  inv.DueDate,
				Reason: fmt.Sprintf("invoice %d: expected YYYY-MM-DD", inv.ID),
			}
		}
		if due.Before(today) {
			inv.Status = StatusOverdue
			changed = append(changed, i)
		}
	}
	return changed, nil
}

// ListInvoices returns every invoice after applying the overdue transition
// and persisting it.
func (s *Service) ListInvoices(ctx context.Context) ([]Invoice, error) {
	today := Today(s.clock)

	var result []Invoice
	err := s.store.WithInvoiceTx(ctx, func(tx InvoiceStore) error {
		invoices, err := tx.ListInvoices(ctx)
		if err != nil {
			return err
		}

		changed, err := EvaluateOverdue(invoices, today)
		if err != nil {
			return err
		}

		for _, i := range changed {
			if err := tx.SetInvoiceStatus(ctx, invoices[i].ID, StatusOverdue); err != nil {
				return err
			}
			s.logger.Info("invoice overdue",
				"id", invoices[i].ID,
				"creditor", invoices[i].Creditor,
				"due_date", invoices[i].DueDate)
		}

		result = invoices
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PayInvoice marks the invoice Paid as of today. It does not look at the
// current status: paying twice moves the payment date to the second call,
// and paying an unknown id does nothing.
func (s *Service) PayInvoice(ctx context.Context, id ID) error {
	today := Today(s.clock)
	if err := s.store.MarkInvoicePaid(ctx, id, today); err != nil {
		return err
	}
	s.logger.Info("invoice paid", "id", id, "payment_date", today.String())
	return nil
}
