package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/paperwork/books"
)

func TestMemory_WithInvoiceTx_DiscardsOnError(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	id, err := m.AddInvoice(ctx, books.Invoice{Creditor: "EDF", Amount: decimal.NewFromInt(1), DueDate: "2019-01-01", Status: books.StatusOpen})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = m.WithInvoiceTx(ctx, func(tx books.InvoiceStore) error {
		require.NoError(t, tx.SetInvoiceStatus(ctx, id, books.StatusOverdue))
		_, err := tx.AddInvoice(ctx, books.Invoice{Creditor: "Orange"})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	invoices, err := m.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, books.StatusOpen, invoices[0].Status)
}

func TestMemory_WithInvoiceTx_Commits(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	id, err := m.AddInvoice(ctx, books.Invoice{Creditor: "EDF", Status: books.StatusOpen})
	require.NoError(t, err)

	err = m.WithInvoiceTx(ctx, func(tx books.InvoiceStore) error {
		return tx.MarkInvoicePaid(ctx, id, books.NewDate(2020, time.January, 1))
	})
	require.NoError(t, err)

	invoices, err := m.ListInvoices(ctx)
	require.NoError(t, err)
	assert.Equal(t, books.StatusPaid, invoices[0].Status)
	assert.Equal(t, "2020-01-01", invoices[0].PaymentDate)
}

func TestMemory_ListReturnsCopies(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	_, err := m.AddInvoice(ctx, books.Invoice{Creditor: "EDF", Status: books.StatusOpen})
	require.NoError(t, err)

	listed, err := m.ListInvoices(ctx)
	require.NoError(t, err)
	listed[0].Creditor = "changed"

	again, err := m.ListInvoices(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EDF", again[0].Creditor)
}

func TestMemory_TaxonomyIDsPerKind(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	a, err := m.AddTaxonomyValue(ctx, books.Creditors, "EDF")
	require.NoError(t, err)
	b, err := m.AddTaxonomyValue(ctx, books.Concerns, "Home")
	require.NoError(t, err)
	assert.Equal(t, books.ID(1), a)
	assert.Equal(t, books.ID(1), b)

	require.NoError(t, m.DeleteTaxonomyValue(ctx, books.Creditors, a))
	c, err := m.AddTaxonomyValue(ctx, books.Creditors, "Orange")
	require.NoError(t, err)
	assert.Equal(t, books.ID(2), c)
}
