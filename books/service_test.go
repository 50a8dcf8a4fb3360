package books_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/paperwork/books"
	"github.com/warp/paperwork/books/store"
)

// =============================================================================
// TAXONOMIES
// =============================================================================

func TestTaxonomy_AddListDelete(t *testing.T) {
	svc, _ := newService(fixedClock(day(2020, time.January, 1)))
	ctx := context.Background()

	edf, err := svc.AddTaxonomyValue(ctx, books.Creditors, "EDF")
	require.NoError(t, err)
	_, err = svc.AddTaxonomyValue(ctx, books.Creditors, "Orange")
	require.NoError(t, err)
	_, err = svc.AddTaxonomyValue(ctx, books.Creditors, "EDF")
	require.NoError(t, err, "duplicates are allowed")

	require.NoError(t, svc.DeleteTaxonomyValue(ctx, books.Creditors, edf))

	values, err := svc.ListTaxonomy(ctx, books.Creditors)
	require.NoError(t, err)
	assert.Equal(t, []books.TaxonomyValue{{ID: 2, Name: "Orange"}, {ID: 3, Name: "EDF"}}, values)

	// Other kinds are independent.
	concerns, err := svc.ListTaxonomy(ctx, books.Concerns)
	require.NoError(t, err)
	assert.Empty(t, concerns)
}

func TestTaxonomy_Validation(t *testing.T) {
	svc, _ := newService(fixedClock(day(2020, time.January, 1)))
	ctx := context.Background()

	_, err := svc.AddTaxonomyValue(ctx, books.Sources, "")
	assert.True(t, books.IsValidation(err))

	_, err = svc.AddTaxonomyValue(ctx, books.TaxonomyKind("planets"), "Mars")
	assert.ErrorIs(t, err, books.ErrUnknownTaxonomy)
	assert.True(t, books.IsValidation(err))

	_, err = svc.ListTaxonomy(ctx, books.TaxonomyKind("planets"))
	assert.ErrorIs(t, err, books.ErrUnknownTaxonomy)
}

func TestTaxonomy_DeleteLeavesRecordsAlone(t *testing.T) {
	svc, _ := newService(fixedClock(day(2020, time.January, 1)))
	ctx := context.Background()

	id, err := svc.AddTaxonomyValue(ctx, books.Creditors, "EDF")
	require.NoError(t, err)
	_, err = svc.AddInvoice(ctx, openInvoice("EDF", "2020-02-01"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTaxonomyValue(ctx, books.Creditors, id))

	invoices, err := svc.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "EDF", invoices[0].Creditor)
}

// =============================================================================
// INVOICES
// =============================================================================

func TestAddInvoice_Defaults(t *testing.T) {
	svc, _ := newService(fixedClock(day(2020, time.January, 1)))
	ctx := context.Background()

	inv := openInvoice("EDF", "2020-02-01")
	inv.ID = 77
	id, err := svc.AddInvoice(ctx, inv)
	require.NoError(t, err)
	assert.Equal(t, books.ID(1), id)

	invoices, err := svc.ListInvoices(ctx)
	require.NoError(t, err)
	assert.Equal(t, books.StatusOpen, invoices[0].Status)
	assert.True(t, invoices[0].Amount.Equal(decimal.RequireFromString("42.1")))
}

func TestAddInvoice_Validation(t *testing.T) {
	svc, _ := newService(fixedClock(day(2020, time.January, 1)))
	ctx := context.Background()

	neg := openInvoice("EDF", "2020-02-01")
	neg.Amount = decimal.RequireFromString("-0.01")
	_, err := svc.AddInvoice(ctx, neg)
	assert.True(t, books.IsValidation(err))

	paid := openInvoice("EDF", "2020-02-01")
	paid.Status = books.StatusPaid
	_, err = svc.AddInvoice(ctx, paid)
	assert.True(t, books.IsValidation(err))

	paid.PaymentDate = "2020-01-01"
	_, err = svc.AddInvoice(ctx, paid)
	assert.NoError(t, err)
}

func TestDeleteInvoice(t *testing.T) {
	svc, _ := newService(fixedClock(day(2020, time.January, 1)))
	ctx := context.Background()

	first, err := svc.AddInvoice(ctx, openInvoice("EDF", "2020-02-01"))
	require.NoError(t, err)
	_, err = svc.AddInvoice(ctx, openInvoice("Orange", "2020-02-01"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteInvoice(ctx, first))
	require.NoError(t, svc.DeleteInvoice(ctx, first), "deleting twice is a no-op")

	invoices, err := svc.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "Orange", invoices[0].Creditor)

	// Ids are not reused.
	next, err := svc.AddInvoice(ctx, openInvoice("SNCF", "2020-02-01"))
	require.NoError(t, err)
	assert.Equal(t, books.ID(3), next)
}

// =============================================================================
// REVENUES & ADMIN DOCUMENTS
// =============================================================================

func TestRevenues(t *testing.T) {
	svc, _ := newService(fixedClock(day(2020, time.January, 1)))
	ctx := context.Background()

	id, err := svc.AddRevenue(ctx, books.Revenue{
		Source: "ACME", Type: "Salary", Amount: decimal.RequireFromString("2500"), ReceiptDate: "2020-01-01",
	})
	require.NoError(t, err)

	revenues, err := svc.ListRevenues(ctx)
	require.NoError(t, err)
	require.Len(t, revenues, 1)
	assert.Equal(t, "ACME", revenues[0].Source)

	require.NoError(t, svc.DeleteRevenue(ctx, id))
	revenues, err = svc.ListRevenues(ctx)
	require.NoError(t, err)
	assert.Empty(t, revenues)
}

func TestAdminDocuments_RequireEveryField(t *testing.T) {
	svc, _ := newService(fixedClock(day(2020, time.January, 1)))
	ctx := context.Background()

	full := books.AdminDocument{
		Concern: "Car", Category: "Insurance", Description: "Policy", Status: "Valid", Path: "/docs/car.pdf",
	}

	for _, blank := range []func(*books.AdminDocument){
		func(d *books.AdminDocument) { d.Concern = "" },
		func(d *books.AdminDocument) { d.Category = "" },
		func(d *books.AdminDocument) { d.Description = "" },
		func(d *books.AdminDocument) { d.Status = "" },
		func(d *books.AdminDocument) { d.Path = "" },
	} {
		doc := full
		blank(&doc)
		_, err := svc.AddAdminDocument(ctx, doc)
		assert.True(t, books.IsValidation(err))
	}

	id, err := svc.AddAdminDocument(ctx, full)
	require.NoError(t, err)

	docs, err := svc.ListAdminDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	full.ID = id
	assert.Equal(t, full, docs[0])

	require.NoError(t, svc.DeleteAdminDocument(ctx, id))
}

// =============================================================================
// TASKS
// =============================================================================

func TestTasks_CreationDateStampedByStore(t *testing.T) {
	svc, _ := newService(fixedClock(time.Date(2020, 1, 1, 8, 15, 30, 0, time.UTC)))
	ctx := context.Background()

	_, err := svc.AddTask(ctx, books.Task{Title: "Taxes", Status: "Todo", Priority: "High", CreationDate: "1999-01-01"})
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01 08:15:30", tasks[0].CreationDate)
}

func TestTasks_UpdateResetsCreationDate(t *testing.T) {
	svc, _ := newService(steppingClock(time.Date(2020, 1, 1, 8, 0, 0, 0, time.UTC), time.Second))
	ctx := context.Background()

	id, err := svc.AddTask(ctx, books.Task{Title: "Taxes", Status: "Todo", Priority: "High"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateTask(ctx, id, books.Task{Title: "Taxes", Status: "Doing", Priority: "High"}))
	first, err := svc.ListTasks(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateTask(ctx, id, books.Task{Title: "Taxes", Status: "Done", Priority: "Low"}))
	second, err := svc.ListTasks(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Done", second[0].Status)
	assert.NotEqual(t, first[0].CreationDate, second[0].CreationDate)
}

func TestTasks_Validation(t *testing.T) {
	svc, _ := newService(fixedClock(day(2020, time.January, 1)))
	ctx := context.Background()

	_, err := svc.AddTask(ctx, books.Task{Status: "Todo"})
	assert.True(t, books.IsValidation(err))

	err = svc.UpdateTask(ctx, 1, books.Task{})
	assert.True(t, books.IsValidation(err))
}

func TestTasks_UpdateUnknownIDIsNoop(t *testing.T) {
	svc, _ := newService(fixedClock(day(2020, time.January, 1)))
	ctx := context.Background()

	_, err := svc.AddTask(ctx, books.Task{Title: "Taxes", Status: "Todo"})
	require.NoError(t, err)
	before, err := svc.ListTasks(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateTask(ctx, 42, books.Task{Title: "Ghost", Status: "Done"}))

	after, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTasks_Delete(t *testing.T) {
	svc, _ := newService(fixedClock(day(2020, time.January, 1)))
	ctx := context.Background()

	id, err := svc.AddTask(ctx, books.Task{Title: "Taxes"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTask(ctx, id))

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

// =============================================================================
// OPEN PATH & STORE ERRORS
// =============================================================================

type recordingOpener struct{ paths []string }

func (o *recordingOpener) Open(_ context.Context, path string) error {
	o.paths = append(o.paths, path)
	return nil
}

func TestOpenPath(t *testing.T) {
	svc, _ := newService(fixedClock(day(2020, time.January, 1)))
	ctx := context.Background()

	assert.ErrorIs(t, svc.OpenPath(ctx, "/docs/a.pdf"), books.ErrNoOpener)
	assert.True(t, books.IsValidation(svc.OpenPath(ctx, "")))

	opener := &recordingOpener{}
	svc = books.NewService(store.NewMemory(nil), books.WithOpener(opener))
	require.NoError(t, svc.OpenPath(ctx, "/docs/a.pdf"))
	assert.Equal(t, []string{"/docs/a.pdf"}, opener.paths)
}

// brokenStore fails every revenue read.
type brokenStore struct {
	*store.Memory
}

func (brokenStore) ListRevenues(context.Context) ([]books.Revenue, error) {
	return nil, books.Persistence("list revenues", errors.New("disk I/O error"))
}

func TestStoreErrorsPropagate(t *testing.T) {
	svc := books.NewService(brokenStore{store.NewMemory(nil)})

	_, err := svc.ListRevenues(context.Background())

	require.Error(t, err)
	assert.True(t, books.IsPersistence(err))
	assert.False(t, books.IsValidation(err))

	var pe *books.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "list revenues", pe.Op)
}
