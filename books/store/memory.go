// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/paperwork/books"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps every table in slices ordered by id. Ids are never reused.
type Memory struct {
	mu    sync.RWMutex
	clock books.Clock

	taxonomies map[books.TaxonomyKind][]books.TaxonomyValue
	invoices   []books.Invoice
	revenues   []books.Revenue
	documents  []books.AdminDocument
	tasks      []books.Task

	lastID map[string]books.ID
}

var _ books.Store = (*Memory)(nil)

// NewMemory creates an empty store. clock stamps task creation dates; nil
// means books.SystemClock.
func NewMemory(clock books.Clock) *Memory {
	if clock == nil {
		clock = books.SystemClock
	}
	return &Memory{
		clock:      clock,
		taxonomies: make(map[books.TaxonomyKind][]books.TaxonomyValue),
		lastID:     make(map[string]books.ID),
	}
}

func (m *Memory) nextIDLocked(table string) books.ID {
	m.lastID[table]++
	return m.lastID[table]
}

// removeByID deletes the element whose id matches, preserving order.
func removeByID[T any](items []T, id books.ID, idOf func(T) books.ID) []T {
	for i := range items {
		if idOf(items[i]) == id {
			return append(items[:i:i], items[i+1:]...)
		}
	}
	return items
}

// =============================================================================
// TAXONOMIES
// =============================================================================

func (m *Memory) AddTaxonomyValue(_ context.Context, kind books.TaxonomyKind, name string) (books.ID, error) {
	table, err := kind.Table()
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v := books.TaxonomyValue{ID: m.nextIDLocked(table), Name: name}
	m.taxonomies[kind] = append(m.taxonomies[kind], v)
	return v.ID, nil
}

func (m *Memory) ListTaxonomy(_ context.Context, kind books.TaxonomyKind) ([]books.TaxonomyValue, error) {
	if !kind.Valid() {
		return nil, books.ErrUnknownTaxonomy
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]books.TaxonomyValue(nil), m.taxonomies[kind]...), nil
}

func (m *Memory) DeleteTaxonomyValue(_ context.Context, kind books.TaxonomyKind, id books.ID) error {
	if !kind.Valid() {
		return books.ErrUnknownTaxonomy
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taxonomies[kind] = removeByID(m.taxonomies[kind], id, func(v books.TaxonomyValue) books.ID { return v.ID })
	return nil
}

// =============================================================================
// INVOICES
// =============================================================================

func (m *Memory) AddInvoice(ctx context.Context, inv books.Invoice) (books.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().AddInvoice(ctx, inv)
}

func (m *Memory) ListInvoices(ctx context.Context) ([]books.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tx().ListInvoices(ctx)
}

func (m *Memory) DeleteInvoice(ctx context.Context, id books.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().DeleteInvoice(ctx, id)
}

func (m *Memory) SetInvoiceStatus(ctx context.Context, id books.ID, status books.InvoiceStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().SetInvoiceStatus(ctx, id, status)
}

func (m *Memory) MarkInvoicePaid(ctx context.Context, id books.ID, paidOn books.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().MarkInvoicePaid(ctx, id, paidOn)
}

// WithInvoiceTx runs fn against a private copy of the invoice table and
// installs the copy only if fn succeeds. The store is locked for the whole
// call, so fn must only use tx.
func (m *Memory) WithInvoiceTx(_ context.Context, fn func(tx books.InvoiceStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryInvoiceTx{
		invoices: append([]books.Invoice(nil), m.invoices...),
		lastID:   m.lastID["invoices"],
	}
	if err := fn(tx); err != nil {
		return err
	}
	m.invoices = tx.invoices
	m.lastID["invoices"] = tx.lastID
	return nil
}

// tx returns a view that writes straight through to m. Callers hold m.mu.
func (m *Memory) tx() *memoryInvoiceTx {
	return &memoryInvoiceTx{invoices: m.invoices, lastID: m.lastID["invoices"], commit: m}
}

type memoryInvoiceTx struct {
	invoices []books.Invoice
	lastID   books.ID
	commit   *Memory // non-nil: write changes back immediately
}

func (t *memoryInvoiceTx) flush() {
	if t.commit != nil {
		t.commit.invoices = t.invoices
		t.commit.lastID["invoices"] = t.lastID
	}
}

func (t *memoryInvoiceTx) AddInvoice(_ context.Context, inv books.Invoice) (books.ID, error) {
	t.lastID++
	inv.ID = t.lastID
	t.invoices = append(t.invoices, inv)
	t.flush()
	return inv.ID, nil
}

func (t *memoryInvoiceTx) ListInvoices(_ context.Context) ([]books.Invoice, error) {
	return append([]books.Invoice(nil), t.invoices...), nil
}

func (t *memoryInvoiceTx) DeleteInvoice(_ context.Context, id books.ID) error {
	t.invoices = removeByID(t.invoices, id, func(inv books.Invoice) books.ID { return inv.ID })
	t.flush()
	return nil
}

func (t *memoryInvoiceTx) SetInvoiceStatus(_ context.Context, id books.ID, status books.InvoiceStatus) error {
	t.update(id, func(inv *books.Invoice) { inv.Status = status })
	return nil
}

func (t *memoryInvoiceTx) MarkInvoicePaid(_ context.Context, id books.ID, paidOn books.Date) error {
	t.update(id, func(inv *books.Invoice) {
		inv.Status = books.StatusPaid
		inv.PaymentDate = paidOn.String()
	})
	return nil
}

func (t *memoryInvoiceTx) update(id books.ID, fn func(*books.Invoice)) {
	for i := range t.invoices {
		if t.invoices[i].ID == id {
			// copy-on-write so a snapshot held by WithInvoiceTx is not mutated
			invoices := append([]books.Invoice(nil), t.invoices...)
			fn(&invoices[i])
			t.invoices = invoices
			t.flush()
			return
		}
	}
}

// =============================================================================
// REVENUES
// =============================================================================

func (m *Memory) AddRevenue(_ context.Context, rev books.Revenue) (books.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rev.ID = m.nextIDLocked("revenues")
	m.revenues = append(m.revenues, rev)
	return rev.ID, nil
}

func (m *Memory) ListRevenues(_ context.Context) ([]books.Revenue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]books.Revenue(nil), m.revenues...), nil
}

func (m *Memory) DeleteRevenue(_ context.Context, id books.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revenues = removeByID(m.revenues, id, func(r books.Revenue) books.ID { return r.ID })
	return nil
}

// =============================================================================
// ADMIN DOCUMENTS
// =============================================================================

func (m *Memory) AddAdminDocument(_ context.Context, doc books.AdminDocument) (books.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.ID = m.nextIDLocked("admin_documents")
	m.documents = append(m.documents, doc)
	return doc.ID, nil
}

func (m *Memory) ListAdminDocuments(_ context.Context) ([]books.AdminDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]books.AdminDocument(nil), m.documents...), nil
}

func (m *Memory) DeleteAdminDocument(_ context.Context, id books.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = removeByID(m.documents, id, func(d books.AdminDocument) books.ID { return d.ID })
	return nil
}

// =============================================================================
// TASKS
// =============================================================================

func (m *Memory) AddTask(_ context.Context, task books.Task) (books.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task.ID = m.nextIDLocked("tasks")
	task.CreationDate = m.clock.Now().Format(books.TimestampLayout)
	m.tasks = append(m.tasks, task)
	return task.ID, nil
}

func (m *Memory) ListTasks(_ context.Context) ([]books.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]books.Task(nil), m.tasks...), nil
}

func (m *Memory) DeleteTask(_ context.Context, id books.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = removeByID(m.tasks, id, func(t books.Task) books.ID { return t.ID })
	return nil
}

func (m *Memory) UpdateTask(_ context.Context, task books.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == task.ID {
			task.CreationDate = m.clock.Now().Format(books.TimestampLayout)
			m.tasks[i] = task
			return nil
		}
	}
	return nil
}
