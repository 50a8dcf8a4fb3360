/*
store.go - Persistence interfaces for taxonomies and records

PURPOSE:
  Defines the boundary between the bookkeeping service and the database.
  The service never caches: every call reads or writes the store directly,
  so two callers only ever disagree by what the store's isolation allows.

KEY INTERFACES:
  TaxonomyStore:      add/list/delete for every taxonomy kind
  InvoiceStore:       invoice CRUD plus the two lifecycle writes
  InvoiceTxStore:     runs a function against a transactional InvoiceStore
  RevenueStore, AdminDocumentStore, TaskStore: plain CRUD
  Store:              everything above, what the Service needs

CONTRACT:
  - List methods return rows in id order (insertion order).
  - Delete, SetInvoiceStatus, MarkInvoicePaid and UpdateTask on an id that
    does not exist are no-ops, not errors.
  - Failures are returned as *PersistenceError.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store
  - books/store:  in-memory double for tests
*/
package books

import "context"

// TaxonomyStore persists the flat classification lists.
type TaxonomyStore interface {
	AddTaxonomyValue(ctx context.Context, kind TaxonomyKind, name string) (ID, error)
	ListTaxonomy(ctx context.Context, kind TaxonomyKind) ([]TaxonomyValue, error)
	DeleteTaxonomyValue(ctx context.Context, kind TaxonomyKind, id ID) error
}

// InvoiceStore persists invoices.
type InvoiceStore interface {
	AddInvoice(ctx context.Context, inv Invoice) (ID, error)
	ListInvoices(ctx context.Context) ([]Invoice, error)
	DeleteInvoice(ctx context.Context, id ID) error

	// SetInvoiceStatus overwrites the status column only.
	SetInvoiceStatus(ctx context.Context, id ID, status InvoiceStatus) error

	// MarkInvoicePaid sets status to Paid and the payment date, whatever the
	// current status is.
	MarkInvoicePaid(ctx context.Context, id ID, paidOn Date) error
}

// InvoiceTxStore can run several invoice operations atomically.
type InvoiceTxStore interface {
	InvoiceStore

	// WithInvoiceTx runs fn inside one transaction. If fn returns an error
	// nothing fn wrote is kept.
	WithInvoiceTx(ctx context.Context, fn func(tx InvoiceStore) error) error
}

// RevenueStore persists revenues.
type RevenueStore interface {
	AddRevenue(ctx context.Context, rev Revenue) (ID, error)
	ListRevenues(ctx context.Context) ([]Revenue, error)
	DeleteRevenue(ctx context.Context, id ID) error
}

// AdminDocumentStore persists administrative documents.
type AdminDocumentStore interface {
	AddAdminDocument(ctx context.Context, doc AdminDocument) (ID, error)
	ListAdminDocuments(ctx context.Context) ([]AdminDocument, error)
	DeleteAdminDocument(ctx context.Context, id ID) error
}

// TaskStore persists tasks. Implementations stamp CreationDate themselves.
type TaskStore interface {
	AddTask(ctx context.Context, task Task) (ID, error)
	ListTasks(ctx context.Context) ([]Task, error)
	DeleteTask(ctx context.Context, id ID) error

	// UpdateTask overwrites every mutable field of task.ID, including
	// CreationDate which is reset to now.
	UpdateTask(ctx context.Context, task Task) error
}

// Store is the full persistence surface used by Service.
type Store interface {
	TaxonomyStore
	InvoiceTxStore
	RevenueStore
	AdminDocumentStore
	TaskStore
}
