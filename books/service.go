/*
service.go - Request/response operations exposed to the boundary layer

PURPOSE:
  Service is the one entry point the HTTP API and the CLI call. It checks
  caller input, delegates to the Store, and owns the invoice lifecycle
  (see lifecycle.go). Every method is one all-or-nothing operation.

VALIDATION:
  - Taxonomy names must be non-empty. Duplicates are allowed.
  - Invoice amounts must be non-negative; status defaults to Open; a Paid
    invoice must carry a payment date. Due dates are NOT checked here: a bad
    due date is stored and fails later, when the lifecycle evaluates it.
  - Admin documents need every field.
  - Tasks need a title.

Taxonomy values are never checked against records and vice versa.
*/
package books

import (
	"context"
	"errors"
	"log/slog"
)

// PathOpener hands a stored path to the operating system.
type PathOpener interface {
	Open(ctx context.Context, path string) error
}

// ErrNoOpener is returned by OpenPath when no PathOpener was configured.
var ErrNoOpener = errors.New("no path opener configured")

// Service implements the bookkeeping operations over a Store.
type Service struct {
	store  Store
	clock  Clock
	opener PathOpener
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the source of "today". Defaults to SystemClock.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithOpener sets the OS path opener used by OpenPath.
func WithOpener(o PathOpener) Option {
	return func(s *Service) { s.opener = o }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a service over store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		clock:  SystemClock,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// TAXONOMIES
// =============================================================================

func (s *Service) AddTaxonomyValue(ctx context.Context, kind TaxonomyKind, name string) (ID, error) {
	if !kind.Valid() {
		return 0, ErrUnknownTaxonomy
	}
	if err := required("name", name); err != nil {
		return 0, err
	}
	return s.store.AddTaxonomyValue(ctx, kind, name)
}

func (s *Service) ListTaxonomy(ctx context.Context, kind TaxonomyKind) ([]TaxonomyValue, error) {
	if !kind.Valid() {
		return nil, ErrUnknownTaxonomy
	}
	return s.store.ListTaxonomy(ctx, kind)
}

// DeleteTaxonomyValue removes a value. Records naming it are not touched.
func (s *Service) DeleteTaxonomyValue(ctx context.Context, kind TaxonomyKind, id ID) error {
	if !kind.Valid() {
		return ErrUnknownTaxonomy
	}
	return s.store.DeleteTaxonomyValue(ctx, kind, id)
}

// =============================================================================
// INVOICES
// =============================================================================

// AddInvoice stores a new invoice. An empty status becomes Open.
func (s *Service) AddInvoice(ctx context.Context, inv Invoice) (ID, error) {
	if inv.Amount.IsNegative() {
		return 0, &ValidationError{Field: "amount", Value: inv.Amount.String(), Reason: "must not be negative"}
	}
	if inv.Status == "" {
		inv.Status = StatusOpen
	}
	if inv.Status == StatusPaid && inv.PaymentDate == "" {
		return 0, &ValidationError{Field: "payment_date", Reason: "required when status is Paid"}
	}
	inv.ID = 0
	return s.store.AddInvoice(ctx, inv)
}

func (s *Service) DeleteInvoice(ctx context.Context, id ID) error {
	return s.store.DeleteInvoice(ctx, id)
}

// =============================================================================
// REVENUES
// =============================================================================

func (s *Service) AddRevenue(ctx context.Context, rev Revenue) (ID, error) {
	rev.ID = 0
	return s.store.AddRevenue(ctx, rev)
}

func (s *Service) ListRevenues(ctx context.Context) ([]Revenue, error) {
	return s.store.ListRevenues(ctx)
}

func (s *Service) DeleteRevenue(ctx context.Context, id ID) error {
	return s.store.DeleteRevenue(ctx, id)
}

// =============================================================================
// ADMIN DOCUMENTS
// =============================================================================

func (s *Service) AddAdminDocument(ctx context.Context, doc AdminDocument) (ID, error) {
	for _, f := range []struct{ name, value string }{
		{"concern", doc.Concern},
		{"category", doc.Category},
		{"description", doc.Description},
		{"status", doc.Status},
		{"path", doc.Path},
	} {
		if err := required(f.name, f.value); err != nil {
			return 0, err
		}
	}
	doc.ID = 0
	return s.store.AddAdminDocument(ctx, doc)
}

func (s *Service) ListAdminDocuments(ctx context.Context) ([]AdminDocument, error) {
	return s.store.ListAdminDocuments(ctx)
}

func (s *Service) DeleteAdminDocument(ctx context.Context, id ID) error {
	return s.store.DeleteAdminDocument(ctx, id)
}

// =============================================================================
// TASKS
// =============================================================================

// AddTask stores a task. CreationDate is ignored; the store stamps it.
func (s *Service) AddTask(ctx context.Context, task Task) (ID, error) {
	if err := required("title", task.Title); err != nil {
		return 0, err
	}
	task.ID = 0
	task.CreationDate = ""
	return s.store.AddTask(ctx, task)
}

func (s *Service) ListTasks(ctx context.Context) ([]Task, error) {
	return s.store.ListTasks(ctx)
}

func (s *Service) DeleteTask(ctx context.Context, id ID) error {
	return s.store.DeleteTask(ctx, id)
}

// UpdateTask overwrites every field of the task with the given id.
// CreationDate is reset to now on each update, as the store has always done;
// callers relying on it as a creation time will see the last edit instead.
func (s *Service) UpdateTask(ctx context.Context, id ID, task Task) error {
	if err := required("title", task.Title); err != nil {
		return err
	}
	task.ID = id
	task.CreationDate = ""
	return s.store.UpdateTask(ctx, task)
}

// =============================================================================
// UTILITIES
// =============================================================================

// OpenPath asks the operating system to open a stored file path.
func (s *Service) OpenPath(ctx context.Context, path string) error {
	if err := required("path", path); err != nil {
		return err
	}
	if s.opener == nil {
		return ErrNoOpener
	}
	return s.opener.Open(ctx, path)
}
