/*
Package sqlite provides the SQLite-backed implementation of books.Store.

PURPOSE:
  Owns the single on-disk database file and guarantees the fixed set of
  tables exists before anything else runs.

INTERFACES IMPLEMENTED:
  books.TaxonomyStore, books.InvoiceTxStore, books.RevenueStore,
  books.AdminDocumentStore, books.TaskStore

KEY TABLES:
  invoices, revenues, admin_documents, tasks:  records
  creditors, concerns, categories, sources, revenue_types,
  task_categories, task_priorities, task_statuses,
  admin_documents_concerns, admin_documents_categories: taxonomies

  Records name taxonomy values as plain text. There are no foreign keys.

SCHEMA:
  Created with CREATE TABLE IF NOT EXISTS on New(), so opening an existing
  file is a no-op. There is no schema version and no migration: a column
  change needs manual intervention on the file.

CONNECTIONS:
  Every operation acquires its own connection from the pool and releases it
  before returning. Nothing is cached in process.

CONCURRENCY:
  WAL journal: readers see the last committed state and never block the
  writer. Transactions start with BEGIN IMMEDIATE (_txlock=immediate), so
  the invoice lifecycle pass holds the write lock from its first read to its
  commit and a concurrent pay lands either before or after it. Writers in
  this process are additionally serialized with a mutex to avoid
  SQLITE_BUSY churn.

USAGE:
  store, err := sqlite.New("./paperwork.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := books.NewService(store)
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/paperwork/books"
)

// Store implements books.Store using SQLite.
type Store struct {
	db    *sql.DB
	clock books.Clock
	mu    sync.RWMutex
}

var _ books.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp task creation dates.
func WithClock(c books.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// New opens (creating if needed) the database at dbPath and creates any
// missing table. Use ":memory:" for an in-memory database.
func New(dbPath string, opts ...Option) (*Store, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, books.Persistence("create database directory", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, books.Persistence("open database", err)
	}
	if dbPath == ":memory:" {
		// each connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, clock: books.SystemClock}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.Initialize(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Initialize creates every table that does not exist yet. Safe to call on
// every start.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withConn(ctx, "initialize schema", func(q querier) error {
		_, err := q.ExecContext(ctx, schema)
		return err
	})
}

const schema = `
	-- Invoices
	CREATE TABLE IF NOT EXISTS invoices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		creditor TEXT NOT NULL,
		concern TEXT NOT NULL,
		category TEXT NOT NULL,
		amount REAL NOT NULL,
		due_date TEXT NOT NULL,
		path TEXT,
		description TEXT,
		status TEXT,
		payment_date TEXT
	);

	-- Revenues
	CREATE TABLE IF NOT EXISTS revenues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		revenue_type TEXT NOT NULL,
		revenue_amount REAL NOT NULL,
		receipt_date TEXT NOT NULL,
		revenue_description TEXT,
		revenue_path TEXT
	);

	-- Admin documents
	CREATE TABLE IF NOT EXISTS admin_documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		admin_doc_concern TEXT NOT NULL,
		admin_doc_category TEXT NOT NULL,
		admin_doc_description TEXT NOT NULL,
		admin_doc_status TEXT NOT NULL,
		admin_doc_path TEXT NOT NULL
	);

	-- Tasks
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL,
		priority TEXT NOT NULL,
		due_date TEXT,
		creation_date TEXT NOT NULL,
		category TEXT,
		attachments TEXT
	);

	-- Taxonomies
	CREATE TABLE IF NOT EXISTS creditors (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
	CREATE TABLE IF NOT EXISTS concerns (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
	CREATE TABLE IF NOT EXISTS categories (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
	CREATE TABLE IF NOT EXISTS sources (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
	CREATE TABLE IF NOT EXISTS revenue_types (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
	CREATE TABLE IF NOT EXISTS task_categories (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
	CREATE TABLE IF NOT EXISTS task_priorities (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
	CREATE TABLE IF NOT EXISTS task_statuses (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
	CREATE TABLE IF NOT EXISTS admin_documents_concerns (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
	CREATE TABLE IF NOT EXISTS admin_documents_categories (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
	`

// =============================================================================
// CONNECTION SCOPE
// =============================================================================

// querier is what both *sql.Conn and *sql.Tx offer.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withConn acquires a connection for the duration of fn and wraps any
// failure as a books.PersistenceError for op.
func (s *Store) withConn(ctx context.Context, op string, fn func(q querier) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return books.Persistence(op, err)
	}
	defer conn.Close()

	return books.Persistence(op, fn(conn))
}

// WithInvoiceTx runs fn inside one IMMEDIATE transaction.
func (s *Store) WithInvoiceTx(ctx context.Context, fn func(tx books.InvoiceStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return books.Persistence("begin transaction", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}
	return books.Persistence("commit transaction", sqlTx.Commit())
}

// txStore runs invoice operations against an open transaction.
type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) AddInvoice(ctx context.Context, inv books.Invoice) (books.ID, error) {
	id, err := insertInvoice(ctx, ts.tx, inv)
	return id, books.Persistence("add invoice", err)
}

func (ts *txStore) ListInvoices(ctx context.Context) ([]books.Invoice, error) {
	invoices, err := selectInvoices(ctx, ts.tx)
	return invoices, books.Persistence("list invoices", err)
}

func (ts *txStore) DeleteInvoice(ctx context.Context, id books.ID) error {
	return books.Persistence("delete invoice", deleteRow(ctx, ts.tx, "invoices", id))
}

func (ts *txStore) SetInvoiceStatus(ctx context.Context, id books.ID, status books.InvoiceStatus) error {
	return books.Persistence("set invoice status", updateInvoiceStatus(ctx, ts.tx, id, status))
}

func (ts *txStore) MarkInvoicePaid(ctx context.Context, id books.ID, paidOn books.Date) error {
	return books.Persistence("pay invoice", markInvoicePaid(ctx, ts.tx, id, paidOn))
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func insertRow(ctx context.Context, q querier, query string, args ...any) (books.ID, error) {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// deleteRow removes a row by id. table must be a trusted constant.
func deleteRow(ctx context.Context, q querier, table string, id books.ID) error {
	_, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	return err
}
