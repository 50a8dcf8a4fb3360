/*
types.go - Records and taxonomies of the bookkeeping core

PURPOSE:
  Defines the four record kinds (Invoice, Revenue, AdminDocument, Task) and
  the ten flat taxonomies that classify them.

KEY DESIGN DECISIONS:
  1. Records reference taxonomy values by name, never by id. Nothing keeps
     the two in sync: deleting a creditor leaves invoices naming it alone.
  2. Status fields are open strings. The constants below are the values the
     lifecycle understands; any other string is stored and returned as-is.
  3. Dates stay as text on the record. An unparseable due date must still be
     storable so it can fail loudly when the lifecycle evaluates it.
  4. Optional text fields use the empty string for "absent" (NULL on disk).
*/
package books

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ID is a store-assigned row identifier.
type ID = int64

// =============================================================================
// TAXONOMIES
// =============================================================================

// TaxonomyKind names one of the classification lists.
type TaxonomyKind string

const (
	Creditors               TaxonomyKind = "creditors"
	Concerns                TaxonomyKind = "concerns"
	Categories              TaxonomyKind = "categories"
	Sources                 TaxonomyKind = "sources"
	RevenueTypes            TaxonomyKind = "revenue-types"
	TaskCategories          TaxonomyKind = "task-categories"
	TaskPriorities          TaxonomyKind = "task-priorities"
	TaskStatuses            TaxonomyKind = "task-statuses"
	AdminDocumentConcerns   TaxonomyKind = "admin-document-concerns"
	AdminDocumentCategories TaxonomyKind = "admin-document-categories"
)

var taxonomyTables = map[TaxonomyKind]string{
	Creditors:               "creditors",
	Concerns:                "concerns",
	Categories:              "categories",
	Sources:                 "sources",
	RevenueTypes:            "revenue_types",
	TaskCategories:          "task_categories",
	TaskPriorities:          "task_priorities",
	TaskStatuses:            "task_statuses",
	AdminDocumentConcerns:   "admin_documents_concerns",
	AdminDocumentCategories: "admin_documents_categories",
}

// TaxonomyKinds lists every kind in a stable order.
func TaxonomyKinds() []TaxonomyKind {
	return []TaxonomyKind{
		Creditors, Concerns, Categories,
		Sources, RevenueTypes,
		TaskCategories, TaskPriorities, TaskStatuses,
		AdminDocumentConcerns, AdminDocumentCategories,
	}
}

// ParseTaxonomyKind accepts a kind slug or its table name.
func ParseTaxonomyKind(s string) (TaxonomyKind, error) {
	if _, ok := taxonomyTables[TaxonomyKind(s)]; ok {
		return TaxonomyKind(s), nil
	}
	for kind, table := range taxonomyTables {
		if table == s {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownTaxonomy, s)
}

// Table returns the table backing the kind.
func (k TaxonomyKind) Table() (string, error) {
	table, ok := taxonomyTables[k]
	if !ok {
		return "", ErrUnknownTaxonomy
	}
	return table, nil
}

func (k TaxonomyKind) Valid() bool {
	_, ok := taxonomyTables[k]
	return ok
}

// TaxonomyValue is one named entry of a taxonomy.
type TaxonomyValue struct {
	ID   ID
	Name string
}

// =============================================================================
// INVOICES
// =============================================================================

// InvoiceStatus is an open string; see the constants for known values.
type InvoiceStatus string

const (
	StatusOpen    InvoiceStatus = "Open"
	StatusOverdue InvoiceStatus = "Overdue"
	StatusPaid    InvoiceStatus = "Paid"
)

// Invoice is an amount owed to a creditor.
type Invoice struct {
	ID          ID
	Creditor    string
	Concern     string
	Category    string
	Amount      decimal.Decimal
	DueDate     string // YYYY-MM-DD
	Path        string
	Description string
	Status      InvoiceStatus
	PaymentDate string // YYYY-MM-DD, set once paid
}

// =============================================================================
// REVENUES
// =============================================================================

// Revenue is a received payment. It has no lifecycle.
type Revenue struct {
	ID          ID
	Source      string
	Type        string
	Amount      decimal.Decimal
	ReceiptDate string
	Description string
	Path        string
}

// =============================================================================
// ADMIN DOCUMENTS
// =============================================================================

// AdminDocument is a reference to an administrative file on disk.
type AdminDocument struct {
	ID          ID
	Concern     string
	Category    string
	Description string
	Status      string
	Path        string
}

// =============================================================================
// TASKS
// =============================================================================

// Task is a to-do item. CreationDate is stamped by the store on add and on
// every update.
type Task struct {
	ID           ID
	Title        string
	Description  string
	Status       string
	Priority     string
	DueDate      string
	CreationDate string
	Category     string
	Attachments  string
}
