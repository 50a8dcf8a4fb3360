/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Field names follow the
  column names the desktop UI already sends and reads (admin_doc_*,
  revenue_*), so the UI can switch to this API without renaming anything.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Small response wrappers

AMOUNTS:
  decimal.Decimal marshals as a JSON string ("120.5") and accepts either a
  string or a number on input.

VALIDATION:
  Validation is done by books.Service, not in DTOs. DTOs are pure data
  carriers.
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/paperwork/books"
	"github.com/warp/paperwork/report"
)

// =============================================================================
// TAXONOMIES
// =============================================================================

// TaxonomyValueDTO is one taxonomy entry.
type TaxonomyValueDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateTaxonomyValueRequest adds a value to a taxonomy.
type CreateTaxonomyValueRequest struct {
	Name string `json:"name"`
}

// =============================================================================
// INVOICES
// =============================================================================

// InvoiceDTO represents an invoice in API responses.
type InvoiceDTO struct {
	ID          int64           `json:"id"`
	Creditor    string          `json:"creditor"`
	Concern     string          `json:"concern"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date"`
	Path        *string         `json:"path"`
	Description *string         `json:"description"`
	Status      string          `json:"status"`
	PaymentDate *string         `json:"payment_date"`
}

// CreateInvoiceRequest is the request to add an invoice. Status defaults to
// Open when omitted.
type CreateInvoiceRequest struct {
	Creditor    string          `json:"creditor"`
	Concern     string          `json:"concern"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date"`
	Path        string          `json:"path,omitempty"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status,omitempty"`
	PaymentDate string          `json:"payment_date,omitempty"`
}

func toInvoiceDTO(inv books.Invoice) InvoiceDTO {
	return InvoiceDTO{
		ID:          inv.ID,
		Creditor:    inv.Creditor,
		Concern:     inv.Concern,
		Category:    inv.Category,
		Amount:      inv.Amount,
		DueDate:     inv.DueDate,
		Path:        optional(inv.Path),
		Description: optional(inv.Description),
		Status:      string(inv.Status),
		PaymentDate: optional(inv.PaymentDate),
	}
}

func (r CreateInvoiceRequest) toInvoice() books.Invoice {
	return books.Invoice{
		Creditor:    r.Creditor,
		Concern:     r.Concern,
		Category:    r.Category,
		Amount:      r.Amount,
		DueDate:     r.DueDate,
		Path:        r.Path,
		Description: r.Description,
		Status:      books.InvoiceStatus(r.Status),
		PaymentDate: r.PaymentDate,
	}
}

// =============================================================================
// REVENUES
// =============================================================================

// RevenueDTO represents a revenue in API responses.
type RevenueDTO struct {
	ID          int64           `json:"id"`
	Source      string          `json:"source"`
	Type        string          `json:"revenue_type"`
	Amount      decimal.Decimal `json:"revenue_amount"`
	ReceiptDate string          `json:"receipt_date"`
	Description *string         `json:"revenue_description"`
	Path        *string         `json:"revenue_path"`
}

// CreateRevenueRequest is the request to add a revenue.
type CreateRevenueRequest struct {
	Source      string          `json:"source"`
	Type        string          `json:"revenue_type"`
	Amount      decimal.Decimal `json:"revenue_amount"`
	ReceiptDate string          `json:"receipt_date"`
	Description string          `json:"revenue_description,omitempty"`
	Path        string          `json:"revenue_path,omitempty"`
}

func toRevenueDTO(r books.Revenue) RevenueDTO {
	return RevenueDTO{
		ID:          r.ID,
		Source:      r.Source,
		Type:        r.Type,
		Amount:      r.Amount,
		ReceiptDate: r.ReceiptDate,
		Description: optional(r.Description),
		Path:        optional(r.Path),
	}
}

// =============================================================================
// ADMIN DOCUMENTS
// =============================================================================

// AdminDocumentDTO represents an administrative document. It is also the
// request body for creation (the id is ignored there).
type AdminDocumentDTO struct {
	ID          int64  `json:"id"`
	Concern     string `json:"admin_doc_concern"`
	Category    string `json:"admin_doc_category"`
	Description string `json:"admin_doc_description"`
	Status      string `json:"admin_doc_status"`
	Path        string `json:"admin_doc_path"`
}

func toAdminDocumentDTO(d books.AdminDocument) AdminDocumentDTO {
	return AdminDocumentDTO{
		ID:          d.ID,
		Concern:     d.Concern,
		Category:    d.Category,
		Description: d.Description,
		Status:      d.Status,
		Path:        d.Path,
	}
}

func (d AdminDocumentDTO) toAdminDocument() books.AdminDocument {
	return books.AdminDocument{
		Concern:     d.Concern,
		Category:    d.Category,
		Description: d.Description,
		Status:      d.Status,
		Path:        d.Path,
	}
}

// =============================================================================
// TASKS
// =============================================================================

// TaskDTO represents a task in API responses.
type TaskDTO struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Status       string  `json:"status"`
	Priority     string  `json:"priority"`
	DueDate      string  `json:"due_date"`
	CreationDate string  `json:"creation_date"`
	Category     string  `json:"category"`
	Attachments  *string `json:"attachments"`
}

// TaskRequest is the body for both adding and updating a task.
// creation_date is never accepted from clients.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
	Category    string `json:"category"`
	Attachments string `json:"attachments,omitempty"`
}

func toTaskDTO(t books.Task) TaskDTO {
	return TaskDTO{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		CreationDate: t.CreationDate,
		Category:     t.Category,
		Attachments:  optional(t.Attachments),
	}
}

func (r TaskRequest) toTask() books.Task {
	return books.Task{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		Category:    r.Category,
		Attachments: r.Attachments,
	}
}

// =============================================================================
// DASHBOARD
// =============================================================================

// DashboardDTO is the dashboard headline plus optional chart buckets.
type DashboardDTO struct {
	InvoiceCount int             `json:"invoice_count"`
	InvoiceTotal decimal.Decimal `json:"invoice_total"`
	RevenueCount int             `json:"revenue_count"`
	RevenueTotal decimal.Decimal `json:"revenue_total"`
	Balance      decimal.Decimal `json:"balance"`
	GroupBy      string          `json:"group_by,omitempty"`
	Groups       []BucketDTO     `json:"groups,omitempty"`
}

// BucketDTO is one chart bucket.
type BucketDTO struct {
	Key   string          `json:"key"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func toDashboardDTO(s report.Summary) DashboardDTO {
	return DashboardDTO{
		InvoiceCount: s.InvoiceCount,
		InvoiceTotal: s.InvoiceTotal,
		RevenueCount: s.RevenueCount,
		RevenueTotal: s.RevenueTotal,
		Balance:      s.Balance,
	}
}

// =============================================================================
// MISC
// =============================================================================

// OpenPathRequest asks the host to open a stored path.
type OpenPathRequest struct {
	Path string `json:"path"`
}

// CreatedResponse returns the id of a new row.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
