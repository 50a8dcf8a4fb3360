/*
handlers.go - HTTP API handlers for the bookkeeping core

PURPOSE:
  Exposes books.Service over REST. Handlers decode the request, call exactly
  one service operation, and encode the result. They hold no state.

ENDPOINTS:
  Taxonomies ({kind} = creditors, concerns, categories, sources,
  revenue-types, task-categories, task-priorities, task-statuses,
  admin-document-concerns, admin-document-categories):
    GET    /api/taxonomies/{kind}          List values
    POST   /api/taxonomies/{kind}          Add value
    DELETE /api/taxonomies/{kind}/{id}     Delete value

  Invoices:
    GET    /api/invoices                   List (applies overdue transition)
    POST   /api/invoices                   Add invoice
    DELETE /api/invoices/{id}              Delete invoice
    POST   /api/invoices/{id}/pay          Mark paid today
    GET    /api/invoices/export.csv        CSV of filtered invoices

  Revenues, admin documents, tasks (list filters in brackets):
    GET/POST /api/revenues, DELETE /api/revenues/{id}
        [source, revenue_type, revenue_month]
    GET/POST /api/admin-documents, DELETE /api/admin-documents/{id}
        [category, concern, status]
    GET/POST /api/tasks, PUT/DELETE /api/tasks/{id}
        [category, priority, status]

  Other:
    GET    /api/dashboard                  Totals (same filters as export)
    POST   /api/open                       Open a stored path on the host

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, bad due date on listing
  - 404: Unknown taxonomy kind
  - 500: Persistence errors

SECURITY NOTE:
  No authentication. The server is meant to listen on localhost for the
  desktop UI only.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/warp/paperwork/books"
	"github.com/warp/paperwork/report"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Books  *books.Service
	Logger *slog.Logger
}

// NewHandler creates a new handler over the given service. A nil logger
// uses slog.Default.
func NewHandler(svc *books.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Books: svc, Logger: logger}
}

// =============================================================================
// TAXONOMY HANDLERS
// =============================================================================

// ListTaxonomy returns every value of a taxonomy.
func (h *Handler) ListTaxonomy(w http.ResponseWriter, r *http.Request) {
	kind, ok := taxonomyKind(w, r)
	if !ok {
		return
	}

	values, err := h.Books.ListTaxonomy(r.Context(), kind)
	if err != nil {
		writeServiceError(w, "Failed to list "+string(kind), err)
		return
	}

	dtos := make([]TaxonomyValueDTO, len(values))
	for i, v := range values {
		dtos[i] = TaxonomyValueDTO{ID: v.ID, Name: v.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddTaxonomyValue appends a value to a taxonomy.
func (h *Handler) AddTaxonomyValue(w http.ResponseWriter, r *http.Request) {
	kind, ok := taxonomyKind(w, r)
	if !ok {
		return
	}

	var req CreateTaxonomyValueRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.Books.AddTaxonomyValue(r.Context(), kind, req.Name)
	if err != nil {
		writeServiceError(w, "Failed to add to "+string(kind), err)
		return
	}
	writeJSON(w, http.StatusCreated, TaxonomyValueDTO{ID: id, Name: req.Name})
}

// DeleteTaxonomyValue removes a value from a taxonomy.
func (h *Handler) DeleteTaxonomyValue(w http.ResponseWriter, r *http.Request) {
	kind, ok := taxonomyKind(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Books.DeleteTaxonomyValue(r.Context(), kind, id); err != nil {
		writeServiceError(w, "Failed to delete from "+string(kind), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

// ListInvoices returns every invoice after the overdue transition.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Books.ListInvoices(r.Context())
	if err != nil {
		writeServiceError(w, "Failed to list invoices", err)
		return
	}

	dtos := make([]InvoiceDTO, len(invoices))
	for i, inv := range invoices {
		dtos[i] = toInvoiceDTO(inv)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddInvoice creates an invoice.
func (h *Handler) AddInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.Books.AddInvoice(r.Context(), req.toInvoice())
	if err != nil {
		writeServiceError(w, "Failed to add invoice", err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

// DeleteInvoice removes an invoice.
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Books.DeleteInvoice(r.Context(), id); err != nil {
		writeServiceError(w, "Failed to delete invoice", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PayInvoice marks an invoice paid today.
func (h *Handler) PayInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Books.PayInvoice(r.Context(), id); err != nil {
		writeServiceError(w, "Failed to pay invoice", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportInvoices streams the filtered invoices as CSV.
func (h *Handler) ExportInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Books.ListInvoices(r.Context())
	if err != nil {
		writeServiceError(w, "Failed to list invoices", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="filtered_invoices.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := report.WriteInvoicesCSV(w, filterFromQuery(r).Invoices(invoices)); err != nil {
		// headers are gone, the client sees a truncated file
		h.Logger.Error("invoice export failed",
			"error", err,
			"request_id", middleware.GetReqID(r.Context()))
	}
}

// =============================================================================
// REVENUE HANDLERS
// =============================================================================

// ListRevenues returns the revenues matching ?source=&revenue_type=&revenue_month=.
func (h *Handler) ListRevenues(w http.ResponseWriter, r *http.Request) {
	revenues, err := h.Books.ListRevenues(r.Context())
	if err != nil {
		writeServiceError(w, "Failed to list revenues", err)
		return
	}
	revenues = filterFromQuery(r).Revenues(revenues)

	dtos := make([]RevenueDTO, len(revenues))
	for i, rev := range revenues {
		dtos[i] = toRevenueDTO(rev)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddRevenue creates a revenue.
func (h *Handler) AddRevenue(w http.ResponseWriter, r *http.Request) {
	var req CreateRevenueRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.Books.AddRevenue(r.Context(), books.Revenue{
		Source:      req.Source,
		Type:        req.Type,
		Amount:      req.Amount,
		ReceiptDate: req.ReceiptDate,
		Description: req.Description,
		Path:        req.Path,
	})
	if err != nil {
		writeServiceError(w, "Failed to add revenue", err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

// DeleteRevenue removes a revenue.
func (h *Handler) DeleteRevenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Books.DeleteRevenue(r.Context(), id); err != nil {
		writeServiceError(w, "Failed to delete revenue", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ADMIN DOCUMENT HANDLERS
// =============================================================================

// ListAdminDocuments returns the documents matching ?category=&concern=&status=.
func (h *Handler) ListAdminDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Books.ListAdminDocuments(r.Context())
	if err != nil {
		writeServiceError(w, "Failed to list admin documents", err)
		return
	}
	q := r.URL.Query()
	docs = report.AdminDocumentFilter{
		Category: q.Get("category"),
		Concern:  q.Get("concern"),
		Status:   q.Get("status"),
	}.AdminDocuments(docs)

	dtos := make([]AdminDocumentDTO, len(docs))
	for i, d := range docs {
		dtos[i] = toAdminDocumentDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddAdminDocument creates an administrative document.
func (h *Handler) AddAdminDocument(w http.ResponseWriter, r *http.Request) {
	var req AdminDocumentDTO
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.Books.AddAdminDocument(r.Context(), req.toAdminDocument())
	if err != nil {
		writeServiceError(w, "Failed to add admin document", err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

// DeleteAdminDocument removes an administrative document.
func (h *Handler) DeleteAdminDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Books.DeleteAdminDocument(r.Context(), id); err != nil {
		writeServiceError(w, "Failed to delete admin document", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TASK HANDLERS
// =============================================================================

// ListTasks returns the tasks matching ?category=&priority=&status=.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Books.ListTasks(r.Context())
	if err != nil {
		writeServiceError(w, "Failed to list tasks", err)
		return
	}
	q := r.URL.Query()
	tasks = report.TaskFilter{
		Category: q.Get("category"),
		Priority: q.Get("priority"),
		Status:   q.Get("status"),
	}.Tasks(tasks)

	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddTask creates a task.
func (h *Handler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.Books.AddTask(r.Context(), req.toTask())
	if err != nil {
		writeServiceError(w, "Failed to add task", err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

// UpdateTask overwrites a task.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Books.UpdateTask(r.Context(), id, req.toTask()); err != nil {
		writeServiceError(w, "Failed to update task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteTask removes a task.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Books.DeleteTask(r.Context(), id); err != nil {
		writeServiceError(w, "Failed to delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DASHBOARD & UTILITIES
// =============================================================================

// Dashboard returns invoice/revenue totals, and per-group invoice totals
// when ?group_by= is given.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invoices, err := h.Books.ListInvoices(ctx)
	if err != nil {
		writeServiceError(w, "Failed to list invoices", err)
		return
	}
	revenues, err := h.Books.ListRevenues(ctx)
	if err != nil {
		writeServiceError(w, "Failed to list revenues", err)
		return
	}

	filter := filterFromQuery(r)
	dto := toDashboardDTO(report.Summarize(invoices, revenues, filter))

	if by := r.URL.Query().Get("group_by"); by != "" {
		buckets, err := report.GroupInvoices(filter.Invoices(invoices), report.GroupBy(by))
		if err != nil {
			writeServiceError(w, "Invalid group_by", err)
			return
		}
		dto.GroupBy = by
		dto.Groups = make([]BucketDTO, len(buckets))
		for i, b := range buckets {
			dto.Groups[i] = BucketDTO{Key: b.Key, Count: b.Count, Total: b.Total}
		}
	}

	writeJSON(w, http.StatusOK, dto)
}

// OpenPath asks the host OS to open a stored file path.
func (h *Handler) OpenPath(w http.ResponseWriter, r *http.Request) {
	var req OpenPathRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Books.OpenPath(r.Context(), req.Path); err != nil {
		writeServiceError(w, "Failed to open path", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func filterFromQuery(r *http.Request) report.Filter {
	q := r.URL.Query()
	return report.Filter{
		Category:    q.Get("category"),
		Concern:     q.Get("concern"),
		Creditor:    q.Get("creditor"),
		Status:      q.Get("status"),
		Month:       q.Get("month"),
		Source:      q.Get("source"),
		RevenueType: q.Get("revenue_type"),

		RevenueMonth: q.Get("revenue_month"),
	}
}

func taxonomyKind(w http.ResponseWriter, r *http.Request) (books.TaxonomyKind, bool) {
	kind, err := books.ParseTaxonomyKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown taxonomy", err)
		return "", false
	}
	return kind, true
}

func pathID(w http.ResponseWriter, r *http.Request) (books.ID, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id", err)
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError picks the status from the error kind.
func writeServiceError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, books.ErrUnknownTaxonomy):
		status = http.StatusNotFound
	case books.IsValidation(err):
		status = http.StatusBadRequest
	}
	writeError(w, status, message, err)
}
