/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request, copied into the access log
  2. Logger:     Request logging through slog
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the desktop webview

ROUTE GROUPS:
  /api/taxonomies/{kind}/*   Ten lookup lists
  /api/invoices/*            Invoices, lifecycle, CSV export
  /api/revenues/*            Revenues
  /api/admin-documents/*     Administrative documents
  /api/tasks/*               Tasks
  /api/dashboard             Totals
  /api/open                  Open a stored path on the host

SEE ALSO:
  - handlers.go: Handler implementations
  - cli/serve.go: Server startup
*/
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
// A nil logger uses slog.Default.
func NewRouter(h *Handler, allowedOrigins []string, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Route("/api", func(r chi.Router) {
		// Taxonomy routes
		r.Route("/taxonomies/{kind}", func(r chi.Router) {
			r.Get("/", h.ListTaxonomy)
			r.Post("/", h.AddTaxonomyValue)
			r.Delete("/{id}", h.DeleteTaxonomyValue)
		})

		// Invoice routes
		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", h.ListInvoices)
			r.Post("/", h.AddInvoice)
			r.Get("/export.csv", h.ExportInvoices)
			r.Delete("/{id}", h.DeleteInvoice)
			r.Post("/{id}/pay", h.PayInvoice)
		})

		// Revenue routes
		r.Route("/revenues", func(r chi.Router) {
			r.Get("/", h.ListRevenues)
			r.Post("/", h.AddRevenue)
			r.Delete("/{id}", h.DeleteRevenue)
		})

		// Admin document routes
		r.Route("/admin-documents", func(r chi.Router) {
			r.Get("/", h.ListAdminDocuments)
			r.Post("/", h.AddAdminDocument)
			r.Delete("/{id}", h.DeleteAdminDocument)
		})

		// Task routes
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.AddTask)
			r.Put("/{id}", h.UpdateTask)
			r.Delete("/{id}", h.DeleteTask)
		})

		r.Get("/dashboard", h.Dashboard)
		r.Post("/open", h.OpenPath)
	})

	return r
}

// requestLogger writes one structured line per request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
