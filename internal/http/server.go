// Package http exposes the bookkeeping operations as a JSON API for
// the desktop UI shell.
package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	applog "fatoora/internal/log"
	"fatoora/internal/services"
	"fatoora/internal/storage"
)

// Server bundles the JSON API with its dependencies.
type Server struct {
	http.Server
	store  *storage.Store
	docs   *services.DocumentService
	logger *applog.Logger
}

// NewServer configures routes and middleware, returning a ready-to-run
// server listening on addr.
func NewServer(addr string, store *storage.Store, docs *services.DocumentService) *Server {
	s := &Server{
		store:  store,
		docs:   docs,
		logger: applog.Default(applog.ComponentHTTP),
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(applog.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", s.listCustomers)
		r.Post("/", s.createCustomer)
		r.Get("/{id}", s.getCustomer)
		r.Put("/{id}", s.updateCustomer)
		r.Delete("/{id}", s.deleteCustomer)
		r.Get("/{id}/invoices", s.listCustomerInvoices)
		r.Get("/{id}/debt", s.getCustomerDebt)
		r.Get("/{id}/transactions", s.listCustomerTransactions)
	})

	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", s.listInvoices)
		r.Post("/", s.createInvoice)
		r.Get("/{id}", s.getInvoice)
		r.Put("/{id}", s.updateInvoice)
		r.Delete("/{id}", s.deleteInvoice)
		r.Get("/{id}/items", s.listInvoiceItems)
		r.Post("/{id}/items", s.createInvoiceItem)
		r.Delete("/{id}/items", s.deleteInvoiceItems)
	})

	r.Get("/products", s.listProducts)

	r.Route("/payments", func(r chi.Router) {
		r.Get("/", s.listPayments)
		r.Post("/", s.createPayment)
		r.Put("/{id}", s.updatePayment)
		r.Delete("/{id}", s.deletePayment)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/debts", s.listDebts)
		r.Get("/summary", s.getSummary)
	})

	r.Route("/documents", func(r chi.Router) {
		r.Post("/invoices", s.generateInvoicesPDF)
		r.Post("/transactions", s.generateTransactionsPDF)
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Routes returns the configured route tree, used directly by tests.
func (s *Server) Routes() http.Handler {
	return s.Server.Handler
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// storeError responds with an opaque 500. The cause is logged through
// the request-scoped logger, never exposed to the caller.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	fields := applog.NewFields().WithOperation(op).WithError(err)
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "operation failed", fields.ToSlice()...)
	respondError(w, http.StatusInternalServerError, "internal error")
}
