package http

import (
	"net/http"

	"fatoora/internal/core"
)

func parseReportWindow(w http.ResponseWriter, fromDate, toDate string) (core.Date, *core.Date, bool) {
	from, err := core.ParseDate(fromDate)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "from_date must be a YYYY-MM-DD date")
		return core.Date{}, nil, false
	}
	if toDate == "" {
		return from, nil, true
	}
	to, err := core.ParseDate(toDate)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "to_date must be a YYYY-MM-DD date")
		return core.Date{}, nil, false
	}
	return from, &to, true
}

type invoicesPDFRequest struct {
	FromDate   string `json:"from_date"`
	ToDate     string `json:"to_date,omitempty"`
	CustomerID *int64 `json:"customer_id,omitempty"`
}

func (s *Server) generateInvoicesPDF(w http.ResponseWriter, r *http.Request) {
	var req invoicesPDFRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	from, to, ok := parseReportWindow(w, req.FromDate, req.ToDate)
	if !ok {
		return
	}

	path, err := s.docs.GenerateInvoicesPDF(r.Context(), from, to, req.CustomerID)
	if err != nil {
		s.storeError(w, r, "generate invoices pdf", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"path": path})
}

type transactionsPDFRequest struct {
	CustomerID      int64  `json:"customer_id"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	CustomerAddress string `json:"customer_address,omitempty"`
	FromDate        string `json:"from_date"`
	ToDate          string `json:"to_date,omitempty"`
}

func (s *Server) generateTransactionsPDF(w http.ResponseWriter, r *http.Request) {
	var req transactionsPDFRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CustomerID <= 0 {
		respondError(w, http.StatusUnprocessableEntity, core.ErrMissingCustomer.Error())
		return
	}

	from, to, ok := parseReportWindow(w, req.FromDate, req.ToDate)
	if !ok {
		return
	}

	path, err := s.docs.GenerateTransactionsPDF(r.Context(), req.CustomerID,
		req.CustomerName, req.CustomerPhone, req.CustomerAddress, from, to)
	if err != nil {
		s.storeError(w, r, "generate transactions pdf", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"path": path})
}
