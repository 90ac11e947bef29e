package http

import (
	"encoding/json"
	"net/http"

	"fatoora/internal/core"
)

type paymentJSON struct {
	ID            int64   `json:"id"`
	CustomerID    int64   `json:"customer_id"`
	InvoiceID     *int64  `json:"invoice_id,omitempty"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
	Notes         string  `json:"notes,omitempty"`
	CreatedAt     string  `json:"created_at"`
	CustomerName  string  `json:"customer_name,omitempty"`
	InvoiceNumber string  `json:"invoice_number,omitempty"`
}

func toPaymentJSON(p core.Payment) paymentJSON {
	return paymentJSON{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		InvoiceID:  p.InvoiceID,
		Amount:     p.Amount.Float(),
		Date:       p.Date.String(),
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt.Format(timestampLayout),
	}
}

type paymentListJSON struct {
	Data      []paymentJSON `json:"data"`
	SumAmount float64       `json:"sum_amount"`
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	search, page, pageSize := listParams(r)

	list, err := s.store.ListPayments(r.Context(), search, page, pageSize)
	if err != nil {
		s.storeError(w, r, "list payments", err)
		return
	}

	out := paymentListJSON{
		Data:      make([]paymentJSON, 0, len(list.Data)),
		SumAmount: list.SumAmount.Float(),
	}
	for _, p := range list.Data {
		pj := toPaymentJSON(p.Payment)
		pj.CustomerName = p.CustomerName
		pj.InvoiceNumber = p.InvoiceNumber
		out.Data = append(out.Data, pj)
	}
	respondJSON(w, http.StatusOK, out)
}

type paymentRequest struct {
	CustomerID int64       `json:"customer_id"`
	InvoiceID  *int64      `json:"invoice_id,omitempty"`
	Amount     json.Number `json:"amount"`
	Date       string      `json:"date"`
	Notes      string      `json:"notes,omitempty"`
}

func (req paymentRequest) toCore(w http.ResponseWriter) (core.Payment, bool) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "date must be a YYYY-MM-DD date")
		return core.Payment{}, false
	}

	amount, ok := amountField(w, "amount", req.Amount)
	if !ok {
		return core.Payment{}, false
	}

	p := core.Payment{
		CustomerID: req.CustomerID,
		InvoiceID:  req.InvoiceID,
		Amount:     amount,
		Date:       date,
		Notes:      req.Notes,
	}
	if err := p.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return core.Payment{}, false
	}
	return p, true
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, ok := req.toCore(w)
	if !ok {
		return
	}

	created, err := s.store.CreatePayment(r.Context(), p)
	if err != nil {
		s.storeError(w, r, "create payment", err)
		return
	}
	respondJSON(w, http.StatusCreated, toPaymentJSON(created))
}

func (s *Server) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, ok := req.toCore(w)
	if !ok {
		return
	}

	if err := s.store.UpdatePayment(r.Context(), id, p); err != nil {
		s.storeError(w, r, "update payment", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) deletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeletePayment(r.Context(), id); err != nil {
		s.storeError(w, r, "delete payment", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
