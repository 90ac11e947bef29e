package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"fatoora/internal/core"
	"fatoora/internal/storage"
)

type invoiceJSON struct {
	ID            int64   `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	CustomerID    int64   `json:"customer_id"`
	Date          string  `json:"date"`
	Total         float64 `json:"total"`
	Status        string  `json:"status"`
	PaidAmount    float64 `json:"paid_amount"`
	CreatedAt     string  `json:"created_at"`
}

func toInvoiceJSON(inv core.Invoice) invoiceJSON {
	return invoiceJSON{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		Date:          inv.Date.String(),
		Total:         inv.Total.Float(),
		Status:        string(inv.Status),
		PaidAmount:    inv.PaidAmount.Float(),
		CreatedAt:     inv.CreatedAt.Format(timestampLayout),
	}
}

type invoiceWithCustomerJSON struct {
	invoiceJSON
	CustomerName    string  `json:"customer_name"`
	CustomerPhone   string  `json:"customer_phone"`
	CustomerAddress string  `json:"customer_address"`
	Remaining       float64 `json:"remaining"`
}

type invoiceListJSON struct {
	Data  []invoiceWithCustomerJSON `json:"data"`
	Total float64                   `json:"total"`
}

func toInvoiceListJSON(list core.InvoiceList) invoiceListJSON {
	out := invoiceListJSON{
		Data:  make([]invoiceWithCustomerJSON, 0, len(list.Data)),
		Total: list.Total.Float(),
	}
	for _, inv := range list.Data {
		out.Data = append(out.Data, invoiceWithCustomerJSON{
			invoiceJSON:     toInvoiceJSON(inv.Invoice),
			CustomerName:    inv.CustomerName,
			CustomerPhone:   inv.CustomerPhone,
			CustomerAddress: inv.CustomerAddress,
			Remaining:       inv.Remaining.Float(),
		})
	}
	return out
}

type invoiceItemJSON struct {
	ID          int64   `json:"id"`
	InvoiceID   int64   `json:"invoice_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    float64 `json:"quantity"`
	Total       float64 `json:"total"`
}

func toInvoiceItemJSON(it core.InvoiceItem) invoiceItemJSON {
	return invoiceItemJSON{
		ID:          it.ID,
		InvoiceID:   it.InvoiceID,
		ProductName: it.ProductName,
		UnitPrice:   it.UnitPrice.Float(),
		Quantity:    it.Quantity,
		Total:       it.Total.Float(),
	}
}

func (s *Server) listInvoices(w http.ResponseWriter, r *http.Request) {
	search, page, pageSize := listParams(r)

	list, err := s.store.ListInvoices(r.Context(), search, page, pageSize)
	if err != nil {
		s.storeError(w, r, "list invoices", err)
		return
	}
	respondJSON(w, http.StatusOK, toInvoiceListJSON(list))
}

func (s *Server) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	inv, err := s.store.GetInvoice(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "get invoice", err)
		return
	}
	if inv == nil {
		respondError(w, http.StatusNotFound, "invoice not found")
		return
	}
	respondJSON(w, http.StatusOK, toInvoiceJSON(*inv))
}

func (s *Server) listCustomerInvoices(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	invoices, err := s.store.ListInvoicesByCustomer(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "list customer invoices", err)
		return
	}

	type balanceJSON struct {
		invoiceJSON
		Paid      float64 `json:"paid"`
		Remaining float64 `json:"remaining"`
	}
	out := make([]balanceJSON, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, balanceJSON{
			invoiceJSON: toInvoiceJSON(inv.Invoice),
			Paid:        inv.Paid.Float(),
			Remaining:   inv.Remaining.Float(),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

type invoiceItemRequest struct {
	ProductName string      `json:"product_name"`
	UnitPrice   json.Number `json:"unit_price"`
	Quantity    float64     `json:"quantity"`
	Total       json.Number `json:"total"`
}

func (req invoiceItemRequest) toCore(w http.ResponseWriter, invoiceID int64) (core.InvoiceItem, bool) {
	unitPrice, ok := amountField(w, "unit_price", req.UnitPrice)
	if !ok {
		return core.InvoiceItem{}, false
	}
	total, ok := amountField(w, "total", req.Total)
	if !ok {
		return core.InvoiceItem{}, false
	}
	return core.InvoiceItem{
		InvoiceID:   invoiceID,
		ProductName: req.ProductName,
		UnitPrice:   unitPrice,
		Quantity:    req.Quantity,
		Total:       total,
	}, true
}

type invoiceCreateRequest struct {
	InvoiceNumber string               `json:"invoice_number"`
	CustomerID    int64                `json:"customer_id"`
	Date          string               `json:"date"`
	Total         json.Number          `json:"total"`
	Status        string               `json:"status,omitempty"`
	PaidAmount    json.Number          `json:"paid_amount,omitempty"`
	Items         []invoiceItemRequest `json:"items,omitempty"`
}

func (s *Server) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "date must be a YYYY-MM-DD date")
		return
	}

	total, ok := amountField(w, "total", req.Total)
	if !ok {
		return
	}
	paid, ok := amountField(w, "paid_amount", req.PaidAmount)
	if !ok {
		return
	}

	inv := core.Invoice{
		InvoiceNumber: req.InvoiceNumber,
		CustomerID:    req.CustomerID,
		Date:          date,
		Total:         total,
		Status:        core.InvoiceStatus(req.Status),
		PaidAmount:    paid,
	}
	if err := inv.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	items := make([]core.InvoiceItem, 0, len(req.Items))
	for _, ir := range req.Items {
		item, ok := ir.toCore(w, 0)
		if !ok {
			return
		}
		if err := item.Validate(); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		items = append(items, item)
	}

	id, err := s.store.CreateInvoice(r.Context(), inv, items)
	if err != nil {
		s.storeError(w, r, "create invoice", err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

type invoiceUpdateRequest struct {
	InvoiceNumber *string      `json:"invoice_number,omitempty"`
	CustomerID    *int64       `json:"customer_id,omitempty"`
	Date          *string      `json:"date,omitempty"`
	Total         *json.Number `json:"total,omitempty"`
	Status        *string      `json:"status,omitempty"`
	PaidAmount    *json.Number `json:"paid_amount,omitempty"`
}

func (s *Server) updateInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req invoiceUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := storage.InvoicePatch{
		InvoiceNumber: req.InvoiceNumber,
		CustomerID:    req.CustomerID,
	}
	if req.Date != nil {
		date, err := core.ParseDate(*req.Date)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "date must be a YYYY-MM-DD date")
			return
		}
		patch.Date = &date
	}
	if req.Total != nil {
		total, ok := amountField(w, "total", *req.Total)
		if !ok {
			return
		}
		patch.Total = &total
	}
	if req.Status != nil {
		status := core.InvoiceStatus(*req.Status)
		patch.Status = &status
	}
	if req.PaidAmount != nil {
		paid, ok := amountField(w, "paid_amount", *req.PaidAmount)
		if !ok {
			return
		}
		patch.PaidAmount = &paid
	}

	if err := s.store.UpdateInvoice(r.Context(), id, patch); err != nil {
		if errors.Is(err, core.ErrInvalidStatus) {
			respondError(w, http.StatusUnprocessableEntity, core.ErrInvalidStatus.Error())
			return
		}
		s.storeError(w, r, "update invoice", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteInvoice(r.Context(), id); err != nil {
		s.storeError(w, r, "delete invoice", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) listInvoiceItems(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	items, err := s.store.InvoiceItems(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "list invoice items", err)
		return
	}

	out := make([]invoiceItemJSON, 0, len(items))
	for _, it := range items {
		out = append(out, toInvoiceItemJSON(it))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) createInvoiceItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req invoiceItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, ok := req.toCore(w, id)
	if !ok {
		return
	}
	if err := item.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.AddInvoiceItem(r.Context(), item)
	if err != nil {
		s.storeError(w, r, "create invoice item", err)
		return
	}
	respondJSON(w, http.StatusCreated, toInvoiceItemJSON(created))
}

func (s *Server) deleteInvoiceItems(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteInvoiceItems(r.Context(), id); err != nil {
		s.storeError(w, r, "delete invoice items", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	search, _, _ := listParams(r)

	products, err := s.store.DistinctProducts(r.Context(), search)
	if err != nil {
		s.storeError(w, r, "list products", err)
		return
	}

	type productJSON struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, productJSON{ID: p.ID, Name: p.Name})
	}
	respondJSON(w, http.StatusOK, out)
}
