package http

import (
	"net/http"
	"strings"

	"fatoora/internal/core"
)

type debtJSON struct {
	CustomerID    int64   `json:"customer_id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	TotalInvoices float64 `json:"total_invoices"`
	TotalPayments float64 `json:"total_payments"`
	TotalDebt     float64 `json:"total_debt"`
}

func (s *Server) listDebts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	includeZero := q.Get("include_zero") == "true" || q.Get("include_zero") == "1"
	search := strings.TrimSpace(q.Get("q"))

	debts, err := s.store.AllDebts(r.Context(), includeZero, search)
	if err != nil {
		s.storeError(w, r, "list debts", err)
		return
	}

	out := make([]debtJSON, 0, len(debts))
	for _, d := range debts {
		out = append(out, debtJSON{
			CustomerID:    d.CustomerID,
			Name:          d.Name,
			Phone:         d.Phone,
			TotalInvoices: d.TotalInvoices.Float(),
			TotalPayments: d.TotalPayments.Float(),
			TotalDebt:     d.TotalDebt.Float(),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) getCustomerDebt(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	debt, err := s.store.CustomerDebt(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "get customer debt", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"customer_id": id,
		"debt":        debt.Float(),
	})
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.Summary(r.Context())
	if err != nil {
		s.storeError(w, r, "get summary", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"total_invoices": summary.TotalInvoices.Float(),
		"total_payments": summary.TotalPayments.Float(),
		"total_debts":    summary.TotalDebts.Float(),
		"customer_count": summary.CustomerCount,
	})
}

type transactionJSON struct {
	RecordID      int64   `json:"record_id"`
	Type          string  `json:"type"`
	Reference     string  `json:"reference,omitempty"`
	CustomerID    int64   `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	CreatedAt     string  `json:"created_at"`
}

type ledgerJSON struct {
	Data           []transactionJSON `json:"data"`
	TotalInvoices  float64           `json:"total_invoices"`
	TotalPayments  float64           `json:"total_payments"`
	RemainingTotal float64           `json:"remaining_total"`
}

func toLedgerJSON(ledger core.Ledger) ledgerJSON {
	out := ledgerJSON{
		Data:           make([]transactionJSON, 0, len(ledger.Data)),
		TotalInvoices:  ledger.TotalInvoices.Float(),
		TotalPayments:  ledger.TotalPayments.Float(),
		RemainingTotal: ledger.RemainingTotal.Float(),
	}
	for _, tx := range ledger.Data {
		out.Data = append(out.Data, transactionJSON{
			RecordID:      tx.RecordID,
			Type:          tx.Type,
			Reference:     tx.Reference,
			CustomerID:    tx.CustomerID,
			CustomerName:  tx.CustomerName,
			CustomerPhone: tx.CustomerPhone,
			Date:          tx.Date.String(),
			Amount:        tx.Amount.Float(),
			CreatedAt:     tx.CreatedAt.Format(timestampLayout),
		})
	}
	return out
}

func (s *Server) listCustomerTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	from, ok := dateParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := optionalDateParam(w, r, "to")
	if !ok {
		return
	}

	ledger, err := s.store.Transactions(r.Context(), id, from, to)
	if err != nil {
		s.storeError(w, r, "list transactions", err)
		return
	}
	respondJSON(w, http.StatusOK, toLedgerJSON(ledger))
}
