package storage

import (
	"context"

	"fatoora/internal/core"
)

// openEndedDate stands in for a missing upper bound so BETWEEN keeps a
// single query shape for both windowed and open-ended ranges.
const openEndedDate = "9999-12-31"

func dateWindow(from core.Date, to *core.Date) (string, string) {
	end := openEndedDate
	if to != nil {
		end = to.String()
	}
	return from.String(), end
}

// AllDebts computes one row per customer: summed invoice totals minus
// summed payment amounts, each defaulting to zero when the customer
// has no rows. Customers with zero debt are excluded unless
// includeZero is set. Ordered by debt descending, so the heaviest
// debtors come first.
func (s *Store) AllDebts(ctx context.Context, includeZero bool, search string) ([]core.CustomerDebt, error) {
	query := `
		SELECT
			c.id,
			c.name,
			c.phone,
			IFNULL(inv.total_invoices, 0) AS total_invoices,
			IFNULL(pay.total_payments, 0) AS total_payments,
			(IFNULL(inv.total_invoices, 0) - IFNULL(pay.total_payments, 0)) AS total_debt
		FROM customers c
		LEFT JOIN (
			SELECT customer_id, SUM(total_cents) AS total_invoices
			FROM invoices
			GROUP BY customer_id
		) AS inv ON inv.customer_id = c.id
		LEFT JOIN (
			SELECT customer_id, SUM(amount_cents) AS total_payments
			FROM payments
			GROUP BY customer_id
		) AS pay ON pay.customer_id = c.id`

	var conds []string
	var args []any
	if !includeZero {
		conds = append(conds, `(IFNULL(inv.total_invoices, 0) - IFNULL(pay.total_payments, 0)) <> 0`)
	}
	if search != "" {
		conds = append(conds, `(c.name LIKE ? OR c.phone LIKE ? OR c.notes LIKE ?)`)
		p := likePattern(search)
		args = append(args, p, p, p)
	}
	for i, cond := range conds {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY total_debt DESC`

	type row struct {
		ID            int64  `db:"id"`
		Name          string `db:"name"`
		Phone         string `db:"phone"`
		TotalInvoices int64  `db:"total_invoices"`
		TotalPayments int64  `db:"total_payments"`
		TotalDebt     int64  `db:"total_debt"`
	}
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, queryErr("list debts", err)
	}

	debts := make([]core.CustomerDebt, len(rows))
	for i, r := range rows {
		debts[i] = core.CustomerDebt{
			CustomerID:    r.ID,
			Name:          r.Name,
			Phone:         r.Phone,
			TotalInvoices: core.Money{Cents: r.TotalInvoices},
			TotalPayments: core.Money{Cents: r.TotalPayments},
			TotalDebt:     core.Money{Cents: r.TotalDebt},
		}
	}
	return debts, nil
}

// CustomerDebt sums a customer's invoices by status: unpaid
// contributes the full total, partial contributes total minus the
// cached paid amount, paid contributes nothing. A customer with no
// invoices owes zero.
func (s *Store) CustomerDebt(ctx context.Context, customerID int64) (core.Money, error) {
	var cents int64
	err := s.db.GetContext(ctx, &cents, `
		SELECT IFNULL(SUM(CASE
			WHEN status = 'unpaid' THEN total_cents
			WHEN status = 'partial' THEN total_cents - paid_cents
			ELSE 0
		END), 0)
		FROM invoices
		WHERE customer_id = ?`, customerID)
	if err != nil {
		return core.Money{}, queryErr("customer debt", err)
	}
	return core.Money{Cents: cents}, nil
}

// Summary returns the global bookkeeping totals.
func (s *Store) Summary(ctx context.Context) (core.ReportSummary, error) {
	var row struct {
		TotalInvoices int64 `db:"total_invoices"`
		TotalPayments int64 `db:"total_payments"`
		CustomerCount int64 `db:"customer_count"`
	}
	err := s.db.GetContext(ctx, &row, `
		SELECT
			IFNULL((SELECT SUM(total_cents) FROM invoices), 0) AS total_invoices,
			IFNULL((SELECT SUM(amount_cents) FROM payments), 0) AS total_payments,
			(SELECT COUNT(*) FROM customers) AS customer_count`)
	if err != nil {
		return core.ReportSummary{}, queryErr("report summary", err)
	}

	totalInvoices := core.Money{Cents: row.TotalInvoices}
	totalPayments := core.Money{Cents: row.TotalPayments}
	return core.ReportSummary{
		TotalInvoices: totalInvoices,
		TotalPayments: totalPayments,
		TotalDebts:    totalInvoices.Sub(totalPayments),
		CustomerCount: row.CustomerCount,
	}, nil
}

// Transactions merges a customer's invoices and payments within
// [from, to] into one ledger ordered ascending by date. A nil to
// leaves the window open-ended. The window sums are recomputed with
// the same filter rather than derived from the returned rows.
func (s *Store) Transactions(ctx context.Context, customerID int64, from core.Date, to *core.Date) (core.Ledger, error) {
	start, end := dateWindow(from, to)

	type row struct {
		RecordID      int64   `db:"record_id"`
		Type          string  `db:"type"`
		Reference     *string `db:"reference"`
		CustomerID    int64   `db:"customer_id"`
		CustomerName  string  `db:"customer_name"`
		CustomerPhone string  `db:"customer_phone"`
		Date          string  `db:"date"`
		AmountCents   int64   `db:"amount_cents"`
		CreatedAt     string  `db:"created_at"`
	}

	var rows []row
	err := s.db.SelectContext(ctx, &rows, `
		SELECT
			i.id AS record_id,
			'invoice' AS type,
			i.invoice_number AS reference,
			i.customer_id,
			c.name AS customer_name,
			c.phone AS customer_phone,
			i.date,
			i.total_cents AS amount_cents,
			i.created_at
		FROM invoices i
		JOIN customers c ON i.customer_id = c.id
		WHERE i.customer_id = ? AND i.date BETWEEN ? AND ?

		UNION ALL

		SELECT
			p.id AS record_id,
			'payment' AS type,
			NULL AS reference,
			p.customer_id,
			c.name AS customer_name,
			c.phone AS customer_phone,
			p.date,
			p.amount_cents,
			p.created_at
		FROM payments p
		JOIN customers c ON p.customer_id = c.id
		WHERE p.customer_id = ? AND p.date BETWEEN ? AND ?

		ORDER BY date ASC`,
		customerID, start, end, customerID, start, end)
	if err != nil {
		return core.Ledger{}, queryErr("list transactions", err)
	}

	ledger := core.Ledger{Data: make([]core.Transaction, len(rows))}
	for i, r := range rows {
		date, _ := core.ParseDate(r.Date)
		tx := core.Transaction{
			RecordID:      r.RecordID,
			Type:          r.Type,
			CustomerID:    r.CustomerID,
			CustomerName:  r.CustomerName,
			CustomerPhone: r.CustomerPhone,
			Date:          date,
			Amount:        core.Money{Cents: r.AmountCents},
			CreatedAt:     parseTimestamp(r.CreatedAt),
		}
		if r.Reference != nil {
			tx.Reference = *r.Reference
		}
		ledger.Data[i] = tx
	}

	// Same window, recomputed directly; agrees with the rows above
	// because both use identical filters.
	var sums struct {
		TotalInvoices int64 `db:"total_invoices"`
		TotalPayments int64 `db:"total_payments"`
	}
	err = s.db.GetContext(ctx, &sums, `
		SELECT
			IFNULL((SELECT SUM(total_cents) FROM invoices
				WHERE customer_id = ? AND date BETWEEN ? AND ?), 0) AS total_invoices,
			IFNULL((SELECT SUM(amount_cents) FROM payments
				WHERE customer_id = ? AND date BETWEEN ? AND ?), 0) AS total_payments`,
		customerID, start, end, customerID, start, end)
	if err != nil {
		return core.Ledger{}, queryErr("transaction sums", err)
	}

	ledger.TotalInvoices = core.Money{Cents: sums.TotalInvoices}
	ledger.TotalPayments = core.Money{Cents: sums.TotalPayments}
	ledger.RemainingTotal = ledger.TotalInvoices.Sub(ledger.TotalPayments)
	return ledger, nil
}

// InvoicesReport returns invoices within [from, to], optionally
// restricted to one customer, joined with customer display fields and
// summed over the window. Feeds the invoices PDF.
func (s *Store) InvoicesReport(ctx context.Context, from core.Date, to *core.Date, customerID *int64) (core.InvoiceList, error) {
	start, end := dateWindow(from, to)

	where := ` WHERE i.date BETWEEN ? AND ?`
	args := []any{start, end}
	if customerID != nil {
		where += ` AND i.customer_id = ?`
		args = append(args, *customerID)
	}

	sumQuery := `SELECT IFNULL(SUM(i.total_cents), 0) FROM invoices i` + where
	var sumCents int64
	if err := s.db.GetContext(ctx, &sumCents, sumQuery, args...); err != nil {
		return core.InvoiceList{}, queryErr("sum report invoices", err)
	}

	query := `SELECT i.id, i.invoice_number, i.customer_id, i.date, i.total_cents,
			i.status, i.paid_cents, i.created_at,
			c.name AS customer_name, c.phone AS customer_phone, c.address AS customer_address
		FROM invoices i
		LEFT JOIN customers c ON i.customer_id = c.id` + where +
		` ORDER BY i.date ASC, i.id ASC`

	var rows []invoiceWithCustomerRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return core.InvoiceList{}, queryErr("list report invoices", err)
	}

	list := core.InvoiceList{
		Data:  make([]core.InvoiceWithCustomer, len(rows)),
		Total: core.Money{Cents: sumCents},
	}
	for i, r := range rows {
		list.Data[i] = r.toCore()
	}
	return list, nil
}
