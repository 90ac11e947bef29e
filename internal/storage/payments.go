package storage

import (
	"context"
	"database/sql"
	"log/slog"

	"fatoora/internal/core"
)

type paymentRow struct {
	ID            int64          `db:"id"`
	CustomerID    int64          `db:"customer_id"`
	InvoiceID     sql.NullInt64  `db:"invoice_id"`
	AmountCents   int64          `db:"amount_cents"`
	Date          string         `db:"date"`
	Notes         sql.NullString `db:"notes"`
	CreatedAt     string         `db:"created_at"`
	CustomerName  sql.NullString `db:"customer_name"`
	InvoiceNumber sql.NullString `db:"invoice_number"`
}

func (r paymentRow) toCore() core.PaymentWithRefs {
	date, _ := core.ParseDate(r.Date)
	p := core.Payment{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Amount:     core.Money{Cents: r.AmountCents},
		Date:       date,
		Notes:      r.Notes.String,
		CreatedAt:  parseTimestamp(r.CreatedAt),
	}
	if r.InvoiceID.Valid {
		id := r.InvoiceID.Int64
		p.InvoiceID = &id
	}
	return core.PaymentWithRefs{
		Payment:       p,
		CustomerName:  r.CustomerName.String,
		InvoiceNumber: r.InvoiceNumber.String,
	}
}

// ListPayments returns payments joined with the customer name and the
// linked invoice number (both empty for dangling or absent
// references), newest first, plus the amount sum over the whole
// filtered set. A search term matches customer name, invoice number or
// payment date.
func (s *Store) ListPayments(ctx context.Context, search string, page, pageSize int) (core.PaymentList, error) {
	where := ""
	var whereArgs []any
	if search != "" {
		where = ` WHERE c.name LIKE ? OR i.invoice_number LIKE ? OR p.date LIKE ?`
		pat := likePattern(search)
		whereArgs = append(whereArgs, pat, pat, pat)
	}

	sumQuery := `SELECT IFNULL(SUM(p.amount_cents), 0)
		FROM payments p
		LEFT JOIN customers c ON p.customer_id = c.id
		LEFT JOIN invoices i ON p.invoice_id = i.id` + where

	var sumCents int64
	if err := s.db.GetContext(ctx, &sumCents, sumQuery, whereArgs...); err != nil {
		return core.PaymentList{}, queryErr("sum payments", err)
	}

	query := `SELECT p.id, p.customer_id, p.invoice_id, p.amount_cents, p.date, p.notes, p.created_at,
			c.name AS customer_name, i.invoice_number
		FROM payments p
		LEFT JOIN customers c ON p.customer_id = c.id
		LEFT JOIN invoices i ON p.invoice_id = i.id` + where +
		` ORDER BY p.created_at DESC, p.id DESC`

	args := whereArgs
	if limit, offset, ok := paginate(page, pageSize); ok {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	var rows []paymentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return core.PaymentList{}, queryErr("list payments", err)
	}

	list := core.PaymentList{
		Data:      make([]core.PaymentWithRefs, len(rows)),
		SumAmount: core.Money{Cents: sumCents},
	}
	for i, r := range rows {
		list.Data[i] = r.toCore()
	}
	return list, nil
}

// CreatePayment inserts a payment and returns it with the assigned id
// and creation timestamp. A nil InvoiceID records a general account
// credit not attached to any invoice.
func (s *Store) CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	var invoiceID any
	if p.InvoiceID != nil {
		invoiceID = *p.InvoiceID
	}
	var notes any
	if p.Notes != "" {
		notes = p.Notes
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (customer_id, invoice_id, amount_cents, date, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		p.CustomerID, invoiceID, p.Amount.Cents, p.Date.String(), notes)
	if err != nil {
		return core.Payment{}, queryErr("create payment", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Payment{}, queryErr("create payment id", err)
	}

	var createdAt string
	if err := s.db.GetContext(ctx, &createdAt,
		`SELECT created_at FROM payments WHERE id = ?`, id); err != nil {
		return core.Payment{}, queryErr("read payment timestamp", err)
	}

	p.ID = id
	p.CreatedAt = parseTimestamp(createdAt)

	slog.InfoContext(ctx, "Payment created",
		"id", id,
		"customer_id", p.CustomerID,
		"amount_cents", p.Amount.Cents,
		"attached", p.InvoiceID != nil)
	return p, nil
}

// UpdatePayment replaces all mutable fields of a payment. The creation
// timestamp is preserved.
func (s *Store) UpdatePayment(ctx context.Context, id int64, p core.Payment) error {
	var invoiceID any
	if p.InvoiceID != nil {
		invoiceID = *p.InvoiceID
	}
	var notes any
	if p.Notes != "" {
		notes = p.Notes
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE payments SET customer_id = ?, invoice_id = ?, amount_cents = ?, date = ?, notes = ?
		 WHERE id = ?`,
		p.CustomerID, invoiceID, p.Amount.Cents, p.Date.String(), notes, id)
	if err != nil {
		return queryErr("update payment", err)
	}

	slog.InfoContext(ctx, "Payment updated", "id", id)
	return nil
}

// DeletePayment removes a payment. Deleting an id that does not exist
// is not an error.
func (s *Store) DeletePayment(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id); err != nil {
		return queryErr("delete payment", err)
	}
	slog.InfoContext(ctx, "Payment deleted", "id", id)
	return nil
}
