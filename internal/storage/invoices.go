package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fatoora/internal/core"
)

type invoiceRow struct {
	ID            int64  `db:"id"`
	InvoiceNumber string `db:"invoice_number"`
	CustomerID    int64  `db:"customer_id"`
	Date          string `db:"date"`
	TotalCents    int64  `db:"total_cents"`
	Status        string `db:"status"`
	PaidCents     int64  `db:"paid_cents"`
	CreatedAt     string `db:"created_at"`
}

func (r invoiceRow) toCore() core.Invoice {
	date, _ := core.ParseDate(r.Date)
	return core.Invoice{
		ID:            r.ID,
		InvoiceNumber: r.InvoiceNumber,
		CustomerID:    r.CustomerID,
		Date:          date,
		Total:         core.Money{Cents: r.TotalCents},
		Status:        core.InvoiceStatus(r.Status),
		PaidAmount:    core.Money{Cents: r.PaidCents},
		CreatedAt:     parseTimestamp(r.CreatedAt),
	}
}

type invoiceWithCustomerRow struct {
	invoiceRow
	CustomerName    sql.NullString `db:"customer_name"`
	CustomerPhone   sql.NullString `db:"customer_phone"`
	CustomerAddress sql.NullString `db:"customer_address"`
}

func (r invoiceWithCustomerRow) toCore() core.InvoiceWithCustomer {
	inv := r.invoiceRow.toCore()
	return core.InvoiceWithCustomer{
		Invoice:         inv,
		CustomerName:    r.CustomerName.String,
		CustomerPhone:   r.CustomerPhone.String,
		CustomerAddress: r.CustomerAddress.String,
		Remaining:       inv.Total.Sub(inv.PaidAmount),
	}
}

type invoiceItemRow struct {
	ID             int64   `db:"id"`
	InvoiceID      int64   `db:"invoice_id"`
	ProductName    string  `db:"product_name"`
	UnitPriceCents int64   `db:"unit_price_cents"`
	Quantity       float64 `db:"quantity"`
	TotalCents     int64   `db:"total_cents"`
}

func (r invoiceItemRow) toCore() core.InvoiceItem {
	return core.InvoiceItem{
		ID:          r.ID,
		InvoiceID:   r.InvoiceID,
		ProductName: r.ProductName,
		UnitPrice:   core.Money{Cents: r.UnitPriceCents},
		Quantity:    r.Quantity,
		Total:       core.Money{Cents: r.TotalCents},
	}
}

// invoiceSearchWhere builds the shared WHERE clause for invoice list
// and sum queries. The date matches by prefix so "2024-06" finds a
// month; the other fields substring-match.
func invoiceSearchWhere(search string) (string, []any) {
	if search == "" {
		return "", nil
	}
	where := ` WHERE i.invoice_number LIKE ? OR c.name LIKE ? OR i.date LIKE ?`
	return where, []any{likePattern(search), likePattern(search), search + "%"}
}

// ListInvoices returns a page of invoices joined with customer display
// fields, plus the total over the entire filtered set (not just the
// returned page).
func (s *Store) ListInvoices(ctx context.Context, search string, page, pageSize int) (core.InvoiceList, error) {
	where, whereArgs := invoiceSearchWhere(search)

	sumQuery := `SELECT IFNULL(SUM(i.total_cents), 0)
		FROM invoices i LEFT JOIN customers c ON i.customer_id = c.id` + where

	var sumCents int64
	if err := s.db.GetContext(ctx, &sumCents, sumQuery, whereArgs...); err != nil {
		return core.InvoiceList{}, queryErr("sum invoices", err)
	}

	query := `SELECT i.id, i.invoice_number, i.customer_id, i.date, i.total_cents,
			i.status, i.paid_cents, i.created_at,
			c.name AS customer_name, c.phone AS customer_phone, c.address AS customer_address
		FROM invoices i
		LEFT JOIN customers c ON i.customer_id = c.id` + where +
		` ORDER BY i.created_at DESC, i.id DESC`

	args := whereArgs
	if limit, offset, ok := paginate(page, pageSize); ok {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	var rows []invoiceWithCustomerRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return core.InvoiceList{}, queryErr("list invoices", err)
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

// GetInvoice returns the invoice with the given id, or nil when no
// such row exists.
func (s *Store) GetInvoice(ctx context.Context, id int64) (*core.Invoice, error) {
	var row invoiceRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, invoice_number, customer_id, date, total_cents, status, paid_cents, created_at
		 FROM invoices WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, queryErr("get invoice", err)
	}
	inv := row.toCore()
	return &inv, nil
}

// ListInvoicesByCustomer returns a customer's invoices ordered by
// invoice date descending, with the paid amount recomputed from linked
// payment rows rather than the cached paid_cents column.
func (s *Store) ListInvoicesByCustomer(ctx context.Context, customerID int64) ([]core.InvoiceBalance, error) {
	type row struct {
		invoiceRow
		Paid int64 `db:"paid"`
	}

	var rows []row
	err := s.db.SelectContext(ctx, &rows, `
		SELECT i.id, i.invoice_number, i.customer_id, i.date, i.total_cents,
			i.status, i.paid_cents, i.created_at,
			IFNULL(p.paid, 0) AS paid
		FROM invoices i
		LEFT JOIN (
			SELECT invoice_id, SUM(amount_cents) AS paid
			FROM payments
			WHERE invoice_id IS NOT NULL
			GROUP BY invoice_id
		) p ON p.invoice_id = i.id
		WHERE i.customer_id = ?
		ORDER BY i.date DESC, i.id DESC`, customerID)
	if err != nil {
		return nil, queryErr("list invoices by customer", err)
	}

	balances := make([]core.InvoiceBalance, len(rows))
	for i, r := range rows {
		inv := r.invoiceRow.toCore()
		paid := core.Money{Cents: r.Paid}
		balances[i] = core.InvoiceBalance{
			Invoice:   inv,
			Paid:      paid,
			Remaining: inv.Total.Sub(paid),
		}
	}
	return balances, nil
}

// InvoiceItems returns the line items of an invoice. An invoice with
// no items (or an unknown invoice id) yields an empty slice.
func (s *Store) InvoiceItems(ctx context.Context, invoiceID int64) ([]core.InvoiceItem, error) {
	var rows []invoiceItemRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, invoice_id, product_name, unit_price_cents, quantity, total_cents
		 FROM invoice_items WHERE invoice_id = ?`, invoiceID)
	if err != nil {
		return nil, queryErr("list invoice items", err)
	}

	items := make([]core.InvoiceItem, len(rows))
	for i, r := range rows {
		items[i] = r.toCore()
	}
	return items, nil
}

// DistinctProducts returns distinct historical product names from
// invoice items, keyed by the lowest item id that used each name.
// Used for autocomplete in the UI shell.
func (s *Store) DistinctProducts(ctx context.Context, search string) ([]core.Product, error) {
	query := `SELECT MIN(id) AS id, product_name AS name FROM invoice_items`
	var args []any
	if search != "" {
		query += ` WHERE product_name LIKE ?`
		args = append(args, likePattern(search))
	}
	query += ` GROUP BY product_name ORDER BY name`

	type row struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, queryErr("list products", err)
	}

	products := make([]core.Product, len(rows))
	for i, r := range rows {
		products[i] = core.Product{ID: r.ID, Name: r.Name}
	}
	return products, nil
}

// CreateInvoice inserts an invoice and its line items in one
// transaction, so a crash cannot leave an invoice without its items.
// Status defaults to unpaid. Returns the assigned invoice id.
func (s *Store) CreateInvoice(ctx context.Context, inv core.Invoice, items []core.InvoiceItem) (int64, error) {
	if inv.Status == "" {
		inv.Status = core.StatusUnpaid
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, queryErr("begin create invoice", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO invoices (invoice_number, customer_id, date, total_cents, status, paid_cents)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.InvoiceNumber, inv.CustomerID, inv.Date.String(),
		inv.Total.Cents, string(inv.Status), inv.PaidAmount.Cents)
	if err != nil {
		return 0, queryErr("create invoice", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, queryErr("create invoice id", err)
	}

	for _, item := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_items (invoice_id, product_name, unit_price_cents, quantity, total_cents)
			 VALUES (?, ?, ?, ?, ?)`,
			id, item.ProductName, item.UnitPrice.Cents, item.Quantity, item.Total.Cents); err != nil {
			return 0, queryErr("create invoice item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, queryErr("commit create invoice", err)
	}

	slog.InfoContext(ctx, "Invoice created",
		"id", id,
		"invoice_number", inv.InvoiceNumber,
		"customer_id", inv.CustomerID,
		"total_cents", inv.Total.Cents,
		"items", len(items))
	return id, nil
}

// AddInvoiceItem appends a line item to an existing invoice and
// returns it with the assigned id.
func (s *Store) AddInvoiceItem(ctx context.Context, item core.InvoiceItem) (core.InvoiceItem, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO invoice_items (invoice_id, product_name, unit_price_cents, quantity, total_cents)
		 VALUES (?, ?, ?, ?, ?)`,
		item.InvoiceID, item.ProductName, item.UnitPrice.Cents, item.Quantity, item.Total.Cents)
	if err != nil {
		return core.InvoiceItem{}, queryErr("create invoice item", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.InvoiceItem{}, queryErr("create invoice item id", err)
	}
	item.ID = id
	return item, nil
}

// DeleteInvoiceItems removes all line items of an invoice.
func (s *Store) DeleteInvoiceItems(ctx context.Context, invoiceID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, invoiceID); err != nil {
		return queryErr("delete invoice items", err)
	}
	return nil
}

// InvoicePatch carries the optional fields of an invoice update.
type InvoicePatch struct {
	InvoiceNumber *string
	CustomerID    *int64
	Date          *core.Date
	Total         *core.Money
	Status        *core.InvoiceStatus
	PaidAmount    *core.Money
}

func (p InvoicePatch) setClauses() ([]string, []any, error) {
	var clauses []string
	var args []any
	if p.InvoiceNumber != nil {
		clauses = append(clauses, "invoice_number = ?")
		args = append(args, *p.InvoiceNumber)
	}
	if p.CustomerID != nil {
		clauses = append(clauses, "customer_id = ?")
		args = append(args, *p.CustomerID)
	}
	if p.Date != nil {
		clauses = append(clauses, "date = ?")
		args = append(args, p.Date.String())
	}
	if p.Total != nil {
		clauses = append(clauses, "total_cents = ?")
		args = append(args, p.Total.Cents)
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, nil, fmt.Errorf("update invoice: %w", core.ErrInvalidStatus)
		}
		clauses = append(clauses, "status = ?")
		args = append(args, string(*p.Status))
	}
	if p.PaidAmount != nil {
		clauses = append(clauses, "paid_cents = ?")
		args = append(args, p.PaidAmount.Cents)
	}
	return clauses, args, nil
}

// UpdateInvoice applies a partial-field patch. An empty patch is a
// no-op, not an error.
func (s *Store) UpdateInvoice(ctx context.Context, id int64, patch InvoicePatch) error {
	clauses, args, err := patch.setClauses()
	if err != nil {
		return err
	}
	if len(clauses) == 0 {
		return nil
	}
	args = append(args, id)

	query := `UPDATE invoices SET ` + strings.Join(clauses, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return queryErr("update invoice", err)
	}

	slog.InfoContext(ctx, "Invoice updated", "id", id, "fields", len(clauses))
	return nil
}

// DeleteInvoice removes an invoice and its line items in one
// transaction, items first to respect the referential ordering.
// Deleting an id that does not exist is not an error.
func (s *Store) DeleteInvoice(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return queryErr("begin delete invoice", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, id); err != nil {
		return queryErr("delete invoice items", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id); err != nil {
		return queryErr("delete invoice", err)
	}

	if err := tx.Commit(); err != nil {
		return queryErr("commit delete invoice", err)
	}

	slog.InfoContext(ctx, "Invoice deleted", "id", id)
	return nil
}
