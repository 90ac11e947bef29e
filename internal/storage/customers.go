package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"fatoora/internal/core"
)

type customerRow struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Phone     string         `db:"phone"`
	Address   string         `db:"address"`
	Notes     sql.NullString `db:"notes"`
	CreatedAt string         `db:"created_at"`
}

func (r customerRow) toCore() core.Customer {
	return core.Customer{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		Address:   r.Address,
		Notes:     r.Notes.String,
		CreatedAt: parseTimestamp(r.CreatedAt),
	}
}

// ListCustomers returns customers ordered by creation time descending.
// A non-empty search term substring-matches name, phone, address and
// notes. Pagination applies only when both page and pageSize are
// positive.
func (s *Store) ListCustomers(ctx context.Context, search string, page, pageSize int) ([]core.Customer, error) {
	query := `SELECT id, name, phone, address, notes, created_at FROM customers`
	var args []any

	if search != "" {
		query += ` WHERE name LIKE ? OR phone LIKE ? OR address LIKE ? OR notes LIKE ?`
		p := likePattern(search)
		args = append(args, p, p, p, p)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	if limit, offset, ok := paginate(page, pageSize); ok {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	var rows []customerRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, queryErr("list customers", err)
	}

	customers := make([]core.Customer, len(rows))
	for i, r := range rows {
		customers[i] = r.toCore()
	}
	return customers, nil
}

// GetCustomer returns the customer with the given id, or nil when no
// such row exists. Absence is not an error.
func (s *Store) GetCustomer(ctx context.Context, id int64) (*core.Customer, error) {
	var row customerRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, name, phone, address, notes, created_at FROM customers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, queryErr("get customer", err)
	}
	c := row.toCore()
	return &c, nil
}

// CreateCustomer inserts a customer and returns it with the assigned
// id and server-assigned creation timestamp.
func (s *Store) CreateCustomer(ctx context.Context, c core.Customer) (core.Customer, error) {
	var notes any
	if c.Notes != "" {
		notes = c.Notes
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (name, phone, address, notes) VALUES (?, ?, ?, ?)`,
		c.Name, c.Phone, c.Address, notes)
	if err != nil {
		return core.Customer{}, queryErr("create customer", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Customer{}, queryErr("create customer id", err)
	}

	created, err := s.GetCustomer(ctx, id)
	if err != nil {
		return core.Customer{}, err
	}

	slog.InfoContext(ctx, "Customer created", "id", id, "name", c.Name)
	return *created, nil
}

// CustomerPatch carries the optional fields of a customer update. Only
// non-nil fields are written; the rest keep their prior values.
type CustomerPatch struct {
	Name    *string
	Phone   *string
	Address *string
	Notes   *string
}

// setClauses enumerates the patchable columns in a fixed order,
// pairing each set clause with its bound argument.
func (p CustomerPatch) setClauses() ([]string, []any) {
	var clauses []string
	var args []any
	if p.Name != nil {
		clauses = append(clauses, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Phone != nil {
		clauses = append(clauses, "phone = ?")
		args = append(args, *p.Phone)
	}
	if p.Address != nil {
		clauses = append(clauses, "address = ?")
		args = append(args, *p.Address)
	}
	if p.Notes != nil {
		clauses = append(clauses, "notes = ?")
		args = append(args, *p.Notes)
	}
	return clauses, args
}

// UpdateCustomer applies a partial-field patch. An empty patch is a
// no-op, not an error.
func (s *Store) UpdateCustomer(ctx context.Context, id int64, patch CustomerPatch) error {
	clauses, args := patch.setClauses()
	if len(clauses) == 0 {
		return nil
	}
	args = append(args, id)

	query := `UPDATE customers SET ` + strings.Join(clauses, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return queryErr("update customer", err)
	}

	slog.InfoContext(ctx, "Customer updated", "id", id, "fields", len(clauses))
	return nil
}

// DeleteCustomer removes a customer. Deleting an id that does not
// exist is not an error. Invoices and payments referencing the
// customer are left in place.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id); err != nil {
		return queryErr("delete customer", err)
	}
	slog.InfoContext(ctx, "Customer deleted", "id", id)
	return nil
}
