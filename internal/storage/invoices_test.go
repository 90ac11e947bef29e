package storage

import (
	"context"
	"testing"

	"fatoora/internal/core"
)

func TestCreateInvoiceWithItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := mustCustomer(t, s, "Ahmad")
	d, _ := core.ParseDate("2024-01-15")

	items := []core.InvoiceItem{
		{ProductName: "Cement 50kg", UnitPrice: core.Money{Cents: 2500}, Quantity: 4, Total: core.Money{Cents: 10000}},
		{ProductName: "Rebar 12mm", UnitPrice: core.Money{Cents: 1500}, Quantity: 10, Total: core.Money{Cents: 15000}},
	}
	id, err := s.CreateInvoice(ctx, core.Invoice{
		InvoiceNumber: "INV-001",
		CustomerID:    c.ID,
		Date:          d,
		Total:         core.Money{Cents: 25000},
	}, items)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inv, err := s.GetInvoice(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if inv == nil {
		t.Fatalf("invoice absent after create")
	}
	if inv.Status != core.StatusUnpaid {
		t.Fatalf("status should default to unpaid, got %q", inv.Status)
	}
	if inv.Total.Cents != 25000 {
		t.Fatalf("total = %d, want 25000", inv.Total.Cents)
	}
	if inv.Date.String() != "2024-01-15" {
		t.Fatalf("date = %s", inv.Date)
	}

	got, err := s.InvoiceItems(ctx, id)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].ProductName != "Cement 50kg" || got[0].Quantity != 4 {
		t.Fatalf("unexpected first item: %+v", got[0])
	}
}

func TestDeleteInvoiceRemovesItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := mustCustomer(t, s, "Ahmad")
	d, _ := core.ParseDate("2024-01-15")
	id, err := s.CreateInvoice(ctx, core.Invoice{
		InvoiceNumber: "INV-001",
		CustomerID:    c.ID,
		Date:          d,
		Total:         core.Money{Cents: 5000},
	}, []core.InvoiceItem{
		{ProductName: "A", UnitPrice: core.Money{Cents: 2500}, Quantity: 1, Total: core.Money{Cents: 2500}},
		{ProductName: "B", UnitPrice: core.Money{Cents: 2500}, Quantity: 1, Total: core.Money{Cents: 2500}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.DeleteInvoice(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	items, err := s.InvoiceItems(ctx, id)
	if err != nil {
		t.Fatalf("items after delete: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}

	inv, err := s.GetInvoice(ctx, id)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if inv != nil {
		t.Fatalf("expected absent invoice, got %+v", inv)
	}
}

func TestUpdateInvoicePatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := mustCustomer(t, s, "Ahmad")
	id := mustInvoice(t, s, c.ID, "INV-001", "2024-01-15", 10000, core.StatusUnpaid, 0)

	status := core.StatusPartial
	paid := core.Money{Cents: 4000}
	if err := s.UpdateInvoice(ctx, id, InvoicePatch{Status: &status, PaidAmount: &paid}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	inv, err := s.GetInvoice(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if inv.Status != core.StatusPartial || inv.PaidAmount.Cents != 4000 {
		t.Fatalf("patch not applied: %+v", inv)
	}
	if inv.InvoiceNumber != "INV-001" || inv.Total.Cents != 10000 {
		t.Fatalf("untouched fields changed: %+v", inv)
	}

	// Empty patch is a no-op.
	if err := s.UpdateInvoice(ctx, id, InvoicePatch{}); err != nil {
		t.Fatalf("empty patch: %v", err)
	}

	// Unknown status values are rejected before touching the store.
	bad := core.InvoiceStatus("overdue")
	if err := s.UpdateInvoice(ctx, id, InvoicePatch{Status: &bad}); err == nil {
		t.Fatalf("expected error for invalid status")
	}
}

func TestListInvoicesSearchAndTotal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ahmad := mustCustomer(t, s, "Ahmad")
	bilal := mustCustomer(t, s, "Bilal")
	mustInvoice(t, s, ahmad.ID, "INV-001", "2024-01-10", 10000, core.StatusUnpaid, 0)
	mustInvoice(t, s, ahmad.ID, "INV-002", "2024-02-10", 20000, core.StatusUnpaid, 0)
	mustInvoice(t, s, bilal.ID, "INV-003", "2024-03-10", 30000, core.StatusUnpaid, 0)

	// Unfiltered: total sums the whole set even when paginated.
	list, err := s.ListInvoices(ctx, "", 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Data) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(list.Data))
	}
	if list.Total.Cents != 60000 {
		t.Fatalf("total = %d, want 60000 over whole set", list.Total.Cents)
	}

	// Search by customer name.
	list, err = s.ListInvoices(ctx, "ahmad", 0, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(list.Data) != 2 || list.Total.Cents != 30000 {
		t.Fatalf("expected Ahmad's two invoices summing 30000, got %d rows %d cents", len(list.Data), list.Total.Cents)
	}

	// Search by date prefix.
	list, err = s.ListInvoices(ctx, "2024-03", 0, 0)
	if err != nil {
		t.Fatalf("date search: %v", err)
	}
	if len(list.Data) != 1 || list.Data[0].InvoiceNumber != "INV-003" {
		t.Fatalf("expected INV-003 only, got %+v", list.Data)
	}
	if list.Data[0].CustomerName != "Bilal" {
		t.Fatalf("customer name not joined: %+v", list.Data[0])
	}
}

func TestListInvoicesByCustomerRecomputesPaid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := mustCustomer(t, s, "Ahmad")
	// Cached paid amount deliberately wrong: the query must ignore it.
	id := mustInvoice(t, s, c.ID, "INV-001", "2024-01-15", 30000, core.StatusPartial, 99)
	mustPayment(t, s, c.ID, &id, 5000, "2024-02-01")
	mustPayment(t, s, c.ID, &id, 7000, "2024-03-01")
	// Unattached credit must not count toward the invoice.
	mustPayment(t, s, c.ID, nil, 100000, "2024-03-02")

	got, err := s.ListInvoicesByCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(got))
	}
	if got[0].Paid.Cents != 12000 {
		t.Fatalf("paid = %d, want 12000 from linked payments", got[0].Paid.Cents)
	}
	if got[0].Remaining.Cents != 18000 {
		t.Fatalf("remaining = %d, want 18000", got[0].Remaining.Cents)
	}
}

func TestListInvoicesByCustomerNoPayments(t *testing.T) {
	s := newTestStore(t)

	c := mustCustomer(t, s, "Ahmad")
	mustInvoice(t, s, c.ID, "INV-001", "2024-01-15", 30000, core.StatusUnpaid, 0)

	got, err := s.ListInvoicesByCustomer(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].Paid.Cents != 0 || got[0].Remaining.Cents != 30000 {
		t.Fatalf("paid should default to 0: %+v", got[0])
	}
}

func TestDistinctProducts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := mustCustomer(t, s, "Ahmad")
	d, _ := core.ParseDate("2024-01-15")
	_, err := s.CreateInvoice(ctx, core.Invoice{
		InvoiceNumber: "INV-001", CustomerID: c.ID, Date: d, Total: core.Money{Cents: 1},
	}, []core.InvoiceItem{
		{ProductName: "Cement", UnitPrice: core.Money{Cents: 100}, Quantity: 1, Total: core.Money{Cents: 100}},
		{ProductName: "Rebar", UnitPrice: core.Money{Cents: 100}, Quantity: 1, Total: core.Money{Cents: 100}},
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	_, err = s.CreateInvoice(ctx, core.Invoice{
		InvoiceNumber: "INV-002", CustomerID: c.ID, Date: d, Total: core.Money{Cents: 1},
	}, []core.InvoiceItem{
		// Repeated product name collapses to one row.
		{ProductName: "Cement", UnitPrice: core.Money{Cents: 100}, Quantity: 2, Total: core.Money{Cents: 200}},
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	products, err := s.DistinctProducts(ctx, "")
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 distinct products, got %d", len(products))
	}
	// Ordered by name, keyed by the lowest item id.
	if products[0].Name != "Cement" || products[1].Name != "Rebar" {
		t.Fatalf("unexpected order: %+v", products)
	}

	filtered, err := s.DistinctProducts(ctx, "reb")
	if err != nil {
		t.Fatalf("filtered products: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "Rebar" {
		t.Fatalf("expected Rebar only, got %+v", filtered)
	}
}
