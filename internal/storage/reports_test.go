package storage

import (
	"context"
	"testing"

	"fatoora/internal/core"
)

func TestCustomerDebtNoActivity(t *testing.T) {
	s := newTestStore(t)

	c := mustCustomer(t, s, "Ahmad")
	debt, err := s.CustomerDebt(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("debt: %v", err)
	}
	if debt.Cents != 0 {
		t.Fatalf("customer with no invoices must owe 0, got %d", debt.Cents)
	}
}

func TestCustomerDebtByStatus(t *testing.T) {
	s := newTestStore(t)

	c := mustCustomer(t, s, "Ahmad")
	// unpaid contributes the full total.
	mustInvoice(t, s, c.ID, "INV-001", "2024-01-10", 10000, core.StatusUnpaid, 0)
	// partial contributes total minus cached paid amount.
	mustInvoice(t, s, c.ID, "INV-002", "2024-02-10", 20000, core.StatusPartial, 5000)
	// paid contributes nothing.
	mustInvoice(t, s, c.ID, "INV-003", "2024-03-10", 30000, core.StatusPaid, 30000)

	debt, err := s.CustomerDebt(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("debt: %v", err)
	}
	if debt.Cents != 25000 {
		t.Fatalf("debt = %d, want 25000 (10000 + 15000 + 0)", debt.Cents)
	}
}

func TestAllDebts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ahmad := mustCustomer(t, s, "Ahmad")
	bilal := mustCustomer(t, s, "Bilal")
	clean := mustCustomer(t, s, "Settled")

	mustInvoice(t, s, ahmad.ID, "INV-001", "2024-01-10", 10000, core.StatusUnpaid, 0)
	mustInvoice(t, s, ahmad.ID, "INV-002", "2024-02-10", 20000, core.StatusUnpaid, 0)
	mustPayment(t, s, ahmad.ID, nil, 5000, "2024-03-01")

	// Overpaid customer: negative debt, still a nonzero row.
	mustInvoice(t, s, bilal.ID, "INV-003", "2024-01-20", 10000, core.StatusPaid, 10000)
	mustPayment(t, s, bilal.ID, nil, 15000, "2024-02-01")

	// Exactly settled: invoices equal payments.
	mustInvoice(t, s, clean.ID, "INV-004", "2024-01-25", 5000, core.StatusPaid, 5000)
	mustPayment(t, s, clean.ID, nil, 5000, "2024-01-26")

	t.Run("includeZero lists every customer exactly once", func(t *testing.T) {
		debts, err := s.AllDebts(ctx, true, "")
		if err != nil {
			t.Fatalf("debts: %v", err)
		}
		if len(debts) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(debts))
		}
		byID := map[int64]core.CustomerDebt{}
		for _, d := range debts {
			byID[d.CustomerID] = d
		}
		if d := byID[ahmad.ID]; d.TotalDebt.Cents != 25000 || d.TotalInvoices.Cents != 30000 || d.TotalPayments.Cents != 5000 {
			t.Fatalf("ahmad row wrong: %+v", d)
		}
		if d := byID[bilal.ID]; d.TotalDebt.Cents != -5000 {
			t.Fatalf("overpayment must be negative, got %d", d.TotalDebt.Cents)
		}
		if d := byID[clean.ID]; d.TotalDebt.Cents != 0 {
			t.Fatalf("settled customer should be zero, got %d", d.TotalDebt.Cents)
		}
	})

	t.Run("default excludes exactly the zero-debt customers", func(t *testing.T) {
		debts, err := s.AllDebts(ctx, false, "")
		if err != nil {
			t.Fatalf("debts: %v", err)
		}
		if len(debts) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(debts))
		}
		for _, d := range debts {
			if d.CustomerID == clean.ID {
				t.Fatalf("zero-debt customer must be excluded")
			}
		}
		// Ordered by debt descending.
		if debts[0].TotalDebt.Cents < debts[1].TotalDebt.Cents {
			t.Fatalf("not ordered by debt desc: %+v", debts)
		}
	})

	t.Run("search filters by name", func(t *testing.T) {
		debts, err := s.AllDebts(ctx, true, "bilal")
		if err != nil {
			t.Fatalf("debts: %v", err)
		}
		if len(debts) != 1 || debts[0].CustomerID != bilal.ID {
			t.Fatalf("expected bilal only, got %+v", debts)
		}
	})
}

func TestSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("empty store sums to zero", func(t *testing.T) {
		sum, err := s.Summary(ctx)
		if err != nil {
			t.Fatalf("summary: %v", err)
		}
		if sum.TotalInvoices.Cents != 0 || sum.TotalPayments.Cents != 0 || sum.TotalDebts.Cents != 0 || sum.CustomerCount != 0 {
			t.Fatalf("expected all zeros, got %+v", sum)
		}
	})

	ahmad := mustCustomer(t, s, "Ahmad")
	mustCustomer(t, s, "Bilal")
	mustInvoice(t, s, ahmad.ID, "INV-001", "2024-01-10", 30000, core.StatusUnpaid, 0)
	mustPayment(t, s, ahmad.ID, nil, 10000, "2024-02-01")

	t.Run("global totals", func(t *testing.T) {
		sum, err := s.Summary(ctx)
		if err != nil {
			t.Fatalf("summary: %v", err)
		}
		if sum.TotalInvoices.Cents != 30000 {
			t.Fatalf("invoices = %d", sum.TotalInvoices.Cents)
		}
		if sum.TotalPayments.Cents != 10000 {
			t.Fatalf("payments = %d", sum.TotalPayments.Cents)
		}
		if sum.TotalDebts.Cents != 20000 {
			t.Fatalf("debts = %d", sum.TotalDebts.Cents)
		}
		if sum.CustomerCount != 2 {
			t.Fatalf("customers = %d", sum.CustomerCount)
		}
	})
}

func TestTransactionsLedger(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := mustCustomer(t, s, "Ahmad")
	other := mustCustomer(t, s, "Bilal")

	mustInvoice(t, s, c.ID, "INV-001", "2024-01-01", 10000, core.StatusUnpaid, 0)
	mustInvoice(t, s, c.ID, "INV-002", "2024-06-01", 20000, core.StatusUnpaid, 0)
	mustPayment(t, s, c.ID, nil, 5000, "2024-03-01")

	// Another customer's activity must never leak into the ledger.
	mustInvoice(t, s, other.ID, "INV-099", "2024-02-01", 99900, core.StatusUnpaid, 0)
	mustPayment(t, s, other.ID, nil, 11100, "2024-02-02")

	from, _ := core.ParseDate("2024-01-01")
	to, _ := core.ParseDate("2024-12-31")

	ledger, err := s.Transactions(ctx, c.ID, from, &to)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}

	if len(ledger.Data) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(ledger.Data))
	}
	// Ascending by date: invoice, payment, invoice.
	wantDates := []string{"2024-01-01", "2024-03-01", "2024-06-01"}
	wantTypes := []string{core.TransactionInvoice, core.TransactionPayment, core.TransactionInvoice}
	for i, tx := range ledger.Data {
		if tx.Date.String() != wantDates[i] || tx.Type != wantTypes[i] {
			t.Fatalf("row %d: got %s %s, want %s %s", i, tx.Type, tx.Date, wantTypes[i], wantDates[i])
		}
	}
	if ledger.Data[0].Reference != "INV-001" {
		t.Fatalf("invoice row must carry its number, got %q", ledger.Data[0].Reference)
	}
	if ledger.Data[1].Reference != "" {
		t.Fatalf("payment row must have empty reference, got %q", ledger.Data[1].Reference)
	}

	if ledger.TotalInvoices.Cents != 30000 {
		t.Fatalf("totalInvoices = %d, want 30000", ledger.TotalInvoices.Cents)
	}
	if ledger.TotalPayments.Cents != 5000 {
		t.Fatalf("totalPayments = %d, want 5000", ledger.TotalPayments.Cents)
	}
	if ledger.RemainingTotal.Cents != 25000 {
		t.Fatalf("remainingTotal = %d, want 25000", ledger.RemainingTotal.Cents)
	}
}

func TestTransactionsWindow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := mustCustomer(t, s, "Ahmad")
	mustInvoice(t, s, c.ID, "INV-001", "2024-01-01", 10000, core.StatusUnpaid, 0)
	mustInvoice(t, s, c.ID, "INV-002", "2024-06-01", 20000, core.StatusUnpaid, 0)

	from, _ := core.ParseDate("2024-02-01")

	t.Run("open-ended upper bound", func(t *testing.T) {
		ledger, err := s.Transactions(ctx, c.ID, from, nil)
		if err != nil {
			t.Fatalf("transactions: %v", err)
		}
		if len(ledger.Data) != 1 || ledger.Data[0].Reference != "INV-002" {
			t.Fatalf("expected only the later invoice, got %+v", ledger.Data)
		}
		if ledger.TotalInvoices.Cents != 20000 {
			t.Fatalf("summary must use the same window, got %d", ledger.TotalInvoices.Cents)
		}
	})

	t.Run("bounded window excludes later rows", func(t *testing.T) {
		to, _ := core.ParseDate("2024-03-01")
		ledger, err := s.Transactions(ctx, c.ID, from, &to)
		if err != nil {
			t.Fatalf("transactions: %v", err)
		}
		if len(ledger.Data) != 0 {
			t.Fatalf("expected empty window, got %d rows", len(ledger.Data))
		}
		if ledger.TotalInvoices.Cents != 0 || ledger.RemainingTotal.Cents != 0 {
			t.Fatalf("empty window must sum to zero: %+v", ledger)
		}
	})
}

func TestInvoicesReport(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ahmad := mustCustomer(t, s, "Ahmad")
	bilal := mustCustomer(t, s, "Bilal")
	mustInvoice(t, s, ahmad.ID, "INV-001", "2024-01-10", 10000, core.StatusUnpaid, 0)
	mustInvoice(t, s, ahmad.ID, "INV-002", "2024-05-10", 20000, core.StatusUnpaid, 0)
	mustInvoice(t, s, bilal.ID, "INV-003", "2024-03-10", 30000, core.StatusUnpaid, 0)

	from, _ := core.ParseDate("2024-01-01")
	to, _ := core.ParseDate("2024-04-01")

	t.Run("window only", func(t *testing.T) {
		list, err := s.InvoicesReport(ctx, from, &to, nil)
		if err != nil {
			t.Fatalf("report: %v", err)
		}
		if len(list.Data) != 2 || list.Total.Cents != 40000 {
			t.Fatalf("expected 2 rows summing 40000, got %d rows %d cents", len(list.Data), list.Total.Cents)
		}
		// Ascending by date for the rendered table.
		if list.Data[0].InvoiceNumber != "INV-001" || list.Data[1].InvoiceNumber != "INV-003" {
			t.Fatalf("unexpected order: %+v", list.Data)
		}
		if list.Data[0].CustomerAddress == "" {
			t.Fatalf("customer address must be joined for the report")
		}
	})

	t.Run("restricted to one customer", func(t *testing.T) {
		list, err := s.InvoicesReport(ctx, from, nil, &ahmad.ID)
		if err != nil {
			t.Fatalf("report: %v", err)
		}
		if len(list.Data) != 2 || list.Total.Cents != 30000 {
			t.Fatalf("expected Ahmad's 2 invoices summing 30000, got %d rows %d cents", len(list.Data), list.Total.Cents)
		}
	})
}
