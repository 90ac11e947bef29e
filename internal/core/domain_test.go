package core

import (
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2024, 1, 1), true},
		{NewDate(2024, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2024-06-01" {
		t.Fatalf("round trip mismatch: %s", d)
	}
	if _, err := ParseDate("01/06/2024"); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
}

func TestInvoiceStatusValid(t *testing.T) {
	for _, s := range []InvoiceStatus{StatusUnpaid, StatusPartial, StatusPaid} {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	for _, s := range []InvoiceStatus{"", "PAID", "overdue"} {
		if s.Valid() {
			t.Fatalf("%q should be invalid", s)
		}
	}
}

func TestCustomerValidate(t *testing.T) {
	if err := (Customer{Name: "Ahmad"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Customer{Name: "  "}).Validate(); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestInvoiceValidate(t *testing.T) {
	good := Invoice{
		InvoiceNumber: "INV-001",
		CustomerID:    1,
		Date:          NewDate(2024, 1, 1),
		Total:         Money{Cents: 10000},
		Status:        StatusUnpaid,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Invoice{
		{InvoiceNumber: "", CustomerID: 1, Date: NewDate(2024, 1, 1)},
		{InvoiceNumber: "INV-002", CustomerID: 0, Date: NewDate(2024, 1, 1)},
		{InvoiceNumber: "INV-003", CustomerID: 1},
		{InvoiceNumber: "INV-004", CustomerID: 1, Date: NewDate(2024, 1, 1), Total: Money{Cents: -1}},
		{InvoiceNumber: "INV-005", CustomerID: 1, Date: NewDate(2024, 1, 1), Status: "overdue"},
	}
	for i, inv := range bads {
		if err := inv.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestInvoiceItemValidate(t *testing.T) {
	good := InvoiceItem{ProductName: "Cement 50kg", UnitPrice: Money{Cents: 2500}, Quantity: 4, Total: Money{Cents: 10000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []InvoiceItem{
		{ProductName: "", Quantity: 1},
		{ProductName: "Cement", Quantity: 0},
		{ProductName: "Cement", Quantity: 1, UnitPrice: Money{Cents: -5}},
	}
	for i, it := range bads {
		if err := it.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestPaymentValidate(t *testing.T) {
	good := Payment{CustomerID: 1, Amount: Money{Cents: 500}, Date: NewDate(2024, 3, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Payment{
		{CustomerID: 0, Amount: Money{Cents: 500}, Date: NewDate(2024, 3, 1)},
		{CustomerID: 1, Amount: Money{Cents: 0}, Date: NewDate(2024, 3, 1)},
		{CustomerID: 1, Amount: Money{Cents: 500}},
	}
	for i, p := range bads {
		if err := p.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
