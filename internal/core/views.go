package core

import "time"

// Derived, read-only projections. None of these are persisted; every
// value is recomputed from the base tables on each call.

// CustomerDebt is one row of the per-customer debt report:
// summed invoices minus summed payments. TotalDebt may be negative
// when a customer has overpaid.
type CustomerDebt struct {
	CustomerID    int64
	Name          string
	Phone         string
	TotalInvoices Money
	TotalPayments Money
	TotalDebt     Money
}

// ReportSummary holds the global bookkeeping totals.
type ReportSummary struct {
	TotalInvoices Money
	TotalPayments Money
	TotalDebts    Money
	CustomerCount int64
}

const (
	TransactionInvoice = "invoice"
	TransactionPayment = "payment"
)

// Transaction is a unified ledger record: an invoice or a payment,
// tagged by type and merged into one date-ordered sequence.
type Transaction struct {
	RecordID int64
	Type     string
	// Reference carries the invoice number for invoice rows; empty for
	// payments.
	Reference     string
	CustomerID    int64
	CustomerName  string
	CustomerPhone string
	Date          Date
	Amount        Money
	CreatedAt     time.Time
}

// Ledger is the result of a transactions query: the merged rows plus
// window sums recomputed directly against the same date filter.
type Ledger struct {
	Data           []Transaction
	TotalInvoices  Money
	TotalPayments  Money
	RemainingTotal Money
}

// InvoiceWithCustomer joins an invoice with its customer's display
// fields and the remaining amount computed from the cached paid amount.
type InvoiceWithCustomer struct {
	Invoice
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Remaining       Money
}

// InvoiceList pairs a page of invoices with the sum over the whole
// filtered set, not just the returned page.
type InvoiceList struct {
	Data  []InvoiceWithCustomer
	Total Money
}

// InvoiceBalance is an invoice with the paid amount recomputed from
// its linked payment rows, bypassing the cached paid_amount column.
type InvoiceBalance struct {
	Invoice
	Paid      Money
	Remaining Money
}

// PaymentWithRefs joins a payment with the customer name and, when the
// payment is attached to an invoice, that invoice's number.
type PaymentWithRefs struct {
	Payment
	CustomerName  string
	InvoiceNumber string
}

// PaymentList pairs a page of payments with the sum over the whole
// filtered set.
type PaymentList struct {
	Data      []PaymentWithRefs
	SumAmount Money
}

// Product is a distinct historical product name from invoice items,
// used for autocomplete.
type Product struct {
	ID   int64
	Name string
}
