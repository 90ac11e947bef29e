package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusUnpaid  InvoiceStatus = "unpaid"
	StatusPartial InvoiceStatus = "partial"
	StatusPaid    InvoiceStatus = "paid"
)

type (
	// InvoiceStatus is the closed set of payment states an invoice can be in.
	InvoiceStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Customer struct {
		ID        int64
		Name      string
		Phone     string
		Address   string
		Notes     string
		CreatedAt time.Time
	}

	Invoice struct {
		ID            int64
		InvoiceNumber string
		CustomerID    int64
		Date          Date
		Total         Money
		Status        InvoiceStatus
		// PaidAmount is a cached sum of payments applied against this
		// invoice. It is advisory: the authoritative figure is the sum of
		// linked payment rows, which ListByCustomer recomputes.
		PaidAmount Money
		CreatedAt  time.Time
	}

	InvoiceItem struct {
		ID          int64
		InvoiceID   int64
		ProductName string
		UnitPrice   Money
		Quantity    float64
		Total       Money
	}

	Payment struct {
		ID         int64
		CustomerID int64
		// InvoiceID is nil for a general account credit not attached to
		// any invoice.
		InvoiceID *int64
		Amount    Money
		Date      Date
		Notes     string
		CreatedAt time.Time
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidStatus   = errors.New("invalid invoice status")
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyNumber     = errors.New("empty invoice number")
	ErrEmptyProduct    = errors.New("empty product name")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrMissingCustomer = errors.New("missing customer id")
)

// Valid reports whether s is one of the known invoice statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPartial, StatusPaid:
		return true
	}
	return false
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date in the YYYY-MM-DD form stored in the database.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	return nil
}

func (i Invoice) Validate() error {
	if strings.TrimSpace(i.InvoiceNumber) == "" {
		return ErrEmptyNumber
	}
	if i.CustomerID <= 0 {
		return ErrMissingCustomer
	}
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if i.Total.Cents < 0 {
		return ErrInvalidAmount
	}
	if i.Status != "" && !i.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (it InvoiceItem) Validate() error {
	if strings.TrimSpace(it.ProductName) == "" {
		return ErrEmptyProduct
	}
	if it.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if it.UnitPrice.Cents < 0 || it.Total.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (p Payment) Validate() error {
	if p.CustomerID <= 0 {
		return ErrMissingCustomer
	}
	if err := p.Date.Validate(); err != nil {
		return err
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	return nil
}
