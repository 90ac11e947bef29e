package services

import (
	"context"
	"fmt"

	"fatoora/internal/core"
	"fatoora/internal/pdf"
	"fatoora/internal/storage"
)

// CompanyInfo is the business identity printed in report headers.
type CompanyInfo struct {
	Name    string
	Phone   string
	Address string
}

// DocumentService turns report query results into rendered PDF files.
type DocumentService struct {
	store    *storage.Store
	renderer *pdf.Renderer
	company  CompanyInfo
}

func NewDocumentService(store *storage.Store, renderer *pdf.Renderer, company CompanyInfo) *DocumentService {
	return &DocumentService{
		store:    store,
		renderer: renderer,
		company:  company,
	}
}

// GenerateInvoicesPDF renders the invoices report for a date window,
// optionally restricted to one customer, and returns the file path.
func (s *DocumentService) GenerateInvoicesPDF(ctx context.Context, from core.Date, to *core.Date, customerID *int64) (string, error) {
	list, err := s.store.InvoicesReport(ctx, from, to, customerID)
	if err != nil {
		return "", fmt.Errorf("load invoices report: %w", err)
	}

	rows := make([][]string, 0, len(list.Data))
	for _, inv := range list.Data {
		rows = append(rows, []string{
			inv.CustomerName,
			inv.CustomerPhone,
			inv.CustomerAddress,
			inv.Date.String(),
			inv.Total.Format(),
		})
	}

	data := pdf.ReportData{
		CompanyName:    s.company.Name,
		CompanyPhone:   s.company.Phone,
		CompanyAddress: s.company.Address,
		Title:          "Invoices report",
		FromDate:       from.String(),
		ToDate:         dateString(to),
		Header:         []string{"Customer", "Phone", "Address", "Date", "Total"},
		Rows:           rows,
		Summary:        []pdf.SummaryLine{{Label: "Total", Value: list.Total.Format()}},
	}

	return s.renderer.InvoicesReport(ctx, data)
}

// GenerateTransactionsPDF renders a customer account statement over a
// date window and returns the file path. The customer display fields
// come from the caller, not the store.
func (s *DocumentService) GenerateTransactionsPDF(ctx context.Context, customerID int64, name, phone, address string, from core.Date, to *core.Date) (string, error) {
	ledger, err := s.store.Transactions(ctx, customerID, from, to)
	if err != nil {
		return "", fmt.Errorf("load transactions: %w", err)
	}

	rows := make([][]string, 0, len(ledger.Data))
	for _, tx := range ledger.Data {
		rows = append(rows, []string{
			tx.Date.String(),
			tx.Type,
			tx.Reference,
			tx.Amount.Format(),
		})
	}

	data := pdf.ReportData{
		CompanyName:     s.company.Name,
		CompanyPhone:    s.company.Phone,
		CompanyAddress:  s.company.Address,
		CustomerName:    name,
		CustomerPhone:   phone,
		CustomerAddress: address,
		Title:           "Account statement",
		FromDate:        from.String(),
		ToDate:          dateString(to),
		Header:          []string{"Date", "Type", "Reference", "Amount"},
		Rows:            rows,
		Summary: []pdf.SummaryLine{
			{Label: "Total invoices", Value: ledger.TotalInvoices.Format()},
			{Label: "Total payments", Value: ledger.TotalPayments.Format()},
			{Label: "Remaining", Value: ledger.RemainingTotal.Format()},
		},
	}

	return s.renderer.TransactionsReport(ctx, data)
}

func dateString(d *core.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
