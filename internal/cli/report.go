package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fatoora/internal/core"
	"fatoora/internal/pdf"
	"fatoora/internal/services"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render PDF reports without starting the server",
}

var reportInvoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Render the invoices report as a PDF",
	RunE:  runReportInvoices,
}

var reportTransactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Render a customer transaction report as a PDF",
	RunE:  runReportTransactions,
}

var (
	reportFrom     string
	reportTo       string
	reportCustomer int64
)

func init() {
	for _, cmd := range []*cobra.Command{reportInvoicesCmd, reportTransactionsCmd} {
		cmd.Flags().StringVar(&reportFrom, "from", "", "start of the reporting window (YYYY-MM-DD)")
		cmd.Flags().StringVar(&reportTo, "to", "", "end of the reporting window (YYYY-MM-DD)")
		cmd.Flags().Int64Var(&reportCustomer, "customer", 0, "customer id")
	}
	reportCmd.AddCommand(reportInvoicesCmd)
	reportCmd.AddCommand(reportTransactionsCmd)
	rootCmd.AddCommand(reportCmd)
}

func reportWindow() (core.Date, *core.Date, error) {
	if reportFrom == "" {
		return core.Date{}, nil, fmt.Errorf("--from is required")
	}
	from, err := core.ParseDate(reportFrom)
	if err != nil {
		return core.Date{}, nil, fmt.Errorf("parse --from: %w", err)
	}
	var to *core.Date
	if reportTo != "" {
		parsed, err := core.ParseDate(reportTo)
		if err != nil {
			return core.Date{}, nil, fmt.Errorf("parse --to: %w", err)
		}
		to = &parsed
	}
	return from, to, nil
}

func newDocumentService() (*services.DocumentService, func(), error) {
	logger := SetupLogger()
	LoadEnvFile()
	cfg := LoadAndValidateConfig(logger)

	store := OpenStore(logger, cfg.DBPath)
	renderer := pdf.NewRenderer(cfg.DataDir, cfg.TemplateDir)
	docs := services.NewDocumentService(store, renderer, services.CompanyInfo{
		Name:    cfg.CompanyName,
		Phone:   cfg.CompanyPhone,
		Address: cfg.CompanyAddress,
	})
	return docs, func() { store.Close() }, nil
}

func runReportInvoices(cmd *cobra.Command, args []string) error {
	from, to, err := reportWindow()
	if err != nil {
		return err
	}

	docs, cleanup, err := newDocumentService()
	if err != nil {
		return err
	}
	defer cleanup()

	var customerID *int64
	if reportCustomer > 0 {
		customerID = &reportCustomer
	}

	path, err := docs.GenerateInvoicesPDF(context.Background(), from, to, customerID)
	if err != nil {
		return fmt.Errorf("generate invoices report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runReportTransactions(cmd *cobra.Command, args []string) error {
	if reportCustomer <= 0 {
		return fmt.Errorf("--customer is required")
	}
	from, to, err := reportWindow()
	if err != nil {
		return err
	}

	logger := SetupLogger()
	LoadEnvFile()
	cfg := LoadAndValidateConfig(logger)

	store := OpenStore(logger, cfg.DBPath)
	defer store.Close()

	customer, err := store.GetCustomer(context.Background(), reportCustomer)
	if err != nil {
		return fmt.Errorf("load customer: %w", err)
	}
	if customer == nil {
		return fmt.Errorf("customer %d not found", reportCustomer)
	}

	renderer := pdf.NewRenderer(cfg.DataDir, cfg.TemplateDir)
	docs := services.NewDocumentService(store, renderer, services.CompanyInfo{
		Name:    cfg.CompanyName,
		Phone:   cfg.CompanyPhone,
		Address: cfg.CompanyAddress,
	})

	path, err := docs.GenerateTransactionsPDF(context.Background(), customer.ID,
		customer.Name, customer.Phone, customer.Address, from, to)
	if err != nil {
		return fmt.Errorf("generate transaction report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
