package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fatoora",
	Short: "Fatoora - invoicing and bookkeeping backend",
	Long: `Fatoora manages customers, invoices, payments and derived debt
reports over a local SQLite store, and renders invoice and account
statement PDFs.

Run the server to back the desktop UI, or use the report commands to
render PDFs directly from the command line.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
