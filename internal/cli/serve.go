package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apphttp "fatoora/internal/http"
	"fatoora/internal/pdf"
	"fatoora/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the fatoora API server",
	Long: `Start the JSON API server backing the desktop UI. The server
owns a single pooled connection to the SQLite store and shuts down
gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := SetupLogger()
	LoadEnvFile()
	cfg := LoadAndValidateConfig(logger)

	store := OpenStore(logger, cfg.DBPath)
	defer store.Close()

	renderer := pdf.NewRenderer(cfg.DataDir, cfg.TemplateDir)
	docs := services.NewDocumentService(store, renderer, services.CompanyInfo{
		Name:    cfg.CompanyName,
		Phone:   cfg.CompanyPhone,
		Address: cfg.CompanyAddress,
	})

	srv := apphttp.NewServer(":"+cfg.Port, store, docs)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", "port", cfg.Port, "db_path", cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Shutdown complete")
	return nil
}
