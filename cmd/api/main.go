// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	app "finflow-tracker/internal"
	"finflow-tracker/internal/api/handler"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.NewApplication()
	if err := application.Initialize(ctx); err != nil {
		application.Logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	cfg := application.Config

	// The router answers slow requests with 504 after DefaultTimeout; WriteTimeout
	// keeps the connection open long enough for that response to be written.
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           application.HTTPHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      handler.DefaultTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		application.Logger.Info("Starting finflow-tracker API", "port", cfg.ServerPort, "backend", cfg.DataBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// Runs on SIGINT/SIGTERM, or when the server goroutine fails.
		<-gctx.Done()
		application.Logger.Info("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return application.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		application.Logger.Error("Application stopped with error", "error", err)
		os.Exit(1)
	}
	application.Logger.Info("Application gracefully stopped.")
}
