package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bmorton/folio/internal/app"
	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/interfaces"
	"github.com/bmorton/folio/internal/models"
)

func main() {
	// Resolve config path
	configPath := os.Getenv("FOLIO_CONFIG")

	a, err := app.NewApp(configPath, &unconfiguredOracle{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	common.PrintBanner(a.Config)

	// Start background services
	a.StartPriceScheduler()

	mux := buildMux(a)

	host := a.Config.Server.Host
	port := a.Config.Server.Port

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		a.Logger.Info().Int("port", port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	a.Logger.Info().
		Str("url", fmt.Sprintf("http://localhost:%d", port)).
		Msg("Server ready")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	a.Logger.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	a.Close()
	a.Logger.Info().Msg("Server stopped")
}

// buildMux creates the HTTP mux with the service endpoints.
func buildMux(a *app.App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", healthHandler)
	mux.HandleFunc("/api/version", versionHandler)

	return mux
}

// healthHandler responds to GET/HEAD /api/health with {"status":"ok"}.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// versionHandler responds to GET/HEAD /api/version with version info.
func versionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// unconfiguredOracle is the placeholder market-data backend. Deployments
// swap in a real vendor client here; until then every lookup fails.
type unconfiguredOracle struct{}

func (o *unconfiguredOracle) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	return nil, fmt.Errorf("%s: market data provider not configured: %w", symbol, interfaces.ErrLookupFailed)
}

func (o *unconfiguredOracle) GetOverview(ctx context.Context, symbol string) (*models.Overview, error) {
	return nil, fmt.Errorf("%s: market data provider not configured: %w", symbol, interfaces.ErrLookupFailed)
}

func (o *unconfiguredOracle) GetHistory(ctx context.Context, symbol string, size int) ([]models.Candle, error) {
	return nil, fmt.Errorf("%s: market data provider not configured: %w", symbol, interfaces.ErrLookupFailed)
}
