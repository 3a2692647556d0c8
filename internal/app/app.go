// Package app wires configuration, storage, and services into a running
// application core shared by the server binary and the tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/interfaces"
	"github.com/bmorton/folio/internal/search"
	"github.com/bmorton/folio/internal/services/catalog"
	"github.com/bmorton/folio/internal/services/quote"
	"github.com/bmorton/folio/internal/services/report"
	"github.com/bmorton/folio/internal/services/session"
	surrealstore "github.com/bmorton/folio/internal/storage/surrealdb"
	"github.com/bmorton/folio/internal/storage/userdb"
)

// App holds all initialized services and storage backends.
type App struct {
	Config         *common.Config
	Logger         *common.Logger
	Storage        interfaces.StorageManager
	Users          interfaces.UserStore
	QuoteService   interfaces.QuoteService
	CatalogService interfaces.CatalogService
	SessionService *session.Service
	ReportService  *report.Service
	StartupTime    time.Time

	sessions *sessionRegistry

	schedulerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage and services. The price oracle is injected:
// the application core is agnostic to which market-data vendor backs it.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string, oracle interfaces.PriceOracle) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Load configuration - check provided path, FOLIO_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := surrealstore.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	users, err := userdb.NewStore(config.Storage.UserDB, logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize user store: %w", err)
	}

	index, err := search.NewIndex(config.Storage.IndexPath, logger)
	if err != nil {
		users.Close()
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize search index: %w", err)
	}

	catalogService, err := catalog.NewService(users, index, logger)
	if err != nil {
		index.Close()
		users.Close()
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize catalog service: %w", err)
	}

	quoteService := quote.NewService(oracle, logger,
		quote.WithRateLimit(config.Oracle.RateLimit),
		quote.WithTimeout(config.Oracle.GetTimeout()),
	)

	a := &App{
		Config:         config,
		Logger:         logger,
		Storage:        storageManager,
		Users:          users,
		QuoteService:   quoteService,
		CatalogService: catalogService,
		SessionService: session.NewService(storageManager.SessionStore(), logger),
		ReportService:  report.NewService(storageManager, logger),
		StartupTime:    startupStart,
		sessions:       newSessionRegistry(),
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: cancel scheduler, persist live sessions, close stores.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}

	// Persist every live session so a restart loses nothing.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	a.LogoutAll(ctx)

	if a.CatalogService != nil {
		a.CatalogService.Close()
		a.CatalogService = nil
	}
	if a.Users != nil {
		a.Users.Close()
		a.Users = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// StartPriceScheduler launches the background price refresh goroutine.
func (a *App) StartPriceScheduler() {
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	a.schedulerCancel = schedulerCancel
	go startPriceScheduler(schedulerCtx, a.sessions, a.Logger, a.Config.Scheduler.GetRefreshInterval())
}
