package app

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nimbus/internal/client"
	"github.com/ternarybob/nimbus/internal/common"
	"github.com/ternarybob/nimbus/internal/handlers"
	"github.com/ternarybob/nimbus/internal/odata"
	"github.com/ternarybob/nimbus/internal/release"
	"github.com/ternarybob/nimbus/internal/scheduler"
	"github.com/ternarybob/nimbus/internal/vault"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Core services
	VaultService     *vault.Service
	HTTPClient       *client.Client
	ODataService     *odata.Service
	ReleaseService   *release.Service
	SchedulerService *scheduler.Service

	// HTTP handlers
	APIHandler        *handlers.APIHandler
	CredentialHandler *handlers.CredentialHandler
	QueryHandler      *handlers.QueryHandler
	VersionHandler    *handlers.VersionHandler
	WSHandler         *handlers.WebSocketHandler
	PageHandler       *handlers.PageHandler

	closeVault func() error
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initVault(); err != nil {
		return nil, fmt.Errorf("failed to initialize credential vault: %w", err)
	}

	app.HTTPClient = client.New(time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second, logger)
	app.ODataService = odata.NewService(app.HTTPClient, logger)
	app.ReleaseService = release.NewService(logger)

	app.WSHandler = handlers.NewWebSocketHandler(logger)
	app.SchedulerService = scheduler.NewService(cfg.Updates, app.ReleaseService, app.WSHandler, logger)

	app.APIHandler = handlers.NewAPIHandler()
	app.CredentialHandler = handlers.NewCredentialHandler(app.VaultService, logger)
	app.QueryHandler = handlers.NewQueryHandler(app.HTTPClient, app.ODataService, logger)
	app.VersionHandler = handlers.NewVersionHandler(app.ReleaseService, logger)
	app.PageHandler = handlers.NewPageHandler(logger)

	if err := app.SchedulerService.Start(); err != nil {
		return nil, fmt.Errorf("failed to start update checker: %w", err)
	}

	return app, nil
}

// initVault selects the secret store backend from configuration
func (a *App) initVault() error {
	switch a.Config.Vault.Backend {
	case "keyring":
		store := vault.NewKeyringStore(a.Config.Vault.ServiceName)
		a.VaultService = vault.NewService(store, a.Logger)
		a.Logger.Info().Str("service", a.Config.Vault.ServiceName).Msg("Using OS keychain vault")
	case "file":
		store, closeFn, err := vault.NewFileStore(a.Config.Vault.Path, a.Logger)
		if err != nil {
			return err
		}
		a.VaultService = vault.NewService(store, a.Logger)
		a.closeVault = closeFn
		a.Logger.Info().Str("path", a.Config.Vault.Path).Msg("Using file vault")
	default:
		return fmt.Errorf("unknown vault backend: %s", a.Config.Vault.Backend)
	}
	return nil
}

// Close releases application resources
func (a *App) Close() {
	a.SchedulerService.Stop()

	if a.closeVault != nil {
		if err := a.closeVault(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close vault store")
		}
	}
}
