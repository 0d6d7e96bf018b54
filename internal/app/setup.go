// Package app contains the application setup for the bookstore service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dkarpov/bookstore/internal/catalog"
	"github.com/dkarpov/bookstore/internal/notify"
	"github.com/dkarpov/bookstore/internal/service"
	"github.com/dkarpov/bookstore/internal/store"
	"github.com/dkarpov/bookstore/internal/transport/rest"
	pkgconfig "github.com/dkarpov/bookstore/pkg/config"
	"github.com/dkarpov/bookstore/pkg/server"
	natsadapter "github.com/dkarpov/bookstore/pkg/nats"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
)

// Dependencies is the application context: every collaborator is built once
// at startup and handed to the facades by reference. There are no ambient
// globals.
type Dependencies struct {
	Inventory service.InventoryService
	Logger    *slog.Logger

	natsConn *nats.Conn
}

// Options selects the persistence backend and the optional broker observer.
type Options struct {
	Store       pkgconfig.StoreConfig
	NATS        pkgconfig.NATSConfig
	AdminSecret string
	DBPool      *pgxpool.Pool // required when Store.Backend is postgres
}

// SetupDependencies builds the catalog, persistence port, notifier and
// inventory service, attaches the configured observers and loads the
// persisted catalog. A failing startup load is fatal by contract.
func SetupDependencies(ctx context.Context, opts Options, logger *slog.Logger) (*Dependencies, error) {
	var port store.CatalogPort
	switch opts.Store.Backend {
	case pkgconfig.BackendPostgres:
		if opts.DBPool == nil {
			return nil, fmt.Errorf("postgres backend selected but no database pool provided")
		}
		port = store.NewPgStore(opts.DBPool)
	case pkgconfig.BackendFile:
		port = store.NewFileStore(opts.Store.File.Path)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", opts.Store.Backend)
	}

	notifier := notify.NewNotifier()
	inventory := service.NewInventory(catalog.NewStore(), port, notifier, opts.AdminSecret, logger)

	deps := &Dependencies{
		Inventory: inventory,
		Logger:    logger,
	}

	notifier.Attach(notify.NewStockLogger(inventory, logger))

	if opts.NATS.Enabled {
		nc, err := natsadapter.NewClient(opts.NATS.URL, opts.NATS.Timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to set up NATS observer: %w", err)
		}
		js, err := natsadapter.NewJetStreamContext(nc)
		if err != nil {
			return nil, fmt.Errorf("failed to set up JetStream: %w", err)
		}
		deps.natsConn = nc
		publisher := natsadapter.NewNatsPublisher(js)
		notifier.Attach(notify.NewEventPublisher(inventory, publisher, opts.NATS.Subject, opts.NATS.Timeout))
	}

	if err := inventory.LoadFromStore(ctx); err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to load catalog at startup: %w", err)
	}
	return deps, nil
}

// Close releases resources held by the application context.
func (d *Dependencies) Close() {
	if d.natsConn != nil {
		d.natsConn.Close()
	}
}

// SetupHttpHandler initializes the router and routes for the bookstore
// service. Also used by handler-level tests.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the bookstore service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	bookHandler := rest.NewHandler(deps.Inventory, deps.Logger)
	bookHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures the HTTP server.
func SetupHttpServer(deps *Dependencies, cfg pkgconfig.HTTPConfig) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.Port,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
		ReadTimeout:    cfg.Timeout.Read,
		WriteTimeout:   cfg.Timeout.Write,
		IdleTimeout:    cfg.Timeout.Idle,
		ReadHeader:     cfg.Timeout.ReadHeader,
	}
	return server.NewHTTPServer(httpCfg, mux)
}
