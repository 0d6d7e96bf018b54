// Package main implements the interactive text-menu storefront for the
// bookstore inventory.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkarpov/bookstore/internal/app"
	"github.com/dkarpov/bookstore/internal/config"
	"github.com/dkarpov/bookstore/internal/storefront"
	"github.com/dkarpov/bookstore/pkg/bootstrap"
	pkgconfig "github.com/dkarpov/bookstore/pkg/config"
	"github.com/dkarpov/bookstore/pkg/config/configloader"
	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceName = "bookstore"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("storefront failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.CLIConfig](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}

	logger := bootstrap.NewLogger(cfg.Log.Level)

	var dbPool *pgxpool.Pool
	if cfg.Store.Backend == pkgconfig.BackendPostgres {
		var err error
		dbPool, err = bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return fmt.Errorf("failed to create database connection pool: %w", err)
		}
		defer dbPool.Close()
	}

	deps, err := app.SetupDependencies(ctx, app.Options{
		Store:       cfg.Store,
		NATS:        cfg.NATS,
		AdminSecret: cfg.Admin.Secret,
		DBPool:      dbPool,
	}, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	front := storefront.New(deps.Inventory, os.Stdin, os.Stdout, logger)
	return front.Run(ctx)
}
