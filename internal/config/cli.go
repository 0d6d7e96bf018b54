package config

import (
	"github.com/dkarpov/bookstore/pkg/config"
	"github.com/dkarpov/bookstore/pkg/config/configloader"
)

var _ configloader.Validator = (*CLIConfig)(nil)

// CLIConfig is the subset of configuration the text-menu storefront needs:
// no HTTP server, no pprof.
type CLIConfig struct {
	Log      config.LogConfig      `koanf:"log"`
	Store    config.StoreConfig    `koanf:"store"`
	Database config.DatabaseConfig `koanf:"database"`
	Admin    config.AdminConfig    `koanf:"admin"`
	NATS     config.NATSConfig     `koanf:"nats"`
}

func (c *CLIConfig) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if c.Store.Backend == config.BackendPostgres {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}
	if err := c.Admin.Validate(); err != nil {
		return err
	}
	return c.NATS.Validate()
}
