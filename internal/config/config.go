package config

import (
	"fmt"
	"strings"

	"github.com/dkarpov/bookstore/pkg/config"
	"github.com/dkarpov/bookstore/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig     `koanf:"server"`
	Log        config.LogConfig      `koanf:"log"`
	PProf      config.PProfConfig    `koanf:"pprof"`
	Shutdown   config.ShutdownConfig `koanf:"shutdown"`
	Store      config.StoreConfig    `koanf:"store"`
	Database   config.DatabaseConfig `koanf:"database"`
	Admin      config.AdminConfig    `koanf:"admin"`
	NATS       config.NATSConfig     `koanf:"nats"`
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Server Configuration ---\n")
	b.WriteString(fmt.Sprintf("  server.port: %d\n", c.HTTPServer.Port))
	b.WriteString(fmt.Sprintf("  server.timeout.read: %v\n", c.HTTPServer.Timeout.Read))
	b.WriteString(fmt.Sprintf("  server.timeout.write: %v\n", c.HTTPServer.Timeout.Write))

	b.WriteString("\n--- Catalog Store ---\n")
	b.WriteString(fmt.Sprintf("  store.backend: %s\n", c.Store.Backend))
	if c.Store.Backend == config.BackendFile {
		b.WriteString(fmt.Sprintf("  store.file.path: %s\n", c.Store.File.Path))
	}

	b.WriteString("\n--- Notifications ---\n")
	b.WriteString(fmt.Sprintf("  nats.enabled: %t\n", c.NATS.Enabled))
	if c.NATS.Enabled {
		b.WriteString(fmt.Sprintf("  nats.subject: %s\n", c.NATS.Subject))
	}

	b.WriteString("\n--- Observability & Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  pprof.enabled: %t\n", c.PProf.Enabled))

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))
	b.WriteString(fmt.Sprintf("  admin.secret: %s\n", "****"))

	return b.String()
}

// Validate checks if the configuration values are valid. The database
// section is only required when the PostgreSQL backend is selected.
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
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
