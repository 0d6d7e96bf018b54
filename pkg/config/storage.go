package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	// BackendFile keeps the catalog in a tabular CSV file.
	BackendFile = "file"
	// BackendPostgres keeps the catalog in a PostgreSQL table.
	BackendPostgres = "postgres"
)

// StoreConfig selects the persistence backend for the catalog.
type StoreConfig struct {
	Backend string `koanf:"backend"`
	File    struct {
		Path string `koanf:"path"`
	} `koanf:"file"`
}

func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.File.Path == "" {
			return fmt.Errorf("store backend is %q but file path is not configured", BackendFile)
		}
	case BackendPostgres:
		// database section carries the connection settings
	default:
		return fmt.Errorf("unknown store backend: %q", c.Backend)
	}
	return nil
}

type DatabaseConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

func (c *DatabaseConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("database URL is not configured")
	}
	if !strings.HasPrefix(c.URL, "postgres://") && !strings.HasPrefix(c.URL, "postgresql://") {
		return fmt.Errorf("database URL must start with 'postgres://': %s", maskURL(c.URL))
	}
	return nil
}

// maskURL hides credentials embedded in a connection URL.
func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	return "****"
}
