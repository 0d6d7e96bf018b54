package config

import (
	"fmt"
	"time"
)

// NATSConfig configures the optional JetStream observer that mirrors
// inventory changes onto a message subject.
type NATSConfig struct {
	Enabled bool          `koanf:"enabled"`
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Subject string        `koanf:"subject"`
}

func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.URL == "" {
		return fmt.Errorf("NATS is enabled but URL is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("NATS dial timeout is not configured")
	}
	if c.Subject == "" {
		return fmt.Errorf("NATS is enabled but subject is not configured")
	}
	return nil
}
