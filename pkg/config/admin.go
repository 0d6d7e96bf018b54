package config

import "fmt"

// AdminConfig holds the administrator secret guarding privileged actions.
// It is a capability check for a single-user tool, not a security boundary.
type AdminConfig struct {
	Secret string `koanf:"secret"`
}

func (c *AdminConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("admin secret is not configured")
	}
	return nil
}
