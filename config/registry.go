package config

import "fmt"

// RegistryConfig locates the zone registry snapshot file.
type RegistryConfig struct {
	// Path is the zone file location.
	Path string `json:"path"`
	// Format overrides format detection: "json" or "yaml". Empty selects
	// by file extension.
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *RegistryConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "zones.json"
	}
}

// Validate checks mandatory fields.
func (c RegistryConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("registry path is required")
	}
	switch c.Format {
	case "", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown registry format %s", c.Format)
	}
}
