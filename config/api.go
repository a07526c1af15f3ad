package config

import "fmt"

// APIConfig defines settings for the HTTP API server.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
	// AuthToken protects the API with a bearer token when non-empty.
	AuthToken string `json:"auth_token"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Validate checks mandatory fields.
func (c APIConfig) Validate() error {
	if c.Enabled && c.Addr == "" {
		return fmt.Errorf("api addr is required")
	}
	return nil
}
