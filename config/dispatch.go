package config

import (
	"fmt"

	"github.com/floodlab/riskdispatch/core/allocation"
)

// DispatchConfig is the allocation request applied to forecasts that
// arrive without one, such as broker-ingested forecasts.
type DispatchConfig struct {
	// Mode selects the allocation policy: "crisp", "fuzzy" or "proportional".
	Mode string `json:"mode"`
	// TotalUnits is the emergency unit budget per computation.
	TotalUnits int `json:"total_units"`
	// MaxUnitsPerZone caps any single zone. Zero means uncapped.
	MaxUnitsPerZone int `json:"max_units_per_zone"`
}

// SetDefaults applies sane defaults.
func (c *DispatchConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "crisp"
	}
	if c.TotalUnits == 0 {
		c.TotalUnits = 12
	}
}

// Validate checks the mode name and request bounds.
func (c DispatchConfig) Validate() error {
	req, err := c.Request()
	if err != nil {
		return err
	}
	return req.Validate()
}

// Request builds the allocation request this section describes.
func (c DispatchConfig) Request() (allocation.Request, error) {
	mode, err := allocation.ParseMode(c.Mode)
	if err != nil {
		return allocation.Request{}, fmt.Errorf("dispatch mode: %w", err)
	}
	return allocation.Request{
		TotalUnits:      c.TotalUnits,
		Mode:            mode,
		MaxUnitsPerZone: c.MaxUnitsPerZone,
	}, nil
}
