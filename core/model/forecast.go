package model

import (
	"fmt"
	"time"
)

// ForecastInput carries one global flood forecast to evaluate. It is
// constructed per call and immutable afterwards.
type ForecastInput struct {
	GlobalPf     float64   `json:"global_pf"`      // event probability, zone independent
	LeadTimeDays int       `json:"lead_time_days"` // days until the forecast window opens
	ForecastDate time.Time `json:"forecast_date"`
}

// Validate checks the forecast fields.
func (f ForecastInput) Validate() error {
	if f.GlobalPf < 0 || f.GlobalPf > 1 {
		return fmt.Errorf("global_pf out of range [0,1]: %v", f.GlobalPf)
	}
	if f.LeadTimeDays < 1 {
		return fmt.Errorf("lead_time_days must be at least 1: %d", f.LeadTimeDays)
	}
	return nil
}
