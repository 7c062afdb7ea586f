package config

import (
	"fmt"
	"strings"

	"lendcore/fixedpoint"
)

// ValidateConfig rejects configurations riskd cannot serve with.
func ValidateConfig(c *Config) error {
	if strings.TrimSpace(c.ListenAddress) == "" {
		return fmt.Errorf("config: ListenAddress must not be empty")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("config: RateLimitPerMinute must be positive")
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("config: RateLimitBurst must be positive")
	}
	if err := c.RiskParameters().Validate(); err != nil {
		return err
	}
	if err := c.InterestModel().Validate(); err != nil {
		return err
	}
	if c.Interest.ReserveFactorBps > fixedpoint.BpsDenominator {
		return fmt.Errorf("config: interest ReserveFactorBps %d > %d", c.Interest.ReserveFactorBps, fixedpoint.BpsDenominator)
	}
	return nil
}
