// Package config loads the riskd TOML configuration: the service listen
// surface, the governed risk thresholds, and the interest curve.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"lendcore/interest"
	"lendcore/risk"
)

// Config captures the runtime settings for riskd.
type Config struct {
	ListenAddress      string  `toml:"ListenAddress"`
	Env                string  `toml:"Env"`
	RateLimitPerMinute float64 `toml:"RateLimitPerMinute"`
	RateLimitBurst     int     `toml:"RateLimitBurst"`

	Risk     RiskConfig     `toml:"risk"`
	Interest InterestConfig `toml:"interest"`
}

// RiskConfig mirrors risk.Parameters in the configuration file. All values
// are basis points.
type RiskConfig struct {
	MaxLTVBps               uint64 `toml:"MaxLTVBps"`
	LiquidationThresholdBps uint64 `toml:"LiquidationThresholdBps"`
	WarningThresholdBps     uint64 `toml:"WarningThresholdBps"`
	LiquidationBonusBps     uint64 `toml:"LiquidationBonusBps"`
	MaxLiquidationBps       uint64 `toml:"MaxLiquidationBps"`
	MinRatioBps             uint64 `toml:"MinRatioBps"`
}

// InterestConfig mirrors interest.Model plus the protocol reserve factor.
type InterestConfig struct {
	BaseRateBps      uint64 `toml:"BaseRateBps"`
	Slope1Bps        uint64 `toml:"Slope1Bps"`
	Slope2Bps        uint64 `toml:"Slope2Bps"`
	KinkBps          uint64 `toml:"KinkBps"`
	ReserveFactorBps uint64 `toml:"ReserveFactorBps"`
}

// Default returns the configuration riskd boots with when no file exists.
func Default() *Config {
	return &Config{
		ListenAddress:      "0.0.0.0:8662",
		Env:                "dev",
		RateLimitPerMinute: 120,
		RateLimitBurst:     20,
		Risk: RiskConfig{
			MaxLTVBps:               8_000,
			LiquidationThresholdBps: 12_000,
			WarningThresholdBps:     15_000,
			LiquidationBonusBps:     500,
			MaxLiquidationBps:       5_000,
			MinRatioBps:             15_000,
		},
		Interest: InterestConfig{
			BaseRateBps:      interest.DefaultModel.BaseRateBps,
			Slope1Bps:        interest.DefaultModel.Slope1Bps,
			Slope2Bps:        interest.DefaultModel.Slope2Bps,
			KinkBps:          interest.DefaultModel.KinkBps,
			ReserveFactorBps: 1_000,
		},
	}
}

// Load reads the configuration from the given path, creating the file with
// defaults when it does not exist yet.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	for _, undecoded := range meta.Undecoded() {
		return nil, fmt.Errorf("config file %s contains unknown field %q", path, undecoded.String())
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func createDefault(path string) (*Config, error) {
	cfg := Default()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RiskParameters converts the file representation into the engine parameter
// set.
func (c *Config) RiskParameters() risk.Parameters {
	return risk.Parameters{
		MaxLTVBps:               c.Risk.MaxLTVBps,
		LiquidationThresholdBps: c.Risk.LiquidationThresholdBps,
		WarningThresholdBps:     c.Risk.WarningThresholdBps,
		LiquidationBonusBps:     c.Risk.LiquidationBonusBps,
		MaxLiquidationBps:       c.Risk.MaxLiquidationBps,
		MinRatioBps:             c.Risk.MinRatioBps,
	}
}

// InterestModel converts the file representation into the rate model.
func (c *Config) InterestModel() interest.Model {
	return interest.Model{
		BaseRateBps: c.Interest.BaseRateBps,
		Slope1Bps:   c.Interest.Slope1Bps,
		Slope2Bps:   c.Interest.Slope2Bps,
		KinkBps:     c.Interest.KinkBps,
	}
}
