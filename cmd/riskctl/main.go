// riskctl evaluates a single position from the command line and prints the
// resulting metrics as JSON. It is a thin wrapper over the same engine riskd
// serves.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/holiman/uint256"

	"lendcore/config"
	"lendcore/risk"
)

type output struct {
	CollateralValue   string `json:"collateralValue"`
	DebtValue         string `json:"debtValue"`
	RatioBps          string `json:"ratioBps"`
	AvailableToBorrow string `json:"availableToBorrow"`
	LiquidationPrice  string `json:"liquidationPrice"`
	Status            string `json:"status"`
	Liquidatable      bool   `json:"liquidatable"`
}

func main() {
	configPath := flag.String("config", "", "optional riskd configuration file; defaults apply when omitted")
	collateralValue := flag.String("collateral-value", "0", "collateral value, 18-decimal base units")
	collateralAmount := flag.String("collateral-amount", "0", "collateral unit count, 18-decimal base units")
	debtValue := flag.String("debt-value", "0", "debt value, 18-decimal base units")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	engine, err := risk.NewEngine(cfg.RiskParameters())
	if err != nil {
		fatalf("configure risk engine: %v", err)
	}

	collateral := parseQuantity("collateral-value", *collateralValue)
	amount := parseQuantity("collateral-amount", *collateralAmount)
	debt := parseQuantity("debt-value", *debtValue)

	metrics, err := engine.Metrics(collateral, amount, debt)
	if err != nil {
		fatalf("evaluate position: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output{
		CollateralValue:   metrics.CollateralValue.Dec(),
		DebtValue:         metrics.DebtValue.Dec(),
		RatioBps:          metrics.RatioBps.Dec(),
		AvailableToBorrow: metrics.AvailableToBorrow.Dec(),
		LiquidationPrice:  metrics.LiquidationPrice.Dec(),
		Status:            metrics.Status.String(),
		Liquidatable:      engine.IsLiquidatable(collateral, debt),
	}); err != nil {
		fatalf("encode output: %v", err)
	}
}

func parseQuantity(name, raw string) *uint256.Int {
	value, err := uint256.FromDecimal(raw)
	if err != nil {
		fatalf("invalid %s %q: %v", name, raw, err)
	}
	return value
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "riskctl: "+format+"\n", args...)
	os.Exit(1)
}
