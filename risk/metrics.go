package risk

import (
	"github.com/holiman/uint256"
)

// PositionMetrics is the aggregate read-only projection of a single position.
// Every field equals the result of the corresponding single-purpose function
// for the same inputs; the snapshot adds no logic of its own and is never
// cached.
type PositionMetrics struct {
	CollateralValue   *uint256.Int
	DebtValue         *uint256.Int
	RatioBps          *uint256.Int
	AvailableToBorrow *uint256.Int
	LiquidationPrice  *uint256.Int
	Status            HealthStatus
}

// ComputeMetrics assembles the composite snapshot for one position.
// collateralValue and debt are 18-decimal values; collateralAmount is the
// unit count used to derive the liquidation trigger price.
func ComputeMetrics(collateralValue, collateralAmount, debt *uint256.Int, params Parameters) (*PositionMetrics, error) {
	ratio, err := RatioBps(collateralValue, debt)
	if err != nil {
		return nil, err
	}
	available, err := AvailableToBorrow(collateralValue, debt, params.MaxLTVBps)
	if err != nil {
		return nil, err
	}
	liqPrice, err := LiquidationPrice(collateralAmount, debt, params.LiquidationThresholdBps)
	if err != nil {
		return nil, err
	}
	return &PositionMetrics{
		CollateralValue:   collateralValue.Clone(),
		DebtValue:         debt.Clone(),
		RatioBps:          ratio,
		AvailableToBorrow: available,
		LiquidationPrice:  liqPrice,
		Status:            Status(collateralValue, debt, params.LiquidationThresholdBps, params.WarningThresholdBps),
	}, nil
}

// Metrics computes the composite snapshot with the engine's parameters.
func (e *Engine) Metrics(collateralValue, collateralAmount, debt *uint256.Int) (*PositionMetrics, error) {
	if e == nil {
		return nil, errNilParams
	}
	return ComputeMetrics(collateralValue, collateralAmount, debt, e.params)
}
