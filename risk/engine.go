// Package risk evaluates collateralized positions: health classification,
// borrowing capacity, and liquidation sizing. Every function is pure and
// operates on a single position snapshot of collateral value, collateral
// amount, and debt value. Ratios and thresholds at this layer are expressed
// in basis points; the fixedpoint package's 1e18-scaled fractions never cross
// this boundary unconverted.
package risk

import (
	"github.com/holiman/uint256"

	"lendcore/fixedpoint"
)

var basisPoints = uint256.NewInt(fixedpoint.BpsDenominator)

// RatioBps returns the collateralization ratio collateral * 10_000 / debt in
// basis points. Zero debt reports the sentinel maximum, mirroring
// fixedpoint.CollateralizationRatio in the bps convention.
func RatioBps(collateral, debt *uint256.Int) (*uint256.Int, error) {
	if debt.IsZero() {
		return fixedpoint.MaxRatio(), nil
	}
	return fixedpoint.MulDiv(collateral, basisPoints, debt)
}

// Status classifies the position against the liquidation and warning
// thresholds. The bad-debt check precedes any ratio math: a position whose
// collateral value no longer covers its debt is insolvent regardless of where
// the thresholds sit.
func Status(collateral, debt *uint256.Int, liqThresholdBps, warnThresholdBps uint64) HealthStatus {
	if debt.IsZero() {
		return Healthy
	}
	if collateral.Cmp(debt) < 0 {
		return BadDebt
	}
	if !fixedpoint.IsPositionHealthy(collateral, debt, liqThresholdBps) {
		return Liquidatable
	}
	if !fixedpoint.IsPositionHealthy(collateral, debt, warnThresholdBps) {
		return AtRisk
	}
	return Healthy
}

// AvailableToBorrow returns the additional debt the position can take on
// before reaching maxLTVBps, clamping to zero when the position is already at
// or beyond the limit.
func AvailableToBorrow(collateral, debt *uint256.Int, maxLTVBps uint64) (*uint256.Int, error) {
	maxDebt, err := fixedpoint.ApplyBps(collateral, maxLTVBps)
	if err != nil {
		return nil, err
	}
	return fixedpoint.SafeSub(maxDebt, debt), nil
}

// LiquidationPrice returns the per-unit collateral price (1e18-scaled) at
// which the position crosses the liquidation threshold. A position with no
// collateral units has no meaningful trigger price and reports zero.
func LiquidationPrice(collateralAmount, debt *uint256.Int, liqThresholdBps uint64) (*uint256.Int, error) {
	if collateralAmount.IsZero() {
		return new(uint256.Int), nil
	}
	thresholdValue, err := fixedpoint.ApplyBps(debt, liqThresholdBps)
	if err != nil {
		return nil, err
	}
	return fixedpoint.MulDiv(thresholdValue, fixedpoint.Wad(), collateralAmount)
}

// ValueAtRisk returns the collateral value buffer above the liquidation
// threshold, floored at zero.
func ValueAtRisk(collateral, debt *uint256.Int, liqThresholdBps uint64) (*uint256.Int, error) {
	required, err := fixedpoint.ApplyBps(debt, liqThresholdBps)
	if err != nil {
		return nil, err
	}
	return fixedpoint.SafeSub(collateral, required), nil
}

// WithdrawableCollateral returns the collateral value that can be removed
// while keeping the position at or above minRatioBps. With no debt the entire
// collateral is withdrawable.
func WithdrawableCollateral(collateral, debt *uint256.Int, minRatioBps uint64) (*uint256.Int, error) {
	if debt.IsZero() {
		return collateral.Clone(), nil
	}
	required, err := fixedpoint.ApplyBps(debt, minRatioBps)
	if err != nil {
		return nil, err
	}
	return fixedpoint.SafeSub(collateral, required), nil
}

// RepaymentForTargetRatio returns the debt repayment needed to lift the
// position to targetRatioBps, floored at zero when the position already meets
// the target. A zero target is a guarded no-op.
func RepaymentForTargetRatio(collateral, debt *uint256.Int, targetRatioBps uint64) (*uint256.Int, error) {
	if targetRatioBps == 0 {
		return new(uint256.Int), nil
	}
	targetDebt, err := fixedpoint.MulDiv(collateral, basisPoints, uint256.NewInt(targetRatioBps))
	if err != nil {
		return nil, err
	}
	return fixedpoint.SafeSub(debt, targetDebt), nil
}

// LiquidationBonus returns the incentive paid on a liquidated amount.
func LiquidationBonus(amount *uint256.Int, incentiveBps uint64) (*uint256.Int, error) {
	return fixedpoint.ApplyBps(amount, incentiveBps)
}

// MaxLiquidatableAmount caps the debt portion a single liquidation may repay.
func MaxLiquidatableAmount(debt *uint256.Int, maxLiquidationBps uint64) (*uint256.Int, error) {
	return fixedpoint.ApplyBps(debt, maxLiquidationBps)
}

// CollateralToSeize converts a repaid debt value into the collateral amount
// awarded to the liquidator, marked up by the incentive. A zero collateral
// price means no usable price data and reports zero rather than failing.
func CollateralToSeize(debtRepaid, collateralPrice *uint256.Int, incentiveBps uint64) (*uint256.Int, error) {
	if collateralPrice.IsZero() {
		return new(uint256.Int), nil
	}
	seizedValue, err := fixedpoint.ApplyBps(debtRepaid, fixedpoint.BpsDenominator+incentiveBps)
	if err != nil {
		return nil, err
	}
	return fixedpoint.MulDiv(seizedValue, fixedpoint.Wad(), collateralPrice)
}

// IsLiquidatable reports whether the position sits below the liquidation
// threshold. Debt-free positions are never liquidatable.
func IsLiquidatable(collateral, debt *uint256.Int, liqThresholdBps uint64) bool {
	if debt.IsZero() {
		return false
	}
	return !fixedpoint.IsPositionHealthy(collateral, debt, liqThresholdBps)
}
