package risk

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"lendcore/fixedpoint"
)

var errNilParams = errors.New("risk engine: parameters not configured")

// Parameters groups the governance-controlled thresholds applied when
// evaluating positions. All values are basis points.
type Parameters struct {
	// MaxLTVBps bounds new borrowing as a fraction of collateral value.
	MaxLTVBps uint64
	// LiquidationThresholdBps is the collateralization ratio below which a
	// position becomes liquidatable.
	LiquidationThresholdBps uint64
	// WarningThresholdBps is the ratio below which a position is flagged as
	// at risk. Must sit above the liquidation threshold.
	WarningThresholdBps uint64
	// LiquidationBonusBps is the incentive markup awarded to liquidators.
	LiquidationBonusBps uint64
	// MaxLiquidationBps caps the share of debt a single liquidation may
	// repay.
	MaxLiquidationBps uint64
	// MinRatioBps is the ratio withdrawals must preserve.
	MinRatioBps uint64
}

// Validate enforces the threshold ordering the engine relies on. The pure
// evaluation functions deliberately do not re-check these relations per call.
func (p Parameters) Validate() error {
	if p.MaxLTVBps == 0 || p.MaxLTVBps > fixedpoint.BpsDenominator {
		return fmt.Errorf("risk: max_ltv_bps %d outside (0, %d]", p.MaxLTVBps, fixedpoint.BpsDenominator)
	}
	if p.LiquidationThresholdBps == 0 {
		return fmt.Errorf("risk: liquidation_threshold_bps must be positive")
	}
	if p.WarningThresholdBps <= p.LiquidationThresholdBps {
		return fmt.Errorf("risk: warning_threshold_bps %d <= liquidation_threshold_bps %d", p.WarningThresholdBps, p.LiquidationThresholdBps)
	}
	if p.LiquidationBonusBps > fixedpoint.BpsDenominator {
		return fmt.Errorf("risk: liquidation_bonus_bps %d > %d", p.LiquidationBonusBps, fixedpoint.BpsDenominator)
	}
	if p.MaxLiquidationBps == 0 || p.MaxLiquidationBps > fixedpoint.BpsDenominator {
		return fmt.Errorf("risk: max_liquidation_bps %d outside (0, %d]", p.MaxLiquidationBps, fixedpoint.BpsDenominator)
	}
	if p.MinRatioBps < p.LiquidationThresholdBps {
		return fmt.Errorf("risk: min_ratio_bps %d < liquidation_threshold_bps %d", p.MinRatioBps, p.LiquidationThresholdBps)
	}
	return nil
}

// Engine binds a parameter set so callers configure thresholds once and
// evaluate many positions. It holds no other state and is safe for concurrent
// use.
type Engine struct {
	params Parameters
}

// NewEngine validates the parameters and constructs an engine around them.
func NewEngine(params Parameters) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: params}, nil
}

// Parameters returns the configured parameter set.
func (e *Engine) Parameters() Parameters { return e.params }

// Status classifies the position using the configured thresholds.
func (e *Engine) Status(collateral, debt *uint256.Int) HealthStatus {
	return Status(collateral, debt, e.params.LiquidationThresholdBps, e.params.WarningThresholdBps)
}

// IsLiquidatable reports liquidation eligibility at the configured threshold.
func (e *Engine) IsLiquidatable(collateral, debt *uint256.Int) bool {
	return IsLiquidatable(collateral, debt, e.params.LiquidationThresholdBps)
}

// RatioBps returns the position's collateralization ratio in basis points.
func (e *Engine) RatioBps(collateral, debt *uint256.Int) (*uint256.Int, error) {
	return RatioBps(collateral, debt)
}

// AvailableToBorrow returns remaining borrow capacity under the configured
// maximum LTV.
func (e *Engine) AvailableToBorrow(collateral, debt *uint256.Int) (*uint256.Int, error) {
	return AvailableToBorrow(collateral, debt, e.params.MaxLTVBps)
}

// LiquidationPrice returns the configured-threshold trigger price.
func (e *Engine) LiquidationPrice(collateralAmount, debt *uint256.Int) (*uint256.Int, error) {
	return LiquidationPrice(collateralAmount, debt, e.params.LiquidationThresholdBps)
}

// ValueAtRisk returns the buffer above the configured liquidation threshold.
func (e *Engine) ValueAtRisk(collateral, debt *uint256.Int) (*uint256.Int, error) {
	return ValueAtRisk(collateral, debt, e.params.LiquidationThresholdBps)
}

// WithdrawableCollateral returns the withdrawable buffer at the configured
// minimum ratio.
func (e *Engine) WithdrawableCollateral(collateral, debt *uint256.Int) (*uint256.Int, error) {
	return WithdrawableCollateral(collateral, debt, e.params.MinRatioBps)
}

// RepaymentForTargetRatio solves for the repayment restoring the given target.
func (e *Engine) RepaymentForTargetRatio(collateral, debt *uint256.Int, targetRatioBps uint64) (*uint256.Int, error) {
	return RepaymentForTargetRatio(collateral, debt, targetRatioBps)
}

// LiquidationBonus applies the configured incentive to a liquidated amount.
func (e *Engine) LiquidationBonus(amount *uint256.Int) (*uint256.Int, error) {
	return LiquidationBonus(amount, e.params.LiquidationBonusBps)
}

// MaxLiquidatableAmount caps a partial liquidation at the configured share.
func (e *Engine) MaxLiquidatableAmount(debt *uint256.Int) (*uint256.Int, error) {
	return MaxLiquidatableAmount(debt, e.params.MaxLiquidationBps)
}

// CollateralToSeize sizes the collateral award for a repaid debt value at the
// configured incentive.
func (e *Engine) CollateralToSeize(debtRepaid, collateralPrice *uint256.Int) (*uint256.Int, error) {
	return CollateralToSeize(debtRepaid, collateralPrice, e.params.LiquidationBonusBps)
}
