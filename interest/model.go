// Package interest derives borrow and supply rates from pool utilisation
// using a kinked rate curve, and accrues simple interest on outstanding
// principal. Rates are basis points throughout.
package interest

import (
	"fmt"

	"github.com/holiman/uint256"

	"lendcore/fixedpoint"
)

// Model encapsulates the parameters that shape how rates react to market
// utilisation.
type Model struct {
	// BaseRateBps is the minimum borrow APR applied at zero utilisation.
	BaseRateBps uint64
	// Slope1Bps is the APR increase across full utilisation below the kink.
	Slope1Bps uint64
	// Slope2Bps governs the additional APR applied beyond the kink.
	Slope2Bps uint64
	// KinkBps is the utilisation where the slope changes to discourage
	// draining the pool.
	KinkBps uint64
}

// DefaultModel mirrors the launch configuration: 2% base, 15% first slope,
// 60% second slope, 80% kink.
var DefaultModel = Model{
	BaseRateBps: 200,
	Slope1Bps:   1_500,
	Slope2Bps:   6_000,
	KinkBps:     8_000,
}

// Validate rejects curves the rate derivation cannot evaluate.
func (m Model) Validate() error {
	if m.KinkBps == 0 || m.KinkBps > fixedpoint.BpsDenominator {
		return fmt.Errorf("interest: kink_bps %d outside (0, %d]", m.KinkBps, fixedpoint.BpsDenominator)
	}
	return nil
}

// UtilisationBps computes U = totalBorrowed / totalSupplied in basis points.
// An empty pool has zero utilisation; borrowing at or beyond the supplied
// liquidity saturates at 10_000.
func (m Model) UtilisationBps(totalBorrowed, totalSupplied *uint256.Int) uint64 {
	if totalBorrowed.IsZero() || totalSupplied.IsZero() {
		return 0
	}
	if totalBorrowed.Cmp(totalSupplied) >= 0 {
		return fixedpoint.BpsDenominator
	}
	u, err := fixedpoint.MulDiv(totalBorrowed, uint256.NewInt(fixedpoint.BpsDenominator), totalSupplied)
	if err != nil {
		return 0
	}
	return u.Uint64()
}

// BorrowRateBps derives the borrow APR at the pool's current utilisation.
func (m Model) BorrowRateBps(totalBorrowed, totalSupplied *uint256.Int) uint64 {
	u := m.UtilisationBps(totalBorrowed, totalSupplied)
	if m.KinkBps == 0 || u <= m.KinkBps {
		return m.BaseRateBps + m.Slope1Bps*u/fixedpoint.BpsDenominator
	}
	rate := m.BaseRateBps + m.Slope1Bps*m.KinkBps/fixedpoint.BpsDenominator
	return rate + m.Slope2Bps*(u-m.KinkBps)/fixedpoint.BpsDenominator
}

// SupplyRateBps derives the supply APR from the borrow APR, utilisation, and
// the protocol reserve factor.
func (m Model) SupplyRateBps(totalBorrowed, totalSupplied *uint256.Int, reserveFactorBps uint64) uint64 {
	if reserveFactorBps >= fixedpoint.BpsDenominator {
		return 0
	}
	borrow := m.BorrowRateBps(totalBorrowed, totalSupplied)
	u := m.UtilisationBps(totalBorrowed, totalSupplied)
	gross := borrow * u / fixedpoint.BpsDenominator
	return gross * (fixedpoint.BpsDenominator - reserveFactorBps) / fixedpoint.BpsDenominator
}

// Accrue returns the simple interest owed on principal over durationSeconds
// at the pool's current borrow rate.
func (m Model) Accrue(principal, totalBorrowed, totalSupplied *uint256.Int, durationSeconds uint64) (*uint256.Int, error) {
	rate := m.BorrowRateBps(totalBorrowed, totalSupplied)
	return fixedpoint.CalculateInterest(principal, rate, durationSeconds)
}
