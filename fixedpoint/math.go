// Package fixedpoint implements the unsigned fixed-point arithmetic shared by
// the lending protocol. Values are 256-bit unsigned integers; monetary amounts
// are scaled to 18 decimals (1e18 == 1.0) and rates are expressed either in
// basis points (10_000 == 100%) or as 1e18-scaled decimal fractions. The two
// conventions are never mixed implicitly.
package fixedpoint

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

var (
	ErrDivisionByZero = errors.New("fixedpoint: division by zero")
	ErrOverflow       = errors.New("fixedpoint: arithmetic overflow")
)

const (
	// BpsDenominator is the basis-point scale: 10_000 bps == 100%.
	BpsDenominator = 10_000
	// SecondsPerYear fixes the interest year at 365 days, no leap adjustment.
	SecondsPerYear = 365 * 24 * 60 * 60
)

var (
	basisPoints = big.NewInt(BpsDenominator)
	wad         = mustBigInt("1000000000000000000")
)

func mustBigInt(value string) *big.Int {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		panic("invalid big integer constant")
	}
	return v
}

// Wad returns 1e18, the unit value of the 18-decimal amount space.
func Wad() *uint256.Int {
	w, _ := uint256.FromBig(wad)
	return w
}

// MaxRatio returns the sentinel ratio reported for positions with zero debt.
// It is the maximum representable 256-bit value.
func MaxRatio() *uint256.Int {
	return new(uint256.Int).SetAllOne()
}

// checked narrows a widened big.Int result back to 256 bits, failing loudly
// rather than wrapping.
func checked(v *big.Int) (*uint256.Int, error) {
	out, overflow := uint256.FromBig(v)
	if overflow {
		return nil, ErrOverflow
	}
	return out, nil
}

// Min returns the smaller of a and b.
func Min(a, b *uint256.Int) *uint256.Int {
	if a.Cmp(b) <= 0 {
		return a.Clone()
	}
	return b.Clone()
}

// Max returns the larger of a and b.
func Max(a, b *uint256.Int) *uint256.Int {
	if a.Cmp(b) >= 0 {
		return a.Clone()
	}
	return b.Clone()
}

// Clamp bounds value to [lo, hi]. A degenerate range with lo > hi resolves to
// lo; callers that need the range validated must do so themselves.
func Clamp(value, lo, hi *uint256.Int) *uint256.Int {
	if lo.Cmp(hi) > 0 {
		return lo.Clone()
	}
	if value.Cmp(lo) < 0 {
		return lo.Clone()
	}
	if value.Cmp(hi) > 0 {
		return hi.Clone()
	}
	return value.Clone()
}

// AbsDiff returns |a - b| without underflowing.
func AbsDiff(a, b *uint256.Int) *uint256.Int {
	if a.Cmp(b) >= 0 {
		return new(uint256.Int).Sub(a, b)
	}
	return new(uint256.Int).Sub(b, a)
}

// SafeSub returns a - b, flooring at zero instead of underflowing.
func SafeSub(a, b *uint256.Int) *uint256.Int {
	if a.Cmp(b) <= 0 {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(a, b)
}

// SafeDiv returns a / b, treating a zero divisor as "no data" and returning
// zero. Contrast with DivUp which treats a zero divisor as a caller error.
func SafeDiv(a, b *uint256.Int) *uint256.Int {
	if b.IsZero() {
		return new(uint256.Int)
	}
	return new(uint256.Int).Div(a, b)
}

// DivUp returns ceil(a / b). A zero divisor is a programming error and fails.
func DivUp(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrDivisionByZero
	}
	if a.IsZero() {
		return new(uint256.Int), nil
	}
	// (a + b - 1) / b computed widened; the quotient always fits 256 bits.
	num := new(big.Int).Add(a.ToBig(), b.ToBig())
	num.Sub(num, big.NewInt(1))
	num.Quo(num, b.ToBig())
	return checked(num)
}

// MulDiv returns floor(a * b / denominator) with a widened intermediate.
func MulDiv(a, b, denominator *uint256.Int) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, ErrDivisionByZero
	}
	product := new(big.Int).Mul(a.ToBig(), b.ToBig())
	product.Quo(product, denominator.ToBig())
	return checked(product)
}

// MulDivUp returns ceil(a * b / denominator) with a widened intermediate.
func MulDivUp(a, b, denominator *uint256.Int) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, ErrDivisionByZero
	}
	den := denominator.ToBig()
	product := new(big.Int).Mul(a.ToBig(), b.ToBig())
	product.Add(product, new(big.Int).Sub(den, big.NewInt(1)))
	product.Quo(product, den)
	return checked(product)
}

// BpsToDecimal converts basis points to an 1e18-scaled decimal fraction:
// 10_000 bps maps to 1e18.
func BpsToDecimal(bps uint64) *uint256.Int {
	v := new(big.Int).SetUint64(bps)
	v.Mul(v, wad)
	v.Quo(v, basisPoints)
	out, _ := uint256.FromBig(v)
	return out
}

// ApplyBps returns value * bps / 10_000, floor rounded.
func ApplyBps(value *uint256.Int, bps uint64) (*uint256.Int, error) {
	product := new(big.Int).Mul(value.ToBig(), new(big.Int).SetUint64(bps))
	product.Quo(product, basisPoints)
	return checked(product)
}

// ApplyPercentage returns value * pct / 1e18, floor rounded, where pct is an
// 1e18-scaled decimal fraction.
func ApplyPercentage(value, pct *uint256.Int) (*uint256.Int, error) {
	product := new(big.Int).Mul(value.ToBig(), pct.ToBig())
	product.Quo(product, wad)
	return checked(product)
}

// Ratio returns num * 1e18 / den as an 1e18-scaled fraction, or zero when the
// denominator carries no data.
func Ratio(num, den *uint256.Int) (*uint256.Int, error) {
	if den.IsZero() {
		return new(uint256.Int), nil
	}
	scaled := new(big.Int).Mul(num.ToBig(), wad)
	scaled.Quo(scaled, den.ToBig())
	return checked(scaled)
}

// ProRata linearly allocates total over the elapsed share of period. The
// allocation is capped at total once the period has fully elapsed, and a zero
// period yields zero.
func ProRata(total, elapsed, period *uint256.Int) *uint256.Int {
	if period.IsZero() {
		return new(uint256.Int)
	}
	if elapsed.Cmp(period) >= 0 {
		return total.Clone()
	}
	share := new(big.Int).Mul(total.ToBig(), elapsed.ToBig())
	share.Quo(share, period.ToBig())
	out, _ := uint256.FromBig(share)
	return out
}

// CalculateInterest accrues simple, non-compounding interest:
// principal * annualRateBps * durationSeconds / (10_000 * SecondsPerYear).
func CalculateInterest(principal *uint256.Int, annualRateBps, durationSeconds uint64) (*uint256.Int, error) {
	interest := new(big.Int).Mul(principal.ToBig(), new(big.Int).SetUint64(annualRateBps))
	interest.Mul(interest, new(big.Int).SetUint64(durationSeconds))
	interest.Quo(interest, new(big.Int).Mul(basisPoints, big.NewInt(SecondsPerYear)))
	return checked(interest)
}

// IsWithinTolerance reports whether value lies within toleranceBps of target.
// A zero target admits only an exact match.
func IsWithinTolerance(value, target *uint256.Int, toleranceBps uint64) bool {
	if target.IsZero() {
		return value.IsZero()
	}
	diff := AbsDiff(value, target).ToBig()
	allowed := new(big.Int).Mul(target.ToBig(), new(big.Int).SetUint64(toleranceBps))
	allowed.Quo(allowed, basisPoints)
	return diff.Cmp(allowed) <= 0
}

// ConvertDecimals rescales amount between token decimal precisions,
// multiplying when scaling up and floor-dividing when scaling down.
func ConvertDecimals(amount *uint256.Int, fromDecimals, toDecimals uint8) (*uint256.Int, error) {
	if fromDecimals == toDecimals {
		return amount.Clone(), nil
	}
	if toDecimals > fromDecimals {
		factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(toDecimals-fromDecimals)), nil)
		return checked(new(big.Int).Mul(amount.ToBig(), factor))
	}
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(fromDecimals-toDecimals)), nil)
	out, _ := uint256.FromBig(new(big.Int).Quo(amount.ToBig(), factor))
	return out, nil
}

// CollateralizationRatio returns collateral * 1e18 / debt as an 1e18-scaled
// fraction. Zero debt reports the MaxRatio sentinel rather than failing, since
// an unlevered position is infinitely collateralized.
func CollateralizationRatio(collateral, debt *uint256.Int) (*uint256.Int, error) {
	if debt.IsZero() {
		return MaxRatio(), nil
	}
	scaled := new(big.Int).Mul(collateral.ToBig(), wad)
	scaled.Quo(scaled, debt.ToBig())
	return checked(scaled)
}

// IsPositionHealthy reports whether collateral covers debt at minRatioBps.
// The comparison cross-multiplies to avoid the precision loss of a division.
func IsPositionHealthy(collateral, debt *uint256.Int, minRatioBps uint64) bool {
	if debt.IsZero() {
		return true
	}
	lhs := new(big.Int).Mul(collateral.ToBig(), basisPoints)
	rhs := new(big.Int).Mul(debt.ToBig(), new(big.Int).SetUint64(minRatioBps))
	return lhs.Cmp(rhs) >= 0
}

// CalculateLiquidationAmount solves for the debt repayment that restores
// targetRatioBps, accounting for the incentive markup paid to the liquidator:
//
//	repay = (debt*target - collateral*10_000) / (target - (10_000 + incentive))
//
// The formula is a first-order approximation of the full liquidation equation
// (it does not feed the seized collateral back into the ratio) and is kept as
// specified for parity with the deployed protocol. A zero algebraic
// denominator signals that no partial repayment can restore the target, so
// the entire debt is returned as a full-liquidation amount. A target below
// the markup would underflow the unsigned denominator and fails loudly.
func CalculateLiquidationAmount(collateral, debt *uint256.Int, targetRatioBps, incentiveBps uint64) (*uint256.Int, error) {
	if IsPositionHealthy(collateral, debt, targetRatioBps) {
		return new(uint256.Int), nil
	}
	markup := BpsDenominator + incentiveBps
	if targetRatioBps == markup {
		return debt.Clone(), nil
	}
	if targetRatioBps < markup {
		return nil, ErrOverflow
	}
	num := new(big.Int).Mul(debt.ToBig(), new(big.Int).SetUint64(targetRatioBps))
	num.Sub(num, new(big.Int).Mul(collateral.ToBig(), basisPoints))
	den := new(big.Int).SetUint64(targetRatioBps - markup)
	num.Quo(num, den)
	return checked(num)
}
