package fixedpoint

import (
	"errors"
	"testing"
	"time"

	"github.com/holiman/uint256"
)

func u64(v uint64) *uint256.Int { return uint256.NewInt(v) }

func wads(n uint64) *uint256.Int {
	v := new(uint256.Int).Mul(u64(n), Wad())
	return v
}

func TestMinMax(t *testing.T) {
	a, b := u64(3), u64(7)
	if got := Min(a, b); got.Cmp(a) != 0 {
		t.Fatalf("min: got %s", got)
	}
	if got := Max(a, b); got.Cmp(b) != 0 {
		t.Fatalf("max: got %s", got)
	}
	if got := Min(b, b); got.Cmp(b) != 0 {
		t.Fatalf("min equal: got %s", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(u64(5), u64(1), u64(10)); got.Cmp(u64(5)) != 0 {
		t.Fatalf("in range: got %s", got)
	}
	if got := Clamp(u64(0), u64(1), u64(10)); got.Cmp(u64(1)) != 0 {
		t.Fatalf("below: got %s", got)
	}
	if got := Clamp(u64(20), u64(1), u64(10)); got.Cmp(u64(10)) != 0 {
		t.Fatalf("above: got %s", got)
	}
	// Degenerate range resolves to lo, never an error.
	if got := Clamp(u64(5), u64(10), u64(1)); got.Cmp(u64(10)) != 0 {
		t.Fatalf("degenerate: got %s", got)
	}
}

func TestAbsDiffAndSafeSub(t *testing.T) {
	if got := AbsDiff(u64(10), u64(3)); got.Cmp(u64(7)) != 0 {
		t.Fatalf("absdiff a>b: got %s", got)
	}
	if got := AbsDiff(u64(3), u64(10)); got.Cmp(u64(7)) != 0 {
		t.Fatalf("absdiff a<b: got %s", got)
	}
	if got := SafeSub(u64(10), u64(3)); got.Cmp(u64(7)) != 0 {
		t.Fatalf("safesub: got %s", got)
	}
	if got := SafeSub(u64(3), u64(10)); !got.IsZero() {
		t.Fatalf("safesub floor: got %s", got)
	}
}

func TestSafeDiv(t *testing.T) {
	if got := SafeDiv(u64(10), u64(3)); got.Cmp(u64(3)) != 0 {
		t.Fatalf("got %s", got)
	}
	if got := SafeDiv(u64(10), u64(0)); !got.IsZero() {
		t.Fatalf("zero divisor: got %s", got)
	}
}

func TestDivUp(t *testing.T) {
	cases := []struct{ a, b, want uint64 }{
		{100, 10, 10},
		{101, 10, 11},
		{0, 10, 0},
		{1, 10, 1},
	}
	for _, tc := range cases {
		got, err := DivUp(u64(tc.a), u64(tc.b))
		if err != nil {
			t.Fatalf("divup(%d,%d): %v", tc.a, tc.b, err)
		}
		if got.Cmp(u64(tc.want)) != 0 {
			t.Fatalf("divup(%d,%d): got %s want %d", tc.a, tc.b, got, tc.want)
		}
	}
	if _, err := DivUp(u64(5), u64(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("zero divisor: got %v", err)
	}
}

func TestMulDiv(t *testing.T) {
	got, err := MulDiv(u64(100), u64(50), u64(100))
	if err != nil {
		t.Fatalf("muldiv: %v", err)
	}
	if got.Cmp(u64(50)) != 0 {
		t.Fatalf("muldiv: got %s", got)
	}
	if _, err := MulDiv(u64(1), u64(1), u64(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("zero divisor: got %v", err)
	}

	// The widened intermediate survives factors that overflow 256 bits.
	max := new(uint256.Int).SetAllOne()
	got, err = MulDiv(max, u64(2), u64(2))
	if err != nil {
		t.Fatalf("widened: %v", err)
	}
	if got.Cmp(max) != 0 {
		t.Fatalf("widened: got %s", got)
	}

	// A quotient beyond 256 bits fails loudly instead of wrapping.
	if _, err := MulDiv(max, u64(2), u64(1)); !errors.Is(err, ErrOverflow) {
		t.Fatalf("overflow: got %v", err)
	}
}

func TestMulDivUp(t *testing.T) {
	got, err := MulDivUp(u64(101), u64(1), u64(10))
	if err != nil {
		t.Fatalf("muldivup: %v", err)
	}
	if got.Cmp(u64(11)) != 0 {
		t.Fatalf("muldivup: got %s", got)
	}
	got, err = MulDivUp(u64(100), u64(1), u64(10))
	if err != nil {
		t.Fatalf("muldivup exact: %v", err)
	}
	if got.Cmp(u64(10)) != 0 {
		t.Fatalf("muldivup exact: got %s", got)
	}
	if _, err := MulDivUp(u64(1), u64(1), u64(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("zero divisor: got %v", err)
	}
}

func TestBpsToDecimal(t *testing.T) {
	if got := BpsToDecimal(10_000); got.Cmp(Wad()) != 0 {
		t.Fatalf("10000 bps: got %s", got)
	}
	want := uint256.MustFromDecimal("100000000000000")
	if got := BpsToDecimal(1); got.Cmp(want) != 0 {
		t.Fatalf("1 bps: got %s", got)
	}
}

func TestApplyBps(t *testing.T) {
	got, err := ApplyBps(u64(10_000), 500)
	if err != nil {
		t.Fatalf("applybps: %v", err)
	}
	if got.Cmp(u64(500)) != 0 {
		t.Fatalf("applybps: got %s", got)
	}
	// Floor rounding.
	got, err = ApplyBps(u64(3), 5_000)
	if err != nil {
		t.Fatalf("applybps floor: %v", err)
	}
	if got.Cmp(u64(1)) != 0 {
		t.Fatalf("applybps floor: got %s", got)
	}
}

func TestApplyPercentage(t *testing.T) {
	half := uint256.MustFromDecimal("500000000000000000")
	got, err := ApplyPercentage(u64(1_000), half)
	if err != nil {
		t.Fatalf("applypercentage: %v", err)
	}
	if got.Cmp(u64(500)) != 0 {
		t.Fatalf("applypercentage: got %s", got)
	}
}

func TestRatio(t *testing.T) {
	got, err := Ratio(u64(3), u64(2))
	if err != nil {
		t.Fatalf("ratio: %v", err)
	}
	want := uint256.MustFromDecimal("1500000000000000000")
	if got.Cmp(want) != 0 {
		t.Fatalf("ratio: got %s", got)
	}
	got, err = Ratio(u64(3), u64(0))
	if err != nil {
		t.Fatalf("ratio zero den: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("ratio zero den: got %s", got)
	}
}

func TestProRata(t *testing.T) {
	if got := ProRata(u64(1_000), u64(50), u64(100)); got.Cmp(u64(500)) != 0 {
		t.Fatalf("linear: got %s", got)
	}
	if got := ProRata(u64(1_000), u64(150), u64(100)); got.Cmp(u64(1_000)) != 0 {
		t.Fatalf("capped: got %s", got)
	}
	if got := ProRata(u64(1_000), u64(50), u64(0)); !got.IsZero() {
		t.Fatalf("zero period: got %s", got)
	}
}

func TestCalculateInterest(t *testing.T) {
	principal := wads(1_000)
	got, err := CalculateInterest(principal, 1_000, SecondsPerYear)
	if err != nil {
		t.Fatalf("interest: %v", err)
	}
	if got.Cmp(wads(100)) != 0 {
		t.Fatalf("10%% over one year: got %s", got)
	}
	got, err = CalculateInterest(principal, 1_000, SecondsPerYear/2)
	if err != nil {
		t.Fatalf("interest half year: %v", err)
	}
	if got.Cmp(wads(50)) != 0 {
		t.Fatalf("10%% over half a year: got %s", got)
	}
	got, err = CalculateInterest(principal, 0, SecondsPerYear)
	if err != nil {
		t.Fatalf("zero rate: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("zero rate: got %s", got)
	}
}

func TestIsWithinTolerance(t *testing.T) {
	if IsWithinTolerance(u64(110), u64(100), 100) {
		t.Fatalf("110 vs 100 at 1%% should fail")
	}
	if !IsWithinTolerance(u64(101), u64(100), 100) {
		t.Fatalf("101 vs 100 at 1%% should pass")
	}
	if !IsWithinTolerance(u64(0), u64(0), 100) {
		t.Fatalf("zero target accepts exact zero")
	}
	if IsWithinTolerance(u64(1), u64(0), 10_000) {
		t.Fatalf("zero target rejects non-zero regardless of tolerance")
	}
}

func TestConvertDecimals(t *testing.T) {
	got, err := ConvertDecimals(u64(5), 6, 18)
	if err != nil {
		t.Fatalf("scale up: %v", err)
	}
	if got.Cmp(uint256.MustFromDecimal("5000000000000")) != 0 {
		t.Fatalf("scale up: got %s", got)
	}
	got, err = ConvertDecimals(uint256.MustFromDecimal("5000000000999"), 18, 6)
	if err != nil {
		t.Fatalf("scale down: %v", err)
	}
	if got.Cmp(u64(5)) != 0 {
		t.Fatalf("scale down floors: got %s", got)
	}
	got, err = ConvertDecimals(u64(42), 9, 9)
	if err != nil {
		t.Fatalf("no-op: %v", err)
	}
	if got.Cmp(u64(42)) != 0 {
		t.Fatalf("no-op: got %s", got)
	}
}

func TestCollateralizationRatio(t *testing.T) {
	got, err := CollateralizationRatio(wads(150), wads(100))
	if err != nil {
		t.Fatalf("ratio: %v", err)
	}
	want := uint256.MustFromDecimal("1500000000000000000")
	if got.Cmp(want) != 0 {
		t.Fatalf("150%%: got %s", got)
	}
	got, err = CollateralizationRatio(wads(150), u64(0))
	if err != nil {
		t.Fatalf("zero debt: %v", err)
	}
	if got.Cmp(MaxRatio()) != 0 {
		t.Fatalf("zero debt sentinel: got %s", got)
	}
}

func TestIsPositionHealthy(t *testing.T) {
	if !IsPositionHealthy(wads(150), u64(0), 12_000) {
		t.Fatalf("zero debt is always healthy")
	}
	if !IsPositionHealthy(wads(150), wads(100), 15_000) {
		t.Fatalf("exactly at threshold is healthy")
	}
	if IsPositionHealthy(wads(149), wads(100), 15_000) {
		t.Fatalf("below threshold is unhealthy")
	}
}

func TestCalculateLiquidationAmount(t *testing.T) {
	// Healthy positions need no liquidation.
	got, err := CalculateLiquidationAmount(wads(200), wads(100), 13_000, 500)
	if err != nil {
		t.Fatalf("healthy: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("healthy: got %s", got)
	}

	// repay = (debt*target - collateral*10000) / (target - (10000+incentive)).
	got, err = CalculateLiquidationAmount(u64(1_100), u64(1_000), 13_000, 500)
	if err != nil {
		t.Fatalf("partial: %v", err)
	}
	if got.Cmp(u64(800)) != 0 {
		t.Fatalf("partial: got %s want 800", got)
	}

	// Zero algebraic denominator signals full liquidation.
	got, err = CalculateLiquidationAmount(u64(1_000), u64(1_000), 10_500, 500)
	if err != nil {
		t.Fatalf("full: %v", err)
	}
	if got.Cmp(u64(1_000)) != 0 {
		t.Fatalf("full: got %s", got)
	}

	// A target below the incentive markup underflows the unsigned denominator.
	if _, err := CalculateLiquidationAmount(u64(900), u64(1_000), 10_000, 500); !errors.Is(err, ErrOverflow) {
		t.Fatalf("underflow: got %v", err)
	}
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func TestCurrentDay(t *testing.T) {
	clock := fixedClock{at: time.Unix(3*SecondsPerDay+17, 0)}
	if got := CurrentDay(clock); got != 3 {
		t.Fatalf("day index: got %d", got)
	}
	if got := CurrentDay(fixedClock{at: time.Unix(0, 0)}); got != 0 {
		t.Fatalf("epoch: got %d", got)
	}
}
