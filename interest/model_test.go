package interest

import (
	"testing"

	"github.com/holiman/uint256"

	"lendcore/fixedpoint"
)

func wads(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), fixedpoint.Wad())
}

func TestUtilisationBps(t *testing.T) {
	m := DefaultModel
	if got := m.UtilisationBps(wads(0), wads(100)); got != 0 {
		t.Fatalf("empty borrow: got %d", got)
	}
	if got := m.UtilisationBps(wads(50), wads(0)); got != 0 {
		t.Fatalf("empty pool: got %d", got)
	}
	if got := m.UtilisationBps(wads(50), wads(100)); got != 5_000 {
		t.Fatalf("half utilised: got %d", got)
	}
	if got := m.UtilisationBps(wads(150), wads(100)); got != 10_000 {
		t.Fatalf("saturated: got %d", got)
	}
}

func TestBorrowRateBps(t *testing.T) {
	m := DefaultModel
	if got := m.BorrowRateBps(wads(0), wads(100)); got != m.BaseRateBps {
		t.Fatalf("idle pool: got %d", got)
	}
	// Below the kink: base + slope1 * u.
	if got := m.BorrowRateBps(wads(40), wads(100)); got != 800 {
		t.Fatalf("below kink: got %d", got)
	}
	// At the kink exactly.
	if got := m.BorrowRateBps(wads(80), wads(100)); got != 1_400 {
		t.Fatalf("at kink: got %d", got)
	}
	// Beyond the kink the second slope applies to the excess only.
	if got := m.BorrowRateBps(wads(90), wads(100)); got != 2_000 {
		t.Fatalf("beyond kink: got %d", got)
	}
}

func TestSupplyRateBps(t *testing.T) {
	m := DefaultModel
	// gross = borrow * u; net strips the reserve share.
	if got := m.SupplyRateBps(wads(90), wads(100), 1_000); got != 1_620 {
		t.Fatalf("supply rate: got %d", got)
	}
	if got := m.SupplyRateBps(wads(90), wads(100), 10_000); got != 0 {
		t.Fatalf("full reserve: got %d", got)
	}
	if got := m.SupplyRateBps(wads(0), wads(100), 1_000); got != 0 {
		t.Fatalf("idle pool: got %d", got)
	}
}

func TestAccrue(t *testing.T) {
	m := DefaultModel
	// 90% utilisation borrows at 20% APR; one year on 1000 yields 200.
	got, err := m.Accrue(wads(1_000), wads(90), wads(100), fixedpoint.SecondsPerYear)
	if err != nil {
		t.Fatalf("accrue: %v", err)
	}
	if got.Cmp(wads(200)) != 0 {
		t.Fatalf("accrue: got %s", got)
	}
}

func TestModelValidate(t *testing.T) {
	if err := DefaultModel.Validate(); err != nil {
		t.Fatalf("default model invalid: %v", err)
	}
	bad := DefaultModel
	bad.KinkBps = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("zero kink accepted")
	}
	bad.KinkBps = 10_001
	if err := bad.Validate(); err == nil {
		t.Fatalf("kink above 100%% accepted")
	}
}
