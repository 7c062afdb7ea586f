package risk

// HealthStatus classifies a position by increasing severity. The
// classification is recomputed from raw inputs on every call; there are no
// persistent transitions between states.
type HealthStatus uint8

const (
	// Healthy positions sit above the warning threshold or carry no debt.
	Healthy HealthStatus = iota
	// AtRisk positions are below the warning threshold but not yet
	// liquidatable.
	AtRisk
	// Liquidatable positions are below the liquidation threshold.
	Liquidatable
	// BadDebt positions hold less collateral value than debt value; the
	// shortfall cannot be recovered by liquidation alone.
	BadDebt
)

func (s HealthStatus) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case AtRisk:
		return "at_risk"
	case Liquidatable:
		return "liquidatable"
	case BadDebt:
		return "bad_debt"
	default:
		return "unknown"
	}
}
