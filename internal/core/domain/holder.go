package domain

// DefaultMinHold is the holding threshold used when none is configured.
const DefaultMinHold = 100000

// HolderVerification is the outcome of a single balance check.
// It is never cached: every request recomputes it from ledger state.
type HolderVerification struct {
	Address  string
	Balance  float64
	MinHold  float64
	IsHolder bool
}

// MeetsThreshold reports whether balance qualifies as a holder (inclusive).
func MeetsThreshold(balance, minHold float64) bool {
	return balance >= minHold
}

// TokenBalance is one token account of the gating mint owned by a wallet.
type TokenBalance struct {
	Account   string
	Mint      string
	RawAmount string
	Decimals  int
	UIAmount  float64
}
