// Package holder decides whether a wallet holds enough of the gating token.
package holder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vietddude/warroom/internal/core/domain"
	"github.com/vietddude/warroom/internal/infra/chain"
	"github.com/vietddude/warroom/internal/metrics"
)

// Config holds the gate settings in effect for a verifier.
type Config struct {
	Mint    string
	RPCURL  string
	MinHold float64
	Timeout time.Duration
}

// Verifier computes holder status from live ledger state.
type Verifier struct {
	ledger chain.TokenLedger
	cfg    Config
	log    *slog.Logger
}

// NewVerifier creates a verifier. A nil ledger is treated as unconfigured.
func NewVerifier(ledger chain.TokenLedger, cfg Config) *Verifier {
	return &Verifier{
		ledger: ledger,
		cfg:    cfg,
		log:    slog.Default().With("component", "holder"),
	}
}

// MinHold returns the threshold in effect.
func (v *Verifier) MinHold() float64 {
	return v.cfg.MinHold
}

// Verify sums the wallet's balance of the gating mint and compares it with
// the threshold. On ledger failure it returns a non-holder result together
// with an error wrapping domain.ErrUpstream.
func (v *Verifier) Verify(ctx context.Context, address string) (*domain.HolderVerification, error) {
	if v.cfg.Mint == "" {
		return nil, fmt.Errorf("%w: GATING_TOKEN_MINT is not configured on the server", domain.ErrConfiguration)
	}
	if v.cfg.RPCURL == "" || v.ledger == nil {
		return nil, fmt.Errorf("%w: ledger RPC endpoint is not configured", domain.ErrConfiguration)
	}
	if err := ValidateAddress(v.cfg.Mint); err != nil {
		return nil, fmt.Errorf("%w: GATING_TOKEN_MINT: %v", domain.ErrConfiguration, err)
	}

	address = strings.TrimSpace(address)
	if err := ValidateAddress(address); err != nil {
		metrics.VerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	result := &domain.HolderVerification{
		Address: address,
		MinHold: v.cfg.MinHold,
	}

	if v.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.cfg.Timeout)
		defer cancel()
	}

	balances, err := v.ledger.TokenBalances(ctx, address, v.cfg.Mint)
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues("upstream_error").Inc()
		v.log.Error("Ledger query failed", "address", address, "error", err)
		if !errors.Is(err, domain.ErrUpstream) {
			err = fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		return result, err
	}

	for _, b := range balances {
		result.Balance += b.UIAmount
	}
	result.IsHolder = domain.MeetsThreshold(result.Balance, result.MinHold)

	outcome := "not_holder"
	if result.IsHolder {
		outcome = "holder"
	}
	metrics.VerificationsTotal.WithLabelValues(outcome).Inc()
	v.log.Debug("Verified holder",
		"address", address,
		"accounts", len(balances),
		"balance", result.Balance,
		"min_hold", result.MinHold,
		"holder", result.IsHolder,
	)

	return result, nil
}
