package control

import (
	"github.com/vietddude/warroom/internal/core/config"
	"github.com/vietddude/warroom/internal/core/holder"
	"github.com/vietddude/warroom/internal/infra/chain/solana"
	"github.com/vietddude/warroom/internal/infra/rpc"
)

// NewVerifier wires the holder verifier to the configured ledger endpoint.
// The provider is nil when no endpoint is configured.
func NewVerifier(cfg *config.AppConfig) (*holder.Verifier, *rpc.HTTPProvider) {
	hcfg := holder.Config{
		Mint:    cfg.Gate.Mint,
		RPCURL:  cfg.Ledger.RPCURL,
		MinHold: cfg.Gate.MinHoldAmount(),
		Timeout: cfg.Ledger.Timeout,
	}
	if cfg.Ledger.RPCURL == "" {
		return holder.NewVerifier(nil, hcfg), nil
	}

	provider := rpc.NewHTTPProvider("solana", cfg.Ledger.RPCURL, cfg.Ledger.Timeout)
	return holder.NewVerifier(solana.NewAdapter(provider, cfg.Ledger.Commitment), hcfg), provider
}
