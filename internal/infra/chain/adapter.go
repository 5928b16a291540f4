package chain

import (
	"context"

	"github.com/vietddude/warroom/internal/core/domain"
)

// TokenLedger is the read-only boundary to the ledger node.
// Implementations must wrap transport and node failures in domain.ErrUpstream.
type TokenLedger interface {
	// TokenBalances returns every token account of mint owned by owner.
	// Malformed accounts are skipped rather than failing the whole call.
	TokenBalances(ctx context.Context, owner, mint string) ([]domain.TokenBalance, error)
}
