package solana

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/vietddude/warroom/internal/core/domain"
	"github.com/vietddude/warroom/internal/infra/rpc"
)

// DefaultCommitment is the commitment level used for balance reads.
const DefaultCommitment = "confirmed"

// Adapter reads SPL token balances over Solana JSON-RPC.
type Adapter struct {
	client     rpc.RPCProvider
	commitment string
	log        *slog.Logger
}

func NewAdapter(client rpc.RPCProvider, commitment string) *Adapter {
	if commitment == "" {
		commitment = DefaultCommitment
	}
	return &Adapter{
		client:     client,
		commitment: commitment,
		log:        slog.Default().With("component", "solana"),
	}
}

// TokenBalances queries getTokenAccountsByOwner filtered by mint.
func (a *Adapter) TokenBalances(ctx context.Context, owner, mint string) ([]domain.TokenBalance, error) {
	params := []any{
		owner,
		map[string]any{"mint": mint},
		map[string]any{"encoding": "jsonParsed", "commitment": a.commitment},
	}
	result, err := a.client.Call(ctx, "getTokenAccountsByOwner", params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	parsed := gjson.ParseBytes(result)
	value := parsed.Get("value")
	if !value.IsArray() {
		return nil, fmt.Errorf("%w: getTokenAccountsByOwner: missing value array", domain.ErrUpstream)
	}

	var balances []domain.TokenBalance
	for i, entry := range value.Array() {
		balance, ok := parseTokenAccount(entry)
		if !ok {
			a.log.Warn("Skipping malformed token account", "owner", owner, "index", i)
			continue
		}
		balances = append(balances, balance)
	}
	return balances, nil
}

// parseTokenAccount extracts the UI-scaled amount of one keyed account.
// uiAmount is preferred; otherwise amount / 10^decimals is computed.
func parseTokenAccount(entry gjson.Result) (domain.TokenBalance, bool) {
	info := entry.Get("account.data.parsed.info")
	tokenAmount := info.Get("tokenAmount")
	if !tokenAmount.IsObject() {
		return domain.TokenBalance{}, false
	}

	balance := domain.TokenBalance{
		Account:   entry.Get("pubkey").String(),
		Mint:      info.Get("mint").String(),
		RawAmount: tokenAmount.Get("amount").String(),
	}

	decimals := tokenAmount.Get("decimals")
	if decimals.Type == gjson.Number {
		balance.Decimals = int(decimals.Int())
	}

	if ui := tokenAmount.Get("uiAmount"); ui.Type == gjson.Number {
		balance.UIAmount = ui.Float()
		return balance, true
	}

	if balance.RawAmount == "" || decimals.Type != gjson.Number {
		return domain.TokenBalance{}, false
	}
	raw, err := strconv.ParseFloat(balance.RawAmount, 64)
	if err != nil {
		return domain.TokenBalance{}, false
	}
	balance.UIAmount = raw / math.Pow10(balance.Decimals)
	return balance, true
}
