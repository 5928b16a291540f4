// Package rpc provides the ledger JSON-RPC client used by the holder gate.
//
// # Quick Start
//
//	import "github.com/vietddude/warroom/internal/infra/rpc"
//
//	client := rpc.NewHTTPProvider("mainnet", rpcURL, 10*time.Second)
//	result, err := client.Call(ctx, "getSlot", nil)
//
// Calls are attempted once and never retried. The client timeout is the
// only bound on a call that the caller's context does not already impose.
//
// # Package Structure
//
//   - provider/ - Provider implementations (HTTPProvider, health tracking)
//
// Most types are re-exported at the root level for convenience.
package rpc

import (
	"time"

	"github.com/vietddude/warroom/internal/infra/rpc/provider"
)

// Provider is the core interface for RPC endpoints.
type Provider = provider.Provider

// RPCProvider is the interface for providers that support JSON-RPC calls.
type RPCProvider = provider.RPCProvider

// HTTPProvider implements Provider for JSON-RPC over HTTP.
type HTTPProvider = provider.HTTPProvider

// HealthStatus represents the health state of a provider.
type HealthStatus = provider.HealthStatus

// RPCError is a JSON-RPC error object.
type RPCError = provider.RPCError

// DefaultTimeout bounds a ledger call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// NewHTTPProvider creates a new HTTP-based RPC provider.
func NewHTTPProvider(name, endpoint string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return provider.NewHTTPProvider(name, endpoint, timeout)
}
