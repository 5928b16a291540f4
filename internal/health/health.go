// Package health provides system health monitoring and status reporting.
package health

// SystemStatus represents the overall health state of the system or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// StoreHealth describes the message backend in use.
type StoreHealth struct {
	Status  SystemStatus `json:"status"`
	Backend string       `json:"backend"`
	Durable bool         `json:"durable"`
	Error   string       `json:"error,omitempty"`
}

// LedgerHealth describes the ledger RPC provider.
type LedgerHealth struct {
	Status     SystemStatus `json:"status"`
	Provider   string       `json:"provider,omitempty"`
	Configured bool         `json:"configured"`
	ErrorRate  float64      `json:"error_rate"`
	LatencyMs  int64        `json:"latency_ms"`
	Throttled  bool         `json:"throttled"`
}

// HealthReport contains the full system health report.
type HealthReport struct {
	Status SystemStatus `json:"status"`
	Store  StoreHealth  `json:"store"`
	Ledger LedgerHealth `json:"ledger"`
}

// worst returns the more severe of two statuses.
func worst(a, b SystemStatus) SystemStatus {
	rank := map[SystemStatus]int{StatusHealthy: 0, StatusDegraded: 1, StatusCritical: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
