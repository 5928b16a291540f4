package health

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/warroom/internal/infra/rpc"
	"github.com/vietddude/warroom/internal/infra/storage"
)

const (
	checkInterval = 10 * time.Second
	probeTimeout  = 3 * time.Second
)

// LedgerProvider exposes provider health tracking.
type LedgerProvider interface {
	GetName() string
	GetHealth() rpc.HealthStatus
}

// Monitor aggregates health status from the ledger provider and the store.
type Monitor struct {
	ledger     LedgerProvider
	store      storage.MessageLog
	lastCheck  time.Time
	lastReport *HealthReport
	mu         sync.Mutex
}

// NewMonitor creates a new health monitor. ledger may be nil when no RPC
// endpoint is configured.
func NewMonitor(ledger LedgerProvider, store storage.MessageLog) *Monitor {
	return &Monitor{ledger: ledger, store: store}
}

// CheckHealth builds a report, reusing the previous one for a short while
// to avoid probing remote stores on every request.
func (m *Monitor) CheckHealth(ctx context.Context) HealthReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastReport != nil && time.Since(m.lastCheck) < checkInterval {
		return *m.lastReport
	}

	report := HealthReport{
		Store:  m.checkStore(ctx),
		Ledger: m.checkLedger(),
	}
	report.Status = worst(report.Store.Status, report.Ledger.Status)

	m.lastCheck = time.Now()
	m.lastReport = &report
	return report
}

func (m *Monitor) checkStore(ctx context.Context) StoreHealth {
	if m.store == nil {
		return StoreHealth{Status: StatusCritical, Error: "no message backend"}
	}

	h := StoreHealth{
		Status:  StatusHealthy,
		Backend: m.store.Name(),
		Durable: storage.IsDurable(m.store),
	}
	if !h.Durable {
		h.Status = StatusDegraded
	}

	if p, ok := m.store.(storage.Pinger); ok {
		pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if err := p.Ping(pingCtx); err != nil {
			h.Status = StatusCritical
			h.Error = err.Error()
		}
	}
	return h
}

func (m *Monitor) checkLedger() LedgerHealth {
	if m.ledger == nil {
		return LedgerHealth{Status: StatusDegraded}
	}

	hs := m.ledger.GetHealth()
	h := LedgerHealth{
		Status:     StatusHealthy,
		Provider:   m.ledger.GetName(),
		Configured: true,
		ErrorRate:  hs.ErrorRate,
		LatencyMs:  hs.Latency.Milliseconds(),
		Throttled:  hs.Throttled,
	}
	if !hs.Available || hs.Throttled || hs.ErrorRate > 0.1 {
		h.Status = StatusDegraded
	}
	return h
}
