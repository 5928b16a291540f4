package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vietddude/warroom/internal/metrics"
)

var throttlePatterns = []string{
	"rate limit exceeded",
	"too many requests",
	"daily request count exceeded",
	"monthly quota exceeded",
}

// HTTPProvider implements RPCProvider for JSON-RPC 2.0 over HTTP.
// Calls are made exactly once; callers decide what a failure means.
type HTTPProvider struct {
	*BaseProvider

	endpoint   string
	httpClient *http.Client
	nextID     atomic.Uint64
}

// NewHTTPProvider creates a new HTTP-based RPC provider.
// The timeout bounds every call, including reading the response body.
func NewHTTPProvider(name, endpoint string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		BaseProvider: NewBaseProvider(name),
		endpoint:     endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Endpoint returns the configured RPC URL.
func (p *HTTPProvider) Endpoint() string {
	return p.endpoint
}

// Call makes a single JSON-RPC call and returns the raw result.
func (p *HTTPProvider) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	start := time.Now()
	metrics.RPCCallsTotal.WithLabelValues(p.Name, method).Inc()

	reqBody := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      p.nextID.Add(1),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, p.fail("marshal", fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, p.fail("request", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, p.fail("timeout", fmt.Errorf("rpc call timed out: %w", err))
		}
		return nil, p.fail("transport", fmt.Errorf("rpc call: %w", err))
	}
	defer resp.Body.Close()

	// Rate limit detection
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		return nil, p.throttled(fmt.Errorf("rate limited (429), retry after: %s", retryAfter))
	}

	// IP blocked detection
	if resp.StatusCode == http.StatusForbidden {
		return nil, p.throttled(fmt.Errorf("ip blocked (403)"))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, p.fail("timeout", fmt.Errorf("read response timed out: %w", err))
		}
		return nil, p.fail("transport", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		if detectThrottle(string(body)) {
			return nil, p.throttled(fmt.Errorf("throttle detected in response: %s", truncate(body)))
		}
		return nil, p.fail("http_status", fmt.Errorf("http %d: %s", resp.StatusCode, truncate(body)))
	}

	var rpcResp struct {
		Result json.RawMessage `json:"result"`
		Error  *RPCError       `json:"error"`
	}
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, p.fail("decode", fmt.Errorf("parse response: %w", err))
	}

	if rpcResp.Error != nil {
		if detectThrottle(rpcResp.Error.Message) {
			return nil, p.throttled(fmt.Errorf("throttle in rpc error: %w", rpcResp.Error))
		}
		return nil, p.fail("rpc", fmt.Errorf("rpc error %d: %w", rpcResp.Error.Code, rpcResp.Error))
	}

	latency := time.Since(start)
	metrics.RPCLatency.WithLabelValues(p.Name, method).Observe(latency.Seconds())
	p.RecordSuccess(latency)

	return rpcResp.Result, nil
}

// Close cleans up resources.
func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

func (p *HTTPProvider) fail(kind string, err error) error {
	metrics.RPCErrorsTotal.WithLabelValues(p.Name, kind).Inc()
	p.RecordFailure(false)
	return err
}

func (p *HTTPProvider) throttled(err error) error {
	metrics.RPCErrorsTotal.WithLabelValues(p.Name, "throttled").Inc()
	p.RecordFailure(true)
	return err
}

func detectThrottle(msg string) bool {
	lower := strings.ToLower(msg)
	for _, pattern := range throttlePatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
