package nbastats

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
	"github.com/hoopsync/nba-data-sync/internal/platform/resilience"
)

const (
	defaultStatsBaseURL = "https://stats.nba.com/stats"
	defaultCDNBaseURL   = "https://cdn.nba.com/static/json"
	maxResponseBytes    = 12 << 20
)

type ClientConfig struct {
	HTTPClient *http.Client
	StatsBaseURL string
	CDNBaseURL   string
	// ProxyURL points at a rotating egress gateway; empty disables rotation
	// and makes timeouts count as rate limiting instead.
	ProxyURL string
	Timeout  time.Duration
	Retry    resilience.RetryConfig
	Breaker  resilience.BreakerConfig
	Logger   *logging.Logger
}

// Client talks to the stats provider. All endpoint fetches report absence
// (false) instead of an error when the provider is unavailable after the
// retry budget; callers skip that unit of work for the run.
type Client struct {
	mu         sync.Mutex
	httpClient *http.Client
	proxyURL   *url.URL

	statsBaseURL string
	cdnBaseURL   string
	retryer      *resilience.Retryer
	breaker      *resilience.Breaker
	breakerOn    bool
	flight       resilience.SingleFlight
	logger       *logging.Logger
}

func NewClient(cfg ClientConfig) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	statsBase := strings.TrimRight(strings.TrimSpace(cfg.StatsBaseURL), "/")
	if statsBase == "" {
		statsBase = defaultStatsBaseURL
	}
	cdnBase := strings.TrimRight(strings.TrimSpace(cfg.CDNBaseURL), "/")
	if cdnBase == "" {
		cdnBase = defaultCDNBaseURL
	}

	var proxyURL *url.URL
	if trimmed := strings.TrimSpace(cfg.ProxyURL); trimmed != "" {
		parsed, err := url.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		proxyURL = parsed
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	breakerCfg := resilience.NormalizeBreakerConfig(cfg.Breaker)

	c := &Client{
		proxyURL:     proxyURL,
		statsBaseURL: statsBase,
		cdnBaseURL:   cdnBase,
		breaker:      resilience.NewBreaker(breakerCfg),
		breakerOn:    breakerCfg.Enabled,
		logger:       logger,
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}
	// A client without its own transport still has to egress through the
	// gateway, otherwise the proxy config silently does nothing.
	if httpClient.Transport == nil {
		httpClient.Transport = c.newTransport()
	}
	c.httpClient = httpClient

	var rotator resilience.Rotator
	if proxyURL != nil {
		rotator = c
	}
	c.retryer = resilience.NewRetryer(cfg.Retry, classify, rotator, logger)

	return c, nil
}

// OnRetry forwards the metrics hook to the underlying retry policy.
func (c *Client) OnRetry(fn func(name string, class resilience.ErrorClass)) {
	c.retryer.OnRetry(fn)
}

// Rotate swaps the transport so the next attempt opens a fresh tunnel
// through the gateway and therefore a fresh egress identity.
func (c *Client) Rotate() {
	if c.proxyURL == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.httpClient.Transport.(*http.Transport); ok && t != nil {
		t.CloseIdleConnections()
	}
	c.httpClient.Transport = c.newTransport()
	c.logger.Info("rotated provider egress", "proxy", sanitizeProxyText(c.proxyURL.Redacted()))
}

func (c *Client) newTransport() *http.Transport {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 25 * time.Second,
		MaxIdleConns:          8,
		IdleConnTimeout:       60 * time.Second,
	}
	if c.proxyURL != nil {
		transport.Proxy = http.ProxyURL(c.proxyURL)
	}
	return transport
}

// statsHeaders is the browser-ish header set the stats host requires;
// requests without it are silently dropped or stalled.
func statsHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", "https://stats.nba.com/")
	req.Header.Set("Origin", "https://stats.nba.com")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")
}

func cdnHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
}

// getJSON performs one deduplicated, breaker-guarded, retried fetch and
// decodes the body into target. It reports absence on any failure path.
func (c *Client) getJSON(ctx context.Context, name, baseURL, path string, query url.Values, decorate func(*http.Request), target any) bool {
	if c.breakerOn {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "provider circuit breaker rejected request", "call", name, "state", c.breaker.State())
			return false
		}
	}

	fullURL := baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(name+"|"+fullURL, func() (any, error) {
		var raw []byte
		ok := c.retryer.Do(ctx, name, func(ctx context.Context) error {
			body, reqErr := c.fetchOnce(ctx, fullURL, decorate)
			if reqErr != nil {
				return reqErr
			}
			raw = body
			return nil
		})
		if c.breakerOn {
			if ok {
				c.breaker.RecordSuccess()
			} else {
				c.breaker.RecordFailure()
			}
		}
		if !ok {
			return nil, fmt.Errorf("provider call %s exhausted", name)
		}
		return raw, nil
	})
	if err != nil {
		return false
	}

	raw, ok := out.([]byte)
	if !ok {
		c.logger.WarnContext(ctx, "unexpected shared response type", "call", name)
		return false
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		c.logger.WarnContext(ctx, "decode provider payload failed", "call", name, "error", err)
		return false
	}

	return true
}

func (c *Client) fetchOnce(ctx context.Context, fullURL string, decorate func(*http.Request)) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if decorate != nil {
		decorate(req)
	}

	c.mu.Lock()
	client := c.httpClient
	c.mu.Unlock()

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %s", sanitizeProxyText(err.Error()))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: abbreviateBody(raw)}
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed == "{}" {
		return nil, ErrEmptyBody
	}

	return raw, nil
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		body = body[:limit] + "..."
	}
	return sanitizeProxyText(body)
}
