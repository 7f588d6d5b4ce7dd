package collector

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
	"github.com/valefoxdev101/gdpr-education-audit/internal/util"
	"github.com/valefoxdev101/gdpr-education-audit/internal/worker"
)

// Collector gathers the raw compliance signals for a target platform.
// A collection failure aborts the scan: a report built from partial
// signals would silently understate the findings.
type Collector interface {
	Collect(ctx context.Context, rawURL string) (*model.ScanSignalSet, error)
}

// HTTPCollector fetches the target page over HTTP and extracts signals
// from the response headers and HTML.
type HTTPCollector struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
}

// NewHTTPCollector creates a collector from the HTTP configuration.
func NewHTTPCollector(cfg model.HTTPConfig) *HTTPCollector {
	client := util.NewHTTPClient(cfg.Timeout, cfg.HTTPProxy, cfg.HTTPSProxy, 3)
	if cfg.InsecureTLS {
		transport := client.Transport.(*http.Transport)
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	var robots *util.RobotsChecker
	if cfg.RespectRobots {
		robots = util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}

	return &HTTPCollector{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		robots:     robots,
		limiter:    worker.NewLimiter(2, 4),
	}
}

// Collect fetches the URL and builds the signal set for it.
func (c *HTTPCollector) Collect(ctx context.Context, rawURL string) (*model.ScanSignalSet, error) {
	if c.robots != nil {
		allowed, crawlDelay, err := c.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
		}
		if crawlDelay > 0 {
			select {
			case <-time.After(crawlDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if err := c.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()

	signals, err := ExtractSignals(string(body), finalURL)
	if err != nil {
		return nil, fmt.Errorf("extract signals: %w", err)
	}

	signals.Cookies = append(cookiesFromResponse(resp), signals.Cookies...)

	return signals, nil
}

// cookiesFromResponse converts Set-Cookie headers into cookie signals.
func cookiesFromResponse(resp *http.Response) []model.CookieSignal {
	var cookies []model.CookieSignal
	for _, c := range resp.Cookies() {
		cookies = append(cookies, model.CookieSignal{
			Name:   c.Name,
			Domain: c.Domain,
			Secure: c.Secure,
		})
	}
	return cookies
}
