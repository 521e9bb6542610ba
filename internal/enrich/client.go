// Package enrich looks up third-party package health data on the advisory website.
package enrich

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/importspectre/internal/models"
	"github.com/ppiankov/importspectre/pkg/config"
)

const (
	maxPageBytes     = 4 << 20
	defaultUserAgent = "importspectre"
)

// OverrideStore is the persisted package-name to advisory-name mapping.
type OverrideStore interface {
	Lookup(packageName string) (string, bool, error)
	Upsert(packageName, snykName string) error
}

// HTTPStatusError is returned for non-2xx advisory responses
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

// Client resolves package health data. It is meant to be driven from a single goroutine.
type Client struct {
	baseURL   string
	timeout   time.Duration
	userAgent string
	http      *http.Client
	overrides OverrideStore
	cache     *Cache
	limiter   *RateLimiter
	notFound  []models.NotFoundEntry
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates an enrichment client. store may be nil, in which case no overrides are used or saved.
func NewClient(cfg *config.Config, store OverrideStore, opts ...Option) *Client {
	c := &Client{
		baseURL:   cfg.AdvisorURL,
		timeout:   cfg.RequestTimeout,
		userAgent: defaultUserAgent,
		http:      &http.Client{},
		overrides: store,
		cache:     NewCache(),
		limiter:   NewRateLimiter(cfg.RateLimit, cfg.MinDelay, cfg.MaxDelay),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns health data for a third-party package.
// A package the advisory site does not know yields (nil, nil) and is added to the not-found list.
// Errors are reserved for override store failures and context cancellation.
func (c *Client) Lookup(ctx context.Context, packageName string) (*models.HealthInfo, error) {
	lookupName := packageName
	if c.overrides != nil {
		override, found, err := c.overrides.Lookup(packageName)
		if err != nil {
			return nil, err
		}
		if found && override != "" {
			lookupName = override
		}
	}

	if entry, ok := c.cache.Get(lookupName); ok {
		slog.Debug("advisory cache hit", slog.String("package", packageName), slog.String("lookup", lookupName))
		return entry.Info, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	primaryURL := c.urlFor(lookupName)
	swapped := SwapSeparators(packageName)

	resolvedName := lookupName
	usedSwapped := false
	info, err := c.fetch(ctx, primaryURL)
	if err != nil && ctx.Err() == nil && swapped != lookupName {
		slog.Debug("advisory lookup failed, trying swapped name",
			slog.String("package", lookupName),
			slog.String("swapped", swapped),
			slog.String("error", err.Error()),
		)
		resolvedName = swapped
		usedSwapped = true
		info, err = c.fetch(ctx, c.urlFor(swapped))
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		slog.Warn("advisory lookup failed",
			slog.String("package", packageName),
			slog.String("url", primaryURL),
			slog.String("error", err.Error()),
		)
		c.notFound = append(c.notFound, models.NotFoundEntry{Name: packageName, URL: primaryURL})
		c.cache.Set(lookupName, nil)
		return nil, nil
	}

	c.cache.Set(resolvedName, info)

	if usedSwapped && c.overrides != nil {
		if err := c.overrides.Upsert(packageName, swapped); err != nil {
			return nil, err
		}
		slog.Info("updated name override", slog.String("package", packageName), slog.String("snyk_name", swapped))
	}

	return info, nil
}

// NotFound returns the packages that could not be resolved so far, in lookup order.
func (c *Client) NotFound() []models.NotFoundEntry {
	out := make([]models.NotFoundEntry, len(c.notFound))
	copy(out, c.notFound)
	return out
}

// CacheSize returns the number of cached lookups.
func (c *Client) CacheSize() int {
	return c.cache.Size()
}

func (c *Client) urlFor(name string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + url.PathEscape(name)
}

func (c *Client) fetch(ctx context.Context, target string) (*models.HealthInfo, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBytes))
		return nil, &HTTPStatusError{URL: target, StatusCode: resp.StatusCode}
	}

	return ParseAdvisoryPage(io.LimitReader(resp.Body, maxPageBytes))
}

// SwapSeparators swaps underscores for hyphens, or hyphens for underscores when there are none.
func SwapSeparators(name string) string {
	if strings.Contains(name, "_") {
		return strings.ReplaceAll(name, "_", "-")
	}
	return strings.ReplaceAll(name, "-", "_")
}
