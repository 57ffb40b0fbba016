package mms

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"
)

// DefaultTimeout bounds a single archive download.
const DefaultTimeout = 2 * time.Minute

// DefaultUserAgent identifies the client to NEMweb.
const DefaultUserAgent = "nemcon"

// Source resolves (period, table) to a normalised table.
type Source interface {
	FetchTable(ctx context.Context, p Period, table string) (*Table, error)
}

// FetcherConfig holds Fetcher options.
type FetcherConfig struct {
	// BaseURL is the archive root (defaults to DefaultBaseURL)
	BaseURL string
	// Timeout applies when HTTPClient is nil
	Timeout time.Duration
	// UserAgent is sent with every request
	UserAgent string
	// HTTPClient overrides the default client (optional)
	HTTPClient *http.Client
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Fetcher downloads monthly archives over HTTP. It holds no state between
// calls; every FetchTable performs a fresh download.
type Fetcher struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	return &Fetcher{
		baseURL:    baseURL,
		userAgent:  ua,
		httpClient: client,
		logger:     logger,
	}
}

// FetchTable downloads and normalises one table. A missing archive yields
// an error matching ErrArchiveNotFound; any other failure matches
// ErrTransient. Failures are not retried.
func (f *Fetcher) FetchTable(ctx context.Context, p Period, table string) (*Table, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	url := ArchiveURL(f.baseURL, p, table)
	fail := func(err error) error {
		return &ArchiveError{Period: p, Table: table, URL: url, Err: err}
	}

	f.logger.Debug("fetching archive", "table", table, "period", p.String(), "url", url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fail(fmt.Errorf("%w: failed to create request: %w", ErrTransient, err))
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fail(fmt.Errorf("%w: %w", ErrTransient, err))
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fail(ErrArchiveNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fail(fmt.Errorf("%w: unexpected status %d", ErrTransient, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail(fmt.Errorf("%w: failed to read response: %w", ErrTransient, err))
	}

	raw, err := extractCSV(body)
	if err != nil {
		return nil, fail(fmt.Errorf("%w: %w", ErrTransient, err))
	}

	t, err := parseArchiveText(table, raw)
	if err != nil {
		return nil, fail(fmt.Errorf("%w: %w", ErrTransient, err))
	}

	f.logger.Debug("fetched archive",
		"table", table,
		"period", p.String(),
		"rows", t.Len(),
		"bytes", len(body),
		"elapsed", time.Since(start).Round(time.Millisecond))

	return t, nil
}

// extractCSV returns the first CSV member of a zip archive.
func extractCSV(body []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}

	for _, zf := range zr.File {
		if !strings.EqualFold(path.Ext(zf.Name), ".csv") {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", zf.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", zf.Name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("zip contains no CSV file")
}
