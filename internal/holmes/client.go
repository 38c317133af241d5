package holmes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/userTI10/Dashboard-admissao/internal/config"
	"github.com/userTI10/Dashboard-admissao/internal/logger"
)

// Transport defaults for the outbound client.
const (
	defaultTimeout               = 30 * time.Second
	defaultMaxIdleConnsPerHost   = 4
	defaultIdleConnTimeout       = 90 * time.Second
	defaultTLSHandshakeTimeout   = 10 * time.Second
	defaultResponseHeaderTimeout = 30 * time.Second
)

// Client issues search requests against the Holmes API. One call is one POST;
// failures are returned, never retried.
type Client struct {
	url        string
	builder    *QueryBuilder
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a search client from the Holmes configuration.
func NewClient(cfg *config.HolmesConfig, log logger.Logger) *Client {
	return &Client{
		url:        cfg.URL,
		builder:    NewQueryBuilder(cfg),
		httpClient: newHTTPClient(cfg.Timeout),
		logger:     log,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
			IdleConnTimeout:       defaultIdleConnTimeout,
			TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
			ResponseHeaderTimeout: defaultResponseHeaderTimeout,
		},
	}
}

// Search fetches one page of documents with the given status. pageNumber is
// 1-based. Every failure is a *SearchRequestFailed.
func (c *Client) Search(ctx context.Context, status Status, pageNumber int) ([]RawDocument, error) {
	start := time.Now()
	page := c.builder.PageQuery(status, pageNumber)

	c.logger.Debug("Searching processes",
		logger.String("status", string(status)),
		logger.Int("offset", page.Offset),
		logger.Int("size", page.Size),
	)

	docs, err := c.search(ctx, status, pageNumber)
	if err != nil {
		c.logger.Error("Process search failed",
			logger.String("status", string(status)),
			logger.Int("page", pageNumber),
			logger.Error(err),
		)
		return nil, err
	}

	c.logger.Info("Process search completed",
		logger.String("status", string(status)),
		logger.Int("page", pageNumber),
		logger.Int("documents", len(docs)),
		logger.Duration("duration", time.Since(start)),
	)
	return docs, nil
}

func (c *Client) search(ctx context.Context, status Status, pageNumber int) ([]RawDocument, error) {
	fail := func(code int, err error) error {
		return &SearchRequestFailed{StatusCategory: status, StatusCode: code, Message: err.Error(), Err: err}
	}

	body, err := json.Marshal(c.builder.Build(status, pageNumber))
	if err != nil {
		return nil, fail(0, fmt.Errorf("encode search request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fail(0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fail(0, fmt.Errorf("send request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		httpErr := parseHTTPError(resp)
		return nil, &SearchRequestFailed{
			StatusCategory: status,
			StatusCode:     resp.StatusCode,
			Message:        httpErr.Message,
			Err:            httpErr,
		}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var parsed searchResponse
	if decodeErr := dec.Decode(&parsed); decodeErr != nil {
		return nil, fail(resp.StatusCode, fmt.Errorf("decode search response: %w", decodeErr))
	}
	if parsed.Docs == nil {
		parsed.Docs = []RawDocument{}
	}
	return parsed.Docs, nil
}

// IsSearchRequestFailed reports whether err carries a *SearchRequestFailed and
// returns it.
func IsSearchRequestFailed(err error) (*SearchRequestFailed, bool) {
	var failed *SearchRequestFailed
	if errors.As(err, &failed) {
		return failed, true
	}
	return nil, false
}
