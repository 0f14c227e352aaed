// Package blogapi is the HTTP client for the blog backend: the paged post
// feed consumed by the feed controller, plus the post, social and AI
// endpoints used around it.
package blogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Sternrassler/blogfeed/pkg/logging"
	"github.com/Sternrassler/blogfeed/pkg/respcache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// maxErrorBody bounds how much of an error response ends up in APIError.Message.
const maxErrorBody = 512

// Client talks to the blog API.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cache      *respcache.Manager
	config     Config
	logger     zerolog.Logger

	mu       sync.RWMutex
	viewerID string
	token    string
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the backend, e.g. "https://blog.example.com".
	BaseURL string

	// ViewerID personalizes the feed. Set by SignIn when empty.
	ViewerID string

	// Token is the session JWT sent as Authorization. Set by SignIn when empty.
	Token string

	UserAgent string
	Timeout   time.Duration
	Retry     RetryConfig

	// Redis enables conditional revalidation of GET responses. Optional.
	Redis *redis.Client
}

// DefaultConfig returns a configuration without response cache and without retries.
func DefaultConfig(baseURL, viewerID string) Config {
	return Config{
		BaseURL:   baseURL,
		ViewerID:  viewerID,
		UserAgent: "blogfeed/0.1.0",
		Timeout:   30 * time.Second,
		Retry:     DefaultRetryConfig(),
	}
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("retry max_attempts must be >= 1 (got %d)", cfg.Retry.MaxAttempts)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		config:     cfg,
		logger:     logging.NewLogger("blogapi"),
		viewerID:   cfg.ViewerID,
		token:      cfg.Token,
	}
	if cfg.Redis != nil {
		c.cache = respcache.NewManager(cfg.Redis)
	}

	return c, nil
}

// SetHTTPClient replaces the underlying HTTP client (for testing).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// SetSession sets the viewer and token used by subsequent calls.
func (c *Client) SetSession(viewerID, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewerID = viewerID
	c.token = token
}

// Viewer returns the current viewer id.
func (c *Client) Viewer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewerID
}

func (c *Client) sessionToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// newRequest builds a request against the base URL. The session token is
// attached whenever one is known.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.sessionToken(); token != "" {
		req.Header.Set("Authorization", token)
	}
	return req, nil
}

// Do executes req with optional revalidation and retries. route is the
// metrics label for the endpoint. 4xx responses are returned to the caller;
// 5xx and transport errors are retried per Config.Retry.
func (c *Client) Do(req *http.Request, route string) (*http.Response, error) {
	ctx := req.Context()

	start := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}()

	var cacheKey respcache.Key
	var cached *respcache.Entry
	useCache := c.cache != nil && req.Method == http.MethodGet
	if useCache {
		cacheKey = respcache.KeyFromURL(req.URL, c.Viewer())
		entry, err := c.cache.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, respcache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("route", route).Msg("Cache get error")
		}
		if respcache.ShouldRevalidate(entry) {
			cached = entry
			respcache.AddConditionalHeaders(req, cached)
			respcache.ConditionalRequests.Inc()
		}
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	c.logger.Debug().
		Str("route", route).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("Executing blog API request")

	var resp *http.Response
	retryErr := retryWithBackoff(ctx, c.config.Retry, c.logger, func() (ErrorClass, error) {
		if req.GetBody != nil && req.Body != nil {
			body, err := req.GetBody()
			if err != nil {
				return "", fmt.Errorf("reset request body: %w", err)
			}
			req.Body = body
		}

		var err error
		resp, err = c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn().Err(err).Str("route", route).Msg("HTTP request failed")
			apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			apiRequestsTotal.WithLabelValues(route, "network_error").Inc()
			return ErrorClassNetwork, &APIError{Class: ErrorClassNetwork, Message: "request failed", Err: err}
		}

		apiRequestsTotal.WithLabelValues(route, strconv.Itoa(resp.StatusCode)).Inc()

		class := classifyStatus(resp.StatusCode)
		if class == "" {
			return "", nil
		}

		apiErrorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Str("route", route).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Blog API request error")

		if !shouldRetry(class) {
			return "", nil
		}

		apiErr := &APIError{StatusCode: resp.StatusCode, Class: class, Message: readErrorMessage(resp)}
		resp.Body.Close()
		resp = nil
		return class, apiErr
	})
	if retryErr != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, retryErr
	}

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		resp.Body.Close()
		respcache.NotModified.Inc()
		if err := c.cache.Touch(ctx, cacheKey, time.Now().Add(respcache.DefaultTTL)); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to extend cache entry")
		}
		c.logger.Debug().Str("route", route).Msg("304 Not Modified - using cached body")
		return respcache.EntryToResponse(cached), nil
	}

	if useCache && resp.StatusCode == http.StatusOK {
		entry, err := respcache.ResponseToEntry(resp)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to create cache entry")
		} else if respcache.ShouldRevalidate(entry) {
			if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to cache response")
			}
		}
	}

	return resp, nil
}

// doJSON executes req and decodes a JSON body into out (nil skips decoding).
func (c *Client) doJSON(req *http.Request, route string, out any) error {
	resp, err := c.Do(req, route)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if class := classifyStatus(resp.StatusCode); class != "" {
		return &APIError{StatusCode: resp.StatusCode, Class: class, Message: readErrorMessage(resp)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s response: %w", route, err)
	}
	return nil
}

// getJSON is a GET with JSON decoding.
func (c *Client) getJSON(ctx context.Context, route, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return err
	}
	return c.doJSON(req, route, out)
}

// sendJSON encodes in as the request body.
func (c *Client) sendJSON(ctx context.Context, method, route, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", route, err)
	}
	req, err := c.newRequest(ctx, method, path, nil, strings.NewReader(string(payload)), "application/json")
	if err != nil {
		return err
	}
	return c.doJSON(req, route, out)
}

func (c *Client) requireSession() error {
	if c.sessionToken() == "" {
		return ErrNotSignedIn
	}
	return nil
}

func readErrorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return resp.Status
	}
	return msg
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
