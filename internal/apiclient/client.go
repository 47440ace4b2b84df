package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/appcore-go/internal/storage"
	"github.com/yndnr/appcore-go/internal/telemetry/logger"
)

// TokenKey is the storage key holding the bearer token.
const TokenKey = "auth.token"

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// ErrEmptyBaseURL is returned by New when no base URL is configured.
var ErrEmptyBaseURL = errors.New("apiclient: base URL is required")

// Recorder receives one call per completed request.
type Recorder interface {
	RecordAPIRequest(method, status string, seconds float64)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTLSConfig sets the TLS client configuration, for example to trust a
// private CA. A nil config keeps the defaults.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		if cfg == nil {
			return
		}
		c.http.Transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			TLSClientConfig:     cfg,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRecorder reports request outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// Client talks JSON to the backend API.
type Client struct {
	baseURL   string
	store     storage.Storage
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	recorder  Recorder
}

// Factory builds the client during bootstrap.
type Factory func(store storage.Storage, baseURL string) (*Client, error)

// New creates a client. A base URL without a scheme gets http://.
func New(store storage.Storage, baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		store:     store,
		http:      &http.Client{Timeout: DefaultTimeout},
		limiter:   rate.NewLimiter(rate.Limit(10), 20),
		userAgent: "appcore/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken stores the bearer token used by later requests.
func (c *Client) SetToken(token string) error {
	return c.store.SetString(TokenKey, token)
}

// ClearToken removes the stored bearer token.
func (c *Client) ClearToken() error {
	return c.store.Delete(TokenKey)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := logger.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = ulid.Make().String()
	}
	c.addHeaders(req, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	elapsed := time.Since(start)
	if c.recorder != nil {
		c.recorder.RecordAPIRequest(method, status, elapsed.Seconds())
	}
	logger.L(logger.WithRequestID(ctx, requestID)).Debug("api request",
		"method", method,
		"path", path,
		"status", status,
		"elapsed", elapsed)
	return resp, err
}

// addHeaders sets the standard headers. The request ID comes from the
// context when the caller set one.
func (c *Client) addHeaders(req *http.Request, requestID string) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token, ok := c.store.GetString(TokenKey); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// ParseResponse decodes a JSON response into target and closes the body.
// Responses with status >= 400 become *APIError.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
