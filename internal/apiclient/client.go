// Package apiclient is the shared HTTP client for the HotelFlow housekeeping
// API. One Client is created per process; its Authorization header is
// mutated only by the session manager.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	apperrors "github.com/JotaC95/HotelApp/internal/errors"
	"github.com/JotaC95/HotelApp/internal/observability/metrics"
	"github.com/JotaC95/HotelApp/internal/observability/statsd"
)

const (
	// HousekeepingPrefix is appended to the configured base URL when missing.
	HousekeepingPrefix = "/api/housekeeping"
	// DefaultTimeout bounds each request.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent identifies this client to the API.
	DefaultUserAgent = "hotelflow-cli"

	headerRequestID = "X-Request-ID"
	maxBodyBytes    = 4 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger
	Metrics   statsd.Sink
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// Request describes one API call. Path is relative to the housekeeping base
// unless FromOrigin is set, in which case it is resolved against the host.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        io.Reader
	ContentType string
	// Probe marks credential validation requests. Interceptors see the flag
	// and may choose to ignore them.
	Probe      bool
	FromOrigin bool
}

// Response is a fully read API response.
type Response struct {
	Status    int
	Header    http.Header
	Body      []byte
	RequestID string
}

// ResponseEvent is delivered to interceptors for every response received.
// Authorization is the header value the request was sent with; it must not
// be logged.
type ResponseEvent struct {
	Method        string
	Path          string
	Status        int
	Probe         bool
	RequestID     string
	Authorization string
}

// Interceptor observes responses. It runs on the caller's goroutine before
// Do returns, so it should be quick.
type Interceptor func(ResponseEvent)

type probeKey struct{}

// WithProbe marks every request issued under ctx as a probe. Identity lookups
// run under it so a rejected lookup does not revoke the session.
func WithProbe(ctx context.Context) context.Context {
	return context.WithValue(ctx, probeKey{}, true)
}

// IsProbe reports whether ctx was marked with WithProbe.
func IsProbe(ctx context.Context) bool {
	v, _ := ctx.Value(probeKey{}).(bool)
	return v
}

// Client is the shared API client context.
type Client struct {
	baseURL   string
	origin    string
	userAgent string
	hc        *http.Client
	jar       *resettableJar
	logger    *slog.Logger
	metrics   statsd.Sink

	mu            sync.RWMutex
	authorization string
	interceptors  []registration
	nextID        uint64
}

type registration struct {
	id uint64
	fn Interceptor
}

// NormalizeBaseURL strips trailing slashes and appends /api/housekeeping once.
func NormalizeBaseURL(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if strings.HasSuffix(trimmed, HousekeepingPrefix) {
		return trimmed
	}
	return trimmed + HousekeepingPrefix
}

// New constructs a Client. BaseURL must be an absolute http(s) URL.
func New(cfg Config) (*Client, error) {
	base := NormalizeBaseURL(cfg.BaseURL)
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("invalid base url: missing host")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = DefaultUserAgent
	}

	jar, err := newResettableJar()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	hc := &http.Client{Timeout: timeout, Jar: jar}
	if cfg.Transport != nil {
		hc.Transport = cfg.Transport
	}

	return &Client{
		baseURL:   base,
		origin:    u.Scheme + "://" + u.Host,
		userAgent: ua,
		hc:        hc,
		jar:       jar,
		logger:    logger.With("component", "apiclient"),
		metrics:   cfg.Metrics,
	}, nil
}

// BaseURL returns the normalized housekeeping base.
func (c *Client) BaseURL() string { return c.baseURL }

// SetAuthorization installs the Authorization header value; "" removes it.
// Cookies are dropped whenever the value changes.
func (c *Client) SetAuthorization(value string) {
	c.mu.Lock()
	changed := c.authorization != value
	c.authorization = value
	c.mu.Unlock()
	if changed {
		c.jar.Reset()
	}
}

// Authorization returns the current header value.
func (c *Client) Authorization() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authorization
}

// AddInterceptor registers fn and returns a function that removes it.
// Removing twice is a no-op.
func (c *Client) AddInterceptor(fn Interceptor) (remove func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.interceptors = append(c.interceptors, registration{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.interceptors = slices.DeleteFunc(c.interceptors, func(r registration) bool { return r.id == id })
		})
	}
}

func (c *Client) snapshotInterceptors() []Interceptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Interceptor, 0, len(c.interceptors))
	for _, r := range c.interceptors {
		out = append(out, r.fn)
	}
	return out
}

// Do executes req. Non-2xx responses and transport failures are returned as
// *errors.AppError; the Response is still returned when one was received.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.resolve(req)

	httpReq, err := http.NewRequestWithContext(ctx, method, target, req.Body)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "build %s %s", method, req.Path)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(headerRequestID, requestID)
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	auth := c.Authorization()
	if auth != "" {
		httpReq.Header.Set("Authorization", auth)
	}

	start := time.Now()
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		elapsed := time.Since(start)
		metrics.EmitRequest(c.metrics, method, 0, elapsed)
		c.logger.Debug("api request failed",
			"method", method, "path", req.Path, "request_id", requestID,
			"duration", elapsed, "error", err)
		return nil, apperrors.FromTransport(method, req.Path, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	metrics.EmitRequest(c.metrics, method, resp.StatusCode, elapsed)
	c.logger.Debug("api request",
		"method", method, "path", req.Path, "status", resp.StatusCode,
		"request_id", requestID, "duration", elapsed)

	out := &Response{Status: resp.StatusCode, Header: resp.Header, Body: body, RequestID: requestID}

	event := ResponseEvent{
		Method:        method,
		Path:          req.Path,
		Status:        resp.StatusCode,
		Probe:         req.Probe || IsProbe(ctx),
		RequestID:     requestID,
		Authorization: auth,
	}
	for _, fn := range c.snapshotInterceptors() {
		fn(event)
	}

	if appErr := apperrors.FromStatus(method, req.Path, resp.StatusCode, body); appErr != nil {
		return out, appErr
	}
	if readErr != nil {
		return out, apperrors.FromTransport(method, req.Path, readErr)
	}
	return out, nil
}

// Probe issues an authenticated GET that is flagged as a credential check.
func (c *Client) Probe(ctx context.Context, path string) error {
	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Probe: true})
	return err
}

func (c *Client) resolve(req Request) string {
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	base := c.baseURL
	if req.FromOrigin {
		base = c.origin
	}
	target := base + path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	return target
}

// resettableJar is a cookie jar that can be emptied while requests are in flight.
type resettableJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newResettableJar() (*resettableJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &resettableJar{jar: jar}, nil
}

func (j *resettableJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	jar := j.jar
	j.mu.RUnlock()
	jar.SetCookies(u, cookies)
}

func (j *resettableJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	jar := j.jar
	j.mu.RUnlock()
	return jar.Cookies(u)
}

// Reset replaces the jar with an empty one.
func (j *resettableJar) Reset() {
	fresh, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return
	}
	j.mu.Lock()
	j.jar = fresh
	j.mu.Unlock()
}

// bytesBody returns a reader for b, or nil when b is empty.
func bytesBody(b []byte) io.Reader {
	if len(b) == 0 {
		return nil
	}
	return bytes.NewReader(b)
}
