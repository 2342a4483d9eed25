// Package vlr is a client for the vlr.orlandomm.net VALORANT esports API.
//
// Every call goes through the same pipeline: cache lookup, then a throttled
// GET on a miss, then the response is cached. Responses come back as raw
// JSON; GrowthStory reshapes a player record for display.
package vlr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/ben-agnew/vlr-growth-story/libs/cache"
)

const (
	DefaultBaseURL = "https://vlr.orlandomm.net/api/v1"
	DefaultLimit   = 100

	defaultBreakerThreshold = 5
	defaultBreakerTimeout   = 30 * time.Second
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	cache      *cache.Cache
	maxAge     time.Duration
	throttle   *Throttler
	timeout    time.Duration
	breaker    *gobreaker.CircuitBreaker
	logger     log.FieldLogger
	now        func() time.Time
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets a timeout on the client's own copy of the HTTP client.
// There is none by default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithCache enables response caching. A nil cache disables it.
func WithCache(responseCache *cache.Cache) Option {
	return func(c *Client) {
		c.cache = responseCache
	}
}

// WithMaxAge sets the default freshness threshold for cached responses.
func WithMaxAge(maxAge time.Duration) Option {
	return func(c *Client) {
		c.maxAge = maxAge
	}
}

func WithRequestDelay(delay time.Duration) Option {
	return func(c *Client) {
		c.throttle = NewThrottler(delay)
	}
}

func WithThrottler(throttle *Throttler) Option {
	return func(c *Client) {
		c.throttle = throttle
	}
}

// WithBreaker trips the circuit after threshold consecutive transport or 5xx
// failures and keeps it open for timeout. A threshold <= 0 disables it.
func WithBreaker(threshold int, timeout time.Duration) Option {
	return func(c *Client) {
		if threshold <= 0 {
			c.breaker = nil
			return
		}
		c.breaker = c.newBreaker(threshold, timeout)
	}
}

func WithLogger(logger log.FieldLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		userAgent:  "vlr-growth-story",
		maxAge:     cache.DefaultMaxAge,
		throttle:   NewThrottler(DefaultRequestDelay),
		logger:     log.StandardLogger(),
		now:        time.Now,
	}
	c.breaker = c.newBreaker(defaultBreakerThreshold, defaultBreakerTimeout)

	for _, opt := range opts {
		opt(c)
	}

	if c.timeout > 0 {
		httpClient := *c.httpClient
		httpClient.Timeout = c.timeout
		c.httpClient = &httpClient
	}

	return c
}

func (c *Client) newBreaker(threshold int, timeout time.Duration) *gobreaker.CircuitBreaker {
	if timeout <= 0 {
		timeout = defaultBreakerTimeout
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "vlr-api",
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			c.logger.WithFields(log.Fields{
				"event": "circuit_breaker",
				"name":  name,
				"from":  from.String(),
				"to":    to.String(),
			}).Warn("circuit breaker state changed")
		},
	})
}

type callOptions struct {
	useCache bool
	maxAge   time.Duration
}

type CallOption func(*callOptions)

// UseCache controls whether a single call reads and writes the cache.
func UseCache(use bool) CallOption {
	return func(o *callOptions) {
		o.useCache = use
	}
}

// MaxAge overrides the freshness threshold for a single call.
func MaxAge(maxAge time.Duration) CallOption {
	return func(o *callOptions) {
		o.maxAge = maxAge
	}
}

// Get returns the response for endpoint, serving it from the cache when a
// fresh entry exists.
func (c *Client) Get(ctx context.Context, endpoint string, params Params, opts ...CallOption) (json.RawMessage, error) {
	o := callOptions{useCache: true, maxAge: c.maxAge}
	for _, opt := range opts {
		opt(&o)
	}
	caching := o.useCache && c.cache != nil
	key := CacheKey(endpoint, params)

	if caching {
		if data, ok := c.cache.Get(key, o.maxAge); ok {
			c.logger.WithField("event", "cache_hit").WithField("key", key).Debug("serving cached response")
			return data, nil
		}
	}

	data, err := c.fetch(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	if caching && hasData(data) {
		if err := c.cache.Put(key, data); err != nil {
			c.logger.WithField("event", "cache_write").WithField("key", key).Error(err)
		}
	}

	return data, nil
}

type response struct {
	status int
	body   []byte
}

func (c *Client) fetch(ctx context.Context, endpoint string, params Params) (json.RawMessage, error) {
	entry := c.logger.WithField("event", "api_request").WithField("endpoint", endpoint)

	if c.breaker != nil && c.breaker.State() == gobreaker.StateOpen {
		entry.Warn(ErrCircuitOpen)
		return nil, ErrCircuitOpen
	}

	if err := c.throttle.Wait(ctx); err != nil {
		entry.Error(err)
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	defer c.throttle.Release()

	reqURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var (
		res *response
		err error
	)
	if c.breaker != nil {
		// A cancelled caller is not an upstream failure.
		var cancelled error
		var out interface{}
		out, err = c.breaker.Execute(func() (interface{}, error) {
			res, err := c.dispatch(ctx, endpoint, reqURL)
			if err != nil && ctx.Err() != nil {
				cancelled = err
				return res, nil
			}
			return res, err
		})
		if out != nil {
			res = out.(*response)
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			entry.Warn(err)
			return nil, ErrCircuitOpen
		}
		if cancelled != nil {
			err = cancelled
		}
	} else {
		res, err = c.dispatch(ctx, endpoint, reqURL)
	}

	if err == nil {
		err = classify(endpoint, res)
	}
	if err != nil {
		entry.Error(err)
		return nil, err
	}

	if !json.Valid(res.body) {
		err := &DecodeError{Endpoint: endpoint, Err: errors.New("response is not valid JSON")}
		entry.Error(err)
		return nil, err
	}

	entry.WithField("status", res.status).Debug("fetched")
	return json.RawMessage(res.body), nil
}

// dispatch sends one GET. Only transport errors and 5xx responses are
// reported as errors so that 4xx answers do not trip the breaker.
func (c *Client) dispatch(ctx context.Context, endpoint, reqURL string) (*response, error) {
	defer c.throttle.Done()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	out := &response{status: res.StatusCode, body: body}
	if res.StatusCode >= 500 {
		return out, &StatusError{Endpoint: endpoint, StatusCode: res.StatusCode}
	}
	return out, nil
}

func classify(endpoint string, res *response) error {
	switch {
	case res.status == http.StatusNotFound:
		return &NotFoundError{Endpoint: endpoint}
	case res.status < 200 || res.status > 299:
		return &StatusError{Endpoint: endpoint, StatusCode: res.status}
	}
	return nil
}

func hasData(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
