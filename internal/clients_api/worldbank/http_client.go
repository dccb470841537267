package worldbank

// Package worldbank contains the client for the World Bank indicator API (v2).
// This file is the transport layer: it builds the indicator URL, sends GET requests
// through a rate limiter and circuit breaker, and returns raw response bodies.

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"co2-emissions/internal/infra/config"
	"co2-emissions/internal/infra/log"
	"co2-emissions/internal/infra/retry"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrResponseTooLarge - the body exceeded worldbank.max_response_size
var ErrResponseTooLarge = errors.New("response too large")

// Client sends indicator requests for one configured indicator and date range.
type Client struct {
	baseURL         string
	country         string
	indicator       string
	dateRange       string
	perPage         int
	httpClient      *http.Client
	rateLimiter     *rate.Limiter
	circuitBreaker  *gobreaker.CircuitBreaker
	retry           retry.Options
	maxResponseSize int64
}

// NewClient builds a client from the worldbank config section.
func NewClient(cfg config.WorldBankConfig) *Client {
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 5
	}
	maxSize := cfg.MaxResponseSize
	if maxSize <= 0 {
		maxSize = 10 * 1024 * 1024
	}

	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "WorldBankAPI",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.LogWarn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		country:         cfg.Country,
		indicator:       cfg.Indicator,
		dateRange:       cfg.DateRange(),
		perPage:         cfg.PerPage,
		rateLimiter:     rate.NewLimiter(rate.Limit(rps), 1),
		circuitBreaker:  circuitBreaker,
		retry:           retry.Options{MaxRetries: cfg.MaxRetries, BaseDelay: 300 * time.Millisecond, MaxDelay: 5 * time.Second},
		maxResponseSize: maxSize,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// SetHTTPClient replaces the underlying http.Client (tests use custom transports).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// IndicatorURL returns the full request URL for page.
func (c *Client) IndicatorURL(page int) string {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("date", c.dateRange)
	params.Set("per_page", strconv.Itoa(c.perPage))
	params.Set("page", strconv.Itoa(page))

	country := c.country
	if country == "" {
		country = "all"
	}
	return fmt.Sprintf("%s/country/%s/indicator/%s?%s",
		c.baseURL, url.PathEscape(country), url.PathEscape(c.indicator), params.Encode())
}

// GetIndicatorPage fetches one page of observations and returns the raw body.
func (c *Client) GetIndicatorPage(ctx context.Context, page int) ([]byte, error) {
	requestID := newRequestID()
	endpoint := c.IndicatorURL(page)
	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	var body []byte
	err := retry.Do(ctx, c.retry, func() error {
		result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.get(ctx, requestID, endpoint, start)
		})
		if err != nil {
			return err
		}
		body = result.([]byte)
		return nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.LogWarn("Circuit breaker rejected request", zap.String("request_id", requestID), zap.Error(err))
		}
		return nil, fmt.Errorf("failed to get indicator page %d: %w", page, err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, requestID, endpoint string, start time.Time) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "co2-emissions/1.0")

	log.LogRequest(requestID, http.MethodGet, endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.LogResponse(requestID, 0, time.Since(start).Milliseconds(), zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	// one byte over the limit tells a full body from a truncated one
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		log.LogResponse(requestID, resp.StatusCode, time.Since(start).Milliseconds(), zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxResponseSize {
		log.LogResponse(requestID, resp.StatusCode, time.Since(start).Milliseconds(), zap.String("endpoint", endpoint), zap.Int64("limit", c.maxResponseSize))
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, c.maxResponseSize)
	}

	log.LogResponse(requestID, resp.StatusCode, time.Since(start).Milliseconds(), zap.String("endpoint", endpoint), zap.Int("bytes", len(body)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       body,
			RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return body, nil
}

func newRequestID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
