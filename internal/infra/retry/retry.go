package retry

// Bounded retries for idempotent GETs. Only throttling and gateway-type
// statuses are retried; MaxRetries 0 means a single attempt.

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Options struct {
	MaxRetries int
	BaseDelay  time.Duration // first backoff ceiling, doubled per attempt
	MaxDelay   time.Duration // 0 = uncapped
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       []byte
	RetryAfter time.Duration // from a delta-seconds Retry-After header
}

func (e *HTTPError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("http status %d: %s", e.StatusCode, body)
}

// IsRetryable reports whether err is an HTTPError with 429, 500, 502, 503 or 504.
func IsRetryable(err error) bool {
	var he *HTTPError
	if !errors.As(err, &he) {
		return false
	}
	switch he.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ParseRetryAfter reads the delta-seconds form of Retry-After; anything else is 0.
func ParseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// delay is the wait before retry number attempt+1: the server's Retry-After
// when given, otherwise a random value up to BaseDelay<<attempt. Both are capped by MaxDelay.
func (o Options) delay(attempt int, err error) time.Duration {
	var d time.Duration
	var he *HTTPError
	if errors.As(err, &he) && he.RetryAfter > 0 {
		d = he.RetryAfter
	} else {
		ceiling := o.BaseDelay << min(attempt, 30)
		if o.MaxDelay > 0 && ceiling > o.MaxDelay {
			ceiling = o.MaxDelay
		}
		if ceiling <= 0 {
			ceiling = o.BaseDelay
		}
		d = time.Duration(rand.Int63n(int64(ceiling) + 1))
	}
	if o.MaxDelay > 0 && d > o.MaxDelay {
		d = o.MaxDelay
	}
	return d
}

// Do calls fn until it succeeds, returns a non-retryable error, the retries
// run out or ctx is done.
func Do(ctx context.Context, opts Options, fn func() error) error {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 300 * time.Millisecond
	}
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= opts.MaxRetries {
			return err
		}

		t := time.NewTimer(opts.delay(attempt, err))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
