package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SingleAttemptByDefault(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Options{}, func() error {
		calls++
		return &HTTPError{StatusCode: 503}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesRetryableStatus(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Options{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return &HTTPError{StatusCode: 502}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_DoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Options{MaxRetries: 3, BaseDelay: time.Millisecond}, func() error {
		calls++
		return &HTTPError{StatusCode: 404}
	})

	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, 404, he.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, Options{}, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, ParseRetryAfter(" 3 "))
	assert.Equal(t, time.Duration(0), ParseRetryAfter(""))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("-1"))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestDelay_BoundedByMaxDelay(t *testing.T) {
	opts := Options{BaseDelay: 10 * time.Millisecond, MaxDelay: 40 * time.Millisecond}
	for attempt := 0; attempt < 6; attempt++ {
		d := opts.delay(attempt, &HTTPError{StatusCode: 503})
		assert.LessOrEqual(t, d, 40*time.Millisecond)
		assert.GreaterOrEqual(t, d, time.Duration(0))
	}

	assert.Equal(t, 40*time.Millisecond, opts.delay(0, &HTTPError{StatusCode: 429, RetryAfter: time.Minute}))
	assert.Equal(t, 20*time.Millisecond, opts.delay(0, &HTTPError{StatusCode: 429, RetryAfter: 20 * time.Millisecond}))
}

func TestHTTPError_TruncatesBody(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}

	assert.Equal(t, "http status 502", (&HTTPError{StatusCode: 502}).Error())
	assert.Len(t, (&HTTPError{StatusCode: 500, Body: long}).Error(), len("http status 500: ")+203)
}
