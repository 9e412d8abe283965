package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/docpipe"
)

// fetchFunc is the signature for a single fetch attempt.
type fetchFunc func(ctx context.Context, url string) (*docpipe.FetchResult, error)

// DefaultRetryDelays returns the backoff delays between fetch attempts:
// 250ms after each failure, two extra attempts after the first.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}
}

// fetchWithRetry attempts a fetch with bounded retries. The number of extra
// attempts equals len(delays); the last error is returned once all attempts
// are exhausted.
func fetchWithRetry(ctx context.Context, url string, fetch fetchFunc, delays []time.Duration) (*docpipe.FetchResult, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := fetch(ctx, url)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Don't sleep after the last attempt.
		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
