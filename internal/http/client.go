package http

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/anchore/go-logger"
)

// RetryPolicy describes how many times a request is retried and how long to wait between attempts. The wait is
// the same for every attempt (there is no backoff).
type RetryPolicy struct {
	Max   int
	Delay time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Max:   5,
		Delay: 2 * time.Second,
	}
}

// NewClient creates a retryable HTTP client that retries connection failures (and server errors) up to the
// policy's max number of times, waiting a fixed delay between attempts. A nil logger silences the client.
func NewClient(policy RetryPolicy, lgr logger.Logger) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = policy.Max
	if client.RetryMax < 0 {
		client.RetryMax = 0
	}
	client.RetryWaitMin = policy.Delay
	client.RetryWaitMax = policy.Delay
	client.Backoff = fixedDelay(policy.Delay)

	client.Logger = nil
	if lgr != nil {
		client.Logger = NewLeveledLogger(lgr)
	}

	return client
}

func fixedDelay(delay time.Duration) retryablehttp.Backoff {
	return func(_, _ time.Duration, _ int, _ *http.Response) time.Duration {
		return delay
	}
}
