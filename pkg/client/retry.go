package client

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

// DefaultRetryCount is how many times a request is retried on a transient
// failure before giving up.
const DefaultRetryCount = 3

// defaultRetryInitialInterval is the first retry's backoff interval; later
// retries grow from it per backoff.ExponentialBackOff's defaults.
const defaultRetryInitialInterval = 200 * time.Millisecond

// WithRetry configures the client to retry requests that fail with a
// network error or a 5xx response, spacing attempts with an exponential
// backoff instead of resty's fixed-interval default. Useful for CLI
// commands polling a deployment's status or an agent's config-request
// while the server is mid-rollout.
func WithRetry(maxRetries int) Option {
	return OptionFunc(func(c *Client) {
		c.common.Resty.
			SetRetryCount(maxRetries).
			AddRetryCondition(func(resp *resty.Response, err error) bool {
				return err != nil || resp.StatusCode() >= 500
			}).
			SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
				backOff := backoff.NewExponentialBackOff()
				backOff.InitialInterval = defaultRetryInitialInterval

				var wait time.Duration
				for i := 0; i <= resp.Request.Attempt; i++ {
					wait = backOff.NextBackOff()
				}

				return wait, nil
			})
	})
}
