// Package httputil provides retry helpers for the GitHub API client.
//
// [Retry] re-runs an operation with exponential backoff, but only for errors
// wrapped with [Retryable]: network failures and 5xx responses. Everything
// else, including 404 and rate-limit responses, is returned at once.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// Defaults: 3 attempts, 1 second initial delay, doubling after each failure.
// Cancelling ctx stops waiting and returns ctx.Err().
package httputil
