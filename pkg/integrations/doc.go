// Package integrations provides the shared HTTP client for remote repository
// hosts.
//
// [Client] wraps net/http with default headers, retries for transient
// failures and a uniform mapping of HTTP statuses onto gitmaster error codes:
//
//   - 404 becomes errors.ErrCodeNotFound
//   - 429, and 403 with an exhausted rate limit, become errors.ErrCodeRateLimited
//   - 5xx and transport failures become errors.ErrCodeNetwork and are retried
//
// Host-specific clients such as [github] embed it.
package integrations
