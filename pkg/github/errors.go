package github

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when the repository does not exist or the token
// cannot see it.
var ErrNotFound = errors.New("repository not found")

// RateLimitedError is returned when the provider throttles the client. It
// is transient and carries the provider's retry-after hint.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited by the provider, retry after %s", e.RetryAfter)
}

// SourceUnavailableError is returned on network or authentication failures
// talking to the provider.
type SourceUnavailableError struct {
	Err error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("release source unavailable: %v", e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// AssetUnavailableError is returned when an asset download reference is
// stale or expired.
type AssetUnavailableError struct {
	Name string
	Err  error
}

func (e *AssetUnavailableError) Error() string {
	return fmt.Sprintf("asset %s unavailable: %v", e.Name, e.Err)
}

func (e *AssetUnavailableError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the error is worth retrying with backoff.
func IsTransient(err error) bool {
	rateLimited := &RateLimitedError{}
	if errors.As(err, &rateLimited) {
		return true
	}

	unavailable := &SourceUnavailableError{}
	return errors.As(err, &unavailable)
}

// RetryAfter returns the provider's retry-after hint, if the error carries
// one.
func RetryAfter(err error) (time.Duration, bool) {
	rateLimited := &RateLimitedError{}
	if errors.As(err, &rateLimited) {
		return rateLimited.RetryAfter, true
	}

	return 0, false
}
