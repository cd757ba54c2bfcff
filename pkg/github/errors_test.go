package github

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"gotest.tools/assert"
)

func TestIsTransient(t *testing.T) {
	assert.Assert(t, IsTransient(&RateLimitedError{RetryAfter: time.Second}))
	assert.Assert(t, IsTransient(&SourceUnavailableError{Err: errors.New("connection reset")}))
	assert.Assert(t, IsTransient(errors.Wrap(&SourceUnavailableError{Err: errors.New("boom")}, "list releases")))
	assert.Assert(t, !IsTransient(ErrNotFound))
	assert.Assert(t, !IsTransient(&AssetUnavailableError{Name: "dist.zip", Err: errors.New("expired")}))
}

func TestRetryAfter(t *testing.T) {
	hint, ok := RetryAfter(&RateLimitedError{RetryAfter: 30 * time.Second})
	assert.Assert(t, ok)
	assert.Equal(t, hint, 30*time.Second)

	_, ok = RetryAfter(ErrNotFound)
	assert.Assert(t, !ok)
}
