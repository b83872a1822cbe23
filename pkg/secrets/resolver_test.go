package secrets_test

import (
	"context"
	"testing"
	"time"

	"github.com/arthur-debert/opfill/pkg/errors"
	"github.com/arthur-debert/opfill/pkg/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource wraps a StaticSource and counts Resolve calls.
type countingSource struct {
	inner *secrets.StaticSource
	calls int
}

func (c *countingSource) Name() string { return "counting" }

func (c *countingSource) Resolve(ctx context.Context, ref string) (string, error) {
	c.calls++
	return c.inner.Resolve(ctx, ref)
}

func TestResolveCachesWithinTTL(t *testing.T) {
	src := &countingSource{inner: secrets.NewStaticSource(map[string]string{
		"API_KEY": "abc123",
	})}
	r := secrets.NewResolver(src, 5*time.Minute)

	v1, err := r.Resolve(context.Background(), "API_KEY")
	require.NoError(t, err)
	v2, err := r.Resolve(context.Background(), "API_KEY")
	require.NoError(t, err)

	assert.Equal(t, "abc123", v1)
	assert.Equal(t, "abc123", v2)
	// Two resolutions of the same ref within the TTL window make
	// exactly one external call.
	assert.Equal(t, 1, src.calls)

	stats := r.Stats()
	assert.Equal(t, 1, stats.ExternalCalls)
	assert.Equal(t, 1, stats.CacheHits)
}

func TestResolveMissingSecret(t *testing.T) {
	r := secrets.NewResolver(secrets.NewStaticSource(nil), 5*time.Minute)

	_, err := r.Resolve(context.Background(), "NOPE")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingSecret))

	// Failures are not cached; the next attempt calls out again.
	_, err = r.Resolve(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Equal(t, 2, r.Stats().ExternalCalls)
}

func TestWarm(t *testing.T) {
	src := &countingSource{inner: secrets.NewStaticSource(map[string]string{
		"API_KEY":    "abc123",
		"API_SECRET": "s3cret",
	})}
	r := secrets.NewResolver(src, 5*time.Minute)

	failed := r.Warm(context.Background(), []string{"API_KEY", "API_SECRET", "MISSING"})
	assert.Len(t, failed, 1)
	assert.True(t, errors.IsErrorCode(failed["MISSING"], errors.ErrMissingSecret))
	assert.Equal(t, 3, src.calls)

	// Warmed refs resolve from cache afterwards.
	_, err := r.Resolve(context.Background(), "API_KEY")
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), "API_SECRET")
	require.NoError(t, err)
	assert.Equal(t, 3, src.calls)
}

func TestStaticSource(t *testing.T) {
	src := secrets.NewStaticSource(map[string]string{"TOKEN": "t"})
	assert.Equal(t, "static", src.Name())

	v, err := src.Resolve(context.Background(), "TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "t", v)

	_, err = src.Resolve(context.Background(), "OTHER")
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingSecret))
}
