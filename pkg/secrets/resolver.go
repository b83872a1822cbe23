package secrets

import (
	"context"
	"time"

	"github.com/arthur-debert/opfill/pkg/errors"
	"github.com/arthur-debert/opfill/pkg/logging"
)

// Resolver resolves secret refs through a Source, memoizing results in
// a TTL cache so each unique ref costs at most one external call per
// TTL window.
type Resolver struct {
	source Source
	cache  *Cache

	externalCalls int
	cacheHits     int
}

// Stats reports resolver activity for the summary output and for
// cache behavior tests.
type Stats struct {
	ExternalCalls int
	CacheHits     int
}

// NewResolver creates a resolver over source with the given cache TTL.
func NewResolver(source Source, ttl time.Duration) *Resolver {
	return &Resolver{
		source: source,
		cache:  NewCache(ttl),
	}
}

// Resolve returns the value for ref, from cache when fresh. Failures
// come back as coded errors (MISSING_SECRET, EXTERNAL_TIMEOUT,
// NOT_SIGNED_IN); the caller decides how to proceed.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	logger := logging.GetLogger("secrets.resolver")

	if value, ok := r.cache.Get(ref); ok {
		r.cacheHits++
		logger.Trace().Str("ref", ref).Msg("cache hit")
		return value, nil
	}

	r.externalCalls++
	value, err := r.source.Resolve(ctx, ref)
	if err != nil {
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			err = errors.Wrapf(err, errors.ErrMissingSecret, "could not resolve %q", ref)
		}
		logger.Debug().Str("ref", ref).Str("source", r.source.Name()).
			Str("code", string(errors.GetErrorCode(err))).Msg("resolution failed")
		return "", err
	}

	r.cache.Set(ref, value)
	logger.Trace().Str("ref", ref).Str("source", r.source.Name()).Msg("resolved")
	return value, nil
}

// Warm eagerly resolves refs ahead of rendering multiple templates
// that share tokens. Per-ref failures are collected, not fatal; the
// returned map holds an entry for every ref that failed.
func (r *Resolver) Warm(ctx context.Context, refs []string) map[string]error {
	failed := make(map[string]error)
	for _, ref := range refs {
		if _, err := r.Resolve(ctx, ref); err != nil {
			failed[ref] = err
		}
	}
	return failed
}

// Stats returns resolver activity counters.
func (r *Resolver) Stats() Stats {
	return Stats{ExternalCalls: r.externalCalls, CacheHits: r.cacheHits}
}
