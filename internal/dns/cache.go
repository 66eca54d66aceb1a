package dns

import (
	"context"
	"time"
)

// PTRCache stores positive lookup results keyed by IP address
type PTRCache interface {
	Get(ctx context.Context, ip string) (string, bool)
	Set(ctx context.Context, ip, host string, ttl time.Duration)
}

// CachedResolver consults a PTRCache before the wrapped resolver. Failures and
// misses are never cached.
type CachedResolver struct {
	inner Resolver
	cache PTRCache
	ttl   time.Duration
}

// NewCachedResolver wraps inner with cache
func NewCachedResolver(inner Resolver, cache PTRCache, ttl time.Duration) *CachedResolver {
	return &CachedResolver{inner: inner, cache: cache, ttl: ttl}
}

// LookupAddr implements Resolver
func (r *CachedResolver) LookupAddr(ctx context.Context, addr string) ([]string, error) {
	if host, ok := r.cache.Get(ctx, addr); ok {
		return []string{host}, nil
	}

	names, err := r.inner.LookupAddr(ctx, addr)
	if err != nil {
		return nil, err
	}
	if len(names) > 0 {
		r.cache.Set(ctx, addr, names[0], r.ttl)
	}
	return names, nil
}
