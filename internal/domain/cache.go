package domain

import "time"

// ListingCache is a read-through cache for expensive listing queries
// (trending events, dashboard stats). TTL is an explicit per-entry
// parameter. Implementations are scoped per process: in a multi-worker
// deployment different processes may observe slightly different values
// within the TTL window, which is an accepted staleness trade-off.
type ListingCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Evict(key string)
}
