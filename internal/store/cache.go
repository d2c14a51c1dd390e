package store

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CountSource is the slice of Store the booking-count cache depends on.
type CountSource interface {
	BookingCounts(ctx context.Context, date string) (map[string]int, error)
}

// BookingCountCache memoizes BookingCounts per date. Counts change on every
// import, confirmation and cancellation, so writers call Invalidate for the
// affected date instead of waiting out the TTL.
type BookingCountCache struct {
	source CountSource
	ttl    time.Duration
	cache  *gocache.Cache
}

// NewBookingCountCache wraps the source with a per-date count cache. Entries
// expire after ttl; the janitor runs at twice that interval.
func NewBookingCountCache(source CountSource, ttl time.Duration) *BookingCountCache {
	return &BookingCountCache{
		source: source,
		ttl:    ttl,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

// Counts returns the booking counts for one ISO date, hitting the database
// only on a cache miss. Errors are not cached.
func (c *BookingCountCache) Counts(ctx context.Context, date string) (map[string]int, error) {
	if cached, ok := c.cache.Get(date); ok {
		return cached.(map[string]int), nil
	}

	counts, err := c.source.BookingCounts(ctx, date)
	if err != nil {
		return nil, err
	}
	c.cache.Set(date, counts, c.ttl)
	return counts, nil
}

// Invalidate drops the cached counts for one date.
func (c *BookingCountCache) Invalidate(date string) {
	c.cache.Delete(date)
}

// Flush drops every cached date.
func (c *BookingCountCache) Flush() {
	c.cache.Flush()
}
