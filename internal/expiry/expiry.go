// Package expiry centralizes time-to-live rules applied lazily when a store
// is read.
package expiry

import "time"

const (
	FavoritesTTL = 7 * 24 * time.Hour
	SeenTTL      = 30 * 24 * time.Hour
	StaleAfter   = 15 * time.Minute
)

// Policy describes one store's expiry. A zero TTL never expires. Renew slides
// survivors' timestamps forward to the read time.
type Policy struct {
	TTL   time.Duration
	Renew bool
}

func Sliding(ttl time.Duration) Policy { return Policy{TTL: ttl, Renew: true} }
func Fixed(ttl time.Duration) Policy   { return Policy{TTL: ttl} }

// None is the policy of stores that only report staleness.
var None = Policy{}

// IsExpired is the single expiry predicate: a record expires once
// now-timestamp reaches the TTL.
func IsExpired(ttl time.Duration, timestamp, now time.Time) bool {
	return ttl > 0 && now.Sub(timestamp) >= ttl
}

// IsStale reports whether the last success is older than threshold. A zero
// timestamp means nothing was ever recorded and is not stale.
func IsStale(lastSuccess, now time.Time, threshold time.Duration) bool {
	return !lastSuccess.IsZero() && now.Sub(lastSuccess) > threshold
}

func (p Policy) Expired(timestamp, now time.Time) bool {
	return IsExpired(p.TTL, timestamp, now)
}

// Apply drops expired items and, for renewing policies, stamps survivors with
// now. stamp reads an item's timestamp; renew returns a copy stamped with now.
func Apply[T any](p Policy, items []T, now time.Time, stamp func(T) time.Time, renew func(T, time.Time) T) ([]T, int) {
	kept := make([]T, 0, len(items))
	expired := 0
	for _, item := range items {
		if p.Expired(stamp(item), now) {
			expired++
			continue
		}
		if p.Renew {
			item = renew(item, now)
		}
		kept = append(kept, item)
	}
	return kept, expired
}
