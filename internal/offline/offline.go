// Package offline chooses between live fetch results and the last cached
// copy when the remote service is unreachable.
package offline

import (
	"context"
	"time"

	"adoptwatch/internal/expiry"
	"adoptwatch/internal/fetch"
	"adoptwatch/internal/models"
	"adoptwatch/internal/providers"
	"adoptwatch/internal/stores"
)

type State string

const (
	Live   State = "live"
	Cached State = "cached"
)

type ListResult struct {
	Pets      []models.Listing `json:"pets"`
	State     State            `json:"state"`
	Offline   bool             `json:"offline"`
	CachedAt  int64            `json:"cachedAt,omitempty"`
	SpeciesID int              `json:"speciesId"`
}

type DetailResult struct {
	Detail   models.Detail `json:"detail"`
	State    State         `json:"state"`
	Offline  bool          `json:"offline"`
	CachedAt int64         `json:"cachedAt,omitempty"`
}

// Selector runs fetches through the offline caches.
type Selector struct {
	fetcher fetch.Fetcher
	lists   *stores.ListCache
	details *stores.DetailCache
	sync    *stores.SyncTimestamps
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewSelector(fetcher fetch.Fetcher, set *stores.Set, logger providers.Logger, metrics providers.MetricsProviderInterface) *Selector {
	return &Selector{
		fetcher: fetcher,
		lists:   set.Lists,
		details: set.Details,
		sync:    set.Sync,
		logger:  logger,
		metrics: metrics,
	}
}

// List fetches the listings of speciesID shown on tab. A success overwrites
// the tab's cache entry and records the tab's sync time. A failure falls back
// to the tab's cached entry for the same species; with no such entry the
// fetch error is returned as is.
func (s *Selector) List(ctx context.Context, tab, speciesID int) (ListResult, error) {
	pets, err := s.fetcher.FetchList(ctx, speciesID)
	if err == nil {
		s.lists.Put(tab, speciesID, pets)
		s.sync.Record(tab)
		s.metrics.IncFallback("list", string(Live))
		return ListResult{Pets: pets, State: Live, SpeciesID: speciesID}, nil
	}

	entry, ok := s.lists.Get(tab)
	if !ok || entry.SpeciesID != speciesID {
		s.metrics.IncFallback("list", "error")
		return ListResult{}, err
	}
	s.logger.Warnf(providers.TypeFetch, "tab %d: serving %d cached listings: %v", tab, len(entry.Pets), err)
	s.metrics.IncFallback("list", string(Cached))
	return ListResult{
		Pets:      entry.Pets,
		State:     Cached,
		Offline:   true,
		CachedAt:  entry.Timestamp,
		SpeciesID: speciesID,
	}, nil
}

// Detail is List for a single listing, keyed by listing ID. A live fetch
// records the sync time of tab, the tab the listing was opened from; pass a
// negative tab when there is none.
func (s *Selector) Detail(ctx context.Context, tab int, id string) (DetailResult, error) {
	detail, err := s.fetcher.FetchDetail(ctx, id)
	if err == nil {
		s.details.Put(detail)
		s.sync.Record(tab)
		s.metrics.IncFallback("detail", string(Live))
		return DetailResult{Detail: detail, State: Live}, nil
	}

	entry, ok := s.details.Get(id)
	if !ok {
		s.metrics.IncFallback("detail", "error")
		return DetailResult{}, err
	}
	s.logger.Warnf(providers.TypeFetch, "listing %s: serving cached detail: %v", id, err)
	s.metrics.IncFallback("detail", string(Cached))
	return DetailResult{Detail: entry.Details, State: Cached, Offline: true, CachedAt: entry.Timestamp}, nil
}

// Banner is the staleness notice for a tab. It depends only on the sync
// timestamps, never on whether the current render is live or cached.
type Banner struct {
	Stale    bool  `json:"stale"`
	LastSync int64 `json:"lastSync,omitempty"`
}

func ComputeBanner(sync *stores.SyncTimestamps, tab int, now time.Time) Banner {
	last, ok := sync.Get(tab)
	if !ok {
		return Banner{}
	}
	return Banner{
		Stale:    expiry.IsStale(last, now, sync.StaleAfter()),
		LastSync: last.UnixMilli(),
	}
}
