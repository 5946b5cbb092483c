package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type stamped struct {
	id string
	at time.Time
}

func stampOf(s stamped) time.Time { return s.at }
func renewTo(s stamped, t time.Time) stamped {
	s.at = t
	return s
}

func TestIsExpired_Boundary(t *testing.T) {
	assert.False(t, IsExpired(FavoritesTTL, now.Add(-FavoritesTTL+time.Millisecond), now))
	assert.True(t, IsExpired(FavoritesTTL, now.Add(-FavoritesTTL), now))
	assert.True(t, IsExpired(FavoritesTTL, now.Add(-FavoritesTTL-time.Millisecond), now))
}

func TestIsExpired_ZeroTTLNeverExpires(t *testing.T) {
	assert.False(t, IsExpired(0, time.Unix(0, 0), now))
}

func TestIsStale(t *testing.T) {
	assert.False(t, IsStale(now.Add(-StaleAfter), now, StaleAfter))
	assert.True(t, IsStale(now.Add(-StaleAfter-time.Millisecond), now, StaleAfter))
	assert.False(t, IsStale(time.Time{}, now, StaleAfter))
}

func TestApply_SlidingRenewsSurvivors(t *testing.T) {
	items := []stamped{
		{id: "fresh", at: now.Add(-time.Hour)},
		{id: "old", at: now.Add(-8 * 24 * time.Hour)},
	}

	kept, expired := Apply(Sliding(FavoritesTTL), items, now, stampOf, renewTo)

	assert.Equal(t, 1, expired)
	assert.Equal(t, []stamped{{id: "fresh", at: now}}, kept)
}

func TestApply_FixedKeepsTimestamps(t *testing.T) {
	at := now.Add(-29 * 24 * time.Hour)
	items := []stamped{{id: "a", at: at}, {id: "b", at: now.Add(-31 * 24 * time.Hour)}}

	kept, expired := Apply(Fixed(SeenTTL), items, now, stampOf, renewTo)

	assert.Equal(t, 1, expired)
	assert.Equal(t, []stamped{{id: "a", at: at}}, kept)
}

func TestApply_NoneKeepsEverything(t *testing.T) {
	items := []stamped{{id: "a", at: time.Unix(1, 0)}}
	kept, expired := Apply(None, items, now, stampOf, renewTo)
	assert.Zero(t, expired)
	assert.Len(t, kept, 1)
}
