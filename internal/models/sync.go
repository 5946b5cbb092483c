package models

import (
	"strconv"
	"strings"

	"adoptwatch/internal/codec"
)

// SyncTimestamps maps a tab index to its last successful fetch (epoch ms).
type SyncTimestamps map[int]int64

// NormalizeSyncTimestamps keeps entries whose key is a valid tab index and
// whose value is a positive epoch.
func NormalizeSyncTimestamps(raw any) (SyncTimestamps, int) {
	entries, dropped := codec.NormalizeMap(raw, func(key string, v any) (string, int64, bool) {
		tab, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || !ValidTab(int64(tab)) {
			return "", 0, false
		}
		ts, ok := codec.Int(v)
		if !ok || ts <= 0 {
			return "", 0, false
		}
		return strconv.Itoa(tab), ts, true
	})
	out := make(SyncTimestamps, len(entries))
	for k, v := range entries {
		tab, _ := strconv.Atoi(k)
		out[tab] = v
	}
	return out, dropped
}
