package gateway

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// AlertDedup suppresses repeat forwards of the same alert inside a TTL
// window, bounding alert storms from a chattering sensor. Keyed by
// source|type so distinct cameras never suppress each other.
type AlertDedup struct {
	cache *lru.Cache[string, time.Time]
	ttl   time.Duration
}

func NewAlertDedup(maxKeys int, ttlSeconds int) *AlertDedup {
	c, _ := lru.New[string, time.Time](maxKeys)
	return &AlertDedup{
		cache: c,
		ttl:   time.Duration(ttlSeconds) * time.Second,
	}
}

// IsDuplicate reports whether key was seen inside the window, and marks it
// seen now.
func (d *AlertDedup) IsDuplicate(key string) bool {
	if addedAt, ok := d.cache.Get(key); ok {
		if time.Since(addedAt) < d.ttl {
			return true
		}
	}
	d.cache.Add(key, time.Now())
	return false
}

func BuildDedupKey(source, alertType string) string {
	return fmt.Sprintf("%s|%s", source, alertType)
}
