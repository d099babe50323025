// Package cache stores fetched municipal pages between runs so repeated
// scrapes do not hammer town websites.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with per-entry TTL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives a stable cache key from a page URL.
func CacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "njhousing:v1:" + hex.EncodeToString(hash[:])
}
