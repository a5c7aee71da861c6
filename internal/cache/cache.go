// Package cache stores verification-source responses so re-processing a
// document does not re-query external services. Keys are derived from the
// source name and the literal citation text, which also keeps re-runs
// deterministic for identical input.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store is the caching interface shared by the memory, disk, and layered
// implementations.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a cache key for one source's response to one citation lookup.
func Key(source, citationText string) string {
	hash := sha256.Sum256([]byte(source + "\x00" + citationText))
	return "lexhound:v1:" + hex.EncodeToString(hash[:])
}
