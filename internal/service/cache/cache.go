package cache

import "time"

// BytesCache stores raw bytes with TTL. Response caching keeps the
// marshaled payload so hits skip re-encoding.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
