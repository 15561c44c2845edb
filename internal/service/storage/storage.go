package storage

import "time"

// Storage defines interface for any object storage
type Storage[K comparable, V any] interface {
	Set(key K, value V)
	// Load stores a value that is already persisted, without marking it dirty.
	Load(key K, value V)
	Get(key K) (V, bool)
	Delete(key K) bool
	GetDirty() map[K]V
	// ClearDirty clears dirty flags for keys not updated after savedAt.
	ClearDirty(keys []K, savedAt time.Time)
	ForEach(fn func(key K, value V) bool)
	Count() int
}
