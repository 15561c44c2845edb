package storage

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

// ShardedMemoryStorage - sharded object storage
type ShardedMemoryStorage[K comparable, V any] struct {
	shards     []*shardData[K, V]
	shardMask  int
	keyToShard func(K) int // Shard distribution function
}

// shardData - single shard data
type shardData[K comparable, V any] struct {
	data       map[K]V
	mutex      sync.RWMutex
	dirty      map[K]bool
	lastUpdate map[K]time.Time
}

// NewShardedMemoryStorage creates a new sharded storage.
// shardCount is rounded up to a power of two. A nil keyToShardFunc hashes the key with FNV-1a.
func NewShardedMemoryStorage[K comparable, V any](shardCount int, keyToShardFunc func(K) int) *ShardedMemoryStorage[K, V] {
	// Round up to power of two
	realShardCount := 1
	for realShardCount < shardCount {
		realShardCount *= 2
	}

	shards := make([]*shardData[K, V], realShardCount)
	for i := range shards {
		shards[i] = &shardData[K, V]{
			data:       make(map[K]V),
			dirty:      make(map[K]bool),
			lastUpdate: make(map[K]time.Time),
		}
	}

	if keyToShardFunc == nil {
		keyToShardFunc = func(key K) int {
			h := fnv.New32a()
			switch k := any(key).(type) {
			case string:
				h.Write([]byte(k))
			default:
				fmt.Fprintf(h, "%v", key)
			}
			return int(h.Sum32())
		}
	}

	return &ShardedMemoryStorage[K, V]{
		shards:     shards,
		shardMask:  realShardCount - 1,
		keyToShard: keyToShardFunc,
	}
}

// getShard returns shard for key
func (s *ShardedMemoryStorage[K, V]) getShard(key K) *shardData[K, V] {
	return s.shards[s.keyToShard(key)&s.shardMask]
}

// Set adds or updates an object
func (s *ShardedMemoryStorage[K, V]) Set(key K, value V) {
	shard := s.getShard(key)

	shard.mutex.Lock()
	defer shard.mutex.Unlock()

	shard.data[key] = value
	shard.dirty[key] = true
	shard.lastUpdate[key] = time.Now()
}

// Load adds an object without marking it dirty
func (s *ShardedMemoryStorage[K, V]) Load(key K, value V) {
	shard := s.getShard(key)

	shard.mutex.Lock()
	defer shard.mutex.Unlock()

	shard.data[key] = value
	shard.lastUpdate[key] = time.Now()
}

// Get returns object by key
func (s *ShardedMemoryStorage[K, V]) Get(key K) (V, bool) {
	shard := s.getShard(key)

	shard.mutex.RLock()
	defer shard.mutex.RUnlock()

	value, exists := shard.data[key]
	return value, exists
}

// Delete removes an object
func (s *ShardedMemoryStorage[K, V]) Delete(key K) bool {
	shard := s.getShard(key)

	shard.mutex.Lock()
	defer shard.mutex.Unlock()

	if _, exists := shard.data[key]; !exists {
		return false
	}

	delete(shard.data, key)
	delete(shard.dirty, key)
	delete(shard.lastUpdate, key)
	return true
}

// GetDirty returns all dirty objects from all shards without clearing flags
func (s *ShardedMemoryStorage[K, V]) GetDirty() map[K]V {
	result := make(map[K]V)

	for _, shard := range s.shards {
		shard.mutex.RLock()
		for k := range shard.dirty {
			if v, exists := shard.data[k]; exists {
				result[k] = v
			}
		}
		shard.mutex.RUnlock()
	}

	return result
}

// ClearDirty clears dirty flags for provided keys
func (s *ShardedMemoryStorage[K, V]) ClearDirty(keys []K, savedAt time.Time) {
	for _, k := range keys {
		shard := s.getShard(k)

		shard.mutex.Lock()
		if !shard.lastUpdate[k].After(savedAt) {
			delete(shard.dirty, k)
		}
		shard.mutex.Unlock()
	}
}

// ForEach executes a function for each object
func (s *ShardedMemoryStorage[K, V]) ForEach(fn func(key K, value V) bool) {
	// Process each shard separately
	for _, shard := range s.shards {
		shard.mutex.RLock()
		items := make(map[K]V, len(shard.data))
		for k, v := range shard.data {
			items[k] = v
		}
		shard.mutex.RUnlock()

		for k, v := range items {
			if !fn(k, v) {
				return
			}
		}
	}
}

// Count returns total number of objects
func (s *ShardedMemoryStorage[K, V]) Count() int {
	count := 0
	for _, shard := range s.shards {
		shard.mutex.RLock()
		count += len(shard.data)
		shard.mutex.RUnlock()
	}
	return count
}
