package storage

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultShards is the default shard count for Store.
const DefaultShards = 16

// Store is the concurrent layer over TSMap. The registry itself is
// single-threaded by contract, so Store partitions keys across independent
// registries by xxhash and serializes access to each behind its own RWMutex.
// Writers on different shards never contend.
type Store struct {
	shards []*storeShard
}

type storeShard struct {
	mu sync.RWMutex
	m  *TSMap
}

// NewStore creates a Store with the given block window and shard count.
func NewStore(blockSeconds uint64, shards int) (*Store, error) {
	if shards <= 0 {
		shards = DefaultShards
	}
	st := &Store{shards: make([]*storeShard, shards)}
	for i := range st.shards {
		m, err := NewTSMap(blockSeconds)
		if err != nil {
			return nil, err
		}
		st.shards[i] = &storeShard{m: m}
	}
	return st, nil
}

func (st *Store) shardFor(key string) *storeShard {
	return st.shards[xxhash.Sum64String(key)%uint64(len(st.shards))]
}

// Insert routes one sample to the owning shard.
func (st *Store) Insert(key string, ts uint64, v float64) error {
	sh := st.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.m.Insert(key, ts, v)
}

// Query returns the samples of key in [lo, hi].
func (st *Store) Query(key string, lo, hi uint64) []Sample {
	sh := st.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.m.Query(key, lo, hi)
}

// Delete tombstones the series for key.
func (st *Store) Delete(key string) bool {
	sh := st.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.m.Delete(key)
}

// Scan visits every live (key, ts, value) triple, shard by shard. Within a
// shard, series are visited in creation order. The shard lock is held for
// the duration of that shard's visit.
func (st *Store) Scan(visit func(key string, ts uint64, v float64)) {
	for _, sh := range st.shards {
		sh.mu.RLock()
		sh.m.Scan(visit)
		sh.mu.RUnlock()
	}
}

// CountPoints sums live sample counts across shards.
func (st *Store) CountPoints() uint64 {
	var n uint64
	for _, sh := range st.shards {
		sh.mu.RLock()
		n += sh.m.CountPoints()
		sh.mu.RUnlock()
	}
	return n
}

// CompressedBytes returns the summed block buffer sizes for key.
func (st *Store) CompressedBytes(key string) uint64 {
	sh := st.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.m.CompressedBytes(key)
}

// PointCount returns the sample count for key, or zero when absent.
func (st *Store) PointCount(key string) uint64 {
	sh := st.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.m.PointCount(key)
}

// SeriesCount returns the number of live series across shards.
func (st *Store) SeriesCount() int {
	n := 0
	for _, sh := range st.shards {
		sh.mu.RLock()
		n += sh.m.SeriesCount()
		sh.mu.RUnlock()
	}
	return n
}

// Keys returns the live series keys, shard by shard, creation order within
// each shard.
func (st *Store) Keys() []string {
	var keys []string
	for _, sh := range st.shards {
		sh.mu.RLock()
		keys = append(keys, sh.m.Keys()...)
		sh.mu.RUnlock()
	}
	return keys
}

// DropBlocksBefore applies the retention horizon to every live series and
// returns the number of blocks dropped.
func (st *Store) DropBlocksBefore(horizon uint64) int {
	dropped := 0
	for _, sh := range st.shards {
		sh.mu.Lock()
		sh.m.ScanSeries(func(s *Series) {
			dropped += s.DropBlocksBefore(horizon)
		})
		sh.mu.Unlock()
	}
	return dropped
}
