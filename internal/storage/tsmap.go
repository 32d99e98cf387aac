package storage

// DefaultBlockSeconds is the default block window: two hours, per the
// Gorilla paper.
const DefaultBlockSeconds = 7200

// TSMap is the series registry: a dense append-only vector of series plus a
// key→slot index for O(1) lookup. Deleting a series tombstones its slot and
// unmaps the key; slots are never reused, so any externally held slot index
// (a correlation matrix, say) stays valid for the registry's lifetime.
//
// TSMap is single-threaded by contract. It holds no locks; concurrent use
// belongs to an enclosing layer such as Store.
type TSMap struct {
	window uint64
	index  map[string]int
	series []*Series
	// Keys that were deleted. Their slots are unreachable through the index,
	// and re-inserting such a key is rejected rather than silently opening a
	// fresh series under a dead name.
	deleted map[string]struct{}
}

// NewTSMap creates a registry whose blocks span blockSeconds.
func NewTSMap(blockSeconds uint64) (*TSMap, error) {
	if blockSeconds == 0 {
		return nil, ErrInvalidWindow
	}
	return &TSMap{
		window:  blockSeconds,
		index:   make(map[string]int),
		deleted: make(map[string]struct{}),
	}, nil
}

// BlockSeconds returns the configured block window.
func (m *TSMap) BlockSeconds() uint64 {
	return m.window
}

// Insert routes one sample to the series for key, creating the series on
// first write. Returns ErrOutOfOrder or ErrTombstoned from the series.
func (m *TSMap) Insert(key string, ts uint64, v float64) error {
	if _, dead := m.deleted[key]; dead {
		return ErrTombstoned
	}
	idx, ok := m.index[key]
	if !ok {
		idx = len(m.series)
		m.series = append(m.series, NewSeries(key, m.window))
		m.index[key] = idx
	}
	return m.series[idx].Insert(ts, v)
}

// Query returns the samples of key with lo <= ts <= hi in insertion order.
// An unknown or deleted key yields nothing.
func (m *TSMap) Query(key string, lo, hi uint64) []Sample {
	idx, ok := m.index[key]
	if !ok {
		return nil
	}
	return m.series[idx].Query(lo, hi)
}

// Delete tombstones the series for key and unmaps it. Returns true when the
// key was present.
func (m *TSMap) Delete(key string) bool {
	idx, ok := m.index[key]
	if !ok {
		return false
	}
	m.series[idx].Tombstone()
	delete(m.index, key)
	m.deleted[key] = struct{}{}
	return true
}

// Scan visits every live (key, ts, value) triple, series in creation order,
// samples in insertion order. Tombstoned slots are skipped.
func (m *TSMap) Scan(visit func(key string, ts uint64, v float64)) {
	for _, s := range m.series {
		if s.Tombstoned() {
			continue
		}
		key := s.Key()
		s.Visit(func(smp Sample) {
			visit(key, smp.TS, smp.Value)
		})
	}
}

// ScanSeries visits every live series in creation order.
func (m *TSMap) ScanSeries(visit func(*Series)) {
	for _, s := range m.series {
		if !s.Tombstoned() {
			visit(s)
		}
	}
}

// CountPoints returns the total sample count across live series.
func (m *TSMap) CountPoints() uint64 {
	var n uint64
	for _, s := range m.series {
		if !s.Tombstoned() {
			n += s.Count()
		}
	}
	return n
}

// CompressedBytes returns the summed block buffer sizes for key, or zero
// for an unknown or deleted key.
func (m *TSMap) CompressedBytes(key string) uint64 {
	idx, ok := m.index[key]
	if !ok {
		return 0
	}
	return m.series[idx].CompressedBytes()
}

// Keys returns the live series keys in creation order.
func (m *TSMap) Keys() []string {
	keys := make([]string, 0, len(m.index))
	for _, s := range m.series {
		if !s.Tombstoned() {
			keys = append(keys, s.Key())
		}
	}
	return keys
}

// PointCount returns the sample count for key, or zero for an unknown or
// deleted key.
func (m *TSMap) PointCount(key string) uint64 {
	idx, ok := m.index[key]
	if !ok {
		return 0
	}
	return m.series[idx].Count()
}

// SeriesCount returns the number of live series.
func (m *TSMap) SeriesCount() int {
	return len(m.index)
}
