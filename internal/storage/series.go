package storage

// Series is the ordered log of samples for one key. It owns an ordered
// collection of blocks; the last one is the (at most one) open block, all
// earlier ones are sealed.
type Series struct {
	key        string
	window     uint64
	blocks     []*Block
	lastTS     uint64
	count      uint64
	tombstoned bool
}

// NewSeries creates an empty series for key with the given block window.
func NewSeries(key string, windowSeconds uint64) *Series {
	return &Series{key: key, window: windowSeconds}
}

// Key returns the series key.
func (s *Series) Key() string {
	return s.key
}

// Insert appends one sample. Timestamps must be non-decreasing; an older
// timestamp returns ErrOutOfOrder without mutating the series. When the
// timestamp falls outside the open block's window the block is sealed and a
// new one opened.
func (s *Series) Insert(ts uint64, v float64) error {
	if s.tombstoned {
		return ErrTombstoned
	}
	if s.count > 0 && ts < s.lastTS {
		return ErrOutOfOrder
	}

	open := s.openBlock()
	if open == nil {
		open = NewBlock(s.window)
		s.blocks = append(s.blocks, open)
	}
	if err := open.Append(ts, v); err == ErrWindowExceeded {
		open.Seal()
		open = NewBlock(s.window)
		s.blocks = append(s.blocks, open)
		if err := open.Append(ts, v); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	s.lastTS = ts
	s.count++
	return nil
}

func (s *Series) openBlock() *Block {
	if len(s.blocks) == 0 {
		return nil
	}
	last := s.blocks[len(s.blocks)-1]
	if last.Sealed() {
		return nil
	}
	return last
}

// Query returns the samples with lo <= ts <= hi, in insertion order. A
// tombstoned series yields nothing.
func (s *Series) Query(lo, hi uint64) []Sample {
	var out []Sample
	s.visitRange(lo, hi, func(smp Sample) {
		out = append(out, smp)
	})
	return out
}

// Visit invokes fn for every sample in insertion order.
func (s *Series) Visit(fn func(Sample)) {
	s.visitRange(0, ^uint64(0), fn)
}

func (s *Series) visitRange(lo, hi uint64, fn func(Sample)) {
	if s.tombstoned {
		return
	}
	for _, b := range s.blocks {
		if !b.Overlaps(lo, hi) {
			continue
		}
		it := b.Iter()
		for smp, ok := it.Next(); ok; smp, ok = it.Next() {
			if smp.TS >= lo && smp.TS <= hi {
				fn(smp)
			}
		}
	}
}

// Tombstone marks the series deleted. Inserts fail with ErrTombstoned and
// queries return nothing; storage is retained.
func (s *Series) Tombstone() {
	s.tombstoned = true
}

// Tombstoned reports whether the series has been deleted.
func (s *Series) Tombstoned() bool {
	return s.tombstoned
}

// Count returns the number of samples inserted.
func (s *Series) Count() uint64 {
	return s.count
}

// CompressedBytes returns the summed size of all block buffers.
func (s *Series) CompressedBytes() uint64 {
	var n uint64
	for _, b := range s.blocks {
		n += uint64(b.Size())
	}
	return n
}

// DropBlocksBefore discards sealed blocks whose window ends at or before
// horizon. The open block is never dropped. Returns the number of blocks
// removed. This is the retention hook for callers that bound memory
// externally; dropped samples no longer appear in queries, but Count still
// reflects every insert.
func (s *Series) DropBlocksBefore(horizon uint64) int {
	kept := s.blocks[:0]
	dropped := 0
	for _, b := range s.blocks {
		if b.Sealed() && b.End() <= horizon {
			dropped++
			continue
		}
		kept = append(kept, b)
	}
	s.blocks = kept
	return dropped
}
