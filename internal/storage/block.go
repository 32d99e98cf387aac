package storage

import (
	"fmt"

	"github.com/soltixdb/gorillastore/internal/compression"
)

// Sample is a single (timestamp, value) pair. Timestamps are seconds since
// the Unix epoch.
type Sample struct {
	TS    uint64
	Value float64
}

// Block is one fixed-duration window of compressed samples. The timestamp
// and value streams are interleaved per sample into a single bit stream:
//
//	[start: 64][ts 0: 64][value 0: 64]
//	[ts 1: delta][value 1: xor] [ts 2: dod][value 2: xor] ...
//
// The window start is epoch-aligned: floor(first_ts / W) * W. Every
// appended timestamp satisfies start <= ts < start+W.
type Block struct {
	start  uint64
	window uint64
	count  uint32
	sealed bool

	w      *compression.BitWriter
	tsEnc  compression.TimestampEncoder
	valEnc compression.ValueEncoder
}

// NewBlock creates an empty block. The window start is fixed by the first
// append.
func NewBlock(windowSeconds uint64) *Block {
	return &Block{window: windowSeconds}
}

// Append encodes one sample into the block. It returns ErrSealed on a
// sealed block and ErrWindowExceeded when ts falls past the window end;
// neither mutates the block.
func (b *Block) Append(ts uint64, v float64) error {
	if b.sealed {
		return ErrSealed
	}
	if b.count == 0 {
		b.start = ts / b.window * b.window
		b.w = compression.NewBitWriter(64)
		b.tsEnc = compression.NewTimestampEncoder(b.window)
		b.valEnc = compression.ValueEncoder{}
		b.w.WriteBits(b.start, 64)
	} else if ts >= b.start+b.window {
		return ErrWindowExceeded
	}
	b.tsEnc.Encode(b.w, ts)
	b.valEnc.Encode(b.w, v)
	b.count++
	return nil
}

// Seal marks the block immutable.
func (b *Block) Seal() {
	b.sealed = true
}

// Sealed reports whether the block accepts further appends.
func (b *Block) Sealed() bool {
	return b.sealed
}

// Start returns the window start. Zero until the first append.
func (b *Block) Start() uint64 {
	return b.start
}

// End returns the exclusive window end.
func (b *Block) End() uint64 {
	return b.start + b.window
}

// Count returns the number of samples appended.
func (b *Block) Count() uint32 {
	return b.count
}

// Size returns the compressed buffer length in bytes.
func (b *Block) Size() int {
	if b.count == 0 {
		return 0
	}
	return b.w.Len()
}

// Overlaps reports whether the block's window intersects [lo, hi]. An empty
// block overlaps nothing.
func (b *Block) Overlaps(lo, hi uint64) bool {
	return b.count > 0 && b.start <= hi && lo < b.End()
}

// Iter returns a fresh iterator over the block's samples in insertion
// order. Iterators decode from position 0 and are independent of each
// other and of further appends to an open block.
func (b *Block) Iter() *BlockIter {
	if b.count == 0 {
		return &BlockIter{}
	}
	return &BlockIter{
		r:      compression.NewBitReader(b.w.Bytes()),
		tsDec:  compression.NewTimestampDecoder(b.window),
		remain: b.count,
		header: true,
	}
}

// BlockIter decodes a block sample by sample, reconstructing the codec
// state incrementally.
type BlockIter struct {
	r      *compression.BitReader
	tsDec  compression.TimestampDecoder
	valDec compression.ValueDecoder
	remain uint32
	header bool
}

// Next returns the next sample. ok is false once the block is exhausted.
// A decode failure inside the sample budget means the encoder/decoder pair
// was violated; that is a bug, not a recoverable condition.
func (it *BlockIter) Next() (Sample, bool) {
	if it.remain == 0 {
		return Sample{}, false
	}
	if it.header {
		if _, err := it.r.ReadBits(64); err != nil {
			panic(fmt.Sprintf("storage: corrupted block header: %v", err))
		}
		it.header = false
	}
	ts, err := it.tsDec.Decode(it.r)
	if err != nil {
		panic(fmt.Sprintf("storage: corrupted block timestamp stream: %v", err))
	}
	v, err := it.valDec.Decode(it.r)
	if err != nil {
		panic(fmt.Sprintf("storage: corrupted block value stream: %v", err))
	}
	it.remain--
	return Sample{TS: ts, Value: v}, true
}
