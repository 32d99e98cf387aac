package compression

import "math/bits"

// Delta-of-delta timestamp codec from the Gorilla paper (Section 4.1.1).
//
// Per-sample framing:
//
//	sample 0: raw 64-bit timestamp
//	sample 1: delta from sample 0, as an unsigned field wide enough for the
//	          block window (14 bits for the default 2 h window)
//	sample 2+: prefix-coded delta-of-delta
//
// Prefix code:
//
//	dod == 0              → '0'                      (1 bit)
//	dod in [-63, 64]      → '10'   + 7 bit payload   (9 bits)
//	dod in [-255, 256]    → '110'  + 9 bit payload   (12 bits)
//	dod in [-2047, 2048]  → '1110' + 12 bit payload  (16 bits)
//	otherwise             → '1111' + 32 bit payload  (36 bits)
//
// Payloads are the low n bits of the two's-complement dod. Decoding maps
// values above 2^(n-1) back to negatives, which yields the asymmetric
// [-(2^(n-1)-1), 2^(n-1)] ranges above.

// DeltaBits returns the width of the second sample's delta field for a
// block window of the given length in seconds. The delta is bounded by the
// window, so 14 bits suffice for the default 7200 s; wider windows get a
// wider field. Encoder and decoder must be configured with the same window.
func DeltaBits(windowSeconds uint64) uint8 {
	n := uint8(bits.Len64(windowSeconds - 1))
	if n < 14 {
		n = 14
	}
	return n
}

// TimestampEncoder compresses a monotonically non-decreasing timestamp
// stream. The zero value is not usable; construct with NewTimestampEncoder.
type TimestampEncoder struct {
	deltaBits uint8
	count     uint32
	prevTS    uint64
	prevDelta int64
}

// NewTimestampEncoder creates an encoder for a block with the given window.
func NewTimestampEncoder(windowSeconds uint64) TimestampEncoder {
	return TimestampEncoder{deltaBits: DeltaBits(windowSeconds)}
}

// Encode appends ts to the stream and advances the codec state.
func (e *TimestampEncoder) Encode(w *BitWriter, ts uint64) {
	switch e.count {
	case 0:
		w.WriteBits(ts, 64)
	case 1:
		delta := int64(ts) - int64(e.prevTS)
		w.WriteBits(uint64(delta), e.deltaBits)
		e.prevDelta = delta
	default:
		delta := int64(ts) - int64(e.prevTS)
		encodeDod(w, delta-e.prevDelta)
		e.prevDelta = delta
	}
	e.prevTS = ts
	e.count++
}

func encodeDod(w *BitWriter, dod int64) {
	switch {
	case dod == 0:
		w.WriteBit(0)
	case dod >= -63 && dod <= 64:
		w.WriteBits(0b10, 2)
		w.WriteBits(uint64(dod)&0x7F, 7)
	case dod >= -255 && dod <= 256:
		w.WriteBits(0b110, 3)
		w.WriteBits(uint64(dod)&0x1FF, 9)
	case dod >= -2047 && dod <= 2048:
		w.WriteBits(0b1110, 4)
		w.WriteBits(uint64(dod)&0xFFF, 12)
	default:
		w.WriteBits(0b1111, 4)
		w.WriteBits(uint64(dod)&0xFFFFFFFF, 32)
	}
}

// TimestampDecoder mirrors TimestampEncoder sample for sample.
type TimestampDecoder struct {
	deltaBits uint8
	count     uint32
	prevTS    uint64
	prevDelta int64
}

// NewTimestampDecoder creates a decoder for a block with the given window.
func NewTimestampDecoder(windowSeconds uint64) TimestampDecoder {
	return TimestampDecoder{deltaBits: DeltaBits(windowSeconds)}
}

// Decode consumes the next timestamp from the stream.
func (d *TimestampDecoder) Decode(r *BitReader) (uint64, error) {
	switch d.count {
	case 0:
		ts, err := r.ReadBits(64)
		if err != nil {
			return 0, err
		}
		d.prevTS = ts
	case 1:
		delta, err := r.ReadBits(d.deltaBits)
		if err != nil {
			return 0, err
		}
		d.prevDelta = int64(delta)
		d.prevTS += delta
	default:
		dod, err := decodeDod(r)
		if err != nil {
			return 0, err
		}
		d.prevDelta += dod
		d.prevTS = uint64(int64(d.prevTS) + d.prevDelta)
	}
	d.count++
	return d.prevTS, nil
}

func decodeDod(r *BitReader) (int64, error) {
	// Consume the longest matching prefix: up to four leading 1 bits.
	var nbits uint8
	for i := 0; i < 4; i++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			break
		}
		nbits = [...]uint8{7, 9, 12, 32}[i]
	}
	if nbits == 0 {
		return 0, nil
	}
	raw, err := r.ReadBits(nbits)
	if err != nil {
		return 0, err
	}
	dod := int64(raw)
	// Values above 2^(n-1) encode negatives; 2^(n-1) itself is the positive
	// extreme of the bucket.
	if dod > int64(1)<<(nbits-1) {
		dod -= int64(1) << nbits
	}
	return dod, nil
}
