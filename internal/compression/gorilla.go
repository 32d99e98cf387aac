package compression

import "math"

// XOR float codec from the Gorilla paper (Section 4.1.2).
//
// The first value is written raw (64 bits). Each later value is XORed with
// its predecessor:
//
//	xor == 0 → '0'                                             (1 bit)
//	xor != 0 → '1', then
//	  window reuse  → '0' + meaningful bits at the previous
//	                  leading/length position
//	  fresh window  → '1' + 5 bit leading-zero count (clamped to 31)
//	                  + 6 bit meaningful length (64 stored as 0)
//	                  + meaningful bits
//
// The reuse branch requires lz >= prevLeading and the meaningful span to end
// no later than the previous span. Until a first non-zero XOR has
// established a window, only the fresh branch is taken.

const maxLeading = 31 // leading-zero count must fit the 5-bit field

// ValueEncoder compresses a float64 stream.
type ValueEncoder struct {
	count          uint32
	prevBits       uint64
	prevLeading    uint8
	prevMeaningful uint8
	hasWindow      bool
}

// Encode appends v to the stream and advances the codec state.
func (e *ValueEncoder) Encode(w *BitWriter, v float64) {
	bits := math.Float64bits(v)
	if e.count == 0 {
		w.WriteBits(bits, 64)
		e.prevBits = bits
		e.count++
		return
	}

	xor := bits ^ e.prevBits
	if xor == 0 {
		w.WriteBit(0)
	} else {
		w.WriteBit(1)
		lz := LeadingZeros64(xor)
		if lz > maxLeading {
			lz = maxLeading
		}
		tz := TrailingZeros64(xor)
		meaningful := 64 - lz - tz

		if e.hasWindow && lz >= e.prevLeading && 64-tz <= e.prevLeading+e.prevMeaningful {
			// The current span fits inside the previous window; reuse it.
			w.WriteBit(0)
			prevTrailing := 64 - e.prevLeading - e.prevMeaningful
			w.WriteBits(xor>>prevTrailing, e.prevMeaningful)
		} else {
			w.WriteBit(1)
			w.WriteBits(uint64(lz), 5)
			w.WriteBits(uint64(meaningful)&0x3F, 6) // 64 wraps to 0
			w.WriteBits(xor>>tz, meaningful)
			e.prevLeading = lz
			e.prevMeaningful = meaningful
			e.hasWindow = true
		}
	}
	e.prevBits = bits
	e.count++
}

// ValueDecoder mirrors ValueEncoder sample for sample.
type ValueDecoder struct {
	count          uint32
	prevBits       uint64
	prevLeading    uint8
	prevMeaningful uint8
}

// Decode consumes the next value from the stream.
func (d *ValueDecoder) Decode(r *BitReader) (float64, error) {
	if d.count == 0 {
		bits, err := r.ReadBits(64)
		if err != nil {
			return 0, err
		}
		d.prevBits = bits
		d.count++
		return math.Float64frombits(bits), nil
	}

	ctrl, err := r.ReadBit()
	if err != nil {
		return 0, err
	}
	if ctrl == 1 {
		fresh, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if fresh == 1 {
			lz, err := r.ReadBits(5)
			if err != nil {
				return 0, err
			}
			mraw, err := r.ReadBits(6)
			if err != nil {
				return 0, err
			}
			meaningful := uint8(mraw)
			if meaningful == 0 {
				meaningful = 64
			}
			d.prevLeading = uint8(lz)
			d.prevMeaningful = meaningful
		}
		payload, err := r.ReadBits(d.prevMeaningful)
		if err != nil {
			return 0, err
		}
		trailing := 64 - d.prevLeading - d.prevMeaningful
		d.prevBits ^= payload << trailing
	}
	d.count++
	return math.Float64frombits(d.prevBits), nil
}
