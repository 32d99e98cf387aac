package compression

import "testing"

func encodeTimestamps(t *testing.T, window uint64, stamps []uint64) *BitWriter {
	t.Helper()
	w := NewBitWriter(64)
	enc := NewTimestampEncoder(window)
	for _, ts := range stamps {
		enc.Encode(w, ts)
	}
	return w
}

func decodeTimestamps(t *testing.T, window uint64, data []byte, n int) []uint64 {
	t.Helper()
	r := NewBitReader(data)
	dec := NewTimestampDecoder(window)
	out := make([]uint64, n)
	for i := range out {
		ts, err := dec.Decode(r)
		if err != nil {
			t.Fatalf("Decode %d failed: %v", i, err)
		}
		out[i] = ts
	}
	return out
}

func TestTimestampCodec_RoundTrip(t *testing.T) {
	cases := map[string][]uint64{
		"regular":   {1000, 1060, 1120, 1180, 1240},
		"irregular": {1000, 1059, 1120, 1185, 1300, 2000},
		"duplicate": {1000, 1000, 1000, 1060},
		"single":    {1000},
		"pair":      {1000, 1001},
		"bursty":    {0, 1, 2, 100, 101, 102, 7000, 7001},
	}

	for name, stamps := range cases {
		t.Run(name, func(t *testing.T) {
			w := encodeTimestamps(t, 7200, stamps)
			got := decodeTimestamps(t, 7200, w.Bytes(), len(stamps))
			for i := range stamps {
				if got[i] != stamps[i] {
					t.Errorf("Timestamp %d: expected %d, got %d", i, stamps[i], got[i])
				}
			}
		})
	}
}

func TestTimestampCodec_RegularIntervalIsOneBit(t *testing.T) {
	w := NewBitWriter(64)
	enc := NewTimestampEncoder(7200)

	enc.Encode(w, 1000)
	enc.Encode(w, 1060)

	// Constant delta: every further timestamp is a single '0' bit.
	for i := 2; i < 10; i++ {
		before := w.BitLen()
		enc.Encode(w, uint64(1000+i*60))
		if bits := w.BitLen() - before; bits != 1 {
			t.Errorf("Sample %d: expected 1 bit, got %d", i, bits)
		}
	}
}

func TestTimestampCodec_DodBucketWidths(t *testing.T) {
	// Third sample onward, per the prefix table.
	cases := []struct {
		name   string
		stamps []uint64
		bits   []int
	}{
		{
			name:   "table coverage",
			stamps: []uint64{0, 60, 120, 185, 300, 1000},
			// dods: 0, 5, 50, 585 → 1, 9, 9, 16 bits
			bits: []int{1, 9, 9, 16},
		},
		{
			name:   "negative dod",
			stamps: []uint64{0, 100, 150},
			// dod -50 → '10' bucket
			bits: []int{9},
		},
		{
			name:   "bucket extremes",
			stamps: []uint64{0, 0, 64, 384, 2752},
			// dods: 64, 256, 2048 → 9, 12, 16 bits
			bits: []int{9, 12, 16},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewBitWriter(64)
			enc := NewTimestampEncoder(7200)
			enc.Encode(w, c.stamps[0])
			enc.Encode(w, c.stamps[1])
			for i, ts := range c.stamps[2:] {
				before := w.BitLen()
				enc.Encode(w, ts)
				if bits := w.BitLen() - before; bits != c.bits[i] {
					t.Errorf("Sample %d: expected %d bits, got %d", i+2, c.bits[i], bits)
				}
			}

			got := decodeTimestamps(t, 7200, w.Bytes(), len(c.stamps))
			for i := range c.stamps {
				if got[i] != c.stamps[i] {
					t.Errorf("Timestamp %d: expected %d, got %d", i, c.stamps[i], got[i])
				}
			}
		})
	}
}

func TestTimestampCodec_LargeDodFallback(t *testing.T) {
	// dod far outside the 12-bit bucket takes the 36-bit escape.
	stamps := []uint64{0, 1, 5001}
	w := encodeTimestamps(t, 7200, stamps)

	got := decodeTimestamps(t, 7200, w.Bytes(), len(stamps))
	for i := range stamps {
		if got[i] != stamps[i] {
			t.Errorf("Timestamp %d: expected %d, got %d", i, stamps[i], got[i])
		}
	}
}

func TestDeltaBits(t *testing.T) {
	cases := []struct {
		window uint64
		want   uint8
	}{
		{7200, 14},
		{60, 14},     // floor at 14
		{16384, 14},  // 2^14 still fits: delta < window
		{16385, 15},  // wider window widens the field
		{86400, 17},
	}
	for _, c := range cases {
		if got := DeltaBits(c.window); got != c.want {
			t.Errorf("DeltaBits(%d): expected %d, got %d", c.window, c.want, got)
		}
	}
}
