package storage

import (
	"fmt"
	"math"
	"testing"
)

func newTestMap(t *testing.T) *TSMap {
	t.Helper()
	m, err := NewTSMap(7200)
	if err != nil {
		t.Fatalf("NewTSMap failed: %v", err)
	}
	return m
}

func TestNewTSMap_InvalidWindow(t *testing.T) {
	if _, err := NewTSMap(0); err != ErrInvalidWindow {
		t.Errorf("Expected ErrInvalidWindow, got %v", err)
	}
}

func TestTSMap_InsertAndQuery(t *testing.T) {
	m := newTestMap(t)

	base := uint64(1700000000)
	if err := m.Insert("server1.cpu.usage", base, 45.2); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := m.Insert("server1.cpu.usage", base+60, 46.1); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got := m.Query("server1.cpu.usage", base, base+60)
	if len(got) != 2 {
		t.Fatalf("Expected 2 samples, got %d", len(got))
	}

	if got := m.Query("unknown", 0, math.MaxUint64); got != nil {
		t.Errorf("Unknown key must return nothing, got %+v", got)
	}
}

func TestTSMap_IndependentSeries(t *testing.T) {
	m := newTestMap(t)

	// Out-of-order is per series, not global.
	if err := m.Insert("a", 1000, 1.0); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := m.Insert("b", 500, 2.0); err != nil {
		t.Errorf("Series must have independent ordering, got %v", err)
	}
	if err := m.Insert("a", 999, 3.0); err != ErrOutOfOrder {
		t.Errorf("Expected ErrOutOfOrder, got %v", err)
	}
}

func TestTSMap_DeleteAndReinsert(t *testing.T) {
	m := newTestMap(t)

	if err := m.Insert("k", 100, 1.0); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if !m.Delete("k") {
		t.Fatal("Expected Delete to report the key present")
	}
	if m.Delete("k") {
		t.Error("Second delete must report absent")
	}

	// Insert after delete is rejected; query is empty.
	if err := m.Insert("k", 200, 2.0); err != ErrTombstoned {
		t.Errorf("Expected ErrTombstoned, got %v", err)
	}
	if got := m.Query("k", 0, math.MaxUint64); got != nil {
		t.Errorf("Deleted key must return nothing, got %+v", got)
	}
}

func TestTSMap_DeleteDoesNotReuseSlots(t *testing.T) {
	m := newTestMap(t)

	if err := m.Insert("a", 1, 1.0); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	m.Delete("a")
	if err := m.Insert("b", 1, 2.0); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// The tombstoned slot stays in the vector; the new series gets a fresh
	// slot after it.
	if len(m.series) != 2 {
		t.Errorf("Expected 2 slots (tombstone retained), got %d", len(m.series))
	}
	if m.index["b"] != 1 {
		t.Errorf("Expected series b at slot 1, got %d", m.index["b"])
	}
}

func TestTSMap_Scan(t *testing.T) {
	m := newTestMap(t)

	inserted := map[string][]Sample{
		"a": {{100, 1.0}, {200, 2.0}},
		"b": {{50, 3.0}},
		"c": {{10, 4.0}, {20, 5.0}, {30, 6.0}},
	}
	for _, key := range []string{"a", "b", "c"} {
		for _, s := range inserted[key] {
			if err := m.Insert(key, s.TS, s.Value); err != nil {
				t.Fatalf("Insert failed: %v", err)
			}
		}
	}
	m.Delete("b")

	seen := make(map[string][]Sample)
	var order []string
	m.Scan(func(key string, ts uint64, v float64) {
		if len(seen[key]) == 0 {
			order = append(order, key)
		}
		seen[key] = append(seen[key], Sample{ts, v})
	})

	// Every live triple exactly once, series in creation order.
	if len(order) != 2 || order[0] != "a" || order[1] != "c" {
		t.Errorf("Expected scan order [a c], got %v", order)
	}
	if _, ok := seen["b"]; ok {
		t.Error("Tombstoned series must be skipped by scan")
	}
	for _, key := range []string{"a", "c"} {
		if len(seen[key]) != len(inserted[key]) {
			t.Fatalf("Series %s: expected %d samples, got %d", key, len(inserted[key]), len(seen[key]))
		}
		for i, s := range inserted[key] {
			if seen[key][i] != s {
				t.Errorf("Series %s sample %d: expected %+v, got %+v", key, i, s, seen[key][i])
			}
		}
	}
}

func TestTSMap_CountPoints(t *testing.T) {
	m := newTestMap(t)

	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("series%d", i)
		for j := uint64(0); j < 10; j++ {
			if err := m.Insert(key, j*60, float64(j)); err != nil {
				t.Fatalf("Insert failed: %v", err)
			}
		}
	}
	if got := m.CountPoints(); got != 30 {
		t.Errorf("Expected 30 points, got %d", got)
	}

	m.Delete("series1")
	if got := m.CountPoints(); got != 20 {
		t.Errorf("Expected 20 points after delete, got %d", got)
	}
}

func TestTSMap_CompressedBytes(t *testing.T) {
	m := newTestMap(t)

	for i := uint64(0); i < 50; i++ {
		if err := m.Insert("k", i*60, 1024.0); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	if got := m.CompressedBytes("k"); got == 0 || got >= 50*16 {
		t.Errorf("Expected compressed size in (0, 800), got %d", got)
	}
	if got := m.CompressedBytes("unknown"); got != 0 {
		t.Errorf("Expected 0 for unknown key, got %d", got)
	}
}

func TestTSMap_Keys(t *testing.T) {
	m := newTestMap(t)
	for _, key := range []string{"x", "y", "z"} {
		if err := m.Insert(key, 1, 1.0); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	m.Delete("y")

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "x" || keys[1] != "z" {
		t.Errorf("Expected [x z], got %v", keys)
	}
	if m.SeriesCount() != 2 {
		t.Errorf("Expected 2 live series, got %d", m.SeriesCount())
	}
}
