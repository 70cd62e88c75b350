// Package cmap provides a concurrent-safe sharded map keyed by string.
package cmap

import (
	"fmt"
	"sync"
	"testing"
)

func TestMapBasicOperations(t *testing.T) {
	m := New[int]()

	m.Set("a", 1)
	m.Set("b", 2)

	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v, want 1, true", v, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get on missing key should return false")
	}
	if !m.Has("b") {
		t.Error("Has(b) should be true")
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}

	m.Delete("a")
	if m.Has("a") {
		t.Error("deleted key should be gone")
	}
}

func TestMapSetIfAbsent(t *testing.T) {
	m := New[string]()

	if !m.SetIfAbsent("k", "first") {
		t.Error("SetIfAbsent on empty key should succeed")
	}
	if m.SetIfAbsent("k", "second") {
		t.Error("SetIfAbsent on existing key should fail")
	}
	if v, _ := m.Get("k"); v != "first" {
		t.Errorf("value = %q, want %q", v, "first")
	}
}

func TestMapPop(t *testing.T) {
	m := New[int]()
	m.Set("k", 7)

	if v, ok := m.Pop("k"); !ok || v != 7 {
		t.Errorf("Pop(k) = %d, %v, want 7, true", v, ok)
	}
	if _, ok := m.Pop("k"); ok {
		t.Error("second Pop should find nothing")
	}
}

func TestMapRange(t *testing.T) {
	m := New[int]()
	for i := 0; i < 50; i++ {
		m.Set(fmt.Sprintf("key-%d", i), i)
	}

	seen := make(map[string]bool)
	m.Range(func(k string, _ int) bool {
		seen[k] = true
		return true
	})
	if len(seen) != 50 {
		t.Errorf("Range visited %d keys, want 50", len(seen))
	}

	// Early stop.
	count := 0
	m.Range(func(string, int) bool {
		count++
		return count < 10
	})
	if count != 10 {
		t.Errorf("Range with early stop visited %d, want 10", count)
	}
}

func TestMapValues(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)
	m.Set("b", 2)

	values := m.Values()
	if len(values) != 2 {
		t.Fatalf("Values() length = %d, want 2", len(values))
	}
	if values[0]+values[1] != 3 {
		t.Errorf("Values() = %v, want {1,2} in some order", values)
	}
}

func TestMapClear(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)
	m.Clear()
	if m.Count() != 0 {
		t.Errorf("Count() after Clear = %d, want 0", m.Count())
	}
}

func TestNewWithShards_InvalidCounts(t *testing.T) {
	for _, n := range []int{-1, 0, 3, 100} {
		m := NewWithShards[int](n)
		if len(m.shards) != DefaultShardCount {
			t.Errorf("NewWithShards(%d) shards = %d, want default %d", n, len(m.shards), DefaultShardCount)
		}
	}

	m := NewWithShards[int](64)
	if len(m.shards) != 64 {
		t.Errorf("NewWithShards(64) shards = %d, want 64", len(m.shards))
	}
}

func TestMapConcurrentAccess(t *testing.T) {
	m := New[int]()
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("g%d-i%d", g, i)
				m.Set(key, i)
				m.Get(key)
				if i%10 == 0 {
					m.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()

	want := 8 * 90
	if m.Count() != want {
		t.Errorf("Count() = %d, want %d", m.Count(), want)
	}
}
