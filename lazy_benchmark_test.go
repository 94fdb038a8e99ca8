package lazy_test

import (
	"fmt"
	"sync"
	"testing"

	lazy "github.com/probablyarth/lazy-go"
	"golang.org/x/sync/singleflight"
)

var benchKey = lazy.NewKey[string]("bench")

// ---------------------------------------------------------------------------
// Single-goroutine benchmarks: measure per-call latency.
// ---------------------------------------------------------------------------

// How fast is the settled fast path of the bare gate (one atomic load)?
func BenchmarkOnceSettled(b *testing.B) {
	var gate lazy.Once
	gate.Do(func() error { return nil })

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gate.Do(func() error { return nil })
	}
}

// How fast is reading an already initialized cell?
func BenchmarkValueSettled(b *testing.B) {
	var cell lazy.Value[string]
	cell.Get(func() (string, error) { return "v", nil })

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cell.Get(func() (string, error) { return "v", nil })
	}
}

// How fast is a registry hit (RLock + map lookup)?
func BenchmarkRegistryHit(b *testing.B) {
	r := lazy.NewRegistry()
	lazy.Get(r, benchKey, func() (string, error) { return "v", nil })

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lazy.Get(r, benchKey, func() (string, error) { return "v", nil })
	}
}

// How fast is a first resolution (singleflight + write)?
func BenchmarkRegistryFirstGet(b *testing.B) {
	keys := make([]lazy.Key[string], b.N)
	for i := range keys {
		keys[i] = lazy.NewKey[string](fmt.Sprintf("bench-%d", i))
	}

	r := lazy.NewRegistry()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lazy.Get(r, keys[i], func() (string, error) { return "v", nil })
	}
}

// ---------------------------------------------------------------------------
// Concurrent benchmarks: measure throughput under contention.
// ---------------------------------------------------------------------------

// 1000 goroutines all reading one fresh cell. One producer run; the rest
// wait and share the result.
func BenchmarkConcurrent_SameCell(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var cell lazy.Value[string]
		var wg sync.WaitGroup
		wg.Add(1000)
		for j := 0; j < 1000; j++ {
			go func() {
				defer wg.Done()
				cell.Get(func() (string, error) { return "v", nil })
			}()
		}
		wg.Wait()
	}
}

// 1000 goroutines all resolving the same registry key for the first time.
func BenchmarkConcurrent_SameKey(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r := lazy.NewRegistry()
		var wg sync.WaitGroup
		wg.Add(1000)
		for j := 0; j < 1000; j++ {
			go func() {
				defer wg.Done()
				lazy.Get(r, benchKey, func() (string, error) { return "v", nil })
			}()
		}
		wg.Wait()
	}
}

// 1000 goroutines sharing 100 registry keys. Mix of first gets, in-flight
// sharing, and hits.
func BenchmarkConcurrent_MixedKeys(b *testing.B) {
	keys := make([]lazy.Key[string], 100)
	for i := range keys {
		keys[i] = lazy.NewKey[string](fmt.Sprintf("%d", i))
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r := lazy.NewRegistry()
		var wg sync.WaitGroup
		wg.Add(1000)
		for j := 0; j < 1000; j++ {
			go func(j int) {
				defer wg.Done()
				lazy.Get(r, keys[j%100], func() (string, error) { return "v", nil })
			}(j)
		}
		wg.Wait()
	}
}

// b.RunParallel: settled cell under true parallel reader contention.
func BenchmarkParallel_ValueSettled(b *testing.B) {
	var cell lazy.Value[string]
	cell.Get(func() (string, error) { return "v", nil })

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			cell.Get(func() (string, error) { return "v", nil })
		}
	})
}

// ---------------------------------------------------------------------------
// Singleflight comparison: raw singleflight never settles, so every
// iteration pays for a fresh flight. The registry settles once and then
// serves hits.
// ---------------------------------------------------------------------------

func BenchmarkSingleflight_SameKey(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var g singleflight.Group
		var wg sync.WaitGroup
		wg.Add(1000)
		for j := 0; j < 1000; j++ {
			go func() {
				defer wg.Done()
				g.Do("k", func() (any, error) { return "v", nil })
			}()
		}
		wg.Wait()
	}
}

func BenchmarkSingleflight_MixedKeys(b *testing.B) {
	keys := make([]string, 100)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var g singleflight.Group
		var wg sync.WaitGroup
		wg.Add(1000)
		for j := 0; j < 1000; j++ {
			go func(j int) {
				defer wg.Done()
				g.Do(keys[j%100], func() (any, error) { return "v", nil })
			}(j)
		}
		wg.Wait()
	}
}
