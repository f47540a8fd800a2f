package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForVisitsEveryIndex(t *testing.T) {
	cfg := Default()

	n := 1000
	seen := make([]int32, n)
	For(n, cfg, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	})

	for i, count := range seen {
		if count != 1 {
			t.Errorf("index %d visited %d times, want 1", i, count)
		}
	}
}

func TestChunksCoverRangeExactly(t *testing.T) {
	cfg := Config{Enabled: true, Workers: 4, MinPer: 3}

	n := 103
	seen := make([]int32, n)
	Chunks(n, cfg, func(start, end int) {
		if start >= end {
			t.Errorf("empty chunk [%d, %d)", start, end)
		}
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	})

	for i, count := range seen {
		if count != 1 {
			t.Errorf("index %d covered %d times, want 1", i, count)
		}
	}
}

func TestChunksSequentialFallback(t *testing.T) {
	cfg := Config{Enabled: false}

	calls := 0
	Chunks(50, cfg, func(start, end int) {
		calls++
		if start != 0 || end != 50 {
			t.Errorf("sequential fallback got [%d, %d), want [0, 50)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("sequential fallback made %d calls, want 1", calls)
	}
}

func TestChunksSmallRangeStaysSequential(t *testing.T) {
	cfg := Default()

	calls := 0
	Chunks(2*cfg.MinPer-1, cfg, func(start, end int) {
		calls++
	})
	if calls != 1 {
		t.Errorf("small range made %d calls, want 1", calls)
	}
}

func TestChunksZeroLength(t *testing.T) {
	Chunks(0, Default(), func(start, end int) {
		t.Errorf("unexpected chunk [%d, %d) for n=0", start, end)
	})
}

func BenchmarkFor(b *testing.B) {
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		cfg := Default()
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, cfg, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			})
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfg := Config{Enabled: false}
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, cfg, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			})
		}
	})
}
