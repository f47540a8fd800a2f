// Package parallel splits data-independent loops across goroutines. Compute
// kernels use it for per-matrix and per-line work where every iteration
// writes a disjoint region of the output.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls whether and how a loop is split.
type Config struct {
	Enabled bool // Whether goroutines are spawned at all.
	Workers int  // Upper bound on concurrent goroutines.
	MinPer  int  // Iterations each goroutine must receive for splitting to pay off.
}

// Default returns a config sized to the machine with a per-worker floor
// suitable for coarse work items (one FFT line or one matrix product per
// iteration).
func Default() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled: n > 1,
		Workers: n,
		MinPer:  4,
	}
}

// Chunks partitions [0, n) into contiguous ranges and calls f once per
// range, concurrently when the config allows. f may allocate scratch per
// range; iterations in different ranges must not share mutable state.
// Falls back to a single sequential call when n is too small to split.
func Chunks(n int, cfg Config, f func(start, end int)) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || cfg.Workers <= 1 || n < 2*cfg.MinPer {
		f(0, n)
		return
	}

	size := (n + cfg.Workers - 1) / cfg.Workers
	if size < cfg.MinPer {
		size = cfg.MinPer
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}

// For executes f(i) for every i in [0, n) via Chunks.
func For(n int, cfg Config, f func(i int)) {
	Chunks(n, cfg, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	})
}
