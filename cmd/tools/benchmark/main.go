// Command benchmark drives the series store in-process and reports insert
// throughput and compression efficiency for one flag-configured sample shape.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/soltixdb/gorillastore/internal/analytics"
	"github.com/soltixdb/gorillastore/internal/storage"
)

func main() {
	numSeries := flag.Int("series", 100, "number of series to write")
	numSamples := flag.Int("samples", 10000, "samples per series")
	intervalFlag := flag.Uint64("interval", 60, "seconds between samples")
	blockSeconds := flag.Uint64("block-seconds", storage.DefaultBlockSeconds, "block window duration")
	jitter := flag.Float64("jitter", 0.05, "relative value jitter (0 = constant values)")
	flag.Parse()

	interval := *intervalFlag

	store, err := storage.NewStore(*blockSeconds, storage.DefaultShards)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create store: %v\n", err)
		os.Exit(1)
	}

	base := uint64(time.Now().Unix())
	rng := rand.New(rand.NewSource(42))

	start := time.Now()
	total := 0
	for s := 0; s < *numSeries; s++ {
		key := fmt.Sprintf("host%03d.cpu.usage", s)
		value := 40.0 + rng.Float64()*20
		for i := 0; i < *numSamples; i++ {
			ts := base + uint64(i)*interval
			if *jitter > 0 {
				value += (rng.Float64() - 0.5) * *jitter * value
			}
			if err := store.Insert(key, ts, value); err != nil {
				fmt.Fprintf(os.Stderr, "insert failed: %v\n", err)
				os.Exit(1)
			}
			total++
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("Inserted %d samples across %d series in %v (%.0f samples/s)\n",
		total, *numSeries, elapsed.Round(time.Millisecond),
		float64(total)/elapsed.Seconds())

	// Compression report for the first series
	key := "host000.cpu.usage"
	compressed := store.CompressedBytes(key)
	points := store.PointCount(key)
	raw := points * 16
	fmt.Printf("\nSeries %s:\n", key)
	fmt.Printf("  points:           %d\n", points)
	fmt.Printf("  raw bytes:        %d\n", raw)
	fmt.Printf("  compressed bytes: %d\n", compressed)
	fmt.Printf("  bytes/sample:     %.2f\n", float64(compressed)/float64(points))
	fmt.Printf("  ratio:            %.1fx\n", float64(raw)/float64(compressed))

	// Range query timing over the full span
	qStart := time.Now()
	samples := store.Query(key, base, base+uint64(*numSamples)*interval)
	fmt.Printf("\nQueried %d samples in %v\n", len(samples), time.Since(qStart).Round(time.Microsecond))

	// Correlation scan against the first series
	if *numSeries > 1 {
		cStart := time.Now()
		results := analytics.FindCorrelated(store, key, 0, math.MaxUint64, 5)
		fmt.Printf("\nTop correlations against %s (%v):\n", key, time.Since(cStart).Round(time.Millisecond))
		for _, r := range results {
			fmt.Printf("  %-24s %+.4f\n", r.Key, r.Coefficient)
		}
	}
}
