// Package analytics provides scan-based analytics over the series store.
// These are thin layers over the store's query and scan contracts.
package analytics

import (
	"math"
	"sort"

	"github.com/soltixdb/gorillastore/internal/storage"
)

// SampleSource is the store view a correlation scan needs.
type SampleSource interface {
	Keys() []string
	Query(key string, lo, hi uint64) []storage.Sample
}

// Correlation is one scored series from a correlation scan.
type Correlation struct {
	Key         string  `json:"key"`
	Coefficient float64 `json:"coefficient"`
}

// FindCorrelated scores every other series against the needle series over
// [lo, hi] using the Pearson product-moment correlation coefficient and
// returns the topN strongest matches by absolute coefficient. Series whose
// sample count differs from the needle's are skipped; correlation over
// misaligned windows is not meaningful.
func FindCorrelated(src SampleSource, needleKey string, lo, hi uint64, topN int) []Correlation {
	needle := src.Query(needleKey, lo, hi)
	if len(needle) == 0 || topN <= 0 {
		return nil
	}

	var results []Correlation
	for _, key := range src.Keys() {
		if key == needleKey {
			continue
		}
		candidate := src.Query(key, lo, hi)
		if len(candidate) != len(needle) {
			continue
		}
		results = append(results, Correlation{
			Key:         key,
			Coefficient: Pearson(needle, candidate),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return math.Abs(results[i].Coefficient) > math.Abs(results[j].Coefficient)
	})
	if len(results) > topN {
		results = results[:topN]
	}
	return results
}

// Pearson computes the Pearson correlation coefficient of two equal-length
// sample slices. Returns 0 for empty input or when either side has zero
// variance.
func Pearson(a, b []storage.Sample) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	n := float64(len(a))

	var meanA, meanB float64
	for i := range a {
		meanA += a[i].Value
		meanB += b[i].Value
	}
	meanA /= n
	meanB /= n

	var num, sqA, sqB float64
	for i := range a {
		da := a[i].Value - meanA
		db := b[i].Value - meanB
		num += da * db
		sqA += da * da
		sqB += db * db
	}

	denom := math.Sqrt(sqA * sqB)
	if denom == 0 {
		return 0
	}
	return num / denom
}
