// Package stats provides the small numeric helpers the pivot selector
// needs: mode, median and harmonic mean. Ported from pypred/util.py.
package stats

import "sort"

// Mode returns the most common value in vals. Ties are broken by whichever
// value is encountered first during iteration order of the input slice,
// matching the source's dict-iteration tie-break closely enough for
// determinism (callers pass values in a stable, caller-determined order).
func Mode(vals []interface{}) interface{} {
	counts := make(map[interface{}]int)
	order := make([]interface{}, 0, len(vals))
	for _, v := range vals {
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	var best interface{}
	max := 0
	for _, v := range order {
		if counts[v] > max {
			max = counts[v]
			best = v
		}
	}
	return best
}

// MedianFloat64 returns the median of a slice of float64 values using the
// same "sort, take the middle index" rule as util.py's median (for even
// length this is the upper-middle element, not an interpolated average).
func MedianFloat64(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// HarmonicMean returns the harmonic mean of vals. Any zero value makes the
// mean degenerate (matching the source, which crashes on zero); callers
// must never pass a zero frequency.
func HarmonicMean(vals []float64) float64 {
	n := float64(len(vals))
	invSum := 0.0
	for _, v := range vals {
		invSum += 1.0 / v
	}
	return 1.0 / ((1.0 / n) * invSum)
}
