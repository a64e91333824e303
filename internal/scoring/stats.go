package scoring

import (
	"math"
	"sort"
	"strconv"
)

// Absent numeric values travel as NaN inside the scorer, the way a
// coerced column carries them, and serialize back to empty cells.

func round2(x float64) float64 {
	if math.IsNaN(x) {
		return x
	}
	return math.Round(x*100) / 100
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// mean of the non-NaN values; NaN when none remain.
func mean(xs []float64) float64 {
	sum, n := 0.0, 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// sampleStd is the n-1 standard deviation of the non-NaN values; NaN when
// fewer than two remain.
func sampleStd(xs []float64) float64 {
	m := mean(xs)
	if math.IsNaN(m) {
		return math.NaN()
	}
	sum, n := 0.0, 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		d := x - m
		sum += d * d
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	return math.Sqrt(sum / float64(n-1))
}

// quantile computes the q-th quantile with linear interpolation between
// order statistics. NaN inputs must be filtered by the caller.
func quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// fmtFloat renders a value for the output table; absent values become
// empty cells.
func fmtFloat(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
