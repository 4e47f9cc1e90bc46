package analysis

import (
	"math"

	"github.com/go-gota/gota/series"
)

// RollingMean returns the trailing mean of values over window samples. Entries
// are nil until window samples are available or when the window holds a NaN.
func RollingMean(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window < 1 || len(values) == 0 {
		return out
	}
	means := series.Floats(values).Rolling(window).Mean().Float()
	for i, mean := range means {
		if math.IsNaN(mean) {
			continue
		}
		out[i] = &mean
	}
	return out
}

// TailMean returns the mean of the last n values, skipping NaN. n <= 0 or n
// larger than len(values) averages everything.
func TailMean(values []float64, n int) float64 {
	if n > 0 && n < len(values) {
		values = values[len(values)-n:]
	}
	var sum float64
	var count int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}
