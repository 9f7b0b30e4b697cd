package analyzer

import (
	"math"
	"sort"

	"github.com/pivolan/sales_analyzer/domain/models"
)

// calculateQuantile returns the p-quantile of sorted using linear
// interpolation between the two closest ranks.
func calculateQuantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}

	pos := p * float64(len(sorted)-1)
	floor := math.Floor(pos)
	ceil := math.Ceil(pos)

	if floor == ceil {
		return sorted[int(pos)]
	}

	lower := sorted[int(floor)]
	upper := sorted[int(ceil)]
	fraction := pos - floor

	return lower + fraction*(upper-lower)
}

// describe computes count, mean, sample standard deviation, min, quartiles
// and max. An empty input yields Count 0 and NaN everywhere else; a single
// value has a NaN deviation.
func describe(numbers []float64) models.ColumnStats {
	if len(numbers) == 0 {
		nan := math.NaN()
		return models.ColumnStats{Mean: nan, Std: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	}

	sorted := make([]float64, len(numbers))
	copy(sorted, numbers)
	sort.Float64s(sorted)

	sum := 0.0
	for _, num := range numbers {
		sum += num
	}
	mean := sum / float64(len(numbers))

	std := math.NaN()
	if len(numbers) > 1 {
		squares := 0.0
		for _, num := range numbers {
			squares += (num - mean) * (num - mean)
		}
		std = math.Sqrt(squares / float64(len(numbers)-1))
	}

	return models.ColumnStats{
		Count:  len(numbers),
		Mean:   mean,
		Std:    std,
		Min:    sorted[0],
		Q1:     calculateQuantile(sorted, 0.25),
		Median: calculateQuantile(sorted, 0.5),
		Q3:     calculateQuantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}
