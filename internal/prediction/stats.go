package prediction

import "math"

// mean returns the arithmetic mean, or 0 for an empty series.
func mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// sampleStd returns the sample standard deviation (n-1 denominator), or 0 for
// fewer than two observations.
func sampleStd(series []float64) float64 {
	n := len(series)
	if n < 2 {
		return 0
	}
	m := mean(series)
	var sum float64
	for _, v := range series {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}

// slope returns the first-degree least-squares slope of the series against its
// sequence index, or 0 for fewer than two observations.
func slope(series []float64) float64 {
	n := len(series)
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (fn*sumXY - sumX*sumY) / denom
}
