// Package anomaly flags outlying values using the interquartile range.
package anomaly

import (
	"sort"

	"github.com/soltixdb/analytics/internal/analytics"
)

const (
	// DefaultMultiplier is the conventional Tukey fence multiplier
	DefaultMultiplier = 1.5

	// MinDataPoints is the smallest sample that quartiles are computed for
	MinDataPoints = 4
)

// Fences are the IQR-based outlier thresholds.
// Values strictly outside [Lower, Upper] are outliers.
type Fences struct {
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	IQR   float64 `json:"iqr"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains reports whether v lies within the fences (inclusive).
func (f Fences) Contains(v float64) bool {
	return v >= f.Lower && v <= f.Upper
}

// CalculateFences computes quartiles and fences for values.
// A multiplier <= 0 falls back to DefaultMultiplier.
func CalculateFences(values []float64, multiplier float64) (Fences, error) {
	if len(values) < MinDataPoints {
		return Fences{}, analytics.NewError(analytics.KindInsufficientData,
			"Not enough data to calculate outliers: need %d values, have %d", MinDataPoints, len(values))
	}
	if multiplier <= 0 {
		multiplier = DefaultMultiplier
	}

	q1, q3, iqr := CalculateIQR(values)
	return Fences{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - multiplier*iqr,
		Upper: q3 + multiplier*iqr,
	}, nil
}

// Outliers returns every value outside the IQR fences, in input order and
// including duplicates.
func Outliers(values []float64, multiplier float64) ([]float64, error) {
	fences, err := CalculateFences(values, multiplier)
	if err != nil {
		return nil, err
	}

	outliers := make([]float64, 0)
	for _, v := range values {
		if !fences.Contains(v) {
			outliers = append(outliers, v)
		}
	}
	return outliers, nil
}

// percentile calculates the p-th percentile of sorted data
// p should be between 0 and 100
func percentile(sortedData []float64, p float64) float64 {
	if len(sortedData) == 0 {
		return 0
	}
	if len(sortedData) == 1 {
		return sortedData[0]
	}

	index := (p / 100) * float64(len(sortedData)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sortedData) {
		return sortedData[len(sortedData)-1]
	}

	// Linear interpolation
	weight := index - float64(lower)
	return sortedData[lower]*(1-weight) + sortedData[upper]*weight
}

// CalculateIQR returns Q1, Q3, and IQR for a slice of values
func CalculateIQR(values []float64) (q1, q3, iqr float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}

	sortedValues := make([]float64, len(values))
	copy(sortedValues, values)
	sort.Float64s(sortedValues)

	q1 = percentile(sortedValues, 25)
	q3 = percentile(sortedValues, 75)
	iqr = q3 - q1

	return q1, q3, iqr
}
