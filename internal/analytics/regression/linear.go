// Package regression fits single-predictor ordinary least squares lines.
package regression

import (
	"github.com/soltixdb/analytics/internal/analytics"
	"gonum.org/v1/gonum/stat"
)

// MinDataPoints is the smallest number of (x, y) pairs a fit accepts.
const MinDataPoints = 2

// Model is a fitted line y = Slope*x + Intercept.
type Model struct {
	Slope      float64 `json:"slope"`
	Intercept  float64 `json:"intercept"`
	DataPoints int     `json:"data_points"`
}

// Fit computes the least squares line through the paired samples.
// When every x is identical the slope is 0 and the intercept is mean(y).
func Fit(x, y []float64) (*Model, error) {
	if len(x) != len(y) {
		return nil, analytics.NewError(analytics.KindLengthMismatch,
			"x and y must have the same length: got %d and %d", len(x), len(y))
	}
	if len(x) < MinDataPoints {
		return nil, analytics.NewError(analytics.KindInsufficientData,
			"Not enough data for prediction: need %d points, have %d", MinDataPoints, len(x))
	}

	if constant(x) {
		return &Model{
			Slope:      0,
			Intercept:  stat.Mean(y, nil),
			DataPoints: len(x),
		}, nil
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	return &Model{
		Slope:      slope,
		Intercept:  intercept,
		DataPoints: len(x),
	}, nil
}

// Predict evaluates the line at each query point, in order.
func (m *Model) Predict(points []float64) []float64 {
	predictions := make([]float64, len(points))
	for i, p := range points {
		predictions[i] = m.Slope*p + m.Intercept
	}
	return predictions
}

// constant reports whether all values are equal
func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
