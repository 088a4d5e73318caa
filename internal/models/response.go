package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status       string `json:"status"`
	Microservice string `json:"microservice"`
	Updated      string `json:"updated"`
}

// PredictionResponse holds one prediction per requested x value
type PredictionResponse struct {
	Prediction []float64 `json:"prediction"`
}

// FuturePredictionResponse maps each requested year to its predicted value
type FuturePredictionResponse struct {
	PredictedValues map[string]float64 `json:"predicted_values"`
}

// AverageByAttributeResponse maps group key to mean value
type AverageByAttributeResponse struct {
	AverageValues map[string]float64 `json:"average_values"`
}

// MedianByAttributeResponse maps group key to median value
type MedianByAttributeResponse struct {
	MedianValues map[string]float64 `json:"median_values"`
}

// MinMaxResponse names the groups with the highest and lowest mean value
type MinMaxResponse struct {
	MaximumAttribute string  `json:"maximum_attribute"`
	MaximumValue     float64 `json:"maximum_value"`
	MinimumAttribute string  `json:"minimum_attribute"`
	MinimumValue     float64 `json:"minimum_value"`
}

// HighestValueResponse represents highest value response
type HighestValueResponse struct {
	HighestValue float64 `json:"highest_value"`
}

// LowestValueResponse represents lowest value response
type LowestValueResponse struct {
	LowestValue float64 `json:"lowest_value"`
}

// MedianValueResponse represents median value response
type MedianValueResponse struct {
	MedianValue float64 `json:"median_value"`
}

// OutliersResponse lists values outside the IQR fences, in input order
type OutliersResponse struct {
	Outliers []float64 `json:"outliers"`
}

// CountByTimeResponse maps bucket key to event count
type CountByTimeResponse struct {
	CountsByTime map[string]int `json:"counts_by_time"`
}

// GrowthResponse represents value growth response (percent)
type GrowthResponse struct {
	GrowthRate float64 `json:"growth_rate"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
