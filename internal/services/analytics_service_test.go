package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/soltixdb/analytics/internal/analytics"
	"github.com/soltixdb/analytics/internal/logging"
	"github.com/soltixdb/analytics/internal/metrics"
	"github.com/soltixdb/analytics/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *AnalyticsService {
	return NewAnalyticsService(metrics.NewManager(), 1.5)
}

func sale(ts string, attrs map[string]interface{}) models.Event {
	return models.Event{
		TimeObject: models.TimeObject{Timestamp: ts},
		EventType:  "sale",
		Attribute:  attrs,
	}
}

func requireServiceError(t *testing.T, err error, code string) *ServiceError {
	t.Helper()
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr), "expected *ServiceError, got %T: %v", err, err)
	assert.Equal(t, code, svcErr.Code)
	return svcErr
}

func TestNewAnalyticsService_DefaultMultiplier(t *testing.T) {
	svc := NewAnalyticsService(nil, 0)
	assert.Equal(t, 1.5, svc.iqrMultiplier)
}

func TestPredict(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Predict(context.Background(), &models.PredictRequest{
		Data: []models.Event{
			sale("2023-06-01", map[string]interface{}{"sqft": 1500.0, "price": 300000.0}),
			sale("2023-07-01", map[string]interface{}{"sqft": 2000.0, "price": 400000.0}),
		},
		XAttribute: "sqft",
		YAttribute: "price",
		XValues:    []float64{1800, 1900},
	})
	require.NoError(t, err)
	require.Len(t, resp.Prediction, 2)
	assert.InDelta(t, 360000.0, resp.Prediction[0], 1e-6)
	assert.InDelta(t, 380000.0, resp.Prediction[1], 1e-6)
}

func TestPredict_MissingAttributes(t *testing.T) {
	svc := newTestService()

	_, err := svc.Predict(context.Background(), &models.PredictRequest{
		Data:       []models.Event{sale("", map[string]interface{}{})},
		XAttribute: "missing_x",
		YAttribute: "missing_y",
		XValues:    []float64{1, 2, 3},
	})
	svcErr := requireServiceError(t, err, "INSUFFICIENT_DATA")
	assert.Contains(t, svcErr.Message, "Not enough data for prediction")
	assert.Equal(t, OpPredict, svcErr.Details["operation"])
}

func TestPredictFuture(t *testing.T) {
	svc := newTestService()

	resp, err := svc.PredictFuture(context.Background(), &models.FuturePredictionRequest{
		Data: []models.Event{
			sale("2020-06-01", map[string]interface{}{"price": 300000.0}),
			sale("2021-06-01", map[string]interface{}{"price": 350000.0}),
			sale("2022-06-01", map[string]interface{}{"price": 400000.0}),
			sale("2023-06-01T10:00:00", map[string]interface{}{"price": 450000.0}),
		},
		ValueAttribute: "price",
		TimePoints:     []int{2025, 2026, 2027},
	})
	require.NoError(t, err)
	require.Len(t, resp.PredictedValues, 3)
	assert.InDelta(t, 550000.0, resp.PredictedValues["2025"], 1e-3)
	assert.InDelta(t, 600000.0, resp.PredictedValues["2026"], 1e-3)
	assert.InDelta(t, 650000.0, resp.PredictedValues["2027"], 1e-3)
}

func TestPredictFuture_NoTimePoints(t *testing.T) {
	svc := newTestService()

	resp, err := svc.PredictFuture(context.Background(), &models.FuturePredictionRequest{
		Data: []models.Event{
			sale("2020-06-01", map[string]interface{}{"price": 300000.0}),
			sale("2021-06-01", map[string]interface{}{"price": 350000.0}),
		},
		ValueAttribute: "price",
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.PredictedValues)
	assert.Empty(t, resp.PredictedValues)
}

func TestPredictFuture_NotEnoughData(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name string
		data []models.Event
	}{
		{"single event", []models.Event{sale("2024-01-01", map[string]interface{}{"price": 500000.0})}},
		{"empty data", nil},
		{"missing value", []models.Event{
			sale("2020-06-01", map[string]interface{}{}),
			sale("2021-06-01", map[string]interface{}{"price": 350000.0}),
		}},
		{"missing timestamp", []models.Event{
			sale("", map[string]interface{}{"price": 300000.0}),
			sale("2021-06-01", map[string]interface{}{"price": 350000.0}),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PredictFuture(context.Background(), &models.FuturePredictionRequest{
				Data:           tt.data,
				ValueAttribute: "price",
				TimePoints:     []int{2025},
			})
			svcErr := requireServiceError(t, err, "INSUFFICIENT_DATA")
			assert.Contains(t, svcErr.Message, "Not enough data for prediction")
		})
	}
}

func TestPredictFuture_InvalidTimestamp(t *testing.T) {
	svc := newTestService()

	_, err := svc.PredictFuture(context.Background(), &models.FuturePredictionRequest{
		Data: []models.Event{
			sale("not-a-date", map[string]interface{}{"price": 1.0}),
			sale("2021-06-01", map[string]interface{}{"price": 2.0}),
		},
		ValueAttribute: "price",
		TimePoints:     []int{2025},
	})
	requireServiceError(t, err, "INVALID_TIMESTAMP")
}

func TestAverageAndMedianByAttribute(t *testing.T) {
	svc := newTestService()
	req := &models.GroupRequest{
		Data: []models.Event{
			sale("2023-06-01", map[string]interface{}{"suburb": "Downtown", "price": 500000.0}),
			sale("2023-07-01", map[string]interface{}{"suburb": "Downtown", "price": 700000.0}),
			sale("2023-08-01", map[string]interface{}{"suburb": "Downtown", "price": 600000.0}),
			sale("2023-08-01", map[string]interface{}{"suburb": "Uptown", "price": 100.0}),
			sale("2023-08-01", map[string]interface{}{"price": 1.0}),
		},
		GroupByAttribute: "suburb",
		ValueAttribute:   "price",
	}

	avg, err := svc.AverageByAttribute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Downtown": 600000, "Uptown": 100}, avg.AverageValues)

	med, err := svc.MedianByAttribute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Downtown": 600000, "Uptown": 100}, med.MedianValues)
}

func TestGroupOperations_NoValidData(t *testing.T) {
	svc := newTestService()
	req := &models.GroupRequest{
		Data:             []models.Event{sale("", map[string]interface{}{})},
		GroupByAttribute: "suburb",
		ValueAttribute:   "price",
	}

	_, err := svc.AverageByAttribute(context.Background(), req)
	svcErr := requireServiceError(t, err, "NO_VALID_DATA")
	assert.Contains(t, svcErr.Message, "No valid data found")

	_, err = svc.MedianByAttribute(context.Background(), req)
	requireServiceError(t, err, "NO_VALID_DATA")

	_, err = svc.MinMaxByAttribute(context.Background(), req)
	requireServiceError(t, err, "NO_VALID_DATA")
}

func TestMinMaxByAttribute(t *testing.T) {
	svc := newTestService()

	resp, err := svc.MinMaxByAttribute(context.Background(), &models.GroupRequest{
		Data: []models.Event{
			sale("2023-01-01", map[string]interface{}{"suburb": "Rhodes", "price": 700000.0}),
			sale("2023-01-01", map[string]interface{}{"suburb": "Darlinghurst", "price": 1200000.0}),
			sale("2023-01-01", map[string]interface{}{"suburb": "Darlinghurst", "price": 1000000.0}),
			sale("2023-01-01", map[string]interface{}{"suburb": "Balmain", "price": 900000.0}),
		},
		GroupByAttribute: "suburb",
		ValueAttribute:   "price",
	})
	require.NoError(t, err)
	assert.Equal(t, "Darlinghurst", resp.MaximumAttribute)
	assert.Equal(t, 1100000.0, resp.MaximumValue)
	assert.Equal(t, "Rhodes", resp.MinimumAttribute)
	assert.Equal(t, 700000.0, resp.MinimumValue)
}

func TestGroupOperations_MixedKeyKinds(t *testing.T) {
	svc := newTestService()
	req := &models.GroupRequest{
		Data: []models.Event{
			sale("", map[string]interface{}{"g": 1.0, "v": 1.0}),
			sale("", map[string]interface{}{"g": "1", "v": 3.0}),
			sale("", map[string]interface{}{"g": true, "v": 5.0}),
			sale("", map[string]interface{}{"g": "true", "v": 7.0}),
			sale("", map[string]interface{}{"g": 2.0, "v": 9.0}),
		},
		GroupByAttribute: "g",
		ValueAttribute:   "v",
	}

	avg, err := svc.AverageByAttribute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"1 (number)":  1,
		"1":           3,
		"true (bool)": 5,
		"true":        7,
		"2":           9,
	}, avg.AverageValues)

	mm, err := svc.MinMaxByAttribute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "1 (number)", mm.MinimumAttribute)
	assert.Equal(t, 1.0, mm.MinimumValue)
	assert.Equal(t, "2", mm.MaximumAttribute)
	assert.Contains(t, avg.AverageValues, mm.MinimumAttribute)
}

func TestReduceByAttribute_UnknownReducer(t *testing.T) {
	svc := newTestService()

	_, err := svc.reduceByAttribute(context.Background(), OpAverageByAttribute, &models.GroupRequest{
		Data:             []models.Event{sale("", map[string]interface{}{"g": "a", "v": 1.0})},
		GroupByAttribute: "g",
		ValueAttribute:   "v",
	}, analytics.ReducerKind("mode"))
	require.Error(t, err)
	var svcErr *ServiceError
	assert.False(t, errors.As(err, &svcErr))
	assert.Contains(t, err.Error(), "unknown reducer")

	_, err = svc.reduceAttribute(context.Background(), OpMedianValue, &models.AttributeRequest{
		Data:          []models.Event{sale("", map[string]interface{}{"v": 1.0})},
		AttributeName: "v",
	}, analytics.ReducerKind("mode"))
	assert.ErrorContains(t, err, "unknown reducer")
}

func TestComputation_LogsToContextLogger(t *testing.T) {
	svc := newTestService()
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&buf, zerolog.DebugLevel).With("request_id", "req-1"))

	_, err := svc.MedianValue(ctx, &models.AttributeRequest{
		Data:          []models.Event{sale("", map[string]interface{}{"v": 4.0})},
		AttributeName: "v",
	})
	require.NoError(t, err)

	_, err = svc.HighestValue(ctx, &models.AttributeRequest{
		Data:          []models.Event{sale("", map[string]interface{}{})},
		AttributeName: "v",
	})
	requireServiceError(t, err, "NO_VALID_DATA")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var done, rejected map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &done))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rejected))

	assert.Equal(t, "Computation completed", done["message"])
	assert.Equal(t, "req-1", done["request_id"])
	assert.Equal(t, OpMedianValue, done["operation"])
	assert.Equal(t, "median", done["reducer"])

	assert.Equal(t, "Computation rejected", rejected["message"])
	assert.Equal(t, "req-1", rejected["request_id"])
	assert.Equal(t, "max", rejected["reducer"])
	assert.Equal(t, "NO_VALID_DATA", rejected["kind"])
}

func TestSingleAttributeReductions(t *testing.T) {
	svc := newTestService()
	req := &models.AttributeRequest{
		Data: []models.Event{
			sale("2023-06-01", map[string]interface{}{"price": 500000.0}),
			sale("2023-07-01", map[string]interface{}{"price": "700000"}),
			sale("2023-07-01", map[string]interface{}{"price": true}),
		},
		AttributeName: "price",
	}

	high, err := svc.HighestValue(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 700000.0, high.HighestValue)

	low, err := svc.LowestValue(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 500000.0, low.LowestValue)

	med, err := svc.MedianValue(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 600000.0, med.MedianValue)
}

func TestSingleAttributeReductions_NoValidValues(t *testing.T) {
	svc := newTestService()
	req := &models.AttributeRequest{
		Data:          []models.Event{sale("", map[string]interface{}{})},
		AttributeName: "price",
	}

	_, err := svc.HighestValue(context.Background(), req)
	svcErr := requireServiceError(t, err, "NO_VALID_DATA")
	assert.Contains(t, svcErr.Message, "No valid values found")

	_, err = svc.LowestValue(context.Background(), req)
	requireServiceError(t, err, "NO_VALID_DATA")

	_, err = svc.MedianValue(context.Background(), req)
	requireServiceError(t, err, "NO_VALID_DATA")
}

func TestOutliers(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Outliers(context.Background(), &models.ValueRequest{
		Data: []models.Event{
			sale("2023-06-01", map[string]interface{}{"price": 100000.0}),
			sale("2023-07-01", map[string]interface{}{"price": 200000.0}),
			sale("2023-08-01", map[string]interface{}{"price": 5000000.0}),
			sale("2023-09-01", map[string]interface{}{"price": 150000.0}),
			sale("2023-10-01", map[string]interface{}{"price": 250000.0}),
		},
		ValueAttribute: "price",
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{5000000}, resp.Outliers)
}

func TestOutliers_NotEnoughData(t *testing.T) {
	svc := newTestService()

	_, err := svc.Outliers(context.Background(), &models.ValueRequest{
		Data:           []models.Event{sale("", map[string]interface{}{"price": 100000.0})},
		ValueAttribute: "price",
	})
	svcErr := requireServiceError(t, err, "INSUFFICIENT_DATA")
	assert.Contains(t, svcErr.Message, "Not enough data to calculate outliers")
}

func TestCountByTime(t *testing.T) {
	svc := newTestService()
	data := []models.Event{
		sale("2023-06-01", nil),
		sale("2023-07-15T08:30:00", nil),
		sale("2022-12-31", nil),
		sale("", nil),
	}

	resp, err := svc.CountByTime(context.Background(), &models.CountRequest{Data: data, TimeFormat: "year"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2023": 2, "2022": 1}, resp.CountsByTime)

	resp, err = svc.CountByTime(context.Background(), &models.CountRequest{Data: data, TimeFormat: "month"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2023-06": 1, "2023-07": 1, "2022-12": 1}, resp.CountsByTime)
}

func TestCountByTime_Errors(t *testing.T) {
	svc := newTestService()

	_, err := svc.CountByTime(context.Background(), &models.CountRequest{
		Data:       []models.Event{sale("invalid-date", nil)},
		TimeFormat: "year",
	})
	requireServiceError(t, err, "INVALID_TIMESTAMP")

	_, err = svc.CountByTime(context.Background(), &models.CountRequest{
		Data:       []models.Event{sale("2023-01-01", nil)},
		TimeFormat: "week",
	})
	requireServiceError(t, err, "INVALID_GRANULARITY")
}

func TestValueGrowth(t *testing.T) {
	svc := newTestService()

	resp, err := svc.ValueGrowth(context.Background(), &models.ValueRequest{
		Data: []models.Event{
			sale("2021-01-01", map[string]interface{}{"price": 100.0}),
			sale("2021-06-01", map[string]interface{}{"price": 300.0}),
			sale("2023-01-01", map[string]interface{}{"price": 250.0}),
		},
		ValueAttribute: "price",
	})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, resp.GrowthRate, 1e-9)

	_, err = svc.ValueGrowth(context.Background(), &models.ValueRequest{
		Data:           []models.Event{sale("2021-01-01", map[string]interface{}{"price": 100.0})},
		ValueAttribute: "price",
	})
	requireServiceError(t, err, "INSUFFICIENT_DATA")
}

func TestEventTypeFilter(t *testing.T) {
	svc := newTestService()
	data := []models.Event{
		sale("2023-01-01", map[string]interface{}{"price": 100.0}),
		{
			TimeObject: models.TimeObject{Timestamp: "2023-01-01"},
			EventType:  "listing",
			Attribute:  map[string]interface{}{"price": 900.0},
		},
	}

	resp, err := svc.HighestValue(context.Background(), &models.AttributeRequest{
		Data:          data,
		EventType:     "sale",
		AttributeName: "price",
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, resp.HighestValue)

	resp, err = svc.HighestValue(context.Background(), &models.AttributeRequest{
		Data:          data,
		AttributeName: "price",
	})
	require.NoError(t, err)
	assert.Equal(t, 900.0, resp.HighestValue)
}

func TestToEvents_TimestampFallback(t *testing.T) {
	events := toEvents([]models.Event{
		{Timestamp: "2020-01-01", Attribute: map[string]interface{}{"a": 1.0}},
		{TimeObject: models.TimeObject{Timestamp: "2021-01-01"}, Timestamp: "1999-01-01"},
	}, "")

	require.Len(t, events, 2)
	assert.Equal(t, "2020-01-01", events[0].Timestamp)
	assert.Equal(t, "2021-01-01", events[1].Timestamp)
}
