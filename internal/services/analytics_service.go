package services

import (
	"context"
	"strconv"
	"time"

	"github.com/soltixdb/analytics/internal/analytics"
	"github.com/soltixdb/analytics/internal/analytics/anomaly"
	"github.com/soltixdb/analytics/internal/analytics/regression"
	"github.com/soltixdb/analytics/internal/logging"
	"github.com/soltixdb/analytics/internal/metrics"
	"github.com/soltixdb/analytics/internal/models"
)

// Operation names used in logs, metrics and error details
const (
	OpPredict            = "predict"
	OpPredictFuture      = "predict_future_values"
	OpAverageByAttribute = "average_by_attribute"
	OpMedianByAttribute  = "median_by_attribute"
	OpMinMaxByAttribute  = "min_max_by_attribute"
	OpHighestValue       = "highest_value"
	OpLowestValue        = "lowest_value"
	OpMedianValue        = "median_value"
	OpOutliers           = "outliers"
	OpCountByTime        = "count_by_time"
	OpValueGrowth        = "value_growth"
)

// AnalyticsService runs engine computations for request payloads
type AnalyticsService struct {
	metrics       *metrics.Manager
	iqrMultiplier float64
}

// NewAnalyticsService creates a new AnalyticsService. metrics may be nil.
func NewAnalyticsService(m *metrics.Manager, iqrMultiplier float64) *AnalyticsService {
	if iqrMultiplier <= 0 {
		iqrMultiplier = anomaly.DefaultMultiplier
	}
	return &AnalyticsService{
		metrics:       m,
		iqrMultiplier: iqrMultiplier,
	}
}

// toEvents converts wire events to engine events, keeping only eventType when set
func toEvents(data []models.Event, eventType string) []analytics.Event {
	events := make([]analytics.Event, 0, len(data))
	for i := range data {
		events = append(events, analytics.Event{
			Timestamp:  data[i].GetTimestamp(),
			EventType:  data[i].EventType,
			Attributes: analytics.Attributes(data[i].Attribute),
		})
	}
	return analytics.FilterByType(events, eventType)
}

// finish logs and records the outcome of one operation and converts engine
// errors into ServiceErrors. Logs go to the request-scoped logger in ctx.
func (s *AnalyticsService) finish(ctx context.Context, op string, events int, start time.Time, err error, fields ...interface{}) error {
	logger := logging.FromContext(ctx).With(fields...)
	elapsed := time.Since(start)

	if err != nil {
		kind := "UNKNOWN"
		if engineErr, ok := err.(*analytics.Error); ok {
			kind = string(engineErr.Kind)
		}
		s.metrics.RecordComputationError(op, kind)
		logger.Warn("Computation rejected",
			"operation", op,
			"events", events,
			"kind", kind,
			"error", err)
		return fromEngineError(op, err)
	}

	s.metrics.RecordComputation(op, events, elapsed)
	logger.Debug("Computation completed",
		"operation", op,
		"events", events,
		"latency_ms", float64(elapsed.Microseconds())/1000)
	return nil
}

// Predict fits y_attribute on x_attribute and predicts at every x value
func (s *AnalyticsService) Predict(ctx context.Context, req *models.PredictRequest) (*models.PredictionResponse, error) {
	start := time.Now()
	events := toEvents(req.Data, req.EventType)

	x, y := analytics.Pairs(events, req.XAttribute, req.YAttribute)
	model, err := regression.Fit(x, y)
	if err != nil {
		return nil, s.finish(ctx, OpPredict, len(events), start, err)
	}

	resp := &models.PredictionResponse{Prediction: model.Predict(req.XValues)}
	return resp, s.finish(ctx, OpPredict, len(events), start, nil)
}

// PredictFuture fits value_attribute against the event year and predicts the
// value for each requested year
func (s *AnalyticsService) PredictFuture(ctx context.Context, req *models.FuturePredictionRequest) (*models.FuturePredictionResponse, error) {
	start := time.Now()
	events := toEvents(req.Data, req.EventType)

	years, values, err := analytics.YearSeries(events, req.ValueAttribute)
	if err != nil {
		return nil, s.finish(ctx, OpPredictFuture, len(events), start, err)
	}

	model, err := regression.Fit(years, values)
	if err != nil {
		return nil, s.finish(ctx, OpPredictFuture, len(events), start, err)
	}

	points := make([]float64, len(req.TimePoints))
	for i, tp := range req.TimePoints {
		points[i] = float64(tp)
	}

	predicted := make(map[string]float64, len(req.TimePoints))
	for i, v := range model.Predict(points) {
		predicted[strconv.Itoa(req.TimePoints[i])] = v
	}

	resp := &models.FuturePredictionResponse{PredictedValues: predicted}
	return resp, s.finish(ctx, OpPredictFuture, len(events), start, nil)
}

// reduceByAttribute groups events and applies the reducer of kind to every
// group. Keys of different kinds sharing a text stay apart in the result.
func (s *AnalyticsService) reduceByAttribute(ctx context.Context, op string, req *models.GroupRequest, kind analytics.ReducerKind) (map[string]float64, error) {
	start := time.Now()
	events := toEvents(req.Data, req.EventType)

	reducer, err := analytics.GetReducer(kind)
	if err != nil {
		return nil, s.finish(ctx, op, len(events), start, err, "reducer", kind)
	}

	groups, err := analytics.GroupBy(events, req.GroupByAttribute, req.ValueAttribute)
	if err != nil {
		return nil, s.finish(ctx, op, len(events), start, err, "reducer", kind)
	}

	stats, err := analytics.ReduceGroups(groups, reducer)
	if err != nil {
		return nil, s.finish(ctx, op, len(events), start, err, "reducer", kind)
	}

	keys := make([]analytics.GroupKey, len(stats))
	for i, st := range stats {
		keys[i] = st.Key
	}
	labels := analytics.Labels(keys)

	out := make(map[string]float64, len(stats))
	for _, st := range stats {
		out[labels[st.Key]] = st.Value
	}
	return out, s.finish(ctx, op, len(events), start, nil, "reducer", kind, "groups", len(out))
}

// AverageByAttribute returns the mean value per group
func (s *AnalyticsService) AverageByAttribute(ctx context.Context, req *models.GroupRequest) (*models.AverageByAttributeResponse, error) {
	values, err := s.reduceByAttribute(ctx, OpAverageByAttribute, req, analytics.ReduceMean)
	if err != nil {
		return nil, err
	}
	return &models.AverageByAttributeResponse{AverageValues: values}, nil
}

// MedianByAttribute returns the median value per group
func (s *AnalyticsService) MedianByAttribute(ctx context.Context, req *models.GroupRequest) (*models.MedianByAttributeResponse, error) {
	values, err := s.reduceByAttribute(ctx, OpMedianByAttribute, req, analytics.ReduceMedian)
	if err != nil {
		return nil, err
	}
	return &models.MedianByAttributeResponse{MedianValues: values}, nil
}

// MinMaxByAttribute returns the groups with the highest and lowest mean value
func (s *AnalyticsService) MinMaxByAttribute(ctx context.Context, req *models.GroupRequest) (*models.MinMaxResponse, error) {
	start := time.Now()
	events := toEvents(req.Data, req.EventType)

	groups, err := analytics.GroupBy(events, req.GroupByAttribute, req.ValueAttribute)
	if err != nil {
		return nil, s.finish(ctx, OpMinMaxByAttribute, len(events), start, err)
	}

	mm, err := analytics.MinMaxGroups(groups)
	if err != nil {
		return nil, s.finish(ctx, OpMinMaxByAttribute, len(events), start, err)
	}

	keys := make([]analytics.GroupKey, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	labels := analytics.Labels(keys)

	resp := &models.MinMaxResponse{
		MaximumAttribute: labels[mm.Maximum.Key],
		MaximumValue:     mm.Maximum.Value,
		MinimumAttribute: labels[mm.Minimum.Key],
		MinimumValue:     mm.Minimum.Value,
	}
	return resp, s.finish(ctx, OpMinMaxByAttribute, len(events), start, nil)
}

// reduceAttribute applies the reducer of kind to every numeric value of one
// attribute
func (s *AnalyticsService) reduceAttribute(ctx context.Context, op string, req *models.AttributeRequest, kind analytics.ReducerKind) (float64, error) {
	start := time.Now()
	events := toEvents(req.Data, req.EventType)

	reducer, err := analytics.GetReducer(kind)
	if err != nil {
		return 0, s.finish(ctx, op, len(events), start, err, "reducer", kind)
	}

	values := analytics.Values(events, req.AttributeName)
	if len(values) == 0 {
		err := analytics.NewError(analytics.KindNoValidData, "No valid values found for attribute %q", req.AttributeName)
		return 0, s.finish(ctx, op, len(events), start, err, "reducer", kind)
	}

	v, err := reducer(values)
	return v, s.finish(ctx, op, len(events), start, err, "reducer", kind)
}

// HighestValue returns the largest value of an attribute
func (s *AnalyticsService) HighestValue(ctx context.Context, req *models.AttributeRequest) (*models.HighestValueResponse, error) {
	v, err := s.reduceAttribute(ctx, OpHighestValue, req, analytics.ReduceMax)
	if err != nil {
		return nil, err
	}
	return &models.HighestValueResponse{HighestValue: v}, nil
}

// LowestValue returns the smallest value of an attribute
func (s *AnalyticsService) LowestValue(ctx context.Context, req *models.AttributeRequest) (*models.LowestValueResponse, error) {
	v, err := s.reduceAttribute(ctx, OpLowestValue, req, analytics.ReduceMin)
	if err != nil {
		return nil, err
	}
	return &models.LowestValueResponse{LowestValue: v}, nil
}

// MedianValue returns the median value of an attribute
func (s *AnalyticsService) MedianValue(ctx context.Context, req *models.AttributeRequest) (*models.MedianValueResponse, error) {
	v, err := s.reduceAttribute(ctx, OpMedianValue, req, analytics.ReduceMedian)
	if err != nil {
		return nil, err
	}
	return &models.MedianValueResponse{MedianValue: v}, nil
}

// Outliers returns the values of an attribute outside the IQR fences
func (s *AnalyticsService) Outliers(ctx context.Context, req *models.ValueRequest) (*models.OutliersResponse, error) {
	start := time.Now()
	events := toEvents(req.Data, req.EventType)

	outliers, err := anomaly.Outliers(analytics.Values(events, req.ValueAttribute), s.iqrMultiplier)
	if err != nil {
		return nil, s.finish(ctx, OpOutliers, len(events), start, err)
	}

	s.metrics.RecordOutliers(len(outliers))
	return &models.OutliersResponse{Outliers: outliers}, s.finish(ctx, OpOutliers, len(events), start, nil)
}

// CountByTime counts events per year, month or day
func (s *AnalyticsService) CountByTime(ctx context.Context, req *models.CountRequest) (*models.CountByTimeResponse, error) {
	start := time.Now()
	events := toEvents(req.Data, req.EventType)

	counts, err := analytics.CountByTime(events, analytics.Granularity(req.TimeFormat))
	if err != nil {
		return nil, s.finish(ctx, OpCountByTime, len(events), start, err)
	}

	return &models.CountByTimeResponse{CountsByTime: counts}, s.finish(ctx, OpCountByTime, len(events), start, nil)
}

// ValueGrowth returns the percentage change of the yearly mean between the
// earliest and the latest year
func (s *AnalyticsService) ValueGrowth(ctx context.Context, req *models.ValueRequest) (*models.GrowthResponse, error) {
	start := time.Now()
	events := toEvents(req.Data, req.EventType)

	rate, err := analytics.GrowthRate(events, req.ValueAttribute)
	if err != nil {
		return nil, s.finish(ctx, OpValueGrowth, len(events), start, err)
	}

	return &models.GrowthResponse{GrowthRate: rate}, s.finish(ctx, OpValueGrowth, len(events), start, nil)
}
