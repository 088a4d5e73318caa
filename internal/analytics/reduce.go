package analytics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reducer collapses a non-empty list of values to a single statistic.
type Reducer func(values []float64) (float64, error)

// ReducerKind names a reducer in service calls and computation logs.
type ReducerKind string

const (
	ReduceMean   ReducerKind = "mean"
	ReduceMedian ReducerKind = "median"
	ReduceMin    ReducerKind = "min"
	ReduceMax    ReducerKind = "max"
)

var reducers = map[ReducerKind]Reducer{
	ReduceMean:   Mean,
	ReduceMedian: Median,
	ReduceMin:    Min,
	ReduceMax:    Max,
}

// GetReducer returns the reducer registered under kind.
func GetReducer(kind ReducerKind) (Reducer, error) {
	if r, ok := reducers[kind]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("unknown reducer: %s", kind)
}

// Mean returns the arithmetic average.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, NewError(KindEmptyInput, "cannot compute mean of empty input")
	}
	return stat.Mean(values, nil), nil
}

// Median returns the middle element of the sorted values. For an even count
// it is the average of the two middle elements.
func Median(values []float64) (float64, error) {
	n := len(values)
	if n == 0 {
		return 0, NewError(KindEmptyInput, "cannot compute median of empty input")
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid], nil
	}
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}

// Min returns the smallest value.
func Min(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, NewError(KindEmptyInput, "cannot compute minimum of empty input")
	}
	return floats.Min(values), nil
}

// Max returns the largest value.
func Max(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, NewError(KindEmptyInput, "cannot compute maximum of empty input")
	}
	return floats.Max(values), nil
}

// GroupStat is one reduced value per group key.
type GroupStat struct {
	Key   GroupKey
	Value float64
}

// ReduceGroups applies reducer to every group, preserving group order.
func ReduceGroups(groups []Group, reducer Reducer) ([]GroupStat, error) {
	stats := make([]GroupStat, 0, len(groups))
	for _, g := range groups {
		v, err := reducer(g.Values)
		if err != nil {
			return nil, err
		}
		stats = append(stats, GroupStat{Key: g.Key, Value: v})
	}
	return stats, nil
}

// MinMax holds the groups with the highest and lowest mean.
type MinMax struct {
	Maximum GroupStat
	Minimum GroupStat
}

// MinMaxGroups ranks groups by their mean value. On ties the group seen first
// wins, so a single group is both the maximum and the minimum.
func MinMaxGroups(groups []Group) (*MinMax, error) {
	means, err := ReduceGroups(groups, Mean)
	if err != nil {
		return nil, err
	}
	if len(means) == 0 {
		return nil, NewError(KindNoValidData, "No valid data found")
	}

	result := &MinMax{Maximum: means[0], Minimum: means[0]}
	for _, s := range means[1:] {
		if s.Value > result.Maximum.Value {
			result.Maximum = s
		}
		if s.Value < result.Minimum.Value {
			result.Minimum = s
		}
	}
	return result, nil
}
