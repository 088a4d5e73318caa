package analytics

import (
	"math"
	"sort"
)

// GrowthRate returns the percentage change between the mean value of the
// earliest and the latest calendar year present in events.
func GrowthRate(events []Event, valueAttr string) (float64, error) {
	years, values, err := YearSeries(events, valueAttr)
	if err != nil {
		return 0, err
	}

	byYear := make(map[int][]float64)
	for i, y := range years {
		byYear[int(y)] = append(byYear[int(y)], values[i])
	}
	if len(byYear) < 2 {
		return 0, NewError(KindInsufficientData,
			"Not enough data for growth rate: need values in at least 2 distinct years, have %d", len(byYear))
	}

	keys := make([]int, 0, len(byYear))
	for y := range byYear {
		keys = append(keys, y)
	}
	sort.Ints(keys)

	first, _ := Mean(byYear[keys[0]])
	last, _ := Mean(byYear[keys[len(keys)-1]])
	if first == 0 {
		return 0, NewError(KindNoValidData, "Growth rate is undefined for a zero baseline in %d", keys[0])
	}

	return (last - first) / math.Abs(first) * 100, nil
}
