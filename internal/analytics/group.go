package analytics

// GroupBy partitions events by the raw value of groupAttr and collects the
// numeric values of valueAttr for each key, in first-seen key order.
// Events missing either attribute are skipped.
func GroupBy(events []Event, groupAttr, valueAttr string) ([]Group, error) {
	index := make(map[GroupKey]int)
	var groups []Group

	for _, e := range events {
		key, ok := e.Attributes.Key(groupAttr)
		if !ok {
			continue
		}
		value, ok := e.Attributes.Numeric(valueAttr)
		if !ok {
			continue
		}

		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Values = append(groups[i].Values, value)
	}

	if len(groups) == 0 {
		return nil, NewError(KindNoValidData,
			"No valid data found for attributes %q and %q", groupAttr, valueAttr)
	}
	return groups, nil
}

// Values collects the numeric values of attr across events, skipping events
// where it is missing or not numeric.
func Values(events []Event, attr string) []float64 {
	values := make([]float64, 0, len(events))
	for _, e := range events {
		if v, ok := e.Attributes.Numeric(attr); ok {
			values = append(values, v)
		}
	}
	return values
}

// Pairs extracts aligned (x, y) samples. An event contributes only when both
// attributes are present, so x[i] and y[i] always come from the same event.
func Pairs(events []Event, xAttr, yAttr string) (x, y []float64) {
	x = make([]float64, 0, len(events))
	y = make([]float64, 0, len(events))
	for _, e := range events {
		xv, ok := e.Attributes.Numeric(xAttr)
		if !ok {
			continue
		}
		yv, ok := e.Attributes.Numeric(yAttr)
		if !ok {
			continue
		}
		x = append(x, xv)
		y = append(y, yv)
	}
	return x, y
}
