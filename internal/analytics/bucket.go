package analytics

import (
	"strings"
	"time"
)

// Granularity is the size of a time bucket
type Granularity string

const (
	GranularityYear  Granularity = "year"
	GranularityMonth Granularity = "month"
	GranularityDay   Granularity = "day"
)

const dateLayout = "2006-01-02"

// ParseGranularity validates a granularity name.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case GranularityYear, GranularityMonth, GranularityDay:
		return g, nil
	default:
		return "", NewError(KindInvalidGranularity,
			"Invalid time format %q: must be one of year, month, day", s)
	}
}

// layout returns the time layout producing this granularity's bucket key
func (g Granularity) layout() string {
	switch g {
	case GranularityYear:
		return "2006"
	case GranularityMonth:
		return "2006-01"
	default:
		return dateLayout
	}
}

// BucketKey formats t as this granularity's bucket key (YYYY, YYYY-MM or YYYY-MM-DD).
func (g Granularity) BucketKey(t time.Time) string {
	return t.Format(g.layout())
}

// ParseDate parses the calendar date of a timestamp. Both "YYYY-MM-DD" and
// date-times with a "T" separator are accepted; only the date part is used.
func ParseDate(timestamp string) (time.Time, error) {
	datePart, _, _ := strings.Cut(strings.TrimSpace(timestamp), "T")
	t, err := time.Parse(dateLayout, datePart)
	if err != nil {
		return time.Time{}, NewError(KindInvalidTimestamp, "Invalid timestamp %q", timestamp)
	}
	return t, nil
}

// CountByTime counts events per time bucket. Events without a timestamp are
// skipped; any unparsable timestamp fails the whole call.
func CountByTime(events []Event, granularity Granularity) (map[string]int, error) {
	g, err := ParseGranularity(string(granularity))
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, e := range events {
		if e.Timestamp == "" {
			continue
		}
		t, err := ParseDate(e.Timestamp)
		if err != nil {
			return nil, err
		}
		counts[g.BucketKey(t)]++
	}
	return counts, nil
}

// YearSeries extracts aligned (year, value) samples for trend analysis.
// Events missing a timestamp or a numeric valueAttr are dropped.
func YearSeries(events []Event, valueAttr string) (years, values []float64, err error) {
	years = make([]float64, 0, len(events))
	values = make([]float64, 0, len(events))
	for _, e := range events {
		if e.Timestamp == "" {
			continue
		}
		v, ok := e.Attributes.Numeric(valueAttr)
		if !ok {
			continue
		}
		t, err := ParseDate(e.Timestamp)
		if err != nil {
			return nil, nil, err
		}
		years = append(years, float64(t.Year()))
		values = append(values, v)
	}
	return years, values, nil
}
