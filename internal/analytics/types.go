// Package analytics provides the aggregation engine for attributed events:
// grouping, reduction, time bucketing and the typed attribute accessor shared
// by the regression and anomaly subpackages.
package analytics

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Event is a single timestamped record with a free-form attribute map.
// Events are built per request and never mutated afterwards.
type Event struct {
	Timestamp  string
	EventType  string
	Attributes Attributes
}

// Attributes holds the raw attribute values of an event as decoded from JSON.
type Attributes map[string]interface{}

// Numeric returns the named attribute as a float64.
// Numbers and numeric strings (surrounding whitespace ignored) convert; nulls,
// booleans, non-finite values and anything else report false.
func (a Attributes) Numeric(name string) (float64, bool) {
	raw, ok := a[name]
	if !ok || raw == nil {
		return 0, false
	}

	switch v := raw.(type) {
	case bool, map[string]interface{}, []interface{}:
		return 0, false
	case string:
		raw = strings.TrimSpace(v)
		if raw == "" {
			return 0, false
		}
	}

	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Key returns the raw scalar identity of the named attribute, used for grouping.
func (a Attributes) Key(name string) (GroupKey, bool) {
	raw, ok := a[name]
	if !ok || raw == nil {
		return GroupKey{}, false
	}

	switch v := raw.(type) {
	case string:
		return GroupKey{Kind: KeyString, Text: v}, true
	case bool:
		return GroupKey{Kind: KeyBool, Text: strconv.FormatBool(v)}, true
	case map[string]interface{}, []interface{}:
		return GroupKey{}, false
	}

	if f, ok := a.Numeric(name); ok {
		return GroupKey{Kind: KeyNumber, Text: strconv.FormatFloat(f, 'f', -1, 64)}, true
	}

	s, err := cast.ToStringE(raw)
	if err != nil {
		return GroupKey{}, false
	}
	return GroupKey{Kind: KeyString, Text: s}, true
}

// KeyKind distinguishes scalar types so that "1" and 1 never share a group.
type KeyKind uint8

const (
	KeyString KeyKind = iota
	KeyNumber
	KeyBool
)

func (k KeyKind) String() string {
	switch k {
	case KeyNumber:
		return "number"
	case KeyBool:
		return "bool"
	default:
		return "string"
	}
}

// GroupKey identifies a group by the raw scalar value of its key attribute.
type GroupKey struct {
	Kind KeyKind
	Text string
}

// String returns the key text used in responses.
func (k GroupKey) String() string {
	return k.Text
}

// Labels renders keys as response map keys. A key keeps its plain text unless
// another key of a different kind has the same text, in which case the
// non-string keys are suffixed with their kind, e.g. "1 (number)".
func Labels(keys []GroupKey) map[GroupKey]string {
	kinds := make(map[string]map[KeyKind]bool, len(keys))
	for _, k := range keys {
		if kinds[k.Text] == nil {
			kinds[k.Text] = make(map[KeyKind]bool, 1)
		}
		kinds[k.Text][k.Kind] = true
	}

	labels := make(map[GroupKey]string, len(keys))
	for _, k := range keys {
		if len(kinds[k.Text]) > 1 && k.Kind != KeyString {
			labels[k] = fmt.Sprintf("%s (%s)", k.Text, k.Kind)
			continue
		}
		labels[k] = k.Text
	}
	return labels
}

// Group is the ordered list of numeric samples collected for one key.
type Group struct {
	Key    GroupKey
	Values []float64
}

// FilterByType returns the events whose type equals eventType.
// An empty eventType returns the input unchanged.
func FilterByType(events []Event, eventType string) []Event {
	if eventType == "" {
		return events
	}

	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.EventType == eventType {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
