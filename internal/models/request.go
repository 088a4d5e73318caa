package models

import "fmt"

// TimeObject carries the timing information of an event
type TimeObject struct {
	Timestamp    string  `json:"timestamp"`
	Duration     float64 `json:"duration,omitempty"`
	DurationUnit string  `json:"duration_unit,omitempty"`
	Timezone     string  `json:"timezone,omitempty"`
}

// Event represents a single event in a request body
type Event struct {
	TimeObject TimeObject             `json:"time_object"`
	Timestamp  string                 `json:"timestamp,omitempty"` // Fallback when time_object is absent
	EventType  string                 `json:"event_type"`
	Attribute  map[string]interface{} `json:"attribute"`
}

// GetTimestamp returns time_object.timestamp, falling back to the top-level timestamp
func (e *Event) GetTimestamp() string {
	if e.TimeObject.Timestamp != "" {
		return e.TimeObject.Timestamp
	}
	return e.Timestamp
}

// EventsPayload is implemented by every request that embeds an event list.
// Bodies may also be a bare JSON array; the remaining parameters then come
// from the query string.
type EventsPayload interface {
	EventList() *[]Event
	Validate() error
}

// PredictRequest fits y on x and predicts at XValues
type PredictRequest struct {
	Data       []Event   `json:"data" query:"-"`
	EventType  string    `json:"event_type,omitempty" query:"event_type"`
	XAttribute string    `json:"x_attribute" query:"x_attribute"`
	YAttribute string    `json:"y_attribute" query:"y_attribute"`
	XValues    []float64 `json:"x_values" query:"x_values"`
}

func (r *PredictRequest) EventList() *[]Event { return &r.Data }

func (r *PredictRequest) Validate() error {
	if r.XAttribute == "" || r.YAttribute == "" {
		return fmt.Errorf("x_attribute and y_attribute are required")
	}
	return nil
}

// FuturePredictionRequest predicts an attribute for future years
type FuturePredictionRequest struct {
	Data           []Event `json:"data" query:"-"`
	EventType      string  `json:"event_type,omitempty" query:"event_type"`
	ValueAttribute string  `json:"value_attribute" query:"value_attribute"`
	TimePoints     []int   `json:"time_points" query:"time_points"`
}

func (r *FuturePredictionRequest) EventList() *[]Event { return &r.Data }

func (r *FuturePredictionRequest) Validate() error {
	if r.ValueAttribute == "" {
		return fmt.Errorf("value_attribute is required")
	}
	return nil
}

// GroupRequest aggregates ValueAttribute per distinct GroupByAttribute
type GroupRequest struct {
	Data             []Event `json:"data" query:"-"`
	EventType        string  `json:"event_type,omitempty" query:"event_type"`
	GroupByAttribute string  `json:"group_by_attribute" query:"group_by_attribute"`
	ValueAttribute   string  `json:"value_attribute" query:"value_attribute"`
}

func (r *GroupRequest) EventList() *[]Event { return &r.Data }

func (r *GroupRequest) Validate() error {
	if r.GroupByAttribute == "" || r.ValueAttribute == "" {
		return fmt.Errorf("group_by_attribute and value_attribute are required")
	}
	return nil
}

// AttributeRequest reduces a single attribute across all events
type AttributeRequest struct {
	Data          []Event `json:"data" query:"-"`
	EventType     string  `json:"event_type,omitempty" query:"event_type"`
	AttributeName string  `json:"attribute_name" query:"attribute_name"`
}

func (r *AttributeRequest) EventList() *[]Event { return &r.Data }

func (r *AttributeRequest) Validate() error {
	if r.AttributeName == "" {
		return fmt.Errorf("attribute_name is required")
	}
	return nil
}

// ValueRequest is used by outlier detection and value growth
type ValueRequest struct {
	Data           []Event `json:"data" query:"-"`
	EventType      string  `json:"event_type,omitempty" query:"event_type"`
	ValueAttribute string  `json:"value_attribute" query:"value_attribute"`
}

func (r *ValueRequest) EventList() *[]Event { return &r.Data }

func (r *ValueRequest) Validate() error {
	if r.ValueAttribute == "" {
		return fmt.Errorf("value_attribute is required")
	}
	return nil
}

// CountRequest counts events per time bucket
type CountRequest struct {
	Data       []Event `json:"data" query:"-"`
	EventType  string  `json:"event_type,omitempty" query:"event_type"`
	TimeFormat string  `json:"time_format" query:"time_format"` // year, month, day
}

func (r *CountRequest) EventList() *[]Event { return &r.Data }

func (r *CountRequest) Validate() error {
	if r.TimeFormat == "" {
		return fmt.Errorf("time_format is required")
	}
	return nil
}
