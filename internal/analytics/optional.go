package analytics

import "encoding/json"

// Optional is a report section that may not have been computed.
// Value is nil when the section is unavailable, and Reason says why.
type Optional[T any] struct {
	Value  *T
	Reason string
}

// Some wraps an available value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: &v}
}

// None marks a section unavailable because of err.
func None[T any](err error) Optional[T] {
	reason := "not computed"
	if err != nil {
		reason = err.Error()
	}
	return Optional[T]{Reason: reason}
}

// Available reports whether the value was computed.
func (o Optional[T]) Available() bool {
	return o.Value != nil
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	if o.Value == nil {
		var zero T
		return zero, false
	}
	return *o.Value, true
}

type unavailable struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason"`
}

// MarshalJSON encodes the value itself, or an {"available":false} marker.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return json.Marshal(unavailable{Available: false, Reason: o.Reason})
	}
	return json.Marshal(o.Value)
}
