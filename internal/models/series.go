// Package models defines the core domain entities: raw and normalized
// time-series points and the current index reading.
package models

import (
	"encoding/json"
	"errors"
	"math"
	"time"
)

// RawPoint is one entry of the historical payload array, exactly as
// received. Value may be a number, a numeric string, null, or garbage;
// nothing is validated yet.
type RawPoint struct {
	TimestampMS int64
	Value       json.RawMessage
}

// SeriesPoint is a validated point: a UTC instant and a finite value.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Series is a sequence of points ordered non-decreasing by timestamp.
// An empty series is a valid state; callers decide whether that matters.
type Series []SeriesPoint

// Empty reports whether the series holds no points.
func (s Series) Empty() bool {
	return len(s) == 0
}

// Timestamps returns the x values of the series in order.
func (s Series) Timestamps() []time.Time {
	ts := make([]time.Time, len(s))
	for i, p := range s {
		ts[i] = p.Timestamp
	}
	return ts
}

// Values returns the y values of the series in order.
func (s Series) Values() []float64 {
	vs := make([]float64, len(s))
	for i, p := range s {
		vs[i] = p.Value
	}
	return vs
}

// Validate checks the series invariants: ordering, finite values, and
// that no point predates cutoff.
func (s Series) Validate(cutoff time.Time) error {
	for i, p := range s {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return errors.New("series value must be finite")
		}
		if p.Timestamp.Before(cutoff) {
			return errors.New("series point predates the retention cutoff")
		}
		if i > 0 && p.Timestamp.Before(s[i-1].Timestamp) {
			return errors.New("series must be ordered by timestamp")
		}
	}
	return nil
}

// CurrentReading is the current composite score and its sentiment label.
// It has no history and is replaced wholesale on every fetch.
type CurrentReading struct {
	Score  float64 `json:"score"`
	Rating string  `json:"rating"`
}
