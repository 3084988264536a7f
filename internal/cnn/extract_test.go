package cnn

import (
	"encoding/json"
	"errors"
	"testing"
)

func mustDocument(t *testing.T, payload string) Document {
	t.Helper()
	var doc Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		t.Fatalf("Bad test payload: %v", err)
	}
	return doc
}

func TestExtract(t *testing.T) {
	doc := mustDocument(t, `{
		"fear_and_greed_historical": {
			"timestamp": 1700100000000,
			"data": [
				{"x": 1700000000000, "y": "50"},
				{"x": 1700050000000, "y": 60},
				{"x": 1700100000000, "y": null}
			]
		}
	}`)

	points, err := Extract(doc, HistoricalKey)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("Expected 3 raw points, got %d", len(points))
	}
	if points[0].TimestampMS != 1700000000000 {
		t.Errorf("Unexpected first timestamp: %d", points[0].TimestampMS)
	}
	// Values stay raw at this stage, null included.
	if string(points[2].Value) != "null" {
		t.Errorf("Expected raw null value, got %s", points[2].Value)
	}
}

func TestExtract_SkipsMalformedEntries(t *testing.T) {
	doc := mustDocument(t, `{
		"junk_bond_demand": {
			"data": [
				{"x": 1700000000000, "y": 10},
				{"x": 1700050000000},
				{"x": 1700100000000, "y": 30},
				"not-an-object"
			]
		}
	}`)

	points, err := Extract(doc, "junk_bond_demand")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("Expected exactly the 2 well-formed points, got %d", len(points))
	}
	if points[0].TimestampMS != 1700000000000 || points[1].TimestampMS != 1700100000000 {
		t.Errorf("Wrong entries survived: %+v", points)
	}
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		key     string
		check   func(error) bool
	}{
		{
			name:    "missing key",
			payload: `{"fear_and_greed": {}}`,
			key:     HistoricalKey,
			check: func(err error) bool {
				var e *MissingKeyError
				return errors.As(err, &e) && e.Key == HistoricalKey
			},
		},
		{
			name:    "value not an object",
			payload: `{"fear_and_greed_historical": [1, 2, 3]}`,
			key:     HistoricalKey,
			check: func(err error) bool {
				var e *ShapeError
				return errors.As(err, &e)
			},
		},
		{
			name:    "missing data field",
			payload: `{"fear_and_greed_historical": {"timestamp": 1}}`,
			key:     HistoricalKey,
			check: func(err error) bool {
				var e *ShapeError
				return errors.As(err, &e)
			},
		},
		{
			name:    "data not an array",
			payload: `{"fear_and_greed_historical": {"data": {"x": 1}}}`,
			key:     HistoricalKey,
			check: func(err error) bool {
				var e *ShapeError
				return errors.As(err, &e)
			},
		},
		{
			name:    "empty data array",
			payload: `{"fear_and_greed_historical": {"data": []}}`,
			key:     HistoricalKey,
			check: func(err error) bool {
				var e *EmptyError
				return errors.As(err, &e)
			},
		},
		{
			name:    "all entries malformed",
			payload: `{"fear_and_greed_historical": {"data": [{"x": 1}, {"y": 2}]}}`,
			key:     HistoricalKey,
			check: func(err error) bool {
				var e *EmptyError
				return errors.As(err, &e)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(mustDocument(t, tt.payload), tt.key)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !tt.check(err) {
				t.Errorf("Unexpected error type: %T (%v)", err, err)
			}
		})
	}
}

func TestReadCurrent(t *testing.T) {
	doc := mustDocument(t, `{"fear_and_greed": {"score": 42.5, "rating": "fear"}}`)

	reading, err := ReadCurrent(doc)
	if err != nil {
		t.Fatalf("ReadCurrent failed: %v", err)
	}
	if reading.Score != 42.5 {
		t.Errorf("Expected score 42.5, got %f", reading.Score)
	}
	if reading.Rating != "fear" {
		t.Errorf("Expected rating %q, got %q", "fear", reading.Rating)
	}
}

func TestReadCurrent_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		check   func(error) bool
	}{
		{
			name:    "missing key",
			payload: `{"fear_and_greed_historical": {}}`,
			check: func(err error) bool {
				var e *MissingKeyError
				return errors.As(err, &e)
			},
		},
		{
			name:    "missing score",
			payload: `{"fear_and_greed": {"rating": "greed"}}`,
			check: func(err error) bool {
				var e *MissingFieldError
				return errors.As(err, &e) && e.Field == "score"
			},
		},
		{
			name:    "null rating",
			payload: `{"fear_and_greed": {"score": 55, "rating": null}}`,
			check: func(err error) bool {
				var e *MissingFieldError
				return errors.As(err, &e) && e.Field == "rating"
			},
		},
		{
			name:    "non-numeric score",
			payload: `{"fear_and_greed": {"score": "high", "rating": "greed"}}`,
			check: func(err error) bool {
				var e *ShapeError
				return errors.As(err, &e)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCurrent(mustDocument(t, tt.payload))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !tt.check(err) {
				t.Errorf("Unexpected error type: %T (%v)", err, err)
			}
		})
	}
}
