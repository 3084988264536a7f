package cnn

import (
	"encoding/json"

	"github.com/fngbot/internal/logger"
	"github.com/fngbot/internal/models"
)

// HistoricalKey holds the composite index time series.
const HistoricalKey = "fear_and_greed_historical"

// currentKey holds the current score/rating pair.
const currentKey = "fear_and_greed"

// Extract locates the historical array under key and returns its raw
// points. The value must be an object with a non-empty "data" array of
// {x, y} items. Items missing either field are skipped with a warning;
// only a fully empty result is an error. Errors are *MissingKeyError,
// *ShapeError, or *EmptyError.
func Extract(doc Document, key string) ([]models.RawPoint, error) {
	raw, ok := doc[key]
	if !ok {
		return nil, &MissingKeyError{Key: key}
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, &ShapeError{Key: key, Detail: "value is not an object"}
	}
	dataRaw, ok := wrapper["data"]
	if !ok {
		return nil, &ShapeError{Key: key, Detail: "object has no \"data\" field"}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(dataRaw, &entries); err != nil {
		return nil, &ShapeError{Key: key, Detail: "\"data\" is not an array"}
	}
	if len(entries) == 0 {
		return nil, &EmptyError{Key: key}
	}

	points := make([]models.RawPoint, 0, len(entries))
	for i, entry := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil {
			logger.Warn("Skipping non-object entry %d under %q", i, key)
			continue
		}
		xRaw, hasX := fields["x"]
		yRaw, hasY := fields["y"]
		if !hasX || !hasY {
			logger.Warn("Skipping entry %d under %q: missing x or y", i, key)
			continue
		}
		// The endpoint encodes epoch milliseconds as a JSON number,
		// sometimes with a fractional part.
		var ms float64
		if err := json.Unmarshal(xRaw, &ms); err != nil {
			logger.Warn("Skipping entry %d under %q: x is not numeric", i, key)
			continue
		}
		points = append(points, models.RawPoint{
			TimestampMS: int64(ms),
			Value:       yRaw,
		})
	}

	if len(points) == 0 {
		return nil, &EmptyError{Key: key}
	}
	return points, nil
}

// ReadCurrent extracts the current score and rating. Errors are
// *MissingKeyError, *ShapeError, or *MissingFieldError.
func ReadCurrent(doc Document) (models.CurrentReading, error) {
	raw, ok := doc[currentKey]
	if !ok {
		return models.CurrentReading{}, &MissingKeyError{Key: currentKey}
	}

	var current struct {
		Score  *float64 `json:"score"`
		Rating *string  `json:"rating"`
	}
	if err := json.Unmarshal(raw, &current); err != nil {
		return models.CurrentReading{}, &ShapeError{Key: currentKey, Detail: "value is not an object with numeric score"}
	}
	if current.Score == nil {
		return models.CurrentReading{}, &MissingFieldError{Key: currentKey, Field: "score"}
	}
	if current.Rating == nil {
		return models.CurrentReading{}, &MissingFieldError{Key: currentKey, Field: "rating"}
	}
	return models.CurrentReading{Score: *current.Score, Rating: *current.Rating}, nil
}
