// Package series turns raw payload points into a clean, sorted,
// date-windowed series. Every quirk of the external data (numeric
// strings, nulls, over-long history) is handled here, once.
package series

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/spf13/cast"

	"github.com/fngbot/internal/logger"
	"github.com/fngbot/internal/models"
)

// DefaultWindowDays is the trailing history retained for display.
const DefaultWindowDays = 365

// Normalize converts raw points into a Series: timestamps become UTC
// instants, points are stable-sorted ascending, values are coerced to
// float64 (failures dropped, not fatal), and only points within the
// trailing window survive. The cutoff is the start of now's UTC day
// minus windowDays, computed once per call. An empty result is valid
// output; callers check for emptiness themselves. Reapplying with the
// same now and windowDays is a no-op.
func Normalize(points []models.RawPoint, windowDays int, now time.Time) models.Series {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	type staged struct {
		ts  time.Time
		raw json.RawMessage
	}
	work := make([]staged, len(points))
	for i, p := range points {
		work[i] = staged{
			ts:  time.UnixMilli(p.TimestampMS).UTC(),
			raw: p.Value,
		}
	}

	sort.SliceStable(work, func(i, j int) bool {
		return work[i].ts.Before(work[j].ts)
	})

	year, month, day := now.UTC().Date()
	cutoff := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -windowDays)

	out := make(models.Series, 0, len(work))
	for _, w := range work {
		value, err := coerce(w.raw)
		if err != nil {
			logger.Debug("Dropping point at %s: %v", w.ts.Format(time.RFC3339), err)
			continue
		}
		if w.ts.Before(cutoff) {
			continue
		}
		out = append(out, models.SeriesPoint{Timestamp: w.ts, Value: value})
	}
	return out
}

// coerce converts a raw JSON value (number, numeric string) to a finite
// float64.
func coerce(raw json.RawMessage) (float64, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("invalid JSON value: %w", err)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %v is not finite", f)
	}
	return f, nil
}
