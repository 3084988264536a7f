// Package chart renders normalized series into PNG line charts on disk.
package chart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/fngbot/internal/models"
)

const indexColor = "#1f77b4"

// RenderError means a chart could not be produced, including the case
// of an empty series (no misleading empty chart is ever drawn).
type RenderError struct {
	Kind string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render %s chart: %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer draws charts into dir. Filenames carry a fresh UUID so
// concurrent manual and scheduled invocations never collide; the caller
// owns deletion.
type Renderer struct {
	dir string
}

// NewRenderer creates a renderer writing into dir ("" means the working
// directory).
func NewRenderer(dir string) *Renderer {
	if dir == "" {
		dir = "."
	}
	return &Renderer{dir: dir}
}

// RenderIndex draws the composite index chart: y-axis pinned to 0-100
// with gridlines at the sentiment band boundaries.
func (r *Renderer) RenderIndex(s models.Series) (string, error) {
	if s.Empty() {
		return "", &RenderError{Kind: "index", Err: errors.New("series is empty")}
	}

	graph := gochart.Chart{
		Title:  "CNN Fear & Greed Index (Last 12 Months)",
		Width:  1200,
		Height: 600,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: 100},
			GridMajorStyle: gochart.Style{
				StrokeColor: gochart.ColorAlternateGray,
				StrokeWidth: 1.0,
			},
			GridLines: []gochart.GridLine{
				{Value: 25},
				{Value: 45},
				{Value: 55},
				{Value: 75},
			},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "Fear & Greed Index",
				XValues: s.Timestamps(),
				YValues: s.Values(),
				Style: gochart.Style{
					StrokeColor: colorFromHex(indexColor),
					StrokeWidth: 2.0,
				},
			},
		},
	}

	return r.render(graph, "index")
}

// RenderComponent draws one sub-indicator chart in the component's
// color. Component values are not bounded to 0-100, so the y-axis
// autoscales.
func (r *Renderer) RenderComponent(s models.Series, component models.Component) (string, error) {
	if s.Empty() {
		return "", &RenderError{Kind: component.Key, Err: errors.New("series is empty")}
	}

	graph := gochart.Chart{
		Title:  fmt.Sprintf("%s (Last 12 Months)", component.Title),
		Width:  1000,
		Height: 500,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    component.Title,
				XValues: s.Timestamps(),
				YValues: s.Values(),
				Style: gochart.Style{
					StrokeColor: colorFromHex(component.Color),
					StrokeWidth: 1.5,
				},
			},
		},
	}

	return r.render(graph, component.Key)
}

func (r *Renderer) render(graph gochart.Chart, kind string) (string, error) {
	path := filepath.Join(r.dir, fmt.Sprintf("fng_%s_%s.png", kind, uuid.NewString()))

	f, err := os.Create(path)
	if err != nil {
		return "", &RenderError{Kind: kind, Err: err}
	}
	if err := graph.Render(gochart.PNG, f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", &RenderError{Kind: kind, Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", &RenderError{Kind: kind, Err: err}
	}
	return path, nil
}

func colorFromHex(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
