// Package report runs the fetch → extract → normalize → render pipeline
// and owns the lifetime of the chart files it produces. It is shared by
// the bot commands and the scheduled jobs; every invocation is a pure
// pipeline over its own fetch, so concurrent invocations need no
// locking.
package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fngbot/internal/cnn"
	"github.com/fngbot/internal/logger"
	"github.com/fngbot/internal/models"
	"github.com/fngbot/internal/series"
)

// Fetcher fetches the graphdata payload.
type Fetcher interface {
	Fetch(ctx context.Context) (cnn.Document, error)
}

// Renderer draws series into image files and returns their paths.
type Renderer interface {
	RenderIndex(s models.Series) (string, error)
	RenderComponent(s models.Series, component models.Component) (string, error)
}

// Service builds index and component reports.
type Service struct {
	fetcher    Fetcher
	renderer   Renderer
	windowDays int
	now        func() time.Time
}

// NewService creates a report service. windowDays <= 0 falls back to
// the default retention window.
func NewService(fetcher Fetcher, renderer Renderer, windowDays int) *Service {
	if windowDays <= 0 {
		windowDays = series.DefaultWindowDays
	}
	return &Service{
		fetcher:    fetcher,
		renderer:   renderer,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// IndexReport is the current reading plus an optional chart. ChartPath
// is empty when no chart could be produced; the reading alone is still
// a complete report.
type IndexReport struct {
	Current   models.CurrentReading
	ChartPath string
}

// Close removes the chart file, if any. Safe to call on every exit
// path and more than once.
func (r *IndexReport) Close() {
	if r == nil || r.ChartPath == "" {
		return
	}
	if err := os.Remove(r.ChartPath); err != nil {
		logger.Warn("Failed to remove chart file %s: %v", r.ChartPath, err)
	}
	r.ChartPath = ""
}

// ComponentChart is one rendered sub-indicator chart.
type ComponentChart struct {
	Component models.Component
	Path      string
}

// ComponentsReport is the rendered subset of component charts plus the
// count of components that failed. A partial result is delivered, not
// discarded.
type ComponentsReport struct {
	Charts []ComponentChart
	Failed int
}

// Paths returns the chart file paths in component-table order.
func (r *ComponentsReport) Paths() []string {
	paths := make([]string, len(r.Charts))
	for i, c := range r.Charts {
		paths[i] = c.Path
	}
	return paths
}

// Close removes every chart file. Safe on every exit path and more
// than once.
func (r *ComponentsReport) Close() {
	if r == nil {
		return
	}
	for _, c := range r.Charts {
		if c.Path == "" {
			continue
		}
		if err := os.Remove(c.Path); err != nil {
			logger.Warn("Failed to remove chart file %s: %v", c.Path, err)
		}
	}
	r.Charts = nil
}

// Index fetches the payload once and builds the composite index report.
// The current reading is required; the historical chart is best-effort
// (an empty or unusable series only disables the chart). The caller
// must Close the report.
func (s *Service) Index(ctx context.Context) (*IndexReport, error) {
	doc, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch index data: %w", err)
	}

	current, err := cnn.ReadCurrent(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to read current index: %w", err)
	}

	rep := &IndexReport{Current: current}

	points, err := cnn.Extract(doc, cnn.HistoricalKey)
	if err != nil {
		logger.Warn("No historical series for index chart: %v", err)
		return rep, nil
	}
	normalized := series.Normalize(points, s.windowDays, s.now())
	path, err := s.renderer.RenderIndex(normalized)
	if err != nil {
		logger.Warn("Could not render index chart: %v", err)
		return rep, nil
	}
	rep.ChartPath = path
	return rep, nil
}

// Components fetches the payload once and renders one chart per
// sub-indicator. A failing component is counted and skipped, never
// aborting the batch. The caller must Close the report.
func (s *Service) Components(ctx context.Context) (*ComponentsReport, error) {
	doc, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch component data: %w", err)
	}

	rep := &ComponentsReport{}
	now := s.now()
	for _, component := range models.Components {
		points, err := cnn.Extract(doc, component.Key)
		if err != nil {
			logger.Warn("Skipping component %s: %v", component.Key, err)
			rep.Failed++
			continue
		}
		normalized := series.Normalize(points, s.windowDays, now)
		path, err := s.renderer.RenderComponent(normalized, component)
		if err != nil {
			logger.Warn("Could not render component %s: %v", component.Key, err)
			rep.Failed++
			continue
		}
		rep.Charts = append(rep.Charts, ComponentChart{Component: component, Path: path})
	}
	return rep, nil
}
