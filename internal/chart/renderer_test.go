package chart

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fngbot/internal/models"
)

func sampleSeries(n int) models.Series {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.Series, n)
	for i := range s {
		s[i] = models.SeriesPoint{
			Timestamp: start.AddDate(0, 0, i),
			Value:     float64(30 + i%40),
		}
	}
	return s
}

func TestRenderIndex(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir)

	path, err := r.RenderIndex(sampleSeries(30))
	if err != nil {
		t.Fatalf("RenderIndex failed: %v", err)
	}
	defer os.Remove(path)

	if filepath.Dir(path) != dir {
		t.Errorf("Chart written outside renderer dir: %s", path)
	}
	if !strings.HasPrefix(filepath.Base(path), "fng_index_") {
		t.Errorf("Unexpected filename: %s", filepath.Base(path))
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Chart file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Chart file is empty")
	}
}

func TestRenderComponent(t *testing.T) {
	r := NewRenderer(t.TempDir())
	component, _ := models.ComponentByKey("safe_haven_demand")

	path, err := r.RenderComponent(sampleSeries(30), component)
	if err != nil {
		t.Fatalf("RenderComponent failed: %v", err)
	}
	defer os.Remove(path)

	if !strings.Contains(filepath.Base(path), "safe_haven_demand") {
		t.Errorf("Expected component key in filename, got %s", filepath.Base(path))
	}
}

func TestRender_EmptySeries(t *testing.T) {
	r := NewRenderer(t.TempDir())

	_, err := r.RenderIndex(models.Series{})
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("Expected *RenderError for empty series, got %T: %v", err, err)
	}

	component, _ := models.ComponentByKey("put_call_options")
	_, err = r.RenderComponent(nil, component)
	if !errors.As(err, &renderErr) {
		t.Fatalf("Expected *RenderError for nil series, got %T: %v", err, err)
	}
}

func TestRender_UniqueFilenames(t *testing.T) {
	r := NewRenderer(t.TempDir())
	s := sampleSeries(10)

	first, err := r.RenderIndex(s)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(first)
	second, err := r.RenderIndex(s)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(second)

	if first == second {
		t.Errorf("Expected invocation-scoped filenames, both were %s", first)
	}
}
