package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/webdoctor/webdoctor/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// hostOf returns the host portion of a raw URL.
func hostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return u.Host, nil
}

// countingStep tracks concurrent executions.
type countingStep struct {
	current atomic.Int32
	peak    atomic.Int32
	total   atomic.Int32
	err     error
}

func (s *countingStep) Do(_ context.Context, _ *model.AuditReport) error {
	n := s.current.Add(1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	s.total.Add(1)
	s.current.Add(-1)
	return s.err
}

func (s *countingStep) Name() string {
	return "counting"
}

func batchFactory(step Step) func() *Pipeline {
	return func() *Pipeline {
		p := New(WithLogger(discardLogger()))
		p.AddStep(step)
		return p
	}
}

func TestProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("audits every target and keeps order", func(t *testing.T) {
		t.Parallel()

		step := &countingStep{}
		bp := NewBatchProcessor(batchFactory(step),
			WithBatchLogger(discardLogger()),
			WithConcurrency(2),
		)

		targets := []string{
			"https://one.example.com",
			"https://two.example.com",
			"https://three.example.com",
		}

		reports, err := bp.ProcessBatch(context.Background(), targets)
		if err != nil {
			t.Fatalf("batch failed: %v", err)
		}

		if len(reports) != 3 {
			t.Fatalf("expected 3 reports, got %d", len(reports))
		}
		for i, target := range targets {
			if reports[i] == nil || reports[i].SeedURL != target {
				t.Errorf("report %d: expected %q in original order", i, target)
			}
		}
		if step.total.Load() != 3 {
			t.Errorf("expected 3 executions, got %d", step.total.Load())
		}
	})

	t.Run("failed audits do not stop the batch", func(t *testing.T) {
		t.Parallel()

		step := &countingStep{err: errors.New("audit broke")}
		bp := NewBatchProcessor(batchFactory(step), WithBatchLogger(discardLogger()))

		reports, err := bp.ProcessBatch(context.Background(),
			[]string{"https://a.example.com", "https://b.example.com"})
		if err != nil {
			t.Fatalf("expected per-audit errors absorbed, got %v", err)
		}

		for i, report := range reports {
			if report.ErrorMessage != "audit broke" {
				t.Errorf("report %d: expected error recorded, got %q", i, report.ErrorMessage)
			}
		}
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		t.Parallel()

		step := &countingStep{}
		bp := NewBatchProcessor(batchFactory(step),
			WithBatchLogger(discardLogger()),
			WithConcurrency(1),
		)

		targets := make([]string, 6)
		for i := range targets {
			targets[i] = "https://site.example.com"
		}

		if _, err := bp.ProcessBatch(context.Background(), targets); err != nil {
			t.Fatalf("batch failed: %v", err)
		}
		if step.peak.Load() > 1 {
			t.Errorf("expected at most 1 concurrent audit, saw %d", step.peak.Load())
		}
	})
}

func TestProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	step := &countingStep{}
	bp := NewBatchProcessor(batchFactory(step), WithBatchLogger(discardLogger()))

	var mu sync.Mutex
	seen := make(map[int]string)

	targets := []string{"https://a.example.com", "https://b.example.com"}
	err := bp.ProcessBatchWithCallback(context.Background(), targets,
		func(report *model.AuditReport, index int) {
			mu.Lock()
			seen[index] = report.SeedURL
			mu.Unlock()
		})
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	if len(seen) != 2 || seen[0] != targets[0] || seen[1] != targets[1] {
		t.Errorf("unexpected callback results: %v", seen)
	}
}
