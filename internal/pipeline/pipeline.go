package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roadwatch/dgt-situation-etl/internal/datex"
	"github.com/roadwatch/dgt-situation-etl/internal/domain"
	"github.com/roadwatch/dgt-situation-etl/internal/observability"
)

// Source supplies one complete DATEX2 payload per fetch.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Publisher delivers extracted situations downstream.
type Publisher interface {
	PublishBatch(ctx context.Context, situations []domain.Situation) error
}

// Pipeline orchestrates the fetch-extract-publish cycle on an interval and
// retains the latest extracted snapshot for the read endpoints.
type Pipeline struct {
	source    Source
	publisher Publisher // nil disables publishing
	logger    *slog.Logger
	metrics   *observability.Metrics
	interval  time.Duration
	ready     atomic.Bool

	mu       sync.RWMutex
	snapshot []domain.Situation
}

// New creates a Pipeline with the given stages and observability.
func New(source Source, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration) *Pipeline {
	return &Pipeline{
		source:    source,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		interval:  interval,
	}
}

// CheckReadiness returns nil once at least one cycle has completed, or an
// error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no publication has been processed yet")
	}
	return nil
}

// Snapshot returns a copy of the situations from the most recent successful
// extraction, in document order.
func (p *Pipeline) Snapshot() []domain.Situation {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]domain.Situation, len(p.snapshot))
	copy(out, p.snapshot)
	return out
}

// Run executes fetch-extract-publish cycles until the context is cancelled.
// The first cycle starts immediately; failures back off exponentially
// instead of waiting out the full interval.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}

		if err := p.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.metrics.FetchesTotal.WithLabelValues("error").Inc()
			p.logger.Error("cycle failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}

		backoff = 200 * time.Millisecond
		if !sleepWithContext(ctx, p.interval) {
			return nil
		}
	}
}

// runCycle performs one fetch-extract-publish pass.
func (p *Pipeline) runCycle(ctx context.Context) error {
	start := time.Now()

	data, err := p.source.Fetch(ctx)
	if err != nil {
		return err
	}

	doc, err := datex.Parse(data)
	if err != nil {
		return err
	}

	situations, report, err := datex.ExtractWithReport(doc)
	if err != nil {
		return err
	}

	p.metrics.SituationsExtracted.Add(float64(len(situations)))
	p.metrics.LastCycleSituations.Set(float64(len(situations)))
	for reason, n := range report.Dropped {
		p.metrics.RecordsDropped.WithLabelValues(string(reason)).Add(float64(n))
	}

	// The snapshot is served locally even if publishing fails below.
	p.mu.Lock()
	p.snapshot = situations
	p.mu.Unlock()

	if p.publisher != nil {
		if err := p.publisher.PublishBatch(ctx, situations); err != nil {
			return err
		}
		p.metrics.MessagesProduced.Add(float64(len(situations)))
	}

	p.metrics.FetchesTotal.WithLabelValues("success").Inc()
	p.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	p.logger.Info("cycle complete",
		"situations", report.Situations,
		"records", report.Records,
		"extracted", len(situations),
		"dropped", report.Records-len(situations),
		"duration", time.Since(start),
	)
	return nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
