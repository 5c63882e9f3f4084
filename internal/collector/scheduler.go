package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pulsemon/pulsemon/internal/alert"
	"github.com/pulsemon/pulsemon/internal/exporter"
	"github.com/pulsemon/pulsemon/internal/model"
)

// Scheduler drives the collect→evaluate→dispatch→export cycle at a fixed
// interval. One tick fans out all collectors concurrently, joins, evaluates
// the threshold-bearing samples, dispatches alerts, then pushes the batch.
type Scheduler struct {
	collectors []Collector
	thresholds map[string]model.Threshold
	dispatcher alert.Dispatcher
	exporter   exporter.Exporter
	interval   time.Duration
	timeout    time.Duration
}

// NewScheduler creates a scheduler over the given collector set.
// thresholds maps metric names to their warn/crit pair; metrics absent from
// the map are exported but not evaluated.
func NewScheduler(
	collectors []Collector,
	thresholds map[string]model.Threshold,
	dispatcher alert.Dispatcher,
	exp exporter.Exporter,
	interval, timeout time.Duration,
) *Scheduler {
	return &Scheduler{
		collectors: collectors,
		thresholds: thresholds,
		dispatcher: dispatcher,
		exporter:   exp,
		interval:   interval,
		timeout:    timeout,
	}
}

// Run executes ticks until ctx is cancelled. Cancellation is honored at tick
// boundaries: a tick in progress finishes, and no final batch is pushed.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run once immediately
	s.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[scheduler] stopping")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one full cycle. Alert dispatch happens before export, so a
// failed push never suppresses alerting for the tick.
func (s *Scheduler) Tick(ctx context.Context) {
	batch := s.collect(ctx)
	s.evaluateAndDispatch(ctx, batch)

	if err := s.exporter.Export(ctx, batch.Clone()); err != nil {
		log.Printf("[scheduler] export failed, retrying next tick: %v", err)
	}
}

// collect fans out all collectors and joins. Each collector writes only its
// own result slot, so no locking is needed between them; the batch is
// assembled in collector registration order after the join.
func (s *Scheduler) collect(ctx context.Context) model.ExportBatch {
	results := make([][]model.MetricSample, len(s.collectors))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range s.collectors {
		i, c := i, c
		g.Go(func() error {
			log.Printf("[scheduler] collecting %s", c.ID())
			results[i] = s.runCollector(gctx, c)
			return nil
		})
	}
	g.Wait()

	var batch model.ExportBatch
	for _, samples := range results {
		batch.Samples = append(batch.Samples, samples...)
	}
	return batch
}

// runCollector invokes one collector under the collection deadline. A source
// that hangs past the deadline is abandoned and the collector's default
// samples are used, so the batch is never partial.
func (s *Scheduler) runCollector(ctx context.Context, c Collector) []model.MetricSample {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan []model.MetricSample, 1)
	go func() {
		done <- c.Collect(ctx)
	}()

	select {
	case samples := <-done:
		return samples
	case <-ctx.Done():
		log.Printf("[scheduler] collector %s timed out after %v, using defaults", c.ID(), s.timeout)
		return c.Defaults()
	}
}

func (s *Scheduler) evaluateAndDispatch(ctx context.Context, batch model.ExportBatch) {
	now := time.Now()
	for _, smp := range batch.Samples {
		var event *model.AlertEvent

		switch smp.Name {
		case MetricPacketLoss:
			if sev := EvaluatePacketLoss(smp.Value); sev > model.SeverityOK {
				event = &model.AlertEvent{
					Severity:  sev,
					Message:   fmt.Sprintf("packet loss is %.2f%% (warn >%.0f, crit >%.0f)", smp.Value, packetLossWarn, packetLossCrit),
					Timestamp: now,
				}
			}
		case MetricServiceStatus:
			// Service-down is always alert-worthy; no WARN tier, no threshold.
			if smp.Value == 0 {
				event = &model.AlertEvent{
					Severity:  model.SeverityCritical,
					Message:   fmt.Sprintf("service %s (port %s) is down", smp.Label("service"), smp.Label("port")),
					Timestamp: now,
				}
			}
		default:
			th, ok := s.thresholds[smp.Name]
			if !ok {
				continue
			}
			if sev := Evaluate(smp.Value, th); sev > model.SeverityOK {
				event = &model.AlertEvent{
					Severity:  sev,
					Message:   fmt.Sprintf("%s is %.2f (warn %.0f, crit %.0f)", smp.Name, smp.Value, th.Warn, th.Crit),
					Timestamp: now,
				}
			}
		}

		if event == nil {
			continue
		}
		log.Printf("[alerts] %s %s", event.Severity, event.Message)
		if err := s.dispatcher.Send(ctx, *event); err != nil {
			log.Printf("[alerts] dispatch failed: %v", err)
		}
	}
}
