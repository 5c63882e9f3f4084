package collector

import (
	"context"

	"github.com/pulsemon/pulsemon/internal/model"
)

// Collector defines the interface for all metric collectors.
//
// Collect never fails: a collector maps any source error to its per-kind
// default value and logs the degraded condition instead of propagating it,
// so every tick produces a full sample set.
type Collector interface {
	// ID returns the unique identifier for this collector.
	ID() string
	// Collect gathers the collector's samples for one tick.
	Collect(ctx context.Context) []model.MetricSample
	// Defaults returns the samples this collector emits when its source is
	// unavailable or the collection deadline expired.
	Defaults() []model.MetricSample
}

func sample(name string, value float64, labels ...model.Label) model.MetricSample {
	return model.MetricSample{Name: name, Value: value, Labels: labels}
}
