package model

// Label is one name/value pair attached to a sample. Labels are a slice,
// not a map, so export output preserves insertion order.
type Label struct {
	Key   string
	Value string
}

// MetricSample represents a single metric reading for one tick.
// Immutable once produced by a collector.
type MetricSample struct {
	Name   string
	Value  float64
	Labels []Label
}

// Label returns the value of the named label, or "" if absent.
func (s MetricSample) Label(key string) string {
	for _, l := range s.Labels {
		if l.Key == key {
			return l.Value
		}
	}
	return ""
}

// ExportBatch is the full sample set for one tick, in collection order.
// Owned by the scheduler until handed to the exporter.
type ExportBatch struct {
	Samples []MetricSample
}

// Clone returns a copy so the exporter's view cannot be mutated after handoff.
func (b ExportBatch) Clone() ExportBatch {
	out := ExportBatch{Samples: make([]MetricSample, len(b.Samples))}
	copy(out.Samples, b.Samples)
	return out
}
