package collector

import (
	"context"
	"log"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/pulsemon/pulsemon/internal/model"
)

// MetricCPUUsage is the busy percentage across all cores.
const MetricCPUUsage = "cpu_usage_percent"

// CPUSource reads cumulative CPU time counters.
type CPUSource interface {
	Times(ctx context.Context) (cpu.TimesStat, error)
}

type gopsutilCPUSource struct{}

func (gopsutilCPUSource) Times(ctx context.Context) (cpu.TimesStat, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return cpu.TimesStat{}, err
	}
	if len(times) == 0 {
		return cpu.TimesStat{}, errNoReading
	}
	return times[0], nil
}

type cpuCollector struct {
	source CPUSource

	// mu guards prevTimes: a source call abandoned at the collection
	// deadline can finish after the next tick has already started.
	mu        sync.Mutex
	prevTimes *cpu.TimesStat // previous totals for delta calculation
}

// NewCPUCollector collects total CPU usage from cumulative time counters.
func NewCPUCollector() Collector { return &cpuCollector{source: gopsutilCPUSource{}} }

func (c *cpuCollector) ID() string { return "cpu" }

func (c *cpuCollector) Defaults() []model.MetricSample {
	return []model.MetricSample{sample(MetricCPUUsage, 0)}
}

func (c *cpuCollector) Collect(ctx context.Context) []model.MetricSample {
	cur, err := c.source.Times(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		log.Printf("[cpu] source unavailable, using default: %v", err)
		c.prevTimes = nil
		return c.Defaults()
	}

	// Busy% is delta-based; the first tick has no previous reading and
	// reports 0 rather than a since-boot average.
	usage := 0.0
	if c.prevTimes != nil {
		prev := *c.prevTimes
		dIdle := cur.Idle - prev.Idle
		dTotal := (cur.User - prev.User) + (cur.System - prev.System) +
			(cur.Nice - prev.Nice) + (cur.Iowait - prev.Iowait) +
			(cur.Irq - prev.Irq) + (cur.Softirq - prev.Softirq) +
			(cur.Steal - prev.Steal) + dIdle
		if dTotal > 0 {
			usage = round2((dTotal - dIdle) / dTotal * 100)
		}
	}
	c.prevTimes = &cur

	return []model.MetricSample{sample(MetricCPUUsage, usage)}
}
