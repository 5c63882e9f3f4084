package collector

import (
	"context"
	"log"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/pulsemon/pulsemon/internal/model"
)

const (
	// MetricDiskUsage is the filesystem usage percentage of the configured mount.
	MetricDiskUsage = "disk_usage_percent"
	// MetricDiskReadOps and MetricDiskWriteOps are cumulative operation counts
	// summed across devices.
	MetricDiskReadOps  = "disk_read_ops"
	MetricDiskWriteOps = "disk_write_ops"
)

// DiskStats is one combined disk reading.
type DiskStats struct {
	UsedPercent float64
	ReadOps     float64
	WriteOps    float64
}

// DiskSource reads filesystem usage and device IO counters.
type DiskSource interface {
	Stats(ctx context.Context, mount string) (DiskStats, error)
}

type gopsutilDiskSource struct{}

func (gopsutilDiskSource) Stats(ctx context.Context, mount string) (DiskStats, error) {
	usage, err := disk.UsageWithContext(ctx, mount)
	if err != nil {
		return DiskStats{}, err
	}
	st := DiskStats{UsedPercent: round2(usage.UsedPercent)}

	// IO counters are best-effort: usage alone is still a valid reading on
	// platforms where per-device counters are unavailable.
	if counters, err := disk.IOCountersWithContext(ctx); err == nil {
		for _, io := range counters {
			st.ReadOps += float64(io.ReadCount)
			st.WriteOps += float64(io.WriteCount)
		}
	}
	return st, nil
}

type diskCollector struct {
	source DiskSource
	mount  string
}

// NewDiskCollector collects usage of the given mount point plus cumulative
// read/write operation counts.
func NewDiskCollector(mount string) Collector {
	return &diskCollector{source: gopsutilDiskSource{}, mount: mount}
}

func (c *diskCollector) ID() string { return "disk" }

func (c *diskCollector) Defaults() []model.MetricSample {
	return []model.MetricSample{
		sample(MetricDiskUsage, 0),
		sample(MetricDiskReadOps, 0),
		sample(MetricDiskWriteOps, 0),
	}
}

func (c *diskCollector) Collect(ctx context.Context) []model.MetricSample {
	st, err := c.source.Stats(ctx, c.mount)
	if err != nil {
		log.Printf("[disk] source unavailable for %s, using defaults: %v", c.mount, err)
		return c.Defaults()
	}
	return []model.MetricSample{
		sample(MetricDiskUsage, st.UsedPercent),
		sample(MetricDiskReadOps, st.ReadOps),
		sample(MetricDiskWriteOps, st.WriteOps),
	}
}
