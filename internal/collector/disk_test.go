package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDiskSource struct {
	stats DiskStats
	err   error
}

func (f fakeDiskSource) Stats(context.Context, string) (DiskStats, error) {
	return f.stats, f.err
}

func TestDiskCollector(t *testing.T) {
	t.Run("healthy source", func(t *testing.T) {
		c := &diskCollector{
			source: fakeDiskSource{stats: DiskStats{UsedPercent: 42.5, ReadOps: 1000, WriteOps: 2000}},
			mount:  "/",
		}
		samples := c.Collect(context.Background())
		require.Len(t, samples, 3)
		assert.Equal(t, MetricDiskUsage, samples[0].Name)
		assert.Equal(t, 42.5, samples[0].Value)
		assert.Equal(t, MetricDiskReadOps, samples[1].Name)
		assert.Equal(t, 1000.0, samples[1].Value)
		assert.Equal(t, MetricDiskWriteOps, samples[2].Name)
		assert.Equal(t, 2000.0, samples[2].Value)
	})

	t.Run("failing source defaults to zero", func(t *testing.T) {
		c := &diskCollector{source: fakeDiskSource{err: errors.New("mount not found")}, mount: "/data"}
		samples := c.Collect(context.Background())
		require.Len(t, samples, 3)
		for _, s := range samples {
			assert.Equal(t, 0.0, s.Value)
		}
	})
}
