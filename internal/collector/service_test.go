package collector

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsemon/pulsemon/internal/model"
)

type fakeServiceSource struct {
	up map[uint16]bool
}

func (f fakeServiceSource) Reachable(_ context.Context, port uint16) bool {
	return f.up[port]
}

func TestServiceCollector(t *testing.T) {
	services := []model.ServiceSpec{
		{Name: "redis", Port: 6379},
		{Name: "nginx", Port: 80},
	}

	t.Run("one sample per service in configured order", func(t *testing.T) {
		c := &serviceCollector{
			source:   fakeServiceSource{up: map[uint16]bool{6379: true}},
			services: services,
		}
		samples := c.Collect(context.Background())
		require.Len(t, samples, 2)

		assert.Equal(t, MetricServiceStatus, samples[0].Name)
		assert.Equal(t, 1.0, samples[0].Value)
		assert.Equal(t, "redis", samples[0].Label("service"))
		assert.Equal(t, "6379", samples[0].Label("port"))

		assert.Equal(t, 0.0, samples[1].Value)
		assert.Equal(t, "nginx", samples[1].Label("service"))
		assert.Equal(t, "80", samples[1].Label("port"))
	})

	t.Run("defaults mark every service down", func(t *testing.T) {
		c := NewServiceCollector(services)
		samples := c.Defaults()
		require.Len(t, samples, 2)
		for _, s := range samples {
			assert.Equal(t, 0.0, s.Value)
		}
	})
}

func TestDialSource(t *testing.T) {
	// Listen on an ephemeral local port so the probe has a real target.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	src := dialSource{}
	assert.True(t, src.Reachable(context.Background(), uint16(port)))

	ln.Close()
	assert.False(t, src.Reachable(context.Background(), uint16(port)))
}
