package collector

import (
	"context"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/pulsemon/pulsemon/internal/model"
)

// MetricServiceStatus is 1 when the service port accepts a TCP connection,
// 0 otherwise.
const MetricServiceStatus = "service_status"

// ServiceSource decides whether a local service port is reachable.
type ServiceSource interface {
	Reachable(ctx context.Context, port uint16) bool
}

// Each dial carries its own deadline on top of the per-collector one.
const dialTimeout = 2 * time.Second

type dialSource struct{}

func (dialSource) Reachable(ctx context.Context, port uint16) bool {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(int(port))))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

type serviceCollector struct {
	source   ServiceSource
	services []model.ServiceSpec
}

// NewServiceCollector checks each configured service port. One sample per
// service in configured order, carrying service and port labels.
func NewServiceCollector(services []model.ServiceSpec) Collector {
	return &serviceCollector{source: dialSource{}, services: services}
}

func (c *serviceCollector) ID() string { return "service" }

func (c *serviceCollector) Defaults() []model.MetricSample {
	out := make([]model.MetricSample, 0, len(c.services))
	for _, svc := range c.services {
		out = append(out, serviceSample(svc, 0))
	}
	return out
}

func (c *serviceCollector) Collect(ctx context.Context) []model.MetricSample {
	out := make([]model.MetricSample, 0, len(c.services))
	for _, svc := range c.services {
		status := 0.0
		if c.source.Reachable(ctx, svc.Port) {
			status = 1
		} else {
			log.Printf("[service] %s (port %d) is down", svc.Name, svc.Port)
		}
		out = append(out, serviceSample(svc, status))
	}
	return out
}

func serviceSample(svc model.ServiceSpec, status float64) model.MetricSample {
	return sample(MetricServiceStatus, status,
		model.Label{Key: "service", Value: svc.Name},
		model.Label{Key: "port", Value: strconv.Itoa(int(svc.Port))},
	)
}
