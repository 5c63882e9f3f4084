package collector

import (
	"context"
	"log"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/shirou/gopsutil/v4/net"

	"github.com/pulsemon/pulsemon/internal/model"
)

const (
	// MetricPacketLoss is the percentage of ping probes lost. Fail-safe
	// default is 100: an unreadable link is treated as total loss.
	MetricPacketLoss = "net_packet_loss_percent"

	MetricNetBytesRecv   = "net_bytes_recv"
	MetricNetBytesSent   = "net_bytes_sent"
	MetricNetPacketsRecv = "net_packets_recv"
	MetricNetPacketsSent = "net_packets_sent"
)

// PacketLossSource measures packet loss to a probe target.
type PacketLossSource interface {
	Loss(ctx context.Context) (float64, error)
}

var pingLossRE = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)% packet loss`)

type pingSource struct {
	target string
	count  int
}

// NewPingSource probes packet loss with the system ping binary.
func NewPingSource(target string, count int) PacketLossSource {
	if count < 1 {
		count = 3
	}
	return &pingSource{target: target, count: count}
}

func (p *pingSource) Loss(ctx context.Context) (float64, error) {
	// ping exits non-zero on total loss but still prints the summary line,
	// so output is parsed regardless of the exit status.
	out, err := exec.CommandContext(ctx, "ping", "-c", strconv.Itoa(p.count), p.target).CombinedOutput()
	m := pingLossRE.FindSubmatch(out)
	if m == nil {
		if err != nil {
			return 0, err
		}
		return 0, errNoReading
	}
	loss, perr := strconv.ParseFloat(string(m[1]), 64)
	if perr != nil {
		return 0, perr
	}
	return loss, nil
}

type packetLossCollector struct {
	source PacketLossSource
}

// NewPacketLossCollector collects packet loss to the configured target.
func NewPacketLossCollector(source PacketLossSource) Collector {
	return &packetLossCollector{source: source}
}

func (c *packetLossCollector) ID() string { return "netloss" }

func (c *packetLossCollector) Defaults() []model.MetricSample {
	return []model.MetricSample{sample(MetricPacketLoss, 100)}
}

func (c *packetLossCollector) Collect(ctx context.Context) []model.MetricSample {
	loss, err := c.source.Loss(ctx)
	if err != nil {
		log.Printf("[netloss] source unavailable, assuming total loss: %v", err)
		return c.Defaults()
	}
	return []model.MetricSample{sample(MetricPacketLoss, loss)}
}

// NetCounters are cumulative traffic totals summed across interfaces.
type NetCounters struct {
	BytesRecv   float64
	BytesSent   float64
	PacketsRecv float64
	PacketsSent float64
}

// NetIOSource reads interface traffic counters.
type NetIOSource interface {
	Counters(ctx context.Context) (NetCounters, error)
}

type gopsutilNetIOSource struct{}

func (gopsutilNetIOSource) Counters(ctx context.Context) (NetCounters, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return NetCounters{}, err
	}
	if len(counters) == 0 {
		return NetCounters{}, errNoReading
	}
	io := counters[0]
	return NetCounters{
		BytesRecv:   float64(io.BytesRecv),
		BytesSent:   float64(io.BytesSent),
		PacketsRecv: float64(io.PacketsRecv),
		PacketsSent: float64(io.PacketsSent),
	}, nil
}

type netIOCollector struct {
	source NetIOSource
}

// NewNetIOCollector collects system-wide traffic totals.
func NewNetIOCollector() Collector { return &netIOCollector{source: gopsutilNetIOSource{}} }

func (c *netIOCollector) ID() string { return "netio" }

func (c *netIOCollector) Defaults() []model.MetricSample {
	return []model.MetricSample{
		sample(MetricNetBytesRecv, 0),
		sample(MetricNetBytesSent, 0),
		sample(MetricNetPacketsRecv, 0),
		sample(MetricNetPacketsSent, 0),
	}
}

func (c *netIOCollector) Collect(ctx context.Context) []model.MetricSample {
	cnt, err := c.source.Counters(ctx)
	if err != nil {
		log.Printf("[netio] source unavailable, using defaults: %v", err)
		return c.Defaults()
	}
	return []model.MetricSample{
		sample(MetricNetBytesRecv, cnt.BytesRecv),
		sample(MetricNetBytesSent, cnt.BytesSent),
		sample(MetricNetPacketsRecv, cnt.PacketsRecv),
		sample(MetricNetPacketsSent, cnt.PacketsSent),
	}
}
