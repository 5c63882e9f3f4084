package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/pulsemon/pulsemon/internal/alert"
	"github.com/pulsemon/pulsemon/internal/collector"
	"github.com/pulsemon/pulsemon/internal/config"
	"github.com/pulsemon/pulsemon/internal/exporter"
	"github.com/pulsemon/pulsemon/internal/model"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	switch cmd {
	case "start":
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)
		cmdStart()
	case "stop":
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)
		cmdStop()
	case "status":
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)
		cmdStatus()
	case "run":
		// Foreground mode (also used internally by daemon child)
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)
		cmdRun()
	case "version":
		fmt.Printf("pulsemon %s\n", version)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, `Pulsemon — Host Telemetry Agent (%s)

Usage:
  %s <command> [flags]

Commands:
  start          Start daemon (background)
  stop           Stop daemon
  status         Show daemon status
  run            Run in foreground
  version        Print version

Flags:
  -config PATH     Config file path (default: config.yaml)
  -interval SEC    Seconds between collection ticks
  -instance NAME   Instance label (default: hostname)
  -pid-file P      PID file path
  -log-file P      Log file path

Examples:
  %s start
  %s start -config /etc/pulsemon/config.yaml
  %s stop
  %s status
  %s run
`, version, exe, exe, exe, exe, exe, exe)
}

// ---------------------------------------------------------------------------
// run: foreground agent (also used by daemon child)
// ---------------------------------------------------------------------------

func cmdRun() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	log.Printf("pulsemon %s starting", version)
	log.Printf("[startup] instance=%s job=%s interval=%ds gateway=%s services=%d",
		cfg.Instance, cfg.Job, cfg.IntervalSec, cfg.Gateway.URL, len(cfg.Services))

	sched := buildScheduler(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	sched.Run(ctx)

	// Clean up PID file
	os.Remove(cfg.PidFile)
	log.Println("goodbye")
}

func buildScheduler(cfg *config.Config) *collector.Scheduler {
	collectors := []collector.Collector{
		collector.NewCPUCollector(),
		collector.NewMemoryCollector(),
		collector.NewDiskCollector(cfg.DiskMount),
		collector.NewPacketLossCollector(collector.NewPingSource(cfg.PingTarget, cfg.PingCount)),
		collector.NewNetIOCollector(),
		collector.NewServiceCollector(cfg.Services),
	}

	thresholds := map[string]model.Threshold{
		collector.MetricCPUUsage:    cfg.Thresholds.CPU,
		collector.MetricMemoryUsage: cfg.Thresholds.Memory,
		collector.MetricDiskUsage:   cfg.Thresholds.Disk,
	}

	var dispatcher alert.Dispatcher
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != "" {
		dispatcher = alert.NewTelegramDispatcher(cfg.Telegram.Token, cfg.Telegram.ChatID)
	} else {
		log.Printf("[startup] no telegram credentials configured, alerts go to the log only")
		dispatcher = alert.NopDispatcher{}
	}

	exp := exporter.NewPushgatewayExporter(cfg.Gateway.URL, cfg.Job, cfg.Instance)

	return collector.NewScheduler(
		collectors,
		thresholds,
		dispatcher,
		exp,
		time.Duration(cfg.IntervalSec)*time.Second,
		time.Duration(cfg.CollectTimeoutSec)*time.Second,
	)
}
