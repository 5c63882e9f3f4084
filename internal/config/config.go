package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pulsemon/pulsemon/internal/model"
)

// Config holds the application configuration. Loaded once at startup and
// treated as immutable for the process lifetime.
type Config struct {
	IntervalSec       int    `yaml:"interval"`
	CollectTimeoutSec int    `yaml:"collect_timeout"`
	Job               string `yaml:"job"`
	Instance          string `yaml:"instance"`
	PidFile           string `yaml:"pid_file"`
	LogFile           string `yaml:"log_file"`

	Gateway struct {
		URL string `yaml:"url"`
	} `yaml:"gateway"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID string `yaml:"chat_id"`
	} `yaml:"telegram"`

	Thresholds struct {
		CPU    model.Threshold `yaml:"cpu"`
		Memory model.Threshold `yaml:"memory"`
		Disk   model.Threshold `yaml:"disk"`
	} `yaml:"thresholds"`

	DiskMount  string `yaml:"disk_mount"`
	PingTarget string `yaml:"ping_target"`
	PingCount  int    `yaml:"ping_count"`

	Services []model.ServiceSpec `yaml:"services"`

	// Parsed from command line (not YAML)
	ConfigPath string `yaml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	cfg := &Config{
		IntervalSec:       60,
		CollectTimeoutSec: 5,
		Job:               "pulsemon",
		PidFile:           "pulsemon.pid",
		LogFile:           "pulsemon.log",
		DiskMount:         "/",
		PingTarget:        "8.8.8.8",
		PingCount:         3,
		ConfigPath:        "config.yaml",
	}
	cfg.Gateway.URL = "http://127.0.0.1:9091"
	cfg.Thresholds.CPU = model.Threshold{Warn: 80, Crit: 90}
	cfg.Thresholds.Memory = model.Threshold{Warn: 80, Crit: 90}
	cfg.Thresholds.Disk = model.Threshold{Warn: 80, Crit: 90}
	return cfg
}

// Load reads configuration with priority: defaults < config file < env vars
// < flags. A missing or unparseable config file is a fatal startup error.
// It expects os.Args to already have the subcommand stripped (if any).
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// 1) Pre-scan for -config flag before parsing (so we know which file to read)
	configPath := cfg.ConfigPath
	for i, arg := range os.Args[1:] {
		if arg == "-config" || arg == "--config" {
			if i+1 < len(os.Args)-1 {
				configPath = os.Args[i+2]
			}
		} else if strings.HasPrefix(arg, "-config=") || strings.HasPrefix(arg, "--config=") {
			configPath = strings.SplitN(arg, "=", 2)[1]
		}
	}

	if err := cfg.loadFile(configPath); err != nil {
		return nil, err
	}
	cfg.ConfigPath = configPath

	// 3) Environment variables override YAML
	if v := os.Getenv("PULSEMON_GATEWAY_URL"); v != "" {
		cfg.Gateway.URL = v
	}
	if v := os.Getenv("PULSEMON_TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("PULSEMON_TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("PULSEMON_INSTANCE"); v != "" {
		cfg.Instance = v
	}

	// 4) Flags override everything
	flag.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Path to config.yaml")
	flag.IntVar(&cfg.IntervalSec, "interval", cfg.IntervalSec, "Seconds between collection ticks")
	flag.StringVar(&cfg.Instance, "instance", cfg.Instance, "Instance label (default: hostname)")
	flag.StringVar(&cfg.PidFile, "pid-file", cfg.PidFile, "PID file path")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path")
	flag.Parse()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("resolve hostname for instance label: %w", err)
		}
		cfg.Instance = host
	}

	return cfg, nil
}

// LoadFile reads and validates a config file without the env/flag layers.
// Used by tests and by subcommands that only need file settings.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.ConfigPath = path
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.IntervalSec < 1 {
		return fmt.Errorf("interval must be at least 1 second, got %d", c.IntervalSec)
	}
	if c.CollectTimeoutSec < 1 {
		return fmt.Errorf("collect_timeout must be at least 1 second, got %d", c.CollectTimeoutSec)
	}
	if strings.TrimSpace(c.Gateway.URL) == "" {
		return fmt.Errorf("gateway.url is required")
	}
	if c.Job == "" {
		return fmt.Errorf("job is required")
	}
	for _, svc := range c.Services {
		if svc.Name == "" || svc.Port == 0 {
			return fmt.Errorf("service entries need both name and port, got %+v", svc)
		}
	}
	return nil
}
