package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Snehit70/voice-cli/internal/ipc"
	"github.com/Snehit70/voice-cli/internal/pipeline"
	"github.com/Snehit70/voice-cli/internal/waveform"
)

type Config struct {
	SocketPath       string        `yaml:"socket_path"`
	Width            int           `yaml:"width"`
	Height           int           `yaml:"height"`
	FPS              int           `yaml:"fps"`
	QueueCapacity    int           `yaml:"queue_capacity"`
	HistorySize      int           `yaml:"history_size"`
	ReconnectBackoff time.Duration `yaml:"reconnect_backoff"`
	ShmPath          string        `yaml:"shm_path"`
	PixelFormat      string        `yaml:"pixel_format"`
	DebugAddr        string        `yaml:"debug_addr"`
	LogLevel         string        `yaml:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		SocketPath:       ipc.DefaultSocketPath,
		Width:            800,
		Height:           60,
		FPS:              pipeline.DefaultFPS,
		QueueCapacity:    ipc.DefaultQueueCapacity,
		HistorySize:      waveform.HistorySize,
		ReconnectBackoff: 2 * time.Second,
		ShmPath:          "/dev/shm/voice-cli-overlay",
		PixelFormat:      "argb8888",
		LogLevel:         "info",
	}
}

// Load builds the config from defaults, the YAML file named by
// OVERLAY_CONFIG, environment overrides and finally the first positional
// argument, which is the socket path. args is os.Args.
func Load(args []string) (*Config, error) {
	cfg := Default()

	if path := os.Getenv("OVERLAY_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.SocketPath = getEnv("OVERLAY_SOCKET", cfg.SocketPath)
	cfg.ShmPath = getEnv("OVERLAY_SHM_PATH", cfg.ShmPath)
	cfg.PixelFormat = getEnv("OVERLAY_PIXEL_FORMAT", cfg.PixelFormat)
	cfg.DebugAddr = getEnv("OVERLAY_DEBUG_ADDR", cfg.DebugAddr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	var err error
	if cfg.Width, err = getEnvInt("OVERLAY_WIDTH", cfg.Width); err != nil {
		return nil, err
	}
	if cfg.Height, err = getEnvInt("OVERLAY_HEIGHT", cfg.Height); err != nil {
		return nil, err
	}
	if cfg.FPS, err = getEnvInt("OVERLAY_FPS", cfg.FPS); err != nil {
		return nil, err
	}

	if len(args) > 1 && args[1] != "" {
		cfg.SocketPath = args[1]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// Validate rejects settings the overlay cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.SocketPath == "" {
		errs = append(errs, errors.New("socket path is empty"))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid surface size %dx%d", c.Width, c.Height))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("invalid fps %d", c.FPS))
	}
	if c.QueueCapacity <= 0 {
		errs = append(errs, fmt.Errorf("invalid queue capacity %d", c.QueueCapacity))
	}
	if c.HistorySize <= 0 {
		errs = append(errs, fmt.Errorf("invalid history size %d", c.HistorySize))
	}
	if c.ReconnectBackoff <= 0 {
		errs = append(errs, fmt.Errorf("invalid reconnect backoff %s", c.ReconnectBackoff))
	}
	switch c.PixelFormat {
	case "rgba", "argb8888":
	default:
		errs = append(errs, fmt.Errorf("unsupported pixel format %q", c.PixelFormat))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
