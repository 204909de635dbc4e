package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"airpen/protocol"
	"airpen/tracker"
)

const DefaultEnvFile = ".env"

// Config is everything the server needs at startup.
type Config struct {
	Host     string
	Port     int
	LogFile  string
	RecordDB string
	Outbox   int
	Tracker  tracker.Config
}

const DefaultHost = "0.0.0.0"

func Default() *Config {
	return &Config{
		Host:    DefaultHost,
		Port:    protocol.DefaultPort,
		Outbox:  64,
		Tracker: tracker.DefaultConfig(),
	}
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load starts from defaults, reads envFile into the environment and applies
// AIRPEN_* overrides. A missing default .env is fine; a named file that cannot
// be read is not.
func Load(envFile string) (*Config, error) {
	path := envFile
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if envFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.Outbox <= 0 {
		return fmt.Errorf("outbox must be > 0, got %d", c.Outbox)
	}
	return c.Tracker.Validate()
}

func applyEnv(c *Config) error {
	if v, ok := os.LookupEnv("AIRPEN_HOST"); ok {
		c.Host = v
	}
	if v, ok := os.LookupEnv("AIRPEN_LOG_FILE"); ok {
		c.LogFile = v
	}
	if v, ok := os.LookupEnv("AIRPEN_RECORD_DB"); ok {
		c.RecordDB = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"AIRPEN_PORT", &c.Port},
		{"AIRPEN_OUTBOX", &c.Outbox},
		{"AIRPEN_STATIONARY_FRAMES", &c.Tracker.StationaryFramesToZero},
	}
	for _, e := range ints {
		v, ok := os.LookupEnv(e.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = n
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"AIRPEN_DEADBAND", &c.Tracker.Deadband},
		{"AIRPEN_VELOCITY_DAMPING", &c.Tracker.VelocityDamping},
		{"AIRPEN_POSITION_SCALE", &c.Tracker.PositionScale},
		{"AIRPEN_MAX_VELOCITY", &c.Tracker.MaxVelocity},
		{"AIRPEN_MAX_POSITION", &c.Tracker.MaxPosition},
		{"AIRPEN_STATIONARY_THRESHOLD", &c.Tracker.StationaryThreshold},
	}
	for _, e := range floats {
		v, ok := os.LookupEnv(e.key)
		if !ok || v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = f
	}
	return nil
}
