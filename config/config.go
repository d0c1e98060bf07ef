package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // venue timezone must resolve on minimal images

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// APIKeyEnv is the environment variable holding the base64 Acuity credential.
const APIKeyEnv = "ACUITY_API_KEY"

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Acuity     AcuityConfig     `yaml:"acuity"`
	Venue      VenueConfig      `yaml:"venue"`
	Board      BoardConfig      `yaml:"board"`
	CasualPlay CasualPlayConfig `yaml:"casual_play"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// AcuityConfig describes the upstream scheduling API.
type AcuityConfig struct {
	BaseURL           string `yaml:"base_url"`
	APIKey            string `yaml:"api_key"`
	AppointmentTypeID int64  `yaml:"appointment_type_id"`
	Max               int    `yaml:"max"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	HTTPProxy         string `yaml:"http_proxy"`
}

// VenueConfig fixes the wall clock every derived time is rendered in.
type VenueConfig struct {
	Timezone string         `yaml:"timezone"`
	Location *time.Location `yaml:"-"`
}

// BoardConfig controls the in-process slot evaluation loop.
type BoardConfig struct {
	Disabled    bool          `yaml:"disabled"`
	TickSeconds int           `yaml:"tick_seconds"`
	Tick        time.Duration `yaml:"-"`
}

// CasualPlayConfig lists the walk-in sessions that may occupy the shared zones.
type CasualPlayConfig struct {
	Disabled        bool            `yaml:"disabled"`
	YieldToBookings bool            `yaml:"yield_to_bookings"`
	Sessions        []CasualSession `yaml:"sessions"`
}

// CasualSession is one fixed daily walk-in window.
type CasualSession struct {
	Name          string        `yaml:"name"`
	Start         string        `yaml:"start"` // "15:04", venue local
	WindowMinutes int           `yaml:"window_minutes"`
	Offset        time.Duration `yaml:"-"` // Start as time since local midnight
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// LoggingConfig selects the zerolog level, format and sink.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// Load reads the configuration from the given path.
// A .env file in the working directory is loaded first if present, and
// ${VAR} references in the YAML are expanded from the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes raw YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, err
	}

	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		cfg.Acuity.APIKey = key
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied and no credential.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	if err := cfg.resolve(); err != nil {
		panic(err)
	}
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimitPerSec <= 0 {
		c.Server.RateLimitPerSec = 10
	}
	if c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = 5
	}
	if c.Server.CacheTTLSeconds < 0 {
		c.Server.CacheTTLSeconds = 0
	} else if c.Server.CacheTTLSeconds == 0 {
		c.Server.CacheTTLSeconds = 60
	}

	if c.Acuity.BaseURL == "" {
		c.Acuity.BaseURL = "https://acuityscheduling.com/api/v1"
	}
	c.Acuity.BaseURL = strings.TrimRight(c.Acuity.BaseURL, "/")
	if c.Acuity.AppointmentTypeID == 0 {
		c.Acuity.AppointmentTypeID = 60238709
	}
	if c.Acuity.Max <= 0 {
		c.Acuity.Max = 100
	}

	if c.Venue.Timezone == "" {
		c.Venue.Timezone = "Australia/Perth"
	}

	if c.Board.TickSeconds <= 0 {
		c.Board.TickSeconds = 60
	}
	c.Board.Tick = time.Duration(c.Board.TickSeconds) * time.Second

	if c.CasualPlay.Sessions == nil {
		c.CasualPlay.Sessions = []CasualSession{
			{Name: "Casual Play", Start: "11:00"},
			{Name: "Casual Play", Start: "13:30"},
		}
	}
	for i := range c.CasualPlay.Sessions {
		if c.CasualPlay.Sessions[i].Name == "" {
			c.CasualPlay.Sessions[i].Name = "Casual Play"
		}
		if c.CasualPlay.Sessions[i].WindowMinutes <= 0 {
			c.CasualPlay.Sessions[i].WindowMinutes = 60
		}
	}

	if c.Push.TTL <= 0 {
		c.Push.TTL = 3600
	}
	if c.WorkerPool.Size <= 0 {
		c.WorkerPool.Size = 1
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks required values and resolves derived fields.
func (c *Config) Validate() error {
	if c.Acuity.APIKey == "" {
		return fmt.Errorf("%s or acuity.api_key is required", APIKeyEnv)
	}
	return c.resolve()
}

func (c *Config) resolve() error {
	loc, err := time.LoadLocation(c.Venue.Timezone)
	if err != nil {
		return fmt.Errorf("invalid venue.timezone %q: %w", c.Venue.Timezone, err)
	}
	c.Venue.Location = loc

	for i := range c.CasualPlay.Sessions {
		s := &c.CasualPlay.Sessions[i]
		t, err := time.Parse("15:04", s.Start)
		if err != nil {
			return fmt.Errorf("casual_play.sessions[%d].start %q: %w", i, s.Start, err)
		}
		s.Offset = time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	}
	return nil
}

// Location returns the venue timezone, falling back to UTC before validation.
func (c *Config) Location() *time.Location {
	if c.Venue.Location == nil {
		return time.UTC
	}
	return c.Venue.Location
}
