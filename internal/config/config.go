package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"labclimate/internal/journal"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. LABCLIMATE_SIM_TICK=1s.
const EnvPrefix = "LABCLIMATE"

// Config holds all configuration for the application
type Config struct {
	Port     string         `mapstructure:"port"`
	Log      LogConfig      `mapstructure:"log"`
	Sim      SimConfig      `mapstructure:"sim"`
	Setpoint SetpointConfig `mapstructure:"setpoint"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Export   ExportConfig   `mapstructure:"export"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// LogConfig selects the level (debug, info, warn, error) and the line format
// (console or json).
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SimConfig tunes the simulation loop. Seed 0 seeds from the clock.
type SimConfig struct {
	Tick time.Duration `mapstructure:"tick"`
	Seed uint64        `mapstructure:"seed"`
}

// SetpointConfig is the power-on setpoint.
type SetpointConfig struct {
	Target     float64 `mapstructure:"target"`
	Threshold  float64 `mapstructure:"threshold"`
	Automation bool    `mapstructure:"automation"`
}

type JournalConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// ExportConfig holds where exports land when no path is given.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// AuthConfig protects the control API with a single operator password.
type AuthConfig struct {
	OperatorPassword string        `mapstructure:"operator_password"`
	SigningKey       string        `mapstructure:"signing_key"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
}

var (
	errNoPassword   = errors.New("auth.operator_password must be set")
	errNoSigningKey = errors.New("auth.signing_key must be set")
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port: "127.0.0.1:8080",
		Log:  LogConfig{Level: "info", Format: "console"},
		Sim:  SimConfig{Tick: 2 * time.Second},
		Setpoint: SetpointConfig{
			Target:     23,
			Threshold:  2,
			Automation: true,
		},
		Journal: JournalConfig{Capacity: journal.DefaultCapacity},
		Export:  ExportConfig{Dir: "."},
		Auth:    AuthConfig{TokenTTL: time.Hour},
	}
}

// Load reads config.yml from the given directories (first match wins), then
// applies LABCLIMATE_* environment overrides on top of the defaults.
// A missing file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigName("config")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("port", d.Port)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("sim.tick", d.Sim.Tick)
	v.SetDefault("sim.seed", d.Sim.Seed)
	v.SetDefault("setpoint.target", d.Setpoint.Target)
	v.SetDefault("setpoint.threshold", d.Setpoint.Threshold)
	v.SetDefault("setpoint.automation", d.Setpoint.Automation)
	v.SetDefault("journal.capacity", d.Journal.Capacity)
	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("auth.operator_password", d.Auth.OperatorPassword)
	v.SetDefault("auth.signing_key", d.Auth.SigningKey)
	v.SetDefault("auth.token_ttl", d.Auth.TokenTTL)
}

// Validate checks values that have no safe default.
func (c Config) Validate() error {
	if c.Auth.OperatorPassword == "" {
		return errNoPassword
	}
	if c.Auth.SigningKey == "" {
		return errNoSigningKey
	}
	if c.Sim.Tick <= 0 {
		return fmt.Errorf("sim.tick must be positive, got %s", c.Sim.Tick)
	}
	if c.Journal.Capacity < 1 || c.Journal.Capacity > journal.DefaultCapacity {
		return fmt.Errorf("journal.capacity must be between 1 and %d, got %d", journal.DefaultCapacity, c.Journal.Capacity)
	}
	return nil
}
