package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"bsid.es/despertador"
)

// Config holds the configuration of the alarm service.
// Environment variables are parsed from the DESPERTADOR_ prefix.
type Config struct {
	// Storage
	DBPath     string `envconfig:"DB_PATH" default:"despertador.db"`
	DBPoolSize int    `envconfig:"DB_POOL_SIZE" default:"4"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// State machine timing
	LowNotificationLead  time.Duration `envconfig:"LOW_NOTIFICATION_LEAD" default:"2h"`
	HighNotificationLead time.Duration `envconfig:"HIGH_NOTIFICATION_LEAD" default:"30m"`
	MissedGrace          time.Duration `envconfig:"MISSED_GRACE" default:"5m"`
	MissedRepeatInterval time.Duration `envconfig:"MISSED_REPEAT_INTERVAL" default:"10m"`

	// Coordination
	LockTimeout          time.Duration `envconfig:"LOCK_TIMEOUT" default:"2s"`
	ReconcileInterval    time.Duration `envconfig:"RECONCILE_INTERVAL" default:"15m"`
	ReconcileConcurrency int           `envconfig:"RECONCILE_CONCURRENCY" default:"4"`

	// Alarm defaults, overridden per definition
	Snooze            time.Duration `envconfig:"SNOOZE" default:"10m"`
	Crescendo         time.Duration `envconfig:"CRESCENDO" default:"0s"`
	Volume            float64       `envconfig:"VOLUME" default:"1"`
	Vibration         string        `envconfig:"VIBRATION" default:"default"`
	MissedRepeatLimit int           `envconfig:"MISSED_REPEAT_LIMIT" default:"3"`
	AutoSilence       time.Duration `envconfig:"AUTO_SILENCE" default:"10m"`
}

// New creates a new Config by parsing environment variables, e.g.
// DESPERTADOR_DB_PATH or DESPERTADOR_SNOOZE.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("DESPERTADOR", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_path", cfg.DBPath).
		Int("db_pool_size", cfg.DBPoolSize).
		Dur("missed_grace", cfg.MissedGrace).
		Dur("lock_timeout", cfg.LockTimeout).
		Dur("reconcile_interval", cfg.ReconcileInterval).
		Dur("snooze", cfg.Snooze).
		Dur("auto_silence", cfg.AutoSilence).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting returns the default configuration with an in-test database
// path.
func NewForTesting() *Config {
	d := despertador.DefaultDefaults()
	p := despertador.DefaultPolicy()
	return &Config{
		DBPath:               "file::memory:?mode=memory",
		DBPoolSize:           1,
		LogLevel:             "debug",
		LowNotificationLead:  p.LowNotificationLead,
		HighNotificationLead: p.HighNotificationLead,
		MissedGrace:          p.MissedGrace,
		MissedRepeatInterval: p.MissedRepeatInterval,
		LockTimeout:          2 * time.Second,
		ReconcileInterval:    15 * time.Minute,
		ReconcileConcurrency: 4,
		Snooze:               d.Snooze,
		Crescendo:            d.Crescendo,
		Volume:               d.Volume,
		Vibration:            d.Vibration,
		MissedRepeatLimit:    d.MissedRepeatLimit,
		AutoSilence:          d.AutoSilence,
	}
}

func (c *Config) Validate() error {
	switch {
	case c.DBPath == "":
		return fmt.Errorf("DB_PATH must be set")
	case c.LowNotificationLead < c.HighNotificationLead:
		return fmt.Errorf("LOW_NOTIFICATION_LEAD (%s) shorter than HIGH_NOTIFICATION_LEAD (%s)",
			c.LowNotificationLead, c.HighNotificationLead)
	case c.HighNotificationLead < 0:
		return fmt.Errorf("HIGH_NOTIFICATION_LEAD must be non-negative")
	case c.MissedGrace < 0:
		return fmt.Errorf("MISSED_GRACE must be non-negative")
	case c.MissedRepeatInterval <= 0:
		return fmt.Errorf("MISSED_REPEAT_INTERVAL must be positive")
	case c.ReconcileInterval <= 0:
		return fmt.Errorf("RECONCILE_INTERVAL must be positive")
	case c.Snooze <= 0:
		return fmt.Errorf("SNOOZE must be positive")
	case c.Crescendo < 0 || c.AutoSilence < 0:
		return fmt.Errorf("CRESCENDO and AUTO_SILENCE must be non-negative")
	case c.Volume < 0 || c.Volume > 1:
		return fmt.Errorf("VOLUME must be within [0, 1]")
	case c.MissedRepeatLimit < 0:
		return fmt.Errorf("MISSED_REPEAT_LIMIT must be non-negative")
	}
	return nil
}

// Policy returns the state machine timing.
func (c *Config) Policy() despertador.Policy {
	return despertador.Policy{
		LowNotificationLead:  c.LowNotificationLead,
		HighNotificationLead: c.HighNotificationLead,
		MissedGrace:          c.MissedGrace,
		MissedRepeatInterval: c.MissedRepeatInterval,
	}
}

// Defaults returns the alarm settings applied where a definition carries
// no override.
func (c *Config) Defaults() despertador.Defaults {
	return despertador.Defaults{
		Snooze:            c.Snooze,
		Crescendo:         c.Crescendo,
		Volume:            c.Volume,
		Vibration:         c.Vibration,
		MissedRepeatLimit: c.MissedRepeatLimit,
		AutoSilence:       c.AutoSilence,
	}
}

func (c *Config) CoordinatorOptions() despertador.CoordinatorOptions {
	return despertador.CoordinatorOptions{
		Defaults:    c.Defaults(),
		LockTimeout: c.LockTimeout,
		Concurrency: c.ReconcileConcurrency,
	}
}
