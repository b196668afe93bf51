package config

import (
	"testing"
	"time"

	"bsid.es/despertador"
)

func TestConfigLoadDefaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.Policy() != despertador.DefaultPolicy() {
		t.Fatalf("unexpected default policy: %+v", cfg.Policy())
	}
	if cfg.Defaults() != despertador.DefaultDefaults() {
		t.Fatalf("unexpected default alarm settings: %+v", cfg.Defaults())
	}
	if cfg.DBPath != "despertador.db" || cfg.ReconcileInterval != 15*time.Minute {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigLoadEnvOverride(t *testing.T) {
	t.Setenv("DESPERTADOR_MISSED_GRACE", "90s")
	t.Setenv("DESPERTADOR_SNOOZE", "5m")
	t.Setenv("DESPERTADOR_VIBRATION", "none")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.MissedGrace != 90*time.Second {
		t.Fatalf("missed grace env override failed, got %s", cfg.MissedGrace)
	}
	if d := cfg.Defaults(); d.Snooze != 5*time.Minute || d.Vibration != "none" {
		t.Fatalf("defaults env override failed, got %+v", d)
	}
}

func TestConfigLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"DESPERTADOR_SNOOZE":                 "0s",
		"DESPERTADOR_VOLUME":                 "2",
		"DESPERTADOR_HIGH_NOTIFICATION_LEAD": "3h",
		"DESPERTADOR_MISSED_GRACE":           "soon",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := New(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestNewForTestingIsValid(t *testing.T) {
	cfg := NewForTesting()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("testing config invalid: %v", err)
	}
	opts := cfg.CoordinatorOptions()
	if opts.Concurrency != 4 || opts.LockTimeout != 2*time.Second {
		t.Fatalf("unexpected coordinator options: %+v", opts)
	}
}
