package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8081" {
		t.Fatalf("default port = %q", cfg.Port)
	}
	if cfg.SQLiteDBPath != "./data/financas.db" {
		t.Fatalf("default db path = %q", cfg.SQLiteDBPath)
	}
	if cfg.SessionTTL != 720*time.Hour {
		t.Fatalf("default session TTL = %v", cfg.SessionTTL)
	}
	if cfg.SecureCookie {
		t.Fatal("secure cookie should default to false")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SECURE_COOKIE", "true")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("session TTL = %v", cfg.SessionTTL)
	}
	if !cfg.SecureCookie {
		t.Fatal("secure cookie should be true")
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Port:                 "8081",
		SQLiteDBPath:         ":memory:",
		SessionTTL:           time.Hour,
		SessionSweepInterval: time.Minute,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"non-numeric port", func(c *Config) { c.Port = "http" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"empty db path", func(c *Config) { c.SQLiteDBPath = "" }},
		{"tiny session ttl", func(c *Config) { c.SessionTTL = time.Second }},
		{"tiny sweep interval", func(c *Config) { c.SessionSweepInterval = time.Millisecond }},
	}
	for _, tc := range cases {
		cfg := *valid
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}
