package config

import (
	"testing"
	"time"
)

func TestLoad_FromEnv(t *testing.T) {

	t.Run("default", func(t *testing.T) {

		cfg := Load()

		if cfg.AuthPort != "1812" || cfg.AcctPort != "1813" {
			t.Errorf("expected default ports, got %s/%s", cfg.AuthPort, cfg.AcctPort)
		}
		if cfg.RedisAddr != "localhost:6379" {
			t.Errorf("expected default redis addr, got %s", cfg.RedisAddr)
		}
		if cfg.RedisPass != "" {
			t.Errorf("expected empty redis password, got %s", cfg.RedisPass)
		}
		if cfg.LogFilePath != "/var/log/radiusd.log" {
			t.Errorf("expected default log path, got %s", cfg.LogFilePath)
		}
		if cfg.RejectDelay != 7*time.Second || cfg.RejectThreshold != 6 {
			t.Errorf("unexpected throttle defaults: %v/%d", cfg.RejectDelay, cfg.RejectThreshold)
		}
		if cfg.DelayDrainInterval != 2700*time.Millisecond {
			t.Errorf("expected 2.7s drain interval, got %v", cfg.DelayDrainInterval)
		}
		if len(cfg.AuthPlugins) != 4 || cfg.AuthPlugins[0] != "user_exists" {
			t.Errorf("unexpected auth plugins: %v", cfg.AuthPlugins)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RADIUS_AUTH_PORT", "11812")
		t.Setenv("REJECT_DELAY", "0")
		t.Setenv("REJECT_THRESHOLD", "3")
		t.Setenv("CACHE_EVICT_INTERVAL", "90s")
		t.Setenv("DEBUG", "true")
		t.Setenv("ACCT_PLUGINS", " acct_store , ,acct_stat")
		t.Setenv("REDIS_DB", "not-a-number")

		cfg := Load()

		if cfg.AuthPort != "11812" {
			t.Errorf("expected auth port override, got %s", cfg.AuthPort)
		}
		if cfg.RejectDelay != 0 || cfg.RejectThreshold != 3 {
			t.Errorf("unexpected throttle config: %v/%d", cfg.RejectDelay, cfg.RejectThreshold)
		}
		if cfg.CacheEvictInterval != 90*time.Second {
			t.Errorf("expected 90s evict interval, got %v", cfg.CacheEvictInterval)
		}
		if !cfg.Debug {
			t.Error("expected debug enabled")
		}
		if cfg.RedisDB != 0 {
			t.Errorf("expected fallback redis db, got %d", cfg.RedisDB)
		}
		if len(cfg.AcctPlugins) != 2 || cfg.AcctPlugins[0] != "acct_store" || cfg.AcctPlugins[1] != "acct_stat" {
			t.Errorf("unexpected acct plugins: %v", cfg.AcctPlugins)
		}
	})

	t.Run("empty plugin list", func(t *testing.T) {
		t.Setenv("AUTH_PLUGINS", "")

		cfg := Load()

		if len(cfg.AuthPlugins) != 0 {
			t.Errorf("expected empty auth chain, got %v", cfg.AuthPlugins)
		}
		if len(cfg.AcctBeforePlugins) != 1 {
			t.Errorf("expected default acct before chain, got %v", cfg.AcctBeforePlugins)
		}
	})

	t.Run("reject delay units", func(t *testing.T) {
		cases := map[string]time.Duration{
			"5":      5 * time.Second,
			"1500ms": 1500 * time.Millisecond,
			"2s":     2 * time.Second,
			"bogus":  7 * time.Second,
		}
		for val, want := range cases {
			t.Setenv("REJECT_DELAY", val)
			if got := Load().RejectDelay; got != want {
				t.Errorf("REJECT_DELAY=%q: expected %v, got %v", val, want, got)
			}
		}
	})
}
