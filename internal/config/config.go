package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all the environment-based configurations.
type Config struct {
	AuthPort  string
	AcctPort  string
	AdminAddr string

	RedisAddr string
	RedisPass string
	RedisDB   int

	LogFilePath string
	LogLevel    string
	Debug       bool

	// RejectDelay is how long a throttled reject is held back. Zero disables throttling.
	// REJECT_DELAY takes a bare number of seconds or a Go duration string.
	RejectDelay     time.Duration
	RejectThreshold int
	RosterTTL       time.Duration

	DelayDrainInterval time.Duration
	CacheEvictInterval time.Duration
	CacheTTL           time.Duration

	TraceSize   int
	ClientsFile string

	AuthPlugins       []string
	AcctBeforePlugins []string
	AcctPlugins       []string
}

// Load reads the configuration from environment variables.
func Load() Config {
	return Config{
		AuthPort:  getEnv("RADIUS_AUTH_PORT", "1812"),
		AcctPort:  getEnv("RADIUS_ACCT_PORT", "1813"),
		AdminAddr: getEnv("ADMIN_ADDR", ":1815"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASSWORD", ""),
		RedisDB:   getEnvInt("REDIS_DB", 0),

		LogFilePath: getEnv("LOG_FILE_PATH", "/var/log/radiusd.log"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Debug:       getEnvBool("DEBUG", false),

		RejectDelay:     getEnvSeconds("REJECT_DELAY", 7*time.Second),
		RejectThreshold: getEnvInt("REJECT_THRESHOLD", 6),
		RosterTTL:       getEnvDuration("ROSTER_TTL", 10*time.Minute),

		DelayDrainInterval: getEnvDuration("DELAY_DRAIN_INTERVAL", 2700*time.Millisecond),
		CacheEvictInterval: getEnvDuration("CACHE_EVICT_INTERVAL", time.Hour),
		CacheTTL:           getEnvDuration("CACHE_TTL", 10*time.Minute),

		TraceSize:   getEnvInt("TRACE_SIZE", 32),
		ClientsFile: getEnv("CLIENTS_FILE", ""),

		AuthPlugins:       getEnvList("AUTH_PLUGINS", "user_exists,user_status,user_password,bas_filter"),
		AcctBeforePlugins: getEnvList("ACCT_BEFORE_PLUGINS", "acct_session"),
		AcctPlugins:       getEnvList("ACCT_PLUGINS", "acct_stat,acct_store"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultVal
}

// getEnvSeconds accepts "7" as seven seconds as well as "7s" or "1500ms".
func getEnvSeconds(key string, defaultVal time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second
	}
	return getEnvDuration(key, defaultVal)
}

// getEnvList splits a comma-separated value, dropping blanks. Order is kept.
// A key that is set but empty yields an empty list.
func getEnvList(key, defaultVal string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		val = defaultVal
	}
	out := []string{}
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
