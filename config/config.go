package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the service settings read from the environment.
type Config struct {
	Debug      bool
	ListenAddr string

	RedisConn    string
	StorageConn  string
	DraftsTable  string
	CommandQueue string

	DraftCacheTTL time.Duration
	DeduperTTL    time.Duration

	CatalogFile  string
	FetchBaseURL string
	FetchTimeout time.Duration

	Journal JournalConfig
}

// JournalConfig sizes the command journal worker pool.
type JournalConfig struct {
	Workers        int
	Buffer         int
	Timeout        time.Duration
	HandoffTimeout time.Duration
}

// FromEnv reads the configuration. Invalid values are errors; missing optional
// values fall back to defaults.
func FromEnv() (Config, error) {
	var err error
	cfg := Config{
		RedisConn:    os.Getenv("REDIS_CONNECTION_STRING"),
		StorageConn:  os.Getenv("STORAGE_CONNECTION_STRING"),
		DraftsTable:  envString("DRAFTS_TABLE", "drafts"),
		CommandQueue: envString("COMMAND_QUEUE", "menu-commands"),
		CatalogFile:  os.Getenv("CATALOG_FILE"),
		FetchBaseURL: os.Getenv("FETCH_BASE_URL"),
	}
	if cfg.RedisConn == "" {
		return cfg, fmt.Errorf("missing redis config")
	}

	port := envString("PORT", "8080")
	if val, ok := os.LookupEnv("FUNCTIONS_CUSTOMHANDLER_PORT"); ok && val != "" {
		port = val
	}
	cfg.ListenAddr = ":" + port

	if cfg.Debug, err = envBool("DEBUG", false); err != nil {
		return cfg, err
	}
	if cfg.DraftCacheTTL, err = envDur("DRAFT_CACHE_TTL", time.Hour); err != nil {
		return cfg, err
	}
	if cfg.DeduperTTL, err = envDur("DEDUPER_TTL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.FetchTimeout, err = envDur("FETCH_TIMEOUT", 10*time.Second); err != nil {
		return cfg, err
	}
	if cfg.Journal.Workers, err = envInt("JOURNAL_WORKERS", 4); err != nil {
		return cfg, err
	}
	if cfg.Journal.Buffer, err = envInt("JOURNAL_BUFFER", 256); err != nil {
		return cfg, err
	}
	if cfg.Journal.Timeout, err = envDur("JOURNAL_TIMEOUT", 30*time.Second); err != nil {
		return cfg, err
	}
	if cfg.Journal.HandoffTimeout, err = envDur("JOURNAL_HANDOFF_TIMEOUT", 15*time.Millisecond); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Durable reports whether table storage is configured.
func (c Config) Durable() bool {
	return c.StorageConn != ""
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return def, fmt.Errorf("invalid %s: must be greater than zero", key)
	}
	return n, nil
}

func envDur(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return def, fmt.Errorf("invalid %s: must be greater than zero", key)
	}
	return d, nil
}

// ParseRedisOptions accepts a redis:// URL or the Azure style
// "host:port,password=...,ssl=true" connection string.
func ParseRedisOptions(conn string) (*redis.Options, error) {
	if conn == "" {
		return nil, fmt.Errorf("empty redis connection string")
	}
	if opts, err := redis.ParseURL(conn); err == nil {
		return opts, nil
	}
	parts := strings.Split(conn, ",")
	opts := &redis.Options{Addr: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(kv[0])) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts, nil
}
