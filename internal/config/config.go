package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type StorageKind string

const (
	StorageFile     StorageKind = "file"
	StoragePostgres StorageKind = "postgres"
	StorageRedis    StorageKind = "redis"
	StorageMemory   StorageKind = "memory"
)

type Config struct {
	HTTPAddr string

	// Commerce API
	CommerceURL     string
	CommerceToken   string
	UpstreamTimeout time.Duration

	// Cart persistence
	Storage        StorageKind
	StorageDir     string
	StorageKey     string
	PersistTimeout time.Duration
	DatabaseDSN    string
	RunMigrations  bool
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisTTL       time.Duration

	// Empty disables event publishing.
	RabbitMQURL string

	CORSAllowOrigins []string

	LogLevel       string
	LogDevelopment bool
}

func Load() Config {
	return Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		CommerceURL:     getenv("COMMERCE_API_URL", "https://oshposapi.021.uz"),
		CommerceToken:   os.Getenv("COMMERCE_API_TOKEN"),
		UpstreamTimeout: parseDuration(getenv("UPSTREAM_TIMEOUT", "10s"), 10*time.Second),

		Storage:        StorageKind(strings.ToLower(getenv("CART_STORAGE", string(StorageFile)))),
		StorageDir:     getenv("CART_STORAGE_DIR", "./data"),
		StorageKey:     getenv("CART_STORAGE_KEY", "cart"),
		PersistTimeout: parseDuration(getenv("PERSIST_TIMEOUT", "2s"), 2*time.Second),
		DatabaseDSN:    os.Getenv("DATABASE_DSN"),
		RunMigrations:  envBool("RUN_MIGRATIONS", true),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		RedisTTL:       parseDuration(getenv("REDIS_TTL", "0s"), 0),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),

		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogDevelopment: envBool("LOG_DEVELOPMENT", false),
	}
}

// Validate reports settings the binary cannot start with.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.CommerceURL) == "" {
		errs = append(errs, errors.New("COMMERCE_API_URL is required"))
	}

	switch c.Storage {
	case StorageFile:
		if strings.TrimSpace(c.StorageDir) == "" {
			errs = append(errs, errors.New("CART_STORAGE_DIR is required for file storage"))
		}
	case StoragePostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required for postgres storage"))
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for redis storage"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown CART_STORAGE %q", c.Storage))
	}

	key := strings.TrimSpace(c.StorageKey)
	if key == "" {
		errs = append(errs, errors.New("CART_STORAGE_KEY must not be empty"))
	} else if c.Storage == StorageFile && (strings.ContainsAny(key, `/\`) || key == "." || key == "..") {
		errs = append(errs, fmt.Errorf("CART_STORAGE_KEY %q is not a valid file name", c.StorageKey))
	}

	return errors.Join(errs...)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
