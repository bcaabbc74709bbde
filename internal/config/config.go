package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinReorderAttempts is the lowest retry bound accepted for reorder number generation.
const MinReorderAttempts = 32

// Config holds everything the client reads from the environment.
type Config struct {
	DatabaseDriver  string
	DatabaseURL     string
	MaxOpenConns    int
	ConnectTimeout  time.Duration
	Admins          map[string]string // username -> bcrypt hash
	AdminJWTSecret  string
	AMQPURL         string
	AMQPExchange    string
	KafkaBrokers    []string
	KafkaTopic      string
	HTTPAddr        string
	ReorderAttempts int
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, which keeps tests off the real environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		DatabaseDriver: get("DB_DRIVER", "postgres"),
		DatabaseURL:    get("DATABASE_URL", ""),
		AdminJWTSecret: get("ADMIN_JWT_SECRET", ""),
		AMQPURL:        get("AMQP_URL", ""),
		AMQPExchange:   get("AMQP_EXCHANGE", "wegmans2.events"),
		KafkaTopic:     get("KAFKA_TOPIC", "wegmans2.events"),
		HTTPAddr:       get("HTTP_ADDR", ":8080"),
	}

	if cfg.DatabaseDriver != "postgres" && cfg.DatabaseDriver != "pgx" {
		return nil, fmt.Errorf("DB_DRIVER must be postgres or pgx, got %q", cfg.DatabaseDriver)
	}

	if cfg.DatabaseURL == "" {
		host := get("DB_HOST", "")
		if host == "" {
			return nil, errors.New("missing DATABASE_URL or DB_HOST")
		}
		cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			get("DB_USER", "postgres"), get("DB_PASSWORD", "postgres"),
			host, get("DB_PORT", "5432"), get("DB_NAME", "wegmans2"),
			get("DB_SSLMODE", "disable"))
	}

	var err error
	if cfg.MaxOpenConns, err = strconv.Atoi(get("DB_MAX_OPEN_CONNS", "1")); err != nil || cfg.MaxOpenConns < 1 {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS %q", getenv("DB_MAX_OPEN_CONNS"))
	}
	if cfg.ConnectTimeout, err = time.ParseDuration(get("DB_CONNECT_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("invalid DB_CONNECT_TIMEOUT: %w", err)
	}
	if cfg.ReorderAttempts, err = strconv.Atoi(get("REORDER_MAX_ATTEMPTS", "32")); err != nil {
		return nil, fmt.Errorf("invalid REORDER_MAX_ATTEMPTS: %w", err)
	}
	if cfg.ReorderAttempts < MinReorderAttempts {
		cfg.ReorderAttempts = MinReorderAttempts
	}

	for _, b := range strings.Split(get("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	cfg.Admins, err = parseAdmins(get("WEGMANS_ADMINS", ""))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseAdmins reads "alice:$2a$10$...,bob:$2a$10$..." pairs.
func parseAdmins(raw string) (map[string]string, error) {
	admins := make(map[string]string)
	if raw == "" {
		return admins, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		name, hash, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || name == "" || hash == "" {
			return nil, fmt.Errorf("invalid WEGMANS_ADMINS entry %q", pair)
		}
		admins[name] = hash
	}
	return admins, nil
}
