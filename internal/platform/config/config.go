// Package config defines process configuration and its layered loader.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full process configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Log        LogConfig        `koanf:"log"`
	Postgres   PostgresConfig   `koanf:"postgres"`
	Redis      RedisConfig      `koanf:"redis"`
	Kafka      KafkaConfig      `koanf:"kafka"`
	Auth       AuthConfig       `koanf:"auth"`
	Attendance AttendanceConfig `koanf:"attendance"`
	Consensus  ConsensusConfig  `koanf:"consensus"`
	Scheduler  SchedulerConfig  `koanf:"scheduler"`
	Tracing    TracingConfig    `koanf:"tracing"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	// SeedDemoData loads a demo match into in-memory stores.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// PostgresConfig is empty-DSN tolerant: no DSN means in-memory stores.
type PostgresConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	Migrate         bool          `koanf:"migrate"`
}

// RedisConfig holds Redis connection settings. No URL means in-process locks.
type RedisConfig struct {
	URL          string        `koanf:"url"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	LockTTL      time.Duration `koanf:"lock_ttl"`
	LockWait     time.Duration `koanf:"lock_wait"`
}

// KafkaConfig enables the notification publisher when Brokers is non-empty.
type KafkaConfig struct {
	Brokers  []string `koanf:"brokers"`
	Topic    string   `koanf:"topic"`
	ClientID string   `koanf:"client_id"`
	// Partitions is used only when the topic has to be created.
	Partitions int32 `koanf:"partitions"`
}

type AuthConfig struct {
	JWTSigningKey string `koanf:"jwt_signing_key"`
	Issuer        string `koanf:"issuer"`
	Audience      string `koanf:"audience"`
	AdminToken    string `koanf:"admin_token"`
}

// AttendanceConfig holds the code window rules.
type AttendanceConfig struct {
	// CodeWindow is how long before kickoff a code may first be issued.
	CodeWindow time.Duration `koanf:"code_window"`
	// CodeValidity is measured from kickoff.
	CodeValidity time.Duration `koanf:"code_validity"`
	CodeLength   int           `koanf:"code_length"`
}

type ConsensusConfig struct {
	MinSubmissions int `koanf:"min_submissions"`
	// Grace is how long after a match ends results stay open to submissions.
	Grace time.Duration `koanf:"grace"`
	// Slack widens the store query; eligibility is re-checked exactly.
	Slack time.Duration `koanf:"slack"`
}

type SchedulerConfig struct {
	Enabled            bool          `koanf:"enabled"`
	CodeIssueInterval  time.Duration `koanf:"code_issue_interval"`
	AutoFinishInterval time.Duration `koanf:"auto_finish_interval"`
	ConfirmInterval    time.Duration `koanf:"confirm_interval"`
	OutboxInterval     time.Duration `koanf:"outbox_interval"`
}

type TracingConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Insecure    bool    `koanf:"insecure"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Postgres: PostgresConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			Migrate:         true,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			LockTTL:      10 * time.Second,
			LockWait:     5 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic:      "matchday.notifications",
			ClientID:   "matchday",
			Partitions: 3,
		},
		Auth: AuthConfig{
			// Use a default for development - should be overridden in production
			JWTSigningKey: "dev-secret-key-change-in-production",
			Issuer:        "matchday",
		},
		Attendance: AttendanceConfig{
			CodeWindow:   60 * time.Minute,
			CodeValidity: 120 * time.Minute,
			CodeLength:   6,
		},
		Consensus: ConsensusConfig{
			MinSubmissions: 2,
			Grace:          24 * time.Hour,
			Slack:          3 * time.Hour,
		},
		Scheduler: SchedulerConfig{
			Enabled:            true,
			CodeIssueInterval:  5 * time.Minute,
			AutoFinishInterval: time.Minute,
			ConfirmInterval:    time.Hour,
			OutboxInterval:     2 * time.Second,
		},
		Tracing: TracingConfig{
			ServiceName: "matchday",
			SampleRatio: 1,
		},
	}
}

// Validate checks invariants the rest of the process relies on.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Auth.JWTSigningKey == "" {
		errs = append(errs, errors.New("auth.jwt_signing_key must not be empty"))
	}
	if c.Attendance.CodeLength < 4 || c.Attendance.CodeLength > 9 {
		errs = append(errs, fmt.Errorf("attendance.code_length must be within [4,9], got %d", c.Attendance.CodeLength))
	}
	if c.Attendance.CodeWindow <= 0 || c.Attendance.CodeValidity <= 0 {
		errs = append(errs, errors.New("attendance windows must be positive"))
	}
	if c.Consensus.MinSubmissions < 1 {
		errs = append(errs, errors.New("consensus.min_submissions must be at least 1"))
	}
	if c.Consensus.Grace <= 0 || c.Consensus.Slack < 0 {
		errs = append(errs, errors.New("consensus.grace must be positive and slack non-negative"))
	}
	if c.Scheduler.Enabled && (c.Scheduler.CodeIssueInterval <= 0 || c.Scheduler.AutoFinishInterval <= 0 || c.Scheduler.ConfirmInterval <= 0) {
		errs = append(errs, errors.New("scheduler intervals must be positive"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("kafka.topic is required when brokers are set"))
	}
	if c.Redis.URL != "" && c.Redis.LockTTL <= 0 {
		errs = append(errs, errors.New("redis.lock_ttl must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
