package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Escalation   EscalationConfig   `yaml:"escalation"`
	BookingCache BookingCacheConfig `yaml:"booking_cache"`
	Push         PushConfig         `yaml:"push"`
	Mail         MailConfig         `yaml:"mail"`
	WorkerPool   WorkerPoolConfig   `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// MailConfig holds the SendGrid credentials for invitation email. Values
// left empty in the file fall back to the SENDGRID_* environment variables,
// so secrets can live in .env instead of the config file.
type MailConfig struct {
	APIKey    string `yaml:"api_key"`
	FromName  string `yaml:"from_name"`
	FromEmail string `yaml:"from_email"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// EscalationConfig holds the escalation sweep configuration. Schedule is a
// cron expression; the default runs the sweep every minute.
type EscalationConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
	Timezone string `yaml:"timezone"`
}

// BookingCacheConfig controls the per-date booking count cache.
type BookingCacheConfig struct {
	TTLSeconds int           `yaml:"ttl_seconds"`
	TTL        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	if cfg.Escalation.Schedule == "" {
		cfg.Escalation.Schedule = "@every 1m"
	}
	if cfg.Escalation.Timezone == "" {
		cfg.Escalation.Timezone = "UTC"
	}

	if cfg.BookingCache.TTLSeconds <= 0 {
		cfg.BookingCache.TTLSeconds = 30
	}
	cfg.BookingCache.TTL = time.Duration(cfg.BookingCache.TTLSeconds) * time.Second

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Mail.APIKey == "" {
		cfg.Mail.APIKey = os.Getenv("SENDGRID_API_KEY")
	}
	if cfg.Mail.FromEmail == "" {
		cfg.Mail.FromEmail = os.Getenv("SENDGRID_FROM_EMAIL")
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = os.Getenv("SENDGRID_FROM_NAME")
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
