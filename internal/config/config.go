//-------------------------------------------------------------------------
//
// Lakeshed
//
// Portions copyright (c) 2025 - 2026, the Lakeshed authors
// This software is released under the Apache License, Version 2.0
//
//-------------------------------------------------------------------------

// Package config is the single source of truth for lakeshed configuration.
// Values come from built-in defaults, an optional config file (dotenv format
// by default), and environment variables, with the environment winning.
// CLI flags are applied on top by the command layer.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for lakeshed.
type Config struct {
	// ---- app ----

	AppName     string `mapstructure:"app_name" json:"app_name"`
	Environment string `mapstructure:"environment" json:"environment"`
	Debug       bool   `mapstructure:"debug" json:"debug"`
	// LogLevel controls logging verbosity (trace, debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" json:"log_level"`

	// ---- trino ----

	TrinoHost    string `mapstructure:"trino_host" json:"trino_host"`
	TrinoPort    int    `mapstructure:"trino_port" json:"trino_port"`
	TrinoCatalog string `mapstructure:"trino_catalog" json:"trino_catalog"`
	// TrinoSchema is the session default schema; the demo table lives in
	// its own schema and is always addressed fully qualified.
	TrinoSchema string `mapstructure:"trino_schema" json:"trino_schema"`
	TrinoUser   string `mapstructure:"trino_user" json:"trino_user"`

	// ---- postgres (hive metastore database) ----

	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresDB       string `mapstructure:"postgres_db" json:"postgres_db"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"`

	// ---- redis ----

	RedisHost     string `mapstructure:"redis_host" json:"redis_host"`
	RedisPort     int    `mapstructure:"redis_port" json:"redis_port"`
	RedisDB       int    `mapstructure:"redis_db" json:"redis_db"`
	RedisPassword string `mapstructure:"redis_password" json:"redis_password"`

	// ---- minio ----

	MinIOEndpoint  string `mapstructure:"minio_endpoint" json:"minio_endpoint"`
	MinIOAccessKey string `mapstructure:"minio_access_key" json:"minio_access_key"`
	MinIOSecretKey string `mapstructure:"minio_secret_key" json:"minio_secret_key"`
	MinIOBucket    string `mapstructure:"minio_bucket" json:"minio_bucket"`
	MinIOSecure    bool   `mapstructure:"minio_secure" json:"minio_secure"`

	// Infrastructure-side MinIO settings, surfaced for the info dump so
	// the whole docker-compose stack reads from one place.
	MinIORootUser     string `mapstructure:"minio_root_user" json:"minio_root_user"`
	MinIORootPassword string `mapstructure:"minio_root_password" json:"minio_root_password"`
	MinIOPort         int    `mapstructure:"minio_port" json:"minio_port"`
	MinIOConsolePort  int    `mapstructure:"minio_console_port" json:"minio_console_port"`

	// ---- feature flags ----

	SendEmailAlerts      bool `mapstructure:"send_email_alerts" json:"send_email_alerts"`
	EnableDataValidation bool `mapstructure:"enable_data_validation" json:"enable_data_validation"`
	DryRunMode           bool `mapstructure:"dry_run_mode" json:"dry_run_mode"`
	AutoCreateTables     bool `mapstructure:"auto_create_tables" json:"auto_create_tables"`

	// ---- processing ----

	BatchSize      int `mapstructure:"batch_size" json:"batch_size"`
	MaxRetries     int `mapstructure:"max_retries" json:"max_retries"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	// ParallelWorkers is reserved for the wider stack; the insert path is
	// deliberately sequential.
	ParallelWorkers int `mapstructure:"parallel_workers" json:"parallel_workers"`

	// ---- email ----

	EmailSMTPHost string `mapstructure:"email_smtp_host" json:"email_smtp_host"`
	EmailSMTPPort int    `mapstructure:"email_smtp_port" json:"email_smtp_port"`
	EmailUsername string `mapstructure:"email_username" json:"email_username"`
	EmailPassword string `mapstructure:"email_password" json:"email_password"`
	EmailFrom     string `mapstructure:"email_from" json:"email_from"`
	// EmailRecipients is comma-separated.
	EmailRecipients string `mapstructure:"email_recipients" json:"email_recipients"`

	// ---- infrastructure (cloudbeaver, hive metastore) ----

	CBServerName    string `mapstructure:"cb_server_name" json:"cb_server_name"`
	CBServerURL     string `mapstructure:"cb_server_url" json:"cb_server_url"`
	CBAdminName     string `mapstructure:"cb_admin_name" json:"cb_admin_name"`
	CBAdminPassword string `mapstructure:"cb_admin_password" json:"cb_admin_password"`
	CloudBeaverPort int    `mapstructure:"cloudbeaver_port" json:"cloudbeaver_port"`

	HiveMetastorePort int `mapstructure:"hive_metastore_port" json:"hive_metastore_port"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		AppName:     "lakeshed",
		Environment: "development",
		Debug:       true,
		LogLevel:    "info",

		TrinoHost:    "localhost",
		TrinoPort:    8080,
		TrinoCatalog: "iceberg",
		TrinoSchema:  "default",
		TrinoUser:    "",

		PostgresHost:     "localhost",
		PostgresPort:     5433,
		PostgresDB:       "metastore",
		PostgresUser:     "hive",
		PostgresPassword: "hive",

		RedisHost:     "localhost",
		RedisPort:     6379,
		RedisDB:       0,
		RedisPassword: "",

		MinIOEndpoint:     "localhost:9000",
		MinIOAccessKey:    "minio",
		MinIOSecretKey:    "minio123",
		MinIOBucket:       "warehouse",
		MinIOSecure:       false,
		MinIORootUser:     "minio",
		MinIORootPassword: "minio123",
		MinIOPort:         9000,
		MinIOConsolePort:  9001,

		SendEmailAlerts:      false,
		EnableDataValidation: true,
		DryRunMode:           false,
		AutoCreateTables:     true,

		BatchSize:       1000,
		MaxRetries:      3,
		TimeoutSeconds:  300,
		ParallelWorkers: 4,

		EmailSMTPHost:   "smtp.gmail.com",
		EmailSMTPPort:   587,
		EmailUsername:   "",
		EmailPassword:   "",
		EmailFrom:       "noreply@company.com",
		EmailRecipients: "",

		CBServerName:    "Lakeshed CloudBeaver",
		CBServerURL:     "http://localhost:8978",
		CBAdminName:     "admin",
		CBAdminPassword: "admin123",
		CloudBeaverPort: 8978,

		HiveMetastorePort: 9083,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "lakeshed")
	v.SetDefault("environment", "development")
	v.SetDefault("debug", true)
	v.SetDefault("log_level", "info")

	v.SetDefault("trino_host", "localhost")
	v.SetDefault("trino_port", 8080)
	v.SetDefault("trino_catalog", "iceberg")
	v.SetDefault("trino_schema", "default")
	v.SetDefault("trino_user", "")

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5433)
	v.SetDefault("postgres_db", "metastore")
	v.SetDefault("postgres_user", "hive")
	v.SetDefault("postgres_password", "hive")

	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", 6379)
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_password", "")

	v.SetDefault("minio_endpoint", "localhost:9000")
	v.SetDefault("minio_access_key", "minio")
	v.SetDefault("minio_secret_key", "minio123")
	v.SetDefault("minio_bucket", "warehouse")
	v.SetDefault("minio_secure", false)
	v.SetDefault("minio_root_user", "minio")
	v.SetDefault("minio_root_password", "minio123")
	v.SetDefault("minio_port", 9000)
	v.SetDefault("minio_console_port", 9001)

	v.SetDefault("send_email_alerts", false)
	v.SetDefault("enable_data_validation", true)
	v.SetDefault("dry_run_mode", false)
	v.SetDefault("auto_create_tables", true)

	v.SetDefault("batch_size", 1000)
	v.SetDefault("max_retries", 3)
	v.SetDefault("timeout_seconds", 300)
	v.SetDefault("parallel_workers", 4)

	v.SetDefault("email_smtp_host", "smtp.gmail.com")
	v.SetDefault("email_smtp_port", 587)
	v.SetDefault("email_username", "")
	v.SetDefault("email_password", "")
	v.SetDefault("email_from", "noreply@company.com")
	v.SetDefault("email_recipients", "")

	v.SetDefault("cb_server_name", "Lakeshed CloudBeaver")
	v.SetDefault("cb_server_url", "http://localhost:8978")
	v.SetDefault("cb_admin_name", "admin")
	v.SetDefault("cb_admin_password", "admin123")
	v.SetDefault("cloudbeaver_port", 8978)

	v.SetDefault("hive_metastore_port", 9083)
}

// Load reads configuration from defaults, an optional config file, and the
// environment. When configFile is empty ./.env is tried and a missing file
// is fine; an explicitly named file must exist. Environment variables use
// the upper-cased key names (TRINO_HOST, BATCH_SIZE, ...).
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	path := configFile
	if path == "" {
		path = ".env"
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if configFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	for name, port := range map[string]int{
		"trino_port":          c.TrinoPort,
		"postgres_port":       c.PostgresPort,
		"redis_port":          c.RedisPort,
		"hive_metastore_port": c.HiveMetastorePort,
	} {
		if port < 1 || port > 65535 {
			return fmt.Errorf("%s must be in 1..65535, got %d", name, port)
		}
	}
	if c.TrinoCatalog == "" {
		return fmt.Errorf("trino_catalog is required")
	}
	if c.MinIOBucket == "" {
		return fmt.Errorf("minio_bucket is required")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout_seconds must be at least 1")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.ParallelWorkers < 1 {
		return fmt.Errorf("parallel_workers must be at least 1")
	}
	if c.SendEmailAlerts && len(c.Recipients()) == 0 {
		return fmt.Errorf("email_recipients is required when send_email_alerts is on")
	}
	return nil
}

// IsDevelopment reports whether lakeshed runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// IsProduction reports whether lakeshed runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// PostgresConnString returns the metastore database connection URL.
func (c *Config) PostgresConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

// TrinoServerURI returns the coordinator URI with user info, as the Trino
// driver expects it. An unset trino_user falls back to "default".
func (c *Config) TrinoServerURI() string {
	user := c.TrinoUser
	if user == "" {
		user = "default"
	}
	return fmt.Sprintf("http://%s@%s:%d", user, c.TrinoHost, c.TrinoPort)
}

// RedisAddr returns the host:port address for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Recipients splits the comma-separated email_recipients field.
func (c *Config) Recipients() []string {
	if c.EmailRecipients == "" {
		return nil
	}
	var out []string
	for _, r := range strings.Split(c.EmailRecipients, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// QueryTimeout returns timeout_seconds as a duration.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Redacted returns a copy with secret fields masked, for configuration dumps.
func (c *Config) Redacted() *Config {
	r := *c
	r.PostgresPassword = mask(r.PostgresPassword)
	r.RedisPassword = mask(r.RedisPassword)
	r.MinIOSecretKey = mask(r.MinIOSecretKey)
	r.MinIORootPassword = mask(r.MinIORootPassword)
	r.EmailPassword = mask(r.EmailPassword)
	r.CBAdminPassword = mask(r.CBAdminPassword)
	return &r
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
