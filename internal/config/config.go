// Package config loads cashbook settings from .env files and the environment.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the runtime configuration shared by the server and the CLI.
type Config struct {
	Sync    SyncConfig
	Blob    BlobConfig
	Catalog CatalogConfig
	Kafka   KafkaConfig
	JWT     JWTConfig
	Display DisplayConfig
	Port    string
}

type SyncConfig struct {
	UploadConcurrency int
	NoticeCapacity    int
	LoadTimeout       time.Duration
}

type BlobConfig struct {
	Backend       string // "redis" or "bolt"
	BoltPath      string
	PublicBaseURL string
}

type CatalogConfig struct {
	Path   string
	Strict bool
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type JWTConfig struct {
	SecretKey string
}

type DisplayConfig struct {
	Currency string
}

// envBindings maps viper keys to environment variables.
var envBindings = map[string]string{
	"database.driver":         "DATABASE_DRIVER",
	"database.dsn":            "DATABASE_DSN",
	"database.host":           "DATABASE_HOST",
	"database.port":           "DATABASE_PORT",
	"database.user":           "DATABASE_USER",
	"database.password":       "DATABASE_PASSWORD",
	"database.name":           "DATABASE_NAME",
	"database.ssl_mode":       "DATABASE_SSL_MODE",
	"redis.host":              "REDIS_HOST",
	"redis.port":              "REDIS_PORT",
	"redis.password":          "REDIS_PASSWORD",
	"redis.blob_db":           "REDIS_BLOB_DB",
	"redis.blob_prefix":       "REDIS_BLOB_PREFIX",
	"redis.dial_timeout":      "REDIS_DIAL_TIMEOUT",
	"blob.backend":            "BLOB_BACKEND",
	"blob.bolt_path":          "BLOB_BOLT_PATH",
	"blob.public_base_url":    "BLOB_PUBLIC_BASE_URL",
	"sync.upload_concurrency": "SYNC_UPLOAD_CONCURRENCY",
	"sync.notice_capacity":    "SYNC_NOTICE_CAPACITY",
	"sync.load_timeout":       "SYNC_LOAD_TIMEOUT",
	"catalog.path":            "CATALOG_PATH",
	"catalog.strict":          "CATALOG_STRICT",
	"kafka.brokers":           "KAFKA_BROKERS",
	"kafka.topic":             "KAFKA_TOPIC",
	"jwt.secret_key":          "JWT_SECRET_KEY",
	"display.currency":        "DISPLAY_CURRENCY",
	"port":                    "PORT",
}

func setDefaults() {
	viper.SetDefault("blob.backend", "bolt")
	viper.SetDefault("blob.bolt_path", "./data/blobs.db")
	viper.SetDefault("blob.public_base_url", "http://localhost:8080/blobs")
	viper.SetDefault("sync.upload_concurrency", 4)
	viper.SetDefault("sync.notice_capacity", 50)
	viper.SetDefault("sync.load_timeout", 30*time.Second)
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("catalog.strict", false)
	viper.SetDefault("kafka.brokers", "")
	viper.SetDefault("kafka.topic", "cashbook.changes")
	viper.SetDefault("jwt.secret_key", "")
	viper.SetDefault("display.currency", "INR")
	viper.SetDefault("port", "8080")
}

// Load reads envPath (or ./.env when empty and present) into the process
// environment, binds the environment into viper and returns the settings.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else if err := godotenv.Load(); err != nil {
		log.Printf("[CONFIG] No .env file loaded, using environment: %v", err)
	}

	viper.AutomaticEnv()
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	setDefaults()

	cfg := &Config{
		Sync: SyncConfig{
			UploadConcurrency: viper.GetInt("sync.upload_concurrency"),
			NoticeCapacity:    viper.GetInt("sync.notice_capacity"),
			LoadTimeout:       viper.GetDuration("sync.load_timeout"),
		},
		Blob: BlobConfig{
			Backend:       viper.GetString("blob.backend"),
			BoltPath:      viper.GetString("blob.bolt_path"),
			PublicBaseURL: viper.GetString("blob.public_base_url"),
		},
		Catalog: CatalogConfig{
			Path:   viper.GetString("catalog.path"),
			Strict: viper.GetBool("catalog.strict"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(viper.GetString("kafka.brokers")),
			Topic:   viper.GetString("kafka.topic"),
		},
		JWT:     JWTConfig{SecretKey: viper.GetString("jwt.secret_key")},
		Display: DisplayConfig{Currency: viper.GetString("display.currency")},
		Port:    viper.GetString("port"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	var problems []string
	if c.Sync.UploadConcurrency < 1 {
		problems = append(problems, "sync.upload_concurrency must be at least 1")
	}
	if c.Sync.NoticeCapacity < 1 {
		problems = append(problems, "sync.notice_capacity must be at least 1")
	}
	switch c.Blob.Backend {
	case "redis", "bolt":
	default:
		problems = append(problems, fmt.Sprintf("blob.backend %q is not one of redis, bolt", c.Blob.Backend))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
