package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// RedisConfig selects the Redis database that holds attachment blobs.
type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	BlobDB      int
	BlobPrefix  string
	DialTimeout time.Duration
}

// GetRedisConfig returns the blob Redis settings with defaults.
func GetRedisConfig() *RedisConfig {
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.blob_db", 1)
	viper.SetDefault("redis.blob_prefix", "blob:")
	viper.SetDefault("redis.dial_timeout", 5*time.Second)

	return &RedisConfig{
		Host:        viper.GetString("redis.host"),
		Port:        viper.GetString("redis.port"),
		Password:    viper.GetString("redis.password"),
		BlobDB:      viper.GetInt("redis.blob_db"),
		BlobPrefix:  viper.GetString("redis.blob_prefix"),
		DialTimeout: viper.GetDuration("redis.dial_timeout"),
	}
}

// Options builds the client options for the blob database.
func (c *RedisConfig) Options() *redis.Options {
	return &redis.Options{
		Addr:        c.Host + ":" + c.Port,
		Password:    c.Password,
		DB:          c.BlobDB,
		DialTimeout: c.DialTimeout,
	}
}

// InitBlobRedis connects to the blob database and checks it answers.
func InitBlobRedis(ctx context.Context, config *RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(config.Options())
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("error connecting to blob redis at %s: %w", config.Options().Addr, err)
	}

	log.Printf("Blob Redis connection established (db %d, prefix %q)", config.BlobDB, config.BlobPrefix)
	return rdb, nil
}
