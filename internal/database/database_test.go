package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnString(t *testing.T) {
	tests := []struct {
		name string
		cfg  DBConfig
		want string
	}{
		{
			name: "explicit dsn wins",
			cfg:  DBConfig{Driver: "postgres", DSN: "postgres://u@db/cashbook", Host: "ignored"},
			want: "postgres://u@db/cashbook",
		},
		{
			name: "postgres fields",
			cfg:  DBConfig{Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", Name: "cashbook", SSLMode: "require"},
			want: "host=db port=5432 user=u password=p dbname=cashbook sslmode=require",
		},
		{
			name: "sqlite file",
			cfg:  DBConfig{Driver: "sqlite3", Name: "/tmp/cashbook.db"},
			want: "file:/tmp/cashbook.db?_foreign_keys=on&_journal_mode=WAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ConnString())
		})
	}
}

func TestInitializeSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS ledgers").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, InitializeSchema(db, "postgres"))

	assert.Error(t, InitializeSchema(db, "mysql"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitDB_SQLite(t *testing.T) {
	db, err := InitDB(&DBConfig{
		Driver:          "sqlite3",
		Name:            filepath.Join(t.TempDir(), "cashbook.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	require.NoError(t, err)
	defer db.Close()

	var tables int
	err = db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name IN ('ledgers', 'entries', 'attachments')`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 3, tables)
}

func TestGetRedisConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg := GetRedisConfig()
	assert.Equal(t, 1, cfg.BlobDB)
	assert.Equal(t, "blob:", cfg.BlobPrefix)
	assert.Equal(t, "localhost:6379", cfg.Options().Addr)

	viper.Set("redis.host", "cache")
	viper.Set("redis.blob_db", 4)
	viper.Set("redis.blob_prefix", "cashbook:blob:")

	cfg = GetRedisConfig()
	opts := cfg.Options()
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 4, opts.DB)
	assert.Equal(t, "cashbook:blob:", cfg.BlobPrefix)
}

func TestInitBlobRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := InitBlobRedis(ctx, &RedisConfig{Host: "127.0.0.1", Port: "1", DialTimeout: 100 * time.Millisecond})
	assert.ErrorContains(t, err, "blob redis")
}
