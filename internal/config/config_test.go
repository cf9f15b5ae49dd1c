package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeEnv(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "bolt", cfg.Blob.Backend)
	assert.Equal(t, 4, cfg.Sync.UploadConcurrency)
	assert.Equal(t, 50, cfg.Sync.NoticeCapacity)
	assert.Equal(t, 30*time.Second, cfg.Sync.LoadTimeout)
	assert.Equal(t, "INR", cfg.Display.Currency)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("BLOB_BACKEND", "redis")
	t.Setenv("SYNC_UPLOAD_CONCURRENCY", "8")
	t.Setenv("SYNC_LOAD_TIMEOUT", "5s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("CATALOG_STRICT", "true")

	cfg, err := Load(writeEnv(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Blob.Backend)
	assert.Equal(t, 8, cfg.Sync.UploadConcurrency)
	assert.Equal(t, 5*time.Second, cfg.Sync.LoadTimeout)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Catalog.Strict)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv("DISPLAY_CURRENCY") })

	cfg, err := Load(writeEnv(t, "DISPLAY_CURRENCY=USD\n"))
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Display.Currency)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Sync: SyncConfig{UploadConcurrency: 1, NoticeCapacity: 1},
		Blob: BlobConfig{Backend: "bolt"},
	}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Sync.UploadConcurrency = 0
	bad.Blob.Backend = "s3"
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync.upload_concurrency")
	assert.Contains(t, err.Error(), `blob.backend "s3"`)
}
