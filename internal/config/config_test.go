package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
database:
  host: localhost
  user: portal
  dbname: moving_portal
auth:
  jwtSecret: secret
`

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "portal-notifications", cfg.Kafka.Topics["notifications"])
	assert.Equal(t, 100, cfg.Realtime.BatchSize)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigRequiresDatabase(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
auth:
  jwtSecret: secret
`))
	assert.Error(t, err)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
database:
  host: localhost
  user: portal
  dbname: moving_portal
`))
	assert.Error(t, err)
}

func TestLoadConfigRequiresS3Bucket(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, validConfig+`
storage:
  type: s3
`))
	assert.Error(t, err)
}
