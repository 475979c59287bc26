package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `service_name: "connectpro"
loglevel: "DEBUG"
host: "localhost"
port: "8080"
ping_message: "pong"
auth:
  secret: "file-secret"
  token_ttl: 168h
  allow_demo_secret: false
database:
  type: "mongo"
  mongodb_config:
    uri: "mongodb://localhost:27017/connectpro"
    timeout: 3s
    mongo_server_options:
      api_version: "1"
      set_strict: true
      set_deprecation_errors: true
    valid_collections:
      - "users"
      - "posts"
  postgres_config:
    dsn: "postgres://localhost:5432/connectpro?sslmode=disable"
    timeout: 3s
    valid_tables:
      - "users"
      - "posts"
`

func writeTestConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestReadLocalConfig(t *testing.T) {
	cfg, err := ReadLocalConfig(writeTestConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "connectpro", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "pong", cfg.PingMessage)
	assert.Equal(t, "file-secret", cfg.Auth.Secret)
	assert.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.AllowDemoSecret)
	assert.Equal(t, "mongo", cfg.Database.Type)
	assert.Equal(t, 3*time.Second, cfg.Database.MongoDB.Timeout)
	assert.Equal(t, []string{"users", "posts"}, cfg.Database.MongoDB.ValidCollections)
}

func TestReadLocalConfigEnvOverrides(t *testing.T) {
	t.Setenv(EnvJWTSecret, "env-secret")
	t.Setenv(EnvMongoURI, "mongodb://db.internal:27017/connectpro")
	t.Setenv(EnvPostgresDSN, "postgres://db.internal:5432/connectpro")

	cfg, err := ReadLocalConfig(writeTestConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.Secret, "environment must win over the file")
	assert.Equal(t, "mongodb://db.internal:27017/connectpro", cfg.Database.MongoDB.URI)
	assert.Equal(t, "postgres://db.internal:5432/connectpro", cfg.Database.Postgres.DSN)
}

func TestReadLocalConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{
			name: "missing file",
			path: filepath.Join(t.TempDir(), "does-not-exist.yaml"),
		},
		{
			name: "malformed yaml",
			path: writeTestConfig(t, "service_name: [unclosed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLocalConfig(tt.path)
			assert.Error(t, err)
		})
	}
}

func TestBuildServerAPIOptions(t *testing.T) {
	assert.Nil(t, BuildServerAPIOptions(MongoServerOptions{}),
		"no api version means no server api options")

	opts := BuildServerAPIOptions(MongoServerOptions{
		APIVersion:           "1",
		SetStrict:            true,
		SetDeprecationErrors: true,
	})
	assert.NotNil(t, opts)
}

func TestListToMap(t *testing.T) {
	got := ListToMap([]string{"users", "posts"})
	assert.Equal(t, map[string]bool{"users": true, "posts": true}, got)
	assert.Empty(t, ListToMap(nil))
}
