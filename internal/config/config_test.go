package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CONFIG_FILE", filepath.Join(dir, "missing.toml"))
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.App.Port)
	assert.Equal(t, StorageMySQL, cfg.Storage.Driver)
	assert.Equal(t, MediaCloudinary, cfg.Media.Provider)
	assert.Equal(t, "fastcart", cfg.Media.Folder)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes())
	assert.False(t, cfg.Auth.RequireAuthOnCreate)
	assert.Equal(t, "0.0.0.0:4000", cfg.HTTPAddr())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
port = 5000

[auth]
jwt_secret = "from-file"
require_auth_on_create = true

[media]
provider = "s3"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.App.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Auth.RequireAuthOnCreate)
	assert.Equal(t, MediaS3, cfg.Media.Provider)
	assert.Equal(t, "demo", cfg.Cloudinary.CloudName)
}

func TestLoad_PortEnvTakesPrecedence(t *testing.T) {
	isolate(t)
	t.Setenv("APP_PORT", "7000")
	t.Setenv("PORT", "7100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7100, cfg.App.Port)
}

func TestLoad_DotEnvFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MEDIA_FOLDER=dotenv-folder\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Cleanup(func() { _ = os.Unsetenv("MEDIA_FOLDER") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dotenv-folder", cfg.Media.Folder)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "empty secret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = " " },
			wantErr: "jwt_secret",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Storage.Driver = "mongo" },
			wantErr: `unknown storage driver "mongo"`,
		},
		{
			name:    "firestore without project",
			mutate:  func(c *Config) { c.Storage.Driver = StorageFirestore },
			wantErr: "firestore.project_id",
		},
		{
			name:    "unknown media provider",
			mutate:  func(c *Config) { c.Media.Provider = "imgur" },
			wantErr: `unknown media provider "imgur"`,
		},
		{
			name:    "async delete without broker",
			mutate:  func(c *Config) { c.Media.AsyncDelete = true },
			wantErr: "rabbitmq.url",
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.App.Port = 0 },
			wantErr: "invalid app port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetEnvAsBool_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_FLAG", "maybe")
	assert.True(t, getEnvAsBool("SOME_FLAG", true))
	t.Setenv("SOME_FLAG", "false")
	assert.False(t, getEnvAsBool("SOME_FLAG", true))
}
