package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "advanced", cfg.Certificates.DefaultStyle)
	assert.Equal(t, "volunteer", cfg.Certificates.DefaultTemplate)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "certificates", cfg.Storage.Dir)
	assert.Equal(t, 72*time.Hour, cfg.Retention.TTL.Std())
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.GetServerAddr())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `{
		"server": {"port": 8081, "read_timeout": "5s"},
		"certificates": {"default_style": "minimal", "default_organization": "Helping Hands"},
		"retention": {"ttl": "0s"},
		"logging": {"level": "debug", "format": "console"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout.Std())
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout.Std())
	assert.Equal(t, "minimal", cfg.Certificates.DefaultStyle)
	assert.Equal(t, "Helping Hands", cfg.Certificates.DefaultOrganization)
	assert.Zero(t, cfg.Retention.TTL)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"server": {"port": 8081}}`)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_DIR", "/tmp/certs")
	t.Setenv("RETENTION_TTL", "30m")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:3000, https://example.org")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/certs", cfg.Storage.Dir)
	assert.Equal(t, 30*time.Minute, cfg.Retention.TTL.Std())
	assert.Equal(t, []string{"http://localhost:3000", "https://example.org"}, cfg.CORS.AllowOrigins)
}

func TestLoadConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "SERVER_PORT")
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"server":`))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown style", func(c *Config) { c.Certificates.DefaultStyle = "fancy" }, "default_style"},
		{"unknown template", func(c *Config) { c.Certificates.DefaultTemplate = "graduation" }, "default_template"},
		{"s3 without bucket", func(c *Config) { c.Storage.Backend = "s3" }, "storage.s3.bucket"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "ftp" }, "storage.backend"},
		{"negative ttl", func(c *Config) { c.Retention.TTL = Duration(-time.Second) }, "retention.ttl"},
		{"bad schedule", func(c *Config) { c.Retention.Schedule = "every now and then" }, "retention.schedule"},
		{"bad schedule ignored when retention disabled", func(c *Config) {
			c.Retention.TTL = 0
			c.Retention.Schedule = "nonsense"
		}, ""},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }, "rate_limit.burst"},
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"gin mode", func(c *Config) { c.Server.Mode = "production" }, "server.mode"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDurationJSON(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1h30m"`)))
	assert.Equal(t, 90*time.Minute, d.Std())

	require.NoError(t, d.UnmarshalJSON([]byte(`1000000000`)))
	assert.Equal(t, time.Second, d.Std())

	assert.Error(t, d.UnmarshalJSON([]byte(`"soon"`)))

	out, err := Duration(2 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(out))
}
