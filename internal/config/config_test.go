package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "LOG_LEVEL", "STORAGE_BACKEND", "DATA_DIR", "MONGODB_URI", "MONGODB_DB_NAME",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "GOOGLE_SHEETS_CREDENTIALS_PATH",
		"GOOGLE_SHEET_DATABASE_ID", "REPORT_CRON_SCHEDULE", "TIMEZONE", "ANTHROPIC_API_KEY",
		"ANTHROPIC_MODEL", "WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_BASE_URL",
		"WHATSAPP_API_VERSION", "OWNER_PHONE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("testdata/missing.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageFile, cfg.Storage.Backend)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Equal(t, "acai", cfg.MongoDB.DBName)
	assert.Equal(t, "0 23 * * *", cfg.Reporting.CronSchedule)
	assert.Equal(t, "America/Sao_Paulo", cfg.Reporting.Timezone)
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.Empty(t, cfg.MongoDB.URI)
}

func TestLoadRedisBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load("testdata/missing.env")
	require.NoError(t, err)

	assert.Equal(t, StorageRedis, cfg.Storage.Backend)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_DB", "zero")

	_, err := Load("testdata/missing.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			Storage:   StorageConfig{Backend: StorageFile, DataDir: "./data"},
			Reporting: ReportingConfig{CronSchedule: "0 23 * * *", Timezone: "America/Sao_Paulo"},
			WhatsApp:  WhatsAppConfig{BaseURL: "https://graph.facebook.com", APIVersion: "v20.0"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "s3" }, wantErr: "STORAGE_BACKEND"},
		{name: "mongo without uri", mutate: func(c *Config) { c.Storage.Backend = StorageMongoDB }, wantErr: "MONGODB_URI"},
		{name: "redis without addr", mutate: func(c *Config) { c.Storage.Backend = StorageRedis }, wantErr: "REDIS_ADDR"},
		{name: "half sheets config", mutate: func(c *Config) { c.Sheets.SpreadsheetID = "abc" }, wantErr: "must be set together"},
		{name: "bad timezone", mutate: func(c *Config) { c.Reporting.Timezone = "Mars/Olympus" }, wantErr: "invalid TIMEZONE"},
		{name: "bad cron", mutate: func(c *Config) { c.Reporting.CronSchedule = "every night" }, wantErr: "REPORT_CRON_SCHEDULE"},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "APP_PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNilConfigIsInvalid(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}
