package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "data/stellest_data.xlsx", cfg.Model.DataFile)
	assert.Equal(t, "data/stellest_model.json", cfg.Model.ModelFile)
	assert.True(t, cfg.Security.RateLimit.Enabled)

	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
		{
			name:    "missing data file",
			mutate:  func(c *Config) { c.Model.DataFile = "" },
			wantErr: "data file",
		},
		{
			name:    "missing model file",
			mutate:  func(c *Config) { c.Model.ModelFile = "" },
			wantErr: "model file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "console"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := *Default()
	fileCfg.Server.Port = 9090
	fileCfg.Model.DataFile = "custom/data.xlsx"

	var envCfg Config
	envCfg.Server.ReadTimeout = 5 * time.Second

	merged := mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, 9090, merged.Server.Port)
	assert.Equal(t, 5*time.Second, merged.Server.ReadTimeout)
	assert.Equal(t, "custom/data.xlsx", merged.Model.DataFile)
}

func TestGetReportPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "reports/report.csv", cfg.GetReportPath("report.csv"))
	assert.Equal(t, "/tmp/abs.csv", cfg.GetReportPath("/tmp/abs.csv"))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STELLEST_SERVER_PORT", "9999")
	t.Setenv("STELLEST_MODEL_MODEL_FILE", "models/custom.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "models/custom.json", cfg.Model.ModelFile)
}
