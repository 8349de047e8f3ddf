package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "simplejob/pkg/batch/config"
)

const testYAML = `
batch:
  job_name: simpleJob
  parameters:
    requestDate: "2000-01-01"
system:
  timezone: Asia/Tokyo
  logging:
    level: DEBUG
    format: json
`

func TestBytesConfigLoader_Load(t *testing.T) {
	cfg, err := config.NewBytesConfigLoader([]byte(testYAML)).Load()
	require.NoError(t, err)

	assert.Equal(t, "simpleJob", cfg.Batch.JobName)
	assert.Equal(t, "2000-01-01", cfg.DefaultJobParameters().GetString("requestDate"))
	assert.Equal(t, "Asia/Tokyo", cfg.System.Timezone)
	assert.Equal(t, "DEBUG", cfg.System.Logging.Level)
	assert.Equal(t, "json", cfg.System.Logging.Format)
	assert.Equal(t, config.EmbeddedConfig(testYAML), cfg.EmbeddedConfig)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestBytesConfigLoader_Defaults(t *testing.T) {
	cfg, err := config.NewBytesConfigLoader([]byte("batch:\n  job_name: simpleJob\n")).Load()
	require.NoError(t, err)

	assert.Equal(t, "UTC", cfg.System.Timezone)
	assert.Equal(t, "INFO", cfg.System.Logging.Level)
	assert.Equal(t, "text", cfg.System.Logging.Format)
	assert.NotNil(t, cfg.Batch.Parameters)
	assert.Equal(t, 0, cfg.DefaultJobParameters().Len())
}

func TestBytesConfigLoader_EnvOverrides(t *testing.T) {
	t.Setenv("BATCH_JOB_NAME", "otherJob")
	t.Setenv("SYSTEM_TIMEZONE", "UTC")
	t.Setenv("SYSTEM_LOGGING_LEVEL", "WARN")
	t.Setenv("SYSTEM_LOGGING_FORMAT", "text")

	cfg, err := config.NewBytesConfigLoader([]byte(testYAML)).Load()
	require.NoError(t, err)

	assert.Equal(t, "otherJob", cfg.Batch.JobName)
	assert.Equal(t, "UTC", cfg.System.Timezone)
	assert.Equal(t, "WARN", cfg.System.Logging.Level)
	assert.Equal(t, "text", cfg.System.Logging.Format)
}

func TestBytesConfigLoader_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "Invalid YAML", data: "batch: [unclosed"},
		{name: "Unknown timezone", data: "system:\n  timezone: Mars/Olympus_Mons\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.NewBytesConfigLoader([]byte(tt.data)).Load()
			assert.Error(t, err)
		})
	}
}
