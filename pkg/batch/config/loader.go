package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BytesConfigLoader はバイトスライスから設定をロードする ConfigLoader の実装です。
type BytesConfigLoader struct {
	data []byte
}

// NewBytesConfigLoader は新しい BytesConfigLoader のインスタンスを作成します。
func NewBytesConfigLoader(data []byte) *BytesConfigLoader {
	return &BytesConfigLoader{data: data}
}

// Load は埋め込まれたバイトスライスから設定をロードし、環境変数で上書きします。
// YAML に記述のない項目は NewConfig のデフォルト値のままです。
func (l *BytesConfigLoader) Load() (*Config, error) {
	cfg := NewConfig()

	if err := yaml.Unmarshal(l.data, cfg); err != nil {
		return nil, fmt.Errorf("YAML設定のパースに失敗しました: %w", err)
	}
	if cfg.Batch.Parameters == nil {
		cfg.Batch.Parameters = map[string]string{}
	}
	cfg.EmbeddedConfig = l.data

	// 環境変数で個別の設定値を上書き
	loadEnvVars(cfg)

	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("タイムゾーン '%s' が無効です: %w", cfg.System.Timezone, err)
	}
	return cfg, nil
}

// 環境変数で個別の設定値を上書きする関数
func loadEnvVars(cfg *Config) {
	// BATCH_JOB_NAME 環境変数をロード (存在すれば設定ファイルの設定を上書き)
	if jobName := os.Getenv("BATCH_JOB_NAME"); jobName != "" {
		cfg.Batch.JobName = jobName
	}

	// System 設定
	if timezone := os.Getenv("SYSTEM_TIMEZONE"); timezone != "" {
		cfg.System.Timezone = timezone
	}
	if logLevel := os.Getenv("SYSTEM_LOGGING_LEVEL"); logLevel != "" {
		cfg.System.Logging.Level = logLevel
	}
	if logFormat := os.Getenv("SYSTEM_LOGGING_FORMAT"); logFormat != "" {
		cfg.System.Logging.Format = logFormat
	}
}
