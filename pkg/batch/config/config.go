package config

import (
	"time"
	_ "time/tzdata" // tzdata のないコンテナでも system.timezone を解決できるようにする

	core "simplejob/pkg/batch/job/core"
)

// EmbeddedConfig は、設定ファイルの内容を保持するためのフィールドです。
// main.go から渡される埋め込み設定を格納します。
type EmbeddedConfig []byte

type BatchConfig struct {
	JobName    string            `yaml:"job_name"`
	Parameters map[string]string `yaml:"parameters"` // デフォルトの起動パラメータ。コマンドライン引数で上書きされます。
}

// LoggingConfig はロギングの設定です。Format は "text" または "json" です。
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type SystemConfig struct {
	Timezone string        `yaml:"timezone"`
	Logging  LoggingConfig `yaml:"logging"`
}

type Config struct {
	Batch          BatchConfig    `yaml:"batch"`
	System         SystemConfig   `yaml:"system"`
	EmbeddedConfig EmbeddedConfig `yaml:"-"` // 埋め込み設定を格納するためのフィールド。YAMLからは読み込まない。
}

// NewConfig は Config の新しいインスタンスを返します。
func NewConfig() *Config {
	return &Config{
		System: SystemConfig{
			Timezone: "UTC", // デフォルト値を UTC に設定
			Logging:  LoggingConfig{Level: "INFO", Format: "text"},
		},
		Batch: BatchConfig{
			JobName:    "", // アプリケーション側で設定するか、コマンドラインで指定されることを期待。
			Parameters: map[string]string{},
		},
	}
}

// DefaultJobParameters は設定ファイルに記述された起動パラメータを返します。
func (c *Config) DefaultJobParameters() core.JobParameters {
	return core.NewJobParameters(c.Batch.Parameters)
}

// Location は System.Timezone に対応する *time.Location を返します。
func (c *Config) Location() (*time.Location, error) {
	if c.System.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.System.Timezone)
}
