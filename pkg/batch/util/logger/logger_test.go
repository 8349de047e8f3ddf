package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger "simplejob/pkg/batch/util/logger"
)

func TestReporter_AddsJobAndStepFields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	r := logger.NewReporter(l, "simpleJob", "simpleStep1")
	r.Report(">>>> %s = %s", "requestDate", "2023-01-01")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, ">>>> requestDate = 2023-01-01", entry["msg"])
	assert.Equal(t, "simpleJob", entry["job"])
	assert.Equal(t, "simpleStep1", entry["step"])
	assert.Equal(t, "info", entry["level"])
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() {
		logger.SetLogLevel("INFO")
		logger.SetFormat("text")
		logger.SetOutput(os.Stderr)
	})

	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{level: "DEBUG", expected: logrus.DebugLevel},
		{level: "warn", expected: logrus.WarnLevel},
		{level: "ERROR", expected: logrus.ErrorLevel},
		{level: "", expected: logrus.InfoLevel},
		{level: "VERBOSE", expected: logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger.SetLogLevel(tt.level)
			assert.Equal(t, tt.expected, logger.Standard().GetLevel())
		})
	}

	// 不明なレベルは警告が出力される
	buf.Reset()
	logger.SetLogLevel("VERBOSE")
	assert.Contains(t, buf.String(), "VERBOSE")

	logger.SetFormat("json")
	buf.Reset()
	logger.Infof("hello %d", 1)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello 1", entry["msg"])
}
