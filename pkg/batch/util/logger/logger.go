package logger

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

var std = newStandardLogger()

func newStandardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Standard はフレームワーク全体で共有する logrus.Logger を返します。
func Standard() *logrus.Logger {
	return std
}

// SetLogLevel はログレベルを設定します。
// 不明なレベルが指定された場合は警告を出し、INFO レベルで続行します。
func SetLogLevel(level string) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		std.SetLevel(logrus.DebugLevel)
	case "INFO", "":
		std.SetLevel(logrus.InfoLevel)
	case "WARN", "WARNING":
		std.SetLevel(logrus.WarnLevel)
	case "ERROR":
		std.SetLevel(logrus.ErrorLevel)
	case "FATAL":
		std.SetLevel(logrus.FatalLevel)
	default:
		std.SetLevel(logrus.InfoLevel)
		std.Warnf("不明なログレベル '%s' が指定されました。INFO レベルで続行します。", level)
	}
}

// SetFormat はログの出力形式を設定します。"json" 以外はテキスト形式になります。
func SetFormat(format string) {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		std.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// SetOutput はログの出力先を設定します。
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Debugf は DEBUG レベルのログを出力します。
func Debugf(format string, v ...interface{}) {
	std.Debugf(format, v...)
}

// Infof は INFO レベルのログを出力します。
func Infof(format string, v ...interface{}) {
	std.Infof(format, v...)
}

// Warnf は WARN レベルのログを出力します。
func Warnf(format string, v ...interface{}) {
	std.Warnf(format, v...)
}

// Errorf は ERROR レベルのログを出力します。
func Errorf(format string, v ...interface{}) {
	std.Errorf(format, v...)
}

// Fatalf は FATAL レベルのログを出力し、プログラムを終了します。
func Fatalf(format string, v ...interface{}) {
	std.Fatalf(format, v...)
}
