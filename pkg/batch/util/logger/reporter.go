package logger

import (
	"github.com/sirupsen/logrus"
)

// Reporter はステップに注入されるレポート出力先です。
// 出力には job / step フィールドが付与されます。
type Reporter struct {
	entry *logrus.Entry
}

// NewReporter は指定された logrus.Logger に出力する Reporter を作成します。l が nil の場合は Standard() を使用します。
func NewReporter(l *logrus.Logger, jobName, stepName string) *Reporter {
	if l == nil {
		l = std
	}
	return &Reporter{
		entry: l.WithFields(logrus.Fields{
			"job":  jobName,
			"step": stepName,
		}),
	}
}

// Report は INFO レベルで一行出力します。
func (r *Reporter) Report(format string, args ...interface{}) {
	r.entry.Infof(format, args...)
}
