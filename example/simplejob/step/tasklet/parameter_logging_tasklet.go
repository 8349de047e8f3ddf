package tasklet

import (
	"context"
	"errors"
	"strings"

	config "simplejob/pkg/batch/config"
	core "simplejob/pkg/batch/job/core"
	exception "simplejob/pkg/batch/util/exception"
)

// absentValue は起動パラメータに存在しないキーの表示値です。
const absentValue = "(absent)"

// ParameterLoggingTasklet はメッセージと起動パラメータの値を Reporter に出力する Tasklet です。
//
// JSL のプロパティ:
//   - message: 最初に出力するメッセージ
//   - parameters: 出力するパラメータキー (カンマ区切り)
//   - fail-message: 指定された場合、出力後にこのメッセージでエラーを返す
type ParameterLoggingTasklet struct {
	reporter    core.Reporter
	message     string
	keys        []string
	failMessage string
}

var _ core.Tasklet = (*ParameterLoggingTasklet)(nil)

// NewParameterLoggingTasklet は新しい ParameterLoggingTasklet のインスタンスを作成します。
// シグネチャは component.TaskletBuilder に合わせています。
func NewParameterLoggingTasklet(_ *config.Config, reporter core.Reporter, properties map[string]string) (*ParameterLoggingTasklet, error) {
	if reporter == nil {
		return nil, exception.NewBatchErrorf("parameter_logging_tasklet", "Reporter が指定されていません")
	}
	return &ParameterLoggingTasklet{
		reporter:    reporter,
		message:     properties["message"],
		keys:        splitKeys(properties["parameters"]),
		failMessage: properties["fail-message"],
	}, nil
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Execute はメッセージとパラメータを出力します。パラメータが存在しなくてもエラーにはなりません。
func (t *ParameterLoggingTasklet) Execute(ctx context.Context, params core.JobParameters) (core.RepeatStatus, error) {
	if err := ctx.Err(); err != nil {
		return core.RepeatStatusFinished, err
	}

	if t.message != "" {
		t.reporter.Report("%s", t.message)
	}
	for _, key := range t.keys {
		value, ok := params.Get(key)
		if !ok {
			value = absentValue
		}
		t.reporter.Report(">>>> %s = %s", key, value)
	}

	if t.failMessage != "" {
		return core.RepeatStatusFinished, errors.New(t.failMessage)
	}
	return core.RepeatStatusFinished, nil
}
