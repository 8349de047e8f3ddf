package listener

import (
	"context"

	core "simplejob/pkg/batch/job/core"
	logger "simplejob/pkg/batch/util/logger"
)

// LoggingStepListener はステップの開始と終了をログに出力する StepExecutionListener です。
type LoggingStepListener struct{}

var _ core.StepExecutionListener = (*LoggingStepListener)(nil)

// NewLoggingStepListener は新しい LoggingStepListener を作成します。
func NewLoggingStepListener() *LoggingStepListener {
	return &LoggingStepListener{}
}

// BeforeStep はステップ開始をログに出力します。
func (l *LoggingStepListener) BeforeStep(ctx context.Context, stepExecution *core.StepExecution) {
	logger.Infof("ステップ '%s' を開始します。", stepExecution.StepName)
}

// AfterStep はステップの結果と処理時間をログに出力します。
func (l *LoggingStepListener) AfterStep(ctx context.Context, stepExecution *core.StepExecution) {
	if stepExecution.Failure != nil {
		logger.Errorf("ステップ '%s' でエラーが発生しました: %v", stepExecution.StepName, stepExecution.Failure)
		return
	}
	logger.Infof("ステップ '%s' が完了しました (ステータス: %s, 処理時間: %s)。",
		stepExecution.StepName, stepExecution.Status, stepExecution.Duration())
}
