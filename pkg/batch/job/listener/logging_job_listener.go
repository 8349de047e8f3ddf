package listener

import (
	"context"

	core "simplejob/pkg/batch/job/core"
	logger "simplejob/pkg/batch/util/logger"
)

// LoggingJobListener はジョブの開始と終了をログに出力する JobExecutionListener です。
type LoggingJobListener struct{}

var _ core.JobExecutionListener = (*LoggingJobListener)(nil)

// NewLoggingJobListener は新しい LoggingJobListener を作成します。
func NewLoggingJobListener() *LoggingJobListener {
	return &LoggingJobListener{}
}

// BeforeJob はジョブ開始をログに出力します。
func (l *LoggingJobListener) BeforeJob(ctx context.Context, jobExecution *core.JobExecution) {
	logger.Infof("Job '%s' (Execution ID: %s) の実行を開始します。Parameters: %s",
		jobExecution.JobName, jobExecution.ID, jobExecution.Parameters)
}

// AfterJob はジョブ終了時の状態と処理時間をログに出力します。
func (l *LoggingJobListener) AfterJob(ctx context.Context, jobExecution *core.JobExecution) {
	if jobExecution.Status == core.JobStatusCompleted {
		logger.Infof("Job '%s' (Execution ID: %s) の実行が正常に完了しました (処理時間: %s)。",
			jobExecution.JobName, jobExecution.ID, jobExecution.Duration())
		return
	}
	logger.Errorf("Job '%s' (Execution ID: %s) が %s で終了しました (処理時間: %s)。失敗数: %d",
		jobExecution.JobName, jobExecution.ID, jobExecution.Status, jobExecution.Duration(), len(jobExecution.Failures))
}
