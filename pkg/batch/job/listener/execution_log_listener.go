package listener

import (
	"context"
	"time"

	core "simplejob/pkg/batch/job/core"
	repository "simplejob/pkg/batch/repository"
	logger "simplejob/pkg/batch/util/logger"
)

// ExecutionLogListener はジョブ終了時に各ステップの結果を ExecutionLog に追記します。
type ExecutionLogListener struct {
	log      repository.ExecutionLog
	location *time.Location
}

var _ core.JobExecutionListener = (*ExecutionLogListener)(nil)

// NewExecutionLogListener は新しい ExecutionLogListener を作成します。location が nil の場合は UTC を使用します。
func NewExecutionLogListener(log repository.ExecutionLog, location *time.Location) *ExecutionLogListener {
	if location == nil {
		location = time.UTC
	}
	return &ExecutionLogListener{
		log:      log,
		location: location,
	}
}

// BeforeJob は何もしません。
func (l *ExecutionLogListener) BeforeJob(ctx context.Context, jobExecution *core.JobExecution) {}

// AfterJob は実行されたステップ分の記録を追記します。実行されなかったステップは記録しません。
func (l *ExecutionLogListener) AfterJob(ctx context.Context, jobExecution *core.JobExecution) {
	for _, se := range jobExecution.StepExecutions {
		record := repository.Record{
			JobName:   jobExecution.JobName,
			RunID:     jobExecution.ID,
			StepName:  se.StepName,
			Status:    se.Status,
			Timestamp: se.EndTime.In(l.location),
		}
		// キャンセルされた Context でも結果は残す
		if err := l.log.Append(context.WithoutCancel(ctx), record); err != nil {
			logger.Errorf("ExecutionLog への追記に失敗しました (Job: %s, Step: %s): %v", record.JobName, record.StepName, err)
		}
	}
}
