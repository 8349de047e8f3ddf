package joboperator

import (
	"context"
	"sort"

	core "simplejob/pkg/batch/job/core"
	joblauncher "simplejob/pkg/batch/job/joblauncher"
	repository "simplejob/pkg/batch/repository"
	exception "simplejob/pkg/batch/util/exception"
	logger "simplejob/pkg/batch/util/logger"
)

// JobRegistry はジョブ名の一覧を提供します。factory.JobFactory が実装します。
type JobRegistry interface {
	JobNames() []string
}

// DefaultJobOperator は JobOperator インターフェースのデフォルト実装です。
// ジョブの起動と停止は SimpleJobLauncher に委譲し、実行結果の参照は ExecutionLog から行います。
type DefaultJobOperator struct {
	jobLauncher  *joblauncher.SimpleJobLauncher
	jobRegistry  JobRegistry
	executionLog repository.ExecutionLog
}

// DefaultJobOperator が JobOperator インターフェースを満たすことを確認します。
var _ JobOperator = (*DefaultJobOperator)(nil)

// NewDefaultJobOperator は新しい DefaultJobOperator のインスタンスを作成します。
func NewDefaultJobOperator(jobLauncher *joblauncher.SimpleJobLauncher, jobRegistry JobRegistry, executionLog repository.ExecutionLog) *DefaultJobOperator {
	return &DefaultJobOperator{
		jobLauncher:  jobLauncher,
		jobRegistry:  jobRegistry,
		executionLog: executionLog,
	}
}

// Start は JobLauncher を使用してジョブを起動します。
func (o *DefaultJobOperator) Start(ctx context.Context, jobName string, params core.JobParameters) (*core.JobExecution, error) {
	logger.Infof("JobOperator: Start メソッドが呼び出されたよ。Job: '%s'", jobName)
	return o.jobLauncher.Launch(ctx, jobName, params)
}

// Stop は実行中の JobExecution に停止を要求します。
func (o *DefaultJobOperator) Stop(ctx context.Context, executionID string) error {
	logger.Infof("JobOperator: Stop メソッドが呼び出されたよ。Execution ID: %s", executionID)
	if !o.jobLauncher.Stop(executionID) {
		return exception.NewBatchErrorf("job_operator", "停止処理エラー: 実行中の JobExecution (ID: %s) が見つかりませんでした", executionID)
	}
	return nil
}

// GetRunningExecutions は実行中の JobExecution の ID をソートして返します。
func (o *DefaultJobOperator) GetRunningExecutions(ctx context.Context) ([]string, error) {
	ids := o.jobLauncher.RunningExecutionIDs()
	sort.Strings(ids)
	return ids, nil
}

// GetJobNames は登録されている全てのジョブ名を取得します。
func (o *DefaultJobOperator) GetJobNames(ctx context.Context) ([]string, error) {
	return o.jobRegistry.JobNames(), nil
}

// GetStepRecords は ExecutionLog に記録されたステップ結果を取得します。
func (o *DefaultJobOperator) GetStepRecords(ctx context.Context, jobName string) ([]repository.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.executionLog == nil {
		return nil, exception.NewBatchErrorf("job_operator", "ExecutionLog が設定されていません")
	}
	return o.executionLog.Records(jobName), nil
}
