package joboperator

import (
	"context"

	core "simplejob/pkg/batch/job/core"
	repository "simplejob/pkg/batch/repository"
)

// JobOperator はバッチ実行の管理操作を行うためのインターフェースです。
// JSR352 の JobOperator のうち、履歴を永続化しないこのフレームワークで意味を持つ操作だけを提供します。
type JobOperator interface {
	// Start は指定されたジョブを起動し、終了した JobExecution を返します。
	Start(ctx context.Context, jobName string, params core.JobParameters) (*core.JobExecution, error)

	// Stop は実行中の JobExecution に停止を要求します。
	// 実行中のステップの完了後、ジョブは FAILED で終了します。
	Stop(ctx context.Context, executionID string) error

	// GetRunningExecutions は実行中の JobExecution の ID を返します。
	GetRunningExecutions(ctx context.Context) ([]string, error)

	// GetJobNames は登録されている全てのジョブ名を取得します。
	GetJobNames(ctx context.Context) ([]string, error)

	// GetStepRecords は ExecutionLog に記録されたステップ結果を取得します。jobName が空の場合は全件です。
	GetStepRecords(ctx context.Context, jobName string) ([]repository.Record, error)
}
