package core

import (
	"context"
)

// Job は実行可能なバッチジョブのインターフェースです。
type Job interface {
	JobName() string
	// Steps は宣言順のステップ一覧を返します。
	Steps() []Step
	// Run は jobExecution に対してステップを順に実行します。
	// 失敗したステップがあれば、その失敗をエラーとして返します。
	Run(ctx context.Context, jobExecution *JobExecution) error
	ValidateParameters(params JobParameters) error
}

// Step はジョブ内で実行される単一のステップのインターフェースです。
// ステップは呼び出しをまたいだ状態を持ちません。
type Step interface {
	StepName() string
	// Execute はステップを一度だけ実行します。存在しないパラメータはエラーではありません。
	Execute(ctx context.Context, params JobParameters) (StepStatus, error)
}

// Tasklet はステップ内で実行される単一の処理です。
// Spring Batch の Tasklet に相当し、CONTINUABLE を返す間は繰り返し呼び出されます。
type Tasklet interface {
	Execute(ctx context.Context, params JobParameters) (RepeatStatus, error)
}

// TaskletFunc は関数を Tasklet として扱うためのアダプタです。
type TaskletFunc func(ctx context.Context, params JobParameters) (RepeatStatus, error)

// Execute は f(ctx, params) を呼び出します。
func (f TaskletFunc) Execute(ctx context.Context, params JobParameters) (RepeatStatus, error) {
	return f(ctx, params)
}

// Reporter はステップが出力するレポート (ログ) の送り先です。
// ステップはプロセス全体のロガーではなく、注入された Reporter を使用します。
type Reporter interface {
	Report(format string, args ...interface{})
}

// JobExecutionListener はジョブ実行イベントを処理するためのインターフェースです。
type JobExecutionListener interface {
	BeforeJob(ctx context.Context, jobExecution *JobExecution)
	AfterJob(ctx context.Context, jobExecution *JobExecution)
}

// StepExecutionListener はステップ実行イベントを処理するためのインターフェースです。
type StepExecutionListener interface {
	BeforeStep(ctx context.Context, stepExecution *StepExecution)
	AfterStep(ctx context.Context, stepExecution *StepExecution)
}

// JobParametersIncrementer は起動前に JobParameters を自動的に更新するためのインターフェースです。
type JobParametersIncrementer interface {
	GetNext(params JobParameters) JobParameters
}

// JobParametersValidator は起動前に JobParameters を検証するためのインターフェースです。
type JobParametersValidator interface {
	Validate(params JobParameters) error
}
