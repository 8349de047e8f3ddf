package joblauncher

import (
	"context"

	core "simplejob/pkg/batch/job/core"
)

// JobLauncher は Job を JobParameters とともに起動するためのインターフェースです。
// Spring Batchの JobLauncher に相当します。
type JobLauncher interface {
	// Launch は指定された Job を JobParameters とともに起動し、終了した JobExecution を返します。
	// 起動処理自体に失敗した場合は nil の JobExecution とエラーを返します。
	// ジョブが失敗した場合は FAILED の JobExecution とその失敗原因を返します。
	Launch(ctx context.Context, jobName string, params core.JobParameters) (*core.JobExecution, error)
}

// JobProvider は JobLauncher がジョブを解決するためのインターフェースです。
// factory.JobFactory が実装します。
type JobProvider interface {
	CreateJob(jobName string) (core.Job, error)
	GetJobParametersIncrementer(jobName string) (core.JobParametersIncrementer, error)
}
