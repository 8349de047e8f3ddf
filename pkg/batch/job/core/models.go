package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus はジョブ実行の状態を表します。
// NOT_STARTED -> RUNNING -> COMPLETED | FAILED の順にのみ遷移します。
type JobStatus string

const (
	JobStatusNotStarted JobStatus = "NOT_STARTED"
	JobStatusRunning    JobStatus = "RUNNING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// IsFinished は JobStatus が終了状態かどうかを判定するヘルパーメソッドです。
func (s JobStatus) IsFinished() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// ExitCode はコマンドラインでの終了コードを返します。COMPLETED のみ 0 です。
func (s JobStatus) ExitCode() int {
	if s == JobStatusCompleted {
		return 0
	}
	return 1
}

// StepStatus はステップ実行の結果を表します。
type StepStatus string

const (
	StepStatusFinished StepStatus = "FINISHED"
	StepStatusFailed   StepStatus = "FAILED"
)

// RepeatStatus は Tasklet の一回の呼び出し結果を表します。
// CONTINUABLE の間、TaskletStep は Tasklet を繰り返し呼び出します。
type RepeatStatus string

const (
	RepeatStatusFinished    RepeatStatus = "FINISHED"
	RepeatStatusContinuable RepeatStatus = "CONTINUABLE"
)

// JobExecution はジョブの単一の実行インスタンスを表す構造体です。
type JobExecution struct {
	ID             string
	JobName        string
	Parameters     JobParameters
	Status         JobStatus
	CreateTime     time.Time
	StartTime      time.Time
	EndTime        time.Time
	Failures       []error
	StepExecutions []*StepExecution
}

// NewJobExecution は NOT_STARTED 状態の新しい JobExecution を作成します。
func NewJobExecution(jobName string, params JobParameters) *JobExecution {
	return &JobExecution{
		ID:             uuid.New().String(),
		JobName:        jobName,
		Parameters:     params,
		Status:         JobStatusNotStarted,
		CreateTime:     time.Now(),
		Failures:       make([]error, 0),
		StepExecutions: make([]*StepExecution, 0),
	}
}

// MarkAsStarted は JobExecution の状態を RUNNING に更新します。
// NOT_STARTED 以外からの遷移はエラーになります (終了済みのジョブは再実行できません)。
func (je *JobExecution) MarkAsStarted() error {
	if je.Status != JobStatusNotStarted {
		return fmt.Errorf("JobExecution (ID: %s) は %s 状態のため開始できません", je.ID, je.Status)
	}
	je.Status = JobStatusRunning
	je.StartTime = time.Now()
	return nil
}

// MarkAsCompleted は JobExecution の状態を COMPLETED に更新します。
func (je *JobExecution) MarkAsCompleted() error {
	if je.Status != JobStatusRunning {
		return fmt.Errorf("JobExecution (ID: %s) は %s 状態のため完了にできません", je.ID, je.Status)
	}
	je.Status = JobStatusCompleted
	je.EndTime = time.Now()
	return nil
}

// MarkAsFailed は JobExecution の状態を FAILED に更新し、エラー情報を追加します。
func (je *JobExecution) MarkAsFailed(err error) error {
	if je.Status != JobStatusRunning {
		return fmt.Errorf("JobExecution (ID: %s) は %s 状態のため失敗にできません", je.ID, je.Status)
	}
	je.Status = JobStatusFailed
	je.EndTime = time.Now()
	je.AddFailureException(err)
	return nil
}

// AddFailureException は JobExecution にエラー情報を追加します。
func (je *JobExecution) AddFailureException(err error) {
	if err != nil {
		je.Failures = append(je.Failures, err)
	}
}

// NewStepExecution はこのジョブ実行に属する StepExecution を作成して追加します。
func (je *JobExecution) NewStepExecution(stepName string) *StepExecution {
	se := &StepExecution{
		ID:             uuid.New().String(),
		StepName:       stepName,
		JobExecutionID: je.ID,
		JobName:        je.JobName,
		StartTime:      time.Now(),
	}
	je.StepExecutions = append(je.StepExecutions, se)
	return se
}

// Duration はジョブの実行時間を返します。終了していない場合は 0 です。
func (je *JobExecution) Duration() time.Duration {
	if je.EndTime.IsZero() || je.StartTime.IsZero() {
		return 0
	}
	return je.EndTime.Sub(je.StartTime)
}

// StepExecution はステップの単一の実行インスタンスを表す構造体です。
// Status はステップが終了するまで空文字列です。
type StepExecution struct {
	ID             string
	StepName       string
	JobExecutionID string
	JobName        string
	StartTime      time.Time
	EndTime        time.Time
	Status         StepStatus
	Failure        error
}

// MarkAsFinished は StepExecution を FINISHED にします。
func (se *StepExecution) MarkAsFinished() {
	se.Status = StepStatusFinished
	se.EndTime = time.Now()
}

// MarkAsFailed は StepExecution を FAILED にし、失敗原因を記録します。
func (se *StepExecution) MarkAsFailed(err error) {
	se.Status = StepStatusFailed
	se.EndTime = time.Now()
	se.Failure = err
}

// Duration はステップの実行時間を返します。
func (se *StepExecution) Duration() time.Duration {
	if se.EndTime.IsZero() {
		return 0
	}
	return se.EndTime.Sub(se.StartTime)
}
