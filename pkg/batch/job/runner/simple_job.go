package runner

import (
	"context"

	core "simplejob/pkg/batch/job/core"
	exception "simplejob/pkg/batch/util/exception"
	logger "simplejob/pkg/batch/util/logger"
)

// SimpleJob は宣言順に並んだステップを一つずつ実行する core.Job の実装です。
// 最初の失敗で停止し、ロールバックや補償処理は行いません。
type SimpleJob struct {
	name          string
	steps         []core.Step
	jobListeners  []core.JobExecutionListener
	stepListeners []core.StepExecutionListener
	validator     core.JobParametersValidator
}

// SimpleJob が core.Job インターフェースを満たすことを確認します。
var _ core.Job = (*SimpleJob)(nil)

// Option は SimpleJob の任意設定です。
type Option func(*SimpleJob)

// WithJobListeners はジョブリスナーを追加します。
func WithJobListeners(listeners ...core.JobExecutionListener) Option {
	return func(j *SimpleJob) {
		j.jobListeners = append(j.jobListeners, listeners...)
	}
}

// WithStepListeners はステップリスナーを追加します。
func WithStepListeners(listeners ...core.StepExecutionListener) Option {
	return func(j *SimpleJob) {
		j.stepListeners = append(j.stepListeners, listeners...)
	}
}

// WithValidator は JobParametersValidator を設定します。
func WithValidator(validator core.JobParametersValidator) Option {
	return func(j *SimpleJob) {
		j.validator = validator
	}
}

// NewSimpleJob は新しい SimpleJob のインスタンスを作成します。
// ステップ構成は作成時に固定され、ステップ名はジョブ内で一意である必要があります。
func NewSimpleJob(name string, steps []core.Step, opts ...Option) (*SimpleJob, error) {
	if name == "" {
		return nil, exception.NewBatchErrorf("simple_job", "ジョブ名が空です")
	}
	seen := make(map[string]struct{}, len(steps))
	for i, s := range steps {
		if s == nil {
			return nil, exception.NewBatchErrorf(name, "%d 番目のステップが nil です", i+1)
		}
		if _, dup := seen[s.StepName()]; dup {
			return nil, exception.NewBatchErrorf(name, "ステップ名 '%s' が重複しています", s.StepName())
		}
		seen[s.StepName()] = struct{}{}
	}

	j := &SimpleJob{
		name:  name,
		steps: append([]core.Step(nil), steps...),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// JobName はジョブ名を返します。
func (j *SimpleJob) JobName() string {
	return j.name
}

// Steps は宣言順のステップ一覧のコピーを返します。
func (j *SimpleJob) Steps() []core.Step {
	return append([]core.Step(nil), j.steps...)
}

// ValidateParameters はジョブパラメータのバリデーションを行います。
// Validator が設定されていない場合は常に nil を返します。
func (j *SimpleJob) ValidateParameters(params core.JobParameters) error {
	if j.validator == nil {
		return nil
	}
	logger.Debugf("ジョブ '%s': JobParameters のバリデーションを実行するよ。Parameters: %s", j.name, params)
	if err := j.validator.Validate(params); err != nil {
		return exception.NewBatchError(j.name, "JobParameters のバリデーションエラー", err)
	}
	return nil
}

func (j *SimpleJob) notifyBeforeJob(ctx context.Context, jobExecution *core.JobExecution) {
	for _, l := range j.jobListeners {
		l.BeforeJob(ctx, jobExecution)
	}
}

func (j *SimpleJob) notifyAfterJob(ctx context.Context, jobExecution *core.JobExecution) {
	for _, l := range j.jobListeners {
		l.AfterJob(ctx, jobExecution)
	}
}

func (j *SimpleJob) notifyBeforeStep(ctx context.Context, stepExecution *core.StepExecution) {
	for _, l := range j.stepListeners {
		l.BeforeStep(ctx, stepExecution)
	}
}

func (j *SimpleJob) notifyAfterStep(ctx context.Context, stepExecution *core.StepExecution) {
	for _, l := range j.stepListeners {
		l.AfterStep(ctx, stepExecution)
	}
}

// Run はステップを宣言順に実行します。
// 全てのステップが FINISHED なら COMPLETED、いずれかが失敗した時点で FAILED として終了し、
// その失敗をエラーとして返します。終了済みの JobExecution は再実行できません。
func (j *SimpleJob) Run(ctx context.Context, jobExecution *core.JobExecution) error {
	if err := jobExecution.MarkAsStarted(); err != nil {
		return exception.NewBatchError(j.name, "ジョブを開始できません", err)
	}
	logger.Infof("ジョブ '%s' (Execution ID: %s) を始めるよ。Parameters: %s", j.name, jobExecution.ID, jobExecution.Parameters)

	j.notifyBeforeJob(ctx, jobExecution)
	defer func() {
		j.notifyAfterJob(ctx, jobExecution)
		logger.Infof("ジョブ '%s' (Execution ID: %s) が終了したよ。最終ステータス: %s", j.name, jobExecution.ID, jobExecution.Status)
	}()

	for _, s := range j.steps {
		if err := ctx.Err(); err != nil {
			logger.Warnf("Context がキャンセルされたため、ジョブ '%s' の実行を中断するよ: %v", j.name, err)
			failure := exception.NewBatchError(j.name, "ジョブの実行が中断されました", err)
			j.fail(jobExecution, failure)
			return failure
		}

		if err := j.runStep(ctx, jobExecution, s); err != nil {
			j.fail(jobExecution, err)
			return err
		}
	}

	if err := jobExecution.MarkAsCompleted(); err != nil {
		return exception.NewBatchError(j.name, "ジョブの完了処理に失敗しました", err)
	}
	return nil
}

// runStep は単一のステップを実行し、StepExecution に結果を記録します。
// 失敗した場合はその原因を返します。
func (j *SimpleJob) runStep(ctx context.Context, jobExecution *core.JobExecution, s core.Step) error {
	stepExecution := jobExecution.NewStepExecution(s.StepName())
	logger.Debugf("ジョブ '%s': ステップ '%s' (ID: %s) を実行するよ。", j.name, s.StepName(), stepExecution.ID)

	j.notifyBeforeStep(ctx, stepExecution)
	status, err := s.Execute(ctx, jobExecution.Parameters)
	if err == nil && status != core.StepStatusFinished {
		err = exception.NewBatchErrorf(s.StepName(), "ステップが %s を返しました", status)
	}
	if err != nil {
		stepExecution.MarkAsFailed(err)
	} else {
		stepExecution.MarkAsFinished()
	}
	j.notifyAfterStep(ctx, stepExecution)

	if err != nil {
		logger.Errorf("ジョブ '%s': ステップ '%s' が失敗したよ。後続のステップは実行しないよ: %v", j.name, s.StepName(), err)
		return err
	}
	logger.Debugf("ジョブ '%s': ステップ '%s' が正常に完了したよ。", j.name, s.StepName())
	return nil
}

func (j *SimpleJob) fail(jobExecution *core.JobExecution, err error) {
	if markErr := jobExecution.MarkAsFailed(err); markErr != nil {
		logger.Errorf("ジョブ '%s': %v", j.name, markErr)
	}
}
