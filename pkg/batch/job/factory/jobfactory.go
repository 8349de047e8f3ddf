package factory

import (
	"fmt"

	config "simplejob/pkg/batch/config"
	component "simplejob/pkg/batch/job/component"
	core "simplejob/pkg/batch/job/core"
	jsl "simplejob/pkg/batch/job/jsl"
	runner "simplejob/pkg/batch/job/runner"
	validator "simplejob/pkg/batch/job/validator"
	exception "simplejob/pkg/batch/util/exception"
	logger "simplejob/pkg/batch/util/logger"
)

// JobListenerBuilder は JobExecutionListener を生成するための関数型です。
type JobListenerBuilder func(cfg *config.Config) (core.JobExecutionListener, error)

// StepExecutionListenerBuilder は StepExecutionListener を生成するための関数型です。
type StepExecutionListenerBuilder func(cfg *config.Config) (core.StepExecutionListener, error)

// JobParametersIncrementerBuilder は JobParametersIncrementer を生成するための関数型です。
type JobParametersIncrementerBuilder func(cfg *config.Config, properties map[string]string) (core.JobParametersIncrementer, error)

// JobFactory は JSL 定義と登録済みビルダーから Job オブジェクトを生成するためのファクトリです。
// CreateJob は呼び出しごとに新しい Job とステップを生成します (ジョブ起動ごとのスコープ)。
type JobFactory struct {
	config                           *config.Config
	definitions                      *jsl.Definitions
	reporterProvider                 component.ReporterProvider
	taskletBuilders                  map[string]component.TaskletBuilder
	jobListenerBuilders              map[string]JobListenerBuilder
	stepListenerBuilders             map[string]StepExecutionListenerBuilder
	jobParametersIncrementerBuilders map[string]JobParametersIncrementerBuilder
}

// NewJobFactory は新しい JobFactory のインスタンスを作成します。
func NewJobFactory(cfg *config.Config, definitions *jsl.Definitions) *JobFactory {
	return &JobFactory{
		config:      cfg,
		definitions: definitions,
		reporterProvider: func(jobName, stepName string) core.Reporter {
			return logger.NewReporter(logger.Standard(), jobName, stepName)
		},
		taskletBuilders:                  make(map[string]component.TaskletBuilder),
		jobListenerBuilders:              make(map[string]JobListenerBuilder),
		stepListenerBuilders:             make(map[string]StepExecutionListenerBuilder),
		jobParametersIncrementerBuilders: make(map[string]JobParametersIncrementerBuilder),
	}
}

// SetReporterProvider はステップに注入する Reporter の生成方法を差し替えます。
func (f *JobFactory) SetReporterProvider(provider component.ReporterProvider) {
	if provider != nil {
		f.reporterProvider = provider
	}
}

// RegisterTaskletBuilder は、指定された名前で Tasklet ビルド関数を登録します。
// このメソッドはアプリケーションの初期化フェーズで呼び出されます。
func (f *JobFactory) RegisterTaskletBuilder(name string, builder component.TaskletBuilder) {
	f.taskletBuilders[name] = builder
	logger.Debugf("JobFactory: Tasklet ビルダー '%s' を登録しました。", name)
}

// RegisterJobListenerBuilder は、指定された名前で JobExecutionListener ビルド関数を登録します。
func (f *JobFactory) RegisterJobListenerBuilder(name string, builder JobListenerBuilder) {
	f.jobListenerBuilders[name] = builder
	logger.Debugf("JobFactory: JobExecutionListener ビルダー '%s' を登録しました。", name)
}

// RegisterStepExecutionListenerBuilder は、指定された名前で StepExecutionListener ビルド関数を登録します。
func (f *JobFactory) RegisterStepExecutionListenerBuilder(name string, builder StepExecutionListenerBuilder) {
	f.stepListenerBuilders[name] = builder
	logger.Debugf("JobFactory: StepExecutionListener ビルダー '%s' を登録しました。", name)
}

// RegisterJobParametersIncrementerBuilder は、指定された名前で JobParametersIncrementer ビルド関数を登録します。
func (f *JobFactory) RegisterJobParametersIncrementerBuilder(name string, builder JobParametersIncrementerBuilder) {
	f.jobParametersIncrementerBuilders[name] = builder
	logger.Debugf("JobFactory: JobParametersIncrementer ビルダー '%s' を登録しました。", name)
}

// JobNames は起動可能なジョブ名 (JSL のジョブID) の一覧を返します。
func (f *JobFactory) JobNames() []string {
	return f.definitions.JobIDs()
}

// CreateJob は指定されたジョブ名の core.Job オブジェクトを作成します。
func (f *JobFactory) CreateJob(jobName string) (core.Job, error) {
	logger.Debugf("JobFactory で Job '%s' の作成を試みます。", jobName)

	// 1. JSL 定義を取得
	jslJob, ok := f.definitions.Get(jobName)
	if !ok {
		return nil, exception.NewBatchErrorf("job_factory", "指定された Job '%s' のJSL定義が見つかりません", jobName)
	}

	// 2. ステップを生成
	steps, err := jsl.ConvertJSLToCoreSteps(jslJob.Steps, func(stepDef jsl.Step) (core.Tasklet, error) {
		builder, found := f.taskletBuilders[stepDef.Tasklet.Ref]
		if !found {
			return nil, exception.NewBatchErrorf("job_factory", "Tasklet '%s' のビルダーが登録されていません", stepDef.Tasklet.Ref)
		}
		return builder(f.config, f.reporterProvider(jslJob.ID, stepDef.ID), copyProperties(stepDef.Tasklet.Properties))
	})
	if err != nil {
		return nil, exception.NewBatchError("job_factory", fmt.Sprintf("JSL ジョブ '%s' のステップ生成に失敗しました", jobName), err)
	}

	// 3. リスナーを生成
	var opts []runner.Option
	for _, ref := range jslJob.Listeners {
		builder, found := f.jobListenerBuilders[ref.Ref]
		if !found {
			return nil, exception.NewBatchErrorf("job_factory", "JobExecutionListener '%s' のビルダーが登録されていません", ref.Ref)
		}
		l, err := builder(f.config)
		if err != nil {
			return nil, exception.NewBatchError("job_factory", fmt.Sprintf("JobExecutionListener '%s' のビルドに失敗しました", ref.Ref), err)
		}
		opts = append(opts, runner.WithJobListeners(l))
	}
	for _, ref := range jslJob.StepListeners {
		builder, found := f.stepListenerBuilders[ref.Ref]
		if !found {
			return nil, exception.NewBatchErrorf("job_factory", "StepExecutionListener '%s' のビルダーが登録されていません", ref.Ref)
		}
		l, err := builder(f.config)
		if err != nil {
			return nil, exception.NewBatchError("job_factory", fmt.Sprintf("StepExecutionListener '%s' のビルドに失敗しました", ref.Ref), err)
		}
		opts = append(opts, runner.WithStepListeners(l))
	}

	// 4. バリデータを生成
	if jslJob.Validator != nil {
		v, err := validator.NewDefaultJobParametersValidator(jslJob.Validator.RequiredKeys, jslJob.Validator.OptionalKeys)
		if err != nil {
			return nil, exception.NewBatchError("job_factory", fmt.Sprintf("JSL ジョブ '%s' のバリデータ設定が不正です", jobName), err)
		}
		opts = append(opts, runner.WithValidator(v))
	}

	// 5. Job インスタンスを作成
	// JobExecution と ExecutionLog のジョブ名はジョブIDに揃える
	job, err := runner.NewSimpleJob(jslJob.ID, steps, opts...)
	if err != nil {
		return nil, exception.NewBatchError("job_factory", fmt.Sprintf("ジョブ '%s' のインスタンス化に失敗しました", jobName), err)
	}

	logger.Debugf("Job '%s' (%s) を JSL 定義から作成しました。ステップ数: %d", jobName, jslJob.Name, len(steps))
	return job, nil
}

// GetJobParametersIncrementer は指定されたジョブの JobParametersIncrementer を構築して返します。
// JSL に incrementer が定義されていない場合は nil, nil を返します。
func (f *JobFactory) GetJobParametersIncrementer(jobName string) (core.JobParametersIncrementer, error) {
	jslJob, ok := f.definitions.Get(jobName)
	if !ok || jslJob.Incrementer.Ref == "" {
		return nil, nil
	}

	builder, found := f.jobParametersIncrementerBuilders[jslJob.Incrementer.Ref]
	if !found {
		return nil, exception.NewBatchErrorf("job_factory", "JobParametersIncrementer '%s' のビルダーが登録されていません", jslJob.Incrementer.Ref)
	}

	incrementer, err := builder(f.config, copyProperties(jslJob.Incrementer.Properties))
	if err != nil {
		return nil, exception.NewBatchError("job_factory", fmt.Sprintf("JobParametersIncrementer '%s' のビルドに失敗しました", jslJob.Incrementer.Ref), err)
	}
	return incrementer, nil
}

func copyProperties(properties map[string]string) map[string]string {
	copied := make(map[string]string, len(properties))
	for k, v := range properties {
		copied[k] = v
	}
	return copied
}
