package factory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "simplejob/pkg/batch/config"
	core "simplejob/pkg/batch/job/core"
	factory "simplejob/pkg/batch/job/factory"
	incrementer "simplejob/pkg/batch/job/incrementer"
	jsl "simplejob/pkg/batch/job/jsl"
	"simplejob/pkg/batch/util/exception"
)

const testJobYAML = `
id: testJob
name: testJob
listeners:
  - ref: recordingJobListener
incrementer:
  ref: runIdIncrementer
validator:
  required-keys: [requestDate]
steps:
  - id: step1
    tasklet:
      ref: echoTasklet
      properties:
        message: hello
  - id: step2
    tasklet:
      ref: echoTasklet
      properties:
        message: world
`

// recordingReporter は Report の出力を記録します。
type recordingReporter struct {
	step  string
	lines *[]string
}

func (r *recordingReporter) Report(format string, args ...interface{}) {
	*r.lines = append(*r.lines, r.step+": "+fmt.Sprintf(format, args...))
}

type nopJobListener struct{ before, after *int }

func (l nopJobListener) BeforeJob(ctx context.Context, je *core.JobExecution) { *l.before++ }
func (l nopJobListener) AfterJob(ctx context.Context, je *core.JobExecution)  { *l.after++ }

func newTestFactory(t *testing.T, yamlDefs ...string) *factory.JobFactory {
	t.Helper()
	defs := jsl.NewDefinitions()
	for _, d := range yamlDefs {
		_, err := defs.LoadFromBytes([]byte(d))
		require.NoError(t, err)
	}
	return factory.NewJobFactory(config.NewConfig(), defs)
}

func echoTaskletBuilder(cfg *config.Config, reporter core.Reporter, properties map[string]string) (core.Tasklet, error) {
	message := properties["message"]
	return core.TaskletFunc(func(ctx context.Context, params core.JobParameters) (core.RepeatStatus, error) {
		reporter.Report("%s %s", message, params.GetString("requestDate"))
		return core.RepeatStatusFinished, nil
	}), nil
}

func TestJobFactory_CreateJob(t *testing.T) {
	f := newTestFactory(t, testJobYAML)

	var lines []string
	f.SetReporterProvider(func(jobName, stepName string) core.Reporter {
		return &recordingReporter{step: jobName + "/" + stepName, lines: &lines}
	})
	f.RegisterTaskletBuilder("echoTasklet", echoTaskletBuilder)
	before, after := 0, 0
	f.RegisterJobListenerBuilder("recordingJobListener", func(cfg *config.Config) (core.JobExecutionListener, error) {
		return nopJobListener{before: &before, after: &after}, nil
	})

	job, err := f.CreateJob("testJob")
	require.NoError(t, err)
	assert.Equal(t, "testJob", job.JobName())
	require.Len(t, job.Steps(), 2)
	assert.Equal(t, "step1", job.Steps()[0].StepName())

	// JSL の validator が適用される
	assert.Error(t, job.ValidateParameters(core.NewJobParameters(nil)))

	params := core.NewJobParameters(map[string]string{"requestDate": "2023-01-01"})
	require.NoError(t, job.ValidateParameters(params))
	je := core.NewJobExecution(job.JobName(), params)
	require.NoError(t, job.Run(context.Background(), je))

	assert.Equal(t, core.JobStatusCompleted, je.Status)
	assert.Equal(t, []string{"testJob/step1: hello 2023-01-01", "testJob/step2: world 2023-01-01"}, lines)
	assert.Equal(t, 1, before)
	assert.Equal(t, 1, after)

	// 呼び出しごとに新しいインスタンス
	job2, err := f.CreateJob("testJob")
	require.NoError(t, err)
	assert.NotSame(t, job, job2)
	assert.Equal(t, []string{"testJob"}, f.JobNames())
}

func TestJobFactory_CreateJob_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *factory.JobFactory)
		job   string
	}{
		{
			name:  "Unknown job",
			setup: func(f *factory.JobFactory) {},
			job:   "unknownJob",
		},
		{
			name:  "Unregistered tasklet",
			setup: func(f *factory.JobFactory) {},
			job:   "testJob",
		},
		{
			name: "Unregistered job listener",
			setup: func(f *factory.JobFactory) {
				f.RegisterTaskletBuilder("echoTasklet", echoTaskletBuilder)
			},
			job: "testJob",
		},
		{
			name: "Tasklet builder error",
			setup: func(f *factory.JobFactory) {
				f.RegisterTaskletBuilder("echoTasklet", func(cfg *config.Config, reporter core.Reporter, properties map[string]string) (core.Tasklet, error) {
					return nil, errors.New("builder failed")
				})
			},
			job: "testJob",
		},
		{
			name: "Job listener builder error",
			setup: func(f *factory.JobFactory) {
				f.RegisterTaskletBuilder("echoTasklet", echoTaskletBuilder)
				f.RegisterJobListenerBuilder("recordingJobListener", func(cfg *config.Config) (core.JobExecutionListener, error) {
					return nil, errors.New("listener failed")
				})
			},
			job: "testJob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFactory(t, testJobYAML)
			tt.setup(f)

			job, err := f.CreateJob(tt.job)
			assert.Nil(t, job)
			require.Error(t, err)
			assert.True(t, exception.IsFromModule(err, "job_factory"))
		})
	}
}

func TestJobFactory_GetJobParametersIncrementer(t *testing.T) {
	f := newTestFactory(t, testJobYAML, "id: plainJob\nname: plainJob\n")

	// ビルダー未登録
	_, err := f.GetJobParametersIncrementer("testJob")
	assert.Error(t, err)

	f.RegisterJobParametersIncrementerBuilder("runIdIncrementer", func(cfg *config.Config, properties map[string]string) (core.JobParametersIncrementer, error) {
		return incrementer.NewRunIDIncrementer(properties["name"]), nil
	})
	incr, err := f.GetJobParametersIncrementer("testJob")
	require.NoError(t, err)
	require.NotNil(t, incr)
	assert.Equal(t, "1", incr.GetNext(core.NewJobParameters(nil)).GetString("run.id"))

	// incrementer が定義されていないジョブ
	incr, err = f.GetJobParametersIncrementer("plainJob")
	assert.NoError(t, err)
	assert.Nil(t, incr)
}

func TestJobFactory_CreateJob_NamedByJobID(t *testing.T) {
	f := newTestFactory(t, "id: jobA\nname: jobB\nsteps:\n  - id: step1\n    tasklet: {ref: echoTasklet}\n")

	var reporterJobs []string
	f.SetReporterProvider(func(jobName, stepName string) core.Reporter {
		reporterJobs = append(reporterJobs, jobName)
		return &recordingReporter{step: stepName, lines: &[]string{}}
	})
	f.RegisterTaskletBuilder("echoTasklet", echoTaskletBuilder)

	job, err := f.CreateJob("jobA")
	require.NoError(t, err)
	assert.Equal(t, "jobA", job.JobName())
	assert.Equal(t, []string{"jobA"}, reporterJobs)
	assert.Equal(t, []string{"jobA"}, f.JobNames())

	_, err = f.CreateJob("jobB")
	assert.Error(t, err)
}
