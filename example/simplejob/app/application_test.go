package app_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simplejob/example/simplejob/app"
	"simplejob/example/simplejob/resources"
	core "simplejob/pkg/batch/job/core"
	logger "simplejob/pkg/batch/util/logger"
)

// lineRecorder は全ステップの Report 出力を "step: line" の形式で記録します。
type lineRecorder struct {
	mu    sync.Mutex
	lines []string
}

type stepReporter struct {
	step string
	rec  *lineRecorder
}

func (r *stepReporter) Report(format string, args ...interface{}) {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	r.rec.lines = append(r.rec.lines, r.step+": "+fmt.Sprintf(format, args...))
}

func (rec *lineRecorder) provider(jobName, stepName string) core.Reporter {
	return &stepReporter{step: stepName, rec: rec}
}

func newOptions(rec *lineRecorder, args ...string) app.Options {
	return app.Options{
		Args:             args,
		EmbeddedConfig:   resources.ApplicationConfig,
		EmbeddedJSL:      [][]byte{resources.JobDefinition},
		ReporterProvider: rec.provider,
	}
}

func TestRunApplication_ScenarioA(t *testing.T) {
	rec := &lineRecorder{}
	exitCode := app.RunApplication(context.Background(), newOptions(rec, "requestDate=2023-01-01"))

	assert.Equal(t, app.ExitCodeCompleted, exitCode)
	assert.Equal(t, []string{
		"simpleStep1: >>>> This is Step1",
		"simpleStep1: >>>> requestDate = 2023-01-01",
		"simpleStep2: >>>> This is Step2",
		"simpleStep2: >>>> requestDate = 2023-01-01",
	}, rec.lines)
}

func TestRunApplication_ScenarioB(t *testing.T) {
	rec := &lineRecorder{}
	exitCode := app.RunApplication(context.Background(), newOptions(rec))

	assert.Equal(t, app.ExitCodeCompleted, exitCode)
	assert.Equal(t, []string{
		"simpleStep1: >>>> This is Step1",
		"simpleStep1: >>>> requestDate = (absent)",
		"simpleStep2: >>>> This is Step2",
		"simpleStep2: >>>> requestDate = (absent)",
	}, rec.lines)
}

func TestRunApplication_Idempotent(t *testing.T) {
	first := &lineRecorder{}
	second := &lineRecorder{}

	assert.Equal(t, app.ExitCodeCompleted, app.RunApplication(context.Background(), newOptions(first, "requestDate=2023-01-01")))
	assert.Equal(t, app.ExitCodeCompleted, app.RunApplication(context.Background(), newOptions(second, "requestDate=2023-01-01")))
	assert.Equal(t, first.lines, second.lines)
}

func TestRunApplication_LogsStepResults(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	rec := &lineRecorder{}
	exitCode := app.RunApplication(context.Background(), newOptions(rec, "requestDate=2023-01-01"))
	require.Equal(t, app.ExitCodeCompleted, exitCode)

	var results []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "ステップ結果") {
			results = append(results, line)
		}
	}
	require.Len(t, results, 2)
	assert.Contains(t, results[0], "Step 'simpleStep1', Status: FINISHED")
	assert.Contains(t, results[1], "Step 'simpleStep2', Status: FINISHED")
	assert.Contains(t, results[0], "Job 'simpleJob'")
}

const failingJobYAML = `
id: failingJob
name: failingJob
steps:
  - id: StepA
    tasklet:
      ref: parameterLoggingTasklet
      properties:
        message: ">>>> This is StepA"
        fail-message: "StepA failed"
  - id: StepB
    tasklet:
      ref: parameterLoggingTasklet
      properties:
        message: ">>>> This is StepB"
`

func TestRunApplication_ScenarioC(t *testing.T) {
	rec := &lineRecorder{}
	opts := newOptions(rec)
	opts.JobName = "failingJob"
	opts.EmbeddedJSL = append(opts.EmbeddedJSL, []byte(failingJobYAML))

	exitCode := app.RunApplication(context.Background(), opts)

	assert.Equal(t, app.ExitCodeFailed, exitCode)
	// StepB は実行されない
	assert.Equal(t, []string{"StepA: >>>> This is StepA"}, rec.lines)
}

func TestRunApplication_StartupErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(opts *app.Options)
	}{
		{
			name:   "Malformed argument",
			mutate: func(opts *app.Options) { opts.Args = []string{"requestDate"} },
		},
		{
			name:   "Duplicate argument",
			mutate: func(opts *app.Options) { opts.Args = []string{"a=1", "a=2"} },
		},
		{
			name:   "Unknown job",
			mutate: func(opts *app.Options) { opts.JobName = "unknownJob" },
		},
		{
			name:   "Invalid config",
			mutate: func(opts *app.Options) { opts.EmbeddedConfig = []byte("batch: [") },
		},
		{
			name:   "No job name",
			mutate: func(opts *app.Options) { opts.EmbeddedConfig = []byte("system:\n  timezone: UTC\n") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BATCH_JOB_NAME", "")
			rec := &lineRecorder{}
			opts := newOptions(rec)
			tt.mutate(&opts)

			assert.Equal(t, app.ExitCodeStartupError, app.RunApplication(context.Background(), opts))
			assert.Empty(t, rec.lines)
		})
	}
}

func TestRunApplication_EnvFile(t *testing.T) {
	if _, set := os.LookupEnv("BATCH_JOB_NAME"); set {
		t.Skip("BATCH_JOB_NAME が既に設定されています")
	}
	t.Cleanup(func() { os.Unsetenv("BATCH_JOB_NAME") })

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BATCH_JOB_NAME=failingJob\n"), 0o600))

	rec := &lineRecorder{}
	opts := newOptions(rec)
	opts.EnvFilePath = envFile
	opts.EmbeddedJSL = append(opts.EmbeddedJSL, []byte(failingJobYAML))

	assert.Equal(t, app.ExitCodeFailed, app.RunApplication(context.Background(), opts))
	assert.Equal(t, []string{"StepA: >>>> This is StepA"}, rec.lines)
}

func TestRunApplication_MissingEnvFileIsNotFatal(t *testing.T) {
	rec := &lineRecorder{}
	opts := newOptions(rec, "requestDate=2023-01-01")
	opts.EnvFilePath = filepath.Join(t.TempDir(), "missing.env")

	assert.Equal(t, app.ExitCodeCompleted, app.RunApplication(context.Background(), opts))
}

func TestRunApplication_ConfigDefaultParameters(t *testing.T) {
	cfg := []byte(`
batch:
  job_name: simpleJob
  parameters:
    requestDate: "1999-12-31"
`)
	t.Run("Default is used when no argument is given", func(t *testing.T) {
		rec := &lineRecorder{}
		opts := newOptions(rec)
		opts.EmbeddedConfig = cfg
		assert.Equal(t, app.ExitCodeCompleted, app.RunApplication(context.Background(), opts))
		assert.Contains(t, rec.lines, "simpleStep1: >>>> requestDate = 1999-12-31")
	})
	t.Run("Argument overrides default", func(t *testing.T) {
		rec := &lineRecorder{}
		opts := newOptions(rec, "requestDate=2023-01-01")
		opts.EmbeddedConfig = cfg
		assert.Equal(t, app.ExitCodeCompleted, app.RunApplication(context.Background(), opts))
		assert.Contains(t, rec.lines, "simpleStep1: >>>> requestDate = 2023-01-01")
	})
}

func TestListJobs(t *testing.T) {
	rec := &lineRecorder{}
	opts := newOptions(rec)
	opts.EmbeddedJSL = append(opts.EmbeddedJSL, []byte(failingJobYAML))

	var out bytes.Buffer
	assert.Equal(t, app.ExitCodeCompleted, app.ListJobs(context.Background(), opts, &out))
	assert.Equal(t, "failingJob\nsimpleJob\n", out.String())
	assert.Empty(t, rec.lines)
}
