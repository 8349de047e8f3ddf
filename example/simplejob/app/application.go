package app

import (
	"context"
	"fmt"
	"io"
	"time"

	godotenv "github.com/joho/godotenv"

	appTasklet "simplejob/example/simplejob/step/tasklet"
	config "simplejob/pkg/batch/config"
	initializer "simplejob/pkg/batch/initializer"
	component "simplejob/pkg/batch/job/component"
	core "simplejob/pkg/batch/job/core"
	factory "simplejob/pkg/batch/job/factory"
	joboperator "simplejob/pkg/batch/job/joboperator"
	repository "simplejob/pkg/batch/repository"
	exception "simplejob/pkg/batch/util/exception"
	logger "simplejob/pkg/batch/util/logger"
)

// プロセスの終了コード
const (
	ExitCodeCompleted    = 0 // ジョブが COMPLETED で終了
	ExitCodeFailed       = 1 // ジョブが FAILED で終了
	ExitCodeStartupError = 2 // 設定・引数・ジョブ解決などの起動エラー
)

// Options は RunApplication の入力です。
type Options struct {
	EnvFilePath    string   // .env ファイルのパス。空の場合はロードしない
	JobName        string   // 実行するジョブ名。空の場合は設定ファイルの batch.job_name
	Args           []string // key=value 形式の起動パラメータ
	EmbeddedConfig []byte
	EmbeddedJSL    [][]byte

	// ReporterProvider を指定するとステップの出力先を差し替えられます。
	ReporterProvider component.ReporterProvider
}

// registerApplicationComponents はアプリケーション固有のコンポーネントを JobFactory に登録します。
// リスナーとインクリメンタは BatchInitializer が登録します。
func registerApplicationComponents(jobFactory *factory.JobFactory) {
	jobFactory.RegisterTaskletBuilder("parameterLoggingTasklet", func(cfg *config.Config, reporter core.Reporter, properties map[string]string) (core.Tasklet, error) {
		return appTasklet.NewParameterLoggingTasklet(cfg, reporter, properties)
	})
	logger.Debugf("全てのアプリケーションコンポーネントビルダーを登録しました。")
}

// loadEnvFile は .env ファイルをロードします。ロードに失敗しても処理は継続します。
func loadEnvFile(envFilePath string) {
	if envFilePath == "" {
		logger.Debugf(".env ファイルのパスが指定されていないため、ロードをスキップします。")
		return
	}
	if err := godotenv.Load(envFilePath); err != nil {
		logger.Warnf(".env ファイル '%s' のロードに失敗しました (本番環境では環境変数を使用): %v", envFilePath, err)
		return
	}
	logger.Infof(".env ファイル '%s' をロードしました。", envFilePath)
}

// setupApplication はアプリケーションの初期化処理を実行し、必要なコンポーネントを返します。
func setupApplication(ctx context.Context, opts Options) (*initializer.BatchInitializer, joboperator.JobOperator, error) {
	loadEnvFile(opts.EnvFilePath)

	batchInitializer := initializer.NewBatchInitializer(&config.Config{EmbeddedConfig: opts.EmbeddedConfig}, opts.EmbeddedJSL...)

	_, jobFactory, initErr := batchInitializer.Initialize(ctx)
	if initErr != nil {
		return nil, nil, exception.NewBatchError("app", "バッチアプリケーションの初期化に失敗しました", initErr)
	}
	logger.Infof("バッチアプリケーションの初期化が完了しました。")

	jobFactory.SetReporterProvider(opts.ReporterProvider)
	registerApplicationComponents(jobFactory)

	return batchInitializer, batchInitializer.JobOperator, nil
}

func closeApplication(batchInitializer *initializer.BatchInitializer) {
	if closeErr := batchInitializer.Close(); closeErr != nil {
		logger.Errorf("バッチアプリケーションのリソースクローズ中にエラーが発生しました: %v", closeErr)
	} else {
		logger.Debugf("バッチアプリケーションのリソースを正常にクローズしました。")
	}
}

// RunApplication はアプリケーションのメインロジックを実行し、プロセスの終了コードを返します。
func RunApplication(ctx context.Context, opts Options) int {
	cliParams, err := core.ParseJobParameters(opts.Args)
	if err != nil {
		logger.Errorf("起動パラメータが不正です: %v", err)
		return ExitCodeStartupError
	}

	batchInitializer, jobOperator, err := setupApplication(ctx, opts)
	if err != nil {
		logger.Errorf("%v", err)
		return ExitCodeStartupError
	}
	defer closeApplication(batchInitializer)

	jobName := opts.JobName
	if jobName == "" {
		jobName = batchInitializer.Config.Batch.JobName
	}
	if jobName == "" {
		logger.Errorf("実行するジョブ名が指定されていません。--job または batch.job_name を指定してください。")
		return ExitCodeStartupError
	}

	// 設定ファイルのデフォルトパラメータをコマンドライン引数で上書き
	params := batchInitializer.Config.DefaultJobParameters().Merge(cliParams)
	logger.Infof("実行する Job: '%s', JobParameters: %s", jobName, params)

	jobExecution, launchErr := jobOperator.Start(ctx, jobName, params)
	exitCode := handleApplicationError(launchErr, jobExecution, jobName)

	if jobExecution != nil {
		records, err := jobOperator.GetStepRecords(ctx, jobName)
		if err != nil {
			logger.Warnf("Job '%s' のステップ実行記録を取得できませんでした: %v", jobName, err)
		} else {
			logStepRecords(records, jobExecution.ID)
		}
	}
	return exitCode
}

// logStepRecords は今回の JobExecution で記録されたステップ結果を一行ずつログに出力します。
func logStepRecords(records []repository.Record, executionID string) {
	for _, r := range records {
		if r.RunID != executionID {
			continue
		}
		logger.Infof("ステップ結果: Job '%s', Step '%s', Status: %s (%s)",
			r.JobName, r.StepName, r.Status, r.Timestamp.Format(time.RFC3339))
	}
}

// ListJobs は起動可能なジョブ名を一行ずつ w に出力します。
func ListJobs(ctx context.Context, opts Options, w io.Writer) int {
	batchInitializer, jobOperator, err := setupApplication(ctx, opts)
	if err != nil {
		logger.Errorf("%v", err)
		return ExitCodeStartupError
	}
	defer closeApplication(batchInitializer)

	names, err := jobOperator.GetJobNames(ctx)
	if err != nil {
		logger.Errorf("ジョブ名の取得に失敗しました: %v", err)
		return ExitCodeStartupError
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return ExitCodeCompleted
}

// handleApplicationError はアプリケーションのエラーを処理し、適切な終了コードを返します。
func handleApplicationError(err error, jobExecution *core.JobExecution, jobName string) int {
	if jobExecution == nil {
		if err == nil {
			logger.Errorf("JobLauncher.Launch がエラーなしで nil の JobExecution を返しました。")
			return ExitCodeStartupError
		}
		// ジョブ起動処理自体でエラーが発生した場合
		logger.Errorf("Job '%s' の起動処理中にエラーが発生しました: %v", jobName, err)
		logBatchErrorDetail(err)
		return ExitCodeStartupError
	}

	if err != nil {
		logger.Errorf("Job '%s' (Execution ID: %s) の実行中にエラーが発生しました: %v", jobName, jobExecution.ID, err)
		logBatchErrorDetail(err)
	}

	if jobExecution.Status != core.JobStatusCompleted {
		logger.Errorf(
			"Job '%s' は失敗しました (Status: %s)。詳細は JobExecution (ID: %s) およびログを確認してください。",
			jobExecution.JobName,
			jobExecution.Status,
			jobExecution.ID,
		)
		// JobExecution に記録された全ての失敗をログ出力
		for i, f := range jobExecution.Failures {
			logger.Errorf("  - 失敗 %d: %v", i+1, f)
		}
		return ExitCodeFailed
	}

	logger.Infof("Job '%s' (Execution ID: %s) は正常に完了しました。", jobName, jobExecution.ID)
	return ExitCodeCompleted
}

func logBatchErrorDetail(err error) {
	if be, ok := exception.AsBatchError(err); ok {
		logger.Debugf("BatchError 詳細: Module=%s, Message=%s, OriginalErr=%v", be.Module, be.Message, be.OriginalErr)
		if be.StackTrace != "" {
			logger.Debugf("BatchError StackTrace:\n%s", be.StackTrace)
		}
	}
}
