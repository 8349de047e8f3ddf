package initializer

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	config "simplejob/pkg/batch/config"
	core "simplejob/pkg/batch/job/core"
	factory "simplejob/pkg/batch/job/factory"
	incrementer "simplejob/pkg/batch/job/incrementer"
	joblauncher "simplejob/pkg/batch/job/joblauncher"
	joboperator "simplejob/pkg/batch/job/joboperator"
	jsl "simplejob/pkg/batch/job/jsl"
	joblistener "simplejob/pkg/batch/job/listener"
	repository "simplejob/pkg/batch/repository"
	steplistener "simplejob/pkg/batch/step/listener"
	exception "simplejob/pkg/batch/util/exception"
	logger "simplejob/pkg/batch/util/logger"
)

// BatchInitializer はバッチアプリケーションの初期化処理を担当します。
type BatchInitializer struct {
	Config             *config.Config
	JSLDefinitionBytes [][]byte // JSL定義のバイトスライス (1ファイル1ジョブ)
	Definitions        *jsl.Definitions
	ExecutionLog       repository.ExecutionLog
	JobFactory         *factory.JobFactory
	JobLauncher        *joblauncher.SimpleJobLauncher
	JobOperator        joboperator.JobOperator
}

// NewBatchInitializer は新しい BatchInitializer のインスタンスを作成します。
// cfg.EmbeddedConfig に埋め込み設定を格納して渡します。
func NewBatchInitializer(cfg *config.Config, jslDefinitions ...[]byte) *BatchInitializer {
	return &BatchInitializer{
		Config:             cfg,
		JSLDefinitionBytes: jslDefinitions,
	}
}

// Initialize はバッチアプリケーションの初期化処理を実行します。
// .env ファイルのロードは呼び出し元 (application.go) で行います。
func (bi *BatchInitializer) Initialize(ctx context.Context) (*joblauncher.SimpleJobLauncher, *factory.JobFactory, error) {
	logger.Debugf("BatchInitializer.Initialize が呼び出されました。")

	if err := ctx.Err(); err != nil {
		return nil, nil, exception.NewBatchError("initializer", "初期化開始前に Context がキャンセルされました", err)
	}
	if bi.Config == nil {
		return nil, nil, exception.NewBatchErrorf("initializer", "Config が指定されていません")
	}

	// Step 1: 設定のロード
	cfg, err := config.NewBytesConfigLoader(bi.Config.EmbeddedConfig).Load()
	if err != nil {
		return nil, nil, exception.NewBatchError("initializer", "設定のロードに失敗しました", err)
	}
	bi.Config = cfg

	logger.SetLogLevel(cfg.System.Logging.Level)
	logger.SetFormat(cfg.System.Logging.Format)
	logger.Infof("ロギングレベルを '%s' に設定しました。", cfg.System.Logging.Level)

	// Step 2: JSL 定義のロード
	bi.Definitions = jsl.NewDefinitions()
	for i, data := range bi.JSLDefinitionBytes {
		if _, err := bi.Definitions.LoadFromBytes(data); err != nil {
			return nil, nil, exception.NewBatchError("initializer", fmt.Sprintf("JSL 定義 (%d 番目) のロードに失敗しました", i+1), err)
		}
	}
	logger.Infof("JSL 定義のロードが完了しました。ロードされたジョブ数: %d", bi.Definitions.Count())

	// Step 3: ExecutionLog の生成
	bi.ExecutionLog = repository.NewInMemoryExecutionLog()
	logger.Debugf("インメモリの ExecutionLog を生成しました。")

	// Step 4: JobFactory の生成とフレームワークコンポーネントの登録
	bi.JobFactory = factory.NewJobFactory(cfg, bi.Definitions)
	registerFrameworkComponents(bi.JobFactory, bi.ExecutionLog)

	// Step 5: JobLauncher の生成
	bi.JobLauncher = joblauncher.NewSimpleJobLauncher(bi.JobFactory)
	logger.Infof("SimpleJobLauncher を生成しました。")

	// Step 6: JobOperator の生成
	bi.JobOperator = joboperator.NewDefaultJobOperator(bi.JobLauncher, bi.JobFactory, bi.ExecutionLog)
	logger.Debugf("DefaultJobOperator を生成しました。")

	return bi.JobLauncher, bi.JobFactory, nil
}

// registerFrameworkComponents はフレームワークが提供するリスナーとインクリメンタを JobFactory に登録します。
// Tasklet はアプリケーション側で登録します。
func registerFrameworkComponents(jobFactory *factory.JobFactory, executionLog repository.ExecutionLog) {
	jobFactory.RegisterJobListenerBuilder("loggingJobListener", func(_ *config.Config) (core.JobExecutionListener, error) {
		return joblistener.NewLoggingJobListener(), nil
	})
	jobFactory.RegisterJobListenerBuilder("executionLogListener", func(cfg *config.Config) (core.JobExecutionListener, error) {
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}
		return joblistener.NewExecutionLogListener(executionLog, loc), nil
	})

	jobFactory.RegisterStepExecutionListenerBuilder("loggingStepListener", func(_ *config.Config) (core.StepExecutionListener, error) {
		return steplistener.NewLoggingStepListener(), nil
	})

	jobFactory.RegisterJobParametersIncrementerBuilder("runIdIncrementer", func(cfg *config.Config, properties map[string]string) (core.JobParametersIncrementer, error) {
		return incrementer.NewRunIDIncrementer(strings.TrimSpace(properties["name"])), nil
	})
	jobFactory.RegisterJobParametersIncrementerBuilder("timestampIncrementer", func(cfg *config.Config, properties map[string]string) (core.JobParametersIncrementer, error) {
		return incrementer.NewTimestampIncrementer(strings.TrimSpace(properties["name"])), nil
	})

	logger.Debugf("フレームワークコンポーネントビルダーを登録しました。")
}

// Close は BatchInitializer が保持するリソースを解放します。
func (bi *BatchInitializer) Close() error {
	var result *multierror.Error
	if bi.ExecutionLog != nil {
		if err := bi.ExecutionLog.Close(); err != nil {
			logger.Errorf("ExecutionLog のクローズに失敗しました: %v", err)
			result = multierror.Append(result, fmt.Errorf("ExecutionLog クローズエラー: %w", err))
		} else {
			logger.Debugf("ExecutionLog をクローズしました。")
		}
	}
	return result.ErrorOrNil()
}
