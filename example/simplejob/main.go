package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"simplejob/example/simplejob/app"
	"simplejob/example/simplejob/resources"
	"simplejob/pkg/batch/util/logger"
)

func newRootCommand(ctx context.Context, exitCode *int) *cobra.Command {
	var (
		jobName     string
		envFilePath string
		listJobs    bool
	)

	cmd := &cobra.Command{
		Use:   "simplejob [key=value ...]",
		Short: "JSL で定義されたジョブを起動パラメータとともに実行します",
		Long: `JSL で定義されたジョブを起動パラメータとともに実行します。

起動パラメータは key=value 形式で指定します。例:
  simplejob requestDate=2023-01-01

終了コード: 0 = COMPLETED, 1 = FAILED, 2 = 起動エラー`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFilePath == "" {
				envFilePath = os.Getenv("ENV_FILE_PATH")
			}
			if envFilePath == "" {
				envFilePath = ".env" // デフォルトのパス
			}

			opts := app.Options{
				EnvFilePath:    envFilePath,
				JobName:        jobName,
				Args:           args,
				EmbeddedConfig: resources.ApplicationConfig,
				EmbeddedJSL:    [][]byte{resources.JobDefinition},
			}
			if listJobs {
				*exitCode = app.ListJobs(ctx, opts, cmd.OutOrStdout())
				return nil
			}

			// アプリケーションのメインロジックを app パッケージに委譲
			*exitCode = app.RunApplication(ctx, opts)
			return nil
		},
	}

	cmd.Flags().StringVar(&jobName, "job", "", "実行するジョブ名 (省略時は設定ファイルの batch.job_name)")
	cmd.Flags().StringVar(&envFilePath, "env-file", "", ".env ファイルのパス (省略時は ENV_FILE_PATH または .env)")
	cmd.Flags().BoolVar(&listJobs, "list-jobs", false, "起動可能なジョブ名を一覧表示して終了します")
	return cmd
}

func main() {
	// Context の設定 (キャンセル可能にする)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリング (Ctrl+C などで安全に終了するため)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Warnf("シグナル '%v' を受信しました。ジョブの停止を試みます...", sig)
		cancel() // Context をキャンセルしてジョブ実行を中断
	}()

	exitCode := app.ExitCodeStartupError
	if err := newRootCommand(ctx, &exitCode).Execute(); err != nil {
		logger.Errorf("コマンドの実行に失敗しました: %v", err)
		exitCode = app.ExitCodeStartupError
	}
	cancel()
	os.Exit(exitCode)
}
