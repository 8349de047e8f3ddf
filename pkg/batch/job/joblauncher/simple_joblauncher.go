package joblauncher

import (
	"context"
	"fmt"
	"sync"

	core "simplejob/pkg/batch/job/core"
	exception "simplejob/pkg/batch/util/exception"
	logger "simplejob/pkg/batch/util/logger"
)

// SimpleJobLauncher は JobLauncher インターフェースのシンプルな実装です。
// ジョブは呼び出し元のゴルーチンで同期的に実行されます。実行履歴は保持しません。
type SimpleJobLauncher struct {
	jobProvider JobProvider
	// 実行中のジョブのキャンセル関数を保持するマップ
	activeJobCancellations map[string]context.CancelFunc
	mu                     sync.Mutex
}

var _ JobLauncher = (*SimpleJobLauncher)(nil)

// NewSimpleJobLauncher は新しい SimpleJobLauncher のインスタンスを作成します。
func NewSimpleJobLauncher(jobProvider JobProvider) *SimpleJobLauncher {
	return &SimpleJobLauncher{
		jobProvider:            jobProvider,
		activeJobCancellations: make(map[string]context.CancelFunc),
	}
}

func (l *SimpleJobLauncher) registerCancelFunc(executionID string, cancelFunc context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.activeJobCancellations[executionID] = cancelFunc
	logger.Debugf("JobExecution (ID: %s) の CancelFunc を登録しました。", executionID)
}

func (l *SimpleJobLauncher) unregisterCancelFunc(executionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cancelFunc, ok := l.activeJobCancellations[executionID]; ok {
		cancelFunc()
		delete(l.activeJobCancellations, executionID)
		logger.Debugf("JobExecution (ID: %s) の CancelFunc を登録解除しました。", executionID)
	}
}

// Stop は実行中のジョブに停止を要求します。ジョブは実行中のステップの完了後、次のステップの前で FAILED として終了します。
// 該当する実行中のジョブがない場合は false を返します。
func (l *SimpleJobLauncher) Stop(executionID string) bool {
	l.mu.Lock()
	cancelFunc, ok := l.activeJobCancellations[executionID]
	l.mu.Unlock()
	if !ok {
		return false
	}
	logger.Warnf("JobExecution (ID: %s) に停止を要求します。", executionID)
	cancelFunc()
	return true
}

// RunningExecutionIDs は実行中の JobExecution の ID を返します。
func (l *SimpleJobLauncher) RunningExecutionIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, 0, len(l.activeJobCancellations))
	for id := range l.activeJobCancellations {
		ids = append(ids, id)
	}
	return ids
}

// Launch は指定された Job を JobParameters とともに起動し、JobExecution を管理します。
func (l *SimpleJobLauncher) Launch(ctx context.Context, jobName string, params core.JobParameters) (*core.JobExecution, error) {
	logger.Infof("JobLauncher を使用して Job '%s' を起動するよ。", jobName)

	// Step 1: Job オブジェクトを取得 (起動ごとに新しいインスタンス)
	batchJob, err := l.jobProvider.CreateJob(jobName)
	if err != nil {
		logger.Errorf("Job '%s' の作成に失敗しました: %v", jobName, err)
		return nil, exception.NewBatchError("job_launcher", fmt.Sprintf("Job '%s' の作成に失敗しました", jobName), err)
	}

	// Step 2: JobParametersIncrementer があればパラメータを更新
	incrementer, err := l.jobProvider.GetJobParametersIncrementer(jobName)
	if err != nil {
		return nil, exception.NewBatchError("job_launcher", "JobParametersIncrementer の取得に失敗しました", err)
	}
	if incrementer != nil {
		params = incrementer.GetNext(params)
		logger.Infof("JobParametersIncrementer を使用して新しい JobParameters を生成しました: %s", params)
	}

	// Step 3: JobParameters のバリデーション
	if err := batchJob.ValidateParameters(params); err != nil {
		logger.Errorf("Job '%s': JobParameters のバリデーションに失敗しました: %v", jobName, err)
		return nil, exception.NewBatchError("job_launcher", "JobParameters のバリデーションエラー", err)
	}

	// Step 4: JobExecution の作成
	jobExecution := core.NewJobExecution(batchJob.JobName(), params)

	jobCtx, cancel := context.WithCancel(ctx)
	l.registerCancelFunc(jobExecution.ID, cancel)
	defer l.unregisterCancelFunc(jobExecution.ID)

	logger.Infof("Job '%s' (Execution ID: %s) を実行するよ。", jobName, jobExecution.ID)

	// Step 5: Job を実行
	runErr := batchJob.Run(jobCtx, jobExecution)
	if runErr != nil {
		return jobExecution, exception.NewBatchError("job_launcher", fmt.Sprintf("Job '%s' の実行に失敗しました", jobName), runErr)
	}
	return jobExecution, nil
}
