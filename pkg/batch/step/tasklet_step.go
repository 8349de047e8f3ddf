package step

import (
	"context"
	"fmt"

	core "simplejob/pkg/batch/job/core"
	exception "simplejob/pkg/batch/util/exception"
	logger "simplejob/pkg/batch/util/logger"
)

// TaskletStep は Tasklet をラップし、core.Step インターフェースを実装します。
// Tasklet が CONTINUABLE を返す間は繰り返し呼び出し、FINISHED で終了します。
type TaskletStep struct {
	name    string
	tasklet core.Tasklet
}

// TaskletStep が core.Step インターフェースを満たすことを確認します。
var _ core.Step = (*TaskletStep)(nil)

// NewTaskletStep は新しい TaskletStep のインスタンスを作成します。
func NewTaskletStep(name string, tasklet core.Tasklet) (*TaskletStep, error) {
	if name == "" {
		return nil, exception.NewBatchErrorf("tasklet_step", "ステップ名が空です")
	}
	if tasklet == nil {
		return nil, exception.NewBatchErrorf("tasklet_step", "ステップ '%s' に Tasklet が指定されていません", name)
	}
	return &TaskletStep{
		name:    name,
		tasklet: tasklet,
	}, nil
}

// StepName はステップ名を返します。
func (s *TaskletStep) StepName() string {
	return s.name
}

// Execute は Tasklet を FINISHED が返るまで実行します。
// Tasklet のエラー、キャンセル、不明な RepeatStatus はいずれも FAILED として扱います。
func (s *TaskletStep) Execute(ctx context.Context, params core.JobParameters) (core.StepStatus, error) {
	logger.Debugf("Taskletステップ '%s' を始めるよ。Parameters: %s", s.name, params)

	for iteration := 1; ; iteration++ {
		if err := ctx.Err(); err != nil {
			logger.Warnf("Taskletステップ '%s': Context がキャンセルされたため中断するよ: %v", s.name, err)
			return core.StepStatusFailed, exception.NewBatchError(s.name, "Tasklet の実行が中断されました", err)
		}

		status, err := s.tasklet.Execute(ctx, params)
		if err != nil {
			logger.Errorf("Taskletステップ '%s' の実行中にエラーが発生したよ: %v", s.name, err)
			return core.StepStatusFailed, exception.NewBatchError(s.name, "Tasklet 実行エラー", err)
		}

		switch status {
		case core.RepeatStatusFinished:
			logger.Debugf("Taskletステップ '%s' が完了したよ。実行回数: %d", s.name, iteration)
			return core.StepStatusFinished, nil
		case core.RepeatStatusContinuable:
			logger.Debugf("Taskletステップ '%s': CONTINUABLE が返されたため再実行するよ (%d 回目)。", s.name, iteration)
		default:
			err := fmt.Errorf("不明な RepeatStatus '%s'", status)
			logger.Errorf("Taskletステップ '%s': %v", s.name, err)
			return core.StepStatusFailed, exception.NewBatchError(s.name, "Tasklet が不正な状態を返しました", err)
		}
	}
}
