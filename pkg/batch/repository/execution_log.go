package repository

import (
	"context"
	"sync"
	"time"

	core "simplejob/pkg/batch/job/core"
	exception "simplejob/pkg/batch/util/exception"
)

// Record はステップ実行一件分の記録です。
type Record struct {
	JobName   string
	RunID     string // JobExecution の ID
	StepName  string
	Status    core.StepStatus
	Timestamp time.Time
}

// ExecutionLog はステップ実行結果を追記専用で保持するログのインターフェースです。
// ジョブやステップ自身ではなく、リスナー経由で外部から書き込まれます。
type ExecutionLog interface {
	Append(ctx context.Context, record Record) error
	// Records は指定ジョブの記録を追記順に返します。jobName が空の場合は全件を返します。
	Records(jobName string) []Record
	Close() error
}

// InMemoryExecutionLog はプロセス内メモリに記録を保持する ExecutionLog の実装です。
// 永続化は行いません。
type InMemoryExecutionLog struct {
	mu      sync.RWMutex
	records []Record
	closed  bool
}

var _ ExecutionLog = (*InMemoryExecutionLog)(nil)

// NewInMemoryExecutionLog は新しい InMemoryExecutionLog を作成します。
func NewInMemoryExecutionLog() *InMemoryExecutionLog {
	return &InMemoryExecutionLog{}
}

// Append は記録を末尾に追加します。クローズ後の追加はエラーになります。
func (l *InMemoryExecutionLog) Append(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return exception.NewBatchError("execution_log", "記録の追加が中断されました", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return exception.NewBatchErrorf("execution_log", "クローズ済みの ExecutionLog には追加できません")
	}
	l.records = append(l.records, record)
	return nil
}

// Records は記録のコピーを返します。
func (l *InMemoryExecutionLog) Records(jobName string) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]Record, 0, len(l.records))
	for _, r := range l.records {
		if jobName == "" || r.JobName == jobName {
			result = append(result, r)
		}
	}
	return result
}

// Close は以降の追加を拒否します。記録の参照は引き続き可能です。
func (l *InMemoryExecutionLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}
