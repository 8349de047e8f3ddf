package exception

import (
	"errors"
	"fmt"
	"runtime"
)

// BatchError はバッチ処理中に発生するカスタムエラー型です。
// エラーの発生元モジュール、メッセージ、ラップされた元のエラーを保持します。
// ステップの失敗では Module にステップ名が入ります。
type BatchError struct {
	Module      string // エラーが発生したモジュール (例: "job_launcher", "jsl_loader", ステップ名)
	Message     string // エラーの簡潔な説明
	OriginalErr error  // ラップされた元のエラー
	StackTrace  string // スタックトレース (デバッグ用)
}

// NewBatchError は新しい BatchError のインスタンスを作成します。
func NewBatchError(module, message string, originalErr error) *BatchError {
	return &BatchError{
		Module:      module,
		Message:     message,
		OriginalErr: originalErr,
		StackTrace:  captureStack(),
	}
}

// NewBatchErrorf はフォーマット文字列を使用して、元のエラーを持たない BatchError を作成します。
// 元のエラーをラップする場合は NewBatchError を使用してください。
func NewBatchErrorf(module, format string, a ...interface{}) *BatchError {
	return &BatchError{
		Module:     module,
		Message:    fmt.Sprintf(format, a...),
		StackTrace: captureStack(),
	}
}

func captureStack() string {
	buf := make([]byte, 2048)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// Error は error インターフェースの実装です。
func (e *BatchError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Module, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("[%s] %s", e.Module, e.Message)
}

// Unwrap は errors.Unwrap のために元のエラーを返します。
func (e *BatchError) Unwrap() error {
	return e.OriginalErr
}

// AsBatchError はエラーチェーンから最初の BatchError を取り出します。
func AsBatchError(err error) (*BatchError, bool) {
	var be *BatchError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsBatchError はエラーチェーンに BatchError が含まれるかどうかを返します。
func IsBatchError(err error) bool {
	_, ok := AsBatchError(err)
	return ok
}

// IsFromModule はエラーチェーン内に指定モジュールの BatchError が含まれるかどうかを判定します。
// 失敗したステップの特定に使用します。
func IsFromModule(err error, module string) bool {
	for err != nil {
		be, ok := AsBatchError(err)
		if !ok {
			return false
		}
		if be.Module == module {
			return true
		}
		err = be.OriginalErr
	}
	return false
}
