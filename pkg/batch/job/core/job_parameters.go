package core

import (
	"fmt"
	"sort"
	"strings"
)

// JobParameters はジョブ起動時に一度だけ渡される不変のパラメータです。
// キーは一意で、値はすべて文字列として扱います (解釈はステップ側に任せる)。
// ゼロ値は空のパラメータとして利用できます。
type JobParameters struct {
	params map[string]string
}

// NewJobParameters は与えられたマップをコピーして JobParameters を作成します。
// 呼び出し元がマップを後から変更しても影響を受けません。
func NewJobParameters(params map[string]string) JobParameters {
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return JobParameters{params: copied}
}

// ParseJobParameters は "key=value" 形式のコマンドライン引数から JobParameters を作成します。
// 値は不透明な文字列としてそのまま保持し、空文字列や "=" を含む値も許容します。
func ParseJobParameters(args []string) (JobParameters, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return JobParameters{}, fmt.Errorf("パラメータ '%s' は key=value 形式ではありません", arg)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return JobParameters{}, fmt.Errorf("パラメータ '%s' のキーが空です", arg)
		}
		if _, dup := params[key]; dup {
			return JobParameters{}, fmt.Errorf("パラメータ '%s' が重複しています", key)
		}
		params[key] = value
	}
	return JobParameters{params: params}, nil
}

// Get は指定されたキーの値を返します。キーが存在しない場合は "" と false を返します。
func (p JobParameters) Get(key string) (string, bool) {
	v, ok := p.params[key]
	return v, ok
}

// GetString は指定されたキーの値を返します。存在しないキーは空文字列として扱います。
func (p JobParameters) GetString(key string) string {
	return p.params[key]
}

// Has はキーが存在するかどうかを返します。
func (p JobParameters) Has(key string) bool {
	_, ok := p.params[key]
	return ok
}

// Len はパラメータ数を返します。
func (p JobParameters) Len() int {
	return len(p.params)
}

// Keys はソート済みのキー一覧を返します。
func (p JobParameters) Keys() []string {
	keys := make([]string, 0, len(p.params))
	for k := range p.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToMap はパラメータのコピーを返します。
func (p JobParameters) ToMap() map[string]string {
	copied := make(map[string]string, len(p.params))
	for k, v := range p.params {
		copied[k] = v
	}
	return copied
}

// With は key=value を追加 (または上書き) した新しい JobParameters を返します。レシーバは変更しません。
func (p JobParameters) With(key, value string) JobParameters {
	copied := p.ToMap()
	copied[key] = value
	return JobParameters{params: copied}
}

// Merge は other の値で上書きした新しい JobParameters を返します。
func (p JobParameters) Merge(other JobParameters) JobParameters {
	copied := p.ToMap()
	for k, v := range other.params {
		copied[k] = v
	}
	return JobParameters{params: copied}
}

// Equal は二つの JobParameters が同じ内容かどうかを返します。
func (p JobParameters) Equal(other JobParameters) bool {
	if len(p.params) != len(other.params) {
		return false
	}
	for k, v := range p.params {
		if ov, ok := other.params[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// String は "{k1=v1, k2=v2}" 形式 (キー順) の文字列表現を返します。
func (p JobParameters) String() string {
	pairs := make([]string, 0, len(p.params))
	for _, k := range p.Keys() {
		pairs = append(pairs, k+"="+p.params[k])
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
