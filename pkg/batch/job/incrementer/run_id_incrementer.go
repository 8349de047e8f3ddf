package incrementer

import (
	"fmt"
	"math"
	"strconv"

	core "simplejob/pkg/batch/job/core"
	logger "simplejob/pkg/batch/util/logger"
)

// RunIDIncrementer はジョブパラメータに "run.id" を追加またはインクリメントする JobParametersIncrementer の実装です。
// "run.id" が存在しない (または整数でない、インクリメントで桁あふれする) 場合は 1 を設定し、存在する場合はその値をインクリメントします。
type RunIDIncrementer struct {
	name string
}

// NewRunIDIncrementer は新しい RunIDIncrementer のインスタンスを作成します。
func NewRunIDIncrementer(name string) *RunIDIncrementer {
	if name == "" {
		name = "run.id"
	}
	return &RunIDIncrementer{
		name: name,
	}
}

// GetNext は "run.id" を追加またはインクリメントした新しい JobParameters を返します。
func (i *RunIDIncrementer) GetNext(params core.JobParameters) core.JobParameters {
	current, ok := params.Get(i.name)
	if !ok {
		logger.Debugf("JobParametersIncrementer '%s': '%s' が見つからないため、1 を設定しました。", i, i.name)
		return params.With(i.name, "1")
	}

	currentRunID, err := strconv.ParseInt(current, 10, 64)
	if err != nil {
		logger.Warnf("JobParametersIncrementer '%s': '%s' の値 '%s' が整数ではないため、1 を設定しました。", i, i.name, current)
		return params.With(i.name, "1")
	}

	if currentRunID == math.MaxInt64 {
		logger.Warnf("JobParametersIncrementer '%s': '%s' の値 '%s' が上限に達しているため、1 を設定しました。", i, i.name, current)
		return params.With(i.name, "1")
	}

	next := strconv.FormatInt(currentRunID+1, 10)
	logger.Debugf("JobParametersIncrementer '%s': '%s' を %d から %s にインクリメントしました。", i, i.name, currentRunID, next)
	return params.With(i.name, next)
}

// String は RunIDIncrementer の文字列表現を返します。
func (i *RunIDIncrementer) String() string {
	return fmt.Sprintf("RunIDIncrementer[name=%s]", i.name)
}

var _ core.JobParametersIncrementer = (*RunIDIncrementer)(nil)
