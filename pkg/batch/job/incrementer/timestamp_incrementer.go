package incrementer

import (
	"fmt"
	"strconv"
	"time"

	core "simplejob/pkg/batch/job/core"
	logger "simplejob/pkg/batch/util/logger"
)

// TimestampIncrementer はジョブパラメータに現在時刻の Unix ミリ秒を設定する JobParametersIncrementer の実装です。
type TimestampIncrementer struct {
	name string
	now  func() time.Time
}

// NewTimestampIncrementer は新しい TimestampIncrementer のインスタンスを作成します。
func NewTimestampIncrementer(name string) *TimestampIncrementer {
	if name == "" {
		name = "timestamp"
	}
	return &TimestampIncrementer{
		name: name,
		now:  time.Now,
	}
}

// GetNext は "timestamp" を追加または更新した新しい JobParameters を返します。
func (i *TimestampIncrementer) GetNext(params core.JobParameters) core.JobParameters {
	timestamp := i.now().UnixMilli()
	logger.Debugf("JobParametersIncrementer '%s': '%s' を %d に設定しました。", i, i.name, timestamp)
	return params.With(i.name, strconv.FormatInt(timestamp, 10))
}

// String は TimestampIncrementer の文字列表現を返します。
func (i *TimestampIncrementer) String() string {
	return fmt.Sprintf("TimestampIncrementer[name=%s]", i.name)
}

var _ core.JobParametersIncrementer = (*TimestampIncrementer)(nil)
