package component

import (
	config "simplejob/pkg/batch/config"
	core "simplejob/pkg/batch/job/core"
)

// TaskletBuilder は、JSL の tasklet.ref に対応する Tasklet を生成するための関数型です。
// 依存関係 (config, reporter, properties) を受け取り、ジョブ起動ごとに新しい Tasklet を返します。
type TaskletBuilder func(cfg *config.Config, reporter core.Reporter, properties map[string]string) (core.Tasklet, error)

// ReporterProvider はステップごとの Reporter を生成するための関数型です。
type ReporterProvider func(jobName, stepName string) core.Reporter
