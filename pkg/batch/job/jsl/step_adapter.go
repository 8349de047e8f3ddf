package jsl

import (
	"fmt"

	core "simplejob/pkg/batch/job/core"
	step "simplejob/pkg/batch/step"
	"simplejob/pkg/batch/util/exception"
	logger "simplejob/pkg/batch/util/logger"
)

// TaskletResolver は JSL のステップ定義から Tasklet を生成します。
type TaskletResolver func(stepDef Step) (core.Tasklet, error)

// ConvertJSLToCoreSteps は JSL のステップ定義を宣言順の core.Step に変換します。
func ConvertJSLToCoreSteps(steps []Step, resolve TaskletResolver) ([]core.Step, error) {
	coreSteps := make([]core.Step, 0, len(steps))
	for _, stepDef := range steps {
		tasklet, err := resolve(stepDef)
		if err != nil {
			return nil, exception.NewBatchError("jsl_adapter", fmt.Sprintf("ステップ '%s' の Tasklet '%s' の生成に失敗しました", stepDef.ID, stepDef.Tasklet.Ref), err)
		}
		taskletStep, err := step.NewTaskletStep(stepDef.ID, tasklet)
		if err != nil {
			return nil, err
		}
		coreSteps = append(coreSteps, taskletStep)
		logger.Debugf("JSL ステップ '%s' を Taskletステップ (ref: %s) に変換しました。", stepDef.ID, stepDef.Tasklet.Ref)
	}
	return coreSteps, nil
}
