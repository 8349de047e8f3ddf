package jsl

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"simplejob/pkg/batch/util/exception"
	logger "simplejob/pkg/batch/util/logger"
)

// Load は単一のJSL YAMLのバイトデータからジョブ定義をロードし、検証します。
func Load(data []byte) (Job, error) {
	var jobDef Job
	if err := yaml.Unmarshal(data, &jobDef); err != nil {
		return Job{}, exception.NewBatchError("jsl_loader", "JSL ファイルのパースに失敗しました", err)
	}
	if err := Validate(jobDef); err != nil {
		return Job{}, exception.NewBatchError("jsl_loader", fmt.Sprintf("JSL ジョブ '%s' の定義が不正です", jobDef.ID), err)
	}
	return jobDef, nil
}

// Validate はジョブ定義の問題を全て集めて一つのエラーとして返します。
func Validate(jobDef Job) error {
	var result *multierror.Error

	if jobDef.ID == "" {
		result = multierror.Append(result, fmt.Errorf("'id' が定義されていません"))
	}
	if jobDef.Name == "" {
		result = multierror.Append(result, fmt.Errorf("'name' が定義されていません"))
	}

	seenSteps := make(map[string]struct{}, len(jobDef.Steps))
	for i, s := range jobDef.Steps {
		if s.ID == "" {
			result = multierror.Append(result, fmt.Errorf("%d 番目のステップに 'id' が定義されていません", i+1))
		} else if _, dup := seenSteps[s.ID]; dup {
			result = multierror.Append(result, fmt.Errorf("ステップID '%s' が重複しています", s.ID))
		} else {
			seenSteps[s.ID] = struct{}{}
		}
		if s.Tasklet.Ref == "" {
			result = multierror.Append(result, fmt.Errorf("ステップ '%s' に 'tasklet.ref' が定義されていません", s.ID))
		}
	}

	result = appendDuplicateRefs(result, "listeners", jobDef.Listeners)
	result = appendDuplicateRefs(result, "step-listeners", jobDef.StepListeners)

	return result.ErrorOrNil()
}

func appendDuplicateRefs(result *multierror.Error, section string, refs []ComponentRef) *multierror.Error {
	seen := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		if r.Ref == "" {
			result = multierror.Append(result, fmt.Errorf("'%s' に 'ref' が空の要素があります", section))
			continue
		}
		if _, dup := seen[r.Ref]; dup {
			result = multierror.Append(result, fmt.Errorf("'%s' の '%s' が重複しています", section, r.Ref))
			continue
		}
		seen[r.Ref] = struct{}{}
	}
	return result
}

// Definitions はロード済みのジョブ定義をジョブIDで保持します。
type Definitions struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

// NewDefinitions は空の Definitions を作成します。
func NewDefinitions() *Definitions {
	return &Definitions{jobs: make(map[string]Job)}
}

// LoadFromBytes はJSL YAMLをロードして登録します。ジョブIDの重複はエラーになります。
func (d *Definitions) LoadFromBytes(data []byte) (Job, error) {
	jobDef, err := Load(data)
	if err != nil {
		return Job{}, err
	}
	if err := d.Register(jobDef); err != nil {
		return Job{}, err
	}
	return jobDef, nil
}

// Register は検証済みのジョブ定義を登録します。
func (d *Definitions) Register(jobDef Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.jobs[jobDef.ID]; exists {
		return exception.NewBatchErrorf("jsl_loader", "JSL ジョブID '%s' が重複しています", jobDef.ID)
	}
	d.jobs[jobDef.ID] = jobDef
	logger.Infof("JSL ジョブ '%s' をロードしました。ステップ数: %d", jobDef.ID, len(jobDef.Steps))
	return nil
}

// Get はジョブIDで定義を取得します。
func (d *Definitions) Get(jobID string) (Job, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	job, ok := d.jobs[jobID]
	return job, ok
}

// Count はロード済みのジョブ定義数を返します。
func (d *Definitions) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.jobs)
}

// JobIDs はロード済みのジョブIDをソートして返します。
func (d *Definitions) JobIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.jobs))
	for id := range d.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
