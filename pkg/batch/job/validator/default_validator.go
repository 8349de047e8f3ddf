package validator

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	core "simplejob/pkg/batch/job/core"
)

// DefaultJobParametersValidator は必須キーと任意キーに基づいて JobParameters を検証します。
// OptionalKeys が空の場合、必須キー以外のキーは自由に指定できます。
type DefaultJobParametersValidator struct {
	RequiredKeys []string
	OptionalKeys []string
}

var _ core.JobParametersValidator = (*DefaultJobParametersValidator)(nil)

// NewDefaultJobParametersValidator は新しい DefaultJobParametersValidator を作成します。
// 必須キーと任意キーが重複している場合はエラーを返します。
func NewDefaultJobParametersValidator(requiredKeys, optionalKeys []string) (*DefaultJobParametersValidator, error) {
	required := make(map[string]struct{}, len(requiredKeys))
	for _, k := range requiredKeys {
		required[k] = struct{}{}
	}
	for _, k := range optionalKeys {
		if _, ok := required[k]; ok {
			return nil, fmt.Errorf("キー '%s' が必須キーと任意キーの両方に指定されています", k)
		}
	}
	return &DefaultJobParametersValidator{
		RequiredKeys: append([]string(nil), requiredKeys...),
		OptionalKeys: append([]string(nil), optionalKeys...),
	}, nil
}

// Validate は全ての問題をまとめたエラーを返します。問題がなければ nil です。
func (v *DefaultJobParametersValidator) Validate(params core.JobParameters) error {
	var result *multierror.Error

	for _, k := range v.RequiredKeys {
		if !params.Has(k) {
			result = multierror.Append(result, fmt.Errorf("必須パラメータ '%s' が見つかりません", k))
		}
	}

	if len(v.OptionalKeys) > 0 {
		allowed := make(map[string]struct{}, len(v.RequiredKeys)+len(v.OptionalKeys))
		for _, k := range v.RequiredKeys {
			allowed[k] = struct{}{}
		}
		for _, k := range v.OptionalKeys {
			allowed[k] = struct{}{}
		}
		for _, k := range params.Keys() {
			if _, ok := allowed[k]; !ok {
				result = multierror.Append(result, fmt.Errorf("パラメータ '%s' は許可されていません", k))
			}
		}
	}

	return result.ErrorOrNil()
}
