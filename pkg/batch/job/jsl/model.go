package jsl

// Job represents the top-level structure of a JSL file.
type Job struct {
	ID            string         `yaml:"id"`   // ジョブの起動・実行記録のキー
	Name          string         `yaml:"name"` // 表示名
	Description   string         `yaml:"description,omitempty"`
	Steps         []Step         `yaml:"steps"`                    // 宣言順に実行されます。空でも構いません。
	Listeners     []ComponentRef `yaml:"listeners,omitempty"`      // Job-level listeners
	StepListeners []ComponentRef `yaml:"step-listeners,omitempty"` // 全ステップに適用されるリスナー
	Incrementer   ComponentRef   `yaml:"incrementer,omitempty"`    // JobParametersIncrementer の参照
	Validator     *Validator     `yaml:"validator,omitempty"`
}

// Step represents a single processing unit within a job.
// このフレームワークのステップは Tasklet 指向のみです。
type Step struct {
	ID          string       `yaml:"id"`
	Description string       `yaml:"description,omitempty"`
	Tasklet     ComponentRef `yaml:"tasklet"`
}

// ComponentRef refers to a registered component (tasklet, listener, incrementer).
type ComponentRef struct {
	Ref        string            `yaml:"ref"`                  // The name/ID of the component (e.g., "parameterLoggingTasklet")
	Properties map[string]string `yaml:"properties,omitempty"` // JSLから注入されるプロパティ
}

// Validator は DefaultJobParametersValidator の設定です。
type Validator struct {
	RequiredKeys []string `yaml:"required-keys,omitempty"`
	OptionalKeys []string `yaml:"optional-keys,omitempty"`
}
