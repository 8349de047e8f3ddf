package incrementer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	core "simplejob/pkg/batch/job/core"
)

func TestRunIDIncrementer_GetNext(t *testing.T) {
	tests := []struct {
		name     string
		incrName string
		input    map[string]string
		key      string
		expected string
	}{
		{name: "Absent run.id starts at 1", input: nil, key: "run.id", expected: "1"},
		{name: "Existing run.id is incremented", input: map[string]string{"run.id": "41"}, key: "run.id", expected: "42"},
		{name: "Non-integer run.id restarts at 1", input: map[string]string{"run.id": "abc"}, key: "run.id", expected: "1"},
		{name: "Max int64 run.id restarts at 1", input: map[string]string{"run.id": "9223372036854775807"}, key: "run.id", expected: "1"},
		{name: "Out of range run.id restarts at 1", input: map[string]string{"run.id": "9223372036854775808"}, key: "run.id", expected: "1"},
		{name: "Custom key name", incrName: "attempt", input: map[string]string{"attempt": "2"}, key: "attempt", expected: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := core.NewJobParameters(tt.input)
			next := NewRunIDIncrementer(tt.incrName).GetNext(params)

			assert.Equal(t, tt.expected, next.GetString(tt.key))
			// 入力は変更されない
			assert.True(t, params.Equal(core.NewJobParameters(tt.input)))
		})
	}
}

func TestTimestampIncrementer_GetNext(t *testing.T) {
	fixed := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	incr := NewTimestampIncrementer("")
	incr.now = func() time.Time { return fixed }

	params := core.NewJobParameters(map[string]string{"requestDate": "2023-01-01"})
	next := incr.GetNext(params)

	assert.Equal(t, "1672531200000", next.GetString("timestamp"))
	assert.Equal(t, "2023-01-01", next.GetString("requestDate"))
	assert.False(t, params.Has("timestamp"))
	assert.Equal(t, "TimestampIncrementer[name=timestamp]", incr.String())
}
