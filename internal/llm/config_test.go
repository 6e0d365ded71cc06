package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_DisabledWithRiskTask(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "http://localhost:11434", cfg.Endpoint)
	assert.Contains(t, cfg.Tasks, TaskRiskAnalysis)
	assert.InDelta(t, 0.2, cfg.Tasks[TaskRiskAnalysis].Temperature, 1e-9)
}

func TestTaskTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 30*time.Second, cfg.TaskTimeout(TaskRiskAnalysis))
	assert.Equal(t, 30*time.Second, cfg.TaskTimeout("unknown"))

	cfg.Tasks[TaskRiskAnalysis] = TaskConfig{TimeoutMs: 1500}
	assert.Equal(t, 1500*time.Millisecond, cfg.TaskTimeout(TaskRiskAnalysis))
}

func TestBackoff_Doubles(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Duration(0), cfg.backoff(0))
	assert.Equal(t, 250*time.Millisecond, cfg.backoff(1))
	assert.Equal(t, 500*time.Millisecond, cfg.backoff(2))
	assert.Equal(t, time.Second, cfg.backoff(3))

	cfg.RetryBackoffMs = 0
	assert.Equal(t, time.Duration(0), cfg.backoff(2))
}
