package llm

import "time"

// TaskType identifies the kind of LLM task being performed.
type TaskType string

// TaskRiskAnalysis turns validator output into a narrative risk report.
const TaskRiskAnalysis TaskType = "risk_analysis"

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides LLMConfig.TimeoutMs when > 0
}

// LLMConfig configures the model client. The model is off unless Enabled.
type LLMConfig struct {
	Enabled        bool
	LogCalls       bool
	Endpoint       string
	Model          string
	TimeoutMs      int
	MaxRetries     int
	RetryBackoffMs int // wait before the first retry, doubled for each later one
	Tasks          map[TaskType]TaskConfig
}

func DefaultConfig() LLMConfig {
	return LLMConfig{
		Endpoint:       "http://localhost:11434",
		Model:          "llama3.2",
		TimeoutMs:      30000,
		MaxRetries:     1,
		RetryBackoffMs: 250,
		Tasks: map[TaskType]TaskConfig{
			TaskRiskAnalysis: {Temperature: 0.2, MaxTokens: 2048},
		},
	}
}

// TaskTimeout is the per-attempt deadline for task.
func (c LLMConfig) TaskTimeout(task TaskType) time.Duration {
	ms := c.TimeoutMs
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		ms = tc.TimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}

// backoff is the wait before retry number n (1-based).
func (c LLMConfig) backoff(n int) time.Duration {
	if c.RetryBackoffMs <= 0 || n < 1 {
		return 0
	}
	return time.Duration(c.RetryBackoffMs) * time.Millisecond << (n - 1)
}
