// Package analysis produces narrative risk reports from validator output,
// using an LLM when one is configured and a deterministic summary otherwise.
package analysis

import (
	"context"
	"encoding/json"
	"math"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/llm"
)

// RiskAnalyzer turns a validation pass into a RiskReport. Implementations
// never fail because of the model: any LLM problem yields the
// deterministic report instead. A cancelled ctx is returned as an error.
type RiskAnalyzer interface {
	Analyze(ctx context.Context, in AnalysisInput) (*domain.RiskReport, error)
}

type llmAnalyzer struct {
	client llm.LLMClient
}

// NewRiskAnalyzer creates a RiskAnalyzer backed by an LLM client.
func NewRiskAnalyzer(client llm.LLMClient) RiskAnalyzer {
	return &llmAnalyzer{client: client}
}

func (a *llmAnalyzer) Analyze(ctx context.Context, in AnalysisInput) (*domain.RiskReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	traceJSON, err := json.MarshalIndent(BuildTrace(in), "", "  ")
	if err != nil {
		return DeterministicReport(in), nil
	}

	resp, err := a.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskRiskAnalysis,
		SystemPrompt: riskSystemPrompt,
		UserPrompt:   riskUserPromptPrefix + string(traceJSON),
		JSON:         true,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return DeterministicReport(in), nil
	}

	parsed, err := llm.ExtractJSON[riskResponse](resp.Text, nil)
	if err != nil {
		return DeterministicReport(in), nil
	}
	if err := validateResponse(&parsed, in); err != nil {
		return DeterministicReport(in), nil
	}

	rep := &domain.RiskReport{
		RiskScore: int(math.Round(parsed.RiskScore)),
		Summary:   parsed.Summary,
		Findings:  parsed.Findings,
		Source:    domain.SourceLLM,
		Model:     resp.Model,
	}
	if rep.Findings == nil {
		rep.Findings = []domain.RiskFinding{}
	}
	if in.Project != nil {
		rep.ProjectID = in.Project.ID
	}
	return rep, nil
}

type deterministicAnalyzer struct{}

// NewDeterministicAnalyzer returns a RiskAnalyzer that never calls a model.
func NewDeterministicAnalyzer() RiskAnalyzer {
	return deterministicAnalyzer{}
}

func (deterministicAnalyzer) Analyze(ctx context.Context, in AnalysisInput) (*domain.RiskReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DeterministicReport(in), nil
}
