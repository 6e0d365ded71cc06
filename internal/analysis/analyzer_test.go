package analysis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLMClient struct {
	response string
	err      error
	lastReq  llm.GenerateRequest
	cancel   context.CancelFunc // called mid-request; the request then fails with ctx.Err()
}

func (m *mockLLMClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.lastReq = req
	if m.cancel != nil {
		m.cancel()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "llama3.2"}, nil
}

func (m *mockLLMClient) Available(context.Context) bool { return m.err == nil }

func testInput() AnalysisInput {
	return AnalysisInput{
		Project: &domain.Project{ID: "p1", Name: "Okul", Location: "Konya"},
		Items: []domain.LineItem{
			{ID: "i1", PozCode: "15.150.1005", Unit: "m3", Category: domain.CategoryConcrete, TotalQuantity: 5, ComputedQuantity: 3.6},
			{ID: "i2", PozCode: "Y.16.050", Unit: "m2", Category: domain.CategoryFormwork, TotalQuantity: 12, ComputedQuantity: 12},
		},
		Findings: []domain.Finding{
			{ItemID: "i1", PozCode: "15.150.1005", Rule: domain.RuleCalculationMismatch, Severity: domain.SeverityCritical,
				Message: "Girilen miktar (5) hesaplanan miktardan (3.6) farklı."},
		},
	}
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestAnalyze_ValidLLMResponse(t *testing.T) {
	client := &mockLLMClient{response: "```json\n" + marshal(t, map[string]any{
		"risk_score": 42,
		"summary":    "One concrete item is over-entered.",
		"findings": []map[string]any{
			{"title": "Kolon betonu 15.150.1005", "severity": "critical", "detail": "Re-measure the columns."},
		},
	}) + "\n```"}

	rep, err := NewRiskAnalyzer(client).Analyze(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, domain.SourceLLM, rep.Source)
	assert.Equal(t, "llama3.2", rep.Model)
	assert.Equal(t, "p1", rep.ProjectID)
	assert.Equal(t, 42, rep.RiskScore)
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, domain.SeverityCritical, rep.Findings[0].Severity, "severity is normalized")

	assert.Equal(t, llm.TaskRiskAnalysis, client.lastReq.Task)
	assert.True(t, client.lastReq.JSON)
	assert.Contains(t, client.lastReq.UserPrompt, "15.150.1005")
	assert.Contains(t, client.lastReq.UserPrompt, `"computed_quantity": 3.6`)
}

func TestAnalyze_FallbackWhenLLMDown(t *testing.T) {
	client := &mockLLMClient{err: llm.ErrUnavailable}
	in := testInput()

	rep, err := NewRiskAnalyzer(client).Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceDeterministic, rep.Source)
	assert.Equal(t, 25, rep.RiskScore)
	assert.Empty(t, rep.Model)
}

func TestAnalyze_FallbackOnGarbage(t *testing.T) {
	client := &mockLLMClient{response: "I am unable to help with that."}
	rep, err := NewRiskAnalyzer(client).Analyze(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, domain.SourceDeterministic, rep.Source)
}

func TestAnalyze_FallbackWhenScoreOutOfRange(t *testing.T) {
	client := &mockLLMClient{response: `{"risk_score": 140, "summary": "x", "findings": [{"title":"15.150.1005","severity":"CRITICAL","detail":""}]}`}
	rep, err := NewRiskAnalyzer(client).Analyze(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, domain.SourceDeterministic, rep.Source)
}

func TestAnalyze_FallbackWhenCriticalDropped(t *testing.T) {
	client := &mockLLMClient{response: `{"risk_score": 5, "summary": "All good.", "findings": []}`}
	rep, err := NewRiskAnalyzer(client).Analyze(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, domain.SourceDeterministic, rep.Source)
}

func TestAnalyze_FallbackWhenCriticalInvented(t *testing.T) {
	in := testInput()
	in.Findings = nil
	client := &mockLLMClient{response: `{"risk_score": 80, "summary": "Danger.", "findings": [{"title":"Made up","severity":"CRITICAL","detail":""}]}`}

	rep, err := NewRiskAnalyzer(client).Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceDeterministic, rep.Source)
	assert.Equal(t, 0, rep.RiskScore)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRiskAnalyzer(&mockLLMClient{}).Analyze(ctx, testInput())
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewDeterministicAnalyzer().Analyze(ctx, testInput())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_CancelledDuringGenerate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rep, err := NewRiskAnalyzer(&mockLLMClient{cancel: cancel}).Analyze(ctx, testInput())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, rep)
}

func TestDeterministicAnalyzer(t *testing.T) {
	rep, err := NewDeterministicAnalyzer().Analyze(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, domain.SourceDeterministic, rep.Source)
	assert.Equal(t, "p1", rep.ProjectID)
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, "Quantity mismatch: 15.150.1005", rep.Findings[0].Title)
}
