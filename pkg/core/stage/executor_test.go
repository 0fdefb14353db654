package stage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type mockRunner struct {
	response string
	err      error
	prompt   string
	system   string
	options  map[string]interface{}
}

func (m *mockRunner) ExecutePrompt(ctx context.Context, stage string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	m.prompt = rawPrompt
	m.system = rawSystemPrompt
	m.options = options
	return m.response, m.err
}

var analysisSchema = Schema{
	"financial_health":     String,
	"market_position":      String,
	"growth_potential":     String,
	"key_metrics_analysis": String,
}

func TestExecute_ValidResponse(t *testing.T) {
	runner := &mockRunner{
		response: `{"financial_health":"strong","market_position":"leader","growth_potential":"high","key_metrics_analysis":"healthy margins"}`,
	}
	exec := NewExecutor(runner)

	data, err := exec.Execute(context.Background(), "analyze", "Analyze this company.", "You are a financial analyst.", analysisSchema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Str(data, "financial_health") != "strong" {
		t.Errorf("financial_health = %q", Str(data, "financial_health"))
	}

	// The gateway must append the JSON-only contract and request JSON mode.
	if !strings.Contains(runner.prompt, "single valid JSON object") {
		t.Error("prompt missing the JSON-only instruction")
	}
	if !strings.Contains(runner.prompt, "financial_health") {
		t.Error("prompt missing the schema skeleton")
	}
	format, _ := runner.options["response_format"].(map[string]interface{})
	if format["type"] != "json_object" {
		t.Error("structured output mode not requested")
	}
}

func TestExecute_FencedResponse(t *testing.T) {
	runner := &mockRunner{
		response: "```json\n{\"risks\": [\"competition\", \"regulation\"]}\n```",
	}
	exec := NewExecutor(runner)

	data, err := exec.Execute(context.Background(), "risk", "p", "s", Schema{"risks": StringList})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	risks := StrList(data, "risks")
	if len(risks) != 2 || risks[0] != "competition" {
		t.Errorf("risks = %v", risks)
	}
}

func TestExecute_ProseResponseIsSchemaViolation(t *testing.T) {
	runner := &mockRunner{
		response: "I'm sorry, I cannot produce a structured response for that company.",
	}
	exec := NewExecutor(runner)

	_, err := exec.Execute(context.Background(), "plan", "p", "s", Schema{"risk_factors": StringList})
	var violation *SchemaViolation
	if !errors.As(err, &violation) {
		t.Fatalf("expected *SchemaViolation, got %v", err)
	}
	if violation.Stage != "plan" {
		t.Errorf("stage = %q", violation.Stage)
	}
}

func TestExecute_MissingKeyIsSchemaViolation(t *testing.T) {
	runner := &mockRunner{
		response: `{"financial_health":"ok","market_position":"ok","growth_potential":"ok"}`,
	}
	exec := NewExecutor(runner)

	_, err := exec.Execute(context.Background(), "analyze", "p", "s", analysisSchema)
	var violation *SchemaViolation
	if !errors.As(err, &violation) {
		t.Fatalf("expected *SchemaViolation, got %v", err)
	}
	if !strings.Contains(violation.Detail, "key_metrics_analysis") {
		t.Errorf("detail should name the missing key: %s", violation.Detail)
	}
}

func TestExecute_WrongTypeIsSchemaViolation(t *testing.T) {
	runner := &mockRunner{
		response: `{"risks": "not a list"}`,
	}
	exec := NewExecutor(runner)

	_, err := exec.Execute(context.Background(), "risk", "p", "s", Schema{"risks": StringList})
	var violation *SchemaViolation
	if !errors.As(err, &violation) {
		t.Fatalf("expected *SchemaViolation, got %v", err)
	}
}

func TestExecute_BackendErrorIsNotViolation(t *testing.T) {
	runner := &mockRunner{err: errors.New("connection refused")}
	exec := NewExecutor(runner)

	_, err := exec.Execute(context.Background(), "plan", "p", "s", Schema{"risks": StringList})
	if err == nil {
		t.Fatal("expected error")
	}
	var violation *SchemaViolation
	if errors.As(err, &violation) {
		t.Error("transport errors must not be classified as schema violations")
	}
}

func TestSchemaValidate_StringMap(t *testing.T) {
	schema := Schema{"financial_metrics": StringMap}

	ok := map[string]interface{}{
		"financial_metrics": map[string]interface{}{"revenue": "$94 billion", "pe": 28.5},
	}
	if err := schema.Validate("report", ok); err != nil {
		t.Errorf("scalar values should be tolerated: %v", err)
	}

	bad := map[string]interface{}{
		"financial_metrics": map[string]interface{}{"nested": map[string]interface{}{"x": 1}},
	}
	if err := schema.Validate("report", bad); err == nil {
		t.Error("nested objects should fail validation")
	}
}
