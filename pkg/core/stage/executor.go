package stage

import (
	"context"
	"fmt"

	"company_research/pkg/core/utils"
)

// jsonOnlyInstruction is appended to every stage prompt. The backend has no
// other way to guarantee shape, so the contract is restated on every call.
const jsonOnlyInstruction = "You must respond with a single valid JSON object matching this shape. No other text or explanation should be included."

// PromptRunner executes an adapted prompt against the configured provider
// for a stage. *agent.Manager satisfies this.
type PromptRunner interface {
	ExecutePrompt(ctx context.Context, stage string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error)
}

// Executor is the LLM gateway for pipeline stages.
type Executor struct {
	runner PromptRunner
}

func NewExecutor(runner PromptRunner) *Executor {
	return &Executor{runner: runner}
}

// Execute runs one stage call: append the JSON-only instruction, request
// structured output, parse (code fences stripped, repair attempted), then
// validate against the stage schema. Backend transport errors come back
// as-is; shape problems come back as *SchemaViolation.
func (e *Executor) Execute(ctx context.Context, stageName string, prompt string, systemPrompt string, schema Schema) (map[string]interface{}, error) {
	fullPrompt := fmt.Sprintf("%s\n\n%s\n%s", prompt, jsonOnlyInstruction, schema.Describe())
	fullSystem := systemPrompt
	if fullSystem != "" {
		fullSystem += "\nYou must respond with valid JSON only."
	}

	options := map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	}

	raw, err := e.runner.ExecutePrompt(ctx, stageName, fullPrompt, fullSystem, options)
	if err != nil {
		return nil, fmt.Errorf("stage %s: backend call failed: %w", stageName, err)
	}

	var data map[string]interface{}
	if _, err := utils.SmartParse(raw, &data); err != nil {
		return nil, &SchemaViolation{Stage: stageName, Detail: fmt.Sprintf("unparseable response: %v", err)}
	}

	if err := schema.Validate(stageName, data); err != nil {
		return nil, err
	}
	return data, nil
}
