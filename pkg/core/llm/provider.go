package llm

import (
	"context"
)

// Provider is the interface for all generative text backends. The pipeline
// treats every backend as untrusted: it asks for JSON but validates whatever
// comes back.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms raw instructions into model-specific formats
	AdaptInstructions(rawInstructions string) string
}

// WantsJSON reports whether the caller requested structured (JSON object)
// output via the shared response_format option.
func WantsJSON(options map[string]interface{}) bool {
	val, ok := options["response_format"].(map[string]interface{})
	return ok && val["type"] == "json_object"
}
