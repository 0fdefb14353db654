// Package agent wires pipeline stages to concrete LLM providers based on
// configuration (config/models.yaml).
package agent

import (
	"context"
	"fmt"

	"company_research/pkg/core/llm"
)

type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Stages         map[string]StageConfig `yaml:"stages"`
}

type StageConfig struct {
	Provider    string `yaml:"provider"` // Optional override
	Model       string `yaml:"model"`    // Optional model override
	Description string `yaml:"description"`
}

type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	if config.ActiveProvider == "" {
		config.ActiveProvider = "gemini"
	}
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"openai":   &llm.OpenAIProvider{},
			"gemini":   &llm.GeminiProvider{},
			"deepseek": &llm.DeepSeekProvider{},
			"qwen":     &llm.QwenProvider{},
		},
	}
}

// GetProvider resolves the provider for a stage: stage override first, then
// the global active provider, then gemini.
func (m *Manager) GetProvider(stage string) llm.Provider {
	if stageCfg, ok := m.config.Stages[stage]; ok && stageCfg.Provider != "" {
		if p, ok := m.providers[stageCfg.Provider]; ok {
			return p
		}
	}
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}
	return m.providers["gemini"]
}

// ExecutePrompt handles instruction adaptation before sending to the model.
// Stage-level model overrides from config are merged into options unless the
// caller already set one.
func (m *Manager) ExecutePrompt(ctx context.Context, stage string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(stage)

	if options == nil {
		options = map[string]interface{}{}
	}
	if stageCfg, ok := m.config.Stages[stage]; ok && stageCfg.Model != "" {
		if _, set := options["model"]; !set {
			options["model"] = stageCfg.Model
		}
	}

	adaptedSystemPrompt := provider.AdaptInstructions(rawSystemPrompt)
	return provider.GenerateResponse(ctx, rawPrompt, adaptedSystemPrompt, options)
}

func (m *Manager) SetGlobalProvider(newProvider string) error {
	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	return nil
}

func (m *Manager) GetActiveProvider() string {
	return m.config.ActiveProvider
}
