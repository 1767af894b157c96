// Package extractor implements the extraction pipeline: prompt
// composition, provider orchestration with fallback, and response
// parsing into domain entities.
package extractor

import (
	"context"
	"time"

	"github.com/lifeatlas/lifeatlas/internal/logger"
	"github.com/lifeatlas/lifeatlas/pkg/llm"
)

// Generator produces raw model text for a prompt. It is the seam the
// fallback chain operates on: one Generator per backend, tried in
// order.
type Generator interface {
	// Generate runs one completion and tags the output with its
	// originating provider.
	Generate(ctx context.Context, system, prompt string) (*GenerateResult, error)

	// Name returns the backend identifier.
	Name() string

	// Available reports whether the backend has usable credentials.
	// Unavailable generators are skipped without a network attempt.
	Available() bool
}

// GenerateResult is raw model output plus provider attribution. The
// attribution is observability metadata only; content is
// provider-independent.
type GenerateResult struct {
	Content  string
	Provider string
	Model    string
	Usage    llm.Usage
	Duration time.Duration
}

// GeneratorConfig holds per-backend settings.
type GeneratorConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultGeneratorConfig returns sensible defaults for extraction.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Temperature: 0.1,
		MaxTokens:   4096,
		Timeout:     60 * time.Second,
	}
}

// providerGenerator adapts an llm.Provider to the Generator seam.
type providerGenerator struct {
	name     string
	provider llm.Provider
	cfg      GeneratorConfig
}

// NewGenerator builds a Generator for the named provider ("anthropic"
// or "openai"). A missing API key yields an unavailable generator, not
// an error, so a half-configured fallback chain still works.
func NewGenerator(providerName string, cfg GeneratorConfig) (Generator, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = llm.APIKeyFromEnv(providerName)
	}
	if apiKey == "" {
		return &providerGenerator{name: providerName, cfg: cfg}, nil
	}

	model := cfg.Model
	if model == "" {
		model = llm.GetDefaultModel(providerName)
	}

	provider, err := llm.NewProvider(providerName, llm.ProviderConfig{
		APIKey:  apiKey,
		BaseURL: cfg.BaseURL,
		Model:   model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return &providerGenerator{
		name:     providerName,
		provider: provider,
		cfg:      cfg,
	}, nil
}

func (g *providerGenerator) Generate(ctx context.Context, system, prompt string) (*GenerateResult, error) {
	if g.provider == nil {
		return nil, ErrNoProviderConfigured
	}

	logger.Debug("calling provider",
		"provider", g.name,
		"model", g.provider.Model(),
		"prompt_size", len(prompt))

	resp, err := g.provider.Execute(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, &ProviderFailure{
			Provider: g.name,
			Reason:   ClassifyFailure(err),
			Err:      err,
		}
	}

	logger.Debug("provider response received",
		"provider", g.name,
		"response_size", len(resp.Content),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"duration", resp.Duration)

	return &GenerateResult{
		Content:  resp.Content,
		Provider: g.name,
		Model:    resp.Model,
		Usage:    resp.Usage,
		Duration: resp.Duration,
	}, nil
}

func (g *providerGenerator) Name() string {
	return g.name
}

func (g *providerGenerator) Available() bool {
	return g.provider != nil
}
