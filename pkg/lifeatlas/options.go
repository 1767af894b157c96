// Package lifeatlas provides the public API for the natural-language
// entity extraction and domain routing engine.
package lifeatlas

import (
	"time"

	"github.com/lifeatlas/lifeatlas/pkg/extractor"
)

// Config holds all engine configuration.
type Config struct {
	// Provider chain: the primary is tried first, the secondary only
	// after a primary failure.
	PrimaryProvider   string
	SecondaryProvider string

	// PrimaryModel and SecondaryModel override each provider's
	// default model.
	PrimaryModel   string
	SecondaryModel string

	// Completion settings shared by both providers.
	Temperature float64
	MaxTokens   int

	// Timeout bounds each individual provider attempt.
	Timeout time.Duration

	// ConfidenceThreshold drives the requiresConfirmation policy.
	ConfidenceThreshold int

	// Generator, when set, replaces the provider chain entirely.
	// Intended for embedding and tests.
	Generator extractor.Generator
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PrimaryProvider:     "anthropic",
		SecondaryProvider:   "openai",
		Temperature:         0.1,
		MaxTokens:           4096,
		Timeout:             60 * time.Second,
		ConfidenceThreshold: extractor.DefaultConfidenceThreshold,
	}
}

// Option configures the engine.
type Option func(*Config)

// WithPrimary sets the primary provider and its model. An empty model
// keeps the provider default.
func WithPrimary(provider, model string) Option {
	return func(c *Config) {
		c.PrimaryProvider = provider
		c.PrimaryModel = model
	}
}

// WithSecondary sets the fallback provider and its model.
func WithSecondary(provider, model string) Option {
	return func(c *Config) {
		c.SecondaryProvider = provider
		c.SecondaryModel = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithMaxTokens sets the maximum output tokens per attempt.
func WithMaxTokens(n int) Option {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// WithTimeout sets the per-attempt provider timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithConfidenceThreshold sets the confirmation threshold.
func WithConfidenceThreshold(n int) Option {
	return func(c *Config) {
		c.ConfidenceThreshold = n
	}
}

// WithGenerator injects a custom generator, bypassing provider setup.
func WithGenerator(gen extractor.Generator) Option {
	return func(c *Config) {
		c.Generator = gen
	}
}
