package extractor

import (
	"context"
	"strings"

	"github.com/lifeatlas/lifeatlas/internal/logger"
)

// FallbackGenerator tries each backend in order until one succeeds.
// Attempts are strictly sequential, never raced in parallel, to bound
// external cost: the secondary is contacted only after the primary has
// failed. There is no retry loop on top of the chain; a quota or
// rate-limit response triggers fallback, not repetition.
type FallbackGenerator struct {
	generators []Generator
}

// NewFallback creates a fallback chain from the given generators,
// tried in order.
func NewFallback(generators ...Generator) *FallbackGenerator {
	return &FallbackGenerator{generators: generators}
}

// Generate tries each available generator in order. With no available
// generator it fails fast with ErrNoProviderConfigured before any
// network call. When every attempt fails it returns an
// AggregateFailure naming each provider's classified reason.
func (f *FallbackGenerator) Generate(ctx context.Context, system, prompt string) (*GenerateResult, error) {
	var failures []*ProviderFailure

	for _, gen := range f.generators {
		if !gen.Available() {
			logger.Debug("skipping unconfigured provider", "provider", gen.Name())
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := gen.Generate(ctx, system, prompt)
		if err == nil {
			return result, nil
		}

		pf, ok := err.(*ProviderFailure)
		if !ok {
			pf = &ProviderFailure{Provider: gen.Name(), Reason: ClassifyFailure(err), Err: err}
		}
		logger.Warn("provider failed, trying next",
			"provider", pf.Provider,
			"reason", string(pf.Reason),
			"error", pf.Err)
		failures = append(failures, pf)
	}

	if len(failures) == 0 {
		return nil, ErrNoProviderConfigured
	}
	return nil, &AggregateFailure{Failures: failures}
}

// Name returns the chain's composite identifier.
func (f *FallbackGenerator) Name() string {
	names := make([]string, 0, len(f.generators))
	for _, gen := range f.generators {
		names = append(names, gen.Name())
	}
	return "fallback(" + strings.Join(names, "->") + ")"
}

// Available returns true if at least one backend is configured.
func (f *FallbackGenerator) Available() bool {
	for _, gen := range f.generators {
		if gen.Available() {
			return true
		}
	}
	return false
}

var _ Generator = (*FallbackGenerator)(nil)
