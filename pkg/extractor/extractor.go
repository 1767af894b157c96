package extractor

import (
	"context"
	"time"

	"github.com/lifeatlas/lifeatlas/internal/logger"
	"github.com/lifeatlas/lifeatlas/pkg/domain"
	"github.com/lifeatlas/lifeatlas/pkg/llm"
)

// DefaultConfidenceThreshold is the confidence below which an accepted
// entity still flags the result for user confirmation.
const DefaultConfidenceThreshold = 75

// Config holds pipeline settings.
type Config struct {
	// ConfidenceThreshold drives the requiresConfirmation policy: the
	// result is flagged when any surviving entity scores below it.
	ConfidenceThreshold int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: DefaultConfidenceThreshold,
	}
}

// Option configures the extractor.
type Option func(*Config)

// WithConfidenceThreshold sets the confirmation threshold.
func WithConfidenceThreshold(n int) Option {
	return func(c *Config) {
		c.ConfidenceThreshold = n
	}
}

// Result is the outcome of one extraction call: the envelope plus
// provider attribution and usage metadata.
type Result struct {
	Envelope *domain.MultiEntityResult

	// Raw is the normalized provider output, kept for diagnostics.
	Raw string

	Provider string
	Model    string
	Usage    llm.Usage
	Duration time.Duration
}

// Extractor runs the request pipeline: compose prompt, call the
// generator (normally a fallback chain), parse the response. Each call
// is an independent stateless flow; concurrent calls share nothing.
type Extractor struct {
	gen    Generator
	config Config
	now    func() time.Time
}

// New creates an Extractor over the given generator.
func New(gen Generator, opts ...Option) *Extractor {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Extractor{
		gen:    gen,
		config: cfg,
		now:    time.Now,
	}
}

// Extract turns one utterance into an extraction envelope.
// Configuration, provider, and parse failures abort the call; there is
// never a partial envelope.
func (e *Extractor) Extract(ctx context.Context, input string, uc *domain.UserContext) (*Result, error) {
	now := e.now()

	logger.Debug("extraction starting",
		"generator", e.gen.Name(),
		"input_size", len(input))

	prompt := BuildPrompt(input, uc, now)

	gr, err := e.gen.Generate(ctx, SystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	envelope, err := ParseResult(gr.Content, input, now)
	if err != nil {
		logger.Debug("extraction parse failed", "provider", gr.Provider, "error", err)
		return nil, err
	}

	// Confirmation policy: the model's own flag is kept, and the
	// result is additionally flagged when any surviving entity scores
	// below the threshold or the model reported ambiguities.
	if e.needsConfirmation(envelope) {
		envelope.RequiresConfirmation = true
	}

	logger.Debug("extraction complete",
		"provider", gr.Provider,
		"entities", len(envelope.Entities),
		"requires_confirmation", envelope.RequiresConfirmation)

	return &Result{
		Envelope: envelope,
		Raw:      gr.Content,
		Provider: gr.Provider,
		Model:    gr.Model,
		Usage:    gr.Usage,
		Duration: gr.Duration,
	}, nil
}

func (e *Extractor) needsConfirmation(envelope *domain.MultiEntityResult) bool {
	if len(envelope.Ambiguities) > 0 {
		return true
	}
	for _, entity := range envelope.Entities {
		if entity.Confidence < e.config.ConfidenceThreshold {
			return true
		}
	}
	return false
}
