package lifeatlas

import (
	"context"
	"time"

	"github.com/lifeatlas/lifeatlas/pkg/domain"
	"github.com/lifeatlas/lifeatlas/pkg/extractor"
	"github.com/lifeatlas/lifeatlas/pkg/llm"
	"github.com/lifeatlas/lifeatlas/pkg/router"
)

// Result is the outcome of a full pipeline run: the extraction
// envelope plus the routing partition after duplicate suppression.
type Result struct {
	// Extraction is the envelope as parsed from the model response.
	Extraction *domain.MultiEntityResult

	// Routing holds accepted (enriched, deduplicated) entities and
	// conflicts awaiting user resolution. Retrieval entities appear in
	// Queries instead; satisfying them is the caller's job.
	Routing domain.RoutingResult

	// Queries are retrieval pseudo-entities split out of the routed set.
	Queries []domain.ExtractedEntity

	// Provider attribution and usage, for observability only.
	Provider string
	Model    string
	Usage    llm.Usage
	Duration time.Duration
}

// Engine is the entry point for extraction and routing. It is
// stateless per call and safe for concurrent use.
type Engine struct {
	extractor *extractor.Extractor
	config    Config
}

// New creates an Engine. With no injected generator it assembles the
// primary/secondary provider chain from config and environment keys;
// a missing key makes that provider unavailable rather than failing
// here, so credential errors surface as a fast configuration error at
// call time.
func New(opts ...Option) (*Engine, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	gen := cfg.Generator
	if gen == nil {
		base := extractor.GeneratorConfig{
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}

		primaryCfg := base
		primaryCfg.Model = cfg.PrimaryModel
		primary, err := extractor.NewGenerator(cfg.PrimaryProvider, primaryCfg)
		if err != nil {
			return nil, err
		}

		secondaryCfg := base
		secondaryCfg.Model = cfg.SecondaryModel
		secondary, err := extractor.NewGenerator(cfg.SecondaryProvider, secondaryCfg)
		if err != nil {
			return nil, err
		}

		gen = extractor.NewFallback(primary, secondary)
	}

	return &Engine{
		extractor: extractor.New(gen,
			extractor.WithConfidenceThreshold(cfg.ConfidenceThreshold)),
		config: cfg,
	}, nil
}

// Available reports whether at least one provider is configured.
func (e *Engine) Available() bool {
	if gen := e.config.Generator; gen != nil {
		return gen.Available()
	}
	// The fallback chain inside the extractor answers this, but the
	// engine does not reach into it; rebuild the answer from env.
	return llm.HasAPIKey(e.config.PrimaryProvider) || llm.HasAPIKey(e.config.SecondaryProvider)
}

// Extract turns one utterance into an extraction envelope without
// routing it. Most callers want Process instead.
func (e *Engine) Extract(ctx context.Context, input string, uc *domain.UserContext) (*extractor.Result, error) {
	return e.extractor.Extract(ctx, input, uc)
}

// Process runs the full pipeline: extract, route every entity through
// its domain's validation and enrichment, then suppress same-domain
// duplicates. Per-entity validation failures land in
// Routing.Conflicts; they never fail the call.
func (e *Engine) Process(ctx context.Context, input string, uc *domain.UserContext) (*Result, error) {
	res, err := e.extractor.Extract(ctx, input, uc)
	if err != nil {
		return nil, err
	}

	// Anchor enrichment to the extraction timestamp so the routed
	// records and the envelope agree on "now".
	now, err := time.Parse(time.RFC3339, res.Envelope.Timestamp)
	if err != nil {
		now = time.Now()
	}

	routing := router.Route(res.Envelope.Entities, now)
	routing.RoutedEntities = router.Dedupe(routing.RoutedEntities)

	var queries []domain.ExtractedEntity
	kept := routing.RoutedEntities[:0]
	for _, entity := range routing.RoutedEntities {
		if entity.Domain == domain.Retrieval {
			queries = append(queries, entity)
			continue
		}
		kept = append(kept, entity)
	}
	routing.RoutedEntities = kept

	return &Result{
		Extraction: res.Envelope,
		Routing:    routing,
		Queries:    queries,
		Provider:   res.Provider,
		Model:      res.Model,
		Usage:      res.Usage,
		Duration:   res.Duration,
	}, nil
}
