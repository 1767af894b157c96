package extractor

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lifeatlas/lifeatlas/internal/logger"
	"github.com/lifeatlas/lifeatlas/pkg/domain"
)

// MinConfidence is the floor below which extracted entities are
// discarded before they ever reach the router.
const MinConfidence = 50

// wireEnvelope mirrors the JSON contract given to the model. Entities
// stays raw so a missing or mistyped array is distinguishable from an
// empty one.
type wireEnvelope struct {
	Entities             json.RawMessage `json:"entities"`
	RequiresConfirmation bool            `json:"requiresConfirmation"`
	Ambiguities          []string        `json:"ambiguities"`
}

// wireEntity is one entity as the model emits it. The validate tags
// define envelope completeness: an entity failing them is model noise
// and is dropped silently, unlike domain-rule failures which are
// reported as conflicts downstream.
type wireEntity struct {
	Domain      string         `json:"domain" validate:"required"`
	Confidence  int            `json:"confidence"`
	Title       string         `json:"title" validate:"required"`
	RawText     string         `json:"rawText" validate:"required"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data" validate:"required"`
}

var wireValidate = validator.New()

// ParseResult parses normalized provider output into the extraction
// envelope. Envelope-level structure is strict: invalid JSON or a
// missing entities array fails the whole call with a *ParseError.
// Per-entity structure is lenient: incomplete entities are dropped,
// and entities below MinConfidence are filtered here.
func ParseResult(raw, input string, now time.Time) (*domain.MultiEntityResult, error) {
	cleaned := StripMarkdownCodeBlock(raw)

	var env wireEnvelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return nil, &ParseError{Msg: "response is not valid JSON", Err: err}
	}
	if len(env.Entities) == 0 || string(env.Entities) == "null" {
		return nil, &ParseError{Msg: "response envelope has no entities array"}
	}

	var rawEntities []json.RawMessage
	if err := json.Unmarshal(env.Entities, &rawEntities); err != nil {
		return nil, &ParseError{Msg: "entities is not an array", Err: err}
	}

	entities := make([]domain.ExtractedEntity, 0, len(rawEntities))
	for _, item := range rawEntities {
		var we wireEntity
		if err := json.Unmarshal(item, &we); err != nil {
			logger.Debug("dropping malformed entity", "error", err)
			continue
		}
		if err := wireValidate.Struct(we); err != nil {
			logger.Debug("dropping incomplete entity", "title", we.Title, "error", err)
			continue
		}

		confidence := clampConfidence(we.Confidence)
		if confidence < MinConfidence {
			logger.Debug("dropping low-confidence entity",
				"domain", we.Domain,
				"title", we.Title,
				"confidence", confidence)
			continue
		}

		entities = append(entities, domain.ExtractedEntity{
			Domain:      domain.Domain(we.Domain),
			Confidence:  confidence,
			Title:       we.Title,
			RawText:     we.RawText,
			Description: we.Description,
			Data:        we.Data,
		})
	}

	return &domain.MultiEntityResult{
		Entities:             entities,
		OriginalInput:        input,
		Timestamp:            now.Format(time.RFC3339),
		RequiresConfirmation: env.RequiresConfirmation,
		Ambiguities:          env.Ambiguities,
	}, nil
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// StripMarkdownCodeBlock removes markdown code block wrappers from
// JSON responses. Some models wrap their output in ```json ... ```
// blocks despite the output contract.
func StripMarkdownCodeBlock(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	} else {
		return s
	}

	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
