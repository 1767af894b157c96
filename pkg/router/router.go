// Package router classifies extracted entities into accepted and
// conflicting sets and suppresses same-domain duplicates.
package router

import (
	"encoding/json"
	"time"

	"github.com/lifeatlas/lifeatlas/internal/logger"
	"github.com/lifeatlas/lifeatlas/pkg/domain"
)

// Route validates and enriches every entity, partitioning the list
// into routed entities and conflicts. A single entity's failure never
// aborts the pass; the job here is exhaustive classification.
func Route(entities []domain.ExtractedEntity, now time.Time) domain.RoutingResult {
	var result domain.RoutingResult

	for _, e := range entities {
		vr := domain.Validate(e, now)
		if vr.Valid {
			result.RoutedEntities = append(result.RoutedEntities, vr.Enriched)
			continue
		}
		logger.Debug("entity rejected by domain rules",
			"domain", e.Domain,
			"title", e.Title,
			"errors", vr.Errors)
		result.Conflicts = append(result.Conflicts, domain.EntityConflict{
			Entity: e,
			Errors: vr.Errors,
		})
	}

	return result
}

// Dedupe removes exact duplicates within the same domain while keeping
// cross-domain repeats: one utterance legitimately yields both a pets
// record and a financial record for the same vet visit. Identity is
// the tuple (domain, title, serialized data). Order is preserved and
// the operation is idempotent.
func Dedupe(entities []domain.ExtractedEntity) []domain.ExtractedEntity {
	if len(entities) < 2 {
		return entities
	}

	seen := make(map[string]struct{}, len(entities))
	out := make([]domain.ExtractedEntity, 0, len(entities))

	for _, e := range entities {
		key := identityKey(e)
		if _, dup := seen[key]; dup {
			logger.Debug("duplicate entity suppressed", "domain", e.Domain, "title", e.Title)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}

	return out
}

// identityKey serializes the identity tuple. encoding/json emits map
// keys in sorted order, so equal data maps produce equal keys.
func identityKey(e domain.ExtractedEntity) string {
	data, err := json.Marshal(e.Data)
	if err != nil {
		// Unserializable data can't be compared; fall back to the
		// entity pointer-free fields so it is never dropped.
		data = []byte(e.RawText)
	}
	return string(e.Domain) + "\x00" + e.Title + "\x00" + string(data)
}
