package domain

import (
	"fmt"
	"strings"
	"time"
)

// ValidationResult is the outcome of validating one entity. When Valid
// is true, Enriched carries the entity with defaults applied. When
// false, Errors is non-empty and explains every failure.
type ValidationResult struct {
	Valid    bool
	Enriched ExtractedEntity
	Errors   []string
}

// validatorFunc applies one domain's defaulting and required-field
// rules. It receives a clone of the entity, so it may mutate Data
// freely. It must fill gaps only, never overwrite supplied values.
type validatorFunc func(e ExtractedEntity, now time.Time) ValidationResult

// validators dispatches by domain. Every member of the closed domain
// set has an entry; domains with no bespoke rules use validateGeneric.
var validators = map[Domain]validatorFunc{
	Financial:     validateFinancial,
	Health:        validateHealth,
	Insurance:     validateGeneric,
	Home:          validateGeneric,
	Vehicles:      validateGeneric,
	Appliances:    validateGeneric,
	Pets:          validatePets,
	Relationships: validateGeneric,
	Digital:       validateDigital,
	Mindfulness:   validateGeneric,
	Fitness:       validateFitness,
	Nutrition:     validateNutrition,
	Miscellaneous: validateGeneric,
	Calendar:      validateGeneric,
	Tasks:         validateTasks,
	Retrieval:     validateRetrieval,
}

// Validate applies the domain's defaulting and required-field rules to
// e. It never panics; failures come back as accumulated error strings.
// now anchors date backfilling so the result is deterministic.
func Validate(e ExtractedEntity, now time.Time) ValidationResult {
	fn, ok := validators[e.Domain]
	if !ok {
		return ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("Invalid domain: %s", e.Domain)},
		}
	}
	return fn(e.CloneData(), now)
}

func validateGeneric(e ExtractedEntity, now time.Time) ValidationResult {
	backfillDate(&e, now)
	return ValidationResult{Valid: true, Enriched: e}
}

func validateFinancial(e ExtractedEntity, now time.Time) ValidationResult {
	setDefault(&e, "type", "expense")
	backfillDate(&e, now)

	var errs []string
	if !e.HasData("amount") {
		errs = append(errs, "Missing required field: amount")
	}
	if len(errs) > 0 {
		return ValidationResult{Valid: false, Errors: errs}
	}
	return ValidationResult{Valid: true, Enriched: e}
}

func validateFitness(e ExtractedEntity, now time.Time) ValidationResult {
	if !e.HasData("activityType") {
		if v := firstDataString(e, "exercise", "activity", "type"); v != "" {
			e.Data["activityType"] = v
		} else {
			e.Data["activityType"] = "Running"
		}
	}

	// Downstream consumers filter on a discriminator key; make sure
	// exactly one exists without clobbering a supplied one.
	if !e.HasData("type") && !e.HasData("itemType") && !e.HasData("logType") {
		e.Data["type"] = "activity"
	}
	backfillDate(&e, now)

	if !e.HasData("activityType") && !e.HasData("duration") {
		return ValidationResult{Valid: false, Errors: []string{"Missing required field: activityType or duration"}}
	}
	return ValidationResult{Valid: true, Enriched: e}
}

func validatePets(e ExtractedEntity, now time.Time) ValidationResult {
	if !e.HasData("species") {
		name := firstDataString(e, "petName", "name")
		if name == "" {
			name = e.Title
		}
		e.Data["species"] = InferSpecies(name)
	}
	setDefault(&e, "type", "health_record")
	backfillDate(&e, now)
	return ValidationResult{Valid: true, Enriched: e}
}

func validateNutrition(e ExtractedEntity, now time.Time) ValidationResult {
	setDefault(&e, "itemType", "meal")

	if isWaterEntry(e) && !e.HasData("calories") {
		e.Data["calories"] = "0"
	}
	backfillDate(&e, now)
	return ValidationResult{Valid: true, Enriched: e}
}

func isWaterEntry(e ExtractedEntity) bool {
	if v, _ := e.DataString("itemType"); strings.EqualFold(v, "water") {
		return true
	}
	if v, _ := e.DataString("foodName"); strings.Contains(strings.ToLower(v), "water") {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), "water")
}

func validateHealth(e ExtractedEntity, now time.Time) ValidationResult {
	if !e.HasData("recordType") {
		switch {
		case e.HasData("weight"):
			e.Data["recordType"] = "weight"
		case e.HasData("systolic") || e.HasData("diastolic"):
			e.Data["recordType"] = "blood_pressure"
		default:
			e.Data["recordType"] = "general"
		}
	}
	backfillDate(&e, now)
	return ValidationResult{Valid: true, Enriched: e}
}

// digitalTitleKeywords mark a title as describing a membership-style
// digital item when no explicit category was extracted.
var digitalTitleKeywords = []string{"membership", "subscription", "card", "account"}

func validateDigital(e ExtractedEntity, now time.Time) ValidationResult {
	titleHasKeyword := false
	title := strings.ToLower(e.Title)
	for _, kw := range digitalTitleKeywords {
		if strings.Contains(title, kw) {
			titleHasKeyword = true
			break
		}
	}

	if !e.HasData("category") && titleHasKeyword {
		e.Data["category"] = "membership"
	}
	backfillDate(&e, now)

	if !e.HasData("serviceName") && !e.HasData("category") {
		return ValidationResult{Valid: false, Errors: []string{"Missing required field: serviceName or category"}}
	}
	return ValidationResult{Valid: true, Enriched: e}
}

func validateTasks(e ExtractedEntity, now time.Time) ValidationResult {
	backfillDate(&e, now)
	if strings.TrimSpace(e.Title) == "" {
		return ValidationResult{Valid: false, Errors: []string{"Missing required field: title"}}
	}
	return ValidationResult{Valid: true, Enriched: e}
}

// validateRetrieval accepts unconditionally: the entity is a query to
// hand off, not a record to check.
func validateRetrieval(e ExtractedEntity, _ time.Time) ValidationResult {
	return ValidationResult{Valid: true, Enriched: e}
}

// setDefault fills key with value only when the entity has no usable
// value for it already.
func setDefault(e *ExtractedEntity, key, value string) {
	if !e.HasData(key) {
		e.Data[key] = value
	}
}

// backfillDate anchors undated entities to now, per the "entities
// default to now" contract given to the model.
func backfillDate(e *ExtractedEntity, now time.Time) {
	if !e.HasData("date") {
		e.Data["date"] = now.Format(time.RFC3339)
	}
}

// firstDataString returns the first non-empty string value among keys.
func firstDataString(e ExtractedEntity, keys ...string) string {
	for _, k := range keys {
		if v, ok := e.DataString(k); ok && v != "" {
			return v
		}
	}
	return ""
}
