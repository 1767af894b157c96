package extractor

import (
	"errors"
	"testing"
	"time"

	"github.com/lifeatlas/lifeatlas/pkg/domain"
)

var testNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

// --- Envelope Strictness Tests ---

func TestParseResult_InvalidJSON(t *testing.T) {
	_, err := ParseResult("not json at all", "input", testNow)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestParseResult_MissingEntities(t *testing.T) {
	_, err := ParseResult(`{"requiresConfirmation": false}`, "input", testNow)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError for missing entities, got %v", err)
	}
}

func TestParseResult_NullEntities(t *testing.T) {
	_, err := ParseResult(`{"entities": null}`, "input", testNow)
	if err == nil {
		t.Fatal("null entities must fail the envelope check")
	}
}

func TestParseResult_EntitiesNotArray(t *testing.T) {
	_, err := ParseResult(`{"entities": {"domain": "tasks"}}`, "input", testNow)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError for non-array entities, got %v", err)
	}
}

func TestParseResult_EmptyEntitiesOK(t *testing.T) {
	result, err := ParseResult(`{"entities": []}`, "input", testNow)
	if err != nil {
		t.Fatalf("empty entities array is a valid envelope: %v", err)
	}
	if len(result.Entities) != 0 {
		t.Errorf("expected no entities, got %d", len(result.Entities))
	}
}

// --- Per-Entity Leniency Tests ---

func TestParseResult_DropsIncompleteEntities(t *testing.T) {
	raw := `{"entities": [
		{"domain": "tasks", "confidence": 90, "title": "keep me", "rawText": "keep me", "data": {}},
		{"confidence": 90, "title": "no domain", "rawText": "x", "data": {}},
		{"domain": "tasks", "confidence": 90, "rawText": "no title", "data": {}},
		{"domain": "tasks", "confidence": 90, "title": "no rawText", "data": {}},
		{"domain": "tasks", "confidence": 90, "title": "no data", "rawText": "x"}
	]}`

	result, err := ParseResult(raw, "input", testNow)
	if err != nil {
		t.Fatalf("incomplete entities must not fail the call: %v", err)
	}
	if len(result.Entities) != 1 {
		t.Fatalf("expected only the complete entity, got %d", len(result.Entities))
	}
	if result.Entities[0].Title != "keep me" {
		t.Errorf("wrong entity survived: %q", result.Entities[0].Title)
	}
}

func TestParseResult_DropsLowConfidence(t *testing.T) {
	raw := `{"entities": [
		{"domain": "tasks", "confidence": 49, "title": "dropped", "rawText": "x", "data": {}},
		{"domain": "tasks", "confidence": 50, "title": "kept", "rawText": "x", "data": {}}
	]}`

	result, err := ParseResult(raw, "input", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entities) != 1 || result.Entities[0].Title != "kept" {
		t.Errorf("confidence filter wrong: %v", result.Entities)
	}
}

func TestParseResult_ClampsConfidence(t *testing.T) {
	raw := `{"entities": [
		{"domain": "tasks", "confidence": 150, "title": "hot", "rawText": "x", "data": {}}
	]}`

	result, err := ParseResult(raw, "input", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if result.Entities[0].Confidence != 100 {
		t.Errorf("confidence = %d, want clamped 100", result.Entities[0].Confidence)
	}
}

// --- Envelope Metadata Tests ---

func TestParseResult_Metadata(t *testing.T) {
	raw := `{"entities": [], "requiresConfirmation": true, "ambiguities": ["which account?"]}`

	result, err := ParseResult(raw, "the input", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if result.OriginalInput != "the input" {
		t.Errorf("originalInput = %q", result.OriginalInput)
	}
	if result.Timestamp != testNow.Format(time.RFC3339) {
		t.Errorf("timestamp = %q", result.Timestamp)
	}
	if !result.RequiresConfirmation {
		t.Error("model-reported requiresConfirmation must be kept")
	}
	if len(result.Ambiguities) != 1 {
		t.Errorf("ambiguities = %v", result.Ambiguities)
	}
}

func TestParseResult_FencedJSON(t *testing.T) {
	raw := "```json\n{\"entities\": [{\"domain\": \"financial\", \"confidence\": 90, \"title\": \"groceries\", \"rawText\": \"spent $45\", \"data\": {\"amount\": \"45\"}}]}\n```"

	result, err := ParseResult(raw, "spent $45 on groceries", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(result.Entities))
	}
	if result.Entities[0].Domain != domain.Financial {
		t.Errorf("domain = %q", result.Entities[0].Domain)
	}
}

// --- StripMarkdownCodeBlock Tests ---

func TestStripMarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding space", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		if got := StripMarkdownCodeBlock(tt.input); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
