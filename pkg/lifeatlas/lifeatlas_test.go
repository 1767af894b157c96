package lifeatlas

import (
	"context"
	"strings"
	"testing"

	"github.com/lifeatlas/lifeatlas/pkg/domain"
	"github.com/lifeatlas/lifeatlas/pkg/extractor"
)

// scriptedGenerator returns a fixed response, standing in for the
// provider chain.
type scriptedGenerator struct {
	content string
}

func (s *scriptedGenerator) Generate(ctx context.Context, system, prompt string) (*extractor.GenerateResult, error) {
	return &extractor.GenerateResult{Content: s.content, Provider: "scripted", Model: "scripted-1"}, nil
}

func (s *scriptedGenerator) Name() string    { return "scripted" }
func (s *scriptedGenerator) Available() bool { return true }

func newTestEngine(t *testing.T, content string) *Engine {
	t.Helper()
	engine, err := New(WithGenerator(&scriptedGenerator{content: content}))
	if err != nil {
		t.Fatal(err)
	}
	return engine
}

// --- Full Pipeline Tests ---

func TestProcess_FitnessAndNutrition(t *testing.T) {
	engine := newTestEngine(t, `{
		"entities": [
			{
				"domain": "fitness",
				"confidence": 90,
				"title": "5 mile run",
				"rawText": "ran 5 miles in 42 minutes",
				"data": {"duration": "42", "distance": "5"}
			},
			{
				"domain": "nutrition",
				"confidence": 88,
				"title": "Banana",
				"rawText": "ate a banana, 100 calories",
				"data": {"foodName": "banana", "calories": "100"}
			}
		]
	}`)

	result, err := engine.Process(context.Background(), "ran 5 miles in 42 minutes and ate a banana, 100 calories", nil)
	if err != nil {
		t.Fatal(err)
	}

	routed := result.Routing.RoutedEntities
	if len(routed) != 2 {
		t.Fatalf("expected 2 routed entities, got %d", len(routed))
	}
	if len(result.Routing.Conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", result.Routing.Conflicts)
	}

	fitness := routed[0]
	if fitness.Domain != domain.Fitness {
		t.Fatalf("first entity domain = %q", fitness.Domain)
	}
	if fitness.Data["duration"] != "42" || fitness.Data["distance"] != "5" {
		t.Errorf("fitness data = %v", fitness.Data)
	}
	// Enrichment guarantees after routing.
	if !fitness.HasData("activityType") {
		t.Error("routed fitness entity must carry activityType")
	}
	if !fitness.HasData("type") && !fitness.HasData("itemType") && !fitness.HasData("logType") {
		t.Error("routed fitness entity must carry a type discriminator")
	}

	nutrition := routed[1]
	if nutrition.Domain != domain.Nutrition {
		t.Fatalf("second entity domain = %q", nutrition.Domain)
	}
	if nutrition.Data["calories"] != "100" {
		t.Errorf("nutrition calories = %v", nutrition.Data["calories"])
	}
}

func TestProcess_CalendarMeeting(t *testing.T) {
	engine := newTestEngine(t, `{
		"entities": [{
			"domain": "calendar",
			"confidence": 91,
			"title": "Meeting with John",
			"rawText": "meeting with John tomorrow at 2pm",
			"data": {"type": "meeting", "startTime": "2026-03-15T14:00:00Z"}
		}]
	}`)

	result, err := engine.Process(context.Background(), "meeting with John tomorrow at 2pm", nil)
	if err != nil {
		t.Fatal(err)
	}

	routed := result.Routing.RoutedEntities
	if len(routed) != 1 {
		t.Fatalf("expected 1 routed entity, got %d", len(routed))
	}
	if routed[0].Domain != domain.Calendar {
		t.Errorf("domain = %q, want calendar", routed[0].Domain)
	}
	if !strings.Contains(routed[0].Data["type"].(string), "meeting") {
		t.Errorf("type = %v, want something containing meeting", routed[0].Data["type"])
	}
}

func TestProcess_PetsSpeciesInference(t *testing.T) {
	engine := newTestEngine(t, `{
		"entities": [{
			"domain": "pets",
			"confidence": 85,
			"title": "Max weight",
			"rawText": "Max weighs 62 lbs",
			"data": {"petName": "Max", "weight": "62"}
		}]
	}`)

	result, err := engine.Process(context.Background(), "Max weighs 62 lbs", nil)
	if err != nil {
		t.Fatal(err)
	}

	routed := result.Routing.RoutedEntities
	if len(routed) != 1 {
		t.Fatalf("expected 1 routed entity, got %d", len(routed))
	}
	if routed[0].Data["species"] != "Dog" {
		t.Errorf("species = %v, want Dog", routed[0].Data["species"])
	}
	if routed[0].Data["weight"] != "62" {
		t.Errorf("weight = %v, want 62", routed[0].Data["weight"])
	}
}

func TestProcess_ConflictsCollected(t *testing.T) {
	engine := newTestEngine(t, `{
		"entities": [
			{
				"domain": "financial",
				"confidence": 80,
				"title": "Something bought",
				"rawText": "bought something",
				"data": {}
			},
			{
				"domain": "tasks",
				"confidence": 90,
				"title": "call plumber",
				"rawText": "call plumber",
				"data": {}
			}
		]
	}`)

	result, err := engine.Process(context.Background(), "bought something, call plumber", nil)
	if err != nil {
		t.Fatal(err)
	}

	// The financial entity (no amount) is a conflict; the call still
	// succeeds and the task routes normally.
	if len(result.Routing.RoutedEntities) != 1 {
		t.Fatalf("expected 1 routed entity, got %d", len(result.Routing.RoutedEntities))
	}
	if len(result.Routing.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(result.Routing.Conflicts))
	}
	if result.Routing.Conflicts[0].Entity.Domain != domain.Financial {
		t.Errorf("conflict domain = %q", result.Routing.Conflicts[0].Entity.Domain)
	}
}

func TestProcess_DuplicatesSuppressed(t *testing.T) {
	engine := newTestEngine(t, `{
		"entities": [
			{
				"domain": "tasks",
				"confidence": 90,
				"title": "call plumber",
				"rawText": "call plumber",
				"data": {}
			},
			{
				"domain": "tasks",
				"confidence": 90,
				"title": "call plumber",
				"rawText": "call plumber",
				"data": {}
			}
		]
	}`)

	result, err := engine.Process(context.Background(), "call plumber", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Routing.RoutedEntities) != 1 {
		t.Errorf("same-domain duplicates must collapse, got %d", len(result.Routing.RoutedEntities))
	}
}

func TestProcess_RetrievalSplitOut(t *testing.T) {
	engine := newTestEngine(t, `{
		"entities": [{
			"domain": "retrieval",
			"confidence": 95,
			"title": "Show expenses",
			"rawText": "show me last month's expenses",
			"data": {"query": "last month's expenses", "targetDomain": "financial"}
		}]
	}`)

	result, err := engine.Process(context.Background(), "show me last month's expenses", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Routing.RoutedEntities) != 0 {
		t.Errorf("retrieval entities must not be routed for persistence: %v", result.Routing.RoutedEntities)
	}
	if len(result.Queries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(result.Queries))
	}
	if result.Queries[0].Data["query"] != "last month's expenses" {
		t.Errorf("query data = %v", result.Queries[0].Data)
	}
}

func TestProcess_ProviderAttribution(t *testing.T) {
	engine := newTestEngine(t, `{"entities": []}`)

	result, err := engine.Process(context.Background(), "nothing", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Provider != "scripted" || result.Model != "scripted-1" {
		t.Errorf("attribution = %s/%s", result.Provider, result.Model)
	}
}
