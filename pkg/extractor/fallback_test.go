package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// stubGenerator is a scriptable Generator for orchestration tests.
type stubGenerator struct {
	name      string
	available bool
	content   string
	err       error
	calls     int
}

func (s *stubGenerator) Generate(ctx context.Context, system, prompt string) (*GenerateResult, error) {
	s.calls++
	if s.err != nil {
		return nil, &ProviderFailure{Provider: s.name, Reason: ClassifyFailure(s.err), Err: s.err}
	}
	return &GenerateResult{Content: s.content, Provider: s.name, Model: s.name + "-model"}, nil
}

func (s *stubGenerator) Name() string    { return s.name }
func (s *stubGenerator) Available() bool { return s.available }

// --- Fallback Orchestration Tests ---

func TestFallback_PrimarySucceeds_SecondaryNotCalled(t *testing.T) {
	primary := &stubGenerator{name: "anthropic", available: true, content: "{}"}
	secondary := &stubGenerator{name: "openai", available: true, content: "{}"}

	result, err := NewFallback(primary, secondary).Generate(context.Background(), "sys", "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if result.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", result.Provider)
	}
	if secondary.calls != 0 {
		t.Error("secondary must not be contacted when the primary succeeds")
	}
}

func TestFallback_PrimaryFails_SecondaryResultReturned(t *testing.T) {
	primary := &stubGenerator{name: "anthropic", available: true, err: errors.New("status 429: rate limit")}
	secondary := &stubGenerator{name: "openai", available: true, content: `{"entities": []}`}

	result, err := NewFallback(primary, secondary).Generate(context.Background(), "sys", "prompt")
	if err != nil {
		t.Fatal(err)
	}

	// Fallback equivalence: the result is what the secondary alone
	// would have produced, with only the attribution differing.
	if result.Content != `{"entities": []}` {
		t.Errorf("content = %q", result.Content)
	}
	if result.Provider != "openai" {
		t.Errorf("provider = %q, want openai", result.Provider)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("calls: primary=%d secondary=%d", primary.calls, secondary.calls)
	}
}

func TestFallback_BothFail_AggregateNamesBothReasons(t *testing.T) {
	primary := &stubGenerator{name: "anthropic", available: true, err: errors.New("status 429: quota exceeded")}
	secondary := &stubGenerator{name: "openai", available: true, err: errors.New("status 401: invalid api key")}

	_, err := NewFallback(primary, secondary).Generate(context.Background(), "sys", "prompt")

	var aggregate *AggregateFailure
	if !errors.As(err, &aggregate) {
		t.Fatalf("expected *AggregateFailure, got %v", err)
	}
	if len(aggregate.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(aggregate.Failures))
	}

	msg := err.Error()
	for _, want := range []string{"anthropic", "openai", "quota", "auth"} {
		if !strings.Contains(msg, want) {
			t.Errorf("aggregate message missing %q: %s", want, msg)
		}
	}
}

func TestFallback_NoneAvailable_FailsFast(t *testing.T) {
	primary := &stubGenerator{name: "anthropic"}
	secondary := &stubGenerator{name: "openai"}

	_, err := NewFallback(primary, secondary).Generate(context.Background(), "sys", "prompt")
	if !errors.Is(err, ErrNoProviderConfigured) {
		t.Fatalf("expected ErrNoProviderConfigured, got %v", err)
	}
	if primary.calls != 0 || secondary.calls != 0 {
		t.Error("no network attempt may happen without credentials")
	}
}

func TestFallback_UnavailableSkipped(t *testing.T) {
	primary := &stubGenerator{name: "anthropic"} // no key
	secondary := &stubGenerator{name: "openai", available: true, content: "{}"}

	result, err := NewFallback(primary, secondary).Generate(context.Background(), "sys", "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if result.Provider != "openai" {
		t.Errorf("provider = %q, want openai", result.Provider)
	}
	if primary.calls != 0 {
		t.Error("unavailable generator must not be called")
	}
}

func TestFallback_CancelledContext(t *testing.T) {
	gen := &stubGenerator{name: "anthropic", available: true, content: "{}"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFallback(gen).Generate(ctx, "sys", "prompt")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if gen.calls != 0 {
		t.Error("cancelled context must stop the chain before the call")
	}
}

func TestFallback_Name(t *testing.T) {
	f := NewFallback(&stubGenerator{name: "anthropic"}, &stubGenerator{name: "openai"})
	if f.Name() != "fallback(anthropic->openai)" {
		t.Errorf("Name() = %q", f.Name())
	}
}

func TestFallback_Available(t *testing.T) {
	f := NewFallback(&stubGenerator{name: "a"}, &stubGenerator{name: "b"})
	if f.Available() {
		t.Error("chain with no configured backend must be unavailable")
	}

	f = NewFallback(&stubGenerator{name: "a"}, &stubGenerator{name: "b", available: true})
	if !f.Available() {
		t.Error("chain with one configured backend must be available")
	}
}
