package extractor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoProviderConfigured is returned before any network attempt when
// no provider in the chain has usable credentials.
var ErrNoProviderConfigured = errors.New("no extraction provider configured: set ANTHROPIC_API_KEY or OPENAI_API_KEY")

// FailureReason classifies why a provider call failed, so an operator
// can tell a vendor outage from an exhausted quota from a bad key.
type FailureReason string

const (
	ReasonAuth    FailureReason = "auth"
	ReasonQuota   FailureReason = "quota"
	ReasonNetwork FailureReason = "network"
)

// ClassifyFailure buckets a provider error into a FailureReason.
// The SDKs surface HTTP status codes in their error strings, which is
// what we match on; anything unrecognized counts as network.
func ClassifyFailure(err error) FailureReason {
	if err == nil {
		return ReasonNetwork
	}
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "insufficient credit"),
		strings.Contains(msg, "overloaded"):
		return ReasonQuota
	case strings.Contains(msg, "401"),
		strings.Contains(msg, "403"),
		strings.Contains(msg, "api key"),
		strings.Contains(msg, "authentication"),
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "permission"):
		return ReasonAuth
	default:
		return ReasonNetwork
	}
}

// ProviderFailure records one provider's classified failure.
type ProviderFailure struct {
	Provider string
	Reason   FailureReason
	Err      error
}

func (f *ProviderFailure) Error() string {
	return fmt.Sprintf("provider %s failed (%s): %v", f.Provider, f.Reason, f.Err)
}

func (f *ProviderFailure) Unwrap() error {
	return f.Err
}

// AggregateFailure is returned when every configured provider failed.
// Its message names each provider's distinct reason.
type AggregateFailure struct {
	Failures []*ProviderFailure
}

func (a *AggregateFailure) Error() string {
	parts := make([]string, 0, len(a.Failures))
	for _, f := range a.Failures {
		parts = append(parts, fmt.Sprintf("%s: %s (%v)", f.Provider, f.Reason, f.Err))
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

// ParseError indicates the model's response was not valid JSON or
// violated the envelope contract. It aborts the whole request; there
// is no partial result.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Msg, e.Err)
	}
	return "parse error: " + e.Msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
