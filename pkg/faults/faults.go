// Package faults classifies raw error messages into retry guidance for the
// workflow retry runner. Classification is pure, deterministic, and
// case-insensitive; the first matching rule wins.
package faults

import (
	"strings"
	"time"
)

// Type buckets an error by its likely origin.
type Type string

// Fault types in rule priority order.
const (
	TypeNetwork    Type = "network"
	TypeAPI        Type = "api"
	TypeValidation Type = "validation"
	TypeGeneration Type = "generation"
	TypeUnknown    Type = "unknown"
)

// Classification is the ephemeral verdict for one failure, consumed
// immediately by the retry runner.
type Classification struct {
	Type       Type
	Retryable  bool
	RetryDelay time.Duration
	Suggestion string
}

// Classifier is the contract the retry runner consults between attempts.
// Implementations that can themselves fail return an error, which the
// runner treats as non-retryable.
type Classifier interface {
	Classify(message, context string) (Classification, error)
}

type rule struct {
	keywords []string
	verdict  Classification
}

var rules = []rule{
	{
		keywords: []string{"timeout", "connection", "network"},
		verdict: Classification{
			Type:       TypeNetwork,
			Retryable:  true,
			RetryDelay: 5 * time.Second,
			Suggestion: "Network issue, retry later.",
		},
	},
	{
		keywords: []string{"429", "rate limit", "quota", "api key", "unauthorized"},
		verdict: Classification{
			Type:       TypeAPI,
			Retryable:  true,
			RetryDelay: 60 * time.Second,
			Suggestion: "API limit or auth issue, wait and retry.",
		},
	},
	{
		keywords: []string{"invalid", "missing", "required", "validation"},
		verdict: Classification{
			Type:       TypeValidation,
			Retryable:  false,
			RetryDelay: 0,
			Suggestion: "Fix input before retry.",
		},
	},
	{
		keywords: []string{"empty response", "blocked", "generation"},
		verdict: Classification{
			Type:       TypeGeneration,
			Retryable:  true,
			RetryDelay: 2 * time.Second,
			Suggestion: "Model generation issue, retry once.",
		},
	},
}

var unknownVerdict = Classification{
	Type:       TypeUnknown,
	Retryable:  true,
	RetryDelay: 3 * time.Second,
	Suggestion: "Unknown error, retry once then stop.",
}

// Classify maps an error message and a context tag to retry guidance. The
// context tag is accepted for logging and future extensibility but does not
// alter the verdict; context-independence is intentional.
func Classify(message, context string) Classification {
	_ = context

	msg := strings.ToLower(message)
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(msg, k) {
				return r.verdict
			}
		}
	}
	return unknownVerdict
}

// RuleClassifier adapts Classify to the Classifier interface. It never
// returns an error.
type RuleClassifier struct{}

// Classify implements Classifier.
func (RuleClassifier) Classify(message, context string) (Classification, error) {
	return Classify(message, context), nil
}
