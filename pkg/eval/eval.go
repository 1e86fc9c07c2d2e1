// Package eval provides offline scoring for email triage predictions.
//
// Evaluators are independent, stateless heuristics: each compares one
// prediction against its reference labels and produces a score in
// [0, 1] with a short comment. They are deliberately forgiving (synonym
// groups for tones, partial credit for near-miss formality and for
// parent-category matches on hierarchical labels) because the goal is
// tracking triage quality over time, not exact string matching.
//
// Use [Default] for the standard evaluator set and [Run] to score a
// batch of cases.
package eval

import "strings"

// Outputs is a parsed triage prediction for one email.
type Outputs struct {
	Category         string  `json:"category"`
	Tone             string  `json:"tone"`
	Formality        string  `json:"formality"`
	Confidence       float64 `json:"confidence"`
	RequiresResponse bool    `json:"requires_response"`
	Raw              string  `json:"raw_response,omitempty"`
}

// Expected is the reference labels for one example.
type Expected struct {
	Category         string `json:"expected_category"`
	Tone             string `json:"expected_tone"`
	Formality        string `json:"expected_formality"`
	RequiresResponse bool   `json:"requires_response"`
}

// Result is one evaluator's verdict on one case.
type Result struct {
	Key     string  `json:"key"`
	Score   float64 `json:"score"`
	Comment string  `json:"comment,omitempty"`
}

// Evaluator scores one prediction against its reference labels.
type Evaluator interface {
	// Name returns the result key, e.g. "category_accuracy".
	Name() string

	// Evaluate scores got against want.
	Evaluate(got Outputs, want Expected) Result
}

// Default returns the standard evaluator set.
func Default() []Evaluator {
	return []Evaluator{
		CategoryAccuracy{},
		HierarchicalAccuracy{},
		PatternDetection{},
		ConfidenceCalibration{},
		Consistency{},
		ResponseQuality{},
		DraftAppropriateness{},
	}
}

// norm lowercases and trims a label for comparison.
func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// parentOf returns the parent part of a hierarchical label
// ("Work > Project Alpha" yields "work").
func parentOf(s string) string {
	parts := strings.SplitN(s, ">", 2)
	return strings.TrimSpace(parts[0])
}
