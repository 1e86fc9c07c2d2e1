package eval

import (
	"fmt"
	"strings"
)

// Confidence calibration thresholds.
const (
	highConfidence   = 0.8
	mediumConfidence = 0.6
)

// toneSynonyms groups interchangeable tone labels.
var toneSynonyms = map[string][]string{
	"formal":   {"formal", "professional", "polished"},
	"casual":   {"casual", "informal", "relaxed"},
	"friendly": {"friendly", "warm", "welcoming"},
	"urgent":   {"urgent", "pressing", "important"},
}

// tonesMatch reports whether two tone labels are equal or share a
// synonym group.
func tonesMatch(predicted, expected string) bool {
	if predicted == expected {
		return true
	}
	for _, group := range toneSynonyms {
		if contains(group, predicted) && contains(group, expected) {
			return true
		}
	}
	return false
}

func contains(group []string, s string) bool {
	for _, g := range group {
		if g == s {
			return true
		}
	}
	return false
}

// confidenceAppropriateness scores how well a confidence value fits
// the correctness of the prediction.
func confidenceAppropriateness(confidence float64, correct bool) float64 {
	switch {
	case confidence >= highConfidence && correct:
		return 1.0
	case confidence >= highConfidence:
		return 0.0 // overconfident
	case confidence < mediumConfidence && !correct:
		return 0.8 // appropriately uncertain
	case confidence < mediumConfidence:
		return 0.6 // under-confident
	default:
		return 0.7
	}
}

// PatternDetection scores how many communication patterns the triage
// recognized (category, tone, formality), weighted with confidence
// calibration: detection*0.7 + calibration*0.3.
type PatternDetection struct{}

// Name returns the result key.
func (PatternDetection) Name() string { return "pattern_detection" }

// Evaluate scores pattern recognition across the three dimensions.
func (PatternDetection) Evaluate(got Outputs, want Expected) Result {
	categoryCorrect := norm(got.Category) == norm(want.Category)
	toneCorrect := tonesMatch(norm(got.Tone), norm(want.Tone))
	formalityCorrect := norm(got.Formality) == norm(want.Formality)

	detected := 0
	for _, ok := range []bool{categoryCorrect, toneCorrect, formalityCorrect} {
		if ok {
			detected++
		}
	}
	detectionScore := float64(detected) / 3.0

	calibration := confidenceAppropriateness(got.Confidence, categoryCorrect)
	overall := detectionScore*0.7 + calibration*0.3

	var feedback []string
	feedback = append(feedback, fmt.Sprintf("patterns detected: %d/3", detected))
	if !categoryCorrect {
		feedback = append(feedback, fmt.Sprintf("category missed (expected %q)", norm(want.Category)))
	}
	if !toneCorrect {
		feedback = append(feedback, fmt.Sprintf("tone missed (expected %q)", norm(want.Tone)))
	}
	if !formalityCorrect {
		feedback = append(feedback, fmt.Sprintf("formality missed (expected %q)", norm(want.Formality)))
	}
	if calibration <= 0.7 {
		feedback = append(feedback, fmt.Sprintf("confidence calibration issue (%.2f)", got.Confidence))
	}

	return Result{
		Key:     "pattern_detection",
		Score:   overall,
		Comment: strings.Join(feedback, "; "),
	}
}

// ConfidenceCalibration scores whether confidence tracks correctness:
// high confidence should mean correct, low confidence should mean the
// triage knew it was uncertain.
type ConfidenceCalibration struct{}

// Name returns the result key.
func (ConfidenceCalibration) Name() string { return "confidence_calibration" }

// Evaluate scores confidence against category correctness.
func (ConfidenceCalibration) Evaluate(got Outputs, want Expected) Result {
	confidence := got.Confidence
	correct := norm(got.Category) == norm(want.Category)

	key := "confidence_calibration"
	switch {
	case confidence >= highConfidence && correct:
		return Result{Key: key, Score: 1.0,
			Comment: fmt.Sprintf("well-calibrated: high confidence (%.2f) and correct", confidence)}
	case confidence >= highConfidence:
		return Result{Key: key, Score: 0.0,
			Comment: fmt.Sprintf("overconfident: high confidence (%.2f) but incorrect", confidence)}
	case confidence < mediumConfidence && !correct:
		return Result{Key: key, Score: 0.8,
			Comment: fmt.Sprintf("well-calibrated: low confidence (%.2f) and incorrect", confidence)}
	case confidence < mediumConfidence && correct:
		return Result{Key: key, Score: 0.6,
			Comment: fmt.Sprintf("under-confident: low confidence (%.2f) but correct", confidence)}
	case correct:
		return Result{Key: key, Score: 0.8,
			Comment: fmt.Sprintf("reasonable: medium confidence (%.2f) and correct", confidence)}
	default:
		return Result{Key: key, Score: 0.5,
			Comment: fmt.Sprintf("medium confidence (%.2f) but incorrect", confidence)}
	}
}

// consistencyRules defines the tone/formality combinations each parent
// category is expected to carry.
var consistencyRules = map[string]struct {
	tones     []string
	formality []string
}{
	"work":           {tones: []string{"professional", "formal"}, formality: []string{"high", "medium"}},
	"hockey":         {tones: []string{"casual", "friendly"}, formality: []string{"low", "medium"}},
	"personal":       {tones: []string{"casual", "friendly", "warm"}, formality: []string{"low", "medium"}},
	"finance":        {tones: []string{"formal", "professional"}, formality: []string{"high"}},
	"shopping":       {tones: []string{"friendly", "casual"}, formality: []string{"medium", "low"}},
	"organizational": {tones: []string{"formal", "professional"}, formality: []string{"high"}},
}

// Consistency checks that the predicted category, tone, and formality
// agree with each other regardless of the reference labels: a Work
// email classified as casual/low is internally inconsistent even if
// the category is right.
type Consistency struct{}

// Name returns the result key.
func (Consistency) Name() string { return "internal_consistency" }

// Evaluate scores internal agreement of the prediction.
func (Consistency) Evaluate(got Outputs, _ Expected) Result {
	tone := norm(got.Tone)
	formality := norm(got.Formality)
	parent := parentOf(norm(got.Category))

	rules, ok := consistencyRules[parent]
	if !ok {
		return Result{
			Key:     "internal_consistency",
			Score:   0.5,
			Comment: fmt.Sprintf("cannot evaluate consistency for category %q", parent),
		}
	}

	toneConsistent := false
	for _, expected := range rules.tones {
		if strings.Contains(tone, expected) {
			toneConsistent = true
			break
		}
	}
	formalityConsistent := contains(rules.formality, formality)

	key := "internal_consistency"
	switch {
	case toneConsistent && formalityConsistent:
		return Result{Key: key, Score: 1.0,
			Comment: fmt.Sprintf("consistent: %s with %s/%s", parent, tone, formality)}
	case toneConsistent || formalityConsistent:
		return Result{Key: key, Score: 0.5,
			Comment: fmt.Sprintf("partially consistent: %s with %s/%s", parent, tone, formality)}
	default:
		return Result{Key: key, Score: 0.0,
			Comment: fmt.Sprintf("inconsistent: %s should not have %s/%s", parent, tone, formality)}
	}
}
