package eval

import (
	"fmt"
	"strings"
)

// toneGroups clusters tones for response-quality scoring. Unlike the
// synonym groups used for pattern detection, "critical" counts as
// urgent here.
var toneGroups = map[string][]string{
	"formal":   {"formal", "professional", "polished"},
	"casual":   {"casual", "informal", "relaxed"},
	"friendly": {"friendly", "warm", "welcoming"},
	"urgent":   {"urgent", "pressing", "important", "critical"},
}

// relatedTones earn partial credit when predicted and expected fall in
// different but adjacent groups.
var relatedTones = [][2]string{
	{"formal", "casual"},
	{"friendly", "warm"},
	{"urgent", "important"},
}

func toneScore(predicted, expected string) float64 {
	if predicted == expected {
		return 1.0
	}
	for _, group := range toneGroups {
		if contains(group, predicted) && contains(group, expected) {
			return 1.0
		}
	}
	for _, pair := range relatedTones {
		if (pair[0] == predicted && pair[1] == expected) ||
			(pair[1] == predicted && pair[0] == expected) {
			return 0.7
		}
	}
	return 0.0
}

var formalityOrder = []string{"low", "medium", "high"}

func formalityScore(predicted, expected string) float64 {
	if predicted == expected {
		return 1.0
	}
	pi, ei := -1, -1
	for i, level := range formalityOrder {
		if level == predicted {
			pi = i
		}
		if level == expected {
			ei = i
		}
	}
	if pi < 0 || ei < 0 {
		return 0.0
	}
	if pi-ei == 1 || ei-pi == 1 {
		return 0.5
	}
	return 0.0
}

// ResponseQuality scores whether a reply drafted with the predicted
// tone and formality would land well: tone*0.4 + formality*0.4 +
// response-needed*0.2.
type ResponseQuality struct{}

// Name returns the result key.
func (ResponseQuality) Name() string { return "response_quality" }

// Evaluate scores the predicted response attributes.
func (ResponseQuality) Evaluate(got Outputs, want Expected) Result {
	tone := toneScore(norm(got.Tone), norm(want.Tone))
	formality := formalityScore(norm(got.Formality), norm(want.Formality))

	response := 0.0
	if got.RequiresResponse == want.RequiresResponse {
		response = 1.0
	}

	overall := tone*0.4 + formality*0.4 + response*0.2

	var feedback []string
	if tone < 1.0 {
		feedback = append(feedback, fmt.Sprintf("tone mismatch, expected %q, got %q", norm(want.Tone), norm(got.Tone)))
	}
	if formality < 1.0 {
		feedback = append(feedback, fmt.Sprintf("formality mismatch, expected %q, got %q", norm(want.Formality), norm(got.Formality)))
	}
	if response < 1.0 {
		feedback = append(feedback, fmt.Sprintf("response needed: expected %v, got %v", want.RequiresResponse, got.RequiresResponse))
	}
	comment := "response attributes correct"
	if len(feedback) > 0 {
		comment = strings.Join(feedback, "; ")
	}

	return Result{Key: "response_quality", Score: overall, Comment: comment}
}

// draftRules lists the tones and formality levels an appropriate draft
// may use for each parent category.
var draftRules = map[string]struct {
	tones     []string
	formality []string
}{
	"work":           {tones: []string{"professional", "formal", "polite"}, formality: []string{"high", "medium"}},
	"hockey":         {tones: []string{"casual", "friendly", "warm"}, formality: []string{"low", "medium"}},
	"personal":       {tones: []string{"casual", "friendly", "warm"}, formality: []string{"low", "medium"}},
	"finance":        {tones: []string{"formal", "professional"}, formality: []string{"high"}},
	"organizational": {tones: []string{"formal", "professional"}, formality: []string{"high"}},
}

// DraftAppropriateness checks the predicted tone and formality against
// what the reference category calls for, so a draft written in the
// wrong register is flagged even when the classification is right.
type DraftAppropriateness struct{}

// Name returns the result key.
func (DraftAppropriateness) Name() string { return "draft_appropriateness" }

// Evaluate scores the prediction against the reference category's
// register.
func (DraftAppropriateness) Evaluate(got Outputs, want Expected) Result {
	tone := norm(got.Tone)
	formality := norm(got.Formality)
	parent := parentOf(norm(want.Category))

	rules, ok := draftRules[parent]
	if !ok {
		return Result{
			Key:     "draft_appropriateness",
			Score:   0.5,
			Comment: fmt.Sprintf("no draft expectations for category %q", parent),
		}
	}

	toneOK := false
	for _, acceptable := range rules.tones {
		if strings.Contains(tone, acceptable) {
			toneOK = true
			break
		}
	}
	formalityOK := contains(rules.formality, formality)

	key := "draft_appropriateness"
	switch {
	case toneOK && formalityOK:
		return Result{Key: key, Score: 1.0,
			Comment: fmt.Sprintf("appropriate register for %s: %s/%s", parent, tone, formality)}
	case toneOK || formalityOK:
		return Result{Key: key, Score: 0.5,
			Comment: fmt.Sprintf("partially appropriate for %s: %s/%s", parent, tone, formality)}
	default:
		return Result{Key: key, Score: 0.0,
			Comment: fmt.Sprintf("wrong register for %s: %s/%s", parent, tone, formality)}
	}
}
