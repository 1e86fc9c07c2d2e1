package eval

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCategoryAccuracy(t *testing.T) {
	tests := []struct {
		name      string
		predicted string
		expected  string
		want      float64
	}{
		{name: "exact match", predicted: "Work > Project Alpha", expected: "Work > Project Alpha", want: 1.0},
		{name: "case insensitive", predicted: "work > project alpha", expected: "Work > Project Alpha", want: 1.0},
		{name: "parent correct", predicted: "Work > Project Beta", expected: "Work > Project Alpha", want: 0.7},
		{name: "flat parent matches hierarchy parent", predicted: "Work", expected: "Work > Meetings", want: 0.7},
		{name: "containment", predicted: "Alpha", expected: "Work > Project Alpha", want: 0.5},
		{name: "wrong", predicted: "Hockey", expected: "Finance", want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := CategoryAccuracy{}.Evaluate(
				Outputs{Category: tt.predicted},
				Expected{Category: tt.expected},
			)
			if !approx(r.Score, tt.want) {
				t.Errorf("score = %v, want %v (%s)", r.Score, tt.want, r.Comment)
			}
		})
	}
}

func TestHierarchicalAccuracy(t *testing.T) {
	tests := []struct {
		name      string
		predicted string
		expected  string
		want      float64
	}{
		{name: "both levels match", predicted: "Work > Meetings", expected: "Work > Meetings", want: 1.0},
		{name: "parent only", predicted: "Work > Project Beta", expected: "Work > Project Alpha", want: 0.7},
		{name: "child only", predicted: "Personal > Meetings", expected: "Work > Meetings", want: 0.5},
		{name: "expected hierarchy got flat", predicted: "Work", expected: "Work > Meetings", want: 0.3},
		{name: "flat match", predicted: "Finance", expected: "Finance", want: 1.0},
		{name: "flat mismatch", predicted: "Hockey", expected: "Finance", want: 0.0},
		{name: "predicted hierarchy expected flat", predicted: "Work > Meetings", expected: "Finance", want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := HierarchicalAccuracy{}.Evaluate(
				Outputs{Category: tt.predicted},
				Expected{Category: tt.expected},
			)
			if !approx(r.Score, tt.want) {
				t.Errorf("score = %v, want %v (%s)", r.Score, tt.want, r.Comment)
			}
		})
	}
}

func TestPatternDetection(t *testing.T) {
	tests := []struct {
		name  string
		got   Outputs
		want  Expected
		score float64
	}{
		{
			name:  "all detected with confident correct call",
			got:   Outputs{Category: "Work", Tone: "professional", Formality: "high", Confidence: 0.9},
			want:  Expected{Category: "Work", Tone: "professional", Formality: "high"},
			score: 1.0,
		},
		{
			name:  "tone synonym still counts",
			got:   Outputs{Category: "Work", Tone: "polished", Formality: "high", Confidence: 0.9},
			want:  Expected{Category: "Work", Tone: "formal", Formality: "high"},
			score: 1.0,
		},
		{
			name:  "category missed with high confidence",
			got:   Outputs{Category: "Hockey", Tone: "professional", Formality: "high", Confidence: 0.9},
			want:  Expected{Category: "Work", Tone: "professional", Formality: "high"},
			// detection 2/3 * 0.7 + overconfident 0.0 * 0.3
			score: 2.0 / 3.0 * 0.7,
		},
		{
			name:  "nothing detected, appropriately uncertain",
			got:   Outputs{Category: "Hockey", Tone: "urgent", Formality: "low", Confidence: 0.3},
			want:  Expected{Category: "Work", Tone: "formal", Formality: "high"},
			// detection 0 + uncertain 0.8 * 0.3
			score: 0.24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := PatternDetection{}.Evaluate(tt.got, tt.want)
			if !approx(r.Score, tt.score) {
				t.Errorf("score = %v, want %v (%s)", r.Score, tt.score, r.Comment)
			}
		})
	}
}

func TestConfidenceCalibration(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		predicted  string
		want       float64
	}{
		{name: "high and correct", confidence: 0.9, predicted: "Work", want: 1.0},
		{name: "high and incorrect", confidence: 0.9, predicted: "Hockey", want: 0.0},
		{name: "low and incorrect", confidence: 0.4, predicted: "Hockey", want: 0.8},
		{name: "low and correct", confidence: 0.4, predicted: "Work", want: 0.6},
		{name: "medium and correct", confidence: 0.7, predicted: "Work", want: 0.8},
		{name: "medium and incorrect", confidence: 0.7, predicted: "Hockey", want: 0.5},
		{name: "boundary 0.8 counts as high", confidence: 0.8, predicted: "Work", want: 1.0},
		{name: "boundary 0.6 counts as medium", confidence: 0.6, predicted: "Hockey", want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ConfidenceCalibration{}.Evaluate(
				Outputs{Category: tt.predicted, Confidence: tt.confidence},
				Expected{Category: "Work"},
			)
			if !approx(r.Score, tt.want) {
				t.Errorf("score = %v, want %v (%s)", r.Score, tt.want, r.Comment)
			}
		})
	}
}

func TestConsistency(t *testing.T) {
	tests := []struct {
		name      string
		category  string
		tone      string
		formality string
		want      float64
	}{
		{name: "work fully consistent", category: "Work > Meetings", tone: "professional", formality: "high", want: 1.0},
		{name: "hockey fully consistent", category: "Hockey", tone: "casual", formality: "low", want: 1.0},
		{name: "tone only", category: "Work", tone: "formal", formality: "low", want: 0.5},
		{name: "formality only", category: "Finance", tone: "casual", formality: "high", want: 0.5},
		{name: "fully inconsistent", category: "Work", tone: "casual", formality: "low", want: 0.0},
		{name: "substring tone matches", category: "Personal", tone: "very warm", formality: "low", want: 1.0},
		{name: "unknown category", category: "Travel", tone: "friendly", formality: "medium", want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Consistency{}.Evaluate(Outputs{
				Category:  tt.category,
				Tone:      tt.tone,
				Formality: tt.formality,
			}, Expected{})
			if !approx(r.Score, tt.want) {
				t.Errorf("score = %v, want %v (%s)", r.Score, tt.want, r.Comment)
			}
		})
	}
}

func TestResponseQuality(t *testing.T) {
	tests := []struct {
		name  string
		got   Outputs
		want  Expected
		score float64
	}{
		{
			name:  "everything right",
			got:   Outputs{Tone: "formal", Formality: "high", RequiresResponse: true},
			want:  Expected{Tone: "formal", Formality: "high", RequiresResponse: true},
			score: 1.0,
		},
		{
			name:  "tone in same group",
			got:   Outputs{Tone: "critical", Formality: "high", RequiresResponse: true},
			want:  Expected{Tone: "urgent", Formality: "high", RequiresResponse: true},
			score: 1.0,
		},
		{
			name:  "related tone pair",
			got:   Outputs{Tone: "formal", Formality: "high", RequiresResponse: true},
			want:  Expected{Tone: "casual", Formality: "high", RequiresResponse: true},
			// 0.7*0.4 + 1.0*0.4 + 1.0*0.2
			score: 0.88,
		},
		{
			name:  "adjacent formality",
			got:   Outputs{Tone: "formal", Formality: "medium", RequiresResponse: true},
			want:  Expected{Tone: "formal", Formality: "high", RequiresResponse: true},
			// 1.0*0.4 + 0.5*0.4 + 1.0*0.2
			score: 0.8,
		},
		{
			name:  "formality two levels off",
			got:   Outputs{Tone: "formal", Formality: "low", RequiresResponse: true},
			want:  Expected{Tone: "formal", Formality: "high", RequiresResponse: true},
			score: 0.6,
		},
		{
			name:  "response flag wrong",
			got:   Outputs{Tone: "formal", Formality: "high", RequiresResponse: false},
			want:  Expected{Tone: "formal", Formality: "high", RequiresResponse: true},
			score: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ResponseQuality{}.Evaluate(tt.got, tt.want)
			if !approx(r.Score, tt.score) {
				t.Errorf("score = %v, want %v (%s)", r.Score, tt.score, r.Comment)
			}
		})
	}
}

func TestDraftAppropriateness(t *testing.T) {
	tests := []struct {
		name      string
		expected  string
		tone      string
		formality string
		want      float64
	}{
		{name: "work register", expected: "Work > Project Alpha", tone: "professional", formality: "high", want: 1.0},
		{name: "work polite tone", expected: "Work", tone: "polite", formality: "medium", want: 1.0},
		{name: "hockey register", expected: "Hockey > Team A", tone: "casual", formality: "low", want: 1.0},
		{name: "tone only", expected: "Finance", tone: "formal", formality: "medium", want: 0.5},
		{name: "formality only", expected: "Organizational", tone: "casual", formality: "high", want: 0.5},
		{name: "wrong register", expected: "Work", tone: "casual", formality: "low", want: 0.0},
		{name: "no rules for category", expected: "Shopping", tone: "friendly", formality: "medium", want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DraftAppropriateness{}.Evaluate(
				Outputs{Tone: tt.tone, Formality: tt.formality},
				Expected{Category: tt.expected},
			)
			if !approx(r.Score, tt.want) {
				t.Errorf("score = %v, want %v (%s)", r.Score, tt.want, r.Comment)
			}
		})
	}
}

func TestParseClassification(t *testing.T) {
	response := `Category: Work > Project Alpha
Tone: Professional
Formality: High
Confidence: 0.85
Requires Response: Yes`

	got := ParseClassification(response)
	if got.Category != "Work > Project Alpha" {
		t.Errorf("Category = %q", got.Category)
	}
	if got.Tone != "professional" {
		t.Errorf("Tone = %q, want lowercased", got.Tone)
	}
	if got.Formality != "high" {
		t.Errorf("Formality = %q, want lowercased", got.Formality)
	}
	if !approx(got.Confidence, 0.85) {
		t.Errorf("Confidence = %v", got.Confidence)
	}
	if !got.RequiresResponse {
		t.Error("RequiresResponse = false, want true")
	}
	if got.Raw != response {
		t.Error("Raw response not preserved")
	}
}

func TestParseClassificationDefaults(t *testing.T) {
	got := ParseClassification("I'm not sure what this email is about.")
	if got.Category != "Unknown" {
		t.Errorf("Category = %q, want Unknown", got.Category)
	}
	if got.Tone != "unknown" || got.Formality != "unknown" {
		t.Errorf("Tone/Formality = %q/%q, want unknown", got.Tone, got.Formality)
	}
	if !approx(got.Confidence, 0.5) {
		t.Errorf("Confidence = %v, want 0.5", got.Confidence)
	}
	if got.RequiresResponse {
		t.Error("RequiresResponse = true, want false")
	}
}

func TestParseClassificationBadConfidence(t *testing.T) {
	got := ParseClassification("Confidence: very high")
	if !approx(got.Confidence, 0.5) {
		t.Errorf("Confidence = %v, want default 0.5", got.Confidence)
	}
}

func TestRun(t *testing.T) {
	cases := []Case{
		{
			ID:   "email_0001",
			Got:  Outputs{Category: "Work", Tone: "professional", Formality: "high", Confidence: 0.9, RequiresResponse: true},
			Want: Expected{Category: "Work", Tone: "professional", Formality: "high", RequiresResponse: true},
		},
		{
			ID:   "email_0002",
			Got:  Outputs{Category: "Hockey", Tone: "casual", Formality: "low", Confidence: 0.9},
			Want: Expected{Category: "Finance", Tone: "formal", Formality: "high", RequiresResponse: false},
		},
	}

	report := Run(cases, CategoryAccuracy{}, ConfidenceCalibration{})
	if report.Summary.Count != 2 {
		t.Fatalf("Count = %d, want 2", report.Summary.Count)
	}
	if len(report.Cases) != 2 || len(report.Cases[0].Results) != 2 {
		t.Fatalf("unexpected report shape: %+v", report)
	}

	// Case 1 scores 1.0 on both, case 2 scores 0.0 on both.
	if got := report.Summary.Scores["category_accuracy"]; !approx(got, 0.5) {
		t.Errorf("mean category_accuracy = %v, want 0.5", got)
	}
	if got := report.Summary.Scores["confidence_calibration"]; !approx(got, 0.5) {
		t.Errorf("mean confidence_calibration = %v, want 0.5", got)
	}
}

func TestRunDefaultsAndEmpty(t *testing.T) {
	report := Run(nil)
	if report.Summary.Count != 0 {
		t.Errorf("Count = %d, want 0", report.Summary.Count)
	}
	if len(report.Summary.Scores) != 0 {
		t.Errorf("empty batch should have no mean scores, got %v", report.Summary.Scores)
	}

	one := Run([]Case{{
		ID:   "email_0003",
		Got:  Outputs{Category: "Work", Tone: "professional", Formality: "high", Confidence: 0.9, RequiresResponse: true},
		Want: Expected{Category: "Work", Tone: "professional", Formality: "high", RequiresResponse: true},
	}})
	if len(one.Cases[0].Results) != len(Default()) {
		t.Errorf("default evaluator set not applied: %d results", len(one.Cases[0].Results))
	}
}
