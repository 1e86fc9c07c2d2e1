package eval

import (
	"fmt"
	"strings"
)

// CategoryAccuracy scores category predictions with tiered credit:
// 1.0 exact, 0.7 correct parent, 0.5 containment, 0.0 otherwise.
type CategoryAccuracy struct{}

// Name returns the result key.
func (CategoryAccuracy) Name() string { return "category_accuracy" }

// Evaluate compares predicted and expected category labels.
func (CategoryAccuracy) Evaluate(got Outputs, want Expected) Result {
	predicted := norm(got.Category)
	expected := norm(want.Category)

	if predicted == expected {
		return Result{
			Key:     "category_accuracy",
			Score:   1.0,
			Comment: fmt.Sprintf("perfect match: %q", expected),
		}
	}

	if parentOf(predicted) == parentOf(expected) {
		return Result{
			Key:     "category_accuracy",
			Score:   0.7,
			Comment: fmt.Sprintf("parent category correct, expected %q, got %q", expected, predicted),
		}
	}

	if strings.Contains(predicted, expected) || strings.Contains(expected, predicted) {
		return Result{
			Key:     "category_accuracy",
			Score:   0.5,
			Comment: fmt.Sprintf("partial match, expected %q, got %q", expected, predicted),
		}
	}

	return Result{
		Key:     "category_accuracy",
		Score:   0.0,
		Comment: fmt.Sprintf("incorrect category, expected %q, got %q", expected, predicted),
	}
}

// HierarchicalAccuracy scores the "parent > child" structure of a
// category label separately, so a correct subcategory still earns
// credit when the parent is wrong.
type HierarchicalAccuracy struct{}

// Name returns the result key.
func (HierarchicalAccuracy) Name() string { return "hierarchical_accuracy" }

// Evaluate compares the hierarchical structure of category labels.
//
// Scoring: 1.0 both levels match (or equal flat labels), 0.7 parent
// only, 0.5 child only, 0.3 expected hierarchy but got a flat label,
// 0.0 otherwise.
func (HierarchicalAccuracy) Evaluate(got Outputs, want Expected) Result {
	predicted := norm(got.Category)
	expected := norm(want.Category)

	predParts := strings.Split(predicted, ">")
	expParts := strings.Split(expected, ">")

	if len(predParts) > 1 && len(expParts) > 1 {
		predParent := strings.TrimSpace(predParts[0])
		predChild := strings.TrimSpace(predParts[1])
		expParent := strings.TrimSpace(expParts[0])
		expChild := strings.TrimSpace(expParts[1])

		switch {
		case predParent == expParent && predChild == expChild:
			return Result{Key: "hierarchical_accuracy", Score: 1.0, Comment: "perfect hierarchical match"}
		case predParent == expParent:
			return Result{
				Key:     "hierarchical_accuracy",
				Score:   0.7,
				Comment: fmt.Sprintf("parent correct, expected child %q, got %q", expChild, predChild),
			}
		case predChild == expChild:
			return Result{
				Key:     "hierarchical_accuracy",
				Score:   0.5,
				Comment: fmt.Sprintf("subcategory correct, expected parent %q, got %q", expParent, predParent),
			}
		}
	}

	if len(expParts) > 1 && len(predParts) == 1 {
		return Result{
			Key:     "hierarchical_accuracy",
			Score:   0.3,
			Comment: fmt.Sprintf("expected hierarchical category, got flat %q", predicted),
		}
	}

	if len(predParts) == 1 && len(expParts) == 1 && predicted == expected {
		return Result{Key: "hierarchical_accuracy", Score: 1.0, Comment: "correct flat category"}
	}

	return Result{
		Key:     "hierarchical_accuracy",
		Score:   0.0,
		Comment: fmt.Sprintf("structure mismatch, expected %q, got %q", expected, predicted),
	}
}
