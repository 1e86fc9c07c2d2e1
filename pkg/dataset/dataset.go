// Package dataset generates and loads labeled email corpora for
// offline evaluation. A dataset is a list of examples, each pairing a
// synthetic but realistic email with the triage labels it should
// receive.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/inboxatlas/inboxatlas/pkg/eval"
)

// Inputs is the email presented to the triage agent.
type Inputs struct {
	EmailID        string `json:"email_id"`
	From           string `json:"from"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	Date           string `json:"date"`
	HasAttachments bool   `json:"has_attachments"`
}

// Outputs is the reference labels for an example.
type Outputs struct {
	Category         string `json:"expected_category"`
	Tone             string `json:"expected_tone"`
	Formality        string `json:"expected_formality"`
	ResponseLength   string `json:"expected_response_length"`
	RequiresResponse bool   `json:"requires_response"`
}

// Expected converts the labels into the evaluator's reference type.
func (o Outputs) Expected() eval.Expected {
	return eval.Expected{
		Category:         o.Category,
		Tone:             o.Tone,
		Formality:        o.Formality,
		RequiresResponse: o.RequiresResponse,
	}
}

// Example is one labeled email.
type Example struct {
	Inputs  Inputs  `json:"inputs"`
	Outputs Outputs `json:"outputs"`
}

// Load reads a dataset from a JSON file.
func Load(path string) ([]Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var examples []Example
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return examples, nil
}

// Write saves a dataset to a JSON file.
func Write(path string, examples []Example) error {
	data, err := json.MarshalIndent(examples, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

// CategoryCount is one row of a dataset distribution.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Distribution counts examples per expected category, sorted by name.
func Distribution(examples []Example) []CategoryCount {
	counts := make(map[string]int)
	for _, ex := range examples {
		counts[ex.Outputs.Category]++
	}

	rows := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		rows = append(rows, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows
}
