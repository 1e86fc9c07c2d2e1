package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/inboxatlas/inboxatlas/pkg/dataset"
	"github.com/inboxatlas/inboxatlas/pkg/eval"
	"github.com/inboxatlas/inboxatlas/pkg/observability"
)

// evalOpts holds the command-line flags for the eval command.
type evalOpts struct {
	responses string  // path to the classifier responses file
	jsonOut   string  // optional path for the full JSON report
	threshold float64 // minimum mean score before the command fails
}

// newEvalCmd creates the eval command for scoring classifier output
// against a golden dataset.
func newEvalCmd() *cobra.Command {
	opts := evalOpts{}

	cmd := &cobra.Command{
		Use:   "eval [dataset.json]",
		Short: "Score classifier responses against a golden dataset",
		Long: `Eval pairs each golden example with the classifier's raw response,
parses the response into structured outputs, and scores every pair with
the offline evaluators: category accuracy, hierarchical accuracy,
pattern detection, confidence calibration, internal consistency,
response quality, and draft appropriateness.

The responses file is a JSON object mapping email ids to raw response
text, e.g. {"email_0001": "Category: Work > Meetings\nConfidence: 0.9"}.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.responses == "" {
				return fmt.Errorf("--responses is required")
			}
			return runEval(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.responses, "responses", "r", "", "JSON file mapping email ids to raw responses")
	cmd.Flags().StringVar(&opts.jsonOut, "json", "", "write the full report to this file")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "fail when any evaluator mean drops below this score")

	return cmd
}

// runEval loads the dataset and responses, scores every matched pair,
// and prints per-evaluator means.
func runEval(ctx context.Context, datasetPath string, opts *evalOpts) error {
	logger := loggerFromContext(ctx)

	examples, err := dataset.Load(datasetPath)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %d golden examples", len(examples))

	responses, err := loadResponses(opts.responses)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %d responses", len(responses))

	cases, missing := buildCases(examples, responses)
	if len(cases) == 0 {
		return fmt.Errorf("no responses match the dataset")
	}
	if missing > 0 {
		printWarning("%d examples have no response and were skipped", missing)
	}

	observability.Triage().OnEvalStart(ctx, len(cases))
	p := newProgress(logger)
	start := time.Now()

	report := eval.Run(cases)

	observability.Triage().OnEvalComplete(ctx, len(cases), time.Since(start), nil)
	p.done(fmt.Sprintf("Scored %d cases", len(cases)))

	printReport(report, opts.threshold)

	if opts.jsonOut != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.jsonOut, data, 0o644); err != nil {
			return err
		}
		printFile(opts.jsonOut)
	}

	return checkThreshold(report, opts.threshold)
}

// loadResponses reads the email id to raw response mapping.
func loadResponses(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var responses map[string]string
	if err := json.Unmarshal(data, &responses); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return responses, nil
}

// buildCases pairs golden examples with parsed responses. Examples
// without a response are counted, not scored.
func buildCases(examples []dataset.Example, responses map[string]string) ([]eval.Case, int) {
	var cases []eval.Case
	missing := 0
	for _, ex := range examples {
		raw, ok := responses[ex.Inputs.EmailID]
		if !ok {
			missing++
			continue
		}
		cases = append(cases, eval.Case{
			ID:   ex.Inputs.EmailID,
			Got:  eval.ParseClassification(raw),
			Want: ex.Outputs.Expected(),
		})
	}
	return cases, missing
}

// printReport prints per-evaluator mean scores, worst first.
func printReport(report eval.Report, threshold float64) {
	keys := make([]string, 0, len(report.Summary.Scores))
	for k := range report.Summary.Scores {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return report.Summary.Scores[keys[i]] < report.Summary.Scores[keys[j]]
	})

	printNewline()
	for _, k := range keys {
		score := report.Summary.Scores[k]
		line := fmt.Sprintf("%-24s %.3f", k, score)
		switch {
		case threshold > 0 && score < threshold:
			printError("%s", line)
		case score >= 0.8:
			printSuccess("%s", line)
		default:
			printInfo("%s", line)
		}
	}
	printNewline()
	printDetail("%d cases scored", report.Summary.Count)
}

// checkThreshold returns an error when any evaluator mean is below the
// configured threshold.
func checkThreshold(report eval.Report, threshold float64) error {
	if threshold <= 0 {
		return nil
	}
	for name, score := range report.Summary.Scores {
		if score < threshold {
			return fmt.Errorf("%s mean %.3f is below threshold %.3f", name, score, threshold)
		}
	}
	return nil
}
