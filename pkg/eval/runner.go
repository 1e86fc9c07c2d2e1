package eval

// Case pairs one prediction with its reference labels.
type Case struct {
	ID   string   `json:"id"`
	Got  Outputs  `json:"outputs"`
	Want Expected `json:"expected"`
}

// CaseResult is the full set of evaluator verdicts for one case.
type CaseResult struct {
	ID      string   `json:"id"`
	Results []Result `json:"results"`
}

// Summary aggregates scores across a batch.
type Summary struct {
	Count  int                `json:"count"`
	Scores map[string]float64 `json:"scores"`
}

// Report is the outcome of evaluating a batch of cases.
type Report struct {
	Cases   []CaseResult `json:"cases"`
	Summary Summary      `json:"summary"`
}

// Run scores every case with every evaluator and returns per-case
// results plus mean scores per evaluator key. With no evaluators given
// the default set is used.
func Run(cases []Case, evaluators ...Evaluator) Report {
	if len(evaluators) == 0 {
		evaluators = Default()
	}

	report := Report{
		Cases:   make([]CaseResult, 0, len(cases)),
		Summary: Summary{Count: len(cases), Scores: make(map[string]float64)},
	}

	totals := make(map[string]float64)
	for _, c := range cases {
		cr := CaseResult{ID: c.ID, Results: make([]Result, 0, len(evaluators))}
		for _, ev := range evaluators {
			r := ev.Evaluate(c.Got, c.Want)
			cr.Results = append(cr.Results, r)
			totals[r.Key] += r.Score
		}
		report.Cases = append(report.Cases, cr)
	}

	if len(cases) > 0 {
		for key, total := range totals {
			report.Summary.Scores[key] = total / float64(len(cases))
		}
	}
	return report
}
