package dataset

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateDistribution(t *testing.T) {
	examples := Generate(0, 42)
	if len(examples) != 340 {
		t.Fatalf("examples = %d, want 340", len(examples))
	}

	counts := make(map[string]int)
	for _, ex := range examples {
		counts[ex.Outputs.Category]++
	}

	want := map[string]int{
		"Work > Project Alpha": 40,
		"Work > Project Beta":  40,
		"Work > Meetings":      40,
		"Hockey > Team A":      30,
		"Hockey > Team B":      30,
		"Personal > Family":    25,
		"Personal > Friends":   25,
		"Finance":              30,
		"Shopping":             30,
		"Organizational":       30,
		"Travel":               20,
	}
	for cat, n := range want {
		if counts[cat] != n {
			t.Errorf("%s = %d, want %d", cat, counts[cat], n)
		}
	}
}

func TestGenerateLimitTruncates(t *testing.T) {
	full := Generate(0, 42)
	capped := Generate(300, 42)

	if len(capped) != 300 {
		t.Fatalf("capped = %d, want 300", len(capped))
	}
	for i := range capped {
		if capped[i].Inputs.EmailID != full[i].Inputs.EmailID {
			t.Fatalf("example %d differs from the uncapped run", i)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(50, 7)
	b := Generate(50, 7)
	if len(a) != 50 || len(b) != 50 {
		t.Fatalf("limit ignored: %d, %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Inputs != b[i].Inputs || a[i].Outputs != b[i].Outputs {
			t.Fatalf("example %d differs between runs with the same seed", i)
		}
	}

	c := Generate(50, 8)
	same := true
	for i := range a {
		if a[i].Inputs != c[i].Inputs {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical datasets")
	}
}

func TestGenerateExampleShape(t *testing.T) {
	for _, ex := range Generate(0, 1) {
		if !strings.HasPrefix(ex.Inputs.EmailID, "email_") {
			t.Fatalf("EmailID = %q", ex.Inputs.EmailID)
		}
		if ex.Inputs.From == "" || ex.Inputs.Subject == "" || ex.Inputs.Body == "" {
			t.Fatalf("incomplete inputs: %+v", ex.Inputs)
		}
		if strings.Contains(ex.Inputs.Subject, "%d") || strings.Contains(ex.Inputs.Subject, "%s") {
			t.Fatalf("unfilled placeholder in subject %q", ex.Inputs.Subject)
		}
		if strings.Contains(ex.Inputs.Body, "%s") {
			t.Fatalf("unfilled placeholder in body for %s", ex.Inputs.EmailID)
		}
		if ex.Outputs.Tone == "" || ex.Outputs.Formality == "" {
			t.Fatalf("missing labels: %+v", ex.Outputs)
		}

		hier := strings.Contains(ex.Outputs.Category, ">")
		if hier && !ex.Outputs.RequiresResponse {
			t.Errorf("%s should require a response", ex.Outputs.Category)
		}
		if ex.Outputs.Category == "Organizational" && !ex.Outputs.RequiresResponse {
			t.Error("organizational emails should require acknowledgment")
		}
		if ex.Outputs.Category == "Finance" && ex.Outputs.RequiresResponse {
			t.Error("finance emails should not require a response")
		}
	}
}

func TestLoadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	examples := Generate(10, 3)

	if err := Write(path, examples); err != nil {
		t.Fatalf("Write: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 10 {
		t.Fatalf("loaded = %d, want 10", len(loaded))
	}
	for i := range examples {
		if loaded[i] != examples[i] {
			t.Fatalf("example %d changed in round trip", i)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDistribution(t *testing.T) {
	examples := []Example{
		{Outputs: Outputs{Category: "Work > Meetings"}},
		{Outputs: Outputs{Category: "Work > Meetings"}},
		{Outputs: Outputs{Category: "Finance"}},
	}

	rows := Distribution(examples)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Category != "Finance" || rows[0].Count != 1 {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[1].Category != "Work > Meetings" || rows[1].Count != 2 {
		t.Errorf("rows[1] = %+v", rows[1])
	}
}

func TestOutputsExpected(t *testing.T) {
	o := Outputs{
		Category:         "Work > Meetings",
		Tone:             "professional",
		Formality:        "medium",
		ResponseLength:   "brief",
		RequiresResponse: true,
	}
	e := o.Expected()
	if e.Category != o.Category || e.Tone != o.Tone || e.Formality != o.Formality || !e.RequiresResponse {
		t.Errorf("Expected() = %+v", e)
	}
}
