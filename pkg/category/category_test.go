package category

import (
	"testing"
)

func TestBuildForestLinksChildren(t *testing.T) {
	records := []Record{
		{ID: "1", Name: "Work", EmailCount: 45},
		{ID: "2", Name: "Project Alpha", Parent: "1", EmailCount: 20},
		{ID: "3", Name: "Hockey", EmailCount: 12},
	}

	f := BuildForest(records)

	if f.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", f.Len())
	}
	if len(f.Roots) != 2 {
		t.Fatalf("len(Roots) = %d, want 2", len(f.Roots))
	}
	if f.Roots[0].Name != "Work" || f.Roots[1].Name != "Hockey" {
		t.Errorf("root order = [%s, %s], want [Work, Hockey]", f.Roots[0].Name, f.Roots[1].Name)
	}

	work := f.Get("1")
	if len(work.Children) != 1 || work.Children[0].Name != "Project Alpha" {
		t.Errorf("Work children = %v, want [Project Alpha]", work.Children)
	}
}

func TestBuildForestNumericIDs(t *testing.T) {
	// JSON decoding produces float64 identifiers; database rows produce
	// int64. Both must resolve to the same canonical key.
	records := []Record{
		{ID: float64(1), Name: "Work"},
		{ID: int64(2), Name: "Meetings", Parent: float64(1)},
	}

	f := BuildForest(records)

	if len(f.Roots) != 1 {
		t.Fatalf("len(Roots) = %d, want 1", len(f.Roots))
	}
	if got := len(f.Get("1").Children); got != 1 {
		t.Errorf("children of node 1 = %d, want 1", got)
	}
}

func TestBuildForestDanglingParent(t *testing.T) {
	records := []Record{
		{ID: "1", Name: "Orphan", Parent: "missing"},
	}

	f := BuildForest(records)

	if len(f.Roots) != 1 || f.Roots[0].Name != "Orphan" {
		t.Fatalf("dangling parent should become root, got roots %v", f.Roots)
	}
}

func TestBuildForestSelfParent(t *testing.T) {
	records := []Record{
		{ID: "1", Name: "Loop", Parent: "1"},
	}

	f := BuildForest(records)

	if len(f.Roots) != 1 {
		t.Fatalf("self-parented record should become root, got %d roots", len(f.Roots))
	}
	if len(f.Roots[0].Children) != 0 {
		t.Errorf("self-parented record must not become its own child")
	}
}

func TestBuildForestAbsentParentVariants(t *testing.T) {
	tests := []struct {
		name   string
		parent any
	}{
		{name: "nil", parent: nil},
		{name: "empty string", parent: ""},
		{name: "zero int", parent: 0},
		{name: "zero float", parent: float64(0)},
		{name: "false", parent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := BuildForest([]Record{{ID: "1", Name: "Top", Parent: tt.parent}})
			if len(f.Roots) != 1 {
				t.Errorf("parent %v should mean root placement, got %d roots", tt.parent, len(f.Roots))
			}
		})
	}
}

func TestBuildForestDuplicateIDReplacesInPlace(t *testing.T) {
	records := []Record{
		{ID: "1", Name: "First", EmailCount: 1},
		{ID: "2", Name: "Second", EmailCount: 2},
		{ID: "1", Name: "Replacement", EmailCount: 9},
	}

	f := BuildForest(records)

	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
	// The replacement keeps the original position.
	if f.Roots[0].Name != "Replacement" {
		t.Errorf("Roots[0].Name = %s, want Replacement", f.Roots[0].Name)
	}
	if f.Roots[0].EmailCount != 9 {
		t.Errorf("Roots[0].EmailCount = %d, want 9", f.Roots[0].EmailCount)
	}
	if f.Roots[1].Name != "Second" {
		t.Errorf("Roots[1].Name = %s, want Second", f.Roots[1].Name)
	}
}

func TestBuildForestSiblingOrder(t *testing.T) {
	records := []Record{
		{ID: "p", Name: "Parent"},
		{ID: "a", Name: "Alpha", Parent: "p"},
		{ID: "b", Name: "Beta", Parent: "p"},
	}

	f := BuildForest(records)
	parent := f.Get("p")
	if len(parent.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(parent.Children))
	}
	if parent.Children[0].Name != "Alpha" || parent.Children[1].Name != "Beta" {
		t.Errorf("sibling order = [%s, %s], want input order [Alpha, Beta]",
			parent.Children[0].Name, parent.Children[1].Name)
	}

	// Reversing sibling order reorders children but never restructures.
	reversed := BuildForest([]Record{records[0], records[2], records[1]})
	rp := reversed.Get("p")
	if rp.Children[0].Name != "Beta" || rp.Children[1].Name != "Alpha" {
		t.Errorf("reversed sibling order = [%s, %s], want [Beta, Alpha]",
			rp.Children[0].Name, rp.Children[1].Name)
	}
	if len(reversed.Roots) != 1 {
		t.Errorf("reordering must not change tree structure")
	}
}

func TestNodeLabel(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{name: "positive count", node: Node{Name: "Work", EmailCount: 45}, expected: "Work (45)"},
		{name: "zero count", node: Node{Name: "Drafts", EmailCount: 0}, expected: "Drafts"},
		{name: "empty name", node: Node{Name: "", EmailCount: 0}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Label(); got != tt.expected {
				t.Errorf("Label() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestForestStats(t *testing.T) {
	records := []Record{
		{ID: "1", Name: "Work", EmailCount: 10},
		{ID: "2", Name: "Alpha", Parent: "1", EmailCount: 5},
		{ID: "3", Name: "Deep", Parent: "2", EmailCount: 1},
	}

	f := BuildForest(records)

	if got := f.TotalEmails(); got != 16 {
		t.Errorf("TotalEmails() = %d, want 16", got)
	}
	if got := f.MaxDepth(); got != 3 {
		t.Errorf("MaxDepth() = %d, want 3", got)
	}

	empty := BuildForest(nil)
	if got := empty.MaxDepth(); got != 0 {
		t.Errorf("empty MaxDepth() = %d, want 0", got)
	}
}

func TestCoerceID(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "nil", input: nil, expected: ""},
		{name: "string", input: "abc", expected: "abc"},
		{name: "int", input: 7, expected: "7"},
		{name: "int64", input: int64(42), expected: "42"},
		{name: "integral float", input: float64(3), expected: "3"},
		{name: "fractional float", input: 3.5, expected: "3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceID(tt.input); got != tt.expected {
				t.Errorf("CoerceID(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCoerceCount(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int
	}{
		{name: "nil", input: nil, expected: 0},
		{name: "int", input: 12, expected: 12},
		{name: "float", input: float64(8), expected: 8},
		{name: "numeric string", input: "4", expected: 4},
		{name: "garbage string", input: "lots", expected: 0},
		{name: "negative clamps", input: -3, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceCount(tt.input); got != tt.expected {
				t.Errorf("CoerceCount(%v) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}
