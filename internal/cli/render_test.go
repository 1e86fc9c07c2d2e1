package cli

import (
	"strings"
	"testing"

	"github.com/inboxatlas/inboxatlas/pkg/category"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to mermaid", "", []string{"mermaid"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "mermaid,dot,svg", []string{"mermaid", "dot", "svg"}},
		{"raster formats", "png,pdf", []string{"png", "pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid mermaid", []string{"mermaid"}, false},
		{"valid dot", []string{"dot"}, false},
		{"valid multiple", []string{"mermaid", "svg", "png"}, false},
		{"valid all", []string{"mermaid", "dot", "svg", "png", "pdf"}, false},
		{"invalid format", []string{"ascii"}, true},
		{"mixed valid invalid", []string{"mermaid", "ascii"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derived from input", "", "inbox.json", "inbox"},
		{"store fallback", "", "", "inbox"},
		{"explicit output", "out/diagram", "inbox.json", "out/diagram"},
		{"strips format extension", "diagram.svg", "inbox.json", "diagram"},
		{"keeps unknown extension", "diagram.txt", "inbox.json", "diagram.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderDiagramMermaid(t *testing.T) {
	records := []category.Record{
		{ID: 1, Name: "Work"},
		{ID: 2, Name: "Project Alpha", Parent: 1, EmailCount: 40},
	}

	data, err := renderDiagram(records, "mermaid", &renderOpts{})
	if err != nil {
		t.Fatalf("renderDiagram: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "```mermaid") {
		t.Error("missing mermaid fence")
	}
	if !strings.Contains(out, "Project Alpha (40)") {
		t.Errorf("missing labeled node:\n%s", out)
	}
}

func TestRenderDiagramDot(t *testing.T) {
	records := []category.Record{{ID: 1, Name: "Work"}}

	data, err := renderDiagram(records, "dot", &renderOpts{})
	if err != nil {
		t.Fatalf("renderDiagram: %v", err)
	}
	if !strings.Contains(string(data), "digraph inbox") {
		t.Errorf("not DOT output:\n%s", data)
	}
}

func TestSubtreeRecords(t *testing.T) {
	records := []category.Record{
		{ID: 1, Name: "Work"},
		{ID: 2, Name: "Project Alpha", Parent: 1, EmailCount: 40},
		{ID: 3, Name: "Meetings", Parent: 1, EmailCount: 40},
		{ID: 4, Name: "Hockey"},
		{ID: 5, Name: "Team A", Parent: 4, EmailCount: 30},
	}

	got := subtreeRecords(records, "Work")
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(got), got)
	}
	for _, r := range got {
		if r.Name == "Hockey" || r.Name == "Team A" {
			t.Errorf("record %q should be filtered out", r.Name)
		}
		if r.Name == "Work" && r.Parent != nil {
			t.Error("subtree root should lose its parent link")
		}
	}

	// Unknown name keeps everything.
	if got := subtreeRecords(records, "Nope"); len(got) != len(records) {
		t.Errorf("unknown name: got %d records, want %d", len(got), len(records))
	}
}
