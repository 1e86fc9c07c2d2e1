package mermaid

import (
	"fmt"
	"strings"

	"github.com/inboxatlas/inboxatlas/pkg/category"
)

// emptyDiagram is the fixed short-circuit output for an empty category
// collection. It is a literal, not a degenerate case of the general
// algorithm.
const emptyDiagram = "```mermaid\ngraph TD\n    inbox[Inbox - No categories yet]\n```"

// inboxAnchor is the synthetic root node every diagram is anchored at.
const inboxAnchor = "inbox"

// Render converts flat category records into a Mermaid diagram string.
// See [RenderForest] for the output contract.
func Render(records []category.Record) string {
	if len(records) == 0 {
		return emptyDiagram
	}
	return RenderForest(category.BuildForest(records))
}

// RenderForest emits a Mermaid diagram for a pre-built category forest.
//
// The traversal is depth-first pre-order with children in insertion
// order. Node identifiers are assigned from a single counter shared
// across the whole traversal, starting at zero on every call. Each node
// produces exactly one definition line and exactly one edge line; root
// categories connect from the synthetic inbox anchor.
func RenderForest(f *category.Forest) string {
	if f == nil || f.Len() == 0 {
		return emptyDiagram
	}

	lines := []string{
		"```mermaid",
		"graph TD",
		`    inbox["📬 Inbox"]`,
	}

	counter := 0
	for _, root := range f.Roots {
		rootID := emitSubtree(root, &lines, &counter)
		lines = append(lines, fmt.Sprintf("    %s --> %s", inboxAnchor, rootID))
	}

	lines = append(lines,
		"",
		"    classDef inboxStyle fill:#4A90E2,stroke:#2E5C8A,color:#fff",
		"    class inbox inboxStyle",
		"```",
	)

	return strings.Join(lines, "\n")
}

// emitSubtree writes the definition line for n, then recursively emits
// each child subtree followed by the parent→child edge. It returns the
// Mermaid identifier assigned to n.
func emitSubtree(n *category.Node, lines *[]string, counter *int) string {
	id := fmt.Sprintf("node%d", *counter)
	*counter++

	*lines = append(*lines, fmt.Sprintf(`    %s["%s"]`, id, n.Label()))

	for _, child := range n.Children {
		childID := emitSubtree(child, lines, counter)
		*lines = append(*lines, fmt.Sprintf("    %s --> %s", id, childID))
	}

	return id
}
