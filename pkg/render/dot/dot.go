package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/inboxatlas/inboxatlas/pkg/category"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes category identifiers in node labels.
	// When false, only the name and email count are shown.
	Detailed bool
}

// ToDOT converts a category forest to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// The layout mirrors the mermaid output: a single inbox anchor at the
// top, with one box per category and one edge per parent/child link.
// Traversal is depth-first pre-order with siblings in input order.
func ToDOT(f *category.Forest, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph inbox {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if f == nil || f.Len() == 0 {
		buf.WriteString("  \"inbox\" [label=\"Inbox - No categories yet\", style=\"rounded,filled\", fillcolor=\"#4A90E2\", fontcolor=white];\n")
		buf.WriteString("}\n")
		return buf.String()
	}

	buf.WriteString("  \"inbox\" [label=\"📬 Inbox\", style=\"rounded,filled\", fillcolor=\"#4A90E2\", fontcolor=white];\n")

	counter := 0
	var edges []string
	for _, root := range f.Roots {
		rootID := writeSubtree(&buf, root, opts, &counter, &edges)
		edges = append(edges, fmt.Sprintf("  \"inbox\" -> %q;\n", rootID))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeSubtree(buf *bytes.Buffer, n *category.Node, opts Options, counter *int, edges *[]string) string {
	id := fmt.Sprintf("node%d", *counter)
	*counter++

	fmt.Fprintf(buf, "  %q [label=%q];\n", id, fmtLabel(n, opts.Detailed))

	for _, child := range n.Children {
		childID := writeSubtree(buf, child, opts, counter, edges)
		*edges = append(*edges, fmt.Sprintf("  %q -> %q;\n", id, childID))
	}

	return id
}

func fmtLabel(n *category.Node, detailed bool) string {
	if !detailed {
		return n.Label()
	}
	return n.Label() + "\n" + "id: " + n.ID
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so the diagram scales
// to its container instead of using Graphviz's fixed point sizes.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
