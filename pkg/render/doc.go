// Package render provides visualization rendering for category hierarchies.
//
// # Overview
//
// This package contains the rendering surfaces that turn an inbox
// category forest into shareable output. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Mermaid text diagrams (in [mermaid] subpackage)
//   - Graphviz node-link diagrams (in [dot] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := dot.RenderSVG(src)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Mermaid Diagrams
//
// The [mermaid] subpackage emits fenced text diagrams for chat and
// Markdown surfaces. This is the format the MCP diagram tool returns.
//
// # Node-Link Diagrams
//
// The [dot] subpackage renders the category tree as a directed graph
// using Graphviz, for SVG, PDF, and PNG export from the CLI.
//
//	src := dot.ToDOT(forest, dot.Options{})
//	svg, err := dot.RenderSVG(src)
//
// [mermaid]: github.com/inboxatlas/inboxatlas/pkg/render/mermaid
// [dot]: github.com/inboxatlas/inboxatlas/pkg/render/dot
package render
