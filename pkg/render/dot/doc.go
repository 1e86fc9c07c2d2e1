// Package dot renders category hierarchies as Graphviz node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz,
// where categories appear as boxes connected by arrows under a single
// inbox anchor. It is the export-oriented alternative to the mermaid
// text diagrams: SVG output can be saved directly or converted to PDF
// and PNG.
//
// # Usage
//
// Convert a forest to DOT format, then render to SVG:
//
//	src := dot.ToDOT(forest, dot.Options{Detailed: false})
//	svg, err := dot.RenderSVG(src)
//
// For PDF or PNG output, use the render conversion functions:
//
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package dot
