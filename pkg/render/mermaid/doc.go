// Package mermaid renders category hierarchies as Mermaid flowchart text.
//
// # Overview
//
// This package produces fenced ```mermaid blocks describing the inbox
// category tree as a top-down directed graph. The output is plain text
// suitable for chat surfaces, Markdown documents, and MCP tool results.
//
// # Usage
//
// Render a flat record collection directly:
//
//	text := mermaid.Render(records)
//
// Or render a pre-built forest:
//
//	text := mermaid.RenderForest(category.BuildForest(records))
//
// # Output Format
//
// Every diagram is anchored at a synthetic "inbox" node that is not part
// of the input. Category nodes are assigned sequential identifiers
// (node0, node1, ...) in depth-first pre-order, with siblings in input
// order. Node labels show the category name plus the email count in
// parentheses when the count is positive. An empty input collection
// short-circuits to a fixed placeholder diagram.
//
// Rendering is a pure function: no I/O, no shared state, deterministic
// for a fixed input order.
package mermaid
