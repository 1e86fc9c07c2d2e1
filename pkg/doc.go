// Package pkg provides the core libraries for inboxatlas email triage.
//
// # Overview
//
// inboxatlas keeps an AI-maintained map of an email inbox: a hierarchy of
// categories, the classifications that fill it, and the patterns and rules
// that shape draft responses. The pkg directory holds the reusable library
// code; the MCP server, HTTP API, and CLI under internal/ are thin layers
// over it.
//
// # Architecture
//
// The typical data flow through inboxatlas:
//
//	Email (via MCP tool calls)
//	         ↓
//	    [store] package (persist categories, classifications, patterns, rules, drafts)
//	         ↓
//	    [category] package (records → forest)
//	         ↓
//	    [render] package (mermaid, DOT, SVG/PNG/PDF output)
//
// # Main Packages
//
// [store] - Persistence backends behind a single Store interface: embedded
// SQLite for local use, Supabase REST for hosted deployments, MongoDB for
// self-hosted servers.
//
// [category] - The category hierarchy: flat records as stored, and the
// forest built from them for traversal and rendering.
//
// [render] - Visualization output. Mermaid text diagrams for chat surfaces,
// Graphviz node-link diagrams for SVG, PNG, and PDF export.
//
// [dataset] - Synthetic labeled inbox generation for offline evaluation.
//
// [eval] - Scoring of model triage responses against expected labels.
//
// [cache] - Response caching for the Supabase backend: filesystem, Redis,
// or disabled.
//
// [errors] - Error codes and input validation shared by the tool surface.
//
// [observability] - Hook points for tool, render, and HTTP instrumentation.
//
// [buildinfo] - Version metadata stamped at build time.
package pkg
