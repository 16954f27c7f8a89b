// Package pkg provides the libraries behind graphvis.
//
// # Overview
//
// Graphvis draws the undirected graph of relations that an adjacency list
// declares in both directions. The pkg directory is organized as:
//
//  1. [adjlist] - Parsing "A->B,C" lines and the reciprocity filter
//  2. [graph] - The node and edge store, components and node-link JSON
//  3. [layout] - The force simulation and graph-to-screen transforms
//  4. [render] - SVG, PNG, DOT and JSON output, optionally via Graphviz
//  5. [pipeline] - Orchestration (build → layout → render) with caching
//  6. [viewer] - The interactive session: dragging, camera and frames
//  7. [cache], [config], [watch], [observability], [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow through graphvis:
//
//	Adjacency list text
//	         ↓
//	    [adjlist] ─── one-way relations dropped
//	         ↓
//	    [graph] ──────── nodes with random position and color
//	         ↓
//	    [layout] ─────── force steps until settled
//	         ↓
//	    [render] or [viewer]
//
// The CLI (internal/cli) and the HTTP server (internal/server) are thin
// layers over [pipeline] and [viewer].
package pkg
