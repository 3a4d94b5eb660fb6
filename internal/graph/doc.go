// Package graph defines the workflow definition model: typed nodes connected
// through named output ports.
//
// # Structure
//
// A Graph owns a set of Nodes addressed by string id. Each node references a
// registered behavior by identity string, carries literal field values and
// input bindings (literals or path expressions into upstream results), and
// declares output ports whose connections point at downstream nodes.
//
// Nodes are stored arena-style and refer to each other only by id, never by
// pointer, so back-edges (loop bodies that reconnect into earlier nodes) are
// ordinary references with no ownership concerns. Cycles are legal at this
// layer; the engine's per-run memoization keeps traversal finite.
//
// # Mutability
//
// A Graph is a definition, not a run. It holds no execution state: results,
// errors, and running flags live in a run-scoped side table owned by the
// engine, so one Graph value can back any number of concurrent runs.
//
// # Serialization
//
// Graphs round-trip losslessly through JSON (and YAML for file stores); see
// codec.go. The HCL authoring dialect lives in internal/hclgraph.
package graph
