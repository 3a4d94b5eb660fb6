// Package registry provides the central behavior catalog for the engine.
//
// The Registry stores mappings between the stable identity strings used in
// workflow definitions (e.g., "math.add") and the compiled Go functions that
// implement each behavior, together with the metadata the engine needs to
// bind a graph node to that function: the behavior's classification, its
// declared output flow ports, and the role of every parameter (data port,
// literal field, or engine-injected).
//
// Behaviors are registered by modules at process start and validated eagerly,
// so a mismatch between a behavior's declared metadata and its Go signature
// is caught before any workflow runs. Lookup is by identity string only;
// there is no runtime type-name resolution.
package registry
