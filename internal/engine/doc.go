// Package engine executes workflow graphs.
//
// # Execution model
//
// A run starts at every event-classified trigger node of the graph; triggers
// execute concurrently and independently. Executing a node means resolving
// its input bindings against the run's current state (concurrently, since
// they are independent reads), coercing the merged values onto the
// behavior's input struct, invoking the behavior function, memoizing the
// result for the rest of the run, and then continuing according to the
// behavior's classification. A data edge is a pure read, never an execution
// trigger: an upstream node that flow has not reached, or that failed,
// resolves to an absent value rather than running or failing the reader.
//
// The classifications continue as follows:
//
//   - Function nodes fire their output-port connections without awaiting them.
//   - BooleanBranch nodes fire the port matching every true boolean flag of
//     their result, also without awaiting.
//   - Event nodes fire every connection of every port and wait for the whole
//     fan-out to finish.
//   - Loop nodes drive their own downstream flow through the Handle's
//     RunPort/ClearDownstream primitives; the engine adds nothing.
//
// Detached continuations are tracked by a run-level wait group, so Run
// returns only once the whole graph has gone quiet; within the graph a
// parent never waits for the branches it fired, and an error on one branch
// leaves its siblings running. Only event fan-out and explicit RunPort calls
// are join points.
//
// # Run state
//
// The graph is an immutable definition. All per-run node state (result,
// error, running flag) lives in a side table keyed by node id and owned by
// the run, so a single graph value can back any number of concurrent runs.
package engine
