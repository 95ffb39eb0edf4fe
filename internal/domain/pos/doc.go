// Package pos holds the point-of-sale rules that do not depend on storage:
// the tax engine, the cart reducer, ledger filtering, refunds and reporting
// reductions, and the presence state machine. Everything here is
// deterministic; callers pass the evaluation time explicitly.
package pos
