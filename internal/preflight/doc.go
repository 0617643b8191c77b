// Package preflight provides readiness checks for the external tools,
// filesystem paths, and services that Lectern depends on.
//
// These checks run in two contexts:
//   - The batch and analyze commands call RunAll before starting an
//     analysis run. If any check fails, the run halts instead of
//     discovering a missing tool several chunks in.
//   - The CLI "lectern check" command uses the same results to display
//     environment health.
//
// The LLM check is gated by its config toggle -- when the technical
// depth evaluator is disabled, no network check runs.
package preflight
