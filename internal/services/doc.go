// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp batch IDs, chunk IDs, and stage names for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across stages and analyzers.
//
// Use these helpers when wiring new stage or analyzer logic so operational
// behaviour (error handling, observability) stays uniform across the pipeline.
package services
