// Package analysis provides the fan-out analyzers that turn per-chunk
// artifacts (extracted audio, keyframes, transcript) into metrics.
//
// Four analyzer kinds exist: audio features, lexical engagement, visual
// keyframe statistics, and LLM-backed technical depth. Each implements the
// Analyzer interface so the pipeline can invoke them uniformly and
// substitute the documented default metrics when one fails. The defaults
// are neutral values, distinct from the all-zero metrics recorded for a
// chunk that never reached the fan-out stage.
package analysis
