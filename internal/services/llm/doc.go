// Package llm provides an OpenRouter-compatible chat client for LLM-backed
// transcript evaluation.
//
// # Evaluation Logic
//
// The client sends a lecture transcript (plus optional caller-supplied
// context) to the configured model with a structured prompt requesting JSON
// output. The response contains the detected domain, explained-concept
// count, correctness and depth scores in [0, 1], and an overall 0-100
// technical score.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteJSON: send system/user prompts, receive JSON content.
// Client.EvaluateTechnicalDepth: transcript-specific evaluation.
// Client.HealthCheck: verify API key and model availability.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors and network timeouts with
// exponential backoff (base 1s, max 10s, up to 5 attempts by default).
// Context cancellation aborts retries immediately.
//
// # Fallback
//
// Transport failures surface as regular errors; malformed model output is
// reported as *ParseError so callers can substitute a neutral evaluation
// instead of discarding the chunk.
package llm
