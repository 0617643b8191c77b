// Package textutil provides text processing utilities for transcript
// tokenization and filename sanitization.
//
// The primary use cases are:
//   - Splitting transcripts into word and sentence tokens for the lexical
//     engagement analyzer
//   - Sanitizing file names into chunk identifier tokens
package textutil
