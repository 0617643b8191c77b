// Package language provides unified language code normalization.
//
// Transcription hints ("en", "eng", "English") are normalized to the
// ISO 639-1 form whisper accepts, and detected codes are mapped back to
// display names for reports.
package language
