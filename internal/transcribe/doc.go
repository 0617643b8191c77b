// Package transcribe wraps the whisper CLI for speech-to-text.
//
// Audio is transcribed from WAV files extracted by the media package.
// Whisper writes JSON output that is parsed into a transcript, a detected
// language, and a segment-averaged confidence derived from the per-segment
// no-speech probability.
package transcribe
