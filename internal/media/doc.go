// Package media wraps the ffmpeg/ffprobe command line tools for the
// operations Lectern needs: probing container metadata, validating sources
// against configured limits, extracting mono WAV audio and keyframe JPEGs,
// and splitting long recordings into fixed-duration chunks.
//
// All operations go through a Service whose command runner can be replaced
// in tests, so the package is exercised without the real binaries.
package media
