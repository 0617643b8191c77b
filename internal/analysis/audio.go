package analysis

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"lectern/internal/textutil"
)

// Waveform framing parameters, chosen to match common speech-analysis
// defaults: ~128ms analysis windows advanced in 32ms hops at 16kHz.
const (
	audioFrameLength = 2048
	audioHopLength   = 512

	// pauseEnergyRatio marks a frame as silent when its RMS energy falls
	// below this fraction of the track's mean energy.
	pauseEnergyRatio = 0.3
	// minPauseSeconds is the shortest silence counted as a pause.
	minPauseSeconds = 0.5
)

// AudioAnalyzer derives delivery features from the extracted WAV track plus
// the transcript: speaking rate, pauses, stuttering, volume and pitch
// statistics.
type AudioAnalyzer struct{}

// NewAudioAnalyzer constructs the audio feature analyzer.
func NewAudioAnalyzer() *AudioAnalyzer {
	return &AudioAnalyzer{}
}

// Kind reports the analyzer family.
func (a *AudioAnalyzer) Kind() Kind { return KindAudio }

// Analyze computes AudioMetrics from the input's audio track.
func (a *AudioAnalyzer) Analyze(ctx context.Context, in Input) (Metrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	samples, sampleRate, err := loadWAV(in.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("audio analyze: %w", err)
	}
	if len(samples) == 0 || sampleRate <= 0 {
		return nil, errors.New("audio analyze: empty audio track")
	}
	duration := float64(len(samples)) / float64(sampleRate)

	energies := frameRMS(samples)
	volumeMean, volumeStd := meanStd(energies)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pauseCount, avgPause := detectPauses(energies, sampleRate)
	pitchMean, pitchStd := estimatePitch(samples, energies, sampleRate)

	words := textutil.Words(in.Transcript)
	speakingRate := 0.0
	if duration > 0 {
		speakingRate = float64(len(words)) / duration * 60
	}

	return AudioMetrics{
		SpeakingRate:     round2(speakingRate),
		PauseCount:       pauseCount,
		AvgPauseDuration: round2(avgPause),
		StutterCount:     countStutters(words),
		VolumeMean:       round4(volumeMean),
		VolumeStd:        round4(volumeStd),
		PitchMean:        round2(pitchMean),
		PitchStd:         round2(pitchStd),
	}, nil
}

// loadWAV reads a PCM WAV file into normalized samples in [-1, 1]. Only
// 16-bit mono PCM is supported, which is exactly what the extraction stage
// produces.
func loadWAV(path string) ([]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	var riff [12]byte
	if _, err := io.ReadFull(file, riff[:]); err != nil {
		return nil, 0, fmt.Errorf("read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, 0, errors.New("not a WAV file")
	}

	var (
		sampleRate    int
		bitsPerSample int
		channels      int
		data          []byte
	)
	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(file, chunkHeader[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, 0, fmt.Errorf("read chunk header: %w", err)
		}
		chunkID := string(chunkHeader[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(chunkHeader[4:8]))

		switch chunkID {
		case "fmt ":
			fmtChunk := make([]byte, chunkSize)
			if _, err := io.ReadFull(file, fmtChunk); err != nil {
				return nil, 0, fmt.Errorf("read fmt chunk: %w", err)
			}
			audioFormat := int(binary.LittleEndian.Uint16(fmtChunk[0:2]))
			channels = int(binary.LittleEndian.Uint16(fmtChunk[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(fmtChunk[14:16]))
			if audioFormat != 1 {
				return nil, 0, fmt.Errorf("unsupported WAV format %d (want PCM)", audioFormat)
			}
		case "data":
			data = make([]byte, chunkSize)
			if _, err := io.ReadFull(file, data); err != nil {
				return nil, 0, fmt.Errorf("read data chunk: %w", err)
			}
		default:
			if _, err := file.Seek(chunkSize+chunkSize%2, io.SeekCurrent); err != nil {
				return nil, 0, fmt.Errorf("skip chunk %q: %w", chunkID, err)
			}
		}
		if sampleRate > 0 && data != nil {
			break
		}
	}

	if sampleRate == 0 || data == nil {
		return nil, 0, errors.New("WAV missing fmt or data chunk")
	}
	if bitsPerSample != 16 || channels != 1 {
		return nil, 0, fmt.Errorf("unsupported WAV layout: %d-bit %d-channel (want 16-bit mono)", bitsPerSample, channels)
	}

	samples := make([]float64, len(data)/2)
	for i := range samples {
		raw := int16(binary.LittleEndian.Uint16(data[2*i : 2*i+2]))
		samples[i] = float64(raw) / 32768
	}
	return samples, sampleRate, nil
}

// frameRMS returns the RMS energy of each analysis frame.
func frameRMS(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	frames := 1 + (max(len(samples)-audioFrameLength, 0))/audioHopLength
	energies := make([]float64, 0, frames)
	for start := 0; start < len(samples); start += audioHopLength {
		end := start + audioFrameLength
		if end > len(samples) {
			end = len(samples)
		}
		sum := 0.0
		for _, s := range samples[start:end] {
			sum += s * s
		}
		energies = append(energies, math.Sqrt(sum/float64(end-start)))
		if end == len(samples) {
			break
		}
	}
	return energies
}

// detectPauses counts silences longer than minPauseSeconds and returns the
// count plus the mean pause duration in seconds.
func detectPauses(energies []float64, sampleRate int) (int, float64) {
	if len(energies) == 0 {
		return 0, 0
	}
	mean, _ := meanStd(energies)
	threshold := mean * pauseEnergyRatio

	hopSeconds := float64(audioHopLength) / float64(sampleRate)
	count := 0
	total := 0.0
	runStart := -1
	flush := func(end int) {
		if runStart < 0 {
			return
		}
		duration := float64(end-runStart) * hopSeconds
		if duration > minPauseSeconds {
			count++
			total += duration
		}
		runStart = -1
	}
	for i, e := range energies {
		if e < threshold {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flush(i)
	}
	flush(len(energies))

	if count == 0 {
		return 0, 0
	}
	return count, total / float64(count)
}

// estimatePitch approximates the fundamental frequency per voiced frame via
// the zero-crossing rate and returns the mean and standard deviation in Hz.
// Crude next to a real pitch tracker, but stable enough for the variation
// signal the scoring engine consumes.
func estimatePitch(samples, energies []float64, sampleRate int) (float64, float64) {
	if len(energies) == 0 {
		return 0, 0
	}
	energyMean, _ := meanStd(energies)
	voicedThreshold := energyMean * pauseEnergyRatio

	var pitches []float64
	for frame, energy := range energies {
		if energy < voicedThreshold {
			continue
		}
		start := frame * audioHopLength
		end := start + audioFrameLength
		if end > len(samples) {
			end = len(samples)
		}
		if end-start < 2 {
			continue
		}
		crossings := 0
		for i := start + 1; i < end; i++ {
			if (samples[i-1] < 0) != (samples[i] < 0) {
				crossings++
			}
		}
		pitch := float64(crossings) * float64(sampleRate) / (2 * float64(end-start))
		if pitch > 0 {
			pitches = append(pitches, pitch)
		}
	}
	return meanStd(pitches)
}

// countStutters counts immediately repeated words ("the the", "so so").
func countStutters(words []string) int {
	count := 0
	for i := 1; i < len(words); i++ {
		if words[i] == words[i-1] {
			count++
		}
	}
	return count
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
