package analysis

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"os"
)

// Keyframe statistics parameters. Frames are reduced to a fixed grayscale
// grid before analysis so metric scales do not depend on source resolution.
const (
	visualGridSize = 64

	// sharpnessNorm maps Laplacian variance on the 0-255 gray scale into a
	// [0, 1] quality score; typical webcam footage lands around 100-600.
	sharpnessNorm = 500.0

	// motionNorm converts mean absolute inter-frame gray difference into a
	// [0, 1] movement value.
	motionNorm = 64.0

	// gestureMotionThreshold marks an inter-frame movement value as a
	// gesture event.
	gestureMotionThreshold = 0.25

	// eyeContactBrightnessRatio is how much brighter the center third must
	// be than the whole frame for the frame to count as camera-facing.
	eyeContactBrightnessRatio = 1.05
)

// VisualAnalyzer estimates presenter behavior from the extracted keyframes:
// frame quality from sharpness, pose stability and gesture rate from
// inter-frame motion, and an eye-contact share from a center-framing
// heuristic.
type VisualAnalyzer struct{}

// NewVisualAnalyzer constructs the keyframe statistics analyzer.
func NewVisualAnalyzer() *VisualAnalyzer {
	return &VisualAnalyzer{}
}

// Kind reports the analyzer family.
func (a *VisualAnalyzer) Kind() Kind { return KindVisual }

// Analyze computes VisualMetrics from the input keyframes.
func (a *VisualAnalyzer) Analyze(ctx context.Context, in Input) (Metrics, error) {
	if len(in.KeyframePaths) == 0 {
		return nil, errors.New("visual analyze: no keyframes")
	}

	var (
		qualitySum     float64
		eyeContactHits int
		movements      []float64
		gestureEvents  int
		previous       []float64
		analyzedFrames int
	)

	for _, path := range in.KeyframePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		grid, err := loadGrayGrid(path)
		if err != nil {
			return nil, fmt.Errorf("visual analyze: %w", err)
		}
		analyzedFrames++

		qualitySum += frameQuality(grid)
		if centerFraming(grid) {
			eyeContactHits++
		}

		if previous != nil {
			movement := frameMovement(previous, grid)
			movements = append(movements, movement)
			if movement > gestureMotionThreshold {
				gestureEvents++
			}
		}
		previous = grid
	}

	interval := in.KeyframeIntervalSeconds
	if interval <= 0 {
		interval = 1
	}
	durationMinutes := float64(analyzedFrames*interval) / 60

	gestureFrequency := 0.0
	if durationMinutes > 0 {
		gestureFrequency = float64(gestureEvents) / durationMinutes
	}

	movementMean := 0.5
	if len(movements) > 0 {
		movementMean, _ = meanStd(movements)
	}
	stability := clamp01(1 - movementMean)

	return VisualMetrics{
		EyeContactPercent: round2(float64(eyeContactHits) / float64(analyzedFrames) * 100),
		GestureFrequency:  round2(gestureFrequency),
		PoseStability:     round3(stability),
		QualityScore:      round3(qualitySum / float64(analyzedFrames)),
	}, nil
}

// loadGrayGrid decodes a JPEG and samples it down to a fixed grayscale grid
// with values in [0, 255].
func loadGrayGrid(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := jpeg.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return sampleGrayGrid(img), nil
}

func sampleGrayGrid(img image.Image) []float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	grid := make([]float64, visualGridSize*visualGridSize)
	for gy := 0; gy < visualGridSize; gy++ {
		srcY := bounds.Min.Y + gy*height/visualGridSize
		for gx := 0; gx < visualGridSize; gx++ {
			srcX := bounds.Min.X + gx*width/visualGridSize
			r, g, b, _ := img.At(srcX, srcY).RGBA()
			// ITU-R BT.601 luma on 16-bit channel values.
			luma := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257
			grid[gy*visualGridSize+gx] = luma
		}
	}
	return grid
}

// frameQuality scores sharpness via the variance of a 4-neighbor Laplacian.
func frameQuality(grid []float64) float64 {
	var laplacians []float64
	for y := 1; y < visualGridSize-1; y++ {
		for x := 1; x < visualGridSize-1; x++ {
			center := grid[y*visualGridSize+x]
			lap := 4*center -
				grid[(y-1)*visualGridSize+x] -
				grid[(y+1)*visualGridSize+x] -
				grid[y*visualGridSize+x-1] -
				grid[y*visualGridSize+x+1]
			laplacians = append(laplacians, lap)
		}
	}
	_, std := meanStd(laplacians)
	return clamp01(std * std / sharpnessNorm)
}

// centerFraming reports whether the middle third of the frame is
// meaningfully brighter than the frame overall, a cheap proxy for a
// presenter facing the camera.
func centerFraming(grid []float64) bool {
	frameMean, _ := meanStd(grid)
	if frameMean <= 0 {
		return false
	}
	lo := visualGridSize / 3
	hi := 2 * visualGridSize / 3
	var center []float64
	for y := lo; y < hi; y++ {
		for x := lo; x < hi; x++ {
			center = append(center, grid[y*visualGridSize+x])
		}
	}
	centerMean, _ := meanStd(center)
	return centerMean/frameMean >= eyeContactBrightnessRatio
}

// frameMovement returns the normalized mean absolute difference between two
// consecutive frame grids, clamped to [0, 1].
func frameMovement(prev, curr []float64) float64 {
	sum := 0.0
	for i := range curr {
		sum += math.Abs(curr[i] - prev[i])
	}
	return clamp01(sum / float64(len(curr)) / motionNorm)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
